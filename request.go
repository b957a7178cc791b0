package scriptruntime

// Request describes a single resolution attempt: resolve Text starting
// from Dir, consulting SearchPaths after origin-relative lookup, on behalf
// of Context. A Request is immutable once constructed; retries build a
// fresh Request rather than mutating an old one.
type Request struct {
	text        string
	dir         string
	searchPaths []string
	context     Context
}

// NewRequest constructs a Request. The text is the raw request string
// (relative path, bare name or scoped name), dir the absolute resolution
// base and searchPaths the ordered extra directories searched after
// origin-relative lookup.
func NewRequest(text, dir string, searchPaths []string, ctx Context) *Request {
	sp := make([]string, len(searchPaths))
	copy(sp, searchPaths)
	return &Request{
		text:        text,
		dir:         dir,
		searchPaths: sp,
		context:     ctx,
	}
}

// Text returns the raw request string.
func (r *Request) Text() string { return r.text }

// Dir returns the resolution base directory.
func (r *Request) Dir() string { return r.dir }

// SearchPaths returns a copy of the extra search directories.
func (r *Request) SearchPaths() []string {
	sp := make([]string, len(r.searchPaths))
	copy(sp, r.searchPaths)
	return sp
}

// Context returns the issuing engine.
func (r *Request) Context() Context { return r.context }

func (r *Request) String() string { return r.text }
