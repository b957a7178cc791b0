package scriptruntime

import "strings"

// Namespace is a module's mutable global scope: an insertion-ordered
// mapping from name to value, populated while the module body executes.
// During a cyclic require the namespace of the in-progress module is
// observed in its partially populated form.
type Namespace struct {
	keys   []string
	values map[string]any
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{values: make(map[string]any)}
}

// Get returns the value bound to name.
func (n *Namespace) Get(name string) (any, bool) {
	v, ok := n.values[name]
	return v, ok
}

// Set binds name to value, appending to the key order on first write.
func (n *Namespace) Set(name string, value any) {
	if _, ok := n.values[name]; !ok {
		n.keys = append(n.keys, name)
	}
	n.values[name] = value
}

// Has reports whether name is bound.
func (n *Namespace) Has(name string) bool {
	_, ok := n.values[name]
	return ok
}

// Delete removes a binding and reports whether it existed.
func (n *Namespace) Delete(name string) bool {
	if _, ok := n.values[name]; !ok {
		return false
	}
	delete(n.values, name)
	for i, k := range n.keys {
		if k == name {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the bound names in insertion order.
func (n *Namespace) Keys() []string {
	keys := make([]string, len(n.keys))
	copy(keys, n.keys)
	return keys
}

// Len returns the number of bindings.
func (n *Namespace) Len() int { return len(n.values) }

// Exported returns the public bindings: every entry whose name does not
// start with an underscore. Callers merge the result into their own scope
// explicitly; the namespace itself is never reflected into caller scope.
func (n *Namespace) Exported() map[string]any {
	out := make(map[string]any)
	for _, k := range n.keys {
		if strings.HasPrefix(k, "_") {
			continue
		}
		out[k] = n.values[k]
	}
	return out
}
