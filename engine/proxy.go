package engine

import (
	"github.com/dop251/goja"

	scriptruntime "github.com/wippyai/script-runtime"
)

// namespaceObject adapts a module namespace to goja's DynamicObject so a
// script sees the namespace as a plain object while every read and write
// goes through the Go-side bindings. The view is live: entries written by
// an in-progress module body are visible to a cyclic require immediately.
type namespaceObject struct {
	eng *Engine
	ns  *scriptruntime.Namespace
}

var _ goja.DynamicObject = (*namespaceObject)(nil)

func (o *namespaceObject) Get(key string) goja.Value {
	v, ok := o.ns.Get(key)
	if !ok {
		return goja.Undefined()
	}
	return o.eng.toValue(v)
}

func (o *namespaceObject) Set(key string, val goja.Value) bool {
	o.ns.Set(key, val.Export())
	return true
}

func (o *namespaceObject) Has(key string) bool {
	return o.ns.Has(key)
}

func (o *namespaceObject) Delete(key string) bool {
	return o.ns.Delete(key)
}

func (o *namespaceObject) Keys() []string {
	return o.ns.Keys()
}
