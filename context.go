package rush

// Context is a lexical scope frame: a name-to-value mapping plus an
// optional parent. Lookups walk up through parents; writes always land in
// the local frame, so an inner scope shadows an outer one without touching
// it. The root context (no parent) carries the standard library and
// constants.
//
// A Context is not safe for concurrent use; the core is single-threaded by
// design.
type Context struct {
	parent *Context
	vars   map[string]Value
}

// newContext creates a context with the given parent (nil for a root). See
// the package-level NewRootContext (api.go) for a root context pre-seeded
// with the standard library.
func newContext(parent *Context) *Context {
	return &Context{parent: parent, vars: make(map[string]Value)}
}

// Child returns a new context whose parent is c. Lambda invocations and
// each iteration of map/filter/reduce/etc. create a fresh child this way.
func (c *Context) Child() *Context {
	return newContext(c)
}

// Get resolves name by walking from c up through parents. The second return
// value is false if no frame in the chain binds the name.
func (c *Context) Get(name string) (Value, bool) {
	for frame := c; frame != nil; frame = frame.parent {
		if v, ok := frame.vars[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Set writes name=value into c's own frame, shadowing (but not touching)
// any binding of the same name in a parent frame.
func (c *Context) Set(name string, value Value) {
	c.vars[name] = value
}

// Has reports whether name is bound in c or any of its ancestors.
func (c *Context) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// defineNative registers a native pure function under name.
func (c *Context) defineNative(name string, arity Arity, fn NativeFunc) {
	c.Set(name, FunctionValue(&Function{
		kind:   fnNative,
		arity:  arity,
		native: fn,
		name:   name,
	}))
}

// defineNativeCtx registers a native function that also receives the
// calling context, used by functions that need to invoke a callback
// argument (map, filter, reduce, sortby, sub with a function replacement).
func (c *Context) defineNativeCtx(name string, arity Arity, fn NativeCtxFunc) {
	c.Set(name, FunctionValue(&Function{
		kind:      fnNativeCtx,
		arity:     arity,
		nativeCtx: fn,
		name:      name,
	}))
}
