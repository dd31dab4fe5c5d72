package rush

import (
	"github.com/dekarrin/rush/internal/rsherr"
)

// NativeFunc is a pure builtin: it sees only its arguments.
type NativeFunc func(args []Value) (Value, error)

// NativeCtxFunc is a builtin that also receives the context it was invoked
// from, used by functions that call back into a user-supplied function
// argument (map, filter, reduce, sortby, sub with a function replacement).
type NativeCtxFunc func(args []Value, ctx *Context) (Value, error)

type functionKind int

const (
	fnNative functionKind = iota
	fnNativeCtx
	fnLambda
	fnInvokable
)

// Function is a rush callable. It has exactly one of four shapes: a native
// pure function, a native function that also receives the calling context,
// a user lambda (captured context + parameter names + body), or an opaque
// invokable delegate used internally by flip/compose/curry to wrap another
// Function without re-exposing its original shape.
type Function struct {
	kind  functionKind
	arity Arity
	name  string // best-effort, for error messages; empty for lambdas

	native    NativeFunc
	nativeCtx NativeCtxFunc

	// lambda
	params []string
	body   Node
	captured *Context

	// invokable delegate, used by flip/compose/curry
	invoke func(args []Value, ctx *Context) (Value, error)
}

// LambdaFunction builds the Function value a lambda literal evaluates to.
// captured is the context in which the lambda expression was evaluated; per
// the language's closure semantics every invocation creates a fresh child
// of captured, never of the caller's context.
func LambdaFunction(params []string, body Node, captured *Context) *Function {
	return &Function{
		kind:     fnLambda,
		arity:    Exact(len(params)),
		params:   params,
		body:     body,
		captured: captured,
	}
}

// Arity returns the number of arguments fn accepts.
func (fn *Function) Arity() Arity { return fn.arity }

func (fn *Function) displayName() string {
	if fn.name != "" {
		return fn.name
	}
	return "<lambda>"
}

// Invoke calls fn with args. ctx is the context of the call site; it is
// used only by native-contextual functions (to invoke their own callback
// arguments) and is otherwise irrelevant to native/lambda dispatch, since
// lambdas always evaluate against their captured context, never the
// caller's.
func (fn *Function) Invoke(args []Value, ctx *Context) (Value, error) {
	if !fn.arity.Accepts(len(args)) {
		return Value{}, rsherr.Newf(rsherr.ValueError,
			"%s(): expected %s argument(s), got %d", fn.displayName(), fn.arity, len(args))
	}
	switch fn.kind {
	case fnNative:
		return fn.native(args)
	case fnNativeCtx:
		return fn.nativeCtx(args, ctx)
	case fnLambda:
		callCtx := fn.captured.Child()
		for i, p := range fn.params {
			callCtx.Set(p, args[i])
		}
		return fn.body.Eval(callCtx)
	case fnInvokable:
		return fn.invoke(args, ctx)
	default:
		panic("unknown function kind")
	}
}

// Invoke1 calls a unary function. Callers that already know fn.Arity() is
// satisfied by a single argument (the "$"/compose operators) use this to
// avoid allocating an args slice at each call site.
func (fn *Function) Invoke1(arg Value, ctx *Context) (Value, error) {
	return fn.Invoke([]Value{arg}, ctx)
}

// Invoke2 calls a binary function, as used by reduce's accumulator step.
func (fn *Function) Invoke2(a, b Value, ctx *Context) (Value, error) {
	return fn.Invoke([]Value{a, b}, ctx)
}

// ComposeWith returns the function h such that h(args...) == self(other(args...)).
// It requires self's arity to accept exactly one argument (self is always
// invoked with the single intermediate result of other); other may have any
// arity, and the composed function's arity is other's.
func ComposeWith(self, other *Function) (*Function, error) {
	if !self.arity.Accepts(1) {
		return nil, rsherr.Newf(rsherr.TypeMismatch,
			"cannot compose: %s() must accept exactly one argument, has arity %s", self.displayName(), self.arity)
	}
	return &Function{
		kind:  fnInvokable,
		arity: other.arity,
		invoke: func(args []Value, ctx *Context) (Value, error) {
			mid, err := other.Invoke(args, ctx)
			if err != nil {
				return Value{}, err
			}
			return self.Invoke1(mid, ctx)
		},
	}, nil
}

// Curry returns the function g such that g(rest...) == fn(arg, rest...),
// with arg bound ahead of time in the first argument slot. It requires fn
// to accept at least one argument.
func Curry(fn *Function, arg Value) (*Function, error) {
	if fn.arity.Max() == 0 {
		return nil, rsherr.Newf(rsherr.TypeMismatch,
			"cannot curry: %s() takes no arguments", fn.displayName())
	}
	return &Function{
		kind:  fnInvokable,
		arity: fn.arity.Minus(1),
		invoke: func(args []Value, ctx *Context) (Value, error) {
			full := make([]Value, 0, len(args)+1)
			full = append(full, arg)
			full = append(full, args...)
			return fn.Invoke(full, ctx)
		},
	}, nil
}

// Flip returns a function of the same arity as fn that reverses the order
// of its arguments before delegating.
func Flip(fn *Function) *Function {
	return &Function{
		kind:  fnInvokable,
		arity: fn.arity,
		invoke: func(args []Value, ctx *Context) (Value, error) {
			reversed := make([]Value, len(args))
			for i, a := range args {
				reversed[len(args)-1-i] = a
			}
			return fn.Invoke(reversed, ctx)
		},
	}
}
