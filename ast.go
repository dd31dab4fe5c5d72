package rush

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rush/internal/rsherr"
)

// Node is an evaluable AST node. Every node holds its children by value and
// can be evaluated against a Context to produce a Value or an error.
type Node interface {
	Eval(ctx *Context) (Value, error)
	String() string
}

// ScalarNode holds a literal scalar value (int, float, bool, string, regex,
// or the empty value for 'nil'). It evaluates to itself.
type ScalarNode struct {
	Value Value
}

func (n ScalarNode) Eval(ctx *Context) (Value, error) { return n.Value, nil }
func (n ScalarNode) String() string                   { return fmt.Sprintf("Scalar(%s)", renderDebug(n.Value)) }

// SymbolNode holds an unresolved identifier. Evaluating it resolves against
// the context; an unbound symbol evaluates to a String of its own name
// rather than erroring.
type SymbolNode struct {
	Name string
}

func (n SymbolNode) Eval(ctx *Context) (Value, error) {
	if v, ok := ctx.Get(n.Name); ok {
		return v, nil
	}
	return StringValue(n.Name), nil
}
func (n SymbolNode) String() string { return fmt.Sprintf("Symbol(%s)", n.Name) }

// ArrayNode is an array literal.
type ArrayNode struct {
	Elems []Node
}

func (n ArrayNode) Eval(ctx *Context) (Value, error) {
	vals := make([]Value, len(n.Elems))
	for i, e := range n.Elems {
		v, err := e.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		vals[i] = v
	}
	return ArrayValue(vals), nil
}
func (n ArrayNode) String() string {
	parts := make([]string, len(n.Elems))
	for i, e := range n.Elems {
		parts[i] = e.String()
	}
	return "Array[" + strings.Join(parts, ", ") + "]"
}

// ObjectEntry is one key: value pair of an ObjectNode literal. The key is
// always evaluated to a string (via String conversion) before the object is
// built.
type ObjectEntry struct {
	Key   Node
	Value Node
}

// ObjectNode is an object literal.
type ObjectNode struct {
	Entries []ObjectEntry
}

func (n ObjectNode) Eval(ctx *Context) (Value, error) {
	m := make(map[string]Value, len(n.Entries))
	for _, e := range n.Entries {
		kv, err := e.Key.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		key, err := valueToKeyString(kv)
		if err != nil {
			return Value{}, err
		}
		vv, err := e.Value.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		m[key] = vv
	}
	return ObjectValue(m), nil
}
func (n ObjectNode) String() string {
	parts := make([]string, len(n.Entries))
	for i, e := range n.Entries {
		parts[i] = e.Key.String() + ": " + e.Value.String()
	}
	return "Object{" + strings.Join(parts, ", ") + "}"
}

func valueToKeyString(v Value) (string, error) {
	switch v.Type() {
	case String, Symbol:
		return v.Str(), nil
	default:
		return "", rsherr.Newf(rsherr.TypeMismatch, "object keys must be strings, got %s", v.Type())
	}
}

// LambdaNode is a lambda literal. It evaluates to a Func value whose
// captured context is the context Eval is called with.
type LambdaNode struct {
	Params []string
	Body   Node
}

func (n LambdaNode) Eval(ctx *Context) (Value, error) {
	return FunctionValue(LambdaFunction(n.Params, n.Body, ctx)), nil
}
func (n LambdaNode) String() string {
	return fmt.Sprintf("Lambda(|%s| %s)", strings.Join(n.Params, ", "), n.Body)
}

// UnaryOpNode applies a prefix operator to its operand.
type UnaryOpNode struct {
	Op      UnaryOp
	Operand Node
}

func (n UnaryOpNode) Eval(ctx *Context) (Value, error) {
	v, err := n.Operand.Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	return evalUnary(n.Op, v)
}
func (n UnaryOpNode) String() string {
	return fmt.Sprintf("UnaryOp(%s %s)", n.Op.Symbol(), n.Operand)
}

// Assoc is the associativity of a BinaryOpNode chain.
type Assoc int

const (
	LeftAssoc Assoc = iota
	RightAssoc
)

// opStep is one (operator, right-operand) pair in a BinaryOpNode chain.
type opStep struct {
	Op    BinaryOp
	Right Node
}

// BinaryOpNode represents a run of same-precedence binary operators
// collapsed into a single node: `a op b op c op d` is First=a,
// Rest=[(op,b),(op,c),(op,d)], rather than a right-recursive tree of
// individual binary nodes. This is what keeps deep chains from blowing the
// recursion depth of the parser and lets the evaluator apply the correct
// (left or right) fold direction uniformly.
type BinaryOpNode struct {
	Assoc Assoc
	First Node
	Rest  []opStep
}

func (n BinaryOpNode) String() string {
	var sb strings.Builder
	sb.WriteString(n.First.String())
	for _, step := range n.Rest {
		sb.WriteString(" ")
		sb.WriteString(step.Op.Symbol())
		sb.WriteString(" ")
		sb.WriteString(step.Right.String())
	}
	return "(" + sb.String() + ")"
}

func (n BinaryOpNode) Eval(ctx *Context) (Value, error) {
	if len(n.Rest) == 0 {
		return n.First.Eval(ctx)
	}
	if n.Assoc == RightAssoc {
		return n.evalRightAssoc(ctx)
	}
	return n.evalLeftAssoc(ctx)
}

func (n BinaryOpNode) evalLeftAssoc(ctx *Context) (Value, error) {
	acc, err := n.First.Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	for _, step := range n.Rest {
		if step.Op.isShortCircuit() {
			truthy, err := boolConvert(acc)
			if err != nil {
				return Value{}, err
			}
			if step.Op == OpAnd && !truthy {
				continue // left already falsy; keep it, skip evaluating right
			}
			if step.Op == OpOr && truthy {
				continue // left already truthy; keep it
			}
			right, err := step.Right.Eval(ctx)
			if err != nil {
				return Value{}, err
			}
			acc = right
			continue
		}
		right, err := step.Right.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		acc, err = evalBinary(step.Op, acc, right, ctx)
		if err != nil {
			return Value{}, err
		}
	}
	return acc, nil
}

// evalRightAssoc folds the chain from the right. Only assignment chains use
// this path; `a = b = c` must assign c to b, then b's (post-assignment)
// value to a, without ever evaluating the left-hand symbols as values.
func (n BinaryOpNode) evalRightAssoc(ctx *Context) (Value, error) {
	operands := make([]Node, 0, len(n.Rest)+1)
	operands = append(operands, n.First)
	ops := make([]BinaryOp, 0, len(n.Rest))
	for _, step := range n.Rest {
		ops = append(ops, step.Op)
		operands = append(operands, step.Right)
	}

	// evaluate the final (rightmost) operand as a value first
	acc, err := operands[len(operands)-1].Eval(ctx)
	if err != nil {
		return Value{}, err
	}

	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		lhs := operands[i]
		if op == OpAssign {
			sym, ok := lhs.(SymbolNode)
			if !ok {
				return Value{}, rsherr.New(rsherr.Parse, "left-hand side of '=' must be a bare symbol")
			}
			if sym.Name == "_" {
				return Value{}, rsherr.New(rsherr.ValueError, "cannot assign to _")
			}
			ctx.Set(sym.Name, acc)
			continue
		}
		left, err := lhs.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		acc, err = evalBinary(op, left, acc, ctx)
		if err != nil {
			return Value{}, err
		}
	}
	if ops[0] == OpAssign {
		// the assignment expression itself yields empty
		return EmptyValue, nil
	}
	return acc, nil
}

// CurriedBinaryOpNode is a parenthesized operator with zero or one operand
// already bound, evaluating to a function of the missing operand(s): `(2+)`,
// `(+2)`, or `(+)`.
type CurriedBinaryOpNode struct {
	Op    BinaryOp
	Left  Node // non-nil for "(atom op)"
	Right Node // non-nil for "(op atom)"
}

func (n CurriedBinaryOpNode) Eval(ctx *Context) (Value, error) {
	switch {
	case n.Left != nil:
		lv, err := n.Left.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		return FunctionValue(&Function{
			kind:  fnInvokable,
			arity: Exact(1),
			invoke: func(args []Value, callCtx *Context) (Value, error) {
				return evalBinary(n.Op, lv, args[0], callCtx)
			},
		}), nil
	case n.Right != nil:
		rv, err := n.Right.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		return FunctionValue(&Function{
			kind:  fnInvokable,
			arity: Exact(1),
			invoke: func(args []Value, callCtx *Context) (Value, error) {
				return evalBinary(n.Op, args[0], rv, callCtx)
			},
		}), nil
	default:
		op := n.Op
		return FunctionValue(&Function{
			kind:  fnInvokable,
			arity: Exact(2),
			invoke: func(args []Value, callCtx *Context) (Value, error) {
				return evalBinary(op, args[0], args[1], callCtx)
			},
		}), nil
	}
}

func (n CurriedBinaryOpNode) String() string {
	switch {
	case n.Left != nil:
		return fmt.Sprintf("Curried(%s %s)", n.Left, n.Op.Symbol())
	case n.Right != nil:
		return fmt.Sprintf("Curried(%s %s)", n.Op.Symbol(), n.Right)
	default:
		return fmt.Sprintf("Curried(%s)", n.Op.Symbol())
	}
}

// ConditionalNode is `cond ? then : else`.
type ConditionalNode struct {
	Cond, Then, Else Node
}

func (n ConditionalNode) Eval(ctx *Context) (Value, error) {
	cv, err := n.Cond.Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	truthy, err := boolConvert(cv)
	if err != nil {
		return Value{}, err
	}
	if truthy {
		return n.Then.Eval(ctx)
	}
	return n.Else.Eval(ctx)
}
func (n ConditionalNode) String() string {
	return fmt.Sprintf("Conditional(%s ? %s : %s)", n.Cond, n.Then, n.Else)
}

// FunctionCallNode is `callee(args...)`.
type FunctionCallNode struct {
	Callee Node
	Args   []Node
}

func (n FunctionCallNode) Eval(ctx *Context) (Value, error) {
	cv, err := n.Callee.Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	if !cv.IsFunction() {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "cannot call a %s value", cv.Type())
	}
	fn := cv.Fn()

	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, err := a.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}

	if fn.Arity().Max() >= 0 && len(args) > fn.Arity().Max() {
		return Value{}, rsherr.Newf(rsherr.ValueError,
			"too many arguments: %s() accepts %s, got %d", fn.displayName(), fn.Arity(), len(args))
	}
	if len(args) < fn.Arity().Min() {
		// not enough args yet: curry them all in, left to right
		cur := fn
		for _, a := range args {
			cur, err = Curry(cur, a)
			if err != nil {
				return Value{}, err
			}
		}
		return FunctionValue(cur), nil
	}
	return fn.Invoke(args, ctx)
}
func (n FunctionCallNode) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("Call(%s(%s))", n.Callee, strings.Join(parts, ", "))
}

// IndexExpr is a subscript index: either a single point index, or a `a:b`
// range with optionally-omitted bounds.
type IndexExpr struct {
	IsRange    bool
	Point      Node // valid when !IsRange
	RangeLow   Node // nil means "from the start"
	RangeHigh  Node // nil means "to the end"
}

// SubscriptNode is `target[index]`.
type SubscriptNode struct {
	Target Node
	Index  IndexExpr
}

func (n SubscriptNode) Eval(ctx *Context) (Value, error) {
	tv, err := n.Target.Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	if n.Index.IsRange {
		return evalRangeSubscript(tv, n.Index, ctx)
	}
	iv, err := n.Index.Point.Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	return evalSubscript(tv, iv, ctx)
}
func (n SubscriptNode) String() string {
	if n.Index.IsRange {
		return fmt.Sprintf("Subscript(%s[%v:%v])", n.Target, n.Index.RangeLow, n.Index.RangeHigh)
	}
	return fmt.Sprintf("Subscript(%s[%s])", n.Target, n.Index.Point)
}

// BlockNode sequentially evaluates a series of expressions in the same
// context, yielding the value of the last one. Used by the driver to chain
// --before/expression/--after against one shared root context.
type BlockNode struct {
	Exprs []Node
}

func (n BlockNode) Eval(ctx *Context) (Value, error) {
	result := EmptyValue
	for _, e := range n.Exprs {
		v, err := e.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		result = v
	}
	return result, nil
}
func (n BlockNode) String() string {
	parts := make([]string, len(n.Exprs))
	for i, e := range n.Exprs {
		parts[i] = e.String()
	}
	return "Block[" + strings.Join(parts, "; ") + "]"
}

func renderDebug(v Value) string {
	switch v.Type() {
	case String:
		return fmt.Sprintf("%q", v.Str())
	case Regex:
		return "/" + v.RxPattern() + "/"
	default:
		s, err := Render(v)
		if err != nil {
			return fmt.Sprintf("<%s>", v.Type())
		}
		return s
	}
}
