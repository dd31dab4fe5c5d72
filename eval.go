package rush

import (
	"fmt"
	"math"
	"regexp"

	"github.com/dekarrin/rush/internal/rsherr"
)

func typeMismatch(op string, left, right Value) error {
	return rsherr.Newf(rsherr.TypeMismatch, "operator %s: no implementation for (%s, %s)", op, left.Type(), right.Type())
}

func evalUnary(op UnaryOp, v Value) (Value, error) {
	switch op {
	case OpNeg:
		switch v.Type() {
		case Integer:
			return IntValue(-v.Int()), nil
		case Float:
			return FloatValue(-v.Flt()), nil
		}
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "unary -: no implementation for %s", v.Type())
	case OpPos:
		if v.IsNumber() {
			return v, nil
		}
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "unary +: no implementation for %s", v.Type())
	case OpNot:
		b, err := boolConvert(v)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(!b), nil
	default:
		panic(fmt.Sprintf("unknown unary operator: %d", op))
	}
}

func evalBinary(op BinaryOp, left, right Value, ctx *Context) (Value, error) {
	switch op {
	case OpCompose:
		return evalCompose(left, right)
	case OpApply:
		return evalApply(left, right, ctx)
	case OpLt, OpLe, OpGt, OpGe:
		return evalOrderComparison(op, left, right)
	case OpEq:
		ok, err := TryEqual(left, right)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(ok), nil
	case OpNe:
		ok, err := TryEqual(left, right)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(!ok), nil
	case OpIn:
		return evalMembership(left, right)
	case OpAdd:
		return evalAdd(left, right)
	case OpSub:
		return evalSub(left, right)
	case OpMul:
		return evalMul(left, right)
	case OpDiv:
		return evalDiv(left, right)
	case OpMod:
		return evalMod(left, right, ctx)
	case OpPow:
		return evalPow(left, right)
	case OpAssign:
		// unreachable through normal parsing; assignment is only ever
		// produced as the top of a right-associative chain and handled
		// directly by BinaryOpNode.evalRightAssoc.
		return Value{}, rsherr.New(rsherr.Parse, "'=' cannot be used as a curried operator")
	default:
		panic(fmt.Sprintf("unknown binary operator: %d", op))
	}
}

func evalCompose(left, right Value) (Value, error) {
	if !left.IsFunction() || !right.IsFunction() {
		return Value{}, typeMismatch("&", left, right)
	}
	fn, err := ComposeWith(right.Fn(), left.Fn())
	if err != nil {
		return Value{}, err
	}
	return FunctionValue(fn), nil
}

func evalApply(left, right Value, ctx *Context) (Value, error) {
	if !left.IsFunction() {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "left side of '$' must be a function, got %s", left.Type())
	}
	fn := left.Fn()
	if fn.Arity().Accepts(1) && fn.Arity().IsExact() {
		return fn.Invoke1(right, ctx)
	}
	cur, err := Curry(fn, right)
	if err != nil {
		return Value{}, err
	}
	return FunctionValue(cur), nil
}

// boolConvert is the truthiness rule shared by &&, ||, ?:, and the bool()
// stdlib conversion: integers/floats are truthy when non-zero; strings must
// be the literal text "true"/"false"; arrays/objects are truthy when
// non-empty. Everything else (empty, symbol, regex, function) is an error,
// never a silent false.
func boolConvert(v Value) (bool, error) {
	switch v.Type() {
	case Boolean:
		return v.Bool(), nil
	case Integer:
		return v.Int() != 0, nil
	case Float:
		return v.Flt() != 0, nil
	case String:
		switch v.Str() {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return false, rsherr.Newf(rsherr.Conversion, "cannot convert %q to bool", v.Str())
		}
	case Array:
		return len(v.Arr()) > 0, nil
	case Object:
		return len(v.Obj()) > 0, nil
	default:
		return false, rsherr.Newf(rsherr.TypeMismatch, "cannot convert %s to bool", v.Type())
	}
}

// numericPair widens an (int,int)/(int,float)/(float,int)/(float,float) pair
// to a common float64 representation, reporting whether either side was a
// float (so callers that want to stay in integer arithmetic when possible
// can check).
func numericPair(a, b Value) (af, bf float64, bothInt bool, ok bool) {
	if a.Type() == Integer && b.Type() == Integer {
		return float64(a.Int()), float64(b.Int()), true, true
	}
	if a.IsNumber() && b.IsNumber() {
		af := a.Flt()
		if a.Type() == Integer {
			af = float64(a.Int())
		}
		bf := b.Flt()
		if b.Type() == Integer {
			bf = float64(b.Int())
		}
		return af, bf, false, true
	}
	return 0, 0, false, false
}

func evalAdd(left, right Value) (Value, error) {
	if left.Type() == String && right.Type() == String {
		return StringValue(left.Str() + right.Str()), nil
	}
	if left.Type() == Array && right.Type() == Array {
		merged := make([]Value, 0, len(left.Arr())+len(right.Arr()))
		merged = append(merged, left.Arr()...)
		merged = append(merged, right.Arr()...)
		return ArrayValue(merged), nil
	}
	if left.Type() == Object && right.Type() == Object {
		merged := make(map[string]Value, len(left.Obj())+len(right.Obj()))
		for k, v := range left.Obj() {
			merged[k] = v
		}
		for k, v := range right.Obj() { // right wins on collision
			merged[k] = v
		}
		return ObjectValue(merged), nil
	}
	if af, bf, bothInt, ok := numericPair(left, right); ok {
		if bothInt {
			return IntValue(left.Int() + right.Int()), nil
		}
		return FloatValue(af + bf), nil
	}
	return Value{}, typeMismatch("+", left, right)
}

func evalSub(left, right Value) (Value, error) {
	if af, bf, bothInt, ok := numericPair(left, right); ok {
		if bothInt {
			return IntValue(left.Int() - right.Int()), nil
		}
		return FloatValue(af - bf), nil
	}
	return Value{}, typeMismatch("-", left, right)
}

func evalMul(left, right Value) (Value, error) {
	if left.Type() == String && right.Type() == Integer {
		return StringValue(repeatString(left.Str(), right.Int())), nil
	}
	if left.Type() == Array && right.Type() == Integer {
		return ArrayValue(repeatArray(left.Arr(), right.Int())), nil
	}
	if left.Type() == Array && right.Type() == String {
		return stdlibJoin(right.Str(), left.Arr())
	}
	if left.Type() == Func && right.Type() == Func {
		fn, err := ComposeWith(left.Fn(), right.Fn())
		if err != nil {
			return Value{}, err
		}
		return FunctionValue(fn), nil
	}
	if af, bf, bothInt, ok := numericPair(left, right); ok {
		if bothInt {
			return IntValue(left.Int() * right.Int()), nil
		}
		return FloatValue(af * bf), nil
	}
	return Value{}, typeMismatch("*", left, right)
}

func repeatString(s string, n int64) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, 0, len(s)*int(n))
	for i := int64(0); i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

func repeatArray(a []Value, n int64) []Value {
	if n <= 0 {
		return []Value{}
	}
	out := make([]Value, 0, len(a)*int(n))
	for i := int64(0); i < n; i++ {
		out = append(out, a...)
	}
	return out
}

func evalDiv(left, right Value) (Value, error) {
	if left.Type() == String && (right.Type() == String || right.Type() == Regex) {
		return stdlibSplit(right, left.Str())
	}
	if af, bf, bothInt, ok := numericPair(left, right); ok {
		if bothInt {
			if right.Int() == 0 {
				return Value{}, rsherr.New(rsherr.ValueError, "division by zero")
			}
			return IntValue(left.Int() / right.Int()), nil
		}
		if bf == 0 {
			return Value{}, rsherr.New(rsherr.ValueError, "division by zero")
		}
		return FloatValue(af / bf), nil
	}
	return Value{}, typeMismatch("/", left, right)
}

func evalMod(left, right Value, ctx *Context) (Value, error) {
	if left.Type() == String {
		return stdlibFormat(left.Str(), right)
	}
	if af, bf, bothInt, ok := numericPair(left, right); ok {
		if bothInt {
			if right.Int() == 0 {
				return Value{}, rsherr.New(rsherr.ValueError, "division by zero")
			}
			return IntValue(left.Int() % right.Int()), nil
		}
		return FloatValue(math.Mod(af, bf)), nil
	}
	return Value{}, typeMismatch("%", left, right)
}

func evalPow(left, right Value) (Value, error) {
	if left.Type() == Integer && right.Type() == Integer {
		if right.Int() < 0 {
			return Value{}, rsherr.Newf(rsherr.ValueError, "integer exponent out of range: %d", right.Int())
		}
		result := int64(1)
		base := left.Int()
		for i := int64(0); i < right.Int(); i++ {
			result *= base
		}
		return IntValue(result), nil
	}
	if af, bf, _, ok := numericPair(left, right); ok {
		return FloatValue(math.Pow(af, bf)), nil
	}
	return Value{}, typeMismatch("**", left, right)
}

func evalOrderComparison(op BinaryOp, left, right Value) (Value, error) {
	c, err := TryCompare(left, right)
	if err != nil {
		return Value{}, err
	}
	switch op {
	case OpLt:
		return BoolValue(c < 0), nil
	case OpLe:
		return BoolValue(c <= 0), nil
	case OpGt:
		return BoolValue(c > 0), nil
	case OpGe:
		return BoolValue(c >= 0), nil
	default:
		panic("not an order comparison operator")
	}
}

// TryCompare orders a and b, widening numeric pairs and comparing strings
// lexically by Unicode code point. Any other pairing is an error: ordering
// is defined for numbers and strings only.
func TryCompare(a, b Value) (int, error) {
	if af, bf, bothInt, ok := numericPair(a, b); ok {
		if bothInt {
			ai, bi := a.Int(), b.Int()
			switch {
			case ai < bi:
				return -1, nil
			case ai > bi:
				return 1, nil
			default:
				return 0, nil
			}
		}
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	}
	if a.Type() == String && b.Type() == String {
		switch {
		case a.Str() < b.Str():
			return -1, nil
		case a.Str() > b.Str():
			return 1, nil
		default:
			return 0, nil
		}
	}
	return 0, rsherr.Newf(rsherr.TypeMismatch, "cannot compare %s with %s", a.Type(), b.Type())
}

// TryEqual tests equality, total within each scalar family, across
// integer/float, and structurally for arrays/objects. A function on either
// side compares unequal (false, no error). Any other pairing is a
// type-mismatch error -- equality never silently returns false for
// incomparable types.
func TryEqual(a, b Value) (bool, error) {
	if a.Type() == Empty && b.Type() == Empty {
		return true, nil
	}
	if af, bf, bothInt, ok := numericPair(a, b); ok {
		if bothInt {
			return a.Int() == b.Int(), nil
		}
		return af == bf, nil
	}
	if a.Type() == String && b.Type() == String {
		return a.Str() == b.Str(), nil
	}
	if a.Type() == Boolean && b.Type() == Boolean {
		return a.Bool() == b.Bool(), nil
	}
	if a.Type() == Array && b.Type() == Array {
		return deepEqual(a, b), nil
	}
	if a.Type() == Object && b.Type() == Object {
		return deepEqual(a, b), nil
	}
	if a.Type() == Func || b.Type() == Func {
		return false, nil
	}
	return false, rsherr.Newf(rsherr.TypeMismatch, "cannot compare %s with %s", a.Type(), b.Type())
}

func evalMembership(left, right Value) (Value, error) {
	if right.Type() == Array {
		for _, el := range right.Arr() {
			ok, err := TryEqual(left, el)
			if err == nil && ok {
				return BoolValue(true), nil
			}
		}
		return BoolValue(false), nil
	}
	if left.Type() == String && right.Type() == Regex {
		return BoolValue(right.Rx().MatchString(left.Str())), nil
	}
	return Value{}, typeMismatch("@", left, right)
}

// evalSubscript implements `s[i]`.
func evalSubscript(target, index Value, ctx *Context) (Value, error) {
	switch target.Type() {
	case String:
		if index.Type() == Integer {
			runes := []rune(target.Str())
			i, err := resolveIndex(index.Int(), len(runes))
			if err != nil {
				return Value{}, err
			}
			return StringValue(string(runes[i])), nil
		}
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "string subscript requires an integer index, got %s", index.Type())
	case Array:
		if index.Type() == Func {
			return stdlibFilter([]Value{index, target}, ctx)
		}
		if index.Type() == Integer {
			i, err := resolveIndex(index.Int(), len(target.Arr()))
			if err != nil {
				return Value{}, err
			}
			return target.Arr()[i], nil
		}
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "array subscript requires an integer index or function, got %s", index.Type())
	case Object:
		key, err := valueToKeyString(index)
		if err != nil {
			return Value{}, err
		}
		v, ok := target.Obj()[key]
		if !ok {
			return Value{}, rsherr.Newf(rsherr.ValueError, "missing object key %q", key)
		}
		return v, nil
	default:
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "cannot subscript a %s value", target.Type())
	}
}

func resolveIndex(i int64, length int) (int, error) {
	idx := i
	if idx < 0 {
		idx += int64(length)
	}
	if idx < 0 || idx >= int64(length) {
		return 0, rsherr.Newf(rsherr.ValueError, "index %d out of range (length %d)", i, length)
	}
	return int(idx), nil
}

// evalRangeSubscript implements `s[a:b]`, resolved per this implementation's
// answer to open question (a): Python-style half-open slicing. Negative
// bounds count from the end; out-of-range bounds clamp rather than error,
// so only a non-integer bound is a type error.
func evalRangeSubscript(target Value, idx IndexExpr, ctx *Context) (Value, error) {
	var length int
	switch target.Type() {
	case String:
		length = len([]rune(target.Str()))
	case Array:
		length = len(target.Arr())
	default:
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "cannot range-subscript a %s value", target.Type())
	}

	low, high, err := resolveRangeBounds(idx, length, ctx)
	if err != nil {
		return Value{}, err
	}

	switch target.Type() {
	case String:
		runes := []rune(target.Str())
		return StringValue(string(runes[low:high])), nil
	case Array:
		sliced := make([]Value, high-low)
		copy(sliced, target.Arr()[low:high])
		return ArrayValue(sliced), nil
	default:
		panic("unreachable")
	}
}

func resolveRangeBounds(idx IndexExpr, length int, ctx *Context) (int, int, error) {
	clamp := func(i int64) int {
		if i < 0 {
			i += int64(length)
		}
		if i < 0 {
			i = 0
		}
		if i > int64(length) {
			i = int64(length)
		}
		return int(i)
	}

	low := 0
	if idx.RangeLow != nil {
		v, err := idx.RangeLow.Eval(ctx)
		if err != nil {
			return 0, 0, err
		}
		if v.Type() != Integer {
			return 0, 0, rsherr.Newf(rsherr.TypeMismatch, "range bound must be an integer, got %s", v.Type())
		}
		low = clamp(v.Int())
	}

	high := length
	if idx.RangeHigh != nil {
		v, err := idx.RangeHigh.Eval(ctx)
		if err != nil {
			return 0, 0, err
		}
		if v.Type() != Integer {
			return 0, 0, rsherr.Newf(rsherr.TypeMismatch, "range bound must be an integer, got %s", v.Type())
		}
		high = clamp(v.Int())
	}

	if high < low {
		high = low
	}
	return low, high, nil
}

// compileRegex compiles pattern, translating a Go regexp syntax error into
// a rush value error.
func compileRegex(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, rsherr.Newf(rsherr.ValueError, "invalid regular expression: %s", err.Error())
	}
	return re, nil
}
