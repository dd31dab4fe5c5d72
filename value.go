package rush

import (
	"fmt"
	"regexp"
)

// ValueType identifies which variant a Value holds.
type ValueType int

const (
	Empty ValueType = iota
	Symbol
	Boolean
	Integer
	Float
	String
	Regex
	Array
	Object
	Func
)

// String gives the lowercase type name used in error messages, matching the
// names a rush program would recognize.
func (t ValueType) String() string {
	switch t {
	case Empty:
		return "empty"
	case Symbol:
		return "symbol"
	case Boolean:
		return "bool"
	case Integer:
		return "int"
	case Float:
		return "float"
	case String:
		return "str"
	case Regex:
		return "regex"
	case Array:
		return "array"
	case Object:
		return "object"
	case Func:
		return "function"
	default:
		panic(fmt.Sprintf("unknown value type: %d", t))
	}
}

// Value is a rush runtime value: a tagged union over the ten variants of the
// language's data model. The zero Value is Empty.
//
// Only the fields relevant to vtype are meaningful; callers must go through
// the typed accessors (Bool, Int, ...) rather than reading fields directly.
type Value struct {
	vtype ValueType
	b     bool
	i     int64
	f     float64
	s     string // used for both String and Symbol
	re    *regexp.Regexp
	rePat string
	arr   []Value
	obj   map[string]Value
	fn    *Function
}

// EmptyValue is the canonical empty Value.
var EmptyValue = Value{vtype: Empty}

func BoolValue(b bool) Value     { return Value{vtype: Boolean, b: b} }
func IntValue(i int64) Value     { return Value{vtype: Integer, i: i} }
func FloatValue(f float64) Value { return Value{vtype: Float, f: f} }
func StringValue(s string) Value { return Value{vtype: String, s: s} }
func SymbolValue(s string) Value { return Value{vtype: Symbol, s: s} }

// RegexValue wraps a compiled regular expression. pattern is the original
// source text, kept because serialization must print the pattern, not a
// compiled-form representation.
func RegexValue(re *regexp.Regexp, pattern string) Value {
	return Value{vtype: Regex, re: re, rePat: pattern}
}

// ArrayValue wraps a slice of elements. The slice is taken by reference, not
// copied; callers constructing a fresh array should pass a slice they don't
// intend to mutate further.
func ArrayValue(elems []Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{vtype: Array, arr: elems}
}

// ObjectValue wraps a string-keyed map. Like ArrayValue, the map is taken by
// reference.
func ObjectValue(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{vtype: Object, obj: m}
}

// FunctionValue wraps a callable.
func FunctionValue(fn *Function) Value {
	return Value{vtype: Func, fn: fn}
}

func (v Value) Type() ValueType { return v.vtype }

func (v Value) IsEmpty() bool    { return v.vtype == Empty }
func (v Value) IsSymbol() bool   { return v.vtype == Symbol }
func (v Value) IsBoolean() bool  { return v.vtype == Boolean }
func (v Value) IsInteger() bool  { return v.vtype == Integer }
func (v Value) IsFloat() bool    { return v.vtype == Float }
func (v Value) IsString() bool   { return v.vtype == String }
func (v Value) IsRegex() bool    { return v.vtype == Regex }
func (v Value) IsArray() bool    { return v.vtype == Array }
func (v Value) IsObject() bool   { return v.vtype == Object }
func (v Value) IsFunction() bool { return v.vtype == Func }
func (v Value) IsNumber() bool   { return v.vtype == Integer || v.vtype == Float }
func (v Value) IsScalar() bool {
	switch v.vtype {
	case Boolean, Integer, Float, String, Regex, Symbol:
		return true
	default:
		return false
	}
}

// the following accessors panic if called on a Value of the wrong type; they
// exist for code that has already established the type via a Is* predicate
// or a type-dispatch switch.

func (v Value) Bool() bool {
	if v.vtype != Boolean {
		panic(fmt.Sprintf("Value.Bool() called on a %s", v.vtype))
	}
	return v.b
}

func (v Value) Int() int64 {
	if v.vtype != Integer {
		panic(fmt.Sprintf("Value.Int() called on a %s", v.vtype))
	}
	return v.i
}

func (v Value) Flt() float64 {
	if v.vtype != Float {
		panic(fmt.Sprintf("Value.Flt() called on a %s", v.vtype))
	}
	return v.f
}

func (v Value) Str() string {
	if v.vtype != String && v.vtype != Symbol {
		panic(fmt.Sprintf("Value.Str() called on a %s", v.vtype))
	}
	return v.s
}

func (v Value) Rx() *regexp.Regexp {
	if v.vtype != Regex {
		panic(fmt.Sprintf("Value.Rx() called on a %s", v.vtype))
	}
	return v.re
}

func (v Value) RxPattern() string {
	if v.vtype != Regex {
		panic(fmt.Sprintf("Value.RxPattern() called on a %s", v.vtype))
	}
	return v.rePat
}

func (v Value) Arr() []Value {
	if v.vtype != Array {
		panic(fmt.Sprintf("Value.Arr() called on a %s", v.vtype))
	}
	return v.arr
}

func (v Value) Obj() map[string]Value {
	if v.vtype != Object {
		panic(fmt.Sprintf("Value.Obj() called on a %s", v.vtype))
	}
	return v.obj
}

func (v Value) Fn() *Function {
	if v.vtype != Func {
		panic(fmt.Sprintf("Value.Fn() called on a %s", v.vtype))
	}
	return v.fn
}

// deepEqual compares two Values structurally, recursing into array/object
// elements. Used by '==' on composite values and by the Array/Object cases
// of TryEqual. It never errors itself; the caller has already confirmed the
// top-level types are comparable.
func deepEqual(a, b Value) bool {
	if a.vtype != b.vtype {
		// integer/float widening is handled by the caller before recursing
		return false
	}
	switch a.vtype {
	case Empty:
		return true
	case Boolean:
		return a.b == b.b
	case Integer:
		return a.i == b.i
	case Float:
		return a.f == b.f
	case String, Symbol:
		return a.s == b.s
	case Regex:
		return a.rePat == b.rePat
	case Array:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			ok, err := TryEqual(a.arr[i], b.arr[i])
			if err != nil || !ok {
				return false
			}
		}
		return true
	case Object:
		if len(a.obj) != len(b.obj) {
			return false
		}
		for k, av := range a.obj {
			bv, ok := b.obj[k]
			if !ok {
				return false
			}
			eq, err := TryEqual(av, bv)
			if err != nil || !eq {
				return false
			}
		}
		return true
	case Func:
		return false
	default:
		panic(fmt.Sprintf("unknown value type: %d", a.vtype))
	}
}
