package rush

import (
	"math"
	"strconv"

	"github.com/dekarrin/rush/internal/rsherr"
)

func numArg(v Value, name string) (float64, bool, error) {
	switch v.Type() {
	case Integer:
		return float64(v.Int()), true, nil
	case Float:
		return v.Flt(), false, nil
	default:
		return 0, false, rsherr.Newf(rsherr.TypeMismatch, "%s(): expected int or float, got %s", name, v.Type())
	}
}

func absBuiltin(args []Value) (Value, error) {
	v := args[0]
	switch v.Type() {
	case Integer:
		n := v.Int()
		if n < 0 {
			n = -n
		}
		return IntValue(n), nil
	case Float:
		return FloatValue(math.Abs(v.Flt())), nil
	default:
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "abs(): expected int or float, got %s", v.Type())
	}
}

func sgnBuiltin(args []Value) (Value, error) {
	f, _, err := numArg(args[0], "sgn")
	if err != nil {
		return Value{}, err
	}
	switch {
	case f > 0:
		return IntValue(1), nil
	case f < 0:
		return IntValue(-1), nil
	default:
		return IntValue(0), nil
	}
}

func floatFn(name string, f func(float64) float64) NativeFunc {
	return func(args []Value) (Value, error) {
		v, _, err := numArg(args[0], name)
		if err != nil {
			return Value{}, err
		}
		return FloatValue(f(v)), nil
	}
}

func floorBuiltin(args []Value) (Value, error) {
	f, isInt, err := numArg(args[0], "floor")
	if err != nil {
		return Value{}, err
	}
	if isInt {
		return args[0], nil
	}
	return IntValue(int64(math.Floor(f))), nil
}

func ceilBuiltin(args []Value) (Value, error) {
	f, isInt, err := numArg(args[0], "ceil")
	if err != nil {
		return Value{}, err
	}
	if isInt {
		return args[0], nil
	}
	return IntValue(int64(math.Ceil(f))), nil
}

func roundBuiltin(args []Value) (Value, error) {
	f, isInt, err := numArg(args[0], "round")
	if err != nil {
		return Value{}, err
	}
	if isInt {
		return args[0], nil
	}
	return IntValue(int64(math.Round(f))), nil
}

func truncBuiltin(args []Value) (Value, error) {
	f, isInt, err := numArg(args[0], "trunc")
	if err != nil {
		return Value{}, err
	}
	if isInt {
		return args[0], nil
	}
	return IntValue(int64(math.Trunc(f))), nil
}

func binBuiltin(args []Value) (Value, error) { return baseBuiltin(args, "bin", 2) }
func octBuiltin(args []Value) (Value, error) { return baseBuiltin(args, "oct", 8) }
func hexBuiltin(args []Value) (Value, error) { return baseBuiltin(args, "hex", 16) }

func baseBuiltin(args []Value, name string, base int) (Value, error) {
	if args[0].Type() != Integer {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "%s(): expected int, got %s", name, args[0].Type())
	}
	return StringValue(strconv.FormatInt(args[0].Int(), base)), nil
}
