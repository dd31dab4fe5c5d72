package rush

import "github.com/dekarrin/rush/internal/rsherr"

func idBuiltin(args []Value) (Value, error) {
	return args[0], nil
}

func flipBuiltin(args []Value) (Value, error) {
	if args[0].Type() != Func {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "flip(): expected function, got %s", args[0].Type())
	}
	return FunctionValue(Flip(args[0].Fn())), nil
}
