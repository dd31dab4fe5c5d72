package rush

import (
	"math/rand"

	"github.com/dekarrin/rush/internal/rsherr"
)

func randBuiltin(args []Value) (Value, error) {
	return FloatValue(rand.Float64()), nil
}

func sampleBuiltin(args []Value) (Value, error) {
	if args[0].Type() != Integer {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "sample(): expected int count, got %s", args[0].Type())
	}
	if args[1].Type() != Array {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "sample(): expected array source, got %s", args[1].Type())
	}
	n := int(args[0].Int())
	src := args[1].Arr()
	if n < 0 || n > len(src) {
		return Value{}, rsherr.Newf(rsherr.ValueError, "sample(): count %d out of range for array of length %d", n, len(src))
	}
	perm := rand.Perm(len(src))
	out := make([]Value, n)
	for i := 0; i < n; i++ {
		out[i] = src[perm[i]]
	}
	return ArrayValue(out), nil
}

func shuffleBuiltin(args []Value) (Value, error) {
	if args[0].Type() != Array {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "shuffle(): expected array, got %s", args[0].Type())
	}
	src := args[0].Arr()
	out := append([]Value(nil), src...)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return ArrayValue(out), nil
}
