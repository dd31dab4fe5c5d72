package rush

import (
	"strconv"
	"strings"

	"github.com/dekarrin/rush/internal/rsherr"
)

// NewRootContext builds a context pre-seeded with the standard library and
// constants. This is the context a driver should pass to Eval.
func NewRootContext() *Context {
	root := newContext(nil)
	registerStdlib(root)
	return root
}

// Eval evaluates ast against ctx.
func Eval(ast Node, ctx *Context) (Value, error) {
	return ast.Eval(ctx)
}

// bestInterpretation implements the typed-input heuristic for the
// unsuffixed `_` binding: integer if it parses, else float, else boolean,
// else the raw string. It never errors.
func bestInterpretation(text string) Value {
	trimmed := strings.TrimSpace(text)
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return IntValue(i)
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return FloatValue(f)
	}
	switch trimmed {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	return StringValue(text)
}

// bindInput sets `_` (best interpretation), `_s` (always the raw text), and
// the typed variants `_i`/`_f`/`_b`, each bound to empty when its own parse
// fails rather than falling back to another type.
func bindInput(ctx *Context, text string) {
	ctx.Set("_", bestInterpretation(text))
	ctx.Set("_s", StringValue(text))

	trimmed := strings.TrimSpace(text)
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		ctx.Set("_i", IntValue(i))
	} else {
		ctx.Set("_i", EmptyValue)
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		ctx.Set("_f", FloatValue(f))
	} else {
		ctx.Set("_f", EmptyValue)
	}
	switch trimmed {
	case "true":
		ctx.Set("_b", BoolValue(true))
	case "false":
		ctx.Set("_b", BoolValue(false))
	default:
		ctx.Set("_b", EmptyValue)
	}
}

// BindInput exposes the typed-input binding policy to drivers that need to
// manage their own long-lived root context (sharing it across records, or
// across --before/expression/--after), rather than going through Apply's
// one-shot fresh-context convenience.
func BindInput(ctx *Context, text string) {
	bindInput(ctx, text)
}

// Apply parses exprText, evaluates it against a fresh root context with
// input bound per the typed-input heuristic, and renders the result. If the
// expression evaluates to a unary function rather than a final value, that
// function is applied to the original input's best interpretation before
// rendering -- this lets `(1+)` work the same as `_ + 1` at the driver
// boundary.
func Apply(exprText, input string) (string, error) {
	ast, err := Parse(exprText)
	if err != nil {
		return "", err
	}
	root := NewRootContext()
	bindInput(root, input)

	v, err := Eval(ast, root)
	if err != nil {
		return "", err
	}
	if v.IsFunction() && v.Fn().Arity().Accepts(1) {
		arg, _ := root.Get("_")
		v, err = v.Fn().Invoke1(arg, root)
		if err != nil {
			return "", err
		}
	}
	return Render(v)
}

// ApplyBytes evaluates exprText once per input byte, with `_` bound to the
// byte's integer value. Every evaluation must yield an integer in [0, 255];
// anything else is an error, per the byte-mode contract.
func ApplyBytes(exprText string, input []byte) ([]byte, error) {
	ast, err := Parse(exprText)
	if err != nil {
		return nil, err
	}
	root := NewRootContext()

	out := make([]byte, len(input))
	for i, b := range input {
		callCtx := root.Child()
		callCtx.Set("_", IntValue(int64(b)))

		v, err := Eval(ast, callCtx)
		if err != nil {
			return nil, err
		}
		if v.Type() != Integer || v.Int() < 0 || v.Int() > 255 {
			return nil, rsherr.Newf(rsherr.ValueError,
				"byte mode: expression must yield an int in [0, 255], got %s", renderDebug(v))
		}
		out[i] = byte(v.Int())
	}
	return out, nil
}
