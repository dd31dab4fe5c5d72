package rush

import (
	"sort"
	"strings"

	"github.com/dekarrin/rush/internal/rsherr"
	"github.com/dekarrin/rush/internal/util"
)

func lenBuiltin(args []Value) (Value, error) {
	switch v := args[0]; v.Type() {
	case String:
		return IntValue(int64(len([]rune(v.Str())))), nil
	case Array:
		return IntValue(int64(len(v.Arr()))), nil
	case Object:
		return IntValue(int64(len(v.Obj()))), nil
	default:
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "len(): expected str, array, or object, got %s", v.Type())
	}
}

func revBuiltin(args []Value) (Value, error) {
	switch v := args[0]; v.Type() {
	case String:
		runes := []rune(v.Str())
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return StringValue(string(runes)), nil
	case Array:
		out := make([]Value, len(v.Arr()))
		for i, el := range v.Arr() {
			out[len(out)-1-i] = el
		}
		return ArrayValue(out), nil
	case Object:
		out := make(map[string]Value, len(v.Obj()))
		for k, el := range v.Obj() {
			nk, err := Render(el)
			if err != nil {
				return Value{}, rsherr.Wrapf(err, rsherr.TypeMismatch, "rev(): object value is not renderable as a key")
			}
			out[nk] = StringValue(k)
		}
		return ObjectValue(out), nil
	default:
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "rev(): expected str, array, or object, got %s", v.Type())
	}
}

func keysBuiltin(args []Value) (Value, error) {
	switch v := args[0]; v.Type() {
	case Object:
		out := make([]Value, 0, len(v.Obj()))
		for k := range v.Obj() {
			out = append(out, StringValue(k))
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Str() < out[j].Str() })
		return ArrayValue(out), nil
	case String:
		n := len([]rune(v.Str()))
		out := make([]Value, n)
		for i := range out {
			out[i] = IntValue(int64(i))
		}
		return ArrayValue(out), nil
	case Array:
		out := make([]Value, len(v.Arr()))
		for i := range out {
			out[i] = IntValue(int64(i))
		}
		return ArrayValue(out), nil
	default:
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "keys(): expected str, array, or object, got %s", v.Type())
	}
}

func valuesBuiltin(args []Value) (Value, error) {
	v := args[0]
	if v.Type() != Object {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "values(): expected object, got %s", v.Type())
	}
	keysSorted := make([]string, 0, len(v.Obj()))
	for k := range v.Obj() {
		keysSorted = append(keysSorted, k)
	}
	sort.Strings(keysSorted)
	out := make([]Value, len(keysSorted))
	for i, k := range keysSorted {
		out[i] = v.Obj()[k]
	}
	return ArrayValue(out), nil
}

func pickBuiltin(args []Value) (Value, error) {
	return pickOmit(args[0], args[1], true)
}

func omitBuiltin(args []Value) (Value, error) {
	return pickOmit(args[0], args[1], false)
}

func pickOmit(keysArg, from Value, isPick bool) (Value, error) {
	if keysArg.Type() != Array {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "%s(): keys must be an array, got %s", pickOmitName(isPick), keysArg.Type())
	}
	switch from.Type() {
	case Object:
		wanted := util.NewStringSet()
		for _, k := range keysArg.Arr() {
			ks, err := valueToKeyString(k)
			if err != nil {
				return Value{}, err
			}
			wanted.Add(ks)
		}
		out := make(map[string]Value)
		if isPick {
			for k := range wanted {
				v, ok := from.Obj()[k]
				if !ok {
					return Value{}, rsherr.Newf(rsherr.ValueError, "pick(): missing object key %q", k)
				}
				out[k] = v
			}
		} else {
			for k, v := range from.Obj() {
				if !wanted.Has(k) {
					out[k] = v
				}
			}
		}
		return ObjectValue(out), nil
	case Array, String:
		var length int
		var runes []rune
		if from.Type() == String {
			runes = []rune(from.Str())
			length = len(runes)
		} else {
			length = len(from.Arr())
		}
		wanted := make(map[int]bool)
		for _, k := range keysArg.Arr() {
			if k.Type() != Integer {
				return Value{}, rsherr.Newf(rsherr.TypeMismatch, "%s(): index must be int, got %s", pickOmitName(isPick), k.Type())
			}
			idx := int(k.Int())
			if idx < 0 {
				idx += length
			}
			if isPick && (idx < 0 || idx >= length) {
				return Value{}, rsherr.Newf(rsherr.ValueError, "%s(): index %d out of range", pickOmitName(isPick), k.Int())
			}
			if idx >= 0 && idx < length {
				wanted[idx] = true
			}
		}
		if from.Type() == String {
			var sb strings.Builder
			for i, r := range runes {
				keep := wanted[i]
				if !isPick {
					keep = !wanted[i]
				}
				if keep {
					sb.WriteRune(r)
				}
			}
			return StringValue(sb.String()), nil
		}
		out := make([]Value, 0, length)
		for i, el := range from.Arr() {
			keep := wanted[i]
			if !isPick {
				keep = !wanted[i]
			}
			if keep {
				out = append(out, el)
			}
		}
		return ArrayValue(out), nil
	default:
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "%s(): expected str, array, or object, got %s", pickOmitName(isPick), from.Type())
	}
}

func pickOmitName(isPick bool) string {
	if isPick {
		return "pick"
	}
	return "omit"
}

func compactBuiltin(args []Value) (Value, error) {
	if args[0].Type() != Array {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "compact(): expected array, got %s", args[0].Type())
	}
	out := make([]Value, 0, len(args[0].Arr()))
	for _, el := range args[0].Arr() {
		if el.IsEmpty() {
			continue
		}
		if b, err := boolConvert(el); err == nil && !b {
			continue
		}
		out = append(out, el)
	}
	return ArrayValue(out), nil
}

func sumBuiltin(args []Value) (Value, error) {
	if args[0].Type() != Array {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "sum(): expected array, got %s", args[0].Type())
	}
	acc := IntValue(0)
	for _, el := range args[0].Arr() {
		var err error
		acc, err = evalAdd(acc, el)
		if err != nil {
			return Value{}, err
		}
	}
	return acc, nil
}

func minMaxBuiltin(args []Value, wantMin bool) (Value, error) {
	if args[0].Type() != Array {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "min/max(): expected array, got %s", args[0].Type())
	}
	elems := args[0].Arr()
	if len(elems) == 0 {
		return Value{}, rsherr.New(rsherr.ValueError, "min/max(): array must not be empty")
	}
	best := elems[0]
	for _, el := range elems[1:] {
		c, err := TryCompare(el, best)
		if err != nil {
			return Value{}, err
		}
		if (wantMin && c < 0) || (!wantMin && c > 0) {
			best = el
		}
	}
	return best, nil
}

func minBuiltin(args []Value) (Value, error) { return minMaxBuiltin(args, true) }
func maxBuiltin(args []Value) (Value, error) { return minMaxBuiltin(args, false) }

func sortBuiltin(args []Value) (Value, error) {
	if args[0].Type() != Array {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "sort(): expected array, got %s", args[0].Type())
	}
	out := append([]Value(nil), args[0].Arr()...)
	var sortErr error
	sort.SliceStable(out, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		c, err := TryCompare(out[i], out[j])
		if err != nil {
			sortErr = err
			return false
		}
		return c < 0
	})
	if sortErr != nil {
		return Value{}, sortErr
	}
	return ArrayValue(out), nil
}

func sortbyBuiltin(args []Value, ctx *Context) (Value, error) {
	if args[0].Type() != Array {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "sortby(): expected array, got %s", args[0].Type())
	}
	if args[1].Type() != Func {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "sortby(): expected function, got %s", args[1].Type())
	}
	cmp := args[1].Fn()
	out := append([]Value(nil), args[0].Arr()...)
	var sortErr error
	sort.SliceStable(out, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		v, err := cmp.Invoke2(out[i], out[j], ctx)
		if err != nil {
			sortErr = err
			return false
		}
		if !v.IsNumber() {
			sortErr = rsherr.Newf(rsherr.TypeMismatch, "sortby(): comparator must return a number, got %s", v.Type())
			return false
		}
		n := v.Flt()
		if v.Type() == Integer {
			n = float64(v.Int())
		}
		return n < 0
	})
	if sortErr != nil {
		return Value{}, sortErr
	}
	return ArrayValue(out), nil
}

func indexBuiltin(args []Value) (Value, error) {
	needle, hay := args[0], args[1]
	switch hay.Type() {
	case String:
		if needle.Type() == Regex {
			loc := needle.Rx().FindStringIndex(hay.Str())
			if loc == nil {
				return EmptyValue, nil
			}
			return IntValue(int64(len([]rune(hay.Str()[:loc[0]])))), nil
		}
		if needle.Type() != String {
			return Value{}, rsherr.Newf(rsherr.TypeMismatch, "index(): expected str or regex needle, got %s", needle.Type())
		}
		idx := strings.Index(hay.Str(), needle.Str())
		if idx < 0 {
			return EmptyValue, nil
		}
		return IntValue(int64(len([]rune(hay.Str()[:idx])))), nil
	case Array:
		for i, el := range hay.Arr() {
			ok, err := TryEqual(needle, el)
			if err == nil && ok {
				return IntValue(int64(i)), nil
			}
		}
		return EmptyValue, nil
	default:
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "index(): expected str or array haystack, got %s", hay.Type())
	}
}

func mapBuiltin(args []Value, ctx *Context) (Value, error) {
	fn, arr, err := fnAndArray(args, "map")
	if err != nil {
		return Value{}, err
	}
	out := make([]Value, len(arr))
	for i, el := range arr {
		v, err := fn.Invoke1(el, ctx.Child())
		if err != nil {
			return Value{}, err
		}
		out[i] = v
	}
	return ArrayValue(out), nil
}

func filterLike(args []Value, ctx *Context, keepIf bool) (Value, error) {
	fn, arr, err := fnAndArray(args, "filter")
	if err != nil {
		return Value{}, err
	}
	out := make([]Value, 0, len(arr))
	for _, el := range arr {
		v, err := fn.Invoke1(el, ctx.Child())
		if err != nil {
			return Value{}, err
		}
		truthy, err := boolConvert(v)
		if err != nil {
			return Value{}, err
		}
		if truthy == keepIf {
			out = append(out, el)
		}
	}
	return ArrayValue(out), nil
}

func filterBuiltin(args []Value, ctx *Context) (Value, error) { return filterLike(args, ctx, true) }
func rejectBuiltin(args []Value, ctx *Context) (Value, error) { return filterLike(args, ctx, false) }

func allBuiltin(args []Value, ctx *Context) (Value, error) {
	fn, arr, err := fnAndArray(args, "all")
	if err != nil {
		return Value{}, err
	}
	for _, el := range arr {
		v, err := fn.Invoke1(el, ctx.Child())
		if err != nil {
			return Value{}, err
		}
		truthy, err := boolConvert(v)
		if err != nil {
			return Value{}, err
		}
		if !truthy {
			return BoolValue(false), nil
		}
	}
	return BoolValue(true), nil
}

func anyBuiltin(args []Value, ctx *Context) (Value, error) {
	fn, arr, err := fnAndArray(args, "any")
	if err != nil {
		return Value{}, err
	}
	for _, el := range arr {
		v, err := fn.Invoke1(el, ctx.Child())
		if err != nil {
			return Value{}, err
		}
		truthy, err := boolConvert(v)
		if err != nil {
			return Value{}, err
		}
		if truthy {
			return BoolValue(true), nil
		}
	}
	return BoolValue(false), nil
}

func foldBuiltin(args []Value, ctx *Context) (Value, error) {
	if args[0].Type() != Func {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "fold(): expected function, got %s", args[0].Type())
	}
	if args[2].Type() != Array {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "fold(): expected array, got %s", args[2].Type())
	}
	fn := args[0].Fn()
	acc := args[1]
	for _, el := range args[2].Arr() {
		var err error
		acc, err = fn.Invoke2(acc, el, ctx.Child())
		if err != nil {
			return Value{}, err
		}
	}
	return acc, nil
}

// fnAndArray extracts and validates the (function, array) argument pair
// shared by map/filter/reject/all/any, which all take the callback first.
func fnAndArray(args []Value, name string) (*Function, []Value, error) {
	if args[0].Type() != Func {
		return nil, nil, rsherr.Newf(rsherr.TypeMismatch, "%s(): expected function, got %s", name, args[0].Type())
	}
	if args[1].Type() != Array {
		return nil, nil, rsherr.Newf(rsherr.TypeMismatch, "%s(): expected array, got %s", name, args[1].Type())
	}
	return args[0].Fn(), args[1].Arr(), nil
}

// stdlibFilter is evalSubscript's entry point for the `array[function]`
// subscript sugar, sharing the same implementation as the filter() builtin.
func stdlibFilter(args []Value, ctx *Context) (Value, error) {
	return filterBuiltin(args, ctx)
}
