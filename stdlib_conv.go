package rush

import (
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/dekarrin/rush/internal/rsherr"
)

// str converts any value to its textual rendering, using the same rules as
// the output serializer.
func stdlibStr(args []Value) (Value, error) {
	s, err := Render(args[0])
	if err != nil {
		return Value{}, err
	}
	return StringValue(s), nil
}

// int converts a string, float, or bool to an integer. Floats truncate
// toward zero (matching original_source's `as i64`, not a rounding
// conversion); bools are 0/1.
func stdlibInt(args []Value) (Value, error) {
	v := args[0]
	switch v.Type() {
	case Integer:
		return v, nil
	case Float:
		return IntValue(int64(v.Flt())), nil
	case Boolean:
		if v.Bool() {
			return IntValue(1), nil
		}
		return IntValue(0), nil
	case String:
		i, err := strconv.ParseInt(strings.TrimSpace(v.Str()), 10, 64)
		if err != nil {
			return Value{}, rsherr.Newf(rsherr.Conversion, "cannot convert %q to int", v.Str())
		}
		return IntValue(i), nil
	default:
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "int(): cannot convert a %s", v.Type())
	}
}

// float converts a string, int, or bool to a float.
func stdlibFloat(args []Value) (Value, error) {
	v := args[0]
	switch v.Type() {
	case Float:
		return v, nil
	case Integer:
		return FloatValue(float64(v.Int())), nil
	case Boolean:
		if v.Bool() {
			return FloatValue(1), nil
		}
		return FloatValue(0), nil
	case String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str()), 64)
		if err != nil {
			return Value{}, rsherr.Newf(rsherr.Conversion, "cannot convert %q to float", v.Str())
		}
		return FloatValue(f), nil
	default:
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "float(): cannot convert a %s", v.Type())
	}
}

// bool converts using the same truthiness rule as &&/||/?:.
func stdlibBool(args []Value) (Value, error) {
	b, err := boolConvert(args[0])
	if err != nil {
		return Value{}, err
	}
	return BoolValue(b), nil
}

// regex compiles a string into a regex value, or passes an existing regex
// value through unchanged.
func stdlibRegex(args []Value) (Value, error) {
	v := args[0]
	if v.Type() == Regex {
		return v, nil
	}
	if v.Type() != String {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "regex(): expected str, got %s", v.Type())
	}
	re, err := compileRegex(v.Str())
	if err != nil {
		return Value{}, err
	}
	return RegexValue(re, v.Str()), nil
}

// array wraps x as a single-element array, unless x is already an array.
func stdlibArray(args []Value) (Value, error) {
	if args[0].Type() == Array {
		return args[0], nil
	}
	return ArrayValue([]Value{args[0]}), nil
}

// json round-trips between text and composite values: a string argument is
// decoded, any other value is encoded to its JSON text.
func stdlibJSON(args []Value) (Value, error) {
	v := args[0]
	if v.Type() == String {
		var decoded interface{}
		if err := json.Unmarshal([]byte(v.Str()), &decoded); err != nil {
			return Value{}, rsherr.Wrapf(err, rsherr.Conversion, "invalid JSON")
		}
		return fromJSONInterface(decoded), nil
	}
	s, err := renderJSON(v)
	if err != nil {
		return Value{}, err
	}
	return StringValue(s), nil
}

// csv round-trips between text and an array-of-rows value: a string
// argument is parsed into an array of string arrays (one per record); an
// array argument is encoded back to CSV text. A flat array of strings is
// treated as a single row.
func stdlibCSV(args []Value) (Value, error) {
	v := args[0]
	if v.Type() == String {
		r := csv.NewReader(strings.NewReader(v.Str()))
		r.FieldsPerRecord = -1
		records, err := r.ReadAll()
		if err != nil {
			return Value{}, rsherr.Wrapf(err, rsherr.Conversion, "invalid CSV")
		}
		rows := make([]Value, len(records))
		for i, rec := range records {
			fields := make([]Value, len(rec))
			for j, f := range rec {
				fields[j] = StringValue(f)
			}
			rows[i] = ArrayValue(fields)
		}
		return ArrayValue(rows), nil
	}
	if v.Type() != Array {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "csv(): expected str or array, got %s", v.Type())
	}
	rows := v.Arr()
	if len(rows) > 0 && rows[0].Type() != Array {
		rows = []Value{v} // flat array of scalars is a single row
	}
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	for _, row := range rows {
		if row.Type() != Array {
			return Value{}, rsherr.Newf(rsherr.TypeMismatch, "csv(): row must be an array, got %s", row.Type())
		}
		rec := make([]string, len(row.Arr()))
		for i, cell := range row.Arr() {
			s, err := Render(cell)
			if err != nil {
				return Value{}, err
			}
			rec[i] = s
		}
		if err := w.Write(rec); err != nil {
			return Value{}, rsherr.Wrapf(err, rsherr.ValueError, "failed to encode CSV")
		}
	}
	w.Flush()
	return StringValue(sb.String()), nil
}

// chr converts a non-negative codepoint ordinal to its one-rune string.
func stdlibChr(args []Value) (Value, error) {
	v := args[0]
	if v.Type() != Integer {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "chr(): expected int, got %s", v.Type())
	}
	if v.Int() < 0 || v.Int() > 0x10FFFF {
		return Value{}, rsherr.Newf(rsherr.ValueError, "invalid character ordinal: %d", v.Int())
	}
	return StringValue(string(rune(v.Int()))), nil
}

// ord returns the codepoint ordinal of a length-1 string.
func stdlibOrd(args []Value) (Value, error) {
	v := args[0]
	if v.Type() != String {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "ord(): expected str, got %s", v.Type())
	}
	runes := []rune(v.Str())
	if len(runes) != 1 {
		return Value{}, rsherr.Newf(rsherr.ValueError, "ord(): expected a length-1 string, got %d characters", len(runes))
	}
	return IntValue(int64(runes[0])), nil
}
