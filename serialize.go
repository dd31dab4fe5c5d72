package rush

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/dekarrin/rush/internal/rsherr"
)

// Render converts a value to the text a driver would print to standard
// output: booleans as true/false, integers in plain decimal, floats always
// with a decimal point and at least one fractional digit (so 2.0 never
// prints as just "2"), strings verbatim with no quoting, arrays as their
// elements newline-joined (each rendered recursively), and objects as JSON.
// Regex, function, and empty values have no output representation and are
// always an error to render directly.
func Render(v Value) (string, error) {
	switch v.Type() {
	case Boolean:
		if v.Bool() {
			return "true", nil
		}
		return "false", nil
	case Integer:
		return strconv.FormatInt(v.Int(), 10), nil
	case Float:
		return renderFloat(v.Flt()), nil
	case String, Symbol:
		return v.Str(), nil
	case Array:
		lines := make([]string, len(v.Arr()))
		for i, el := range v.Arr() {
			s, err := Render(el)
			if err != nil {
				return "", err
			}
			lines[i] = s
		}
		return strings.Join(lines, "\n"), nil
	case Object:
		j, err := renderJSON(v)
		if err != nil {
			return "", err
		}
		return j, nil
	default:
		return "", rsherr.Newf(rsherr.ValueError, "cannot render a %s value", v.Type())
	}
}

func renderFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		// exponential form: the mantissa still needs its decimal point
		if !strings.Contains(s[:i], ".") {
			s = s[:i] + ".0" + s[i:]
		}
		return s
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// renderJSON converts a value into its JSON text, used both by object
// rendering and by the json() stdlib function's value-to-string direction.
func renderJSON(v Value) (string, error) {
	j, err := toJSONInterface(v)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(j)
	if err != nil {
		return "", rsherr.Wrap(err, rsherr.ValueError, "failed to encode value as JSON")
	}
	return string(b), nil
}

func toJSONInterface(v Value) (interface{}, error) {
	switch v.Type() {
	case Empty:
		return nil, nil
	case Boolean:
		return v.Bool(), nil
	case Integer:
		return v.Int(), nil
	case Float:
		return v.Flt(), nil
	case String, Symbol:
		return v.Str(), nil
	case Array:
		out := make([]interface{}, len(v.Arr()))
		for i, el := range v.Arr() {
			j, err := toJSONInterface(el)
			if err != nil {
				return nil, err
			}
			out[i] = j
		}
		return out, nil
	case Object:
		out := make(map[string]interface{}, len(v.Obj()))
		for k, el := range v.Obj() {
			j, err := toJSONInterface(el)
			if err != nil {
				return nil, err
			}
			out[k] = j
		}
		return out, nil
	default:
		return nil, rsherr.Newf(rsherr.ValueError, "cannot encode a %s value as JSON", v.Type())
	}
}

// fromJSONInterface is the decode half of json(), converting a generic
// decoded value back into a rush Value. encoding/json decodes all JSON
// numbers as float64; integral-looking values are narrowed back to Integer
// so that json(str(x)) round-trips for the common case.
func fromJSONInterface(j interface{}) Value {
	switch t := j.(type) {
	case nil:
		return EmptyValue
	case bool:
		return BoolValue(t)
	case float64:
		if t == float64(int64(t)) {
			return IntValue(int64(t))
		}
		return FloatValue(t)
	case string:
		return StringValue(t)
	case []interface{}:
		out := make([]Value, len(t))
		for i, el := range t {
			out[i] = fromJSONInterface(el)
		}
		return ArrayValue(out)
	case map[string]interface{}:
		out := make(map[string]Value, len(t))
		for k, el := range t {
			out[k] = fromJSONInterface(el)
		}
		return ObjectValue(out)
	default:
		return EmptyValue
	}
}
