package rush

import (
	"strings"

	"github.com/dekarrin/rush/internal/rsherr"
	"golang.org/x/text/unicode/norm"
)

// stdlibSplit implements both the split() builtin and the '/' operator
// overload on (string, string|regex).
func stdlibSplit(delim Value, s string) (Value, error) {
	var parts []string
	switch delim.Type() {
	case String:
		if delim.Str() == "" {
			return Value{}, rsherr.New(rsherr.ValueError, "split(): delimiter must not be empty")
		}
		parts = strings.Split(s, delim.Str())
	case Regex:
		parts = delim.Rx().Split(s, -1)
	default:
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "split(): delimiter must be str or regex, got %s", delim.Type())
	}
	vals := make([]Value, len(parts))
	for i, p := range parts {
		vals[i] = StringValue(p)
	}
	return ArrayValue(vals), nil
}

func splitBuiltin(args []Value) (Value, error) {
	if args[1].Type() != String {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "split(): expected str, got %s", args[1].Type())
	}
	return stdlibSplit(args[0], args[1].Str())
}

// stdlibJoin implements both join() and the '*' operator overload on
// (array, string).
func stdlibJoin(sep string, arr []Value) (Value, error) {
	parts := make([]string, len(arr))
	for i, el := range arr {
		s, err := Render(el)
		if err != nil {
			return Value{}, rsherr.Wrapf(err, rsherr.TypeMismatch, "join(): element %d is not renderable", i)
		}
		parts[i] = s
	}
	return StringValue(strings.Join(parts, sep)), nil
}

func joinBuiltin(args []Value) (Value, error) {
	if args[0].Type() != String {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "join(): delimiter must be str, got %s", args[0].Type())
	}
	if args[1].Type() != Array {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "join(): expected array, got %s", args[1].Type())
	}
	return stdlibJoin(args[0].Str(), args[1].Arr())
}

func wordsBuiltin(args []Value) (Value, error) {
	if args[0].Type() != String {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "words(): expected str, got %s", args[0].Type())
	}
	fields := strings.Fields(args[0].Str())
	vals := make([]Value, len(fields))
	for i, f := range fields {
		vals[i] = StringValue(f)
	}
	return ArrayValue(vals), nil
}

func linesBuiltin(args []Value) (Value, error) {
	if args[0].Type() != String {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "lines(): expected str, got %s", args[0].Type())
	}
	s := strings.TrimSuffix(args[0].Str(), "\n")
	if s == "" {
		return ArrayValue([]Value{}), nil
	}
	parts := strings.Split(s, "\n")
	vals := make([]Value, len(parts))
	for i, p := range parts {
		vals[i] = StringValue(strings.TrimSuffix(p, "\r"))
	}
	return ArrayValue(vals), nil
}

func charsBuiltin(args []Value) (Value, error) {
	if args[0].Type() != String {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "chars(): expected str, got %s", args[0].Type())
	}
	runes := []rune(args[0].Str())
	vals := make([]Value, len(runes))
	for i, r := range runes {
		vals[i] = StringValue(string(r))
	}
	return ArrayValue(vals), nil
}

// stdlibFormat implements both format() and the '%' operator overload on
// (string, scalar|array). {{ and }} escape literal braces; {} is replaced
// by successive positional arguments in order.
func stdlibFormat(tmpl string, arg Value) (Value, error) {
	var positional []Value
	if arg.Type() == Array {
		positional = arg.Arr()
	} else {
		positional = []Value{arg}
	}

	var sb strings.Builder
	next := 0
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch {
		case c == '{' && i+1 < len(tmpl) && tmpl[i+1] == '{':
			sb.WriteByte('{')
			i++
		case c == '}' && i+1 < len(tmpl) && tmpl[i+1] == '}':
			sb.WriteByte('}')
			i++
		case c == '{' && i+1 < len(tmpl) && tmpl[i+1] == '}':
			if next >= len(positional) {
				return Value{}, rsherr.Newf(rsherr.ValueError, "format(): not enough arguments for placeholder %d", next+1)
			}
			s, err := Render(positional[next])
			if err != nil {
				return Value{}, err
			}
			sb.WriteString(s)
			next++
			i++
		default:
			sb.WriteByte(c)
		}
	}
	return StringValue(sb.String()), nil
}

func formatBuiltin(args []Value) (Value, error) {
	if args[0].Type() != String {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "format(): expected str, got %s", args[0].Type())
	}
	return stdlibFormat(args[0].Str(), args[1])
}

func beforeBuiltin(args []Value) (Value, error) {
	s, sep := args[0], args[1]
	if s.Type() != String || sep.Type() != String {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "before(): expected (str, str), got (%s, %s)", s.Type(), sep.Type())
	}
	idx := strings.Index(s.Str(), sep.Str())
	if idx < 0 {
		return StringValue(s.Str()), nil
	}
	return StringValue(s.Str()[:idx]), nil
}

func afterBuiltin(args []Value) (Value, error) {
	s, sep := args[0], args[1]
	if s.Type() != String || sep.Type() != String {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "after(): expected (str, str), got (%s, %s)", s.Type(), sep.Type())
	}
	idx := strings.Index(s.Str(), sep.Str())
	if idx < 0 {
		return StringValue(""), nil
	}
	return StringValue(s.Str()[idx+len(sep.Str()):]), nil
}

func trimBuiltin(args []Value) (Value, error) {
	if args[0].Type() != String {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "trim(): expected str, got %s", args[0].Type())
	}
	return StringValue(strings.TrimSpace(args[0].Str())), nil
}

func rot13Builtin(args []Value) (Value, error) {
	if args[0].Type() != String {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "rot13(): expected str, got %s", args[0].Type())
	}
	return StringValue(strings.Map(rot13Rune, args[0].Str())), nil
}

func rot13Rune(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return 'a' + (r-'a'+13)%26
	case r >= 'A' && r <= 'Z':
		return 'A' + (r-'A'+13)%26
	default:
		return r
	}
}

// deburr strips Unicode diacritics: NFKD-decompose, then drop combining
// marks that fall in the blocks listed in combiningMarkRanges. Mn/Mc
// characters outside those blocks are kept.
func deburrBuiltin(args []Value) (Value, error) {
	if args[0].Type() != String {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "deburr(): expected str, got %s", args[0].Type())
	}
	decomposed := norm.NFKD.String(args[0].Str())
	var sb strings.Builder
	for _, r := range decomposed {
		if isCombiningMark(r) {
			continue
		}
		sb.WriteRune(r)
	}
	return StringValue(sb.String()), nil
}

func isCombiningMark(r rune) bool {
	return unicodeIn(r, combiningMarkRanges)
}

// latin1 is a reduced-fidelity transliteration: it deburrs and then drops
// any rune outside printable ASCII. The pack carries no unidecode-style
// transliteration table (see DESIGN.md), so this only handles accented
// Latin text well; wide scripts (CJK, Cyrillic, ...) collapse to nothing
// rather than a phonetic approximation.
func latin1Builtin(args []Value) (Value, error) {
	deburred, err := deburrBuiltin(args)
	if err != nil {
		return Value{}, err
	}
	var sb strings.Builder
	for _, r := range deburred.Str() {
		if r >= 0x20 && r <= 0x7E {
			sb.WriteRune(r)
		}
	}
	return StringValue(sb.String()), nil
}

// sub replaces occurrences of needle (string or regex) in hay with repl
// (string, or function receiving capture strings with the whole match at
// position 0). all controls whether every occurrence is replaced (sub/gsub)
// or only the first/last (sub1/rsub1).
func subImpl(needle, repl, hay Value, ctx *Context, all bool, fromEnd bool) (Value, error) {
	if hay.Type() != String {
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "sub(): expected str haystack, got %s", hay.Type())
	}
	s := hay.Str()

	switch needle.Type() {
	case String:
		if needle.Str() == "" {
			return Value{}, rsherr.New(rsherr.ValueError, "sub(): needle must not be empty")
		}
		replStr, err := subReplString(repl, []string{needle.Str()}, ctx)
		if err != nil {
			return Value{}, err
		}
		return StringValue(subPlainString(s, needle.Str(), replStr, all, fromEnd)), nil
	case Regex:
		re := needle.Rx()
		matches := re.FindAllStringSubmatchIndex(s, -1)
		if len(matches) == 0 {
			return StringValue(s), nil
		}
		if !all {
			if fromEnd {
				matches = matches[len(matches)-1:]
			} else {
				matches = matches[:1]
			}
		}
		out, err := applyRegexSubs(s, matches, repl, ctx)
		if err != nil {
			return Value{}, err
		}
		return StringValue(out), nil
	default:
		return Value{}, rsherr.Newf(rsherr.TypeMismatch, "sub(): needle must be str or regex, got %s", needle.Type())
	}
}

func subReplString(repl Value, captures []string, ctx *Context) (string, error) {
	if repl.Type() == Func {
		args := make([]Value, len(captures))
		for i, c := range captures {
			args[i] = StringValue(c)
		}
		if !repl.Fn().Arity().Accepts(len(args)) {
			return "", rsherr.Newf(rsherr.ValueError,
				"sub(): replacement function arity %s does not match %d capture(s)", repl.Fn().Arity(), len(args))
		}
		v, err := repl.Fn().Invoke(args, ctx)
		if err != nil {
			return "", err
		}
		return Render(v)
	}
	if repl.Type() != String {
		return "", rsherr.Newf(rsherr.TypeMismatch, "sub(): replacement must be str or function, got %s", repl.Type())
	}
	return repl.Str(), nil
}

func subPlainString(s, needle, repl string, all, fromEnd bool) string {
	if all {
		return strings.ReplaceAll(s, needle, repl)
	}
	if fromEnd {
		idx := strings.LastIndex(s, needle)
		if idx < 0 {
			return s
		}
		return s[:idx] + repl + s[idx+len(needle):]
	}
	return strings.Replace(s, needle, repl, 1)
}

func applyRegexSubs(s string, matches [][]int, repl Value, ctx *Context) (string, error) {
	var sb strings.Builder
	last := 0
	for _, m := range matches {
		sb.WriteString(s[last:m[0]])
		groupCount := len(m) / 2
		captures := make([]string, groupCount)
		for g := 0; g < groupCount; g++ {
			if m[2*g] < 0 {
				captures[g] = ""
				continue
			}
			captures[g] = s[m[2*g]:m[2*g+1]]
		}
		replStr, err := subReplString(repl, captures, ctx)
		if err != nil {
			return "", err
		}
		sb.WriteString(replStr)
		last = m[1]
	}
	sb.WriteString(s[last:])
	return sb.String(), nil
}

func subBuiltin(args []Value, ctx *Context) (Value, error) {
	return subImpl(args[0], args[1], args[2], ctx, true, false)
}

func sub1Builtin(args []Value, ctx *Context) (Value, error) {
	return subImpl(args[0], args[1], args[2], ctx, false, false)
}

func rsub1Builtin(args []Value, ctx *Context) (Value, error) {
	return subImpl(args[0], args[1], args[2], ctx, false, true)
}

var combiningMarkRanges = []struct{ lo, hi rune }{
	{0x0300, 0x036F}, // Combining Diacritical Marks
	{0x1AB0, 0x1AFF},
	{0x1DC0, 0x1DFF},
	{0x20D0, 0x20FF},
	{0xFE20, 0xFE2F},
}

func unicodeIn(r rune, ranges []struct{ lo, hi rune }) bool {
	for _, rg := range ranges {
		if r >= rg.lo && r <= rg.hi {
			return true
		}
	}
	return false
}
