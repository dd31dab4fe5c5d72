package rush

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalExpr(t *testing.T, expr string) Value {
	t.Helper()
	ast, err := Parse(expr)
	require.NoError(t, err)
	v, err := Eval(ast, NewRootContext())
	require.NoError(t, err)
	return v
}

func Test_Stdlib_lenAcrossVariants(t *testing.T) {
	testCases := []struct {
		name   string
		expr   string
		expect int64
	}{
		{name: "string by characters", expr: `len(hello)`, expect: 5},
		{name: "array", expr: `len([1,2,3,4])`, expect: 4},
		{name: "object", expr: `len({"a": 1, "b": 2})`, expect: 2},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := evalExpr(t, tc.expr)
			require.Equal(t, Integer, v.Type())
			assert.Equal(t, tc.expect, v.Int())
		})
	}
}

// Test_Stdlib_lenMatchesCharsLength exercises testable property 3: for all
// strings s, len(s) == len(chars(s)).
func Test_Stdlib_lenMatchesCharsLength(t *testing.T) {
	for _, s := range []string{"hello", "", "a"} {
		lenExpr := `len(` + quoteForRush(s) + `)`
		charsExpr := `len(chars(` + quoteForRush(s) + `))`
		l := evalExpr(t, lenExpr)
		c := evalExpr(t, charsExpr)
		assert.Equal(t, l.Int(), c.Int())
	}
}

func quoteForRush(s string) string {
	if s == "" {
		return `""`
	}
	return `"` + s + `"`
}

func Test_Stdlib_revVariants(t *testing.T) {
	v := evalExpr(t, `rev("abc")`)
	assert.Equal(t, "cba", v.Str())

	v = evalExpr(t, `rev([1,2,3])`)
	require.Equal(t, Array, v.Type())
	assert.Equal(t, []int64{3, 2, 1}, intsOf(v))
}

func intsOf(v Value) []int64 {
	out := make([]int64, len(v.Arr()))
	for i, el := range v.Arr() {
		out[i] = el.Int()
	}
	return out
}

func Test_Stdlib_sortIsOrderedAndAPermutation(t *testing.T) {
	v := evalExpr(t, `sort([5,3,1,4,1,5,9,2,6])`)
	got := intsOf(v)
	assert.Equal(t, []int64{1, 1, 2, 3, 4, 5, 5, 6, 9}, got)
}

func Test_Stdlib_sortMixedIncomparableTypesErrors(t *testing.T) {
	ast, err := Parse(`sort([1, "a"])`)
	require.NoError(t, err)
	_, err = Eval(ast, NewRootContext())
	assert.Error(t, err)
}

func Test_Stdlib_pickAndOmit(t *testing.T) {
	v := evalExpr(t, `pick([0,2], [10,20,30])`)
	assert.Equal(t, []int64{10, 30}, intsOf(v))

	v = evalExpr(t, `omit([1], [10,20,30])`)
	assert.Equal(t, []int64{10, 30}, intsOf(v))
}

func Test_Stdlib_omitOutOfRangeIndexIsASilentSkip(t *testing.T) {
	// resolved open question (b): omit silently skips an out-of-range
	// index rather than erroring.
	v := evalExpr(t, `omit([99], [10,20,30])`)
	assert.Equal(t, []int64{10, 20, 30}, intsOf(v))
}

func Test_Stdlib_subReplacesAllOccurrences(t *testing.T) {
	v := evalExpr(t, `sub("i", "o", "mississippi")`)
	assert.Equal(t, "mossossoppo", v.Str())
}

func Test_Stdlib_indexFindsSubstringArrayAndRegex(t *testing.T) {
	v := evalExpr(t, `index("l", "hello")`)
	require.Equal(t, Integer, v.Type())
	assert.Equal(t, int64(2), v.Int())

	v = evalExpr(t, `index(3, [1,2,3,4])`)
	require.Equal(t, Integer, v.Type())
	assert.Equal(t, int64(2), v.Int())

	v = evalExpr(t, `index(/l+/, "hello")`)
	require.Equal(t, Integer, v.Type())
	assert.Equal(t, int64(2), v.Int())

	v = evalExpr(t, `index("z", "hello")`)
	assert.True(t, v.IsEmpty())
}

func Test_Stdlib_splitJoinRoundTrip(t *testing.T) {
	// testable property 4: split(d, join(d, a)) == a, for string elements
	// not containing d.
	v := evalExpr(t, `split(",", join(",", ["a","b","c"]))`)
	require.Equal(t, Array, v.Type())
	var got []string
	for _, el := range v.Arr() {
		got = append(got, el.Str())
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func Test_Stdlib_formatPositionalArgs(t *testing.T) {
	v := evalExpr(t, `format("{} and {}", ["a", "b"])`)
	assert.Equal(t, "a and b", v.Str())
}

func Test_Stdlib_formatEscapesBraces(t *testing.T) {
	v := evalExpr(t, `format("{{}}", [])`)
	assert.Equal(t, "{}", v.Str())
}

func Test_Stdlib_chrAndOrdRoundTrip(t *testing.T) {
	v := evalExpr(t, `chr(65)`)
	assert.Equal(t, "A", v.Str())

	v = evalExpr(t, `ord("A")`)
	assert.Equal(t, int64(65), v.Int())
}

func Test_Stdlib_ordRejectsMultiCharacterStrings(t *testing.T) {
	ast, err := Parse(`ord("AB")`)
	require.NoError(t, err)
	_, err = Eval(ast, NewRootContext())
	assert.Error(t, err)
}

func Test_Stdlib_deburrStripsDiacritics(t *testing.T) {
	v := evalExpr(t, `deburr("café")`)
	assert.Equal(t, "cafe", v.Str())
}

func Test_Stdlib_jsonDecodesAnObject(t *testing.T) {
	v := evalExpr(t, `json("{\"a\": 1, \"b\": [1,2,3]}")`)
	require.Equal(t, Object, v.Type())
	inner, ok := v.Obj()["a"]
	require.True(t, ok)
	assert.Equal(t, int64(1), inner.Int())
}

func Test_Stdlib_csvParsesRecordsIntoRows(t *testing.T) {
	v := evalExpr(t, "csv(\"a,b\\nc,d\")")
	require.Equal(t, Array, v.Type())
	require.Len(t, v.Arr(), 2)
}

func Test_Stdlib_mapFilterRejectIdentities(t *testing.T) {
	// testable property 7: map(id, a) == a; filter(|x| true, a) == a;
	// filter(|x| false, a) == [].
	v := evalExpr(t, `map(id, [1,2,3])`)
	assert.Equal(t, []int64{1, 2, 3}, intsOf(v))

	v = evalExpr(t, `filter(|x| true, [1,2,3])`)
	assert.Equal(t, []int64{1, 2, 3}, intsOf(v))

	v = evalExpr(t, `filter(|x| false, [1,2,3])`)
	assert.Equal(t, 0, len(v.Arr()))
}

func Test_Stdlib_foldSumsAnArray(t *testing.T) {
	v := evalExpr(t, `fold(|acc, x| acc + x, 0, [1,2,3,4])`)
	assert.Equal(t, int64(10), v.Int())
}

func Test_Stdlib_allAndAny(t *testing.T) {
	v := evalExpr(t, `all(|x| x > 0, [1,2,3])`)
	assert.True(t, v.Bool())

	v = evalExpr(t, `any(|x| x > 2, [1,2,3])`)
	assert.True(t, v.Bool())

	v = evalExpr(t, `any(|x| x > 20, [1,2,3])`)
	assert.False(t, v.Bool())
}

func Test_Stdlib_aliasesResolveToSameBehavior(t *testing.T) {
	pairs := [][2]string{
		{`chr(65)`, `char(65)`},
		{`regex("a+")`, `re("a+")`},
		{`regex("a+")`, `regexp("a+")`},
		{`fold(|a,b| a+b, 0, [1,2])`, `foldl(|a,b| a+b, 0, [1,2])`},
		{`sub("a","b","aaa")`, `gsub("a","b","aaa")`},
	}
	for _, pair := range pairs {
		a := evalExpr(t, pair[0])
		b := evalExpr(t, pair[1])
		aStr, err := Render(a)
		if err != nil {
			// regex values don't render; compare pattern text instead.
			require.True(t, a.IsRegex())
			require.True(t, b.IsRegex())
			assert.Equal(t, a.RxPattern(), b.RxPattern())
			continue
		}
		bStr, err := Render(b)
		require.NoError(t, err)
		assert.Equal(t, aStr, bStr)
	}
}

func Test_Stdlib_arrayWrapsNonArrayValues(t *testing.T) {
	v := evalExpr(t, `array(5)`)
	require.Equal(t, Array, v.Type())
	assert.Equal(t, []int64{5}, intsOf(v))

	v = evalExpr(t, `array([1,2])`)
	assert.Equal(t, []int64{1, 2}, intsOf(v))
}

func Test_Stdlib_keysAndValues(t *testing.T) {
	v := evalExpr(t, `keys({"a": 1, "b": 2})`)
	require.Equal(t, Array, v.Type())
	assert.Len(t, v.Arr(), 2)

	v = evalExpr(t, `values({"a": 1})`)
	require.Equal(t, Array, v.Type())
	assert.Equal(t, int64(1), v.Arr()[0].Int())
}

func Test_Stdlib_minMaxSumCompact(t *testing.T) {
	v := evalExpr(t, `min([3,1,2])`)
	assert.Equal(t, int64(1), v.Int())

	v = evalExpr(t, `max([3,1,2])`)
	assert.Equal(t, int64(3), v.Int())

	v = evalExpr(t, `sum([1,2,3])`)
	assert.Equal(t, int64(6), v.Int())

	v = evalExpr(t, `compact([1, nil, 2, nil])`)
	assert.Equal(t, []int64{1, 2}, intsOf(v))
}

func Test_Stdlib_idAndFlip(t *testing.T) {
	v := evalExpr(t, `id(5)`)
	assert.Equal(t, int64(5), v.Int())

	v = evalExpr(t, `flip((-)) $ 2 $ 10`)
	// flip((-)) reverses argument order for subtraction: flip(-)(2, 10) = 10 - 2
	assert.Equal(t, int64(8), v.Int())
}
