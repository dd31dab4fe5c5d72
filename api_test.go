package rush

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/rush/internal/rsherr"
)

// Test_Apply_concreteScenarios exercises the §8 concrete scenarios: simple
// arithmetic, length, implicit-input binding, reversal, substitution,
// sorting, curried operators, and higher-order map.
func Test_Apply_concreteScenarios(t *testing.T) {
	testCases := []struct {
		name   string
		expr   string
		input  string
		expect string
	}{
		{name: "addition", expr: "2+2", input: "", expect: "4"},
		{name: "len of a word", expr: "len(hello)", input: "", expect: "5"},
		{name: "implicit input add", expr: "_ + 40", input: "2", expect: "42"},
		{name: "rev a string", expr: "rev(_)", input: "foo", expect: "oof"},
		{name: "sub a substring", expr: "sub(i, o, pit)", input: "", expect: "pot"},
		{name: "sort an array", expr: "sort([3,1,2])", input: "", expect: "1\n2\n3"},
		{name: "curried add applied", expr: "(2+) $ 2", input: "", expect: "4"},
		{name: "curried mul applied", expr: "(*2) $ 3", input: "", expect: "6"},
		{name: "map over array", expr: "map((1+), [1,2,3])", input: "", expect: "2\n3\n4"},
		{name: "array negative index", expr: "[1,2,3][-1]", input: "", expect: "3"},
		{name: "unbound symbol subscript", expr: "foo[0]", input: "", expect: "f"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Apply(tc.expr, tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, got)
		})
	}
}

func Test_ApplyBytes(t *testing.T) {
	out, err := ApplyBytes("_ + 1", []byte{0x41})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x42}, out)

	_, err = ApplyBytes("_ + 1000", []byte{0})
	assert.Error(t, err)
}

func Test_Parse_comparisonChainingForbidden(t *testing.T) {
	// comparison is non-chained in the grammar: after "2 == 2" consumes one
	// comparison, the trailing "== true" is excess input, not a second
	// link in a chain.
	_, err := Parse("2 == 2 == true")
	require.Error(t, err)
	kind, ok := rsherr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, rsherr.Parse, kind)
}

func Test_Apply_shortCircuit(t *testing.T) {
	// the right side of '&&'/'||' must never be evaluated when the left
	// side already determines the result; the right side here divides by
	// zero -- if short-circuiting failed to skip it, this would raise a
	// division-by-zero value error instead of returning the left side.
	got, err := Apply("false && (1/0 == 0)", "")
	require.NoError(t, err)
	assert.Equal(t, "false", got)

	got, err = Apply("true || (1/0 == 0)", "")
	require.NoError(t, err)
	assert.Equal(t, "true", got)
}

func Test_Apply_conditional(t *testing.T) {
	got, err := Apply("true ? 1 : 2", "")
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	got, err = Apply("false ? 1 : 2", "")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
}

// Test_Assignment_persistsInSameScope exercises invariant 10: an
// assignment-expression yields empty and makes subsequent references to the
// same name resolve to the assigned value, within the same context.
func Test_Assignment_persistsInSameScope(t *testing.T) {
	root := NewRootContext()

	ast, err := Parse("a = 5")
	require.NoError(t, err)
	v, err := Eval(ast, root)
	require.NoError(t, err)
	assert.True(t, v.IsEmpty())

	ast, err = Parse("a")
	require.NoError(t, err)
	v, err = Eval(ast, root)
	require.NoError(t, err)
	assert.Equal(t, IntValue(5), v)
}

// Test_Assignment_rightAssociativeChain exercises "a = b = c": c is
// assigned to b first, then b's resulting value is assigned to a.
func Test_Assignment_rightAssociativeChain(t *testing.T) {
	root := NewRootContext()

	ast, err := Parse("a = b = 7")
	require.NoError(t, err)
	_, err = Eval(ast, root)
	require.NoError(t, err)

	for _, name := range []string{"a", "b"} {
		v, ok := root.Get(name)
		require.True(t, ok)
		assert.Equal(t, IntValue(7), v)
	}
}

func Test_Apply_arityErrorNeverProducesAValue(t *testing.T) {
	_, err := Apply("len(1,2)", "")
	assert.Error(t, err)
}

func Test_Apply_typeMismatchNeverProducesAValue(t *testing.T) {
	_, err := Apply("1 + true", "")
	assert.Error(t, err)
}
