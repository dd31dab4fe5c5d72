package rush

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parse_floatRequiresADecimalPoint(t *testing.T) {
	ast, err := Parse("2")
	require.NoError(t, err)
	v, err := Eval(ast, NewRootContext())
	require.NoError(t, err)
	assert.Equal(t, Integer, v.Type())

	ast, err = Parse("2.0")
	require.NoError(t, err)
	v, err = Eval(ast, NewRootContext())
	require.NoError(t, err)
	assert.Equal(t, Float, v.Type())
}

func Test_Parse_floatSupportsExponent(t *testing.T) {
	ast, err := Parse("1.5e2")
	require.NoError(t, err)
	v, err := Eval(ast, NewRootContext())
	require.NoError(t, err)
	require.Equal(t, Float, v.Type())
	assert.Equal(t, 150.0, v.Flt())
}

func Test_Parse_trailingDotWithNoFractionalDigitsIsNotPartOfTheNumber(t *testing.T) {
	// "2." has no digit after the dot, so lexNumber must not consume the
	// dot; "2" lexes as a complete integer and the lone dot is then
	// rejected by the lexer as an unexpected character.
	_, err := Parse("2.")
	assert.Error(t, err)
}

func Test_Parse_reservedWordsAreNotValidIdentifiers(t *testing.T) {
	// "true" and "false" are carved out of this set at the lexer level: they
	// resolve to boolean literals before the reserved-word check ever runs,
	// so they parse successfully rather than erroring.
	for name := range reservedWords {
		if name == "true" || name == "false" {
			continue
		}
		_, err := Parse(name)
		assert.Errorf(t, err, "expected %q to be rejected as a reserved word", name)
	}
}

func Test_Parse_trueAndFalseAreBooleanLiteralsNotReservedWordErrors(t *testing.T) {
	got, err := Apply("true", "")
	require.NoError(t, err)
	assert.Equal(t, "true", got)

	got, err = Apply("false", "")
	require.NoError(t, err)
	assert.Equal(t, "false", got)
}

func Test_Parse_regexLiteral(t *testing.T) {
	ast, err := Parse(`/a+/`)
	require.NoError(t, err)
	v, err := Eval(ast, NewRootContext())
	require.NoError(t, err)
	require.True(t, v.IsRegex())
	assert.Equal(t, "a+", v.RxPattern())
	assert.True(t, v.Rx().MatchString("aaa"))
}

func Test_Parse_divisionIsNotConfusedWithARegexLiteral(t *testing.T) {
	got, err := Apply("10 / 2", "")
	require.NoError(t, err)
	assert.Equal(t, "5", got)
}

func Test_Parse_chainedDivisionIsNotConfusedWithARegexLiteral(t *testing.T) {
	// a naive "is there a later '/' anywhere in the input" heuristic reads
	// " 2 " between the first and second slash as a regex literal here;
	// '/' right after a completed value must always be division.
	got, err := Apply("10 / 2 / 5", "")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
}

func Test_Parse_rangeSubscriptIsHalfOpen(t *testing.T) {
	got, err := Apply("[1,2,3,4,5][1:3]", "")
	require.NoError(t, err)
	assert.Equal(t, "2\n3", got)
}

func Test_Parse_rangeSubscriptOpenEnded(t *testing.T) {
	got, err := Apply("[1,2,3,4,5][3:]", "")
	require.NoError(t, err)
	assert.Equal(t, "4\n5", got)

	got, err = Apply("[1,2,3,4,5][:2]", "")
	require.NoError(t, err)
	assert.Equal(t, "1\n2", got)
}

func Test_Parse_unaryNegationBindsTighterThanPower(t *testing.T) {
	// parseUnary's operand recurses into parseUnary (not parsePower), so the
	// '-' attaches only to the immediate atom: "-2**2" parses as (-2)**2,
	// not -(2**2).
	got, err := Apply("-2**2", "")
	require.NoError(t, err)
	assert.Equal(t, "4", got)
}

func Test_Parse_curriedOperatorBothSides(t *testing.T) {
	got, err := Apply("(2+) $ 3", "")
	require.NoError(t, err)
	assert.Equal(t, "5", got)

	got, err = Apply("(+3) $ 2", "")
	require.NoError(t, err)
	assert.Equal(t, "5", got)
}

func Test_Parse_excessInputAfterAValidExpressionIsAParseError(t *testing.T) {
	_, err := Parse("1 + 1 2")
	assert.Error(t, err)
}

func Test_Parse_emptyInputIsAParseError(t *testing.T) {
	_, err := Parse("")
	assert.Error(t, err)

	_, err = Parse("   ")
	assert.Error(t, err)
}

func Test_BindInput_typedVariantsAreEmptyWhenTheyDoNotParse(t *testing.T) {
	root := NewRootContext()
	BindInput(root, "hello")

	v, ok := root.Get("_i")
	require.True(t, ok)
	assert.True(t, v.IsEmpty())

	v, ok = root.Get("_f")
	require.True(t, ok)
	assert.True(t, v.IsEmpty())

	v, ok = root.Get("_b")
	require.True(t, ok)
	assert.True(t, v.IsEmpty())

	v, ok = root.Get("_s")
	require.True(t, ok)
	assert.Equal(t, "hello", v.Str())
}

func Test_BindInput_intWinsOverFloatAndBoolWhenAllWouldParse(t *testing.T) {
	root := NewRootContext()
	BindInput(root, "42")

	v, ok := root.Get("_")
	require.True(t, ok)
	require.Equal(t, Integer, v.Type())
	assert.Equal(t, int64(42), v.Int())

	v, ok = root.Get("_i")
	require.True(t, ok)
	assert.Equal(t, int64(42), v.Int())
}
