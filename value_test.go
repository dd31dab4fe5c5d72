package rush

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TryEqual(t *testing.T) {
	testCases := []struct {
		name      string
		a, b      Value
		expect    bool
		expectErr bool
	}{
		{name: "int == int", a: IntValue(2), b: IntValue(2), expect: true},
		{name: "int != int", a: IntValue(2), b: IntValue(3), expect: false},
		{name: "int == float widens", a: IntValue(2), b: FloatValue(2.0), expect: true},
		{name: "string == string", a: StringValue("a"), b: StringValue("a"), expect: true},
		{name: "bool == bool", a: BoolValue(true), b: BoolValue(true), expect: true},
		{name: "empty == empty", a: EmptyValue, b: EmptyValue, expect: true},
		{
			name:   "array structural equality",
			a:      ArrayValue([]Value{IntValue(1), IntValue(2)}),
			b:      ArrayValue([]Value{IntValue(1), IntValue(2)}),
			expect: true,
		},
		{
			name:   "object structural equality",
			a:      ObjectValue(map[string]Value{"k": IntValue(1)}),
			b:      ObjectValue(map[string]Value{"k": IntValue(1)}),
			expect: true,
		},
		{
			name:      "type mismatch is an error, not false",
			a:         IntValue(1),
			b:         StringValue("1"),
			expectErr: true,
		},
		{
			name:   "functions are never equal to anything, including each other",
			a:      FunctionValue(&Function{kind: fnNative, arity: Exact(1), native: idBuiltin}),
			b:      FunctionValue(&Function{kind: fnNative, arity: Exact(1), native: idBuiltin}),
			expect: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := TryEqual(tc.a, tc.b)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expect, got)
		})
	}
}

func Test_TryCompare(t *testing.T) {
	testCases := []struct {
		name      string
		a, b      Value
		expect    int
		expectErr bool
	}{
		{name: "int less than", a: IntValue(1), b: IntValue(2), expect: -1},
		{name: "float greater than", a: FloatValue(2.5), b: FloatValue(1.5), expect: 1},
		{name: "int/float equal widened", a: IntValue(2), b: FloatValue(2.0), expect: 0},
		{name: "string lexical order", a: StringValue("a"), b: StringValue("b"), expect: -1},
		{name: "bools are not ordered", a: BoolValue(true), b: BoolValue(false), expectErr: true},
		{name: "arrays are not ordered", a: ArrayValue(nil), b: ArrayValue(nil), expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := TryCompare(tc.a, tc.b)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expect, got)
		})
	}
}

func Test_Render_floatsAlwaysCarryADecimalPoint(t *testing.T) {
	s, err := Render(FloatValue(2))
	require.NoError(t, err)
	assert.Equal(t, "2.0", s)

	s, err = Render(FloatValue(2.5))
	require.NoError(t, err)
	assert.Equal(t, "2.5", s)
}

func Test_Render_arrayIsNewlineJoinedElements(t *testing.T) {
	s, err := Render(ArrayValue([]Value{IntValue(1), IntValue(2), IntValue(3)}))
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3", s)
}

func Test_Render_errorsOnUnrenderableVariants(t *testing.T) {
	for _, v := range []Value{EmptyValue, FunctionValue(&Function{kind: fnNative, arity: Exact(1), native: idBuiltin})} {
		_, err := Render(v)
		assert.Error(t, err)
	}
}
