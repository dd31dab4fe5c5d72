package rush

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Context_shadowingDoesNotMutateParent(t *testing.T) {
	parent := newContext(nil)
	parent.Set("x", IntValue(1))

	child := parent.Child()
	child.Set("x", IntValue(2))

	cv, ok := child.Get("x")
	require.True(t, ok)
	assert.Equal(t, IntValue(2), cv)

	pv, ok := parent.Get("x")
	require.True(t, ok)
	assert.Equal(t, IntValue(1), pv)
}

func Test_Context_lookupWalksParents(t *testing.T) {
	root := newContext(nil)
	root.Set("shared", StringValue("root-value"))

	mid := root.Child()
	leaf := mid.Child()

	v, ok := leaf.Get("shared")
	require.True(t, ok)
	assert.Equal(t, StringValue("root-value"), v)
}

func Test_Context_unboundNameNotFound(t *testing.T) {
	root := newContext(nil)
	_, ok := root.Get("nope")
	assert.False(t, ok)
}

// Test_Lambda_capturesDefiningContextNotCallerContext verifies that a
// lambda's free variables resolve against the context where the lambda
// literal was evaluated, not the context of whatever call site later
// invokes it.
func Test_Lambda_capturesDefiningContextNotCallerContext(t *testing.T) {
	root := NewRootContext()
	defCtx := root.Child()
	defCtx.Set("y", IntValue(10))

	lambdaAST, err := Parse("|x| x + y")
	require.NoError(t, err)
	fnVal, err := Eval(lambdaAST, defCtx)
	require.NoError(t, err)
	require.True(t, fnVal.IsFunction())

	// invoke from a wholly unrelated caller context that does NOT define y;
	// the lambda must still see y=10 via its captured context.
	callerCtx := NewRootContext()
	result, err := fnVal.Fn().Invoke1(IntValue(5), callerCtx)
	require.NoError(t, err)
	assert.Equal(t, IntValue(15), result)
}

// Test_Lambda_writeIsolatedFromCapturedScope resolves open question (c):
// an assignment inside a lambda body targets only that invocation's own
// call frame, never the lambda's captured defining context.
func Test_Lambda_writeIsolatedFromCapturedScope(t *testing.T) {
	defCtx := NewRootContext()
	defCtx.Set("counter", IntValue(0))

	lambdaAST, err := Parse("|n| (counter = n)")
	require.NoError(t, err)
	fnVal, err := Eval(lambdaAST, defCtx)
	require.NoError(t, err)

	_, err = fnVal.Fn().Invoke1(IntValue(99), defCtx)
	require.NoError(t, err)

	v, ok := defCtx.Get("counter")
	require.True(t, ok)
	assert.Equal(t, IntValue(0), v, "mutation inside the lambda call frame must not leak into the captured scope")
}
