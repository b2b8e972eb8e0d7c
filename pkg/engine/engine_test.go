package engine

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietEngine(opts ...Option) *Engine {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewEngine(append([]Option{WithLogger(log)}, opts...)...)
}

func TestEvaluateEmptyString(t *testing.T) {
	for _, src := range []string{"", "   \n\t  \n  "} {
		res, err := quietEngine().Evaluate(src)
		require.NoError(t, err)
		require.True(t, res.OK())
		assert.Equal(t, 0, res.Manipulator.Len())
		assert.Empty(t, res.Warnings)
	}
}

func TestEvaluatePlainLisp(t *testing.T) {
	source := `
(def x 10)
(def y 20)
(+ x y)
`
	res, err := quietEngine().Evaluate(source)
	require.NoError(t, err)
	require.True(t, res.OK())
	assert.Equal(t, 0, res.Manipulator.Len())
}

func TestEvaluateSyntaxError(t *testing.T) {
	res, err := quietEngine().Evaluate("(+ 1 2")
	require.NoError(t, err, "syntax errors are not fatal")
	require.NotNil(t, res)
	assert.False(t, res.OK())
	assert.Nil(t, res.Manipulator)
	require.NotEmpty(t, res.Errors)
	assert.NotEmpty(t, res.Errors[0].Message)
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	res, err := quietEngine().Evaluate("(+ 1 undefined-symbol)")
	require.NoError(t, err)
	assert.Nil(t, res.Manipulator)
	assert.NotEmpty(t, res.Errors)
}

func TestEvaluateSyntaxErrorLineInfo(t *testing.T) {
	res, err := quietEngine().Evaluate("(link 1 :length 1)\n(+ 3")
	require.NoError(t, err)
	require.NotEmpty(t, res.Errors)

	e := res.Errors[0]
	assert.NotEmpty(t, e.Message)
	if e.Line > 0 {
		assert.LessOrEqual(t, e.Line, 2)
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Message: "something went wrong"}
	assert.Equal(t, "line 5: something went wrong", e.Error())

	e2 := EvalError{Message: "no location"}
	assert.NotContains(t, e2.Error(), "line")
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := quietEngine()
	source := `
(link 1 :length 2)
(link 2 :prev 1 :length 3 :pitch (deg 90))
`
	first, err := eng.Evaluate(source)
	require.NoError(t, err)
	want, err := first.Manipulator.ResolvePosition(2)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		res, err := eng.Evaluate(source)
		require.NoError(t, err, "iteration %d", i)
		got, err := res.Manipulator.ResolvePosition(2)
		require.NoError(t, err)
		assert.Equal(t, want, got, "iteration %d", i)
	}
}

func TestEvaluateFreshManipulatorPerCall(t *testing.T) {
	eng := quietEngine()

	res, err := eng.Evaluate("(link 1 :length 1)")
	require.NoError(t, err)
	require.Equal(t, 1, res.Manipulator.Len())

	// The same id again must not collide with the previous evaluation.
	res, err = eng.Evaluate("(link 1 :length 2)")
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	l, ok := res.Manipulator.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, 2.0, l.Length())
}

func TestAwaitTimesOut(t *testing.T) {
	eng := quietEngine(WithTimeout(50 * time.Millisecond))
	gen := eng.begin()
	ch := make(chan evalResult) // never sends

	start := time.Now()
	res, err := eng.await(context.Background(), ch, gen)
	require.ErrorIs(t, err, ErrTimeout)
	assert.Nil(t, res)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestAwaitDiscardsStale(t *testing.T) {
	eng := quietEngine()
	stale := eng.begin()
	eng.begin()

	ch := make(chan evalResult, 1)
	ch <- evalResult{}

	_, err := eng.await(context.Background(), ch, stale)
	require.ErrorIs(t, err, ErrSuperseded)
}

func TestAwaitDelivers(t *testing.T) {
	eng := quietEngine()
	gen := eng.begin()

	want := &EvalResult{}
	ch := make(chan evalResult, 1)
	ch <- evalResult{result: want}

	got, err := eng.await(context.Background(), ch, gen)
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestAwaitHonoursCancel(t *testing.T) {
	eng := quietEngine()
	gen := eng.begin()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.await(ctx, make(chan evalResult), gen)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestEvaluateContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := quietEngine().EvaluateContext(ctx, "(link 1 :length 1)")
	if err == nil {
		// The evaluation won the race against the cancelled context.
		require.NotNil(t, res.Manipulator)
		return
	}
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{"error on line format", "Error on line 5: unexpected token\n", 5, "unexpected token"},
		{"no line info", "some generic error", 0, "some generic error"},
		{"lowercase", "error on line 12: missing paren", 12, "missing paren"},
		{"short form", "line 3: bad link", 3, "bad link"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantLine, errs[0].Line)
			assert.Contains(t, errs[0].Message, tt.wantMsg)
		})
	}
}

// errString is a simple error type for testing.
type errString string

func (e errString) Error() string { return string(e) }
