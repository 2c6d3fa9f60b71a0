package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arrowcheck.dev/pkg/arrowcheck/pkg/arrowfn"
)

func TestGojaRuntimeAdapter_Evaluate(t *testing.T) {
	adapter := NewGojaRuntimeAdapter()
	ctx := context.Background()

	t.Run("arrow function", func(t *testing.T) {
		evaluation, err := adapter.Evaluate(ctx, "(a, b) => a * b")
		require.NoError(t, err)

		assert.True(t, evaluation.Verdict.IsArrow)
		assert.True(t, evaluation.Callable)
		assert.Equal(t, "(a, b) => a * b", evaluation.Intrinsic)
		assert.Equal(t, evaluation.Intrinsic, evaluation.Display)
		assert.False(t, evaluation.Spoofed)
	})

	t.Run("method", func(t *testing.T) {
		evaluation, err := adapter.Evaluate(ctx, "({ method() { return '=>' } }).method")
		require.NoError(t, err)

		assert.False(t, evaluation.Verdict.IsArrow)
		assert.Equal(t, arrowfn.RuleNamedPrefix, evaluation.Verdict.Rule)
	})

	t.Run("non callable", func(t *testing.T) {
		evaluation, err := adapter.Evaluate(ctx, "'() => {}'")
		require.NoError(t, err)

		assert.False(t, evaluation.Callable)
		assert.Equal(t, arrowfn.RuleNotCallable, evaluation.Verdict.Rule)
		assert.Empty(t, evaluation.Intrinsic)
	})

	t.Run("trailing line comment", func(t *testing.T) {
		evaluation, err := adapter.Evaluate(ctx, "x => x // identity")
		require.NoError(t, err)
		assert.True(t, evaluation.Verdict.IsArrow)
	})

	t.Run("faked toString is reported as spoofed", func(t *testing.T) {
		src := "(() => { var f = function () {}; f.toString = () => '() => {}'; return f; })()"

		evaluation, err := adapter.Evaluate(ctx, src)
		require.NoError(t, err)

		assert.False(t, evaluation.Verdict.IsArrow)
		assert.True(t, evaluation.Spoofed)
		assert.Equal(t, "() => {}", evaluation.Display)
		assert.Equal(t, "function () {}", evaluation.Intrinsic)
	})

	t.Run("throwing toString keeps the verdict", func(t *testing.T) {
		src := "Object.assign(() => {}, { toString() { throw new Error('nope') } })"

		evaluation, err := adapter.Evaluate(ctx, src)
		require.NoError(t, err)

		assert.True(t, evaluation.Verdict.IsArrow)
		assert.True(t, evaluation.Callable)
		assert.Equal(t, "() => {}", evaluation.Intrinsic)
		assert.True(t, evaluation.Spoofed)
		assert.Contains(t, evaluation.Display, "nope")
	})

	t.Run("revoked proxy", func(t *testing.T) {
		src := "(() => { const r = Proxy.revocable(function () {}, {}); r.revoke(); return r.proxy; })()"

		var (
			evaluation Evaluation
			err        error
		)

		require.NotPanics(t, func() { evaluation, err = adapter.Evaluate(ctx, src) })
		require.NoError(t, err)

		assert.False(t, evaluation.Verdict.IsArrow)
		assert.Equal(t, arrowfn.RuleNoSource, evaluation.Verdict.Rule)
		assert.True(t, evaluation.Callable)
		assert.Empty(t, evaluation.Intrinsic)
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := adapter.Evaluate(ctx, "() => {")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "evaluate fixture")
	})

	t.Run("fresh runtime per call", func(t *testing.T) {
		_, err := adapter.Evaluate(ctx, "(globalThis.leaked = 1, () => {})")
		require.NoError(t, err)

		evaluation, err := adapter.Evaluate(ctx, "typeof leaked")
		require.NoError(t, err)
		assert.False(t, evaluation.Callable)
	})
}

func TestGojaRuntimeAdapter_Timeout(t *testing.T) {
	adapter := NewGojaRuntimeAdapter()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := adapter.Evaluate(ctx, "(() => { for (;;) {} })()")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGojaRuntimeAdapter_CancelledContext(t *testing.T) {
	adapter := NewGojaRuntimeAdapter()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := adapter.Evaluate(ctx, "() => {}")
	require.ErrorIs(t, err, context.Canceled)
}
