package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/dop251/goja"

	"arrowcheck.dev/pkg/arrowcheck/pkg/arrowfn"
)

// ErrRuntimePanic wraps Go panics recovered from the JavaScript runtime.
var ErrRuntimePanic = errors.New("javascript runtime panicked")

// Evaluation is what the runtime learned about one evaluated expression.
type Evaluation struct {
	Verdict arrowfn.Verdict
	// Callable is false when the expression did not produce a function.
	// Callables without usable source (revoked proxies) still count.
	Callable bool
	// Intrinsic is the text returned by the intrinsic Function.prototype.toString.
	Intrinsic string
	// Display is String(value), which honours instance toString overrides.
	Display string
	// Spoofed reports that Display and Intrinsic differ.
	Spoofed bool
}

// JSRuntimeAdapter evaluates JavaScript expressions and classifies the result.
type JSRuntimeAdapter interface {
	Evaluate(ctx context.Context, source string) (Evaluation, error)
}

// GojaRuntimeAdapter evaluates every expression in a fresh goja runtime, so
// fixtures cannot observe each other and workers never share a runtime.
type GojaRuntimeAdapter struct{}

// NewGojaRuntimeAdapter constructs a GojaRuntimeAdapter.
func NewGojaRuntimeAdapter() *GojaRuntimeAdapter {
	return &GojaRuntimeAdapter{}
}

// Evaluate runs `(source)` and classifies the value it yields. Cancelling ctx
// interrupts the script. A Go panic raised inside the runtime is returned as
// an error so one fixture cannot take down a worker pool.
func (a *GojaRuntimeAdapter) Evaluate(ctx context.Context, source string) (evaluation Evaluation, err error) {
	defer func() {
		if r := recover(); r != nil {
			evaluation, err = Evaluation{}, fmt.Errorf("evaluate fixture: %w: %v", ErrRuntimePanic, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return Evaluation{}, err
	}

	vm := goja.New()

	classifier, err := arrowfn.NewClassifier(vm)
	if err != nil {
		return Evaluation{}, fmt.Errorf("bind classifier: %w", err)
	}

	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(ctx.Err())
	})
	defer stop()

	// The newline keeps a trailing line comment from swallowing the paren.
	value, err := vm.RunString("(" + source + "\n)")
	if err != nil {
		return Evaluation{}, evaluationError(ctx, err)
	}

	evaluation = Evaluation{Verdict: classifier.Explain(value)}
	evaluation.Callable = evaluation.Verdict.Rule != arrowfn.RuleNotCallable

	intrinsic, ok := classifier.Source(value)
	if !ok {
		return evaluation, nil
	}

	evaluation.Intrinsic = intrinsic

	// String(value) runs user code; its failure must not change the verdict.
	display, err := displayString(vm, value)
	if err != nil {
		if ctx.Err() != nil {
			return Evaluation{}, evaluationError(ctx, err)
		}

		evaluation.Display = err.Error()
		evaluation.Spoofed = true

		return evaluation, nil
	}

	evaluation.Display = display
	evaluation.Spoofed = display != intrinsic

	return evaluation, nil
}

func displayString(vm *goja.Runtime, value goja.Value) (display string, err error) {
	defer func() {
		if r := recover(); r != nil {
			display, err = "", fmt.Errorf("stringify value: %w: %v", ErrRuntimePanic, r)
		}
	}()

	toString, ok := goja.AssertFunction(vm.Get("String"))
	if !ok {
		return "", errors.New("global String is not callable")
	}

	out, err := toString(goja.Undefined(), value)
	if err != nil {
		return "", fmt.Errorf("stringify value: %w", err)
	}

	return out.String(), nil
}

func evaluationError(ctx context.Context, err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) && ctx.Err() != nil {
		return fmt.Errorf("evaluate fixture: %w", ctx.Err())
	}

	return fmt.Errorf("evaluate fixture: %w", err)
}
