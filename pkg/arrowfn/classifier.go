package arrowfn

import (
	"errors"

	"github.com/dop251/goja"
)

// ErrNoIntrinsicToString is returned by NewClassifier when the runtime has no
// callable Function.prototype.toString to bind to.
var ErrNoIntrinsicToString = errors.New("runtime does not expose a callable Function.prototype.toString")

// Classifier decides arrow-ness for values living in a goja runtime.
//
// The intrinsic Function.prototype.toString is captured when the classifier is
// created, so bind it before running code that could replace the prototype
// method. A Classifier shares its runtime's goroutine restrictions: use it
// only from the goroutine that owns the runtime.
type Classifier struct {
	vm       *goja.Runtime
	toString goja.Callable
}

// NewClassifier binds a classifier to vm.
func NewClassifier(vm *goja.Runtime) (*Classifier, error) {
	if vm == nil {
		return nil, ErrNoIntrinsicToString
	}

	ctor, ok := vm.Get("Function").(*goja.Object)
	if !ok || ctor == nil {
		return nil, ErrNoIntrinsicToString
	}

	proto, ok := ctor.Get("prototype").(*goja.Object)
	if !ok || proto == nil {
		return nil, ErrNoIntrinsicToString
	}

	toString, ok := goja.AssertFunction(proto.Get("toString"))
	if !ok {
		return nil, ErrNoIntrinsicToString
	}

	return &Classifier{vm: vm, toString: toString}, nil
}

// IsArrowFunction reports whether candidate is an arrow function. It accepts
// any value: goja values are used as they are and other Go values are
// converted with the runtime's ToValue first. It never panics and never calls
// the candidate.
func (c *Classifier) IsArrowFunction(candidate any) bool {
	return c.Explain(candidate).IsArrow
}

// Explain classifies candidate and reports the deciding rule.
func (c *Classifier) Explain(candidate any) Verdict {
	value, ok := c.callable(candidate)
	if !ok {
		return Verdict{Rule: RuleNotCallable, Markers: notScanned}
	}

	src, ok := c.intrinsicSource(value)
	if !ok {
		return Verdict{Rule: RuleNoSource, Markers: notScanned}
	}

	return ExplainSource(src)
}

// Source returns the intrinsic source text of a callable candidate. Instance
// level toString overrides are ignored.
func (c *Classifier) Source(candidate any) (string, bool) {
	value, ok := c.callable(candidate)
	if !ok {
		return "", false
	}

	return c.intrinsicSource(value)
}

var notScanned = Markers{
	FirstNonSpace: NotFound,
	Quote:         NotFound,
	Paren:         NotFound,
	Brace:         NotFound,
	Arrow:         NotFound,
	Slash:         NotFound,
}

func (c *Classifier) callable(candidate any) (goja.Value, bool) {
	var value goja.Value

	switch v := candidate.(type) {
	case *goja.Object:
		if v == nil {
			return nil, false
		}

		value = v
	case goja.Value:
		value = v
	default:
		value = c.vm.ToValue(candidate)
	}

	if value == nil {
		return nil, false
	}

	if _, ok := goja.AssertFunction(value); !ok {
		return nil, false
	}

	return value, true
}

// intrinsicSource calls the bound toString. goja raises some failures, such
// as a revoked proxy target, as Go panics rather than JS exceptions.
func (c *Classifier) intrinsicSource(fn goja.Value) (src string, ok bool) {
	defer func() {
		if recover() != nil {
			src, ok = "", false
		}
	}()

	out, err := c.toString(fn)
	if err != nil || out == nil {
		return "", false
	}

	return out.String(), true
}
