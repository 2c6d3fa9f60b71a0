package arrowfn

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier(t *testing.T) (*goja.Runtime, *Classifier) {
	t.Helper()

	vm := goja.New()
	classifier, err := NewClassifier(vm)
	require.NoError(t, err)

	return vm, classifier
}

func eval(t *testing.T, vm *goja.Runtime, expr string) goja.Value {
	t.Helper()

	value, err := vm.RunString("(" + expr + ")")
	require.NoError(t, err, "evaluate %s", expr)

	return value
}

func TestClassifier_NonCallables(t *testing.T) {
	vm, classifier := newTestClassifier(t)

	exprs := []string{
		"true",
		"false",
		"null",
		"undefined",
		"{}",
		"[]",
		"/a/g",
		"'string'",
		"'() => {}'",
		"'function () {}'",
		"42",
		"new Date(0)",
	}

	for _, expr := range exprs {
		verdict := classifier.Explain(eval(t, vm, expr))
		assert.False(t, verdict.IsArrow, "%s is not a function", expr)
		assert.Equal(t, RuleNotCallable, verdict.Rule, "%s", expr)
	}
}

func TestClassifier_GoValues(t *testing.T) {
	_, classifier := newTestClassifier(t)

	assert.False(t, classifier.IsArrowFunction(nil))
	assert.False(t, classifier.IsArrowFunction(42))
	assert.False(t, classifier.IsArrowFunction("() => {}"))
	assert.False(t, classifier.IsArrowFunction(map[string]any{"a": 1}))
	assert.False(t, classifier.IsArrowFunction((*goja.Object)(nil)))
	assert.False(t, classifier.IsArrowFunction(func() {}))
}

func TestClassifier_ArrowFunctions(t *testing.T) {
	vm, classifier := newTestClassifier(t)

	exprs := []string{
		"() => {}",
		"(a, b) => a * b",
		"() => 42",
		"() => function () {}",
		"() => x => x * x",
		"y => x => x * x",
		"x => x * x",
		"x => { return x * x; }",
		"(x, y) => { return x + x; }",
		"(a = Math.random(10)) => {}",
		"(a = function () {\n\tif (Math.random() < 0.5) { return 42; }\n\treturn 'something else';\n}) => a()",
		"(a = function () {}) => a()",
		"({ prop: () => {} }).prop",
		"({ prop: () => { function x() { } } }).prop",
		"({ prop: x => { function x() { } } }).prop",
		"({ function: () => {} }).function",
		"({ '': () => {} })['']",
		"({ 'function name': () => { } })['function name']",
		"async (a, b) => a * b",
		"async x => {}",
		"async () => {}",
		"async () => { function f() {} }",
		"({ prop: async () => {} }).prop",
	}

	for _, expr := range exprs {
		assert.True(t, classifier.IsArrowFunction(eval(t, vm, expr)), "%s is an arrow function", expr)
	}
}

func TestClassifier_NonArrowFunctions(t *testing.T) {
	vm, classifier := newTestClassifier(t)

	exprs := []string{
		"function () {}",
		"function foo() {}",
		"function foo() { '=>' }",
		"function foo() { () => {} }",
		"function (a = () => {}) { return a(); }",
		"async function () {}",
		"async function foo() { '=>' }",
		"function* () { var x = yield; return x || 42; }",
		"({ *       concise() { var x = yield; return x || 42; } }).concise",
		"({ prop: function () { () => {} } }).prop",
		"({ '=>': function () {} })['=>']",
		"({ method() {} }).method",
		"({ async method() {} }).method",
		"({ *method() {} }).method",
		"({ method() { return '=>' } }).method",
		"({ method() { () => {} } }).method",
		"({ '=>'() {} })['=>']",
		"({ '() => {}'() {} })['() => {}']",
		"class {}",
		"class X { }",
		"class { '=>'() {} }",
		"class X { m() { return '=>' } }",
		"Date",
		"Date.now",
		"Promise",
		"Promise.all",
		"eval",
	}

	for _, expr := range exprs {
		assert.False(t, classifier.IsArrowFunction(eval(t, vm, expr)), "%s is not an arrow function", expr)
	}
}

func TestClassifier_IgnoresFakedToString(t *testing.T) {
	vm, classifier := newTestClassifier(t)

	_, err := vm.RunString(`
		var plain = function () {};
		plain.toString = function () { return '() => {}'; };
		var arrow = () => {};
		arrow.toString = function () { return 'function () {}'; };
	`)
	require.NoError(t, err)

	assert.Equal(t, "() => {}", eval(t, vm, "String(plain)").String())
	assert.Equal(t, "function () {}", eval(t, vm, "String(arrow)").String())

	assert.False(t, classifier.IsArrowFunction(vm.Get("plain")))
	assert.True(t, classifier.IsArrowFunction(vm.Get("arrow")))

	src, ok := classifier.Source(vm.Get("arrow"))
	require.True(t, ok)
	assert.Equal(t, "() => {}", src)

	src, ok = classifier.Source(vm.Get("plain"))
	require.True(t, ok)
	assert.Equal(t, "function () {}", src)
}

func TestClassifier_SurvivesPrototypeReplacement(t *testing.T) {
	vm, classifier := newTestClassifier(t)

	_, err := vm.RunString(`Function.prototype.toString = function () { return 'function () {}'; };`)
	require.NoError(t, err)

	assert.True(t, classifier.IsArrowFunction(eval(t, vm, "() => {}")))
}

func TestClassifier_ProxyHasNoUsableSource(t *testing.T) {
	vm, classifier := newTestClassifier(t)

	proxy := eval(t, vm, "new Proxy(() => {}, {})")

	verdict := classifier.Explain(proxy)
	assert.False(t, verdict.IsArrow)
	assert.Equal(t, RuleNoArrowToken, verdict.Rule)
}

func TestClassifier_RevokedProxyHasNoSource(t *testing.T) {
	vm, classifier := newTestClassifier(t)

	revoked := eval(t, vm, "(() => { const r = Proxy.revocable(function () {}, {}); r.revoke(); return r.proxy; })()")

	var verdict Verdict

	require.NotPanics(t, func() { verdict = classifier.Explain(revoked) })
	assert.False(t, verdict.IsArrow)
	assert.Equal(t, RuleNoSource, verdict.Rule)

	src, ok := classifier.Source(revoked)
	assert.False(t, ok)
	assert.Empty(t, src)
}

func TestClassifier_DoesNotCallCandidate(t *testing.T) {
	vm, classifier := newTestClassifier(t)

	fn := eval(t, vm, "() => { globalThis.called = true; }")

	for range 3 {
		assert.True(t, classifier.IsArrowFunction(fn))
	}

	assert.Nil(t, vm.Get("called"))
}

func TestNewClassifier_WithoutFunctionConstructor(t *testing.T) {
	_, err := NewClassifier(nil)
	require.ErrorIs(t, err, ErrNoIntrinsicToString)

	vm := goja.New()
	_, err = vm.RunString(`Function = undefined;`)
	require.NoError(t, err)

	_, err = NewClassifier(vm)
	require.ErrorIs(t, err, ErrNoIntrinsicToString)
}
