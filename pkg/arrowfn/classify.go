// Package arrowfn tells arrow functions apart from every other kind of
// JavaScript callable by inspecting the callable's own source text.
//
// There is no reflective "function kind" in JavaScript, so the decision is a
// short list of punctuation-position rules evaluated against the text the
// engine's intrinsic Function.prototype.toString returns. The rules are a
// heuristic: they never tokenize or parse the source.
package arrowfn

// Rule identifies the rule of the decision list that produced a verdict.
type Rule int

// Rules in evaluation order.
const (
	RuleNotCallable Rule = iota
	RuleNoSource
	RuleClass
	RuleBlank
	RuleNoArrowToken
	RuleNoParamPunctuation
	RuleLeadingParen
	RuleLeadingQuote
	RuleArrowFirst
	RuleNamedPrefix
	RuleBarePrefix
)

var ruleNames = [...]string{
	RuleNotCallable:        "not-callable",
	RuleNoSource:           "no-source",
	RuleClass:              "class",
	RuleBlank:              "blank",
	RuleNoArrowToken:       "no-arrow-token",
	RuleNoParamPunctuation: "no-param-punctuation",
	RuleLeadingParen:       "leading-paren",
	RuleLeadingQuote:       "leading-quote",
	RuleArrowFirst:         "arrow-first",
	RuleNamedPrefix:        "named-prefix",
	RuleBarePrefix:         "bare-prefix",
}

func (r Rule) String() string {
	if r < 0 || int(r) >= len(ruleNames) {
		return "unknown"
	}

	return ruleNames[r]
}

// Verdict is the outcome of classifying one candidate.
type Verdict struct {
	IsArrow bool
	Rule    Rule
	Markers Markers
}

// IsArrowSource reports whether src is the source text of an arrow function.
func IsArrowSource(src string) bool {
	return ExplainSource(src).IsArrow
}

// ExplainSource classifies src and reports which rule decided the verdict.
// src must be the text produced by the intrinsic Function.prototype.toString.
func ExplainSource(src string) Verdict {
	mk := ScanMarkers(src)
	verdict := func(isArrow bool, rule Rule) Verdict {
		return Verdict{IsArrow: isArrow, Rule: rule, Markers: mk}
	}

	if startsWithClass(src) {
		return verdict(false, RuleClass)
	}

	if !found(mk.FirstNonSpace) {
		return verdict(false, RuleBlank)
	}

	// Every arrow function carries its own => token.
	if !found(mk.Arrow) {
		return verdict(false, RuleNoArrowToken)
	}

	if !found(mk.Paren) || !found(mk.Brace) {
		return verdict(true, RuleNoParamPunctuation)
	}

	if mk.Paren == mk.FirstNonSpace {
		return verdict(true, RuleLeadingParen)
	}

	// String-keyed methods render as "key"() {...}.
	if found(mk.Quote) && mk.Quote == mk.FirstNonSpace {
		return verdict(false, RuleLeadingQuote)
	}

	if arrowComesFirst(mk) {
		return verdict(true, RuleArrowFirst)
	}

	prefix := trimSpace(src[:mk.Paren])
	if prefix != "" && prefix != "async" {
		return verdict(false, RuleNamedPrefix)
	}

	return verdict(true, RuleBarePrefix)
}

// arrowComesFirst reports whether => precedes the first brace, paren and
// slash. A missing slash counts as infinitely far away. Distinct markers
// never share an offset.
func arrowComesFirst(mk Markers) bool {
	if mk.Arrow > mk.Paren || mk.Arrow > mk.Brace {
		return false
	}

	return !found(mk.Slash) || mk.Arrow < mk.Slash
}
