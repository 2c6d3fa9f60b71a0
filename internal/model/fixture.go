package model

import "fmt"

// Expectation is the verdict a fixture is expected to produce.
type Expectation string

const (
	// ExpectArrow marks fixtures that evaluate to an arrow function.
	ExpectArrow Expectation = "arrow"
	// ExpectNonArrow marks fixtures that evaluate to anything else.
	ExpectNonArrow Expectation = "non-arrow"
)

// Valid reports whether e is one of the known expectations.
func (e Expectation) Valid() bool {
	return e == ExpectArrow || e == ExpectNonArrow
}

// Matches reports whether an observed verdict agrees with the expectation.
func (e Expectation) Matches(isArrow bool) bool {
	return (e == ExpectArrow) == isArrow
}

// Fixture is a single JavaScript expression taken from a fixture file.
type Fixture struct {
	ID     string
	File   *File
	Group  string
	Index  int
	Source string
	Expect Expectation
	// Skip holds the reason a fixture must not be evaluated.
	Skip string
	// Limitation documents a known misclassification by the heuristic.
	Limitation string
}

// FixtureID builds the stable identifier of the index-th fixture in group.
func FixtureID(file Path, group string, index int) string {
	return fmt.Sprintf("%s#%s/%d", file, group, index)
}

// FixtureFile groups the fixtures decoded from one file.
type FixtureFile struct {
	File     File
	Fixtures []Fixture
}
