package model

import (
	"fmt"
	"time"
)

// Status is the outcome of checking one fixture.
type Status int

const (
	// Passed indicates the verdict matched the expectation.
	Passed Status = iota
	// Failed indicates the verdict contradicted the expectation.
	Failed
	// Limited indicates a mismatch on a fixture with a documented limitation.
	Limited
	// Skipped indicates the fixture was not evaluated.
	Skipped
	// Error indicates the fixture could not be evaluated.
	Error
)

func (s Status) String() string {
	switch s {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Limited:
		return "limited"
	case Skipped:
		return "skipped"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name so reports stay readable.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name written by MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "passed":
		*s = Passed
	case "failed":
		*s = Failed
	case "limited":
		*s = Limited
	case "skipped":
		*s = Skipped
	case "error":
		*s = Error
	default:
		return fmt.Errorf("unknown status %q", text)
	}

	return nil
}

// Result represents the classification of one fixture.
type Result struct {
	FixtureID string      `yaml:"id"`
	Group     string      `yaml:"group"`
	Source    string      `yaml:"source"`
	Expect    Expectation `yaml:"expect"`
	IsArrow   bool        `yaml:"is_arrow"`
	Rule      string      `yaml:"rule,omitempty"`
	Status    Status      `yaml:"status"`
	Spoofed   bool        `yaml:"spoofed,omitempty"`
	Display   string      `yaml:"display,omitempty"`
	Intrinsic string      `yaml:"intrinsic,omitempty"`
	Err       string      `yaml:"error,omitempty"`
	// Reason carries the skip reason or the documented limitation.
	Reason string `yaml:"reason,omitempty"`
}

// Report holds the results for a single fixture file.
type Report struct {
	RunID     string    `yaml:"run_id"`
	File      File      `yaml:"file"`
	CreatedAt time.Time `yaml:"created_at"`
	Results   []Result  `yaml:"results"`
}

// Counts tallies results by status.
func (r Report) Counts() map[Status]int {
	counts := make(map[Status]int)
	for _, result := range r.Results {
		counts[result.Status]++
	}

	return counts
}

// Summary aggregates the outcome of a run or of a set of reports.
type Summary struct {
	Counts map[Status]int
	// Accuracy is passed / (passed + failed), or 1 when nothing was decided.
	Accuracy float64
}

// Total returns the number of results the summary covers.
func (s Summary) Total() int {
	total := 0
	for _, n := range s.Counts {
		total += n
	}

	return total
}

// Check is the verdict for one ad-hoc expression or source text.
type Check struct {
	Input     string
	IsArrow   bool
	Rule      string
	Intrinsic string
	Display   string
	Spoofed   bool
	Err       string
}
