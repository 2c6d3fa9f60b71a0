package domain

import (
	m "arrowcheck.dev/pkg/arrowcheck/internal/model"
	"arrowcheck.dev/pkg/arrowcheck/pkg/spill"
)

func summaryFromSpill(results spill.FileSpill[m.Result]) (m.Summary, error) {
	counts := make(map[m.Status]int)

	err := results.Range(func(_ uint64, result m.Result) error {
		counts[result.Status]++
		return nil
	})
	if err != nil {
		return m.Summary{}, err
	}

	return newSummary(counts), nil
}

func summaryFromReports(reports []m.Report) m.Summary {
	counts := make(map[m.Status]int)

	for _, report := range reports {
		for status, n := range report.Counts() {
			counts[status] += n
		}
	}

	return newSummary(counts)
}

// newSummary computes accuracy over decided fixtures only. Skipped, limited
// and errored fixtures are left out of the denominator.
func newSummary(counts map[m.Status]int) m.Summary {
	passed := counts[m.Passed]
	decided := passed + counts[m.Failed]

	accuracy := 1.0
	if decided > 0 {
		accuracy = float64(passed) / float64(decided)
	}

	return m.Summary{Counts: counts, Accuracy: accuracy}
}

func mergeCounts(into, from map[m.Status]int) {
	for status, n := range from {
		into[status] += n
	}
}
