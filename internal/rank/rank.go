// Package rank orders probe outcomes deterministically.
package rank

import (
	"sort"

	"github.com/HerbHall/dnstuner/pkg/models"
)

// Rank returns a new slice with outcomes ordered for selection: successful
// outcomes first, ascending by latency, then all failed outcomes. The sort
// is stable, so latency ties and failed outcomes keep their original
// catalog order.
func Rank(outcomes []models.ProbeOutcome) []models.ProbeOutcome {
	ranked := make([]models.ProbeOutcome, len(outcomes))
	copy(ranked, outcomes)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Reachable() != b.Reachable() {
			return a.Reachable()
		}
		if !a.Reachable() {
			// Failed outcomes keep catalog order.
			return false
		}
		return a.Latency < b.Latency
	})

	return ranked
}

// Winner returns the fastest reachable outcome, if any.
func Winner(ranked []models.ProbeOutcome) (models.ProbeOutcome, bool) {
	if len(ranked) == 0 || !ranked[0].Reachable() {
		return models.ProbeOutcome{}, false
	}
	return ranked[0], true
}
