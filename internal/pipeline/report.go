package pipeline

import (
	"fmt"
	"io"
	"strings"
)

// separatorWidth matches the dashed rule bounding the results table.
const separatorWidth = 50

// RenderTable writes the ranked results as a human-facing table: one row
// per candidate with name, address, and measured latency (two decimals),
// bounded above and below by a fixed-width dashed rule.
func (r *Report) RenderTable(w io.Writer) error {
	rule := strings.Repeat("-", separatorWidth)

	if _, err := fmt.Fprintln(w, rule); err != nil {
		return err
	}
	for _, outcome := range r.Ranked {
		latency := string(outcome.Status)
		if outcome.Reachable() {
			latency = fmt.Sprintf("%.2fms", outcome.LatencyMs())
		}
		if _, err := fmt.Fprintf(w, "%-24s (%-15s) : %s\n",
			outcome.Candidate.Name, outcome.Candidate.Address, latency); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, rule); err != nil {
		return err
	}
	return nil
}
