// Package models contains the shared domain types for dnstuner.
package models

import "time"

// ProbeStatus classifies the result of probing a single resolver candidate.
type ProbeStatus string

const (
	// StatusSuccess means at least one echo round trip completed.
	StatusSuccess ProbeStatus = "success"
	// StatusUnreachable means the probe could not be executed or every
	// round trip failed outright.
	StatusUnreachable ProbeStatus = "unreachable"
	// StatusTimeout means the probe deadline expired with no reply.
	StatusTimeout ProbeStatus = "timeout"
)

// Candidate is a named resolver address from the catalog.
type Candidate struct {
	Name    string `yaml:"name" json:"name"`
	Address string `yaml:"address" json:"address"`
}

// ProbeOutcome is the measured result for one candidate. Latency is
// meaningful only when Status is StatusSuccess.
type ProbeOutcome struct {
	Candidate Candidate     `json:"candidate"`
	Latency   time.Duration `json:"latency"`
	Status    ProbeStatus   `json:"status"`
}

// Reachable reports whether the probe succeeded.
func (o ProbeOutcome) Reachable() bool {
	return o.Status == StatusSuccess
}

// LatencyMs returns the outcome latency in milliseconds.
func (o ProbeOutcome) LatencyMs() float64 {
	return float64(o.Latency) / float64(time.Millisecond)
}

// ResolverState is the ordered list of manually configured resolver
// addresses for an interface. An empty state means the interface is in
// automatic (DHCP) mode.
type ResolverState []string

// Automatic reports whether no manual resolvers are configured.
func (s ResolverState) Automatic() bool {
	return len(s) == 0
}

// Equal compares two states element-wise, order included.
func (s ResolverState) Equal(other ResolverState) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}
