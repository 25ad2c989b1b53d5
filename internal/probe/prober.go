// Package probe measures round-trip latency to resolver candidates.
package probe

import (
	"context"
	"runtime"
	"time"

	"github.com/HerbHall/dnstuner/pkg/models"
	probing "github.com/prometheus-community/pro-bing"
)

// Prober measures the reachability latency of one candidate. Failures are
// absorbed into the outcome status; a probe never aborts the run.
type Prober interface {
	Probe(ctx context.Context, candidate models.Candidate) models.ProbeOutcome
}

// ICMPProber pings candidates using ICMP via pro-bing.
//
// Latency semantics: the outcome latency is the arithmetic mean of the
// round-trip times of the echoes that were answered (pro-bing's AvgRtt).
// Process or scheduling overhead is not included in the measurement.
type ICMPProber struct {
	count   int
	timeout time.Duration
}

// Compile-time interface guard.
var _ Prober = (*ICMPProber)(nil)

// NewICMPProber creates an ICMP prober sending count echoes per candidate
// with the given overall per-candidate timeout.
func NewICMPProber(count int, timeout time.Duration) *ICMPProber {
	return &ICMPProber{
		count:   count,
		timeout: timeout,
	}
}

// Probe pings the candidate address and returns its outcome.
func (p *ICMPProber) Probe(ctx context.Context, candidate models.Candidate) models.ProbeOutcome {
	outcome := models.ProbeOutcome{Candidate: candidate}

	pinger, err := probing.NewPinger(candidate.Address)
	if err != nil {
		outcome.Status = models.StatusUnreachable
		return outcome
	}

	pinger.Count = p.count
	pinger.Timeout = p.timeout
	pinger.SetPrivileged(runtime.GOOS == "windows")

	// Run pinger in a goroutine for context cancellation.
	done := make(chan error, 1)
	go func() {
		done <- pinger.Run()
	}()

	select {
	case runErr := <-done:
		if runErr != nil {
			outcome.Status = models.StatusUnreachable
			return outcome
		}
		stats := pinger.Statistics()
		if stats.PacketsRecv == 0 {
			// Run completed only because the timeout elapsed.
			outcome.Status = models.StatusTimeout
			return outcome
		}
		outcome.Status = models.StatusSuccess
		outcome.Latency = stats.AvgRtt
		return outcome

	case <-ctx.Done():
		pinger.Stop()
		<-done
		outcome.Status = models.StatusTimeout
		return outcome
	}
}
