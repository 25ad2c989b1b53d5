package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HerbHall/dnstuner/internal/probe"
	"github.com/HerbHall/dnstuner/internal/resolvconf"
	"github.com/HerbHall/dnstuner/internal/testutil"
	"github.com/HerbHall/dnstuner/pkg/models"
)

// scriptedProber returns success with the scripted latency for known
// addresses and the scripted failure status for the rest.
type scriptedProber struct {
	latencies map[string]time.Duration
	failWith  models.ProbeStatus
}

// Compile-time interface guard.
var _ probe.Prober = (*scriptedProber)(nil)

func (s *scriptedProber) Probe(ctx context.Context, candidate models.Candidate) models.ProbeOutcome {
	if latency, ok := s.latencies[candidate.Address]; ok {
		return models.ProbeOutcome{Candidate: candidate, Latency: latency, Status: models.StatusSuccess}
	}
	failWith := s.failWith
	if failWith == "" {
		failWith = models.StatusUnreachable
	}
	return models.ProbeOutcome{Candidate: candidate, Status: failWith}
}

func testCatalog() []models.Candidate {
	return []models.Candidate{
		{Name: "A", Address: "10.0.0.1"},
		{Name: "B", Address: "10.0.0.2"},
		{Name: "C", Address: "10.0.0.3"},
		{Name: "D", Address: "10.0.0.4"},
	}
}

func newDriver(prober probe.Prober, manager resolvconf.Manager, dryRun bool) *Driver {
	logger := testutil.Logger()
	collector := probe.NewCollector(prober, 2, logger)
	return New(testCatalog(), collector, manager, logger, dryRun)
}

func TestRunAppliesFastestResolver(t *testing.T) {
	// Catalog {A:30ms, B:10ms, C:20ms success; D:timeout} ranks [B C A D]
	// and B's address is applied.
	prober := &scriptedProber{
		latencies: map[string]time.Duration{
			"10.0.0.1": 30 * time.Millisecond,
			"10.0.0.2": 10 * time.Millisecond,
			"10.0.0.3": 20 * time.Millisecond,
		},
		failWith: models.StatusTimeout,
	}
	fake := resolvconf.NewFake(models.ResolverState{"8.8.8.8"})

	report, err := newDriver(prober, fake, false).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	wantOrder := []string{"10.0.0.2", "10.0.0.3", "10.0.0.1", "10.0.0.4"}
	for i, addr := range wantOrder {
		if report.Ranked[i].Candidate.Address != addr {
			t.Errorf("rank %d = %s, want %s", i, report.Ranked[i].Candidate.Address, addr)
		}
	}

	if report.Winner == nil || report.Winner.Candidate.Address != "10.0.0.2" {
		t.Fatalf("Winner = %+v, want B (10.0.0.2)", report.Winner)
	}
	if report.NoneFound {
		t.Error("NoneFound = true, want false")
	}

	if !report.Initial.Equal(models.ResolverState{"8.8.8.8"}) {
		t.Errorf("Initial = %v, want [8.8.8.8]", report.Initial)
	}
	if !report.Final.Equal(models.ResolverState{"10.0.0.2"}) {
		t.Errorf("Final = %v, want [10.0.0.2]", report.Final)
	}

	if fake.Resets != 1 {
		t.Errorf("Resets = %d, want 1", fake.Resets)
	}
	if len(fake.Applies) != 1 || fake.Applies[0] != "10.0.0.2" {
		t.Errorf("Applies = %v, want [10.0.0.2]", fake.Applies)
	}
	if report.RunID == "" {
		t.Error("RunID is empty")
	}
}

func TestRunAllProbesFail(t *testing.T) {
	// Every probe times out: rank keeps catalog order, no apply is issued,
	// and the interface stays in automatic mode.
	prober := &scriptedProber{failWith: models.StatusTimeout}
	fake := resolvconf.NewFake(models.ResolverState{"8.8.8.8"})

	report, err := newDriver(prober, fake, false).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !report.NoneFound {
		t.Error("NoneFound = false, want true")
	}
	if report.Winner != nil {
		t.Errorf("Winner = %+v, want nil", report.Winner)
	}

	wantOrder := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4"}
	for i, addr := range wantOrder {
		if report.Ranked[i].Candidate.Address != addr {
			t.Errorf("rank %d = %s, want %s", i, report.Ranked[i].Candidate.Address, addr)
		}
	}

	if len(fake.Applies) != 0 {
		t.Errorf("Applies = %v, want none", fake.Applies)
	}
	if !report.Final.Automatic() {
		t.Errorf("Final = %v, want automatic", report.Final)
	}
}

func TestRunOutcomesMatchCatalog(t *testing.T) {
	prober := &scriptedProber{
		latencies: map[string]time.Duration{"10.0.0.3": 5 * time.Millisecond},
	}
	fake := resolvconf.NewFake(nil)

	report, err := newDriver(prober, fake, false).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(report.Ranked) != len(testCatalog()) {
		t.Fatalf("Ranked has %d outcomes, want %d", len(report.Ranked), len(testCatalog()))
	}
	seen := map[string]bool{}
	for _, o := range report.Ranked {
		if seen[o.Candidate.Address] {
			t.Errorf("duplicate outcome for %s", o.Candidate.Address)
		}
		seen[o.Candidate.Address] = true
	}
}

func TestRunReadInitialFails(t *testing.T) {
	fake := resolvconf.NewFake(nil)
	fake.ReadErr = errors.New("scutil exploded")

	report, err := newDriver(&scriptedProber{}, fake, false).Run(context.Background())
	if report != nil {
		t.Errorf("Run() report = %+v, want nil", report)
	}
	if !errors.Is(err, ErrReadFailed) {
		t.Errorf("Run() error = %v, want ErrReadFailed", err)
	}
	if fake.Resets != 0 || len(fake.Applies) != 0 {
		t.Error("pipeline continued past a fatal read failure")
	}
}

func TestRunResetFails(t *testing.T) {
	fake := resolvconf.NewFake(nil)
	fake.ResetErr = errors.New("networksetup exploded")

	_, err := newDriver(&scriptedProber{}, fake, false).Run(context.Background())
	if !errors.Is(err, ErrApplyFailed) {
		t.Errorf("Run() error = %v, want ErrApplyFailed", err)
	}
	if len(fake.Applies) != 0 {
		t.Error("pipeline continued past a fatal reset failure")
	}
}

func TestRunApplyFails(t *testing.T) {
	prober := &scriptedProber{
		latencies: map[string]time.Duration{"10.0.0.1": 10 * time.Millisecond},
	}
	fake := resolvconf.NewFake(nil)
	fake.ApplyErr = errors.New("networksetup exploded")

	_, err := newDriver(prober, fake, false).Run(context.Background())
	if !errors.Is(err, ErrApplyFailed) {
		t.Errorf("Run() error = %v, want ErrApplyFailed", err)
	}
}

func TestRunDryRunSkipsMutations(t *testing.T) {
	prober := &scriptedProber{
		latencies: map[string]time.Duration{"10.0.0.2": 10 * time.Millisecond},
	}
	fake := resolvconf.NewFake(models.ResolverState{"8.8.8.8"})

	report, err := newDriver(prober, fake, true).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if fake.Resets != 0 {
		t.Errorf("Resets = %d, want 0 in dry run", fake.Resets)
	}
	if len(fake.Applies) != 0 {
		t.Errorf("Applies = %v, want none in dry run", fake.Applies)
	}
	if report.Winner == nil || report.Winner.Candidate.Address != "10.0.0.2" {
		t.Errorf("Winner = %+v, want 10.0.0.2 (dry run still ranks)", report.Winner)
	}
	if !report.Final.Equal(models.ResolverState{"8.8.8.8"}) {
		t.Errorf("Final = %v, want untouched [8.8.8.8]", report.Final)
	}
}
