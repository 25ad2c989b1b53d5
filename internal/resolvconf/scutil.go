package resolvconf

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/HerbHall/dnstuner/pkg/models"
	"go.uber.org/zap"
)

// scopedSectionMarker separates the primary resolver section of the scutil
// report from the per-interface (scoped query) sections. Only the primary
// section is parsed; scoped sections repeat the same entries.
const scopedSectionMarker = "DNS configuration (for scoped queries)"

// automaticSentinel tells networksetup to drop manual resolvers.
const automaticSentinel = "empty"

var nameserverPattern = regexp.MustCompile(`nameserver\[\d+\]\s*:\s*(\S+)`)

// SettleFunc waits for an asynchronous configuration change to take effect.
type SettleFunc func(ctx context.Context, d time.Duration) error

// waitSettle is the default settle: a plain bounded wait.
func waitSettle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runner executes an external command and returns its stdout.
type runner interface {
	run(ctx context.Context, name string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) run(ctx context.Context, name string, args ...string) (string, error) {
	if _, err := exec.LookPath(name); err != nil {
		return "", fmt.Errorf("%w: %s", ErrCommandUnavailable, name)
	}
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", fmt.Errorf("run %s: %w", name, err)
	}
	return string(out), nil
}

// Scutil manages macOS resolver configuration by shelling to scutil (read)
// and networksetup (mutate). Mutations settle for settleDelay before they
// are considered observable, because macOS applies them asynchronously.
type Scutil struct {
	iface       string
	settleDelay time.Duration
	settle      SettleFunc
	runner      runner
	logger      *zap.Logger
}

// Compile-time interface guard.
var _ Manager = (*Scutil)(nil)

// NewScutil creates a Scutil manager for the given network service name
// (e.g. "Wi-Fi"). It fails with ErrCommandUnavailable when the required
// system tools are not installed.
func NewScutil(iface string, settleDelay time.Duration, logger *zap.Logger) (*Scutil, error) {
	for _, tool := range []string{"scutil", "networksetup"} {
		if _, err := exec.LookPath(tool); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrCommandUnavailable, tool)
		}
	}
	return &Scutil{
		iface:       iface,
		settleDelay: settleDelay,
		settle:      waitSettle,
		runner:      execRunner{},
		logger:      logger,
	}, nil
}

func (s *Scutil) Read(ctx context.Context) (models.ResolverState, error) {
	out, err := s.runner.run(ctx, "scutil", "--dns")
	if err != nil {
		return nil, fmt.Errorf("query resolver configuration: %w", err)
	}
	return parseResolverReport(out), nil
}

func (s *Scutil) Reset(ctx context.Context) error {
	s.logger.Info("resetting resolver configuration to automatic",
		zap.String("interface", s.iface),
	)
	if _, err := s.runner.run(ctx, "networksetup", "-setdnsservers", s.iface, automaticSentinel); err != nil {
		return fmt.Errorf("reset resolvers on %s: %w", s.iface, err)
	}
	return s.settle(ctx, s.settleDelay)
}

func (s *Scutil) Apply(ctx context.Context, address string) error {
	s.logger.Info("applying resolver configuration",
		zap.String("interface", s.iface),
		zap.String("address", address),
	)
	if _, err := s.runner.run(ctx, "networksetup", "-setdnsservers", s.iface, address); err != nil {
		return fmt.Errorf("set resolver %s on %s: %w", address, s.iface, err)
	}
	return s.settle(ctx, s.settleDelay)
}

// parseResolverReport extracts the nameserver addresses from the primary
// section of a scutil --dns report. Scoped query sections are excluded to
// avoid duplicate or stale entries.
func parseResolverReport(report string) models.ResolverState {
	primary, _, _ := strings.Cut(report, scopedSectionMarker)

	state := models.ResolverState{}
	for _, line := range strings.Split(primary, "\n") {
		if !strings.HasPrefix(strings.TrimSpace(line), "nameserver") {
			continue
		}
		if m := nameserverPattern.FindStringSubmatch(line); m != nil {
			state = append(state, m[1])
		}
	}
	return state
}
