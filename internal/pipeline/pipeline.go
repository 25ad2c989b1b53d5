// Package pipeline sequences a full optimization run: read the current
// resolver state, reset to automatic, probe all candidates, rank them, apply
// the fastest, and read the final state.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/HerbHall/dnstuner/internal/probe"
	"github.com/HerbHall/dnstuner/internal/rank"
	"github.com/HerbHall/dnstuner/internal/resolvconf"
	"github.com/HerbHall/dnstuner/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Fatal pipeline errors. Per-candidate probe failures are never fatal; they
// are absorbed into the ranked outcomes.
var (
	// ErrReadFailed indicates the resolver state could not be read.
	ErrReadFailed = errors.New("resolver state read failed")
	// ErrApplyFailed indicates a resolver mutation did not take effect.
	ErrApplyFailed = errors.New("resolver apply failed")
)

// Stage identifies the pipeline stage an error originated from.
type Stage string

const (
	StageReadInitial    Stage = "read_initial"
	StageResetAutomatic Stage = "reset_automatic"
	StageProbing        Stage = "probing"
	StageRanking        Stage = "ranking"
	StageApplying       Stage = "applying"
	StageReadFinal      Stage = "read_final"
)

// Report is the outcome of one pipeline run.
type Report struct {
	RunID     string
	Initial   models.ResolverState
	Final     models.ResolverState
	Ranked    []models.ProbeOutcome
	Winner    *models.ProbeOutcome
	NoneFound bool
	DryRun    bool
}

// Driver runs the probe, rank, apply pipeline over a candidate catalog.
type Driver struct {
	candidates []models.Candidate
	collector  *probe.Collector
	manager    resolvconf.Manager
	logger     *zap.Logger
	dryRun     bool
}

// New creates a pipeline Driver.
func New(candidates []models.Candidate, collector *probe.Collector, manager resolvconf.Manager, logger *zap.Logger, dryRun bool) *Driver {
	return &Driver{
		candidates: candidates,
		collector:  collector,
		manager:    manager,
		logger:     logger,
		dryRun:     dryRun,
	}
}

// Run executes the pipeline. A returned error is fatal and wraps either
// ErrReadFailed or ErrApplyFailed together with the failing stage; reaching
// no resolver is not an error and is reported via Report.NoneFound.
func (d *Driver) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:  uuid.New().String(),
		DryRun: d.dryRun,
	}
	logger := d.logger.With(zap.String("run_id", report.RunID))

	initial, err := d.manager.Read(ctx)
	if err != nil {
		return nil, stageErr(StageReadInitial, ErrReadFailed, err)
	}
	report.Initial = initial
	logState(logger, "current resolver configuration", initial)

	if d.dryRun {
		logger.Info("dry run: skipping reset to automatic")
	} else {
		if err := d.manager.Reset(ctx); err != nil {
			return nil, stageErr(StageResetAutomatic, ErrApplyFailed, err)
		}
		logger.Info("resolver configuration reset to automatic")
	}

	logger.Info("probing candidates", zap.Int("count", len(d.candidates)))
	outcomes := d.collector.Collect(ctx, d.candidates)

	report.Ranked = rank.Rank(outcomes)

	winner, found := rank.Winner(report.Ranked)
	if !found {
		report.NoneFound = true
		logger.Warn("no reachable resolver; leaving interface in automatic mode")
	} else {
		report.Winner = &winner
		logger.Info("fastest resolver selected",
			zap.String("name", winner.Candidate.Name),
			zap.String("address", winner.Candidate.Address),
			zap.Duration("latency", winner.Latency),
		)
		if d.dryRun {
			logger.Info("dry run: skipping apply")
		} else if err := d.manager.Apply(ctx, winner.Candidate.Address); err != nil {
			return nil, stageErr(StageApplying, ErrApplyFailed, err)
		}
	}

	final, err := d.manager.Read(ctx)
	if err != nil {
		return nil, stageErr(StageReadFinal, ErrReadFailed, err)
	}
	report.Final = final
	logState(logger, "final resolver configuration", final)

	return report, nil
}

func stageErr(stage Stage, kind, cause error) error {
	return fmt.Errorf("stage %s: %w: %w", stage, kind, cause)
}

func logState(logger *zap.Logger, msg string, state models.ResolverState) {
	if state.Automatic() {
		logger.Info(msg, zap.String("mode", "automatic (DHCP)"))
		return
	}
	logger.Info(msg, zap.Strings("nameservers", state))
}
