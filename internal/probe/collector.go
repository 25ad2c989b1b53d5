package probe

import (
	"context"
	"sync"

	"github.com/HerbHall/dnstuner/pkg/models"
	"go.uber.org/zap"
)

// Collector probes every candidate in a catalog with a bounded worker pool.
// The returned outcomes are always in 1:1 correspondence with the input
// candidates, in the same order, regardless of probe scheduling.
type Collector struct {
	prober  Prober
	workers int
	logger  *zap.Logger
}

// NewCollector creates a Collector running at most workers probes at once.
func NewCollector(prober Prober, workers int, logger *zap.Logger) *Collector {
	if workers < 1 {
		workers = 1
	}
	return &Collector{
		prober:  prober,
		workers: workers,
		logger:  logger,
	}
}

// Collect probes all candidates and returns one outcome per candidate in
// catalog order. A cancelled context does not drop outcomes: candidates
// whose probe could not complete are reported as timed out.
func (c *Collector) Collect(ctx context.Context, candidates []models.Candidate) []models.ProbeOutcome {
	outcomes := make([]models.ProbeOutcome, len(candidates))

	indexCh := make(chan int)
	var wg sync.WaitGroup

	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexCh {
				candidate := candidates[idx]
				c.logger.Info("probing candidate",
					zap.String("name", candidate.Name),
					zap.String("address", candidate.Address),
				)
				outcome := c.prober.Probe(ctx, candidate)
				outcomes[idx] = outcome
				if outcome.Reachable() {
					c.logger.Info("probe completed",
						zap.String("address", candidate.Address),
						zap.Duration("latency", outcome.Latency),
					)
				} else {
					c.logger.Warn("probe failed",
						zap.String("address", candidate.Address),
						zap.String("status", string(outcome.Status)),
					)
				}
			}
		}()
	}

	for i := range candidates {
		indexCh <- i
	}
	close(indexCh)
	wg.Wait()

	return outcomes
}
