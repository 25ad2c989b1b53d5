package resolvconf

import (
	"context"
	"sync"

	"github.com/HerbHall/dnstuner/pkg/models"
)

// Fake is an in-memory Manager for deterministic tests. It mirrors the
// semantics of the real implementation: Reset clears to automatic, Apply
// replaces any prior manual configuration with a single address.
type Fake struct {
	mu    sync.Mutex
	state models.ResolverState

	// Call records, for assertions.
	Reads   int
	Resets  int
	Applies []string

	// Injectable failures.
	ReadErr  error
	ResetErr error
	ApplyErr error
}

// Compile-time interface guard.
var _ Manager = (*Fake)(nil)

// NewFake creates a Fake manager with the given initial state.
func NewFake(initial models.ResolverState) *Fake {
	return &Fake{state: append(models.ResolverState{}, initial...)}
}

func (f *Fake) Read(ctx context.Context) (models.ResolverState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Reads++
	if f.ReadErr != nil {
		return nil, f.ReadErr
	}
	return append(models.ResolverState{}, f.state...), nil
}

func (f *Fake) Reset(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Resets++
	if f.ResetErr != nil {
		return f.ResetErr
	}
	f.state = models.ResolverState{}
	return nil
}

func (f *Fake) Apply(ctx context.Context, address string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Applies = append(f.Applies, address)
	if f.ApplyErr != nil {
		return f.ApplyErr
	}
	f.state = models.ResolverState{address}
	return nil
}
