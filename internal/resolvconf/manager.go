// Package resolvconf reads and mutates the resolver configuration of a
// network interface.
package resolvconf

import (
	"context"
	"errors"

	"github.com/HerbHall/dnstuner/pkg/models"
)

// ErrCommandUnavailable indicates a required external tool is not installed.
var ErrCommandUnavailable = errors.New("required command unavailable")

// Manager abstracts resolver configuration access for one interface.
type Manager interface {
	// Read returns the manually configured resolver addresses of the
	// interface's primary (non-scoped) section. Empty means automatic.
	Read(ctx context.Context) (models.ResolverState, error)

	// Reset clears manual resolver configuration, returning the interface
	// to automatic (DHCP) mode. Idempotent.
	Reset(ctx context.Context) error

	// Apply sets the interface's resolver list to the single given
	// address, replacing any prior manual configuration. Idempotent.
	Apply(ctx context.Context, address string) error
}
