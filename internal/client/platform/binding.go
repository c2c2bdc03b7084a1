package platform

import (
	"sync"

	"github.com/dmitrijs2005/aora/internal/client/config"
	"github.com/dmitrijs2005/aora/internal/logging"
)

// Binding is the process-wide handle to the platform. The client is built
// on first use from the static configuration and reused afterwards.
type Binding struct {
	cfg *config.Config
	log logging.Logger
	dial func(*config.Config, logging.Logger) (*GRPCPlatform, error)

	once sync.Once
	p    *GRPCPlatform
	err  error
}

func NewBinding(cfg *config.Config, log logging.Logger) *Binding {
	return &Binding{cfg: cfg, log: log, dial: NewGRPCPlatform}
}

// Platform returns the shared client, constructing it on the first call.
// A construction error is sticky.
func (b *Binding) Platform() (*GRPCPlatform, error) {
	b.once.Do(func() {
		b.p, b.err = b.dial(b.cfg, b.log)
	})
	return b.p, b.err
}

// Close releases the connection if one was ever built.
func (b *Binding) Close() error {
	b.once.Do(func() {})
	if b.p == nil {
		return nil
	}
	return b.p.Close()
}
