package auth

import (
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// ProviderOption configures a Provider.
type ProviderOption interface {
	applyProvider(p *Provider)
}

// WithClock sets the clock used to check token expiry and to timestamp assertions.
func WithClock(clock clockwork.Clock) ProviderOption {
	return clockOption{clock}
}

type clockOption struct {
	clock clockwork.Clock
}

func (o clockOption) applyProvider(p *Provider) {
	p.clock = o.clock
}

// WithLogger sets the logger a Provider reports cache and exchange events to.
func WithLogger(logger *zap.Logger) ProviderOption {
	return loggerOption{logger}
}

type loggerOption struct {
	logger *zap.Logger
}

func (o loggerOption) applyProvider(p *Provider) {
	p.logger = o.logger
}
