package alerts

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Builder turns one config entry into a live Sink.
type Builder func(ctx context.Context, cfg SinkConfig, log Logger) (Sink, error)

// Builders maps a sink type to its Builder. Keys are lower case.
type Builders map[string]Builder

// DefaultBuilders knows every sink type this package ships.
func DefaultBuilders() Builders {
	return Builders{
		TypeHTTP:   newHTTPSink,
		TypeSNS:    newSNSSink,
		TypeSQS:    newSQSSink,
		TypePubSub: newPubSubSink,
	}
}

// Build creates a sink per config. Every entry is attempted; the errors of all
// failed entries are returned together and no sinks are returned in that case.
func (b Builders) Build(ctx context.Context, cfgs []SinkConfig, log Logger) ([]Sink, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log = orNoop(log)

	sinks := make([]Sink, 0, len(cfgs))
	var errs []error
	for _, cfg := range cfgs {
		build, ok := b[strings.ToLower(strings.TrimSpace(cfg.Type))]
		if !ok {
			errs = append(errs, fmt.Errorf("sink %q: unsupported type %q", cfg.ID, cfg.Type))
			continue
		}
		s, err := build(ctx, cfg, log)
		if err != nil {
			errs = append(errs, fmt.Errorf("sink %q: %w", cfg.ID, err))
			continue
		}
		sinks = append(sinks, s)
	}
	if len(errs) > 0 {
		closeAll(sinks)
		return nil, errors.Join(errs...)
	}
	return sinks, nil
}
