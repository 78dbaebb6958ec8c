package notify

import (
	"context"
	"log/slog"
)

// Service ties resolution, rendering and delivery together.
type Service struct {
	resolver *Resolver
	fanout   *Fanout
	email    *EmailChannel
	log      *slog.Logger
}

func NewService(resolver *Resolver, fanout *Fanout, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{resolver: resolver, fanout: fanout, log: log}
}

// Notify resolves destinations for the event and delivers to each,
// returning the number of successful deliveries across webhook and email
// channels. With the feature disabled or nothing configured this is zero
// without any network action.
func (s *Service) Notify(ctx context.Context, e Event) int {
	if !s.resolver.cfg.Enabled || !s.resolver.kindEnabled(e.Kind) {
		s.log.Debug("notification skipped", "kind", string(e.Kind))
		return 0
	}

	sent := 0
	if destinations := s.resolver.Resolve(e); len(destinations) > 0 {
		sent += s.fanout.Deliver(ctx, destinations, BuildPayload(e))
	}
	sent += s.deliverEmails(ctx, e)
	return sent
}
