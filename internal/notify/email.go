package notify

import (
	"context"
	"errors"

	"devsecops-platform/internal/mail"
)

// SubscriberSource lists the active mailing-list addresses for account
// activity. The subscriber store satisfies it.
type SubscriberSource interface {
	ActiveEmails(ctx context.Context) ([]string, error)
}

// EmailChannel adds email delivery of account activity alongside the
// webhook channels: the admin notification address plus every active
// subscriber. Pipeline events stay webhook-only.
type EmailChannel struct {
	Sender      mail.Sender
	Subscribers SubscriberSource
	AdminEmail  string
}

// WithEmail enables the email channel on the service.
func (s *Service) WithEmail(ch EmailChannel) *Service {
	s.email = &ch
	return s
}

func (s *Service) deliverEmails(ctx context.Context, e Event) int {
	switch e.Kind {
	case KindUserCreated, KindUserUpdated, KindUserDeleted:
	default:
		return 0
	}
	if s.email == nil || s.email.Sender == nil {
		return 0
	}

	recipients := s.emailRecipients(ctx, e)
	if len(recipients) == 0 {
		return 0
	}

	sent := 0
	for _, to := range recipients {
		msg := accountMessage(to, e)
		if err := s.email.Sender.Send(msg); err != nil {
			if !errors.Is(err, mail.ErrDisabled) {
				s.log.Error("account email failed", "to", to, "err", err)
			}
			continue
		}
		sent++
	}
	return sent
}

// emailRecipients resolves the admin address plus active subscribers,
// deduplicated. Falls back to the affected account's own address when no
// admin address is configured, matching the original notification behavior.
func (s *Service) emailRecipients(ctx context.Context, e Event) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(addr string) {
		if addr == "" {
			return
		}
		if _, dup := seen[addr]; dup {
			return
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}

	if s.email.AdminEmail != "" {
		add(s.email.AdminEmail)
	} else {
		add(e.UserEmail)
	}

	if s.email.Subscribers != nil {
		subs, err := s.email.Subscribers.ActiveEmails(ctx)
		if err != nil {
			s.log.Error("subscriber lookup failed", "err", err)
		}
		for _, addr := range subs {
			add(addr)
		}
	}
	return out
}

func accountMessage(to string, e Event) mail.Message {
	switch e.Kind {
	case KindUserUpdated:
		return mail.UserUpdated(to, e.UserEmail, e.OldRole, e.UserRole)
	case KindUserDeleted:
		return mail.UserDeleted(to, e.UserEmail)
	default:
		return mail.UserCreated(to, e.UserEmail, e.UserRole)
	}
}
