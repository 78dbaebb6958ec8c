package notify

import (
	"devsecops-platform/internal/config"
)

// Channel tags. One outgoing webhook per tag.
const (
	ChannelAdmin       = "admin"
	ChannelDeveloper   = "developer"
	ChannelStakeholder = "stakeholder"
)

// Destination is a named outgoing channel. Built once from configuration at
// process start; immutable afterwards.
type Destination struct {
	Channel  string
	Endpoint string
	Enabled  bool
}

// Resolver selects destinations for an event. It is pure: same event and
// configuration always yield the same set, and no network action happens
// here.
type Resolver struct {
	cfg          config.NotifyConfig
	destinations []Destination
}

func NewResolver(cfg config.NotifyConfig) *Resolver {
	disabled := make(map[string]struct{}, len(cfg.DisabledChannels))
	for _, ch := range cfg.DisabledChannels {
		disabled[ch] = struct{}{}
	}

	build := func(channel, url string) Destination {
		_, off := disabled[channel]
		return Destination{
			Channel:  channel,
			Endpoint: url,
			Enabled:  !off && url != "",
		}
	}

	return &Resolver{
		cfg: cfg,
		destinations: []Destination{
			build(ChannelAdmin, cfg.AdminWebhookURL),
			build(ChannelDeveloper, cfg.DeveloperWebhookURL),
			build(ChannelStakeholder, cfg.StakeholderWebhookURL),
		},
	}
}

// Resolve returns the enabled destinations whose channel tag intersects the
// event's target roles, deduplicated by endpoint so one physical URL
// reachable through two tags is delivered once.
//
// The master enable flag and the per-kind flags short-circuit before
// anything else is evaluated.
func (r *Resolver) Resolve(e Event) []Destination {
	if !r.cfg.Enabled {
		return nil
	}
	if !r.kindEnabled(e.Kind) {
		return nil
	}

	wanted := make(map[string]struct{})
	for _, role := range e.TargetRoles() {
		wanted[role] = struct{}{}
	}

	var out []Destination
	seen := make(map[string]struct{})
	for _, d := range r.destinations {
		if !d.Enabled {
			continue
		}
		if _, ok := wanted[d.Channel]; !ok {
			continue
		}
		if _, dup := seen[d.Endpoint]; dup {
			continue
		}
		seen[d.Endpoint] = struct{}{}
		out = append(out, d)
	}
	return out
}

func (r *Resolver) kindEnabled(k Kind) bool {
	switch k {
	case KindPipelineSuccess:
		return r.cfg.SendPipelineSuccess
	case KindPipelineFailure:
		return r.cfg.SendPipelineFailure
	case KindUserCreated, KindUserUpdated, KindUserDeleted:
		return r.cfg.SendUserEvents
	default:
		return false
	}
}
