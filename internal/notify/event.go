package notify

import "time"

// Kind discriminates notification events. Each kind has a fixed set of
// template keys and a fixed role-targeting rule.
type Kind string

const (
	KindPipelineSuccess Kind = "pipeline_success"
	KindPipelineFailure Kind = "pipeline_failure"
	KindUserCreated     Kind = "user_created"
	KindUserUpdated     Kind = "user_updated"
	KindUserDeleted     Kind = "user_deleted"
)

// SecurityFindings carries scanner counts attached to failed pipeline runs.
type SecurityFindings struct {
	Critical int `json:"critical,omitempty"`
	High     int `json:"high,omitempty"`
	Medium   int `json:"medium,omitempty"`
	Low      int `json:"low,omitempty"`
}

func (f SecurityFindings) empty() bool {
	return f.Critical == 0 && f.High == 0 && f.Medium == 0 && f.Low == 0
}

// Event is one notification to fan out. Consumed exactly once, never
// persisted.
type Event struct {
	Kind Kind

	// Pipeline fields.
	WorkflowName   string
	Branch         string
	Commit         string
	Actor          string
	Duration       string
	RunURL         string
	Timestamp      time.Time
	FailedServices []string
	Findings       *SecurityFindings

	// Account-activity fields.
	UserEmail string
	UserRole  string
	OldRole   string
}

// TargetRoles returns the channel tags this event should reach.
// Successful runs go to admins and stakeholders; failures to admins and
// developers; account activity to admins only.
func (e Event) TargetRoles() []string {
	switch e.Kind {
	case KindPipelineSuccess:
		return []string{ChannelAdmin, ChannelStakeholder}
	case KindPipelineFailure:
		return []string{ChannelAdmin, ChannelDeveloper}
	case KindUserCreated, KindUserUpdated, KindUserDeleted:
		return []string{ChannelAdmin}
	default:
		return nil
	}
}
