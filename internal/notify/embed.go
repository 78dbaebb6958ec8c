package notify

import (
	"fmt"
	"strings"
	"time"
)

// Embed colors per event outcome.
const (
	colorSuccess = 0x00ff00
	colorFailure = 0xff0000
	colorInfo    = 0x3498db
)

// placeholderNA substitutes missing optional fields. Templates must never
// leak an unresolved placeholder or an empty value.
const placeholderNA = "N/A"

const embedFooterText = "DevSecOps Platform Notification"

// EmbedField is one name/value pair inside an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

// Embed is the chat-webhook message body.
type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Fields      []EmbedField `json:"fields"`
	Timestamp   string       `json:"timestamp"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
}

// WebhookPayload is the JSON body posted to each destination.
type WebhookPayload struct {
	Embeds []Embed `json:"embeds"`
}

// BuildPayload renders the event into the webhook body for its kind.
func BuildPayload(e Event) WebhookPayload {
	var embed Embed
	switch e.Kind {
	case KindPipelineSuccess:
		embed = buildPipelineEmbed(e, true)
	case KindPipelineFailure:
		embed = buildPipelineEmbed(e, false)
	default:
		embed = buildUserEmbed(e)
	}
	return WebhookPayload{Embeds: []Embed{embed}}
}

func buildPipelineEmbed(e Event, success bool) Embed {
	fields := []EmbedField{
		{Name: "Branch", Value: orNA(e.Branch), Inline: true},
		{Name: "Commit", Value: shortCommit(e.Commit), Inline: true},
		{Name: "Actor", Value: orNA(e.Actor), Inline: true},
		{Name: "Duration", Value: orNA(e.Duration), Inline: true},
	}

	if !success {
		if len(e.FailedServices) > 0 {
			fields = append(fields, EmbedField{
				Name:  "Failed Services",
				Value: strings.Join(e.FailedServices, ", "),
			})
		}
		if e.Findings != nil && !e.Findings.empty() {
			fields = append(fields, EmbedField{
				Name:  "Security Findings",
				Value: findingsText(*e.Findings),
			})
		}
	}

	fields = append(fields, EmbedField{Name: "Run URL", Value: runLink(e.RunURL)})

	title := fmt.Sprintf("%s - Success", orNA(e.WorkflowName))
	desc := fmt.Sprintf("Pipeline completed successfully on `%s`", orNA(e.Branch))
	color := colorSuccess
	if !success {
		title = fmt.Sprintf("%s - Failure", orNA(e.WorkflowName))
		desc = fmt.Sprintf("Pipeline failed on `%s`", orNA(e.Branch))
		color = colorFailure
	}

	return Embed{
		Title:       title,
		Description: desc,
		Color:       color,
		Fields:      fields,
		Timestamp:   timestampOrNow(e.Timestamp),
		Footer:      &EmbedFooter{Text: embedFooterText},
	}
}

func buildUserEmbed(e Event) Embed {
	var title, desc string
	fields := []EmbedField{
		{Name: "Email", Value: orNA(e.UserEmail), Inline: true},
		{Name: "Role", Value: orNA(e.UserRole), Inline: true},
	}

	switch e.Kind {
	case KindUserCreated:
		title = "User Account Created"
		desc = fmt.Sprintf("An account was created for `%s`", orNA(e.UserEmail))
	case KindUserUpdated:
		title = "User Account Updated"
		desc = fmt.Sprintf("The account `%s` was updated", orNA(e.UserEmail))
		fields = append(fields, EmbedField{Name: "Previous Role", Value: orNA(e.OldRole), Inline: true})
	case KindUserDeleted:
		title = "User Account Deleted"
		desc = fmt.Sprintf("The account `%s` was deleted", orNA(e.UserEmail))
	default:
		title = "Account Activity"
		desc = "Account activity recorded"
	}

	return Embed{
		Title:       title,
		Description: desc,
		Color:       colorInfo,
		Fields:      fields,
		Timestamp:   timestampOrNow(e.Timestamp),
		Footer:      &EmbedFooter{Text: embedFooterText},
	}
}

func findingsText(f SecurityFindings) string {
	var parts []string
	if f.Critical > 0 {
		parts = append(parts, fmt.Sprintf("Critical: %d", f.Critical))
	}
	if f.High > 0 {
		parts = append(parts, fmt.Sprintf("High: %d", f.High))
	}
	if f.Medium > 0 {
		parts = append(parts, fmt.Sprintf("Medium: %d", f.Medium))
	}
	if f.Low > 0 {
		parts = append(parts, fmt.Sprintf("Low: %d", f.Low))
	}
	return strings.Join(parts, "\n")
}

func shortCommit(sha string) string {
	if sha == "" {
		return placeholderNA
	}
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func runLink(url string) string {
	if url == "" {
		return placeholderNA
	}
	return fmt.Sprintf("[View Details](%s)", url)
}

func orNA(s string) string {
	if s == "" {
		return placeholderNA
	}
	return s
}

func timestampOrNow(t time.Time) string {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	return t.UTC().Format(time.RFC3339)
}
