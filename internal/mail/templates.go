package mail

import (
	"bytes"
	"html/template"
)

// Account-activity templates. One template per CRUD action; every
// placeholder is required and filled, so no template ever renders with a
// leaked `{{...}}`.

const baseTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background-color: #f4f4f4; padding: 20px; border-radius: 5px;">
    <h1 style="color: #333;">{{.Title}}</h1>
    <p>Action: <strong>{{.Action}}</strong></p>
    <p>Account: <strong>{{.Email}}</strong></p>
    {{if .Role}}<p>Role: <strong>{{.Role}}</strong></p>{{end}}
    {{if .OldRole}}<p>Previous role: <strong>{{.OldRole}}</strong></p>{{end}}
  </div>
</body>
</html>`

var accountTemplate = template.Must(template.New("account").Parse(baseTemplate))

type templateData struct {
	Title   string
	Action  string
	Email   string
	Role    string
	OldRole string
}

func render(data templateData) string {
	var buf bytes.Buffer
	if err := accountTemplate.Execute(&buf, data); err != nil {
		// The template is static and the data shape fixed; failure here is a
		// programming error surfaced loudly in tests.
		panic(err)
	}
	return buf.String()
}

// UserCreated renders the account-created notification.
func UserCreated(to, email, role string) Message {
	return Message{
		To:      to,
		Subject: "User Account Created - DevSecOps Platform",
		HTML:    render(templateData{Title: "User Account Created", Action: "CREATE", Email: email, Role: role}),
	}
}

// UserUpdated renders the role-change notification.
func UserUpdated(to, email, oldRole, newRole string) Message {
	return Message{
		To:      to,
		Subject: "User Account Updated - DevSecOps Platform",
		HTML:    render(templateData{Title: "User Account Updated", Action: "UPDATE", Email: email, Role: newRole, OldRole: oldRole}),
	}
}

// UserDeleted renders the account-deleted notification.
func UserDeleted(to, email string) Message {
	return Message{
		To:      to,
		Subject: "User Account Deleted - DevSecOps Platform",
		HTML:    render(templateData{Title: "User Account Deleted", Action: "DELETE", Email: email}),
	}
}
