package channel

import (
	"context"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"jobs-srv/internal/model"
	"jobs-srv/internal/notification"
	"jobs-srv/pkg/log"
)

// emailTemplate renders the notification body. Metadata entries appear as a
// two-column table; the action button only renders when an URL is set.
const emailTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f7; margin: 0; padding: 24px;">
  <div style="max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 32px;">
    <h2 style="margin-top: 0; color: #1a1a2e;">{{.Title}}</h2>
    <p style="color: #444; line-height: 1.5;">{{.Message}}</p>
    {{if .ActionURL}}
    <p style="margin: 24px 0;">
      <a href="{{.ActionURL}}" style="background: #4f46e5; color: #ffffff; padding: 10px 20px; border-radius: 6px; text-decoration: none;">{{.ActionLabel}}</a>
    </p>
    {{end}}
    {{if .Metadata}}
    <table style="width: 100%; border-collapse: collapse; margin-top: 16px;">
      {{range .Metadata}}
      <tr>
        <td style="padding: 6px 8px; border-bottom: 1px solid #eee; color: #888;">{{.Key}}</td>
        <td style="padding: 6px 8px; border-bottom: 1px solid #eee; color: #333;">{{.Value}}</td>
      </tr>
      {{end}}
    </table>
    {{end}}
    <p style="color: #aaa; font-size: 12px; margin-top: 32px;">Priority: {{.Priority}} &middot; Category: {{.Category}}</p>
  </div>
</body>
</html>`

type emailVars struct {
	Title       string
	Message     string
	ActionURL   string
	ActionLabel string
	Priority    model.Priority
	Category    string
	Metadata    []emailMetaRow
}

type emailMetaRow struct {
	Key   string
	Value string
}

type implEmail struct {
	l      log.Logger
	client EmailClient
	tmpl   *template.Template
}

func NewEmail(l log.Logger, client EmailClient) notification.Sender {
	return &implEmail{
		l:      l,
		client: client,
		tmpl:   template.Must(template.New("notification").Parse(emailTemplate)),
	}
}

func (s *implEmail) Channel() model.Channel { return model.ChannelEmail }

func (s *implEmail) Available(pref model.NotificationPreferences, n model.NotificationData) bool {
	return pref.Channels.Email && pref.Email != ""
}

func (s *implEmail) Deliver(ctx context.Context, n model.NotificationData, pref model.NotificationPreferences) (string, error) {
	vars := emailVars{
		Title:       n.Title,
		Message:     n.Message,
		ActionURL:   n.ActionURL.String,
		ActionLabel: n.ActionLabel.String,
		Priority:    n.Priority,
		Category:    n.Category,
	}
	if vars.ActionURL != "" && vars.ActionLabel == "" {
		vars.ActionLabel = "View"
	}
	for k, v := range n.Metadata {
		vars.Metadata = append(vars.Metadata, emailMetaRow{Key: k, Value: fmt.Sprint(v)})
	}
	sort.Slice(vars.Metadata, func(i, j int) bool { return vars.Metadata[i].Key < vars.Metadata[j].Key })

	var body strings.Builder
	if err := s.tmpl.Execute(&body, vars); err != nil {
		return "", fmt.Errorf("render email for %s: %w", n.ID, err)
	}

	subject := n.Title
	if n.Priority == model.PriorityCritical {
		subject = "[URGENT] " + subject
	}

	return s.client.Send(ctx, pref.Email, subject, body.String())
}
