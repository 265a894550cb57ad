package mailer

import (
	"context"
	"fmt"
	"html/template"
	"strings"
)

const welcomeSubject = "Welcome to Skillmarket"

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif;">
    <h2>Hi {{.Username}},</h2>
    <p>Thanks for signing up. Your account is almost ready.</p>
    <p>Click the link below to activate it:</p>
    <p><a href="{{.ActionURL}}">Activate my account</a></p>
    <p>If you did not create this account, you can ignore this message.</p>
  </body>
</html>
`))

// WelcomeSender renders the welcome email and sends it through the
// underlying mailer. It satisfies the task queue's mailer boundary.
type WelcomeSender struct {
	mailer Mailer
}

// NewWelcomeSender wraps a Mailer with the welcome template.
func NewWelcomeSender(m Mailer) (*WelcomeSender, error) {
	if m == nil {
		return nil, fmt.Errorf("mailer cannot be nil")
	}
	return &WelcomeSender{mailer: m}, nil
}

// SendWelcome renders and sends the activation email.
func (s *WelcomeSender) SendWelcome(ctx context.Context, toEmail, username, actionURL string) error {
	var body strings.Builder
	data := struct {
		Username  string
		ActionURL string
	}{Username: username, ActionURL: actionURL}

	if err := welcomeTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render welcome template: %w", err)
	}

	return s.mailer.Send(ctx, toEmail, welcomeSubject, body.String())
}
