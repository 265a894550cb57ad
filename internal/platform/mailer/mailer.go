// Package mailer delivers outbound email. The only message this service
// sends today is the welcome email with the activation link; the generic
// Send boundary keeps additional messages cheap to add.
package mailer

import "context"

// Mailer sends a single HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
