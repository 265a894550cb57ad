package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMailer struct {
	to      string
	subject string
	body    string
	err     error
}

func (c *captureMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if c.err != nil {
		return c.err
	}
	c.to = to
	c.subject = subject
	c.body = htmlBody
	return nil
}

func TestWelcomeSender(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("renders the activation link into the body", func(t *testing.T) {
		t.Parallel()
		capture := &captureMailer{}
		sender, err := NewWelcomeSender(capture)
		require.NoError(t, err)

		actionURL := "https://skillmarket.example/activate?activation_token=abc123"
		require.NoError(t, sender.SendWelcome(ctx, "alice@example.com", "alice", actionURL))

		assert.Equal(t, "alice@example.com", capture.to)
		assert.Equal(t, welcomeSubject, capture.subject)
		assert.Contains(t, capture.body, "Hi alice")
		assert.Contains(t, capture.body, actionURL)
	})

	t.Run("escapes html in the username", func(t *testing.T) {
		t.Parallel()
		capture := &captureMailer{}
		sender, err := NewWelcomeSender(capture)
		require.NoError(t, err)

		require.NoError(t, sender.SendWelcome(ctx, "a@example.com", "<script>alert(1)</script>", "https://x.example/a"))
		assert.NotContains(t, capture.body, "<script>")
	})

	t.Run("transport errors propagate", func(t *testing.T) {
		t.Parallel()
		sender, err := NewWelcomeSender(&captureMailer{err: errors.New("smtp down")})
		require.NoError(t, err)

		assert.Error(t, sender.SendWelcome(ctx, "a@example.com", "alice", "https://x.example/a"))
	})

	t.Run("rejects a nil mailer", func(t *testing.T) {
		t.Parallel()
		_, err := NewWelcomeSender(nil)
		assert.Error(t, err)
	})
}

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	msg := buildMessage("noreply@skillmarket.example", "alice@example.com", "Welcome", "<p>hi</p>")

	assert.Contains(t, msg, "From: noreply@skillmarket.example\r\n")
	assert.Contains(t, msg, "To: alice@example.com\r\n")
	assert.Contains(t, msg, "Subject: Welcome\r\n")
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.Contains(t, msg, "\r\n\r\n<p>hi</p>")
}
