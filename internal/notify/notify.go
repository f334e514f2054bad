// Package notify composes risk-alert messages and hands them to an
// external delivery collaborator. Actual SMS/email delivery is out of
// scope: the default collaborator only records what would have been sent.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Channel distinguishes delivery mediums.
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// Message is a composed notification ready for a delivery collaborator.
type Message struct {
	ID      string
	Channel Channel
	To      string
	Subject string
	Body    string
}

// Sender delivers composed messages. Implementations integrate whatever
// gateway the deployment uses.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender records messages through the logger instead of delivering
// them. It stands in for a real gateway in demos and tests.
type LogSender struct {
	Logger *slog.Logger
}

// Send implements the Sender interface.
func (s LogSender) Send(_ context.Context, msg Message) error {
	if s.Logger != nil {
		s.Logger.Info("simulated notification delivery",
			"id", msg.ID,
			"channel", string(msg.Channel),
			"to", msg.To,
			"body", msg.Body,
		)
	}
	return nil
}

// ErrNotConfigured indicates delivery credentials are absent or malformed.
// Callers surface this as a disabled feature, never as a fatal error.
var ErrNotConfigured = errors.New("sms delivery not configured")

// Credentials holds the delivery-gateway account settings, injected from
// configuration at startup.
type Credentials struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// Validate checks the credentials are shaped like a usable account. The
// SID format mirrors the gateway's: "AC" prefix, 34 characters.
func (c Credentials) Validate() error {
	if c.AccountSID == "" || c.AuthToken == "" || c.FromNumber == "" {
		return fmt.Errorf("%w: missing account sid, auth token, or from number", ErrNotConfigured)
	}
	if !strings.HasPrefix(c.AccountSID, "AC") {
		return fmt.Errorf("%w: account sid must start with AC", ErrNotConfigured)
	}
	if len(c.AccountSID) != 34 {
		return fmt.Errorf("%w: account sid must be 34 characters, got %d", ErrNotConfigured, len(c.AccountSID))
	}
	return nil
}

// NormalizePhone canonicalises a phone number for delivery: separators are
// stripped and bare national numbers are assumed to be US.
func NormalizePhone(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	for _, sep := range []string{"-", " ", "(", ")", "."} {
		cleaned = strings.ReplaceAll(cleaned, sep, "")
	}
	if cleaned == "" {
		return "", errors.New("phone number is empty")
	}
	if !strings.HasPrefix(cleaned, "+") {
		cleaned = "+1" + cleaned
	}
	for _, r := range cleaned[1:] {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("invalid phone number %q", raw)
		}
	}
	if len(cleaned) < 8 {
		return "", fmt.Errorf("phone number %q too short", raw)
	}
	return cleaned, nil
}
