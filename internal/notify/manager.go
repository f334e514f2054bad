package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/amtamaddon/analytics.simlane.ai/internal/domain"
)

// ErrBelowThreshold indicates a member's risk category sits below the
// configured alerting floor.
var ErrBelowThreshold = errors.New("risk category below alert threshold")

// Manager gates and dispatches risk alerts through a Sender.
type Manager struct {
	sender      Sender
	creds       Credentials
	minCategory domain.RiskCategory
	logger      *slog.Logger
	now         func() time.Time
}

// NewManager builds an alert manager. minCategory is the least urgent
// category that still triggers an alert.
func NewManager(logger *slog.Logger, sender Sender, creds Credentials, minCategory domain.RiskCategory) *Manager {
	if !minCategory.Valid() {
		minCategory = domain.RiskHigh
	}
	return &Manager{
		sender:      sender,
		creds:       creds,
		minCategory: minCategory,
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock overrides the wall clock used in test-message timestamps.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Enabled reports whether delivery credentials are usable. A disabled
// manager still composes messages but refuses to dispatch them.
func (m *Manager) Enabled() bool {
	return m.creds.Validate() == nil
}

// SendRiskAlert composes and dispatches an SMS alert for one member.
func (m *Manager) SendRiskAlert(ctx context.Context, phone string, member domain.Member) error {
	if err := m.creds.Validate(); err != nil {
		return err
	}
	if member.RiskCategory.Urgency() < m.minCategory.Urgency() {
		return fmt.Errorf("%w: %s is %s, floor is %s", ErrBelowThreshold, member.ID, member.RiskCategory, m.minCategory)
	}

	to, err := NormalizePhone(phone)
	if err != nil {
		return err
	}

	msg := Message{
		ID:      uuid.NewString(),
		Channel: ChannelSMS,
		To:      to,
		Body:    ComposeRiskAlert(member.ID, member.RiskCategory, member.EstimatedDaysToChurn),
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send risk alert for member %s: %w", member.ID, err)
	}

	m.logger.Info("risk alert sent", "memberId", member.ID, "riskCategory", string(member.RiskCategory), "messageId", msg.ID)
	return nil
}

// SendTestMessage dispatches a verification SMS to confirm configuration.
func (m *Manager) SendTestMessage(ctx context.Context, phone string) error {
	if err := m.creds.Validate(); err != nil {
		return err
	}
	to, err := NormalizePhone(phone)
	if err != nil {
		return err
	}

	msg := Message{
		ID:      uuid.NewString(),
		Channel: ChannelSMS,
		To:      to,
		Body:    ComposeTestMessage(m.now()),
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send test message: %w", err)
	}
	return nil
}

// SendBulkAlerts alerts on the most urgent immediate-risk members, closest
// churn horizon first, up to limit. It returns how many alerts went out.
func (m *Manager) SendBulkAlerts(ctx context.Context, phone string, members []domain.Member, limit int) (int, error) {
	if err := m.creds.Validate(); err != nil {
		return 0, err
	}
	if limit <= 0 {
		limit = 5
	}

	cohort := make([]domain.Member, 0, limit)
	for _, member := range members {
		if member.RiskCategory == domain.RiskImmediate {
			cohort = append(cohort, member)
		}
	}
	sort.Slice(cohort, func(i, j int) bool {
		return cohort[i].EstimatedDaysToChurn < cohort[j].EstimatedDaysToChurn
	})
	if len(cohort) > limit {
		cohort = cohort[:limit]
	}

	sent := 0
	var errs []error
	for _, member := range cohort {
		if err := m.SendRiskAlert(ctx, phone, member); err != nil {
			errs = append(errs, err)
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}

// SendRiskEmail composes and dispatches a retention email for one member.
func (m *Manager) SendRiskEmail(ctx context.Context, address string, member domain.Member) error {
	if address == "" {
		return errors.New("email address is required")
	}

	subject, body := ComposeRiskEmail(member.ID)
	msg := Message{
		ID:      uuid.NewString(),
		Channel: ChannelEmail,
		To:      address,
		Subject: subject,
		Body:    body,
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send risk email for member %s: %w", member.ID, err)
	}
	return nil
}
