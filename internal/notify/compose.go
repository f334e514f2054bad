package notify

import (
	"fmt"
	"time"

	"github.com/amtamaddon/analytics.simlane.ai/internal/domain"
)

// ComposeRiskAlert builds the SMS body for a member's churn-risk alert.
func ComposeRiskAlert(memberID string, category domain.RiskCategory, daysToChurn int) string {
	return fmt.Sprintf("SIMLANE ALERT: Member %s is at %s risk of churning in %d days. Take action now!",
		memberID, category, daysToChurn)
}

// ComposeTestMessage builds a timestamped verification SMS. The timestamp
// keeps repeated tests unique for carrier filtering.
func ComposeTestMessage(now time.Time) string {
	return fmt.Sprintf("Simlane.ai Test [%s]: Your SMS notifications are working correctly! Reply STOP to unsubscribe.",
		now.Format("3:04 PM"))
}

// ComposeRiskEmail builds the subject and body of a retention outreach
// email for a member.
func ComposeRiskEmail(memberID string) (subject, body string) {
	subject = "Important: Your membership needs attention"
	body = fmt.Sprintf(`Dear Member %s,

We've noticed you haven't been using your benefits recently. We're here to help!

Your wellness matters to us, and we want to ensure you're getting the most from your membership.

Would you like to schedule a quick call to discuss how we can better serve you?

Best regards,
The Simlane Team`, memberID)
	return subject, body
}
