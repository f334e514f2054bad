// Package segment assigns members to coarse behavioural/value groupings.
package segment

import "github.com/amtamaddon/analytics.simlane.ai/internal/domain"

// Assign derives the member's segment from value, urgency, and tenure
// rules. Rule order matters: the first match wins, so every member lands
// in exactly one segment. The member's RiskCategory must already be set.
func Assign(m domain.Member) domain.Segment {
	switch {
	case m.LifetimeValue > 1500 && m.VirtualCareVisits > 5:
		return domain.SegmentPremium
	case m.AtRisk():
		return domain.SegmentAtRisk
	case m.TenureDays < 30:
		return domain.SegmentNew
	case m.LifetimeValue < 500:
		return domain.SegmentBasic
	default:
		return domain.SegmentStandard
	}
}
