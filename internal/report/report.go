// Package report builds executive-summary snapshots of the member table.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amtamaddon/analytics.simlane.ai/internal/analytics"
	"github.com/amtamaddon/analytics.simlane.ai/internal/domain"
)

// ExecutiveSummary is a point-in-time report over the member table.
type ExecutiveSummary struct {
	ID               string
	GeneratedAt      time.Time
	Overview         domain.Overview
	Insights         domain.Insights
	RiskDistribution []domain.RiskBucket
}

// BuildExecutiveSummary assembles a summary for the given table.
func BuildExecutiveSummary(members []domain.Member, now time.Time) ExecutiveSummary {
	return ExecutiveSummary{
		ID:               uuid.NewString(),
		GeneratedAt:      now.UTC(),
		Overview:         analytics.Overview(members),
		Insights:         analytics.Insights(members),
		RiskDistribution: analytics.RiskDistribution(members),
	}
}

// Render formats the summary as plain text for CLI output and report
// downloads.
func (s ExecutiveSummary) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Member Analytics Report %s\n", s.ID)
	fmt.Fprintf(&b, "Generated: %s\n\n", s.GeneratedAt.Format("January 2, 2006 15:04 MST"))

	fmt.Fprintf(&b, "Key Metrics\n")
	fmt.Fprintf(&b, "  Total Members:          %d\n", s.Overview.TotalMembers)
	fmt.Fprintf(&b, "  At-Risk Members:        %d (%.1f%%)\n", s.Overview.AtRiskMembers, s.Overview.AtRiskRate*100)
	fmt.Fprintf(&b, "  Average Lifetime Value: $%.0f\n", s.Overview.AvgLifetimeValue)
	fmt.Fprintf(&b, "  Revenue at Risk:        $%.0f (next 90 days)\n", s.Overview.RevenueAtRisk)
	fmt.Fprintf(&b, "  Engagement Rate:        %.1f visits/member\n\n", s.Overview.EngagementRate)

	fmt.Fprintf(&b, "Risk Distribution\n")
	for _, bucket := range s.RiskDistribution {
		fmt.Fprintf(&b, "  %-10s %d\n", bucket.Category, bucket.Members)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Top Insights\n")
	fmt.Fprintf(&b, "  1. Immediate action required: %d members at immediate risk\n", s.Overview.ImmediateRisk)
	fmt.Fprintf(&b, "  2. Revenue impact: $%.0f at risk in the next 90 days\n", s.Overview.RevenueAtRisk)
	fmt.Fprintf(&b, "  3. Engagement gap: %d members have never used virtual care\n", s.Insights.ZeroEngagementMembers)
	fmt.Fprintf(&b, "  4. New member risk: %d new members are already at high risk\n", s.Insights.NewMembersAtHighRisk)
	fmt.Fprintf(&b, "  5. Revenue concentration: top 20%% of members hold %.0f%% of revenue\n", s.Insights.TopValueRevenueShare)
	if s.Insights.LowestRiskGroupID != "" {
		fmt.Fprintf(&b, "  6. Group performance: group %s has the lowest average risk score\n", s.Insights.LowestRiskGroupID)
	}

	return b.String()
}
