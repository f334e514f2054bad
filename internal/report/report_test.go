package report

import (
	"strings"
	"testing"
	"time"

	"github.com/amtamaddon/analytics.simlane.ai/internal/domain"
)

func TestBuildExecutiveSummary(t *testing.T) {
	members := []domain.Member{
		{ID: "M0001", GroupID: "G1", LifetimeValue: 1500, RiskCategory: domain.RiskImmediate, Segment: domain.SegmentAtRisk},
		{ID: "M0002", GroupID: "G2", LifetimeValue: 500, VirtualCareVisits: 3, RiskCategory: domain.RiskLow, Segment: domain.SegmentStandard},
	}
	now := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)

	summary := BuildExecutiveSummary(members, now)

	if summary.ID == "" {
		t.Fatal("summary should carry an ID")
	}
	if !summary.GeneratedAt.Equal(now) {
		t.Fatalf("generated at = %s, want %s", summary.GeneratedAt, now)
	}
	if summary.Overview.TotalMembers != 2 || summary.Overview.AtRiskMembers != 1 {
		t.Fatalf("overview wrong: %+v", summary.Overview)
	}

	text := summary.Render()
	for _, want := range []string{
		"Total Members:          2",
		"At-Risk Members:        1 (50.0%)",
		"IMMEDIATE",
		"Revenue impact: $1500",
		"never used virtual care",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("rendered report missing %q:\n%s", want, text)
		}
	}
}

func TestSummariesHaveDistinctIDs(t *testing.T) {
	now := time.Now()
	a := BuildExecutiveSummary(nil, now)
	b := BuildExecutiveSummary(nil, now)
	if a.ID == b.ID {
		t.Fatal("two summaries share the same ID")
	}
}
