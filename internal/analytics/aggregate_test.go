package analytics

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/amtamaddon/analytics.simlane.ai/internal/domain"
)

func testTable() []domain.Member {
	enroll := time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Member{
		{ID: "M0001", GroupID: "G1", EnrollmentDate: enroll, TenureDays: 400, VirtualCareVisits: 6, InPersonVisits: 2, LifetimeValue: 2000, EstimatedDaysToChurn: 300, RiskScore: 0.2, RiskCategory: domain.RiskLow, Segment: domain.SegmentPremium},
		{ID: "M0002", GroupID: "G1", EnrollmentDate: enroll, TenureDays: 200, VirtualCareVisits: 0, InPersonVisits: 1, LifetimeValue: 400, EstimatedDaysToChurn: 20, RiskScore: 0.9, RiskCategory: domain.RiskImmediate, Segment: domain.SegmentAtRisk},
		{ID: "M0003", GroupID: "G2", EnrollmentDate: enroll, TenureDays: 10, VirtualCareVisits: 2, InPersonVisits: 0, LifetimeValue: 600, EstimatedDaysToChurn: 60, RiskScore: 0.7, RiskCategory: domain.RiskHigh, Segment: domain.SegmentAtRisk},
		{ID: "M0004", GroupID: "G2", EnrollmentDate: enroll, TenureDays: 500, VirtualCareVisits: 3, InPersonVisits: 3, LifetimeValue: 1000, EstimatedDaysToChurn: 150, RiskScore: 0.5, RiskCategory: domain.RiskMedium, Segment: domain.SegmentStandard},
		{ID: "M0005", GroupID: "G10", EnrollmentDate: enroll, TenureDays: 700, VirtualCareVisits: 1, InPersonVisits: 0, LifetimeValue: 300, EstimatedDaysToChurn: 250, RiskScore: 0.3, RiskCategory: domain.RiskLow, Segment: domain.SegmentBasic},
	}
}

func TestGroupByPartitionInvariant(t *testing.T) {
	members := testTable()
	for _, key := range []GroupKey{BySegment, ByRiskCategory, ByGroupID} {
		stats, err := GroupBy(members, key)
		if err != nil {
			t.Fatalf("GroupBy(%s) failed: %v", key, err)
		}
		total := 0
		for _, s := range stats {
			if s.Members <= 0 {
				t.Fatalf("group %q has non-positive count", s.Key)
			}
			total += s.Members
		}
		if total != len(members) {
			t.Fatalf("GroupBy(%s) counts sum to %d, want %d", key, total, len(members))
		}
	}
}

func TestGroupByAggregates(t *testing.T) {
	stats, err := GroupBy(testTable(), ByGroupID)
	if err != nil {
		t.Fatalf("GroupBy failed: %v", err)
	}
	if len(stats) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(stats))
	}

	// Shortest-first ordering puts G1 and G2 ahead of G10.
	if stats[0].Key != "G1" || stats[1].Key != "G2" || stats[2].Key != "G10" {
		t.Fatalf("unexpected group order: %s, %s, %s", stats[0].Key, stats[1].Key, stats[2].Key)
	}

	g1 := stats[0]
	if g1.Members != 2 {
		t.Fatalf("G1 count = %d, want 2", g1.Members)
	}
	if math.Abs(g1.AvgLifetimeValue-1200) > 1e-9 {
		t.Fatalf("G1 avg LTV = %f, want 1200", g1.AvgLifetimeValue)
	}
	if math.Abs(g1.AtRiskRate-0.5) > 1e-9 {
		t.Fatalf("G1 at-risk rate = %f, want 0.5", g1.AtRiskRate)
	}
}

func TestGroupByUnknownKey(t *testing.T) {
	_, err := GroupBy(testTable(), GroupKey("cluster_7"))
	if !errors.Is(err, ErrUnknownGroupKey) {
		t.Fatalf("expected ErrUnknownGroupKey, got %v", err)
	}
}

func TestOverview(t *testing.T) {
	got := Overview(testTable())

	if got.TotalMembers != 5 || got.TotalGroups != 3 {
		t.Fatalf("totals wrong: %+v", got)
	}
	if got.AtRiskMembers != 2 {
		t.Fatalf("at-risk count = %d, want 2", got.AtRiskMembers)
	}
	if math.Abs(got.AtRiskRate-0.4) > 1e-9 {
		t.Fatalf("at-risk rate = %f, want 0.4", got.AtRiskRate)
	}
	if math.Abs(got.RevenueAtRisk-1000) > 1e-9 {
		t.Fatalf("revenue at risk = %f, want 1000", got.RevenueAtRisk)
	}
	if math.Abs(got.AvgLifetimeValue-860) > 1e-9 {
		t.Fatalf("avg LTV = %f, want 860", got.AvgLifetimeValue)
	}
	if math.Abs(got.EngagementRate-2.4) > 1e-9 {
		t.Fatalf("engagement rate = %f, want 2.4", got.EngagementRate)
	}
	if got.ImmediateRisk != 1 {
		t.Fatalf("immediate count = %d, want 1", got.ImmediateRisk)
	}
}

func TestOverviewEmptyTable(t *testing.T) {
	got := Overview(nil)
	if got.TotalMembers != 0 || got.AtRiskRate != 0 || got.AvgLifetimeValue != 0 {
		t.Fatalf("empty overview should be zero-valued: %+v", got)
	}
}

func TestRiskDistribution(t *testing.T) {
	buckets := RiskDistribution(testTable())
	if len(buckets) != 4 {
		t.Fatalf("expected 4 buckets, got %d", len(buckets))
	}

	want := map[domain.RiskCategory]int{
		domain.RiskImmediate: 1,
		domain.RiskHigh:      1,
		domain.RiskMedium:    1,
		domain.RiskLow:       2,
	}
	total := 0
	for i, b := range buckets {
		if b.Category != domain.RiskCategories[i] {
			t.Fatalf("bucket %d out of order: %s", i, b.Category)
		}
		if b.Members != want[b.Category] {
			t.Fatalf("bucket %s = %d, want %d", b.Category, b.Members, want[b.Category])
		}
		total += b.Members
	}
	if total != 5 {
		t.Fatalf("distribution sums to %d, want 5", total)
	}
}

func TestGroupRiskMatrix(t *testing.T) {
	rows := GroupRiskMatrix(testTable())
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	for _, row := range rows {
		sum := 0.0
		for _, pct := range row.Percentages {
			if pct < 0 {
				t.Fatalf("group %s has negative percentage", row.GroupID)
			}
			sum += pct
		}
		if math.Abs(sum-100) > 1e-9 {
			t.Fatalf("group %s percentages sum to %f, want 100", row.GroupID, sum)
		}
	}

	g1 := rows[0]
	if g1.GroupID != "G1" {
		t.Fatalf("expected G1 first, got %s", g1.GroupID)
	}
	if math.Abs(g1.Percentages[domain.RiskImmediate]-50) > 1e-9 {
		t.Fatalf("G1 immediate share = %f, want 50", g1.Percentages[domain.RiskImmediate])
	}
}

func TestInsights(t *testing.T) {
	got := Insights(testTable())

	if got.ZeroEngagementMembers != 1 {
		t.Fatalf("zero engagement = %d, want 1", got.ZeroEngagementMembers)
	}
	if got.NewMembersAtHighRisk != 1 {
		t.Fatalf("new high-risk = %d, want 1", got.NewMembersAtHighRisk)
	}
	// Top 20% of 5 members is the single highest-value member: 2000/4300.
	want := 2000.0 / 4300.0 * 100
	if math.Abs(got.TopValueRevenueShare-want) > 1e-9 {
		t.Fatalf("top value share = %f, want %f", got.TopValueRevenueShare, want)
	}
	// G1 mean 0.55, G2 mean 0.6, G10 mean 0.3.
	if got.LowestRiskGroupID != "G10" {
		t.Fatalf("lowest risk group = %s, want G10", got.LowestRiskGroupID)
	}
}
