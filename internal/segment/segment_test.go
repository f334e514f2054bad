package segment

import (
	"testing"

	"github.com/amtamaddon/analytics.simlane.ai/internal/domain"
)

func TestAssignRulePrecedence(t *testing.T) {
	cases := []struct {
		name string
		in   domain.Member
		want domain.Segment
	}{
		{
			name: "high value engaged member is premium",
			in:   domain.Member{LifetimeValue: 2000, VirtualCareVisits: 8, TenureDays: 400, RiskCategory: domain.RiskLow},
			want: domain.SegmentPremium,
		},
		{
			name: "premium wins over at-risk",
			in:   domain.Member{LifetimeValue: 2000, VirtualCareVisits: 8, TenureDays: 400, RiskCategory: domain.RiskImmediate},
			want: domain.SegmentPremium,
		},
		{
			name: "immediate risk member is at-risk",
			in:   domain.Member{LifetimeValue: 900, VirtualCareVisits: 2, TenureDays: 400, RiskCategory: domain.RiskImmediate},
			want: domain.SegmentAtRisk,
		},
		{
			name: "high risk member is at-risk",
			in:   domain.Member{LifetimeValue: 900, VirtualCareVisits: 2, TenureDays: 400, RiskCategory: domain.RiskHigh},
			want: domain.SegmentAtRisk,
		},
		{
			name: "at-risk wins over new",
			in:   domain.Member{LifetimeValue: 900, VirtualCareVisits: 2, TenureDays: 10, RiskCategory: domain.RiskHigh},
			want: domain.SegmentAtRisk,
		},
		{
			name: "recent enrollee is new",
			in:   domain.Member{LifetimeValue: 900, VirtualCareVisits: 2, TenureDays: 10, RiskCategory: domain.RiskLow},
			want: domain.SegmentNew,
		},
		{
			name: "low value member is basic",
			in:   domain.Member{LifetimeValue: 300, VirtualCareVisits: 2, TenureDays: 400, RiskCategory: domain.RiskLow},
			want: domain.SegmentBasic,
		},
		{
			name: "everyone else is standard",
			in:   domain.Member{LifetimeValue: 900, VirtualCareVisits: 2, TenureDays: 400, RiskCategory: domain.RiskMedium},
			want: domain.SegmentStandard,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Assign(tc.in); got != tc.want {
				t.Fatalf("Assign() = %s, want %s", got, tc.want)
			}
		})
	}
}
