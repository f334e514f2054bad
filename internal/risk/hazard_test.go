package risk

import "testing"

func TestHazardCurvesShape(t *testing.T) {
	families := map[string]int{
		"visits":     len(VisitCurves()),
		"engagement": len(EngagementCurves()),
		"tenure":     len(TenureCurves()),
	}
	want := map[string]int{"visits": 4, "engagement": 3, "tenure": 4}
	for family, got := range families {
		if got != want[family] {
			t.Errorf("%s curve family has %d curves, want %d", family, got, want[family])
		}
	}

	for _, curve := range VisitCurves() {
		if len(curve.Points) != hazardSamples {
			t.Fatalf("curve %q has %d points, want %d", curve.Label, len(curve.Points), hazardSamples)
		}
		for _, p := range curve.Points {
			if p.Rate <= 0 {
				t.Fatalf("curve %q has non-positive rate %f at day %f", curve.Label, p.Rate, p.Day)
			}
		}
		last := curve.Points[len(curve.Points)-1]
		if last.Day != 365 {
			t.Fatalf("curve %q ends at day %f, want 365", curve.Label, last.Day)
		}
	}
}

func TestDisengagedMembersHazardHigher(t *testing.T) {
	curves := VisitCurves()
	zeroVisits, tenVisits := curves[0], curves[len(curves)-1]
	for i := range zeroVisits.Points {
		if zeroVisits.Points[i].Rate <= tenVisits.Points[i].Rate {
			t.Fatalf("expected zero-visit hazard above ten-visit hazard at day %f", zeroVisits.Points[i].Day)
		}
	}
}
