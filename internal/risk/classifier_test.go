package risk

import (
	"testing"

	"github.com/amtamaddon/analytics.simlane.ai/internal/domain"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		days int
		want domain.RiskCategory
	}{
		{0, domain.RiskImmediate},
		{15, domain.RiskImmediate},
		{30, domain.RiskImmediate},
		{31, domain.RiskHigh},
		{90, domain.RiskHigh},
		{91, domain.RiskMedium},
		{180, domain.RiskMedium},
		{181, domain.RiskLow},
		{365, domain.RiskLow},
	}

	for _, tc := range cases {
		if got := Classify(tc.days); got != tc.want {
			t.Errorf("Classify(%d) = %s, want %s", tc.days, got, tc.want)
		}
	}
}

func TestClassifyTotalAndMonotonic(t *testing.T) {
	prev := domain.RiskImmediate
	for d := 0; d <= 400; d++ {
		got := Classify(d)
		if !got.Valid() {
			t.Fatalf("Classify(%d) returned unknown category %q", d, got)
		}
		if got.Urgency() > prev.Urgency() {
			t.Fatalf("urgency increased from %s to %s at day %d", prev, got, d)
		}
		prev = got
	}
}

func TestThresholdsValidate(t *testing.T) {
	cases := []struct {
		name    string
		in      Thresholds
		wantErr bool
	}{
		{"defaults", DefaultThresholds(), false},
		{"custom", Thresholds{Immediate: 14, High: 60, Medium: 120}, false},
		{"zero immediate", Thresholds{Immediate: 0, High: 90, Medium: 180}, true},
		{"high below immediate", Thresholds{Immediate: 30, High: 30, Medium: 180}, true},
		{"medium below high", Thresholds{Immediate: 30, High: 90, Medium: 90}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error for %+v", tc.in)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestPreviewPartitionsTable(t *testing.T) {
	members := []domain.Member{
		{ID: "M0001", EstimatedDaysToChurn: 5},
		{ID: "M0002", EstimatedDaysToChurn: 45},
		{ID: "M0003", EstimatedDaysToChurn: 120},
		{ID: "M0004", EstimatedDaysToChurn: 300},
		{ID: "M0005", EstimatedDaysToChurn: 30},
	}

	counts := Preview(members, DefaultThresholds())

	total := 0
	for _, c := range domain.RiskCategories {
		n, ok := counts[c]
		if !ok {
			t.Fatalf("bucket %s missing from preview", c)
		}
		if n < 0 {
			t.Fatalf("bucket %s has negative count %d", c, n)
		}
		total += n
	}
	if total != len(members) {
		t.Fatalf("bucket counts sum to %d, want %d", total, len(members))
	}
	if counts[domain.RiskImmediate] != 2 {
		t.Fatalf("expected 2 immediate members, got %d", counts[domain.RiskImmediate])
	}
}

func TestPreviewWithCustomThresholds(t *testing.T) {
	members := []domain.Member{
		{ID: "M0001", EstimatedDaysToChurn: 20},
		{ID: "M0002", EstimatedDaysToChurn: 20},
	}

	counts := Preview(members, Thresholds{Immediate: 10, High: 60, Medium: 120})
	if counts[domain.RiskHigh] != 2 {
		t.Fatalf("expected both members in HIGH under tightened thresholds, got %+v", counts)
	}
}
