// Package risk maps predicted churn horizons onto ordinal urgency buckets.
package risk

import (
	"fmt"

	"github.com/amtamaddon/analytics.simlane.ai/internal/domain"
)

// Thresholds holds the bucket boundaries in days. A horizon equal to a
// boundary classifies into the more urgent bucket.
type Thresholds struct {
	Immediate int
	High      int
	Medium    int
}

// DefaultThresholds returns the standard 30/90/180 day boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{Immediate: 30, High: 90, Medium: 180}
}

// Validate ensures the boundaries are positive and strictly increasing so
// the buckets cannot overlap.
func (t Thresholds) Validate() error {
	if t.Immediate <= 0 {
		return fmt.Errorf("immediate threshold must be positive, got %d", t.Immediate)
	}
	if t.High <= t.Immediate {
		return fmt.Errorf("high threshold %d must exceed immediate threshold %d", t.High, t.Immediate)
	}
	if t.Medium <= t.High {
		return fmt.Errorf("medium threshold %d must exceed high threshold %d", t.Medium, t.High)
	}
	return nil
}

// Classify maps a days-to-churn horizon to its risk category. Smaller
// horizons never map to a lower-urgency bucket than larger ones.
func (t Thresholds) Classify(days int) domain.RiskCategory {
	switch {
	case days <= t.Immediate:
		return domain.RiskImmediate
	case days <= t.High:
		return domain.RiskHigh
	case days <= t.Medium:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// Classify applies the default thresholds.
func Classify(days int) domain.RiskCategory {
	return DefaultThresholds().Classify(days)
}

// Preview recounts the table against candidate thresholds without mutating
// any records. Every member lands in exactly one bucket.
func Preview(members []domain.Member, t Thresholds) map[domain.RiskCategory]int {
	counts := make(map[domain.RiskCategory]int, len(domain.RiskCategories))
	for _, c := range domain.RiskCategories {
		counts[c] = 0
	}
	for _, m := range members {
		counts[t.Classify(m.EstimatedDaysToChurn)]++
	}
	return counts
}
