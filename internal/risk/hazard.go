package risk

import (
	"fmt"
	"math"

	"github.com/amtamaddon/analytics.simlane.ai/internal/domain"
)

// Synthetic hazard curves over a one-year churn horizon. The formulas are
// chosen for visual plausibility, not fitted to data.

const (
	hazardHorizonDays = 365
	hazardSamples     = 100
)

func sampleCurve(label string, rate func(day float64) float64) domain.HazardCurve {
	curve := domain.HazardCurve{Label: label, Points: make([]domain.HazardPoint, hazardSamples)}
	step := float64(hazardHorizonDays) / float64(hazardSamples-1)
	for i := 0; i < hazardSamples; i++ {
		day := step * float64(i)
		curve.Points[i] = domain.HazardPoint{Day: day, Rate: rate(day)}
	}
	return curve
}

// VisitCurves shows how the hazard rate accelerates for members with fewer
// virtual care visits.
func VisitCurves() []domain.HazardCurve {
	visitCounts := []int{0, 2, 5, 10}
	curves := make([]domain.HazardCurve, 0, len(visitCounts))
	for _, visits := range visitCounts {
		v := float64(visits)
		curves = append(curves, sampleCurve(fmt.Sprintf("%d visits", visits), func(day float64) float64 {
			return 0.001 * math.Exp(0.01*day) * (1 + 2/(v+1))
		}))
	}
	return curves
}

// EngagementCurves contrasts hazard acceleration across engagement tiers.
func EngagementCurves() []domain.HazardCurve {
	tiers := []struct {
		label string
		mult  float64
	}{
		{"Low", 2.5},
		{"Medium", 1.5},
		{"High", 0.5},
	}
	curves := make([]domain.HazardCurve, 0, len(tiers))
	for _, tier := range tiers {
		mult := tier.mult
		curves = append(curves, sampleCurve(tier.label, func(day float64) float64 {
			return 0.001 * math.Exp(0.008*day) * mult
		}))
	}
	return curves
}

// TenureCurves shows the dampening effect of longer tenure on the hazard
// rate.
func TenureCurves() []domain.HazardCurve {
	tenures := []int{1, 6, 12, 24}
	curves := make([]domain.HazardCurve, 0, len(tenures))
	for _, months := range tenures {
		m := float64(months)
		curves = append(curves, sampleCurve(fmt.Sprintf("%dmo tenure", months), func(day float64) float64 {
			return 0.002 * math.Exp(0.007*day) / math.Sqrt(m)
		}))
	}
	return curves
}
