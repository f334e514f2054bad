// Package generator fabricates reproducible member datasets for the demo
// analytics pipeline.
package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/amtamaddon/analytics.simlane.ai/internal/domain"
	"github.com/amtamaddon/analytics.simlane.ai/internal/risk"
	"github.com/amtamaddon/analytics.simlane.ai/internal/segment"
)

// Generator produces synthetic member records aligned with the analytics
// schema. Output is a pure function of the configuration: the same seed and
// count always yield the same table for a fixed clock.
type Generator struct {
	cfg        Config
	rand       *rand.Rand
	thresholds risk.Thresholds
	now        func() time.Time
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	defaults := DefaultConfig()
	if cfg.NumMembers <= 0 {
		cfg.NumMembers = defaults.NumMembers
	}
	if cfg.NumGroups <= 0 {
		cfg.NumGroups = defaults.NumGroups
	}
	if cfg.EnrollmentDays <= 0 {
		cfg.EnrollmentDays = defaults.EnrollmentDays
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:        cfg,
		rand:       rand.New(rand.NewSource(cfg.Seed)),
		thresholds: risk.DefaultThresholds(),
		now:        time.Now,
	}
}

// WithClock overrides the wall clock used to anchor enrollment dates.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WithThresholds overrides the risk boundaries applied to generated records.
func (g *Generator) WithThresholds(t risk.Thresholds) *Generator {
	g.thresholds = t
	return g
}

// Generate synthesises the member table. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) ([]domain.Member, error) {
	today := g.now().UTC().Truncate(24 * time.Hour)
	members := make([]domain.Member, g.cfg.NumMembers)

	for i := 0; i < g.cfg.NumMembers; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tenureDays := g.rand.Intn(g.cfg.EnrollmentDays)
		enrollment := today.AddDate(0, 0, -tenureDays)

		virtual := g.poisson(3)
		inPerson := g.poisson(2)

		baseValue := g.rand.NormFloat64()*300 + 1000
		tenureFactor := float64(tenureDays) / 365
		visitFactor := float64(virtual+inPerson) / 5
		lifetimeValue := baseValue * (1 + tenureFactor + visitFactor)
		if lifetimeValue < 100 {
			lifetimeValue = 100
		}

		score := g.riskScore(virtual, tenureDays, lifetimeValue)
		days := g.churnHorizon(score)
		category := g.thresholds.Classify(days)

		member := domain.Member{
			ID:                   fmt.Sprintf("M%04d", i+1),
			GroupID:              fmt.Sprintf("G%d", 1+g.rand.Intn(g.cfg.NumGroups)),
			EnrollmentDate:       enrollment,
			TenureDays:           tenureDays,
			VirtualCareVisits:    virtual,
			InPersonVisits:       inPerson,
			LifetimeValue:        lifetimeValue,
			EstimatedDaysToChurn: days,
			RiskScore:            score,
			RiskCategory:         category,
		}
		member.Segment = segment.Assign(member)
		members[i] = member
	}

	return members, nil
}

// riskScore draws a base score and bumps it for the engagement, tenure, and
// value signals that correlate with churn in the demo data.
func (g *Generator) riskScore(virtualVisits, tenureDays int, lifetimeValue float64) float64 {
	score := g.rand.Float64()
	if virtualVisits == 0 {
		score += 0.3
	}
	if tenureDays < 90 {
		score += 0.2
	}
	if lifetimeValue < 500 {
		score += 0.1
	}
	if score > 1 {
		score = 1
	}
	return score
}

// churnHorizon converts a risk score into an estimated days-to-churn value
// drawn from the band matching the score.
func (g *Generator) churnHorizon(score float64) int {
	switch {
	case score > 0.8:
		return g.rand.Intn(31) // 0-30
	case score > 0.6:
		return 31 + g.rand.Intn(60) // 31-90
	case score > 0.4:
		return 91 + g.rand.Intn(90) // 91-180
	default:
		return 181 + g.rand.Intn(185) // 181-365
	}
}

// poisson samples a Poisson-distributed count via Knuth's method. The demo
// rates are small enough that the multiplication loop stays cheap.
func (g *Generator) poisson(lambda float64) int {
	limit := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= g.rand.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}
