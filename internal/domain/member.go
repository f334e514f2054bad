package domain

import "time"

// RiskCategory is the ordinal urgency label derived from a member's
// predicted days to churn.
type RiskCategory string

const (
	RiskImmediate RiskCategory = "IMMEDIATE"
	RiskHigh      RiskCategory = "HIGH"
	RiskMedium    RiskCategory = "MEDIUM"
	RiskLow       RiskCategory = "LOW"
)

// RiskCategories lists all categories in descending urgency. Aggregations
// and reports keep this ordering everywhere.
var RiskCategories = []RiskCategory{RiskImmediate, RiskHigh, RiskMedium, RiskLow}

// Urgency maps a category to a comparable rank, higher meaning more urgent.
func (c RiskCategory) Urgency() int {
	switch c {
	case RiskImmediate:
		return 3
	case RiskHigh:
		return 2
	case RiskMedium:
		return 1
	case RiskLow:
		return 0
	}
	return -1
}

// Valid reports whether the category is one of the four known labels.
func (c RiskCategory) Valid() bool {
	return c.Urgency() >= 0
}

// Segment is the coarse behavioural/value grouping assigned to a member by
// rule-based heuristic.
type Segment string

const (
	SegmentPremium  Segment = "Premium"
	SegmentStandard Segment = "Standard"
	SegmentBasic    Segment = "Basic"
	SegmentAtRisk   Segment = "At-Risk"
	SegmentNew      Segment = "New"
)

// Segments lists all segments in display order.
var Segments = []Segment{SegmentPremium, SegmentStandard, SegmentBasic, SegmentAtRisk, SegmentNew}

// Member is a single row of the in-memory member table. Records are
// immutable once generated; the table only changes by wholesale replacement.
type Member struct {
	ID                   string
	GroupID              string
	EnrollmentDate       time.Time
	TenureDays           int
	VirtualCareVisits    int
	InPersonVisits       int
	LifetimeValue        float64
	EstimatedDaysToChurn int
	RiskScore            float64
	RiskCategory         RiskCategory
	Segment              Segment
}

// TotalVisits sums virtual and in-person engagement.
func (m Member) TotalVisits() int {
	return m.VirtualCareVisits + m.InPersonVisits
}

// AtRisk reports whether the member sits in one of the two urgent buckets.
func (m Member) AtRisk() bool {
	return m.RiskCategory == RiskImmediate || m.RiskCategory == RiskHigh
}
