package domain

// GroupStats holds per-group aggregates for a single grouping key value.
type GroupStats struct {
	Key               string
	Members           int
	AvgLifetimeValue  float64
	AvgVirtualVisits  float64
	AvgInPersonVisits float64
	AvgTenureDays     float64
	AvgRiskScore      float64
	AtRiskRate        float64
}

// Overview captures the headline dashboard totals for the whole table.
type Overview struct {
	TotalMembers     int
	TotalGroups      int
	AtRiskMembers    int
	AtRiskRate       float64
	RevenueAtRisk    float64
	AvgLifetimeValue float64
	EngagementRate   float64
	ImmediateRisk    int
}

// RiskBucket is one slice of the risk distribution.
type RiskBucket struct {
	Category RiskCategory
	Members  int
}

// GroupRiskRow expresses how one group's members distribute across risk
// categories, as percentages of the group's size.
type GroupRiskRow struct {
	GroupID     string
	Members     int
	Percentages map[RiskCategory]float64
}

// Insights are the derived findings surfaced alongside the aggregates.
type Insights struct {
	ZeroEngagementMembers int
	NewMembersAtHighRisk  int
	TopValueRevenueShare  float64
	LowestRiskGroupID     string
}

// HazardPoint is one sample of a synthetic hazard curve.
type HazardPoint struct {
	Day  float64
	Rate float64
}

// HazardCurve is a labelled series of hazard samples over the churn horizon.
type HazardCurve struct {
	Label  string
	Points []HazardPoint
}
