// Package analytics computes the aggregates and derived findings served by
// the reporting endpoints. Every function is a pure fold over the member
// table: no side effects, deterministic for identical input.
package analytics

import (
	"errors"
	"fmt"
	"sort"

	"github.com/amtamaddon/analytics.simlane.ai/internal/domain"
)

// GroupKey selects the partition used by GroupBy.
type GroupKey string

const (
	BySegment      GroupKey = "segment"
	ByRiskCategory GroupKey = "risk_category"
	ByGroupID      GroupKey = "group_id"
)

// ErrUnknownGroupKey indicates a grouping key outside the supported set.
var ErrUnknownGroupKey = errors.New("unknown grouping key")

// GroupBy partitions the table on the given key and computes per-group
// count, means, and at-risk rate. The per-group counts always sum to the
// table size.
func GroupBy(members []domain.Member, key GroupKey) ([]domain.GroupStats, error) {
	keyFn, err := keyFunc(key)
	if err != nil {
		return nil, err
	}

	type accumulator struct {
		count    int
		ltv      float64
		virtual  int
		inPerson int
		tenure   int
		score    float64
		atRisk   int
	}

	acc := make(map[string]*accumulator)
	for _, m := range members {
		k := keyFn(m)
		a, ok := acc[k]
		if !ok {
			a = &accumulator{}
			acc[k] = a
		}
		a.count++
		a.ltv += m.LifetimeValue
		a.virtual += m.VirtualCareVisits
		a.inPerson += m.InPersonVisits
		a.tenure += m.TenureDays
		a.score += m.RiskScore
		if m.AtRisk() {
			a.atRisk++
		}
	}

	stats := make([]domain.GroupStats, 0, len(acc))
	for k, a := range acc {
		n := float64(a.count)
		stats = append(stats, domain.GroupStats{
			Key:               k,
			Members:           a.count,
			AvgLifetimeValue:  a.ltv / n,
			AvgVirtualVisits:  float64(a.virtual) / n,
			AvgInPersonVisits: float64(a.inPerson) / n,
			AvgTenureDays:     float64(a.tenure) / n,
			AvgRiskScore:      a.score / n,
			AtRiskRate:        float64(a.atRisk) / n,
		})
	}

	sortStats(stats, key)
	return stats, nil
}

func keyFunc(key GroupKey) (func(domain.Member) string, error) {
	switch key {
	case BySegment:
		return func(m domain.Member) string { return string(m.Segment) }, nil
	case ByRiskCategory:
		return func(m domain.Member) string { return string(m.RiskCategory) }, nil
	case ByGroupID:
		return func(m domain.Member) string { return m.GroupID }, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGroupKey, key)
}

// sortStats fixes the output order: enums in their display order, group IDs
// shortest-first so G2 sorts before G10.
func sortStats(stats []domain.GroupStats, key GroupKey) {
	rank := map[string]int{}
	switch key {
	case BySegment:
		for i, s := range domain.Segments {
			rank[string(s)] = i
		}
	case ByRiskCategory:
		for i, c := range domain.RiskCategories {
			rank[string(c)] = i
		}
	}

	sort.Slice(stats, func(i, j int) bool {
		if len(rank) > 0 {
			return rank[stats[i].Key] < rank[stats[j].Key]
		}
		if len(stats[i].Key) != len(stats[j].Key) {
			return len(stats[i].Key) < len(stats[j].Key)
		}
		return stats[i].Key < stats[j].Key
	})
}

// Overview computes the headline totals for the whole table.
func Overview(members []domain.Member) domain.Overview {
	out := domain.Overview{TotalMembers: len(members)}
	if len(members) == 0 {
		return out
	}

	groups := make(map[string]struct{})
	var totalLTV float64
	var totalVirtual int
	for _, m := range members {
		groups[m.GroupID] = struct{}{}
		totalLTV += m.LifetimeValue
		totalVirtual += m.VirtualCareVisits
		if m.AtRisk() {
			out.AtRiskMembers++
			out.RevenueAtRisk += m.LifetimeValue
		}
		if m.RiskCategory == domain.RiskImmediate {
			out.ImmediateRisk++
		}
	}

	n := float64(len(members))
	out.TotalGroups = len(groups)
	out.AtRiskRate = float64(out.AtRiskMembers) / n
	out.AvgLifetimeValue = totalLTV / n
	out.EngagementRate = float64(totalVirtual) / n
	return out
}

// RiskDistribution counts members per category in fixed urgency order.
func RiskDistribution(members []domain.Member) []domain.RiskBucket {
	counts := make(map[domain.RiskCategory]int, len(domain.RiskCategories))
	for _, m := range members {
		counts[m.RiskCategory]++
	}

	buckets := make([]domain.RiskBucket, 0, len(domain.RiskCategories))
	for _, c := range domain.RiskCategories {
		buckets = append(buckets, domain.RiskBucket{Category: c, Members: counts[c]})
	}
	return buckets
}

// GroupRiskMatrix expresses each group's risk mix as percentages of the
// group's size.
func GroupRiskMatrix(members []domain.Member) []domain.GroupRiskRow {
	type groupCounts struct {
		total  int
		byRisk map[domain.RiskCategory]int
	}

	acc := make(map[string]*groupCounts)
	for _, m := range members {
		g, ok := acc[m.GroupID]
		if !ok {
			g = &groupCounts{byRisk: make(map[domain.RiskCategory]int, len(domain.RiskCategories))}
			acc[m.GroupID] = g
		}
		g.total++
		g.byRisk[m.RiskCategory]++
	}

	rows := make([]domain.GroupRiskRow, 0, len(acc))
	for groupID, g := range acc {
		row := domain.GroupRiskRow{
			GroupID:     groupID,
			Members:     g.total,
			Percentages: make(map[domain.RiskCategory]float64, len(domain.RiskCategories)),
		}
		for _, c := range domain.RiskCategories {
			row.Percentages[c] = float64(g.byRisk[c]) / float64(g.total) * 100
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if len(rows[i].GroupID) != len(rows[j].GroupID) {
			return len(rows[i].GroupID) < len(rows[j].GroupID)
		}
		return rows[i].GroupID < rows[j].GroupID
	})
	return rows
}

// Insights derives the findings surfaced alongside the aggregates.
func Insights(members []domain.Member) domain.Insights {
	out := domain.Insights{}
	if len(members) == 0 {
		return out
	}

	var totalLTV float64
	groupScores := make(map[string]*struct {
		sum   float64
		count int
	})
	for _, m := range members {
		totalLTV += m.LifetimeValue
		if m.VirtualCareVisits == 0 {
			out.ZeroEngagementMembers++
		}
		if m.TenureDays < 30 && m.AtRisk() {
			out.NewMembersAtHighRisk++
		}
		g, ok := groupScores[m.GroupID]
		if !ok {
			g = &struct {
				sum   float64
				count int
			}{}
			groupScores[m.GroupID] = g
		}
		g.sum += m.RiskScore
		g.count++
	}

	out.TopValueRevenueShare = topValueShare(members, totalLTV)

	bestScore := 0.0
	for groupID, g := range groupScores {
		mean := g.sum / float64(g.count)
		if out.LowestRiskGroupID == "" || mean < bestScore ||
			(mean == bestScore && groupID < out.LowestRiskGroupID) {
			out.LowestRiskGroupID = groupID
			bestScore = mean
		}
	}
	return out
}

// topValueShare reports the share of total revenue held by the top 20% of
// members by lifetime value, as a percentage.
func topValueShare(members []domain.Member, totalLTV float64) float64 {
	if totalLTV == 0 {
		return 0
	}

	values := make([]float64, len(members))
	for i, m := range members {
		values[i] = m.LifetimeValue
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))

	k := len(values) / 5
	if k == 0 {
		k = 1
	}
	var top float64
	for _, v := range values[:k] {
		top += v
	}
	return top / totalLTV * 100
}
