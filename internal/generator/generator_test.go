package generator

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/amtamaddon/analytics.simlane.ai/internal/domain"
	"github.com/amtamaddon/analytics.simlane.ai/internal/risk"
)

func fixedClock() time.Time {
	return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := Config{NumMembers: 200, NumGroups: 10, Seed: 42}

	first, err := New(cfg).WithClock(fixedClock).Generate(context.Background())
	if err != nil {
		t.Fatalf("first generation failed: %v", err)
	}
	second, err := New(cfg).WithClock(fixedClock).Generate(context.Background())
	if err != nil {
		t.Fatalf("second generation failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatal("same seed and count produced different tables")
	}
}

func TestGenerateDifferentSeeds(t *testing.T) {
	a, err := New(Config{NumMembers: 100, Seed: 1}).WithClock(fixedClock).Generate(context.Background())
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	b, err := New(Config{NumMembers: 100, Seed: 2}).WithClock(fixedClock).Generate(context.Background())
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	if reflect.DeepEqual(a, b) {
		t.Fatal("different seeds produced identical tables")
	}
}

func TestGenerateFieldInvariants(t *testing.T) {
	members, err := New(Config{NumMembers: 500, NumGroups: 20, Seed: 42}).WithClock(fixedClock).Generate(context.Background())
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	if len(members) != 500 {
		t.Fatalf("expected 500 members, got %d", len(members))
	}

	buckets := make(map[domain.RiskCategory]int)
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if _, dup := seen[m.ID]; dup {
			t.Fatalf("duplicate member id %s", m.ID)
		}
		seen[m.ID] = struct{}{}

		if m.TenureDays < 0 {
			t.Fatalf("member %s has negative tenure %d", m.ID, m.TenureDays)
		}
		if m.LifetimeValue < 100 {
			t.Fatalf("member %s has lifetime value %f below floor", m.ID, m.LifetimeValue)
		}
		if m.RiskScore < 0 || m.RiskScore > 1 {
			t.Fatalf("member %s has risk score %f outside [0,1]", m.ID, m.RiskScore)
		}
		if m.EstimatedDaysToChurn < 0 {
			t.Fatalf("member %s has negative churn horizon", m.ID)
		}
		if want := risk.Classify(m.EstimatedDaysToChurn); m.RiskCategory != want {
			t.Fatalf("member %s classified %s, want %s for %d days", m.ID, m.RiskCategory, want, m.EstimatedDaysToChurn)
		}
		if m.GroupID == "" || m.Segment == "" {
			t.Fatalf("member %s missing group or segment", m.ID)
		}
		buckets[m.RiskCategory]++
	}

	total := 0
	for _, c := range domain.RiskCategories {
		if buckets[c] < 0 {
			t.Fatalf("bucket %s negative", c)
		}
		total += buckets[c]
	}
	if total != 500 {
		t.Fatalf("risk buckets sum to %d, want 500", total)
	}
}

func TestGenerateRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{NumMembers: 10, Seed: 1}).Generate(ctx)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	g := New(Config{Seed: 7})
	if g.cfg.NumMembers != DefaultConfig().NumMembers {
		t.Fatalf("expected default member count, got %d", g.cfg.NumMembers)
	}
	if g.cfg.NumGroups != DefaultConfig().NumGroups {
		t.Fatalf("expected default group count, got %d", g.cfg.NumGroups)
	}
}
