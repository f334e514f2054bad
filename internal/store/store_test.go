package store

import (
	"testing"

	"github.com/amtamaddon/analytics.simlane.ai/internal/domain"
)

func TestReplaceAndLookup(t *testing.T) {
	s := NewMemberStore()
	if s.Len() != 0 {
		t.Fatalf("new store should be empty, got %d", s.Len())
	}
	if !s.ReplacedAt().IsZero() {
		t.Fatal("new store should report zero replacement time")
	}

	s.Replace([]domain.Member{
		{ID: "M0001", GroupID: "G1"},
		{ID: "M0002", GroupID: "G2"},
	})

	if s.Len() != 2 {
		t.Fatalf("expected 2 members, got %d", s.Len())
	}
	m, ok := s.Get("M0002")
	if !ok || m.GroupID != "G2" {
		t.Fatalf("lookup failed: %+v ok=%v", m, ok)
	}
	if _, ok := s.Get("M9999"); ok {
		t.Fatal("unknown member should not resolve")
	}
	if s.ReplacedAt().IsZero() {
		t.Fatal("replacement time not recorded")
	}
}

func TestReplaceIsWholesale(t *testing.T) {
	s := NewMemberStore()
	s.Replace([]domain.Member{{ID: "M0001"}, {ID: "M0002"}})
	s.Replace([]domain.Member{{ID: "M0003"}})

	if s.Len() != 1 {
		t.Fatalf("replacement should discard the old table, got %d members", s.Len())
	}
	if _, ok := s.Get("M0001"); ok {
		t.Fatal("old record survived replacement")
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := NewMemberStore()
	s.Replace([]domain.Member{{ID: "M0001", GroupID: "G1"}})

	snap := s.Snapshot()
	snap[0].GroupID = "G9"

	m, _ := s.Get("M0001")
	if m.GroupID != "G1" {
		t.Fatal("mutating a snapshot leaked into the store")
	}
}
