package server

import (
	"context"
	"errors"

	"github.com/amtamaddon/analytics.simlane.ai/internal/store"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// StoreHealthService reports degraded until a member table has been loaded.
type StoreHealthService struct {
	Store *store.MemberStore
}

// Probe implements the HealthService interface.
func (s StoreHealthService) Probe(_ context.Context) error {
	if s.Store == nil {
		return errors.New("member store not configured")
	}
	if s.Store.Len() == 0 {
		return errors.New("member table is empty")
	}
	return nil
}
