package service

import (
	"context"

	"github.com/beismanmaps/server/internal/domain/record"
	"github.com/beismanmaps/server/internal/domain/session"
)

// Stats is a point-in-time snapshot for the admin dashboard.
type Stats struct {
	ActiveSessions int `json:"active_sessions"`
	Maps           int `json:"maps"`
	Entities       int `json:"entities"`
}

// StatsService aggregates counts across the session store and the database.
type StatsService struct {
	sessions *session.Manager
	maps     record.MapStore
	entities record.EntityStore
}

// NewStatsService creates a StatsService.
func NewStatsService(sessions *session.Manager, maps record.MapStore, entities record.EntityStore) *StatsService {
	return &StatsService{
		sessions: sessions,
		maps:     maps,
		entities: entities,
	}
}

// Snapshot returns current counts. The session count sweeps expired records
// first, so it never includes stale entries.
func (s *StatsService) Snapshot(ctx context.Context) (*Stats, error) {
	active, err := s.sessions.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	maps, err := s.maps.CountMaps(ctx)
	if err != nil {
		return nil, err
	}
	entities, err := s.entities.CountEntities(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		ActiveSessions: active,
		Maps:           maps,
		Entities:       entities,
	}, nil
}
