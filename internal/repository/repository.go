package repository

import (
	"context"
	"database/sql"
	"time"

	"irwake/internal/models"
)

// EventRepo is the append-only bridge journal.
type EventRepo interface {
	Append(ctx context.Context, e models.BridgeEvent) error
	List(ctx context.Context, from, to time.Time, typ, runID string) ([]models.BridgeEvent, error)
	LastRun(ctx context.Context) ([]models.BridgeEvent, error)
}

type Repository struct {
	EventRepo EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		EventRepo: NewEventSQLite(db),
	}
}

// NewDisabled returns a repository whose journal drops every event.
func NewDisabled() *Repository {
	return &Repository{EventRepo: NopEventRepo{}}
}

// NopEventRepo is used when the journal is disabled.
type NopEventRepo struct{}

func (NopEventRepo) Append(context.Context, models.BridgeEvent) error { return nil }

func (NopEventRepo) List(context.Context, time.Time, time.Time, string, string) ([]models.BridgeEvent, error) {
	return nil, nil
}

func (NopEventRepo) LastRun(context.Context) ([]models.BridgeEvent, error) { return nil, nil }
