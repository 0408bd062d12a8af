package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"irwake/internal/models"
	"irwake/internal/repository"
)

var (
	errInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	errUnknownEventType = errors.New("unknown event type")
)

var journalTypes = map[string]struct{}{
	models.EventKey:      {},
	models.EventTrigger:  {},
	models.EventProbe:    {},
	models.EventShutdown: {},
	models.EventWake:     {},
	models.EventSerial:   {},
	models.EventBuzzer:   {},
	models.EventError:    {},
}

// HistoryService reads the bridge journal for `irwake history`.
type HistoryService struct {
	eventRepo repository.EventRepo
}

func NewHistoryService(eventRepo repository.EventRepo) *HistoryService {
	return &HistoryService{eventRepo: eventRepo}
}

// List returns the journaled events matching f, oldest first.
func (s *HistoryService) List(ctx context.Context, f LogFilter) ([]models.BridgeEvent, error) {
	q, err := f.canonical()
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, q.From, q.To, q.Type, q.RunID)
}

// canonical puts the bounds in UTC, the type in upper case and trims the
// run ID. Unknown types are rejected rather than silently matching nothing.
func (f LogFilter) canonical() (LogFilter, error) {
	q := LogFilter{
		From:  toUTC(f.From),
		To:    toUTC(f.To),
		Type:  strings.ToUpper(strings.TrimSpace(f.Type)),
		RunID: strings.TrimSpace(f.RunID),
	}
	if q.Type != "" {
		if _, ok := journalTypes[q.Type]; !ok {
			return LogFilter{}, fmt.Errorf("%w %q", errUnknownEventType, f.Type)
		}
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To) {
		return LogFilter{}, errInvalidTimeRange
	}
	return q, nil
}
