package service

import (
	"context"
	"time"

	"irwake/internal/models"
	"irwake/internal/repository"
)

type StatusService struct {
	eventRepo repository.EventRepo
}

func NewStatusService(eventRepo repository.EventRepo) *StatusService {
	return &StatusService{eventRepo: eventRepo}
}

// LastRun summarizes the most recent journaled run.
// If nothing is journaled yet, returns an idle baseline summary.
func (s *StatusService) LastRun(ctx context.Context) (RunSummary, error) {
	events, err := s.eventRepo.LastRun(ctx)
	if err != nil {
		return RunSummary{}, err
	}
	if len(events) == 0 {
		return s.baselineSummary(), nil
	}
	return summarize(events), nil
}

// baselineSummary is reported before the first trigger.
func (s *StatusService) baselineSummary() RunSummary {
	return RunSummary{Outcome: OutcomeNameIdle}
}

// summarize derives the outcome from the sequence-specific events.
// A run that probed but never reached a sequence step is incomplete.
func summarize(events []models.BridgeEvent) RunSummary {
	sum := RunSummary{
		RunID:      events[0].RunID,
		Outcome:    OutcomeNameIncomplete,
		StartedAt:  toUTC(events[0].OccurredAt),
		FinishedAt: toUTC(events[len(events)-1].OccurredAt),
		Events:     events,
	}
	for _, ev := range events {
		switch ev.Type {
		case models.EventShutdown:
			sum.Outcome = OutcomeNameShutdown
		case models.EventWake:
			sum.Outcome = OutcomeNameWake
		case models.EventProbe:
			if sum.Outcome == OutcomeNameIncomplete {
				sum.Outcome = outcomeFromProbe(ev)
			}
		case models.EventError:
			sum.Errors++
		}
	}
	return sum
}

// outcomeFromProbe covers runs whose network step failed: the probe result
// still tells which branch was taken.
func outcomeFromProbe(ev models.BridgeEvent) string {
	meta, ok := ev.Metadata.(map[string]any)
	if !ok {
		return OutcomeNameIncomplete
	}
	alive, ok := meta["alive"].(bool)
	if !ok {
		return OutcomeNameIncomplete
	}
	if alive {
		return OutcomeNameShutdown
	}
	return OutcomeNameWake
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
