package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"irwake/internal/logger"
	"irwake/internal/service"

	"github.com/spf13/pflag"
)

const (
	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

func runHistory(args []string, out io.Writer) error {
	var (
		flags            commonFlags
		fromStr, toStr   string
		eventType, runID string
		asJSON           bool
	)
	fs := pflag.NewFlagSet("irwake history", pflag.ContinueOnError)
	flags.add(fs)
	fs.StringVar(&fromStr, "from", "", "start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD')")
	fs.StringVar(&toStr, "to", "", "end of range; a date-only value means end of that day")
	fs.StringVar(&eventType, "type", "", "event type (KEY, TRIGGER, PROBE, SHUTDOWN, WAKE, SERIAL, BUZZER, ERROR)")
	fs.StringVar(&runID, "run", "", "only events of this run")
	fs.BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter, err := buildFilter(fromStr, toStr, eventType, runID)
	if err != nil {
		return err
	}

	cfg, err := flags.load()
	if err != nil {
		return err
	}
	repos, closeJournal, err := openJournal(cfg.Journal, logger.NewNop())
	if err != nil {
		return err
	}
	defer closeJournal()

	events, err := service.NewHistoryService(repos.EventRepo).List(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("list journal: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"count": len(events), "events": events})
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tRUN\tTYPE\tDESCRIPTION")
	for _, ev := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ev.OccurredAt.Format(time.RFC3339), shortID(ev.RunID), ev.Type, ev.Description)
	}
	return tw.Flush()
}

// buildFilter parses the time flags. A date-only --to covers the whole day.
func buildFilter(fromStr, toStr, eventType, runID string) (service.LogFilter, error) {
	var (
		from, to time.Time
		err      error
	)
	if fromStr != "" {
		if from, err = parseQueryTime(fromStr); err != nil {
			return service.LogFilter{}, fmt.Errorf("invalid --from: %w", err)
		}
	}
	if toStr != "" {
		if to, err = parseQueryTime(toStr); err != nil {
			return service.LogFilter{}, fmt.Errorf("invalid --to: %w", err)
		}
		if isDateOnly(toStr) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return service.LogFilter{}, fmt.Errorf("--from must be <= --to")
	}
	return service.LogFilter{
		From:  from,
		To:    to,
		Type:  strings.ToUpper(strings.TrimSpace(eventType)),
		RunID: runID,
	}, nil
}

// isDateOnly reports whether the string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}

func shortID(id string) string {
	if id == "" {
		return "-"
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
