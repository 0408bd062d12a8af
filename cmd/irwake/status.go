package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"irwake/internal/logger"
	"irwake/internal/service"

	"github.com/spf13/pflag"
)

func runStatus(args []string, out io.Writer) error {
	var flags commonFlags
	fs := pflag.NewFlagSet("irwake status", pflag.ContinueOnError)
	flags.add(fs)
	if err := fs.Parse(args); err != nil {
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

	sum, err := service.NewStatusService(repos.EventRepo).LastRun(context.Background())
	if err != nil {
		return fmt.Errorf("read last run: %w", err)
	}
	printSummary(out, sum)
	return nil
}

func printSummary(out io.Writer, sum service.RunSummary) {
	if sum.RunID == "" {
		fmt.Fprintln(out, "no runs journaled yet")
		return
	}
	fmt.Fprintf(out, "run:      %s\n", sum.RunID)
	fmt.Fprintf(out, "outcome:  %s\n", sum.Outcome)
	fmt.Fprintf(out, "started:  %s\n", sum.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "duration: %s\n", sum.FinishedAt.Sub(sum.StartedAt))
	fmt.Fprintf(out, "errors:   %d\n", sum.Errors)
	for _, ev := range sum.Events {
		fmt.Fprintf(out, "  %s  %-8s %s\n", ev.OccurredAt.Format("15:04:05.000"), ev.Type, ev.Description)
	}
}
