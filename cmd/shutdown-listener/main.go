package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"irwake/internal/config"
	"irwake/internal/logger"
	"irwake/internal/remote"

	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to config file (default: configs/config.yml)")
	addr := pflag.String("addr", "", "override listener.addr")
	dryRun := pflag.Bool("dry-run", false, "log matching datagrams without powering off")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Listener.Addr = *addr
	}

	log := logger.Get(logger.Options{Level: cfg.Log.Level})
	defer func() { _ = log.Close() }()

	var powerOff remote.PowerOff = remote.CommandPowerOff{Argv: cfg.Listener.PowerOff}
	if *dryRun {
		powerOff = dryRunPowerOff{log: log}
	}

	l, err := remote.Listen(cfg.Listener.Addr, cfg.Listener.Marker, powerOff, log)
	if err != nil {
		log.Errorw("failed to listen", "addr", cfg.Listener.Addr, "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infow("listening for shutdown datagrams", "addr", l.Addr().String(), "marker", cfg.Listener.Marker)
	if err := l.Serve(ctx); err != nil {
		log.Errorw("listener stopped", "err", err)
		os.Exit(1)
	}
	log.Infow("listener stopped")
}

type dryRunPowerOff struct{ log *logger.Logger }

func (d dryRunPowerOff) Run(context.Context) error {
	d.log.Infow("dry-run: skipping power-off")
	return nil
}
