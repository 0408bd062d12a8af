package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"irwake/internal/clock"
	"irwake/internal/config"
	"irwake/internal/discovery"
	"irwake/internal/input"
	"irwake/internal/logger"
	"irwake/internal/metrics"
	"irwake/internal/netctl"
	"irwake/internal/probe"
	"irwake/internal/repository"
	"irwake/internal/repository/db"
	"irwake/internal/serialctl"
	"irwake/internal/service"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run dispatches to "run" (default), "history" or "status".
func run(args []string) error {
	cmd := "run"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}
	switch cmd {
	case "run":
		return runBridge(args)
	case "history":
		return runHistory(args, os.Stdout)
	case "status":
		return runStatus(args, os.Stdout)
	default:
		return fmt.Errorf("unknown command %q (want run, history or status)", cmd)
	}
}

type commonFlags struct {
	configPath string
	logLevel   string
}

func (c *commonFlags) add(fs *pflag.FlagSet) {
	fs.StringVarP(&c.configPath, "config", "c", "", "path to config file (default: configs/config.yml)")
	fs.StringVar(&c.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
}

// load reads the config and applies flag overrides.
func (c *commonFlags) load() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	return cfg, nil
}

func runBridge(args []string) error {
	var flags commonFlags
	fs := pflag.NewFlagSet("irwake run", pflag.ContinueOnError)
	flags.add(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := flags.load()
	if err != nil {
		return fmt.Errorf("error reading config: %w", err)
	}

	// init logger
	log := logger.Get(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	defer func() { _ = log.Close() }()

	// resolve devices, falling back to static paths
	inputs := discovery.NewInputResolver(log)
	serials := discovery.NewSerialResolver(log)
	devicePath := inputs.Resolve(cfg.Input.Keyword, cfg.Input.DefaultPath)
	projectorPort := serials.Resolve(cfg.Projector.Keyword, cfg.Projector.DefaultPort)
	buzzerPort := serials.Resolve(cfg.Buzzer.Keyword, cfg.Buzzer.DefaultPort)

	listener, err := input.Open(devicePath, log)
	if err != nil {
		log.Errorw("cannot open input device; exiting", "path", devicePath, "err", err)
		return err
	}
	defer func() { _ = listener.Close() }()

	repos, closeJournal, err := openJournal(cfg.Journal, log)
	if err != nil {
		log.Errorw("failed to open journal", "err", err)
		return err
	}
	defer closeJournal()

	// wire dependencies
	prober, err := probe.New(cfg.Probe, log)
	if err != nil {
		return err
	}
	signaler, err := netctl.NewSignaler(cfg.Remote, &net.Dialer{}, log)
	if err != nil {
		return err
	}
	clk := clock.Real()
	services := service.NewService(repos, service.NewOrchestratorConfig(cfg), service.Deps{
		Prober:    prober,
		Network:   signaler,
		Projector: serialctl.NewProjector(projectorPort, cfg.Projector, serialctl.OpenPort, clk, log),
		Buzzer:    serialctl.NewBuzzer(buzzerPort, serialctl.OpenPort, clk, log),
		Metrics:   metrics.New(cfg.Metrics.Textfile),
		Clock:     clk,
		Log:       log,
	})

	// closing the device unblocks the pending read on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	stopClose := context.AfterFunc(ctx, func() {
		log.Infow("shutting down bridge...")
		_ = listener.Close()
	})
	defer stopClose()

	if err := services.Orchestrator.Run(ctx, listener); err != nil {
		log.Errorw("event loop stopped", "err", err)
		return err
	}
	return nil
}

// openJournal opens the SQLite journal, or a no-op one when disabled.
func openJournal(cfg config.Journal, log *logger.Logger) (*repository.Repository, func(), error) {
	if !cfg.Enabled {
		log.Infow("journal disabled")
		return repository.NewDisabled(), func() {}, nil
	}
	conn, err := db.InitDB(cfg.Path)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewRepository(conn), func() { closeDB(conn, log) }, nil
}

func closeDB(conn *sql.DB, log *logger.Logger) {
	if err := conn.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}
