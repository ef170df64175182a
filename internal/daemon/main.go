package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sempr/cph-go/internal/compare"
	"github.com/sempr/cph-go/internal/executor"
	"github.com/sempr/cph-go/internal/runner"
	"github.com/sempr/cph-go/pkg/models"
	"github.com/sevlyar/go-daemon"
)

// Main loads <home>/etc/cph.conf, daemonizes unless in debug mode and
// serves run requests until a stop signal arrives.
func Main(args *models.DaemonArgs) error {
	// Change to the working directory
	if err := os.Chdir(args.Home); err != nil {
		return fmt.Errorf("could not change to directory %s: %w", args.Home, err)
	}

	// Load configuration
	cfg, err := LoadConfig(filepath.Join("etc", "cph.conf"))
	if err != nil {
		return fmt.Errorf("error loading cph.conf: %w", err)
	}
	cfg.Home = args.Home
	cfg.Debug = args.Debug
	cfg.Once = args.Once

	mode, err := compare.ParseMode(cfg.Compare)
	if err != nil {
		return err
	}

	// Set up daemonization if not in debug mode
	if !cfg.Debug {
		if err := os.MkdirAll(filepath.Join(cfg.Home, "log"), 0755); err != nil {
			return fmt.Errorf("could not create log directory: %w", err)
		}
		cntxt := &daemon.Context{
			PidFileName: filepath.Join(cfg.Home, "etc", "cph.pid"),
			PidFilePerm: 0644,
			LogFileName: filepath.Join(cfg.Home, "log", "cph-daemon.out"),
			LogFilePerm: 0640,
			WorkDir:     cfg.Home,
			Umask:       027,
		}

		d, err := cntxt.Reborn()
		if err != nil {
			return fmt.Errorf("could not reborn as daemon: %w", err)
		}
		if d != nil {
			return nil // Parent process exits
		}
		defer cntxt.Release()
	}

	// Initialize logger
	if err := InitLogger(cfg); err != nil {
		return err
	}
	slog.Info("cph daemon started", "queue", cfg.Queue, "max_running", cfg.MaxRunning)

	// Lock file to ensure a single instance
	if err := Lock(filepath.Join(cfg.Home, "etc", "cph.lock")); err != nil {
		slog.Error("Daemon is already running", "err", err)
		return fmt.Errorf("daemon is already running: %w", err)
	}
	defer Unlock()

	// Create the job fetcher
	fetcher, err := NewFetcher(cfg)
	if err != nil {
		slog.Error("Could not create fetcher", "err", err)
		return fmt.Errorf("could not create fetcher: %w", err)
	}
	defer fetcher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := runner.New(executor.NewShell(), logNotifier{slog.Default()}, runner.Options{
		Timeout: cfg.Timeout,
		Compare: mode,
	})

	// Create and run the worker
	worker := NewWorker(cfg, fetcher, r)
	worker.Run(ctx)

	slog.Info("cph daemon stopped")
	return nil
}
