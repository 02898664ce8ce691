package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/displaywake/displaywake/internal/config"
	"github.com/displaywake/displaywake/internal/database"
	"github.com/displaywake/displaywake/internal/logging"
	"github.com/displaywake/displaywake/internal/session"
	"github.com/displaywake/displaywake/internal/web"
	"github.com/displaywake/displaywake/pkg/probe"
)

// Daemon wires configuration, display probing, the wake journal and
// the broker session together.
type Daemon struct {
	Config  *config.Config
	log     *logrus.Entry
	pidFile *PIDFile
}

// New creates a daemon from the on-disk configuration.
func New() (*Daemon, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg), nil
}

// NewWithConfig creates a daemon from an already loaded config.
func NewWithConfig(cfg *config.Config) *Daemon {
	return &Daemon{
		Config:  cfg,
		log:     logging.NewLogger("daemon"),
		pidFile: NewPIDFile(PIDPath()),
	}
}

// PIDPath returns where the daemon records its process ID.
func PIDPath() string {
	return filepath.Join(config.Home(), "displaywake.pid")
}

// Run starts the daemon and blocks until an interrupt arrives or the
// context is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if err := logging.Trim(d.Config.Logging.File); err != nil {
		d.log.Warnf("Failed to trim log file: %v", err)
	}
	if err := logging.Configure(d.Config.Logging.Level, d.Config.Logging.File); err != nil {
		return err
	}

	if running, pid, err := d.pidFile.IsRunning(); err != nil {
		return err
	} else if running {
		return fmt.Errorf("daemon already running with PID %d", pid)
	}

	if err := d.pidFile.Write(); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	defer d.pidFile.Remove()

	sessionType := probe.DetectSessionType()
	p := probe.ForSession(sessionType)
	defer p.Close()

	if !p.IsAvailable() {
		d.log.Warnf("Display tools for %s session not fully available, actions may fail", sessionType)
	}

	// The wake journal is best effort. A broken database turns off
	// recording, never the daemon.
	var recorder session.Recorder
	var repo *database.Repository
	db, err := database.Connect("")
	if err == nil {
		err = db.Initialize()
	}
	if err != nil {
		d.log.Warnf("Wake journal disabled: %v", err)
	} else {
		defer db.Close()
		repo = database.NewRepository(db)
		recorder = repo
	}

	var webServer *web.Server
	if d.Config.Web.Enabled {
		if repo == nil {
			d.log.Warn("Status API disabled: wake journal unavailable")
		} else {
			webServer = web.NewServer(d.Config, repo)
			go func() {
				if err := webServer.Start(); err != nil {
					d.log.Errorf("Status API failed: %v", err)
				}
			}()
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		sig := <-sigCh
		d.log.Infof("Received signal %s, shutting down", sig)
		cancel()
	}()

	d.log.Infof("Starting displaywake for room %q (session type %s)", d.Config.Wake.Room, sessionType)
	d.log.Debug(d.Config.String())

	runErr := session.New(d.Config, p, recorder).Run(ctx)

	if webServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := webServer.Shutdown(shutdownCtx); err != nil {
			d.log.Warnf("Status API shutdown: %v", err)
		}
		shutdownCancel()
	}

	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}
