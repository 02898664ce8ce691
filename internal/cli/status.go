package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/displaywake/displaywake/internal/config"
	"github.com/displaywake/displaywake/internal/daemon"
	"github.com/displaywake/displaywake/internal/logging"
	"github.com/displaywake/displaywake/pkg/display"
	"github.com/displaywake/displaywake/pkg/probe"
	"github.com/displaywake/displaywake/pkg/utils"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon state and current display readings",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	pf := daemon.NewPIDFile(daemon.PIDPath())
	running, pid, err := pf.IsRunning()
	if err != nil {
		return err
	}

	if running {
		fmt.Printf("Daemon: running (PID %d)\n", pid)
	} else {
		fmt.Println("Daemon: not running")
	}

	if !config.Exists() {
		fmt.Println("Config: none (run: displaywake setup)")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("Config: %s\n", config.Path())
	fmt.Printf("Broker: %s:%d\n", cfg.Broker.Host, cfg.Broker.Port)
	fmt.Printf("Topic: %s\n", cfg.Topic())

	sessionType := probe.DetectSessionType()
	p := probe.ForSession(sessionType)
	defer p.Close()

	fmt.Printf("Session: %s\n", sessionType)
	if !p.IsAvailable() {
		fmt.Println("Display tools: missing")
		return nil
	}

	state := display.Observe(context.Background(), p, logging.NewLogger("status"))
	fmt.Printf("Idle: %s\n", utils.FormatIdle(state.IdleSeconds))
	fmt.Printf("Screen off: %v\n", state.ScreenOff)

	return nil
}
