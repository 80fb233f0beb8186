package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/timeguardian/timeguardian/internal/config"
	"github.com/timeguardian/timeguardian/internal/daemon"
	"github.com/timeguardian/timeguardian/pkg/detector"
	"github.com/timeguardian/timeguardian/pkg/utils"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status and the latest sample",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if !running {
		fmt.Println("Status: Not running")
	} else {
		fmt.Printf("Status: Running (PID: %d)\n", pid)
		fmt.Printf("Poll Interval: %v\n", cfg.Tracker.PollInterval)
		fmt.Printf("Database: %s\n", cfg.Database.Path)
	}
	fmt.Printf("Display Server: %s\n", detector.DetectDisplayServer())

	db, repo, err := openRepository(cfg)
	if err != nil {
		fmt.Printf("\nCould not open database: %v\n", err)
		return nil
	}
	defer db.Close()

	latest, err := repo.GetLatestSamples()
	if err != nil || len(latest) == 0 {
		fmt.Println("\nNo samples recorded yet")
		return nil
	}

	age := time.Since(latest[0].Timestamp).Seconds()
	fmt.Printf("\nLatest Sample (%s ago):\n", utils.FormatRoundedUnit(age))
	for _, s := range latest {
		fmt.Printf("  %-24s %6.1f%%  %s\n", truncateName(s.AppName, 24), s.VisiblePercent, utils.Bar(s.VisiblePercent, 20))
	}

	// Errors of the last hour hint at enumeration trouble
	logs, err := repo.GetErrorLogsSince(time.Now().Add(-time.Hour))
	if err == nil && len(logs) > 0 {
		fmt.Printf("\nRecent Errors (%d in the last hour):\n", len(logs))
		fmt.Printf("  %s  [%s] %s\n", logs[0].Timestamp.Local().Format("15:04:05"), logs[0].Phase, logs[0].ErrorMsg)
	}

	return nil
}

func truncateName(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
