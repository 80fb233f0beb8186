package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/timeguardian/timeguardian/internal/config"
	"github.com/timeguardian/timeguardian/internal/database"
)

var (
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)

const appName = "timeguardian"

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Window visibility time tracker",
	Long: `timeguardian samples which windows are actually visible on screen and
for how much of their area, and records it over time.

Environment Variables:
  TIMEGUARDIAN_CONFIG          Config file path (default ~/.config/timeguardian/config.yaml)
  TIMEGUARDIAN_DB_PATH         Database file path
  TIMEGUARDIAN_POLL_INTERVAL   Poll interval in seconds (1-300)
  TIMEGUARDIAN_LAYERS          Comma separated layers to track (default all)
  TIMEGUARDIAN_MIN_VISIBLE     Minimum visible percent to record
  TIMEGUARDIAN_VISUALIZE       Write a visualization image every sample (true/false)
  TIMEGUARDIAN_CAPTURE         Track changed screen pixels (true/false)
  TIMEGUARDIAN_PID_FILE        PID file path`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("%s version %s\n", appName, version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig builds and validates the configuration
func loadConfig() (*config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openRepository connects to the database and ensures the schema exists
func openRepository(cfg *config.Config) (*database.DB, *database.Repository, error) {
	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Initialize(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return db, database.NewRepository(db), nil
}

// redirectLog sends log output to the daemon log file
func redirectLog(path string) func() {
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return func() {}
	}
	log.SetOutput(logFile)
	return func() { logFile.Close() }
}
