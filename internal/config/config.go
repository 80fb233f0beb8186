package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Tracker configuration
	Tracker TrackerConfig

	// Visualization configuration
	Visualization VisualizationConfig

	// Screen capture configuration
	Capture CaptureConfig

	// Daemon configuration
	Daemon DaemonConfig

	// Report configuration
	Report ReportConfig

	// Web server configuration
	Web WebConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string // Path to SQLite database file
}

// TrackerConfig holds sampling behavior configuration
type TrackerConfig struct {
	PollInterval      time.Duration // How often to sample window visibility
	MinPollInterval   time.Duration // Minimum allowed poll interval
	MaxPollInterval   time.Duration // Maximum allowed poll interval
	Layers            []int         // Layers to include; empty means all
	MinVisiblePercent float64       // Samples below this are not stored
}

// VisualizationConfig controls the debug image written on every sample
type VisualizationConfig struct {
	Enabled bool
	Path    string
}

// MaxDiffThreshold is the largest summed RGB difference between two pixels
const MaxDiffThreshold = 3 * 255

// CaptureConfig controls screen-content change tracking
type CaptureConfig struct {
	Enabled             bool
	DiffThreshold       int     // Summed RGB difference above which a pixel counts as changed
	MinChangedPixels    int     // Changed pixels needed before a window counts as active
	SignificantFraction float64 // Fraction of changed pixels that marks a frame as different
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string // Path to PID file for daemon management
}

// ReportConfig holds report generation configuration
type ReportConfig struct {
	TimeZone string
}

// WebConfig holds web server configuration
type WebConfig struct {
	Host string // Host to bind web server to
	Port int    // Port for web server
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "", // Empty means use default ~/.config/timeguardian/timeguardian.db
		},
		Tracker: TrackerConfig{
			PollInterval:      5 * time.Second,
			MinPollInterval:   1 * time.Second,
			MaxPollInterval:   300 * time.Second,
			MinVisiblePercent: 1,
		},
		Visualization: VisualizationConfig{
			Path: fmt.Sprintf("/tmp/timeguardian-%d.png", os.Getuid()),
		},
		Capture: CaptureConfig{
			DiffThreshold:       50,
			MinChangedPixels:    1000,
			SignificantFraction: 0.001,
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/timeguardian-%d.pid", os.Getuid()),
		},
		Report: ReportConfig{
			TimeZone: "Local",
		},
		Web: WebConfig{
			Host: "localhost",
			Port: 10000 + os.Getuid(), // Default port based on user ID
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate tracker intervals
	if c.Tracker.PollInterval < c.Tracker.MinPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be less than minimum (%v)",
			c.Tracker.PollInterval, c.Tracker.MinPollInterval)
	}

	if c.Tracker.PollInterval > c.Tracker.MaxPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be greater than maximum (%v)",
			c.Tracker.PollInterval, c.Tracker.MaxPollInterval)
	}

	if c.Tracker.MinVisiblePercent < 0 || c.Tracker.MinVisiblePercent > 100 {
		return fmt.Errorf("minimum visible percent must be between 0 and 100, got %v", c.Tracker.MinVisiblePercent)
	}

	if c.Visualization.Enabled && c.Visualization.Path == "" {
		return fmt.Errorf("visualization path cannot be empty when visualization is enabled")
	}

	if c.Capture.DiffThreshold < 0 || c.Capture.DiffThreshold > MaxDiffThreshold {
		return fmt.Errorf("diff threshold must be between 0 and %d, got %d", MaxDiffThreshold, c.Capture.DiffThreshold)
	}

	if c.Capture.MinChangedPixels < 0 {
		return fmt.Errorf("minimum changed pixels cannot be negative")
	}

	if c.Capture.SignificantFraction < 0 || c.Capture.SignificantFraction > 1 {
		return fmt.Errorf("significant fraction must be between 0 and 1, got %v", c.Capture.SignificantFraction)
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid time zone %q: %w", c.Report.TimeZone, err)
	}

	// Validate web config
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}

	if c.Web.Host == "" {
		return fmt.Errorf("web host cannot be empty")
	}

	// Validate daemon config
	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	return nil
}

// SetPollInterval sets the poll interval with validation
func (c *Config) SetPollInterval(interval time.Duration) error {
	if interval < c.Tracker.MinPollInterval {
		return fmt.Errorf("poll interval cannot be less than %v", c.Tracker.MinPollInterval)
	}
	if interval > c.Tracker.MaxPollInterval {
		return fmt.Errorf("poll interval cannot be greater than %v", c.Tracker.MaxPollInterval)
	}
	c.Tracker.PollInterval = interval
	return nil
}

// SetWebPort sets the web server port with validation
func (c *Config) SetWebPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	c.Web.Port = port
	return nil
}

// Location resolves the report time zone
func (c *Config) Location() (*time.Location, error) {
	if c.Report.TimeZone == "" || c.Report.TimeZone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Report.TimeZone)
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Database:
    Path: %s
  Tracker:
    Poll Interval: %v
    Min Interval: %v
    Max Interval: %v
    Layers: %v
    Min Visible: %.1f%%
  Visualization:
    Enabled: %v
    Path: %s
  Capture:
    Enabled: %v
    Diff Threshold: %d
    Min Changed Pixels: %d
  Daemon:
    PID File: %s
  Report:
    Time Zone: %s
  Web:
    Host: %s
    Port: %d`,
		c.Database.Path,
		c.Tracker.PollInterval,
		c.Tracker.MinPollInterval,
		c.Tracker.MaxPollInterval,
		c.Tracker.Layers,
		c.Tracker.MinVisiblePercent,
		c.Visualization.Enabled,
		c.Visualization.Path,
		c.Capture.Enabled,
		c.Capture.DiffThreshold,
		c.Capture.MinChangedPixels,
		c.Daemon.PIDFile,
		c.Report.TimeZone,
		c.Web.Host,
		c.Web.Port,
	)
}
