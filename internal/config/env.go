package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFromEnv loads configuration from environment variables
// Environment variables override default values
func LoadFromEnv(cfg *Config) {
	// Database configuration
	if dbPath := os.Getenv("TIMEGUARDIAN_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	// Tracker configuration
	if pollInterval := os.Getenv("TIMEGUARDIAN_POLL_INTERVAL"); pollInterval != "" {
		if seconds, err := strconv.Atoi(pollInterval); err == nil && seconds > 0 {
			interval := time.Duration(seconds) * time.Second
			if interval >= cfg.Tracker.MinPollInterval && interval <= cfg.Tracker.MaxPollInterval {
				cfg.Tracker.PollInterval = interval
			}
		}
	}

	if layers := os.Getenv("TIMEGUARDIAN_LAYERS"); layers != "" {
		if parsed, err := ParseLayers(layers); err == nil {
			cfg.Tracker.Layers = parsed
		}
	}

	if minVisible := os.Getenv("TIMEGUARDIAN_MIN_VISIBLE"); minVisible != "" {
		if val, err := strconv.ParseFloat(minVisible, 64); err == nil && val >= 0 && val <= 100 {
			cfg.Tracker.MinVisiblePercent = val
		}
	}

	// Visualization configuration
	if visualize := os.Getenv("TIMEGUARDIAN_VISUALIZE"); visualize != "" {
		if val, err := strconv.ParseBool(visualize); err == nil {
			cfg.Visualization.Enabled = val
		}
	}

	if path := os.Getenv("TIMEGUARDIAN_VISUALIZE_PATH"); path != "" {
		cfg.Visualization.Path = path
	}

	// Capture configuration
	if capture := os.Getenv("TIMEGUARDIAN_CAPTURE"); capture != "" {
		if val, err := strconv.ParseBool(capture); err == nil {
			cfg.Capture.Enabled = val
		}
	}

	if threshold := os.Getenv("TIMEGUARDIAN_DIFF_THRESHOLD"); threshold != "" {
		if val, err := strconv.Atoi(threshold); err == nil && val >= 0 && val <= MaxDiffThreshold {
			cfg.Capture.DiffThreshold = val
		}
	}

	// Daemon configuration
	if pidFile := os.Getenv("TIMEGUARDIAN_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	// Report configuration
	if timeZone := os.Getenv("TIMEGUARDIAN_TIMEZONE"); timeZone != "" {
		cfg.Report.TimeZone = timeZone
	}

	// Web configuration
	if webHost := os.Getenv("TIMEGUARDIAN_WEB_HOST"); webHost != "" {
		cfg.Web.Host = webHost
	}

	if webPort := os.Getenv("TIMEGUARDIAN_WEB_PORT"); webPort != "" {
		if port, err := strconv.Atoi(webPort); err == nil && port > 0 && port <= 65535 {
			cfg.Web.Port = port
		}
	}
}

// ParseLayers parses a comma separated list of layer numbers
func ParseLayers(s string) ([]int, error) {
	var layers []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		layer, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}
	return layers, nil
}

// New creates a new Config from defaults, the config file and the
// environment, in that order of precedence
func New() (*Config, error) {
	cfg := Default()

	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	if err := LoadFromFile(cfg, path); err != nil {
		return nil, err
	}

	LoadFromEnv(cfg)
	return cfg, nil
}
