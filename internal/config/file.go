package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for YAML decoding. Pointer fields distinguish
// "unset" from zero values so the file only overrides what it names.
type fileConfig struct {
	Database struct {
		Path *string `yaml:"path"`
	} `yaml:"database"`
	Tracker struct {
		PollInterval      *time.Duration `yaml:"poll_interval"`
		Layers            []int          `yaml:"layers"`
		MinVisiblePercent *float64       `yaml:"min_visible_percent"`
	} `yaml:"tracker"`
	Visualization struct {
		Enabled *bool   `yaml:"enabled"`
		Path    *string `yaml:"path"`
	} `yaml:"visualization"`
	Capture struct {
		Enabled             *bool    `yaml:"enabled"`
		DiffThreshold       *int     `yaml:"diff_threshold"`
		MinChangedPixels    *int     `yaml:"min_changed_pixels"`
		SignificantFraction *float64 `yaml:"significant_fraction"`
	} `yaml:"capture"`
	Daemon struct {
		PIDFile *string `yaml:"pid_file"`
	} `yaml:"daemon"`
	Report struct {
		TimeZone *string `yaml:"timezone"`
	} `yaml:"report"`
	Web struct {
		Host *string `yaml:"host"`
		Port *int    `yaml:"port"`
	} `yaml:"web"`
}

// DefaultConfigPath returns $TIMEGUARDIAN_CONFIG or
// ~/.config/timeguardian/config.yaml
func DefaultConfigPath() (string, error) {
	if path := os.Getenv("TIMEGUARDIAN_CONFIG"); path != "" {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "timeguardian", "config.yaml"), nil
}

// LoadFromFile applies the YAML file at path on top of cfg. A missing file
// leaves cfg untouched.
func LoadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return apply(cfg, data, path)
}

func apply(cfg *Config, data []byte, path string) error {
	var raw fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	setString(&cfg.Database.Path, raw.Database.Path)

	if raw.Tracker.PollInterval != nil {
		cfg.Tracker.PollInterval = *raw.Tracker.PollInterval
	}
	if raw.Tracker.Layers != nil {
		cfg.Tracker.Layers = raw.Tracker.Layers
	}
	if raw.Tracker.MinVisiblePercent != nil {
		cfg.Tracker.MinVisiblePercent = *raw.Tracker.MinVisiblePercent
	}

	setBool(&cfg.Visualization.Enabled, raw.Visualization.Enabled)
	setString(&cfg.Visualization.Path, raw.Visualization.Path)

	setBool(&cfg.Capture.Enabled, raw.Capture.Enabled)
	if raw.Capture.DiffThreshold != nil {
		cfg.Capture.DiffThreshold = *raw.Capture.DiffThreshold
	}
	if raw.Capture.MinChangedPixels != nil {
		cfg.Capture.MinChangedPixels = *raw.Capture.MinChangedPixels
	}
	if raw.Capture.SignificantFraction != nil {
		cfg.Capture.SignificantFraction = *raw.Capture.SignificantFraction
	}

	setString(&cfg.Daemon.PIDFile, raw.Daemon.PIDFile)
	setString(&cfg.Report.TimeZone, raw.Report.TimeZone)

	setString(&cfg.Web.Host, raw.Web.Host)
	if raw.Web.Port != nil {
		cfg.Web.Port = *raw.Web.Port
	}

	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
