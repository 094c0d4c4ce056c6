// Package config loads optional YAML settings for the floralens binary.
// Environment variables (loaded via .env by the root command) still hold the
// API keys; the settings file covers provider selection, the identification
// timeout, and extra response noise patterns.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("timeout must be a duration string like \"30s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Settings is the floralens.yaml schema.
type Settings struct {
	Provider      string   `yaml:"provider"`
	Model         string   `yaml:"model"`
	Timeout       Duration `yaml:"timeout"`
	StripPatterns []string `yaml:"strip_patterns"`
	StaticDir     string   `yaml:"static_dir"`
}

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "floralens.yaml"

// Load reads settings from path. A missing file at the default path is not
// an error; everything then comes from flags and environment variables.
func Load(path string) (*Settings, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return &settings, nil
}
