// Package project implements the questline authoring-tool layer: project
// scaffolding, configuration, and whole-project validation.
package project

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

// ConfigFile is the project configuration file name.
const ConfigFile = "questline.yaml"

// Config describes a questline project. Values come from questline.yaml,
// with QUESTLINE_* environment variables layered on top.
type Config struct {
	// Name of the project, informational.
	Name string `yaml:"name" env:"QUESTLINE_NAME"`
	// Entry is the main quest file, relative to the project root.
	Entry string `yaml:"entry" env:"QUESTLINE_ENTRY"`
	// Dirs are the directories scanned for .quest files.
	Dirs []string `yaml:"dirs" env:"QUESTLINE_DIRS" envSeparator:":"`
	// MaxPaths bounds path enumeration in the paths command; zero means
	// unbounded.
	MaxPaths int `yaml:"max_paths" env:"QUESTLINE_MAX_PATHS"`
}

// DefaultConfig is used when no questline.yaml exists.
func DefaultConfig() Config {
	return Config{
		Entry: "main.quest",
		Dirs:  []string{".", "modules"},
	}
}

// LoadConfig reads questline.yaml from dir, falling back to defaults when
// the file is absent, then applies environment overrides.
func LoadConfig(dir string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(joinPath(dir, ConfigFile))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", ConfigFile, err)
		}
	case os.IsNotExist(err):
		// defaults apply
	default:
		return cfg, err
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("reading environment overrides: %w", err)
	}
	if len(cfg.Dirs) == 0 {
		cfg.Dirs = DefaultConfig().Dirs
	}
	return cfg, nil
}
