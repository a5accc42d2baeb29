// Package config loads the pipeline configuration file.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the pipeline configuration. Paths are resolved relative to the
// config file's directory.
type Config struct {
	// Input workbooks.
	Questionnaire string `yaml:"questionnaire"`
	GameLog       string `yaml:"game_log"`

	// Session dates mapped to class names (yyyy-mm-dd keys). Game log rows
	// whose date is not listed here are dropped with a warning.
	DateClasses map[string]string `yaml:"date_classes"`

	// OutDir receives the exported workbooks and JSON tables.
	OutDir string `yaml:"out_dir"`

	// Optional overrides; built-in defaults apply when empty.
	Rules     string `yaml:"rules,omitempty"`
	Knowledge string `yaml:"knowledge,omitempty"`
	AnswerKey string `yaml:"answer_key,omitempty"`
	DB        string `yaml:"db,omitempty"`
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Questionnaire == "" {
		return nil, fmt.Errorf("config %s: questionnaire path is required", path)
	}
	if cfg.GameLog == "" {
		return nil, fmt.Errorf("config %s: game_log path is required", path)
	}
	if len(cfg.DateClasses) == 0 {
		return nil, fmt.Errorf("config %s: date_classes must not be empty", path)
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "out"
	}

	base := filepath.Dir(path)
	for _, p := range []*string{&cfg.Questionnaire, &cfg.GameLog, &cfg.OutDir, &cfg.Rules, &cfg.Knowledge, &cfg.AnswerKey, &cfg.DB} {
		*p = resolve(base, *p)
	}
	return &cfg, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
