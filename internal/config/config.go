package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ServerConfig controls the local HTTP service.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SuggestConfig holds suggestion pipeline parameters.
type SuggestConfig struct {
	TopK                int     `yaml:"top_k"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	MaxSuggestions      int     `yaml:"max_suggestions"`
	MaxRecentCommands   int     `yaml:"max_recent_commands"`
	FileTypesLimit      int     `yaml:"file_types_limit"`
	SafetyCheck         bool    `yaml:"safety_check"`
}

// IndexConfig controls where and how the vector index is built.
type IndexConfig struct {
	Dir       string `yaml:"dir"`
	BatchSize int    `yaml:"batch_size"`
	Workers   int    `yaml:"workers"`
}

// FixesConfig controls the error pattern store.
type FixesConfig struct {
	PatternsPath string `yaml:"patterns_path"`
	Watch        bool   `yaml:"watch"`
}

// Config is the in-memory representation of ~/.shellsage/config.yaml.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Suggest SuggestConfig `yaml:"suggest"`
	Index   IndexConfig   `yaml:"index"`
	Fixes   FixesConfig   `yaml:"fixes"`
}

// DataDir returns the absolute path to ~/.shellsage/.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".shellsage"), nil
}

// ConfigPath returns the absolute path to ~/.shellsage/config.yaml.
func ConfigPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the default Config written on first shellsage init.
func DefaultConfig() (*Config, error) {
	dir, err := DataDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 8765},
		Suggest: SuggestConfig{
			TopK:              10,
			MaxSuggestions:    5,
			MaxRecentCommands: 10,
			FileTypesLimit:    20,
			SafetyCheck:       true,
		},
		Index: IndexConfig{
			Dir:       filepath.Join(dir, "index"),
			BatchSize: 32,
			Workers:   4,
		},
		Fixes: FixesConfig{
			PatternsPath: filepath.Join(dir, "patterns.json"),
		},
	}, nil
}

// Load reads and parses ~/.shellsage/config.yaml, then applies environment
// overrides. Keys missing from the file keep their default values.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	// Expand ~ in paths at load time.
	if cfg.Index.Dir, err = ExpandPath(cfg.Index.Dir); err != nil {
		return nil, err
	}
	if cfg.Fixes.PatternsPath, err = ExpandPath(cfg.Fixes.PatternsPath); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save marshals cfg and writes it to ~/.shellsage/config.yaml.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with SHELLSAGE_* values from the environment or
// ~/.shellsage/.env.
func ApplyEnv(cfg *Config) error {
	overrides := []struct {
		key string
		set func(string) error
	}{
		{"SHELLSAGE_API_HOST", func(v string) error { cfg.Server.Host = v; return nil }},
		{"SHELLSAGE_API_PORT", intSetter(&cfg.Server.Port)},
		{"SHELLSAGE_TOP_K_CANDIDATES", intSetter(&cfg.Suggest.TopK)},
		{"SHELLSAGE_SIMILARITY_THRESHOLD", floatSetter(&cfg.Suggest.SimilarityThreshold)},
		{"SHELLSAGE_MAX_SUGGESTIONS", intSetter(&cfg.Suggest.MaxSuggestions)},
		{"SHELLSAGE_MAX_RECENT_COMMANDS", intSetter(&cfg.Suggest.MaxRecentCommands)},
		{"SHELLSAGE_CONTEXT_FILE_TYPES_LIMIT", intSetter(&cfg.Suggest.FileTypesLimit)},
		{"SHELLSAGE_ENABLE_SAFETY_CHECK", func(v string) error {
			cfg.Suggest.SafetyCheck = strings.EqualFold(v, "true")
			return nil
		}},
		{"SHELLSAGE_INDEX_DIR", func(v string) error { cfg.Index.Dir = v; return nil }},
		{"SHELLSAGE_PATTERNS_PATH", func(v string) error { cfg.Fixes.PatternsPath = v; return nil }},
	}
	for _, o := range overrides {
		v, err := GetConfigValue(o.key)
		if err != nil {
			return err
		}
		if v == "" {
			continue
		}
		if err := o.set(v); err != nil {
			return fmt.Errorf("invalid %s %q: %w", o.key, v, err)
		}
	}
	return nil
}

func intSetter(dst *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

func floatSetter(dst *float64) func(string) error {
	return func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*dst = f
		return nil
	}
}
