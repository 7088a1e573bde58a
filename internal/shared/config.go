package shared

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/alsdiag/alsdiag/internal/rules"
)

// Config is the application-level configuration: where history lives, how
// to log, how wide the scan pool runs, and the rules thresholds. Sources
// are layered defaults, then an optional YAML file, then ALSDIAG_*
// environment variables.
type Config struct {
	DBPath    string       `yaml:"db_path"`
	LogLevel  string       `yaml:"log_level"`
	LogFormat string       `yaml:"log_format"`
	Workers   int          `yaml:"workers"`
	Rules     rules.Config `yaml:"rules"`
}

func DefaultConfig() Config {
	return Config{
		DBPath:    defaultDBPath(),
		LogLevel:  "info",
		LogFormat: "text",
		Workers:   0, // 0 means auto-size from CPU count
		Rules:     rules.DefaultConfig(),
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "alsdiag.db"
	}
	return filepath.Join(home, ".alsdiag", "history.db")
}

// LoadConfig builds the effective configuration. A missing file is fine; a
// present but unparsable one is an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("ALSDIAG_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("ALSDIAG_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ALSDIAG_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("ALSDIAG_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("ALSDIAG_WORKERS: %w", err)
		}
		cfg.Workers = n
	}
	return cfg, nil
}
