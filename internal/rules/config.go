package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the tunable thresholds of the rules engine. All thresholds
// have defaults matching common mixing practice; a YAML file can override
// any subset.
type Config struct {
	// Fraction of disabled devices that makes a track or project
	// cluttered, and the higher fraction that escalates the finding.
	DisabledRatio       float64 `yaml:"disabled_ratio"`
	DisabledRatioSevere float64 `yaml:"disabled_ratio_severe"`

	// Same-category devices on one track before flagging duplicates.
	DuplicateThreshold int `yaml:"duplicate_threshold"`

	// Compression ratio treated as effectively infinite.
	MaxCompRatio float64 `yaml:"max_comp_ratio"`

	// Absolute device gain in dB treated as a mistake.
	MaxGainDB float64 `yaml:"max_gain_db"`

	// Volume outlier detection: z-score cutoff, absolute dB cutoff, and
	// the minimum track population for the statistics to mean anything.
	GainZScore       float64 `yaml:"gain_zscore"`
	GainFixedDB      float64 `yaml:"gain_fixed_db"`
	MinTracksForGain int     `yaml:"min_tracks_for_gain"`
}

func DefaultConfig() Config {
	return Config{
		DisabledRatio:       0.25,
		DisabledRatioSevere: 0.40,
		DuplicateThreshold:  3,
		MaxCompRatio:        50,
		MaxGainDB:           24,
		GainZScore:          2,
		GainFixedDB:         12,
		MinTracksForGain:    3,
	}
}

// LoadConfig reads threshold overrides from a YAML file on top of the
// defaults. A missing path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading rules config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing rules config: %w", err)
	}
	return cfg, nil
}
