package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/tablekit/quicklinks/internal/annotate"
)

// EnvPrefix marks environment overrides. A double underscore nests, so
// QUICKLINKS_VIEWER__MARKDOWN sets viewer.markdown.
const EnvPrefix = "QUICKLINKS_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (QUICKLINKS_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps QUICKLINKS_VIEWER__SPLIT_MIN to viewer.split_min.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.AdventureDir == "" {
		return fmt.Errorf("adventure_dir is required")
	}
	if c.PDF == "" {
		return fmt.Errorf("pdf is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if _, err := annotate.ParseMode(c.Annotator.Mode); err != nil {
		return fmt.Errorf("annotator.mode: %w", err)
	}

	v := c.Viewer
	if v.MinScale <= 0 || v.MaxScale < v.MinScale {
		return fmt.Errorf("viewer scale range [%g, %g] is invalid", v.MinScale, v.MaxScale)
	}
	if v.InitialScale < v.MinScale || v.InitialScale > v.MaxScale {
		return fmt.Errorf("viewer.initial_scale %g is outside [%g, %g]", v.InitialScale, v.MinScale, v.MaxScale)
	}
	if v.FitMinScale <= 0 || v.FitMaxScale < v.FitMinScale {
		return fmt.Errorf("viewer fit range [%g, %g] is invalid", v.FitMinScale, v.FitMaxScale)
	}
	if v.ZoomStep <= 0 {
		return fmt.Errorf("viewer.zoom_step must be positive")
	}
	if v.SplitMin < 0 || v.SplitMax > 100 || v.SplitMin > v.SplitMax {
		return fmt.Errorf("viewer split range [%g, %g] is invalid", v.SplitMin, v.SplitMax)
	}
	if v.SplitDefault < v.SplitMin || v.SplitDefault > v.SplitMax {
		return fmt.Errorf("viewer.split_default %g is outside [%g, %g]", v.SplitDefault, v.SplitMin, v.SplitMax)
	}
	if v.DoubleTapMs < 0 {
		return fmt.Errorf("viewer.double_tap_ms must be non-negative")
	}
	return nil
}
