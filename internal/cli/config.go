package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pipelayout/pkg/errors"
	"github.com/matzehuels/pipelayout/pkg/pipeline"
)

const configFileName = "config.toml"

// Config is the on-disk configuration.
//
//	[layout]
//	scale_x = 200
//	step_height = 60
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig holds default layout options.
type LayoutConfig struct {
	NodeRadius          float64 `toml:"node_radius"`
	ScaleX              float64 `toml:"scale_x"`
	ScaleY              float64 `toml:"scale_y"`
	OffsetX             float64 `toml:"offset_x"`
	OffsetY             float64 `toml:"offset_y"`
	VerticalGraphMargin float64 `toml:"vertical_graph_margin"`
	StepHeight          float64 `toml:"step_height"`
	Passes              int     `toml:"passes"`
	Parallel            bool    `toml:"parallel"`
}

// CacheConfig selects and tunes the result cache.
type CacheConfig struct {
	// Dir overrides the file cache directory.
	Dir string `toml:"dir,omitempty"`

	// RedisURL switches to a redis cache when set.
	RedisURL string `toml:"redis_url,omitempty"`

	// Prefix namespaces every cache key, so several installations can share
	// one redis database.
	Prefix string `toml:"prefix,omitempty"`

	Disabled bool `toml:"disabled"`

	// TTL overrides how long results stay cached. Zero keeps the defaults.
	TTL Duration `toml:"ttl"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string ("90m", "24h") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("negative duration %q", text)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	o := pipeline.DefaultOptions()
	return &Config{
		Layout: LayoutConfig{
			NodeRadius:          o.NodeRadius,
			ScaleX:              o.ScaleX,
			ScaleY:              o.ScaleY,
			OffsetX:             o.OffsetX,
			OffsetY:             o.OffsetY,
			VerticalGraphMargin: o.VerticalGraphMargin,
			StepHeight:          o.StepHeight,
			Passes:              o.Passes,
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

func defaultConfigPath() string {
	dir, err := configDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configFileName)
}

// LoadConfig reads path on top of [DefaultConfig]. A missing file is only an
// error when required is set; unknown keys and invalid layout values always
// are.
func LoadConfig(path string, required bool) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) && !required {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read config %s: %v", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidOptions, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	opts := cfg.Layout.Options()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Options converts the layout section into pipeline options.
func (l LayoutConfig) Options() pipeline.Options {
	return pipeline.Options{
		NodeRadius:          l.NodeRadius,
		ScaleX:              l.ScaleX,
		ScaleY:              l.ScaleY,
		OffsetX:             l.OffsetX,
		OffsetY:             l.OffsetY,
		VerticalGraphMargin: l.VerticalGraphMargin,
		StepHeight:          l.StepHeight,
		Passes:              l.Passes,
		Parallel:            l.Parallel,
	}
}

// Write encodes the configuration as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
