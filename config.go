package xlgrid

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the file form of worksheet options. Zero fields keep the defaults.
//
//	max_columns: 16384
//	default_width: 9.140625
//	width_padding: 1
//	min_width: 1
//	max_width: 255
//	font:
//	  family: Calibri
//	  size: 11
//	log_level: debug
type Config struct {
	MaxColumns    int         `yaml:"max_columns"`
	MaxRows       int         `yaml:"max_rows"`
	DefaultWidth  float64     `yaml:"default_width"`
	DefaultHeight float64     `yaml:"default_height"`
	WidthPadding  *float64    `yaml:"width_padding"`
	MinWidth      float64     `yaml:"min_width"`
	MaxWidth      float64     `yaml:"max_width"`
	Font          *FontConfig `yaml:"font"`
	LogLevel      string      `yaml:"log_level"`
}

// FontConfig is the file form of the default font.
type FontConfig struct {
	Family string  `yaml:"family"`
	Size   float64 `yaml:"size"`
	Bold   bool    `yaml:"bold"`
	Italic bool    `yaml:"italic"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML config bytes.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if cfg.LogLevel != "" {
		if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
			return nil, fmt.Errorf("config log_level: %w", err)
		}
	}
	if cfg.MinWidth != 0 || cfg.MaxWidth != 0 {
		lo, hi := cfg.MinWidth, cfg.MaxWidth
		if hi == 0 {
			hi = DefaultMaxWidth
		}
		if lo < 0 || hi < lo {
			return nil, fmt.Errorf("config width bounds %v..%v: %w", lo, hi, ErrInvalidRange)
		}
	}
	return &cfg, nil
}

// Options converts the config into worksheet options.
func (c *Config) Options() []Option {
	var opts []Option
	if c.MaxColumns > 0 {
		opts = append(opts, WithMaxColumns(c.MaxColumns))
	}
	if c.MaxRows > 0 {
		opts = append(opts, WithMaxRows(c.MaxRows))
	}
	if c.DefaultWidth > 0 {
		opts = append(opts, WithDefaultWidth(c.DefaultWidth))
	}
	if c.DefaultHeight > 0 {
		opts = append(opts, WithDefaultHeight(c.DefaultHeight))
	}
	if c.WidthPadding != nil {
		opts = append(opts, WithWidthPadding(*c.WidthPadding))
	}
	if c.MinWidth != 0 || c.MaxWidth != 0 {
		hi := c.MaxWidth
		if hi == 0 {
			hi = DefaultMaxWidth
		}
		opts = append(opts, WithWidthBounds(c.MinWidth, hi))
	}
	if c.Font != nil {
		f := Font{Family: c.Font.Family, Size: c.Font.Size, Bold: c.Font.Bold, Italic: c.Font.Italic}
		if f.Family == "" {
			f.Family = DefaultFont.Family
		}
		if f.Size == 0 {
			f.Size = DefaultFont.Size
		}
		opts = append(opts, WithDefaultFont(f))
	}
	return opts
}

// Level returns the configured log level, or fallback when none is set.
func (c *Config) Level(fallback logrus.Level) logrus.Level {
	if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil && c.LogLevel != "" {
		return lvl
	}
	return fallback
}
