// Package config handles loading and saving user configuration for freqtab.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/f3rmion/freqtab/internal/chart"
	"github.com/f3rmion/freqtab/internal/export"
	"github.com/f3rmion/freqtab/internal/logging"
	"gopkg.in/yaml.v3"
)

// FileName is the config file inside the config directory.
const FileName = "config.yaml"

// Config holds all user configuration.
type Config struct {
	TableFormat string      `yaml:"table_format"` // Format used when copying the table
	BarColor    string      `yaml:"bar_color"`    // Hex color of the bars
	PiePalette  []string    `yaml:"pie_palette"`  // Hex colors cycled over pie slices
	Chart       ChartConfig `yaml:"chart"`
	Log         LogConfig   `yaml:"log"`
}

// ChartConfig holds settings for rasterized charts.
type ChartConfig struct {
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	Font     string  `yaml:"font,omitempty"` // Path to a TTF/OTF font; system default if empty
	FontSize float64 `yaml:"font_size"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns the built-in configuration.
func Default() *Config {
	palette := make([]string, 0, len(chart.DefaultPalette))
	for _, c := range chart.DefaultPalette {
		palette = append(palette, chart.Hex(c))
	}
	def := chart.DefaultOptions()

	return &Config{
		TableFormat: string(export.FormatHTML),
		BarColor:    chart.Hex(chart.DefaultBarColor),
		PiePalette:  palette,
		Chart: ChartConfig{
			Width:    def.Width,
			Height:   def.Height,
			FontSize: chart.DefaultFontSize,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a config file. Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadDir loads FileName from dir, returning defaults if it does not exist.
func LoadDir(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func Save(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Validate checks formats, colors and sizes.
func (c *Config) Validate() error {
	if _, err := export.ParseFormat(c.TableFormat); err != nil {
		return err
	}
	if _, err := chart.ParseHex(c.BarColor); err != nil {
		return fmt.Errorf("bar_color: %w", err)
	}
	if _, err := chart.ParsePalette(c.PiePalette); err != nil {
		return fmt.Errorf("pie_palette: %w", err)
	}
	if c.Chart.Width < 0 || c.Chart.Height < 0 {
		return fmt.Errorf("chart size must not be negative")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Format returns the parsed table format.
func (c *Config) Format() export.Format {
	f, err := export.ParseFormat(c.TableFormat)
	if err != nil {
		return export.FormatHTML
	}
	return f
}

// ChartOptions converts the chart settings. The face is resolved from the
// configured font, a system font or the built-in bitmap font.
func (c *Config) ChartOptions() (chart.Options, error) {
	bar, err := chart.ParseHex(c.BarColor)
	if err != nil {
		return chart.Options{}, fmt.Errorf("bar_color: %w", err)
	}
	palette, err := chart.ParsePalette(c.PiePalette)
	if err != nil {
		return chart.Options{}, fmt.Errorf("pie_palette: %w", err)
	}

	face, err := chart.FindFace(c.Chart.Font, c.Chart.FontSize)
	opts := chart.Options{
		Width:    c.Chart.Width,
		Height:   c.Chart.Height,
		BarColor: bar,
		Palette:  palette,
		Face:     face,
	}
	if err != nil {
		return opts, fmt.Errorf("chart font: %w", err)
	}
	return opts, nil
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "freqtab"), nil
}

// EnsureConfigDir creates dir if it doesn't exist.
func EnsureConfigDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
