package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/san-kum/gapdash/internal/chart"
	"github.com/san-kum/gapdash/internal/gapminder"
	"gopkg.in/yaml.v3"
)

const (
	DefaultHost       = "0.0.0.0"
	DefaultPort       = 7860
	DefaultSessionTTL = 30 * time.Minute
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultExportDir  = ".gapdash"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Dataset DatasetConfig `yaml:"dataset"`
	Chart   ChartConfig   `yaml:"chart"`
	Log     LogConfig     `yaml:"log"`
	Export  ExportConfig  `yaml:"export"`
}

type ServerConfig struct {
	Host       string        `yaml:"host"`
	Port       int           `yaml:"port"`
	Debug      bool          `yaml:"debug"`
	SessionTTL time.Duration `yaml:"session_ttl"`

	// FrameAncestors are the origins allowed to embed the dashboard in a
	// frame. Empty forbids framing.
	FrameAncestors []string `yaml:"frame_ancestors,omitempty"`
}

type DatasetConfig struct {
	Source  string        `yaml:"source"`
	Timeout time.Duration `yaml:"timeout"`
}

type ChartConfig struct {
	SizeMax      float64 `yaml:"size_max"`
	DimOpacity   float64 `yaml:"dim_opacity"`
	TransitionMs int     `yaml:"transition_ms"`
	ColorScale   string  `yaml:"color_scale"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ExportConfig struct {
	Dir string `yaml:"dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:       DefaultHost,
			Port:       DefaultPort,
			SessionTTL: DefaultSessionTTL,
		},
		Dataset: DatasetConfig{
			Source:  gapminder.DefaultSource,
			Timeout: gapminder.DefaultTimeout,
		},
		Chart: ChartConfig{
			SizeMax:      chart.DefaultSizeMax,
			DimOpacity:   chart.DefaultDimOpacity,
			TransitionMs: chart.DefaultTransitionMs,
			ColorScale:   chart.DefaultColorScale,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Export: ExportConfig{
			Dir: DefaultExportDir,
		},
	}
}

// Load reads a YAML file over the defaults; keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over base, so a file can refine a profile.
// base is modified in place.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Server.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("server.session_ttl must be positive, got %s", c.Server.SessionTTL))
	}
	for _, a := range c.Server.FrameAncestors {
		if a == "" || strings.ContainsAny(a, "; ,") {
			errs = append(errs, fmt.Errorf("server.frame_ancestors: invalid source %q", a))
		}
	}
	if c.Dataset.Source == "" {
		errs = append(errs, errors.New("dataset.source is required"))
	}
	if c.Chart.SizeMax <= 0 {
		errs = append(errs, fmt.Errorf("chart.size_max must be positive, got %g", c.Chart.SizeMax))
	}
	if c.Chart.DimOpacity < 0 || c.Chart.DimOpacity > 1 {
		errs = append(errs, fmt.Errorf("chart.dim_opacity must be within [0, 1], got %g", c.Chart.DimOpacity))
	}
	if _, ok := chart.Scales[c.Chart.ColorScale]; !ok {
		errs = append(errs, fmt.Errorf("chart.color_scale unknown: %q", c.Chart.ColorScale))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ChartOptions converts the chart section for the generators.
func (c *Config) ChartOptions() chart.Options {
	return chart.Options{
		SizeMax:      c.Chart.SizeMax,
		DimOpacity:   c.Chart.DimOpacity,
		TransitionMs: c.Chart.TransitionMs,
		ColorScale:   c.Chart.ColorScale,
	}
}
