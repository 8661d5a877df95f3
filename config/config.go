package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Frame sources selectable with Config.Source.
const (
	SourceAnimation = "animation" // Tk animation callback (GUI only)
	SourceTicker    = "ticker"    // synthetic loop at TickerHz
	SourceCapture   = "capture"   // screen-capture loop
)

// Config holds runtime configuration for the meter, the chart and the front end.
// Fields may be loaded from a JSON or YAML file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug" yaml:"debug"`

	// Chart surface
	ChartWidth  int `json:"chart_width" yaml:"chart_width"`
	ChartHeight int `json:"chart_height" yaml:"chart_height"`

	// Sampling and scaling, all in milliseconds unless noted
	WindowMillis     int64   `json:"window_ms" yaml:"window_ms"`
	LookbackMillis   int64   `json:"lookback_ms" yaml:"lookback_ms"`
	SampleCap        int     `json:"sample_cap" yaml:"sample_cap"`
	RedrawIntervalMs int     `json:"redraw_interval_ms" yaml:"redraw_interval_ms"`
	SafeRate         float64 `json:"safe_rate" yaml:"safe_rate"`
	DangerRate       float64 `json:"danger_rate" yaml:"danger_rate"`
	Headroom         float64 `json:"headroom" yaml:"headroom"`
	DefaultRate      float64 `json:"default_rate" yaml:"default_rate"`
	MinMaxY          float64 `json:"min_max_y" yaml:"min_max_y"`

	// Frame source
	Source        string `json:"source" yaml:"source"`
	Batch         bool   `json:"batch" yaml:"batch"`
	BatchPeriodMs int    `json:"batch_period_ms" yaml:"batch_period_ms"`
	TickerHz      int    `json:"ticker_hz" yaml:"ticker_hz"`

	// Capture region for the capture source; zero size means full screen
	RegionX int `json:"region_x" yaml:"region_x"`
	RegionY int `json:"region_y" yaml:"region_y"`
	RegionW int `json:"region_w" yaml:"region_w"`
	RegionH int `json:"region_h" yaml:"region_h"`

	ExportPath string `json:"export_path" yaml:"export_path"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:            false,
		ChartWidth:       1280,
		ChartHeight:      72,
		WindowMillis:     10_000,
		LookbackMillis:   3_000,
		SampleCap:        1000,
		RedrawIntervalMs: 500,
		SafeRate:         50,
		DangerRate:       25,
		Headroom:         1.7,
		DefaultRate:      50,
		MinMaxY:          27,
		Source:           SourceAnimation,
		Batch:            false,
		BatchPeriodMs:    1000,
		TickerHz:         60,
		ExportPath:       "fps_history.png",
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	def := DefaultConfig()
	if c.ChartWidth <= 0 {
		c.ChartWidth = def.ChartWidth
	}
	if c.ChartHeight <= 0 {
		c.ChartHeight = def.ChartHeight
	}
	if c.WindowMillis <= 0 {
		c.WindowMillis = def.WindowMillis
	}
	if c.LookbackMillis <= 0 || c.LookbackMillis > c.WindowMillis {
		c.LookbackMillis = min(def.LookbackMillis, c.WindowMillis)
	}
	if c.SampleCap <= 0 {
		c.SampleCap = def.SampleCap
	}
	if c.RedrawIntervalMs <= 0 {
		c.RedrawIntervalMs = def.RedrawIntervalMs
	}
	if c.DangerRate <= 0 {
		c.DangerRate = def.DangerRate
	}
	if c.SafeRate <= 0 || c.SafeRate < c.DangerRate {
		c.SafeRate = c.DangerRate * 2
	}
	if c.Headroom < 1 {
		c.Headroom = def.Headroom
	}
	if c.DefaultRate <= 0 {
		c.DefaultRate = def.DefaultRate
	}
	if c.MinMaxY <= 0 {
		c.MinMaxY = def.MinMaxY
	}
	switch c.Source {
	case SourceAnimation, SourceTicker, SourceCapture:
	default:
		c.Source = def.Source
	}
	if c.BatchPeriodMs <= 0 {
		c.BatchPeriodMs = def.BatchPeriodMs
	}
	if c.TickerHz <= 0 || c.TickerHz > 1000 {
		c.TickerHz = def.TickerHz
	}
	if c.RegionW < 0 || c.RegionH < 0 {
		c.RegionW, c.RegionH = 0, 0
	}
	return nil
}

// MinX is the negative offset of the chart's left edge from now.
func (c *Config) MinX() int64 { return -c.WindowMillis }

// RedrawInterval returns the redraw period as a duration.
func (c *Config) RedrawInterval() time.Duration {
	return time.Duration(c.RedrawIntervalMs) * time.Millisecond
}

// BatchPeriod returns the batch measurement period as a duration.
func (c *Config) BatchPeriod() time.Duration {
	return time.Duration(c.BatchPeriodMs) * time.Millisecond
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load attempts to read configuration from the given JSON or YAML file path. If the file does not
// exist it returns DefaultConfig(). On decode error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	if isYAML(path) {
		err = yaml.NewDecoder(f).Decode(cfg)
	} else {
		err = json.NewDecoder(f).Decode(cfg)
	}
	if err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path, as YAML for .yaml/.yml paths and JSON otherwise.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if isYAML(path) {
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
