package config

import (
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the dashboard configuration. The defaults reproduce the
// dashboard's fixed inputs, title and local port.
type Config struct {
	CustomersPath string        `mapstructure:"customers_path" yaml:"customers_path"`
	HubsPath      string        `mapstructure:"hubs_path" yaml:"hubs_path"`
	Sheet         string        `mapstructure:"sheet" yaml:"sheet"`
	// Delimiter for text tables; empty lets the loader pick ',' or tab for .tsv.
	Delimiter     string        `mapstructure:"delimiter" yaml:"delimiter"`
	Addr          string        `mapstructure:"addr" yaml:"addr"`
	Debug         bool          `mapstructure:"debug" yaml:"debug"`
	Title         string        `mapstructure:"title" yaml:"title"`
	Map           MapConfig     `mapstructure:"map" yaml:"map"`
	Metrics       MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Log           LogConfig     `mapstructure:"log" yaml:"log"`
}

type MapConfig struct {
	// Zoom is the initial zoom level; 0 fits all points.
	Zoom    int    `mapstructure:"zoom" yaml:"zoom"`
	TileURL string `mapstructure:"tile_url" yaml:"tile_url"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

const envPrefix = "DASHBOARD"

func setDefaults(v *viper.Viper) {
	v.SetDefault("customers_path", "data/WinnieCustomersHUBLOC.csv")
	v.SetDefault("hubs_path", "data/WinnieHotelLocations.csv")
	v.SetDefault("sheet", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("addr", "127.0.0.1:8050")
	v.SetDefault("debug", false)
	v.SetDefault("title", "WinnieTheo's Hotel and Resto Dashboard")
	v.SetDefault("map.zoom", 10)
	v.SetDefault("map.tile_url", "https://tile.openstreetmap.org/{z}/{x}/{y}.png")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads configuration from defaults, an optional file and the
// environment (DASHBOARD_ADDR, DASHBOARD_MAP_ZOOM, ...).
// Precedence: env > config file > defaults. A missing cfgFile is an error;
// without one, ./dashboard.yaml is read if present.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("dashboard")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects settings the loader or server cannot use.
func (c *Config) Validate() error {
	if c.CustomersPath == "" || c.HubsPath == "" {
		return fmt.Errorf("config: customers_path and hubs_path are required")
	}
	if n := len([]rune(c.Delimiter)); n > 1 {
		return fmt.Errorf("config: delimiter must be a single character, got %q", c.Delimiter)
	}
	if c.Addr == "" {
		return fmt.Errorf("config: addr is required")
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > 19 {
		return fmt.Errorf("config: map.zoom must be within 0..19, got %d", c.Map.Zoom)
	}
	return nil
}

// DelimiterRune is the table delimiter, or 0 to use the loader's default.
func (c *Config) DelimiterRune() rune {
	r := []rune(c.Delimiter)
	if len(r) == 0 {
		return 0
	}
	return r[0]
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return b, nil
}
