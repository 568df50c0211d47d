package config

import (
	"fmt"
	"strings"
	"time"

	"bikeusage/domain/core"
	"bikeusage/domain/usage"
	"bikeusage/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Time-series modes
const (
	ModeCumulative = "cumulative"
	ModeSliding    = "sliding"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Output   OutputConfig   `mapstructure:"output"`
	Log      LogConfig      `mapstructure:"log"`
}

// DataConfig locates the processed CSV tree
type DataConfig struct {
	Dir  string `mapstructure:"dir"`
	City string `mapstructure:"city"`
}

// AnalysisConfig holds clustering, timeline and estimator settings
type AnalysisConfig struct {
	K              int     `mapstructure:"k"`
	MinStations    int     `mapstructure:"min_stations"`
	Restarts       int     `mapstructure:"restarts"`
	Seed           int64   `mapstructure:"seed"`
	Alpha          float64 `mapstructure:"alpha"`
	Start          string  `mapstructure:"start"`
	End            string  `mapstructure:"end"`
	Mode           string  `mapstructure:"mode"`
	WindowMonths   int     `mapstructure:"window_months"`
	AccidentRadius float64 `mapstructure:"accident_radius"`
	WeatherMinObs  int     `mapstructure:"weather_min_obs"`
	TopN           int     `mapstructure:"top_n"`
}

// OutputConfig holds export settings
type OutputConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Range returns the parsed dataset interval [Start, End).
func (a AnalysisConfig) Range() (core.Interval, error) {
	return core.ParseInterval(a.Start, a.End)
}

// StartDate returns the parsed dataset start.
func (a AnalysisConfig) StartDate() (time.Time, error) {
	return core.ParseDate(a.Start)
}

// EndDate returns the parsed dataset end.
func (a AnalysisConfig) EndDate() (time.Time, error) {
	return core.ParseDate(a.End)
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Data: DataConfig{Dir: "./data", City: "heidelberg"},
		Analysis: AnalysisConfig{
			K:              3,
			MinStations:    5,
			Restarts:       20,
			Seed:           0,
			Alpha:          0.05,
			Start:          "2016-01-01",
			End:            "2025-01-01",
			Mode:           ModeSliding,
			WindowMonths:   24,
			AccidentRadius: 50,
			WeatherMinObs:  24,
			TopN:           2,
		},
		Output: OutputConfig{Dir: "./output", Format: "csv"},
		Log:    LogConfig{Level: "INFO"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("data.dir", d.Data.Dir)
	v.SetDefault("data.city", d.Data.City)
	v.SetDefault("analysis.k", d.Analysis.K)
	v.SetDefault("analysis.min_stations", d.Analysis.MinStations)
	v.SetDefault("analysis.restarts", d.Analysis.Restarts)
	v.SetDefault("analysis.seed", d.Analysis.Seed)
	v.SetDefault("analysis.alpha", d.Analysis.Alpha)
	v.SetDefault("analysis.start", d.Analysis.Start)
	v.SetDefault("analysis.end", d.Analysis.End)
	v.SetDefault("analysis.mode", d.Analysis.Mode)
	v.SetDefault("analysis.window_months", d.Analysis.WindowMonths)
	v.SetDefault("analysis.accident_radius", d.Analysis.AccidentRadius)
	v.SetDefault("analysis.weather_min_obs", d.Analysis.WeatherMinObs)
	v.SetDefault("analysis.top_n", d.Analysis.TopN)
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("log.level", d.Log.Level)
}

// Load reads .env, then an optional config file, then BIKEUSAGE_* environment
// variables, and validates the result. An empty path searches ./configs and .
// for bikeusage.yaml.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()
	return load(viper.New(), path)
}

func load(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("bikeusage")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("BIKEUSAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("log.level", "BIKEUSAGE_LOG_LEVEL", "LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, errors.Wrap(errors.IOError(path, err), "failed to read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("failed to unmarshal config: %w", err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &cfg, nil
}

// Validate rejects settings the analysis cannot run with
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return errors.ConfigInvalid("data directory is required")
	}
	if err := usage.ValidateK(c.Analysis.K); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if c.Analysis.MinStations < 1 {
		return errors.ConfigInvalid("min stations must be positive")
	}
	if c.Analysis.Restarts < 1 {
		return errors.ConfigInvalid("restarts must be positive")
	}
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return errors.ConfigInvalid(fmt.Sprintf("alpha must be in (0, 1), got %v", c.Analysis.Alpha))
	}
	if _, err := c.Analysis.Range(); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	switch c.Analysis.Mode {
	case ModeCumulative:
	case ModeSliding:
		if c.Analysis.WindowMonths < 1 {
			return errors.ConfigInvalid("sliding mode needs a positive window")
		}
	default:
		return errors.WithCode(errors.CodeConfigInvalid,
			fmt.Errorf("%w: %q", core.ErrInvalidMode, c.Analysis.Mode))
	}
	if c.Analysis.AccidentRadius <= 0 {
		return errors.ConfigInvalid("accident radius must be positive")
	}
	switch c.Output.Format {
	case "csv", "xlsx":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown output format %q", c.Output.Format))
	}
	return nil
}
