package config

import (
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"

	"surveystat/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Loader   LoaderConfig   `mapstructure:"loader"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port         string `mapstructure:"port"`
	GinMode      string `mapstructure:"gin_mode"`
	MaxUploadMB  int    `mapstructure:"max_upload_mb"`
	ChartWorkers int    `mapstructure:"chart_workers"`
}

// LoaderConfig names the file-layout assumptions of the survey export tool.
type LoaderConfig struct {
	Alpha     AlphaLoaderConfig     `mapstructure:"alpha"`
	Normality NormalityLoaderConfig `mapstructure:"normality"`
}

// AlphaLoaderConfig controls how the reliability upload is split into item columns
type AlphaLoaderConfig struct {
	HasHeader         bool   `mapstructure:"has_header"`
	SourceDelimiter   string `mapstructure:"source_delimiter"`
	PackedFirstColumn bool   `mapstructure:"packed_first_column"`
	PackedDelimiter   string `mapstructure:"packed_delimiter"`
	DropEmptyColumns  bool   `mapstructure:"drop_empty_columns"`
	Sheet             string `mapstructure:"sheet"`
}

// NormalityLoaderConfig controls how the normality upload is read
type NormalityLoaderConfig struct {
	Delimiter               string `mapstructure:"delimiter"`
	TrailingMetadataColumns int    `mapstructure:"trailing_metadata_columns"`
}

// AnalysisConfig holds statistical settings
type AnalysisConfig struct {
	SignificanceLevel float64 `mapstructure:"significance_level"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// EnvPrefix is prepended to every environment override, e.g. SURVEYSTAT_SERVER_PORT.
const EnvPrefix = "SURVEYSTAT"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8050")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("server.max_upload_mb", 20)
	v.SetDefault("server.chart_workers", 4)

	v.SetDefault("loader.alpha.has_header", true)
	v.SetDefault("loader.alpha.source_delimiter", ",")
	v.SetDefault("loader.alpha.packed_first_column", true)
	v.SetDefault("loader.alpha.packed_delimiter", ";")
	v.SetDefault("loader.alpha.drop_empty_columns", true)
	v.SetDefault("loader.alpha.sheet", "")

	v.SetDefault("loader.normality.delimiter", ";")
	v.SetDefault("loader.normality.trailing_metadata_columns", 2)

	v.SetDefault("analysis.significance_level", 0.05)

	v.SetDefault("logging.level", "INFO")
}

// Default returns the configuration with no file or environment applied
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	// Defaults always decode; the error path is unreachable.
	_ = v.Unmarshal(&c)
	return &c
}

// Load reads configuration from defaults, an optional YAML file and the environment.
// Precedence: env > config file > defaults. An empty cfgFile skips the file.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional names used by hosting platforms and the previous deployment
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
	_ = v.BindEnv("server.gin_mode", EnvPrefix+"_SERVER_GIN_MODE", "GIN_MODE")
	_ = v.BindEnv("logging.level", EnvPrefix+"_LOGGING_LEVEL", "LOG_LEVEL")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "failed to read config file %s", cfgFile)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to decode configuration")
	}

	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &c, nil
}

// Validate checks field ranges that viper cannot express
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if c.Server.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("server.max_upload_mb must be positive")
	}
	if c.Server.ChartWorkers <= 0 {
		return errors.ConfigInvalid("server.chart_workers must be positive")
	}
	for name, d := range map[string]string{
		"loader.alpha.source_delimiter": c.Loader.Alpha.SourceDelimiter,
		"loader.alpha.packed_delimiter": c.Loader.Alpha.PackedDelimiter,
		"loader.normality.delimiter":    c.Loader.Normality.Delimiter,
	} {
		if utf8.RuneCountInString(d) != 1 {
			return errors.ConfigInvalid(name + " must be a single character")
		}
	}
	if c.Loader.Normality.TrailingMetadataColumns < 0 {
		return errors.ConfigInvalid("loader.normality.trailing_metadata_columns cannot be negative")
	}
	if a := c.Analysis.SignificanceLevel; a <= 0 || a >= 1 {
		return errors.ConfigInvalid("analysis.significance_level must be in (0, 1)")
	}
	return nil
}

// Rune returns the single character of a validated delimiter setting
func Rune(delimiter string) rune {
	r, _ := utf8.DecodeRuneInString(delimiter)
	return r
}
