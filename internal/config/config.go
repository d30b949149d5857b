// Package config loads harmonizer settings from .harmonizer.{yaml,json,toml}
// and HARMONIZER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jward/harmonizer/internal/coord"
	"github.com/jward/harmonizer/internal/extract"
	"github.com/jward/harmonizer/internal/ice"
	"github.com/jward/harmonizer/internal/vocab"
)

// FileName is the config file base name searched for in a project root.
const FileName = ".harmonizer"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HARMONIZER"

// Config is the complete harmonizer configuration.
type Config struct {
	Database  string   `json:"database" yaml:"database" mapstructure:"database"`
	Languages []string `json:"languages" yaml:"languages" mapstructure:"languages"`
	Parallel  bool     `json:"parallel" yaml:"parallel" mapstructure:"parallel"`
	Workers   int      `json:"workers" yaml:"workers" mapstructure:"workers"`

	// Vocabulary maps words to dimension names.
	Vocabulary       map[string]string `json:"vocabulary" yaml:"vocabulary" mapstructure:"vocabulary"`
	VocabularyFiles  []string          `json:"vocabularyFiles" yaml:"vocabularyFiles" mapstructure:"vocabularyFiles"`
	VocabularyScript string            `json:"vocabularyScript" yaml:"vocabularyScript" mapstructure:"vocabularyScript"`

	Suggestions SuggestionsConfig `json:"suggestions" yaml:"suggestions" mapstructure:"suggestions"`
	Analysis    AnalysisConfig    `json:"analysis" yaml:"analysis" mapstructure:"analysis"`
	Cache       CacheConfig       `json:"cache" yaml:"cache" mapstructure:"cache"`
	Logging     LoggingConfig     `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// SuggestionsConfig controls naming suggestions.
type SuggestionsConfig struct {
	TopN        int    `json:"topN" yaml:"topN" mapstructure:"topN"`
	ContextNoun string `json:"contextNoun" yaml:"contextNoun" mapstructure:"contextNoun"`
}

// AnalysisConfig controls what each report carries.
type AnalysisConfig struct {
	MinSeverity string `json:"minSeverity" yaml:"minSeverity" mapstructure:"minSeverity"`
	NodeTags    bool   `json:"nodeTags" yaml:"nodeTags" mapstructure:"nodeTags"`
	Baseline    bool   `json:"baseline" yaml:"baseline" mapstructure:"baseline"`
}

// CacheConfig controls the text analysis cache.
type CacheConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Size    int  `json:"size" yaml:"size" mapstructure:"size"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Database:    ".harmonizer.db",
		Parallel:    true,
		Suggestions: SuggestionsConfig{TopN: 3},
		Analysis:    AnalysisConfig{MinSeverity: ice.Excellent.String()},
		Cache:       CacheConfig{Enabled: true, Size: 4096},
		Logging:     LoggingConfig{Level: "warn", Format: "console"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("database", d.Database)
	v.SetDefault("languages", []string{})
	v.SetDefault("parallel", d.Parallel)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("vocabulary", map[string]string{})
	v.SetDefault("vocabularyFiles", []string{})
	v.SetDefault("vocabularyScript", "")
	v.SetDefault("suggestions.topN", d.Suggestions.TopN)
	v.SetDefault("suggestions.contextNoun", "")
	v.SetDefault("analysis.minSeverity", d.Analysis.MinSeverity)
	v.SetDefault("analysis.nodeTags", false)
	v.SetDefault("analysis.baseline", false)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.size", d.Cache.Size)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// Load reads configuration. path may name a config file, or a directory
// searched for .harmonizer.yaml, .harmonizer.json or .harmonizer.toml. A
// directory without a config file yields the defaults plus environment
// overrides. Relative vocabulary paths resolve against the config file's
// directory.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = "."
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if info.IsDir() {
		v.SetConfigName(FileName)
		v.AddConfigPath(path)
	} else {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if used := v.ConfigFileUsed(); used != "" {
		cfg.resolvePaths(filepath.Dir(used))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) resolvePaths(dir string) {
	for i, f := range c.VocabularyFiles {
		if !filepath.IsAbs(f) {
			c.VocabularyFiles[i] = filepath.Join(dir, f)
		}
	}
	if c.VocabularyScript != "" && !filepath.IsAbs(c.VocabularyScript) {
		c.VocabularyScript = filepath.Join(dir, c.VocabularyScript)
	}
}

// Validate checks every enumerated and numeric field.
func (c *Config) Validate() error {
	for _, l := range c.Languages {
		if _, err := extract.ParseLanguage(l); err != nil {
			return &ConfigError{Field: "languages", Message: err.Error()}
		}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "workers", Message: "must not be negative"}
	}
	if c.Suggestions.TopN < 0 {
		return &ConfigError{Field: "suggestions.topN", Message: "must not be negative"}
	}
	if c.Cache.Size < 0 {
		return &ConfigError{Field: "cache.size", Message: "must not be negative"}
	}
	if _, err := ice.ParseSeverity(c.Analysis.MinSeverity); err != nil {
		return &ConfigError{Field: "analysis.minSeverity", Message: err.Error()}
	}
	for word, dim := range c.Vocabulary {
		if _, err := coord.ParseDimension(dim); err != nil {
			return &ConfigError{Field: "vocabulary." + word, Message: err.Error()}
		}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return &ConfigError{Field: "logging.format", Message: fmt.Sprintf("unknown format %q", c.Logging.Format)}
	}
	return nil
}

// MinSeverity returns the parsed analysis.minSeverity.
func (c *Config) MinSeverity() ice.Severity {
	s, err := ice.ParseSeverity(c.Analysis.MinSeverity)
	if err != nil {
		return ice.Excellent
	}
	return s
}

// Overrides merges the vocabulary files, in order, and then the inline
// vocabulary into one override map. The script is not run here.
func (c *Config) Overrides() (map[string]coord.Dimension, error) {
	out := make(map[string]coord.Dimension)
	for _, f := range c.VocabularyFiles {
		m, err := vocab.LoadOverrides(f)
		if err != nil {
			return nil, err
		}
		for k, d := range m {
			out[k] = d
		}
	}
	raw := make(map[string]any, len(c.Vocabulary))
	for k, d := range c.Vocabulary {
		raw[k] = d
	}
	inline, err := vocab.ParseOverrides(raw)
	if err != nil {
		return nil, fmt.Errorf("config: vocabulary: %w", err)
	}
	for k, d := range inline {
		out[k] = d
	}
	return out, nil
}

// WriteYAML writes c as YAML.
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return enc.Close()
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
