// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// Package config loads the ocreval configuration from a YAML file,
// environment variables prefixed with OCREVAL_, and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"rescribe.xyz/ocreval/engine"
)

// EnvPrefix is the prefix of environment variables which override
// configuration, e.g. OCREVAL_IMAGES.
const EnvPrefix = "OCREVAL"

// Engine configures one OCR engine.
type Engine struct {
	engine.Config `mapstructure:",squash"`
	// Report is the file name of the engine's report in the results
	// directory, default <name>_results.txt
	Report string `mapstructure:"report"`
}

// Storage configures where reports are published.
type Storage struct {
	// Type is "local" or "aws"
	Type   string `mapstructure:"type"`
	Bucket string `mapstructure:"bucket"`
	Region string `mapstructure:"region"`
	Dir    string `mapstructure:"dir"`
	Prefix string `mapstructure:"prefix"`
}

// Compare configures engine comparisons.
type Compare struct {
	// Reports maps engine names to report paths or s3:// URLs
	Reports       map[string]string `mapstructure:"reports"`
	NumberPattern string            `mapstructure:"number_pattern"`
	OutDir        string            `mapstructure:"out_dir"`
}

// Preprocess configures image preprocessing.
type Preprocess struct {
	Labels   string `mapstructure:"labels"`
	Input    string `mapstructure:"input"`
	Output   string `mapstructure:"output"`
	Filter   string `mapstructure:"filter"`
	Binarise bool   `mapstructure:"binarise"`
	Wipe     bool   `mapstructure:"wipe"`
}

// Config is the complete configuration.
type Config struct {
	GroundTruth string            `mapstructure:"ground_truth"`
	Marker      string            `mapstructure:"marker"`
	Strict      bool              `mapstructure:"strict"`
	Images      string            `mapstructure:"images"`
	Extensions  []string          `mapstructure:"extensions"`
	ResultsDir  string            `mapstructure:"results_dir"`
	Attempts    uint              `mapstructure:"attempts"`
	RetryDelay  time.Duration     `mapstructure:"retry_delay"`
	Engines     map[string]Engine `mapstructure:"engines"`
	Storage     Storage           `mapstructure:"storage"`
	Compare     Compare           `mapstructure:"compare"`
	Preprocess  Preprocess        `mapstructure:"preprocess"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ground_truth", "ground_truth")
	v.SetDefault("marker", "#")
	v.SetDefault("strict", false)
	v.SetDefault("images", "processed_images")
	v.SetDefault("extensions", []string{".png", ".jpg", ".jpeg"})
	v.SetDefault("results_dir", "results")
	v.SetDefault("attempts", 1)
	v.SetDefault("retry_delay", "2s")
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.region", "")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.dir", "")
	v.SetDefault("storage.prefix", "")
	v.SetDefault("compare.number_pattern", `(\d+)`)
	v.SetDefault("compare.out_dir", "comparison")
	v.SetDefault("preprocess.labels", filepath.Join("image_labels", "image_labels.json"))
	v.SetDefault("preprocess.input", "vision_datasets")
	v.SetDefault("preprocess.output", "processed_images")
	v.SetDefault("preprocess.filter", "opencv")
	v.SetDefault("preprocess.binarise", false)
	v.SetDefault("preprocess.wipe", false)
}

// Load reads the configuration. If cfgFile is empty ocreval.yaml is
// looked for in the current directory and in $HOME/.ocreval, and
// it is not an error for neither to exist.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("ocreval")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.ocreval")
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(cfg.Engines) == 0 {
		cfg.Engines = map[string]Engine{"tesseract": {}}
	}
	for name, e := range cfg.Engines {
		e.APIKey = ResolveEnvVars(e.APIKey)
		cfg.Engines[name] = e
	}

	return &cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// EngineNames returns the names of the configured engines, sorted.
func (c *Config) EngineNames() []string {
	var names []string
	for n := range c.Engines {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ReportPath returns where the report for an engine is written.
func (c *Config) ReportPath(name string) string {
	r := c.Engines[name].Report
	if r == "" {
		r = name + "_results.txt"
	}
	return filepath.Join(c.ResultsDir, r)
}

// NumberPattern compiles the pattern used to find image numbers in
// reports.
func (c *Config) NumberPattern() (*regexp.Regexp, error) {
	re, err := regexp.Compile(c.Compare.NumberPattern)
	if err != nil {
		return nil, fmt.Errorf("bad compare.number_pattern %q: %w", c.Compare.NumberPattern, err)
	}
	return re, nil
}
