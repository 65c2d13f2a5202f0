// Package config has the configuration of the merge run
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environment is the deployment environment the tool runs in
type Environment int

const (
	EnvDevelopment Environment = iota
	EnvStaging
	EnvProduction
	EnvTest
)

func (e Environment) String() string {
	switch e {
	case EnvStaging:
		return "staging"
	case EnvProduction:
		return "prod"
	case EnvTest:
		return "test"
	default:
		return "dev"
	}
}

// ParseEnvironment parses an ENV value
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(s) {
	case "dev", "development":
		return EnvDevelopment, nil
	case "staging":
		return EnvStaging, nil
	case "prod", "production":
		return EnvProduction, nil
	case "test":
		return EnvTest, nil
	default:
		return EnvDevelopment, fmt.Errorf("ENV must be one of: [dev staging prod test], got: %s", s)
	}
}

const (
	// DefaultOutputName is the file written beside the sources
	DefaultOutputName = "mkb_data.csv"

	DedupeFirst = "first"
	DedupeMerge = "merge"
)

// Config holds all configuration of a merge run
type Config struct {
	SourceDir       string // Directory holding english.txt, serbian.csv and russian.csv
	OutputFile      string
	SourcesManifest string // Optional TOML file replacing the built-in source layouts
	DedupePolicy    string
	MetricsFile     string // Optional Prometheus textfile
	Env             Environment
	LogLevel        string // Empty means the environment default
	LogFile         string
	Color           string
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	env, err := ParseEnvironment(getEnvWithDefault("ENV", "dev"))
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: invalid ENV: %w", err)
	}

	sourceDir := getEnvWithDefault("MKB_SOURCE_DIR", executableDir())

	cfg := &Config{
		SourceDir:       sourceDir,
		OutputFile:      getEnvWithDefault("MKB_OUTPUT_FILE", filepath.Join(sourceDir, DefaultOutputName)),
		SourcesManifest: os.Getenv("MKB_SOURCES_MANIFEST"),
		DedupePolicy:    getEnvWithDefault("MKB_DEDUPE_POLICY", DedupeFirst),
		MetricsFile:     os.Getenv("MKB_METRICS_FILE"),
		Env:             env,
		LogLevel:        os.Getenv("LOG_LEVEL"),
		LogFile:         os.Getenv("LOG_FILE"),
		Color:           getEnvWithDefault("MKB_COLOR", "auto"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration; call it again after applying overrides
func (c *Config) Validate() error {
	if err := validateConfig(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	if err := validateSourceDir(cfg.SourceDir); err != nil {
		return fmt.Errorf("invalid MKB_SOURCE_DIR: %w", err)
	}

	if err := validateOutputFile(cfg.OutputFile); err != nil {
		return fmt.Errorf("invalid MKB_OUTPUT_FILE: %w", err)
	}

	if err := validateDedupePolicy(cfg.DedupePolicy); err != nil {
		return fmt.Errorf("invalid MKB_DEDUPE_POLICY: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validateColor(cfg.Color); err != nil {
		return fmt.Errorf("invalid MKB_COLOR: %w", err)
	}

	return nil
}

func validateSourceDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("MKB_SOURCE_DIR cannot be empty")
	}
	return nil
}

// validateOutputFile only checks the shape of the path; write errors are reported by the run
func validateOutputFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("MKB_OUTPUT_FILE cannot be empty")
	}
	if strings.HasSuffix(path, string(filepath.Separator)) {
		return fmt.Errorf("MKB_OUTPUT_FILE must be a file, got directory: %s", path)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("MKB_OUTPUT_FILE must be a file, got directory: %s", path)
	}
	return nil
}

func validateDedupePolicy(policy string) error {
	switch strings.ToLower(policy) {
	case DedupeFirst, DedupeMerge:
		return nil
	}
	return fmt.Errorf("MKB_DEDUPE_POLICY must be one of: [%s %s], got: %s", DedupeFirst, DedupeMerge, policy)
}

// validateLogLevel accepts an empty level, which selects the environment default
func validateLogLevel(logLevel string) error {
	if logLevel == "" {
		return nil
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	logLevel = strings.ToLower(logLevel)

	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

func validateColor(mode string) error {
	switch strings.ToLower(mode) {
	case "auto", "on", "off":
		return nil
	}
	return fmt.Errorf("MKB_COLOR must be one of: [auto on off], got: %s", mode)
}

// executableDir returns the directory of the running binary, or "." when unknown
func executableDir() string {
	ex, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(ex); err == nil {
		ex = resolved
	}
	return filepath.Dir(ex)
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvVars returns a list of all expected environment variables
func GetEnvVars() []string {
	return []string{
		"MKB_SOURCE_DIR",
		"MKB_OUTPUT_FILE",
		"MKB_SOURCES_MANIFEST",
		"MKB_DEDUPE_POLICY",
		"MKB_METRICS_FILE",
		"ENV",
		"LOG_LEVEL",
		"LOG_FILE",
		"MKB_COLOR",
	}
}
