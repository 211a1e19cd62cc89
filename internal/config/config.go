// Package config handles configuration loading and management for cdev.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for cdev.
type Config struct {
	Oracle    OracleConfig    `mapstructure:"oracle"`
	AWS       AWSConfig       `mapstructure:"aws"`
	Inference InferenceConfig `mapstructure:"inference"`
	Output    OutputConfig    `mapstructure:"output"`
}

// OracleConfig holds oracle classifier settings.
type OracleConfig struct {
	// Enabled turns the model-backed classifier on. Off by default; the
	// rule-based inferrer always runs regardless.
	Enabled bool `mapstructure:"enabled"`
	// ConfidenceThreshold is the minimum confidence at which an oracle
	// suggestion replaces rule-based inference.
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	// Model is the Claude model name.
	Model string `mapstructure:"model"`
	// UseBedrock routes oracle calls through AWS Bedrock.
	UseBedrock bool `mapstructure:"use_bedrock"`
	// APIKey is the Anthropic API key. Supports ${VAR} expansion.
	APIKey string `mapstructure:"api_key"`
}

// AWSConfig holds AWS settings for the Bedrock path.
type AWSConfig struct {
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
}

// InferenceConfig holds rule-table settings.
type InferenceConfig struct {
	// RulesFile is an optional YAML rule table overriding the built-in
	// domain rules.
	RulesFile string `mapstructure:"rules_file"`
}

// OutputConfig holds output directory settings, relative to the project root.
type OutputConfig struct {
	// PlanDir is where the deployment plan and validation status land.
	PlanDir string `mapstructure:"plan_dir"`
	// WorkspacesDir is where per-agent context files are written.
	WorkspacesDir string `mapstructure:"workspaces_dir"`
	// StatusDir is where agents drop completion reports.
	StatusDir string `mapstructure:"status_dir"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, CDEV_*)
// 2. Project config (.cdev.yaml in current directory or parent)
// 3. User config (~/.config/cdev/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("CDEV")

	v.BindEnv("oracle.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("aws.region", "AWS_REGION")
	v.BindEnv("aws.profile", "AWS_PROFILE")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Oracle.APIKey = os.ExpandEnv(cfg.Oracle.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Oracle.APIKey = os.ExpandEnv(cfg.Oracle.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("oracle.enabled", cfg.Oracle.Enabled)
	v.Set("oracle.confidence_threshold", cfg.Oracle.ConfidenceThreshold)
	v.Set("oracle.model", cfg.Oracle.Model)
	v.Set("oracle.use_bedrock", cfg.Oracle.UseBedrock)
	v.Set("oracle.api_key", cfg.Oracle.APIKey)
	v.Set("aws.region", cfg.AWS.Region)
	v.Set("aws.profile", cfg.AWS.Profile)
	v.Set("inference.rules_file", cfg.Inference.RulesFile)
	v.Set("output.plan_dir", cfg.Output.PlanDir)
	v.Set("output.workspaces_dir", cfg.Output.WorkspacesDir)
	v.Set("output.status_dir", cfg.Output.StatusDir)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("oracle.enabled", false)
	v.SetDefault("oracle.confidence_threshold", 0.8)
	v.SetDefault("oracle.model", "")
	v.SetDefault("oracle.use_bedrock", false)
	v.SetDefault("oracle.api_key", "")

	v.SetDefault("aws.region", "")
	v.SetDefault("aws.profile", "")

	v.SetDefault("inference.rules_file", "")

	v.SetDefault("output.plan_dir", ".cdev")
	v.SetDefault("output.workspaces_dir", ".cdev/workspaces")
	v.SetDefault("output.status_dir", ".cdev/status")
}

// getUserConfigDir returns the XDG config directory for cdev.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "cdev")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "cdev")
	}
	return filepath.Join(home, ".config", "cdev")
}

// findProjectConfig searches for .cdev.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".cdev.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Oracle: OracleConfig{
			Enabled:             false,
			ConfidenceThreshold: 0.8,
		},
		Output: OutputConfig{
			PlanDir:       ".cdev",
			WorkspacesDir: ".cdev/workspaces",
			StatusDir:     ".cdev/status",
		},
	}
}
