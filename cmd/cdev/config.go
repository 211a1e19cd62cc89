package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AojdevStudio/cdev-sub004/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify cdev configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/cdev/config.yaml
Project-specific overrides can be placed in .cdev.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	apiKeyDisplay := "(not set)"
	if cfg.Oracle.APIKey != "" {
		apiKeyDisplay = "****"
	}

	fmt.Printf("oracle.enabled: %t\n", cfg.Oracle.Enabled)
	fmt.Printf("oracle.confidence_threshold: %g\n", cfg.Oracle.ConfidenceThreshold)
	fmt.Printf("oracle.model: %s\n", cfg.Oracle.Model)
	fmt.Printf("oracle.use_bedrock: %t\n", cfg.Oracle.UseBedrock)
	fmt.Printf("oracle.api_key: %s\n", apiKeyDisplay)
	fmt.Printf("aws.region: %s\n", cfg.AWS.Region)
	fmt.Printf("aws.profile: %s\n", cfg.AWS.Profile)
	fmt.Printf("inference.rules_file: %s\n", cfg.Inference.RulesFile)
	fmt.Printf("output.plan_dir: %s\n", cfg.Output.PlanDir)
	fmt.Printf("output.workspaces_dir: %s\n", cfg.Output.WorkspacesDir)
	fmt.Printf("output.status_dir: %s\n", cfg.Output.StatusDir)
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Set %s = %s\n", key, value)
}

func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "oracle.enabled":
		return strconv.FormatBool(cfg.Oracle.Enabled), nil
	case "oracle.confidence_threshold":
		return strconv.FormatFloat(cfg.Oracle.ConfidenceThreshold, 'g', -1, 64), nil
	case "oracle.model":
		return cfg.Oracle.Model, nil
	case "oracle.use_bedrock":
		return strconv.FormatBool(cfg.Oracle.UseBedrock), nil
	case "aws.region":
		return cfg.AWS.Region, nil
	case "aws.profile":
		return cfg.AWS.Profile, nil
	case "inference.rules_file":
		return cfg.Inference.RulesFile, nil
	case "output.plan_dir":
		return cfg.Output.PlanDir, nil
	case "output.workspaces_dir":
		return cfg.Output.WorkspacesDir, nil
	case "output.status_dir":
		return cfg.Output.StatusDir, nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "oracle.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		cfg.Oracle.Enabled = b
	case "oracle.confidence_threshold":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 1 {
			return fmt.Errorf("confidence threshold must be a number in [0,1], got %q", value)
		}
		cfg.Oracle.ConfidenceThreshold = f
	case "oracle.model":
		cfg.Oracle.Model = value
	case "oracle.use_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		cfg.Oracle.UseBedrock = b
	case "aws.region":
		cfg.AWS.Region = value
	case "aws.profile":
		cfg.AWS.Profile = value
	case "inference.rules_file":
		cfg.Inference.RulesFile = value
	case "output.plan_dir":
		cfg.Output.PlanDir = value
	case "output.workspaces_dir":
		cfg.Output.WorkspacesDir = value
	case "output.status_dir":
		cfg.Output.StatusDir = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
