package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"typetalk/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/typetalk"
	configFileName = "config.yaml"
)

// GetDefaultConfigPath returns ~/.config/typetalk.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}

	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig loads config.yaml from configPath on top of the defaults, then
// applies environment overrides and validates the result. A missing file is
// not an error.
func LoadConfig(configPath string) (TypetalkConfig, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
	case err != nil:
		logging.Info("ConfigLoader", "Error loading config.yaml from %s: %s", configFilePath, err)
		return TypetalkConfig{}, err
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return TypetalkConfig{}, &ConfigurationError{
				FilePath: configFilePath,
				Message:  "malformed YAML",
				Details:  err.Error(),
			}
		}
		logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	}

	config.fillDefaults()
	applyEnv(&config)

	if err := config.Validate(); err != nil {
		return TypetalkConfig{}, &ConfigurationError{
			FilePath: configFilePath,
			Message:  "invalid configuration",
			Details:  err.Error(),
		}
	}
	return config, nil
}
