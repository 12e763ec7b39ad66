package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v6"
	"github.com/rs/zerolog/log"
	"sigs.k8s.io/yaml"
)

// Load Parses and validates the proxying variant's environment. Any error should be fatal.
func Load() (Configuration, error) {
	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("configuration loading failed: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func LoadLite() (LiteConfiguration, error) {
	cfg := LiteConfiguration{}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("configuration loading failed: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ReadApplicationConfig Loads the optional YAML file. A missing file leaves defaults in place, a malformed one is an error.
func ReadApplicationConfig(filePath string) (ApplicationConfiguration, error) {
	appConfig := ApplicationConfiguration{}

	yamlFile, err := os.ReadFile(filePath)
	if err != nil {
		log.Info().Msgf("No config file found: %s", filepath.Base(filePath))
		return appConfig, nil
	}

	log.Debug().Msgf("Loading YAML config from %s", filepath.Base(filePath))
	if err = yaml.Unmarshal(yamlFile, &appConfig); err != nil {
		return appConfig, fmt.Errorf("unmarshal %s: %w", filePath, err)
	}
	return appConfig, nil
}
