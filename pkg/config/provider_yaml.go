package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from the YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	raw, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", y.filename, err)
	}

	cfg := &ConfigData{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", y.filename, err)
	}

	y.config = cfg
	return cfg, nil
}

// GetLocations returns the configured observer locations
func (y *YAMLProvider) GetLocations() ([]LocationData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return y.config.Locations, nil
}

// GetServerConfig returns the HTTP server configuration
func (y *YAMLProvider) GetServerConfig() (*ServerData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return &y.config.Server, nil
}

// GetStorageConfig returns the almanac storage configuration, which may be nil
func (y *YAMLProvider) GetStorageConfig() (*StorageData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return y.config.Storage, nil
}

// Close is a no-op for YAML providers
func (y *YAMLProvider) Close() error {
	return nil
}

func (y *YAMLProvider) ensureLoaded() error {
	if y.config != nil {
		return nil
	}
	_, err := y.LoadConfig()
	return err
}
