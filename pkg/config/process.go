package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ProcessConfig reads the configuration from a stream and returns the parsed
// configuration.
func ProcessConfig(r io.Reader) (*Config, error) {
	var conf Config
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&conf); err != nil {
		return nil, fmt.Errorf("fatal error reading config file: %w", err)
	}
	// check that the version is something we recognize
	if conf.Version != Version {
		return nil, fmt.Errorf("unknown config version: %s", conf.Version)
	}
	return &conf, nil
}
