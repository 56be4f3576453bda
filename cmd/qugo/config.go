package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds CLI defaults loaded from an optional YAML file. Flags given
// on the command line win over anything here.
type Config struct {
	Shots       int    `yaml:"shots"`
	Seed        uint64 `yaml:"seed"`
	Parallelism int    `yaml:"parallelism"`
}

func defaultConfig() Config {
	return Config{Shots: 1024}
}

// loadConfig reads the file at path, or .qugo.yaml in the working
// directory when no path is given. A missing default file is not an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		path = ".qugo.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse %s", path)
	}
	return cfg, nil
}
