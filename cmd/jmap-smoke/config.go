package main

import (
	"fmt"
	"os"
	"time"

	"go.mau.fi/util/jsontime"
	"gopkg.in/yaml.v3"
)

// Seconds wraps jsontime.Seconds so YAML configs spell timeouts as plain
// integer seconds, the same form the profile store uses in JSON.
type Seconds struct {
	jsontime.Seconds
}

func (s *Seconds) UnmarshalYAML(node *yaml.Node) error {
	var secs int64
	if err := node.Decode(&secs); err != nil {
		return err
	}
	s.Duration = time.Duration(secs) * time.Second
	return nil
}

func (s Seconds) MarshalYAML() (any, error) {
	return int64(s.Duration / time.Second), nil
}

// Config is the YAML-file form of the CLI settings. A named profile
// overrides whatever is set here, and explicit flags override both.
type Config struct {
	Host     string `yaml:"host"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Token    string `yaml:"token"`

	RequestTimeout Seconds `yaml:"request_timeout"`
	MaxConcurrent  int     `yaml:"max_concurrent"`
	LogLevel       string  `yaml:"log_level"`
}

func defaultConfig() Config {
	return Config{
		RequestTimeout: Seconds{jsontime.S(30 * time.Second)},
		MaxConcurrent:  4,
		LogLevel:       "info",
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
