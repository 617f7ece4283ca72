// Package config loads kprove's driver settings: a small YAML file of
// defaults that command-line flags may override. It does not parse flags
// itself (cmd/kprove's cobra commands own that); it only defines the typed
// struct and the loader.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the driver's tunables, per spec.md §4.5/§5/§6: iteration and
// depth bounds for the prover, worker concurrency, the on-disk save
// directory, and the backend's address.
type Config struct {
	MaxIterations int           `yaml:"max-iterations"`
	ExecuteDepth  int           `yaml:"execute-depth"`
	BMCDepth      int           `yaml:"bmc-depth"`
	Workers       int           `yaml:"workers"`
	SaveDirectory string        `yaml:"save-directory"`
	Backend       BackendConfig `yaml:"backend"`
}

// BackendConfig addresses the JSON-RPC symbolic execution server.
type BackendConfig struct {
	Address    string        `yaml:"address"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max-retries"`
}

// Default returns the driver's built-in defaults, used when no settings
// file is given and as the base that a loaded file or flags override.
func Default() Config {
	return Config{
		MaxIterations: 1000,
		ExecuteDepth:  1000,
		BMCDepth:      10,
		Workers:       4,
		SaveDirectory: ".kprove",
		Backend: BackendConfig{
			Address:    "127.0.0.1:31337",
			Timeout:    30 * time.Second,
			MaxRetries: 5,
		},
	}
}

// Load reads a YAML settings file at path, merging it over Default(). A
// missing path is not an error — callers pass the zero value to mean "use
// defaults only".
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports whether the config's values are usable, returning a
// descriptive error naming every violation at once via ErrInvalid.
func (c Config) Validate() error {
	var problems []string
	if c.MaxIterations <= 0 {
		problems = append(problems, "max-iterations must be > 0")
	}
	if c.ExecuteDepth <= 0 {
		problems = append(problems, "execute-depth must be > 0")
	}
	if c.BMCDepth <= 0 {
		problems = append(problems, "bmc-depth must be > 0")
	}
	if c.Workers <= 0 {
		problems = append(problems, "workers must be > 0")
	}
	if c.SaveDirectory == "" {
		problems = append(problems, "save-directory must be set")
	}
	if c.Backend.Address == "" {
		problems = append(problems, "backend.address must be set")
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrInvalid, problems)
}
