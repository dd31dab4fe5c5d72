package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// driverConfig holds the driver defaults an operator may set once in a TOML
// file instead of repeating on every invocation. This is deliberately a
// small surface: the expression text itself is never config, since rush
// already has a dedicated mechanism for that (the .rushrc/.rhrc start-up
// file, which is rush source, not TOML).
type driverConfig struct {
	// DefaultMode names an input mode (see parseInputModeName) used when
	// the command line gives no --input/--lines/etc. flag.
	DefaultMode string `toml:"default_mode"`

	// FatalOnError, when true, makes a record-level evaluation error abort
	// the whole run (the default). When false, the driver logs the error
	// to stderr and continues with the next record.
	FatalOnError bool `toml:"fatal_on_error"`
}

// defaultDriverConfig is returned by loadConfig when no --config flag is
// given; record-level errors are fatal by default, matching §7's
// propagation policy ("errors bubble up... until the driver catches them").
func defaultDriverConfig() *driverConfig {
	return &driverConfig{FatalOnError: true}
}

// loadConfig reads driver defaults from a TOML file. An empty path is not
// an error; it yields defaultDriverConfig().
func loadConfig(path string) (*driverConfig, error) {
	cfg := defaultDriverConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	// FatalOnError defaults to true regardless of config presence; decode
	// into a shadow struct so an absent key doesn't clobber that default
	// with TOML's bool zero value.
	shadow := struct {
		DefaultMode  string `toml:"default_mode"`
		FatalOnError *bool  `toml:"fatal_on_error"`
	}{}
	if err := toml.Unmarshal(data, &shadow); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}

	cfg.DefaultMode = shadow.DefaultMode
	if shadow.FatalOnError != nil {
		cfg.FatalOnError = *shadow.FatalOnError
	}
	return cfg, nil
}
