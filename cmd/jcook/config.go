package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
)

const defaultConfigFile = "jcook.toml"

// Config mirrors jcook.toml. Command-line flags override every field.
type Config struct {
	Run   RunConfig   `toml:"run"`
	Check CheckConfig `toml:"check"`
	Log   LogConfig   `toml:"log"`
}

type RunConfig struct {
	Class  string `toml:"class"`
	Method string `toml:"method"`
}

type CheckConfig struct {
	Jobs int `toml:"jobs"`
}

type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// loadConfig reads path. A missing file is an error only when it was asked
// for explicitly.
func loadConfig(path string, explicit bool) (*Config, error) {
	cfg := &Config{}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}
