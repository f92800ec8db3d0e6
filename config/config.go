// Package config loads tribit settings from a TOML file.
package config

import (
	"errors"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/tribit/translate"
)

var f = translate.From

var (
	ErrWorkers   = errors.New(f("workers must not be negative"))
	ErrMaxDepth  = errors.New(f("max_depth must not be negative"))
	ErrTickLimit = errors.New(f("tick_limit must not be negative"))
)

// ErrUndecoded reports keys in the file that are not settings.
type ErrUndecoded []string

func (err ErrUndecoded) Error() string {
	return f("unknown keys %v", []string(err))
}

// Config holds the settings for a run or search.
type Config struct {
	Verbose   bool `toml:"verbose"`    // Trace every instruction.
	Workers   int  `toml:"workers"`    // Concurrent search workers.
	MaxDepth  int  `toml:"max_depth"`  // Maximum octal digits of A. 0 is the tape length.
	TickLimit int  `toml:"tick_limit"` // Maximum instructions per run. 0 is unlimited.
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Workers: 1,
	}
}

// Load reads a configuration file over the defaults.
func Load(path string) (cfg Config, err error) {
	cfg = Default()

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return
	}

	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		var keys ErrUndecoded
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		err = keys
		return
	}

	err = cfg.Validate()
	return
}

// Validate checks the configuration.
func (cfg Config) Validate() (err error) {
	switch {
	case cfg.Workers < 0:
		err = ErrWorkers
	case cfg.MaxDepth < 0:
		err = ErrMaxDepth
	case cfg.TickLimit < 0:
		err = ErrTickLimit
	}

	return
}
