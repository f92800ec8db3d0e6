package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, text string) string {
	path := filepath.Join(t.TempDir(), "tribit.toml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	assert.Equal(1, cfg.Workers)
	assert.False(cfg.Verbose)
	assert.NoError(cfg.Validate())
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	path := writeConfig(t, `
verbose = true
workers = 4
max_depth = 16
tick_limit = 100000
`)

	cfg, err := Load(path)
	assert.NoError(err)
	assert.Equal(Config{Verbose: true, Workers: 4, MaxDepth: 16, TickLimit: 100000}, cfg)
}

func TestLoadPartial(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Load(writeConfig(t, "max_depth = 8\n"))
	assert.NoError(err)
	assert.Equal(1, cfg.Workers)
	assert.Equal(8, cfg.MaxDepth)
}

func TestLoadErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := Load(writeConfig(t, "workers = -1\n"))
	assert.ErrorIs(err, ErrWorkers)

	_, err = Load(writeConfig(t, "tick_limit = -5\n"))
	assert.ErrorIs(err, ErrTickLimit)

	_, err = Load(writeConfig(t, "max_depth = -5\n"))
	assert.ErrorIs(err, ErrMaxDepth)

	_, err = Load(writeConfig(t, "wrokers = 2\n"))
	var undecoded ErrUndecoded
	if assert.ErrorAs(err, &undecoded) {
		assert.Equal(ErrUndecoded{"wrokers"}, undecoded)
	}

	_, err = Load(writeConfig(t, "workers = \"many\"\n"))
	assert.Error(err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(err)
}
