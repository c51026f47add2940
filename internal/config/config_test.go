package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skdltmxn/idlib-go/procmem"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "idlib.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultStringWindow, cfg.StringWindow)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Typedefs)
	assert.False(t, cfg.KeepGoing)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
pid: 4242
roots: ["0x1463B7E90", "0x1463E6FD0"]
typedefs: true
keep_going: true
log:
  level: debug
  pretty: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 4242, cfg.PID)
	assert.True(t, cfg.Typedefs)
	assert.True(t, cfg.KeepGoing)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
	assert.Equal(t, DefaultOutput, cfg.Output, "unset keys keep defaults")
	assert.Equal(t, DefaultStringWindow, cfg.StringWindow)

	roots, err := cfg.RootAddresses()
	require.NoError(t, err)
	assert.Equal(t, []procmem.Address{0x1463B7E90, 0x1463E6FD0}, roots)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "pid: [not, a, number]"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "pid", mutate: func(c *Config) { c.PID = 1 }},
		{name: "dump", mutate: func(c *Config) { c.Dump = "mem.bin"; c.Base = "0x140000000" }},
		{name: "no target", mutate: func(*Config) {}, wantErr: true},
		{name: "both targets", mutate: func(c *Config) { c.PID = 1; c.Dump = "mem.bin" }, wantErr: true},
		{name: "negative pid", mutate: func(c *Config) { c.PID = -3 }, wantErr: true},
		{name: "bad base", mutate: func(c *Config) { c.Dump = "mem.bin"; c.Base = "zz" }, wantErr: true},
		{name: "zero window", mutate: func(c *Config) { c.PID = 1; c.StringWindow = 0 }, wantErr: true},
		{name: "bad root", mutate: func(c *Config) { c.PID = 1; c.Roots = []string{"0xnope"} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRootAddresses(t *testing.T) {
	cfg := Default()
	_, err := cfg.RootAddresses()
	assert.ErrorIs(t, err, ErrInvalid)

	cfg.Roots = []string{"0"}
	_, err = cfg.RootAddresses()
	assert.ErrorIs(t, err, ErrInvalid)

	cfg.Roots = []string{"4096"}
	roots, err := cfg.RootAddresses()
	require.NoError(t, err)
	assert.Equal(t, []procmem.Address{0x1000}, roots)
}
