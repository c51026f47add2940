// Package config loads and validates the idlibdump run configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skdltmxn/idlib-go/procmem"
)

// DefaultOutput is the document written when no output path is given.
const DefaultOutput = "idlib.json"

// DefaultStringWindow is the default string probe size in bytes.
const DefaultStringWindow = 1024

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is one run of the tool: which target to read, which roots to
// decode and where to write the document.
type Config struct {
	PID          int       `yaml:"pid"`
	Dump         string    `yaml:"dump"`
	Base         string    `yaml:"base"`
	Roots        []string  `yaml:"roots"`
	Output       string    `yaml:"output"`
	Typedefs     bool      `yaml:"typedefs"`
	KeepGoing    bool      `yaml:"keep_going"`
	LossyText    bool      `yaml:"lossy_text"`
	StringWindow int       `yaml:"string_window"`
	Log          LogConfig `yaml:"log"`
}

// LogConfig selects log verbosity and format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Base:         "0x0",
		Output:       DefaultOutput,
		StringWindow: DefaultStringWindow,
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Load reads the YAML file at path over the defaults.
func Load(path string) (*Config, error) {
	//nolint:gosec // G304: path is supplied by the operator.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration names exactly one target and that
// every address parses. Roots are only required by commands that decode,
// so they are checked by RootAddresses.
func (c *Config) Validate() error {
	switch {
	case c.PID == 0 && c.Dump == "":
		return fmt.Errorf("%w: one of pid or dump is required", ErrInvalid)
	case c.PID != 0 && c.Dump != "":
		return fmt.Errorf("%w: pid and dump are mutually exclusive", ErrInvalid)
	case c.PID < 0:
		return fmt.Errorf("%w: pid %d", ErrInvalid, c.PID)
	}

	if c.Dump != "" {
		if _, err := c.BaseAddress(); err != nil {
			return err
		}
	}

	if c.StringWindow <= 0 {
		return fmt.Errorf("%w: string_window must be positive, got %d", ErrInvalid, c.StringWindow)
	}

	for _, r := range c.Roots {
		if _, err := procmem.ParseAddress(r); err != nil {
			return fmt.Errorf("%w: root %q: %v", ErrInvalid, r, err)
		}
	}
	return nil
}

// BaseAddress returns the load address of the dump image.
func (c *Config) BaseAddress() (procmem.Address, error) {
	if c.Base == "" {
		return 0, nil
	}
	addr, err := procmem.ParseAddress(c.Base)
	if err != nil {
		return 0, fmt.Errorf("%w: base %q: %v", ErrInvalid, c.Base, err)
	}
	return addr, nil
}

// RootAddresses parses the configured roots in order. At least one is
// required.
func (c *Config) RootAddresses() ([]procmem.Address, error) {
	if len(c.Roots) == 0 {
		return nil, fmt.Errorf("%w: no root addresses", ErrInvalid)
	}

	addrs := make([]procmem.Address, 0, len(c.Roots))
	for _, r := range c.Roots {
		addr, err := procmem.ParseAddress(r)
		if err != nil {
			return nil, fmt.Errorf("%w: root %q: %v", ErrInvalid, r, err)
		}
		if addr.IsNull() {
			return nil, fmt.Errorf("%w: root %q is null", ErrInvalid, r)
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}
