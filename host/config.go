// Package host supplies the reference collaborators spec.md places out
// of scope for the core: a terminal frame consumer/input producer,
// disk-image file storage, and machine configuration.
package host

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the small YAML machine description cmd/tcpu loads to boot
// an emulator instance: which bytecode image to run, which disk image
// (if any) backs each removable slot, and how many cycles to advance
// per host tick.
type Config struct {
	Program        string   `yaml:"program"`
	Disk0          string   `yaml:"disk0,omitempty"`
	Disk1          string   `yaml:"disk1,omitempty"`
	CyclesPerFrame uint64   `yaml:"cycles_per_frame"`
	Keymap         []string `yaml:"keymap,omitempty"`
}

// DefaultCyclesPerFrame is used when a config omits cycles_per_frame.
const DefaultCyclesPerFrame = 20000

// LoadConfig reads and parses a machine config from path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("host: reading config %q: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("host: parsing config %q: %w", path, err)
	}
	if cfg.Program == "" {
		return Config{}, fmt.Errorf("host: config %q: program is required", path)
	}
	if cfg.CyclesPerFrame == 0 {
		cfg.CyclesPerFrame = DefaultCyclesPerFrame
	}
	return cfg, nil
}
