// Package config loads the YAML configuration of the turretaim
// command.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"zappem.net/pub/kinematics/turret/internal/log"
)

// Config holds every tunable of the command.
type Config struct {
	Log    log.Config `yaml:"log"`
	Server Server     `yaml:"server"`
	Batch  Batch      `yaml:"batch"`
}

// Server configures the aim service.
type Server struct {
	Addr string `yaml:"addr"`
	// DesignTime makes the service ask its client to rebuild the
	// named object after each solve.
	DesignTime bool `yaml:"design_time"`
	// ReadLimit caps the size in bytes of an inbound message.
	ReadLimit int64 `yaml:"read_limit"`
}

// Batch configures scenario solving.
type Batch struct {
	Workers int `yaml:"workers"`
}

// ErrInvalid is wrapped by errors describing unusable settings.
var ErrInvalid = errors.New("invalid config")

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log: log.Config{
			Level:    "info",
			Encoding: "json",
		},
		Server: Server{
			Addr:      ":8080",
			ReadLimit: 64 << 10,
		},
		Batch: Batch{
			Workers: runtime.NumCPU(),
		},
	}
}

// Load reads a YAML configuration on top of the defaults.
func Load(r io.Reader) (Config, error) {
	c := Default()
	if err := yaml.NewDecoder(r).Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadFile reads the configuration at path.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return Load(f)
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	if c.Batch.Workers < 1 {
		return fmt.Errorf("%w: batch.workers must be positive, got %d", ErrInvalid, c.Batch.Workers)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is empty", ErrInvalid)
	}
	if c.Server.ReadLimit < 0 {
		return fmt.Errorf("%w: server.read_limit is negative", ErrInvalid)
	}
	return nil
}
