package voxeloctree

import (
	"errors"
	"fmt"
	"io"

	"github.com/segmentio/encoding/json"

	"github.com/gekko3d/voxeloctree/voxelrt/rt/flatten"
	"github.com/gekko3d/voxeloctree/voxelrt/rt/octree"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config controls a bake. The zero value is not usable; start from DefaultConfig.
type Config struct {
	// Depth is the octree depth D; the grid is 2^D voxels per axis.
	Depth int `json:"depth"`
	// AddressBits caps the pointer width, 1..28.
	AddressBits int `json:"address_bits"`
	// Workers > 1 builds the root octants concurrently.
	Workers   int    `json:"workers"`
	LogPrefix string `json:"log_prefix"`
	Debug     bool   `json:"debug"`
}

func DefaultConfig() Config {
	return Config{
		Depth:       6,
		AddressBits: flatten.MaxAddressBits,
		Workers:     1,
		LogPrefix:   "voxeloctree",
	}
}

func (c Config) Validate() error {
	if c.Depth < 0 || c.Depth > octree.MaxDepth {
		return fmt.Errorf("%w: %w: %d (want 0..%d)", ErrInvalidConfig, octree.ErrInvalidDepth, c.Depth, octree.MaxDepth)
	}
	if c.AddressBits < 1 || c.AddressBits > flatten.MaxAddressBits {
		return fmt.Errorf("%w: address_bits %d (want 1..%d)", ErrInvalidConfig, c.AddressBits, flatten.MaxAddressBits)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// LoadConfig reads a JSON config on top of DefaultConfig. Unknown keys are
// rejected.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
