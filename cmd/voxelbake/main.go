// Command voxelbake builds a sparse voxel octree from a procedural shape or a
// MagicaVoxel model and writes the flattened word buffer, its manifest and an
// optional slice preview.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/urfave/cli/v2"

	"github.com/gekko3d/voxeloctree"
	"github.com/gekko3d/voxeloctree/voxelrt/rt/gpu"
	"github.com/gekko3d/voxeloctree/voxelrt/rt/volume"
)

const (
	flagConfig      = "config"
	flagDepth       = "depth"
	flagAddressBits = "address-bits"
	flagWorkers     = "workers"
	flagShape       = "shape"
	flagVox         = "vox"
	flagVoxModel    = "vox-model"
	flagOut         = "out"
	flagManifest    = "manifest"
	flagPreview     = "preview"
	flagPreviewZ    = "preview-z"
	flagGPU         = "gpu"
	flagDebug       = "debug"
)

func main() {
	app := &cli.App{
		Name:  "voxelbake",
		Usage: "bake voxels into a flat octree texture buffer",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.IntFlag{
				Name:  flagDepth,
				Usage: "octree depth; the grid is 2^depth voxels per axis",
			},
			&cli.IntFlag{
				Name:  flagAddressBits,
				Usage: "pointer width in bits (1..28)",
			},
			&cli.IntFlag{
				Name:  flagWorkers,
				Usage: "build root octants on this many goroutines",
			},
			&cli.StringFlag{
				Name:  flagShape,
				Value: "shell",
				Usage: "procedural volume: shell, sphere or cube",
			},
			&cli.StringFlag{
				Name:  flagVox,
				Usage: "bake a MagicaVoxel `FILE` instead of a shape",
			},
			&cli.IntFlag{
				Name:  flagVoxModel,
				Usage: "model index inside the .vox file",
			},
			&cli.StringFlag{
				Name:  flagOut,
				Value: "octree.bin",
				Usage: "raw little-endian word buffer output",
			},
			&cli.StringFlag{
				Name:  flagManifest,
				Value: "octree.json",
				Usage: "manifest output",
			},
			&cli.StringFlag{
				Name:  flagPreview,
				Usage: "write a BMP of one z-slice to `FILE`",
			},
			&cli.IntFlag{
				Name:  flagPreviewZ,
				Value: -1,
				Usage: "slice for --preview (default: middle)",
			},
			&cli.BoolFlag{
				Name:  flagGPU,
				Usage: "also upload the buffer as a 3D texture on a headless GPU device",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Action: bake,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (voxeloctree.Config, error) {
	cfg := voxeloctree.DefaultConfig()
	if path := c.String(flagConfig); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		if cfg, err = voxeloctree.LoadConfig(f); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	if c.IsSet(flagDepth) {
		cfg.Depth = c.Int(flagDepth)
	}
	if c.IsSet(flagAddressBits) {
		cfg.AddressBits = c.Int(flagAddressBits)
	}
	if c.IsSet(flagWorkers) {
		cfg.Workers = c.Int(flagWorkers)
	}
	if c.Bool(flagDebug) {
		cfg.Debug = true
	}
	return cfg, nil
}

// source picks the volume to bake. A .vox model without an explicit depth gets
// the smallest depth that holds it.
func source(c *cli.Context, cfg *voxeloctree.Config) (volume.Source, error) {
	if path := c.String(flagVox); path != "" {
		vf, err := volume.OpenVox(path)
		if err != nil {
			return nil, err
		}
		model := c.Int(flagVoxModel)
		src, err := vf.Source(model)
		if err != nil {
			return nil, err
		}
		if !c.IsSet(flagDepth) {
			cfg.Depth = vf.Models[model].DepthFor()
		}
		return src, nil
	}

	d := volume.NewDense(cfg.Depth)
	size := float32(d.Size)
	switch shape := c.String(flagShape); shape {
	case "shell":
		volume.Shell(d, 0.95, 1.0)
	case "sphere":
		volume.Sphere(d, mgl32.Vec3{size / 2, size / 2, size / 2}, size/2, 0xFF8040)
	case "cube":
		volume.Cube(d, mgl32.Vec3{size / 4, size / 4, size / 4}, mgl32.Vec3{3 * size / 4, 3 * size / 4, 3 * size / 4}, 0x40A0FF)
	default:
		return nil, fmt.Errorf("unknown shape %q", shape)
	}
	return d, nil
}

func bake(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	src, err := source(c, &cfg)
	if err != nil {
		return err
	}
	logger := voxeloctree.NewDefaultLogger(cfg.LogPrefix, cfg.Debug)

	var sink voxeloctree.TextureSink
	if c.Bool(flagGPU) {
		device, queue, err := gpu.NewHeadlessDevice()
		if err != nil {
			return err
		}
		defer device.Release()
		gpuSink := gpu.NewTextureSink(device, queue)
		defer gpuSink.Release()
		sink = gpuSink
	}

	baker, err := voxeloctree.NewBaker(cfg, logger, sink)
	if err != nil {
		return err
	}
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := baker.Bake(ctx, src)
	if err != nil {
		return err
	}

	if err := writeFile(c.String(flagOut), func(f *os.File) error {
		return voxeloctree.WriteBuffer(f, res.Buffer)
	}); err != nil {
		return err
	}
	if err := writeFile(c.String(flagManifest), func(f *os.File) error {
		return voxeloctree.WriteManifest(f, voxeloctree.NewManifest(res, cfg))
	}); err != nil {
		return err
	}
	if path := c.String(flagPreview); path != "" {
		z := c.Int(flagPreviewZ)
		if z < 0 {
			z = (1 << uint(cfg.Depth)) / 2
		}
		if err := writeFile(path, func(f *os.File) error {
			return voxeloctree.WriteSliceBMP(f, res.Buffer, z)
		}); err != nil {
			return err
		}
	}

	logger.Infof("wrote %s (%s)", c.String(flagOut), &baker.Profile)
	return nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
