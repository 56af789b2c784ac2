package voxeloctree

import (
	"context"
	"fmt"
	"time"

	"github.com/gekko3d/voxeloctree/voxelrt/rt/flatten"
	"github.com/gekko3d/voxeloctree/voxelrt/rt/octree"
	"github.com/gekko3d/voxeloctree/voxelrt/rt/volume"
)

// Result is everything a successful bake produced.
type Result struct {
	Asset  AssetId
	Tree   *octree.Octree
	Buffer *flatten.Buffer
	Report octree.Report
}

// Baker runs samples through construction and flattening and hands the buffer
// to Sink. A nil Sink skips the upload.
type Baker struct {
	Config  Config
	Logger  Logger
	Sink    TextureSink
	Profile Profile
}

func NewBaker(cfg Config, logger Logger, sink TextureSink) (*Baker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Baker{Config: cfg, Logger: logger, Sink: sink}, nil
}

func (b *Baker) Bake(ctx context.Context, src volume.Source) (*Result, error) {
	if err := b.Config.Validate(); err != nil {
		return nil, err
	}
	b.Profile.Reset()
	cfg := b.Config

	start := time.Now()
	tree, report, err := octree.BuildPartitioned(ctx, cfg.Depth, volume.Collect(src), cfg.Workers)
	b.Profile.BuildTime = time.Since(start)
	if err != nil {
		instrumentFailure(stageBuild)
		return nil, fmt.Errorf("build: %w", err)
	}
	pointsInserted.Add(float64(report.Inserted))
	pointsSkipped.Add(float64(report.Skipped))
	if report.Skipped > 0 {
		b.Logger.Warnf("skipped %d of %d samples: %v", report.Skipped, report.Skipped+report.Inserted, report.Err)
	}
	b.Logger.Debugf("built depth %d tree: %d nodes, %d leaves in %s", cfg.Depth, tree.Len(), tree.LeafCount(), b.Profile.BuildTime)

	start = time.Now()
	buf, err := flatten.Encoder{AddressBits: cfg.AddressBits}.Encode(tree)
	b.Profile.FlattenTime = time.Since(start)
	if err != nil {
		instrumentFailure(stageFlatten)
		return nil, fmt.Errorf("flatten: %w", err)
	}
	instrumentFlatten(start, buf.Layout.Internal)
	b.Logger.Debugf("flattened %d internal nodes into %d words (grid width %d)", buf.Layout.Internal, len(buf.Words), buf.Layout.GridWidth)

	res := &Result{
		Asset:  makeAssetId(),
		Tree:   tree,
		Buffer: buf,
		Report: report,
	}
	if b.Sink == nil {
		return res, nil
	}

	start = time.Now()
	err = b.Sink.Accept(res.Asset, buf)
	b.Profile.UploadTime = time.Since(start)
	if err != nil {
		instrumentFailure(stageUpload)
		return nil, fmt.Errorf("upload %s: %w", res.Asset, err)
	}
	b.Logger.Infof("baked %s: depth %d, %d voxels, %dx%dx%d texture", res.Asset, cfg.Depth, report.Inserted, buf.Layout.Dimension(), buf.Layout.Dimension(), buf.Layout.Layers())
	return res, nil
}
