package octree

import (
	"context"
	"fmt"
	"iter"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/gekko3d/voxeloctree/voxelrt/rt/volume"
)

// maxReportedErrors caps how many individual rejections a Report keeps. Skipped
// still counts every one of them.
const maxReportedErrors = 16

// cancelCheckInterval is how many samples a builder inserts between context checks.
const cancelCheckInterval = 4096

// Report summarises a bulk insertion.
type Report struct {
	Inserted int
	Skipped  int
	// Err combines the first rejections; nil when nothing was skipped.
	Err error
}

func (r *Report) reject(err error) {
	r.Skipped++
	if r.Skipped <= maxReportedErrors {
		r.Err = multierr.Append(r.Err, err)
	}
}

func (r *Report) merge(o Report) {
	r.Inserted += o.Inserted
	for _, err := range multierr.Errors(o.Err) {
		if len(multierr.Errors(r.Err)) < maxReportedErrors {
			r.Err = multierr.Append(r.Err, err)
		}
	}
	r.Skipped += o.Skipped
}

// InsertAll inserts every sample of seq. Rejected samples are counted and
// reported, never dropped silently.
func (t *Octree) InsertAll(seq iter.Seq[volume.Sample]) Report {
	var r Report
	for s := range seq {
		if err := t.Insert(s.X, s.Y, s.Z, s.Value); err != nil {
			r.reject(err)
			continue
		}
		r.Inserted++
	}
	return r
}

// BuildPartitioned builds a depth-D tree from samples on up to workers goroutines.
// Samples are split by root octant so every worker owns a disjoint region of the
// grid and its own arena; the regions are grafted together in octant order once
// all workers are done. Within a region samples keep their input order, so the
// last-write-wins rule matches a sequential build.
func BuildPartitioned(ctx context.Context, depth int, samples []volume.Sample, workers int) (*Octree, Report, error) {
	t, err := New(depth)
	if err != nil {
		return nil, Report{}, err
	}
	if depth == 0 || workers <= 1 {
		r, err := insertWithContext(ctx, t, samples)
		return t, r, err
	}

	var (
		report  Report
		buckets [8][]volume.Sample
	)
	for _, s := range samples {
		if !t.contains(s.X, s.Y, s.Z) {
			report.reject(&CoordinateError{X: s.X, Y: s.Y, Z: s.Z, Resolution: t.Resolution()})
			continue
		}
		o := Octant(0, depth, s.X, s.Y, s.Z)
		buckets[o] = append(buckets[o], s)
	}

	var (
		parts   [8]*Octree
		reports [8]Report
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for o := range buckets {
		if len(buckets[o]) == 0 {
			continue
		}
		g.Go(func() error {
			part, err := New(depth)
			if err != nil {
				return err
			}
			r, err := insertWithContext(gctx, part, buckets[o])
			if err != nil {
				return fmt.Errorf("octant %d: %w", o, err)
			}
			parts[o] = part
			reports[o] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Report{}, err
	}

	for o, part := range parts {
		if part == nil {
			continue
		}
		report.merge(reports[o])
		sub := part.nodes[RootID].Children[o]
		if sub == NoNode {
			continue
		}
		t.nodes[RootID].Children[o] = t.graft(part, sub)
		t.nodes[RootID].Empty = false
		t.leaves += part.leaves
	}
	return t, report, nil
}

func insertWithContext(ctx context.Context, t *Octree, samples []volume.Sample) (Report, error) {
	var r Report
	for i, s := range samples {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return r, err
			}
		}
		if err := t.Insert(s.X, s.Y, s.Z, s.Value); err != nil {
			r.reject(err)
			continue
		}
		r.Inserted++
	}
	return r, nil
}

// graft copies the subtree rooted at id in src into t and returns its new ID.
func (t *Octree) graft(src *Octree, id NodeID) NodeID {
	n := src.nodes[id]
	dst := t.alloc(Node{Value: n.Value, Leaf: n.Leaf, Empty: n.Empty})
	for i, c := range n.Children {
		if c == NoNode {
			continue
		}
		child := t.graft(src, c)
		t.nodes[dst].Children[i] = child
	}
	return dst
}
