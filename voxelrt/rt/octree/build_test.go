package octree

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/gekko3d/voxeloctree/voxelrt/rt/volume"
)

func randomSamples(depth, n int, seed int64) []volume.Sample {
	rng := rand.New(rand.NewSource(seed))
	size := 1 << depth
	out := make([]volume.Sample, n)
	for i := range out {
		out[i] = volume.Sample{
			X:     rng.Intn(size),
			Y:     rng.Intn(size),
			Z:     rng.Intn(size),
			Value: uint32(rng.Intn(MaxValue + 1)),
		}
	}
	return out
}

func TestInsertAllCountsRejections(t *testing.T) {
	tree, err := New(2)
	require.NoError(t, err)

	pts := volume.Points{
		{X: 0, Y: 0, Z: 0, Value: 1},
		{X: 4, Y: 0, Z: 0, Value: 2},
		{X: 1, Y: 1, Z: 1, Value: 0x1000000},
		{X: 3, Y: 3, Z: 3, Value: 3},
	}
	r := tree.InsertAll(pts.Samples())

	assert.Equal(t, 2, r.Inserted)
	assert.Equal(t, 2, r.Skipped)
	require.Error(t, r.Err)
	errs := multierr.Errors(r.Err)
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], ErrOutOfRange)
	assert.ErrorIs(t, errs[1], ErrValueTooWide)
}

func TestInsertAllCapsReportedErrors(t *testing.T) {
	tree, err := New(1)
	require.NoError(t, err)

	var pts volume.Points
	for i := 0; i < 100; i++ {
		pts = append(pts, volume.Sample{X: 2 + i, Value: 1})
	}
	r := tree.InsertAll(pts.Samples())

	assert.Equal(t, 0, r.Inserted)
	assert.Equal(t, 100, r.Skipped)
	assert.Len(t, multierr.Errors(r.Err), maxReportedErrors)
}

func TestBuildPartitionedMatchesSequential(t *testing.T) {
	const depth = 5
	samples := randomSamples(depth, 3000, 42)
	samples = append(samples, volume.Sample{X: 99, Value: 1})

	seq, err := New(depth)
	require.NoError(t, err)
	seqReport := seq.InsertAll(volume.Points(samples).Samples())

	par, parReport, err := BuildPartitioned(context.Background(), depth, samples, 4)
	require.NoError(t, err)

	assert.Equal(t, seqReport.Inserted, parReport.Inserted)
	assert.Equal(t, seqReport.Skipped, parReport.Skipped)
	assert.Equal(t, seq.Len(), par.Len())
	assert.Equal(t, seq.LeafCount(), par.LeafCount())
	assert.Equal(t, seq.InternalCount(), par.InternalCount())

	for _, s := range samples[:len(samples)-1] {
		want, ok := seq.Get(s.X, s.Y, s.Z)
		require.True(t, ok)
		got, ok := par.Get(s.X, s.Y, s.Z)
		require.True(t, ok)
		require.Equal(t, want, got, "at (%d, %d, %d)", s.X, s.Y, s.Z)
	}
}

func TestBuildPartitionedSingleWorker(t *testing.T) {
	samples := randomSamples(3, 50, 7)
	tree, r, err := BuildPartitioned(context.Background(), 3, samples, 1)
	require.NoError(t, err)
	assert.Equal(t, 50, r.Inserted)
	assert.NotZero(t, tree.LeafCount())
}

func TestBuildPartitionedCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := BuildPartitioned(ctx, 4, randomSamples(4, 100, 1), 4)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuildPartitionedInvalidDepth(t *testing.T) {
	_, _, err := BuildPartitioned(context.Background(), MaxDepth+1, nil, 2)
	require.ErrorIs(t, err, ErrInvalidDepth)
}
