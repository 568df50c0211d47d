package clustering

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"bikeusage/domain/core"
	"bikeusage/internal/features"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cut = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

// blobTable builds perGroup stations around each center with small jitter.
func blobTable(centers [][3]float64, perGroup int, seed int64) features.Table {
	rng := rand.New(rand.NewSource(seed))
	var t features.Table
	for g, c := range centers {
		for i := 0; i < perGroup; i++ {
			t = append(t, features.Row{
				Station: fmt.Sprintf("g%d-s%d", g, i),
				Vector: features.Vector{
					DPI:   c[0] + rng.NormFloat64()*0.01,
					WSD:   c[1] + rng.NormFloat64()*0.01,
					SDI:   c[2] + rng.NormFloat64()*0.01,
					Valid: true,
				},
			})
		}
	}
	return t
}

var threeBlobs = [][3]float64{
	{0.05, 0.02, 0.2},
	{0.30, 0.15, 0.5},
	{0.60, 0.35, 0.8},
}

func TestFitScaler(t *testing.T) {
	s, err := FitScaler([][]float64{{1, 5}, {3, 5}})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 5}, s.Mean)
	// population std of {1,3} is 1; constant column gets unit scale
	assert.Equal(t, []float64{1, 1}, s.Stddev)

	z := s.Transform([][]float64{{1, 5}, {3, 5}})
	assert.Equal(t, [][]float64{{-1, 0}, {1, 0}}, z)
	assert.Equal(t, []float64{3, 5}, s.Inverse([]float64{1, 0}))

	_, err = FitScaler(nil)
	assert.Error(t, err)
}

func TestEngine_RecoversSeparatedGroups(t *testing.T) {
	engine, err := NewEngine(DefaultConfig())
	require.NoError(t, err)

	table := blobTable(threeBlobs, 5, 7)
	snap, err := engine.Cluster(table, cut)
	require.NoError(t, err)

	assert.Equal(t, 3, snap.K())
	assert.Equal(t, table.Stations(), snap.Stations)
	assert.Equal(t, cut, snap.Date)

	groupLabel := make(map[int]RawLabel)
	for i, name := range snap.Stations {
		var g, s int
		_, err := fmt.Sscanf(name, "g%d-s%d", &g, &s)
		require.NoError(t, err)
		if l, ok := groupLabel[g]; ok {
			assert.Equal(t, l, snap.Labels[i], "station %s split from its group", name)
		} else {
			groupLabel[g] = snap.Labels[i]
		}
	}
	assert.Len(t, groupLabel, 3)
	assert.NotEqual(t, groupLabel[0], groupLabel[1])
	assert.NotEqual(t, groupLabel[1], groupLabel[2])
	assert.NotEqual(t, groupLabel[0], groupLabel[2])
}

func TestEngine_Deterministic(t *testing.T) {
	engine, err := NewEngine(DefaultConfig())
	require.NoError(t, err)
	table := blobTable(threeBlobs, 4, 3)

	a, err := engine.Cluster(table, cut)
	require.NoError(t, err)
	b, err := engine.Cluster(table, cut)
	require.NoError(t, err)

	assert.Equal(t, a.Labels, b.Labels)
	assert.InDelta(t, a.Inertia, b.Inertia, 1e-12)
}

func TestEngine_IgnoresInvalidRows(t *testing.T) {
	engine, err := NewEngine(DefaultConfig())
	require.NoError(t, err)
	table := blobTable(threeBlobs, 2, 1)
	table = append(table, features.Row{Station: "broken", Vector: features.Invalid(core.ErrInsufficientData)})

	snap, err := engine.Cluster(table, cut)
	require.NoError(t, err)
	assert.NotContains(t, snap.Stations, "broken")
	assert.Len(t, snap.Labels, 6)
	_, ok := snap.LabelOf("broken")
	assert.False(t, ok)
}

func TestEngine_InsufficientPopulation(t *testing.T) {
	engine, err := NewEngine(DefaultConfig())
	require.NoError(t, err)

	table := blobTable(threeBlobs[:2], 2, 1) // 4 valid < min 5
	_, err = engine.Cluster(table, cut)
	assert.ErrorIs(t, err, core.ErrInsufficientPopulation)

	cfg := DefaultConfig()
	cfg.K, cfg.MinStations = 4, 1
	engine, err = NewEngine(cfg)
	require.NoError(t, err)
	_, err = engine.Cluster(blobTable(threeBlobs[:1], 3, 1), cut)
	assert.ErrorIs(t, err, core.ErrInsufficientPopulation)
}

func TestNewEngine_UnsupportedK(t *testing.T) {
	for _, k := range []int{0, 1, 5} {
		cfg := DefaultConfig()
		cfg.K = k
		_, err := NewEngine(cfg)
		assert.ErrorIs(t, err, core.ErrUnsupportedK, "k=%d", k)
	}
}

func TestKMeans_NoEmptyClusters(t *testing.T) {
	// duplicated points force empty clusters during Lloyd iterations
	points := [][]float64{{0, 0}, {0, 0}, {0, 0}, {1, 1}, {1, 1}}
	res := kmeans(points, 3, 5, 100, 1e-9, rand.New(rand.NewSource(0)))
	counts := make([]int, 3)
	for _, l := range res.labels {
		counts[l]++
	}
	for j, c := range counts {
		assert.Positive(t, c, "cluster %d empty", j)
	}
}

func TestLloyd_LabelsFollowFinalCentroids(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	var points [][]float64
	for i := 0; i < 40; i++ {
		points = append(points, []float64{rng.Float64() * 10, rng.Float64() * 10})
	}
	seeds := [][]float64{{0, 0}, {10, 0}, {5, 10}}

	// a huge tolerance stops right after the first update
	res := lloyd(points, seeds, 100, 1e9)

	inertia := 0.0
	for i, p := range points {
		j, d := nearest(p, res.centroids)
		assert.Equal(t, j, res.labels[i], "point %d", i)
		inertia += d
	}
	assert.InDelta(t, inertia, res.inertia, 1e-9)
}

func TestAdjustedRandIndex(t *testing.T) {
	a := map[string]int{"a": 0, "b": 0, "c": 1, "d": 1}
	permuted := map[string]int{"a": 5, "b": 5, "c": 2, "d": 2}
	assert.InDelta(t, 1.0, AdjustedRandIndex(a, permuted), 1e-12)

	split := map[string]int{"a": 0, "b": 0, "c": 1, "d": 2}
	assert.InDelta(t, 4.0/7.0, AdjustedRandIndex(a, split), 1e-12)

	assert.Equal(t, 0.0, AdjustedRandIndex(a, map[string]int{"x": 1}))
}
