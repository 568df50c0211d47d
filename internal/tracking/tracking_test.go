package tracking

import (
	"testing"
	"time"

	"bikeusage/internal/clustering"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func snapshot(centroids [][]float64, stations []string, labels []clustering.RawLabel) *clustering.Snapshot {
	c := mat.NewDense(len(centroids), len(centroids[0]), nil)
	for i, row := range centroids {
		c.SetRow(i, row)
	}
	return &clustering.Snapshot{
		Date:      time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Stations:  stations,
		Labels:    labels,
		Centroids: c,
	}
}

func TestSolve_Optimal(t *testing.T) {
	// greedy row-by-row would take (0,0)=1 and then pay 100
	cost := mat.NewDense(3, 3, []float64{
		1, 2, 100,
		2, 100, 100,
		100, 3, 4,
	})
	a, err := Solve(cost)
	require.NoError(t, err)
	assert.Equal(t, Assignment{1, 0, 2}, a)
	assert.Equal(t, 8.0, a.Cost(cost))

	cost = mat.NewDense(3, 3, []float64{
		9, 2, 7,
		6, 4, 3,
		5, 8, 1,
	})
	a, err = Solve(cost)
	require.NoError(t, err)
	assert.Equal(t, Assignment{1, 0, 2}, a)
	assert.Equal(t, 9.0, a.Cost(cost))
}

func TestSolve_Rejects(t *testing.T) {
	_, err := Solve(mat.NewDense(2, 3, nil))
	assert.Error(t, err)

	a, err := Solve(mat.NewDense(1, 1, []float64{7}))
	require.NoError(t, err)
	assert.Equal(t, Assignment{0}, a)
}

func TestTracker_RecoversPermutation(t *testing.T) {
	base := [][]float64{
		{-1.2, -0.8, 1.0},
		{0.1, 0.2, -0.3},
		{1.4, 1.1, -0.9},
	}
	stations := []string{"a", "b", "c"}

	tr := NewTracker()
	first, err := tr.Align(snapshot(base, stations, []clustering.RawLabel{0, 1, 2}))
	require.NoError(t, err)
	assert.True(t, first.Reference)
	assert.Equal(t, []ClusterID{0, 1, 2}, first.Mapping)

	// raw label j of the second run is cluster sigma[j] of the first
	sigma := []int{2, 0, 1}
	permuted := make([][]float64, 3)
	for j, s := range sigma {
		permuted[j] = base[s]
	}
	rawLabels := []clustering.RawLabel{1, 2, 0} // a, b, c keep their clusters
	second, err := tr.Align(snapshot(permuted, stations, rawLabels))
	require.NoError(t, err)

	assert.False(t, second.Reference)
	assert.Equal(t, []ClusterID{2, 0, 1}, second.Mapping)
	assert.Equal(t, 0.0, second.Cost)
	assert.Equal(t, []ClusterID{0, 1, 2}, second.Clusters)
	assert.True(t, mat.Equal(first.Centroids, second.Centroids))
	assert.Equal(t, map[string]ClusterID{"a": 0, "b": 1, "c": 2}, second.Assignments())
}

func TestTracker_SkipsFailedSnapshots(t *testing.T) {
	base := [][]float64{{0, 0}, {5, 5}}
	swapped := [][]float64{{5.1, 5}, {0, 0.1}}
	stations := []string{"x", "y"}

	aligned, err := NewTracker().Track([]*clustering.Snapshot{
		snapshot(base, stations, []clustering.RawLabel{0, 1}),
		nil,
		snapshot(swapped, stations, []clustering.RawLabel{1, 0}),
	})
	require.NoError(t, err)
	require.Len(t, aligned, 2)
	assert.Equal(t, []ClusterID{1, 0}, aligned[1].Mapping)
	assert.Equal(t, []ClusterID{0, 1}, aligned[1].Clusters)
	assert.InDelta(t, 0.2, aligned[1].Cost, 1e-12)
}

func TestTracker_MismatchedK(t *testing.T) {
	tr := NewTracker()
	_, err := tr.Align(snapshot([][]float64{{0}, {1}}, []string{"a", "b"}, []clustering.RawLabel{0, 1}))
	require.NoError(t, err)
	_, err = tr.Align(snapshot([][]float64{{0}, {1}, {2}}, []string{"a", "b", "c"}, []clustering.RawLabel{0, 1, 2}))
	assert.Error(t, err)

	tr.Reset()
	_, err = tr.Align(snapshot([][]float64{{0}, {1}, {2}}, []string{"a", "b", "c"}, []clustering.RawLabel{0, 1, 2}))
	assert.NoError(t, err)
}
