// Package tracking keeps cluster identity stable across a timeline of independent
// k-means runs by matching each snapshot's centroids to the previous aligned ones.
package tracking

import (
	"errors"
	"fmt"

	"bikeusage/internal/clustering"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ClusterID is a cluster identity that is comparable across snapshots of one
// timeline. Only the Tracker issues it.
type ClusterID int

// AlignedSnapshot is a snapshot relabeled into the timeline's label space.
type AlignedSnapshot struct {
	*clustering.Snapshot
	Clusters  []ClusterID // per station, parallel to Snapshot.Stations
	Mapping   []ClusterID // raw label -> ClusterID
	Centroids *mat.Dense  // row i is the centroid of ClusterID i
	Cost      float64     // total centroid displacement to the previous reference
	Reference bool        // true for the first snapshot, which defines the label space
}

// Assignments returns the aligned cluster of every clustered station.
func (a *AlignedSnapshot) Assignments() map[string]ClusterID {
	out := make(map[string]ClusterID, len(a.Stations))
	for i, name := range a.Stations {
		out[name] = a.Clusters[i]
	}
	return out
}

// Tracker aligns snapshots in timeline order. It is not safe for concurrent use.
type Tracker struct {
	previous *mat.Dense
}

// NewTracker returns a tracker with no reference snapshot.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Reset forgets the reference snapshot.
func (t *Tracker) Reset() {
	t.previous = nil
}

// Align relabels s against the last aligned snapshot and makes the result the new
// reference. The first snapshot is taken as-is.
func (t *Tracker) Align(s *clustering.Snapshot) (*AlignedSnapshot, error) {
	if s == nil {
		return nil, errors.New("nil snapshot")
	}
	k := s.K()

	if t.previous == nil {
		mapping := make([]ClusterID, k)
		for j := range mapping {
			mapping[j] = ClusterID(j)
		}
		aligned := relabel(s, mapping, 0)
		aligned.Reference = true
		t.previous = aligned.Centroids
		return aligned, nil
	}

	pk, _ := t.previous.Dims()
	if pk != k {
		return nil, fmt.Errorf("snapshot has %d clusters, timeline has %d", k, pk)
	}

	cost := CentroidDistances(t.previous, s.Centroids)
	assignment, err := Solve(cost)
	if err != nil {
		return nil, err
	}

	mapping := make([]ClusterID, k)
	for prev, raw := range assignment {
		mapping[raw] = ClusterID(prev)
	}
	aligned := relabel(s, mapping, assignment.Cost(cost))
	t.previous = aligned.Centroids
	return aligned, nil
}

// Track aligns snapshots in order, skipping nil entries left by failed clustering
// runs so the chain continues from the last successful one.
func (t *Tracker) Track(snapshots []*clustering.Snapshot) ([]*AlignedSnapshot, error) {
	out := make([]*AlignedSnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if s == nil {
			continue
		}
		a, err := t.Align(s)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// CentroidDistances returns cost[i][j] = ||prev_i - cur_j||.
func CentroidDistances(prev, cur mat.Matrix) *mat.Dense {
	pr, _ := prev.Dims()
	cr, _ := cur.Dims()
	cost := mat.NewDense(pr, cr, nil)
	for i := 0; i < pr; i++ {
		a := mat.Row(nil, i, prev)
		for j := 0; j < cr; j++ {
			cost.Set(i, j, floats.Distance(a, mat.Row(nil, j, cur), 2))
		}
	}
	return cost
}

func relabel(s *clustering.Snapshot, mapping []ClusterID, cost float64) *AlignedSnapshot {
	k, dims := s.Centroids.Dims()
	centroids := mat.NewDense(k, dims, nil)
	for raw, id := range mapping {
		centroids.SetRow(int(id), s.Centroid(raw))
	}
	clusters := make([]ClusterID, len(s.Labels))
	for i, l := range s.Labels {
		clusters[i] = mapping[l]
	}
	return &AlignedSnapshot{
		Snapshot:  s,
		Clusters:  clusters,
		Mapping:   mapping,
		Centroids: centroids,
		Cost:      cost,
	}
}
