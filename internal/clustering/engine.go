// Package clustering groups stations by their standardized feature vectors with
// seeded, restarted k-means. Labels of one Snapshot are arbitrary: comparing them
// with labels of another snapshot is meaningless until they pass through the
// tracking package.
package clustering

import (
	"fmt"
	"math/rand"
	"time"

	"bikeusage/domain/core"
	"bikeusage/domain/usage"
	"bikeusage/internal/features"

	"gonum.org/v1/gonum/mat"
)

// RawLabel is a cluster label as returned by one k-means run.
type RawLabel int

// Config controls one clustering run
type Config struct {
	K           int     `json:"k"`
	MinStations int     `json:"min_stations"`
	Restarts    int     `json:"restarts"`
	MaxIter     int     `json:"max_iter"`
	Tolerance   float64 `json:"tolerance"`
	Seed        int64   `json:"seed"`
}

// DefaultConfig returns k=3 with 20 restarts, seed 0 and at least 5 stations.
func DefaultConfig() Config {
	return Config{
		K:           3,
		MinStations: 5,
		Restarts:    20,
		MaxIter:     defaultMaxIter,
		Tolerance:   defaultTolerance,
		Seed:        0,
	}
}

// Validate rejects configurations that cannot be labeled or run.
func (c Config) Validate() error {
	if err := usage.ValidateK(c.K); err != nil {
		return err
	}
	if c.Restarts < 1 {
		return fmt.Errorf("restarts must be positive, got %d", c.Restarts)
	}
	if c.MinStations < 1 {
		return fmt.Errorf("min stations must be positive, got %d", c.MinStations)
	}
	return nil
}

// Snapshot is the clustering of all valid stations at one time cut.
type Snapshot struct {
	Date         time.Time
	Stations     []string
	Features     [][]float64 // raw DPI, WSD, SDI per station
	Standardized [][]float64
	Labels       []RawLabel
	Centroids    *mat.Dense // K x 3, standardized space
	Inertia      float64
	Scaler       *Scaler
}

// K returns the number of clusters.
func (s *Snapshot) K() int {
	r, _ := s.Centroids.Dims()
	return r
}

// Centroid returns a copy of centroid j.
func (s *Snapshot) Centroid(j int) []float64 {
	return mat.Row(nil, j, s.Centroids)
}

// LabelOf returns the raw label of station.
func (s *Snapshot) LabelOf(station string) (RawLabel, bool) {
	for i, name := range s.Stations {
		if name == station {
			return s.Labels[i], true
		}
	}
	return 0, false
}

// Engine runs k-means over feature tables
type Engine struct {
	cfg Config
}

// NewEngine validates cfg; an unsupported k is a configuration error.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.MaxIter <= 0 {
		cfg.MaxIter = defaultMaxIter
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = defaultTolerance
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Cluster standardizes the valid rows of table and runs k-means on them. Invalid
// rows are ignored. Fewer than max(K, MinStations) valid rows yields
// ErrInsufficientPopulation.
func (e *Engine) Cluster(table features.Table, date time.Time) (*Snapshot, error) {
	valid := table.Valid()
	need := e.cfg.K
	if e.cfg.MinStations > need {
		need = e.cfg.MinStations
	}
	if len(valid) < need {
		return nil, fmt.Errorf("%w: %d valid stations, need %d",
			core.ErrInsufficientPopulation, len(valid), need)
	}

	raw := valid.Matrix()
	scaler, err := FitScaler(raw)
	if err != nil {
		return nil, err
	}
	z := scaler.Transform(raw)

	rng := rand.New(rand.NewSource(e.cfg.Seed))
	res := kmeans(z, e.cfg.K, e.cfg.Restarts, e.cfg.MaxIter, e.cfg.Tolerance, rng)

	dims := len(z[0])
	centroids := mat.NewDense(e.cfg.K, dims, nil)
	for j, c := range res.centroids {
		centroids.SetRow(j, c)
	}
	labels := make([]RawLabel, len(res.labels))
	for i, l := range res.labels {
		labels[i] = RawLabel(l)
	}

	return &Snapshot{
		Date:         date,
		Stations:     valid.Stations(),
		Features:     raw,
		Standardized: z,
		Labels:       labels,
		Centroids:    centroids,
		Inertia:      res.inertia,
		Scaler:       scaler,
	}, nil
}
