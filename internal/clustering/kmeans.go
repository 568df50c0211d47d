package clustering

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

const (
	defaultMaxIter   = 300
	defaultTolerance = 1e-6
)

// kmeansResult is one Lloyd run.
type kmeansResult struct {
	labels    []int
	centroids [][]float64
	inertia   float64
}

// kmeans runs restarts independent k-means++ initialised Lloyd iterations drawn
// from rng and keeps the run with the lowest within-cluster sum of squares.
// Ties keep the earlier run.
func kmeans(points [][]float64, k, restarts, maxIter int, tol float64, rng *rand.Rand) kmeansResult {
	var best kmeansResult
	best.inertia = math.Inf(1)
	for r := 0; r < restarts; r++ {
		res := lloyd(points, seedPlusPlus(points, k, rng), maxIter, tol)
		if res.inertia < best.inertia {
			best = res
		}
	}
	return best
}

// seedPlusPlus picks k initial centroids with D² weighting.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := points[rng.Intn(len(points))]
	centroids = append(centroids, append([]float64(nil), first...))

	dist := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d := nearestSquared(p, centroids)
			dist[i] = d
			total += d
		}
		var next int
		if total == 0 {
			// all remaining points coincide with a centroid
			next = rng.Intn(len(points))
		} else {
			target := rng.Float64() * total
			acc := 0.0
			next = len(points) - 1
			for i, d := range dist {
				acc += d
				if acc >= target {
					next = i
					break
				}
			}
		}
		centroids = append(centroids, append([]float64(nil), points[next]...))
	}
	return centroids
}

func nearestSquared(p []float64, centroids [][]float64) float64 {
	best := math.Inf(1)
	for _, c := range centroids {
		d := floats.Distance(p, c, 2)
		if d*d < best {
			best = d * d
		}
	}
	return best
}

func nearest(p []float64, centroids [][]float64) (int, float64) {
	idx, best := 0, math.Inf(1)
	for j, c := range centroids {
		d := floats.Distance(p, c, 2)
		if d < best {
			idx, best = j, d
		}
	}
	return idx, best * best
}

// lloyd alternates assignment and update until no label changes, the centroid
// shift drops below tol, or maxIter is reached. An emptied cluster is reseeded
// with the point farthest from its centroid. The returned labels always come
// from an assignment pass against the returned centroids unless that pass would
// empty a cluster.
func lloyd(points [][]float64, centroids [][]float64, maxIter int, tol float64) kmeansResult {
	k := len(centroids)
	dims := len(points[0])
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}

	prev := make([]int, len(points))
	settled := false
	for iter := 0; ; iter++ {
		copy(prev, labels)
		changed := false
		for i, p := range points {
			j, _ := nearest(p, centroids)
			if labels[i] != j {
				labels[i] = j
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}
		if settled || iter >= maxIter {
			if iter > 0 && emptiesCluster(labels, k) {
				copy(labels, prev)
			}
			break
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for j := range sums {
			sums[j] = make([]float64, dims)
		}
		for i, p := range points {
			floats.Add(sums[labels[i]], p)
			counts[labels[i]]++
		}

		for j := 0; j < k; j++ {
			if counts[j] > 0 {
				continue
			}
			far := farthestPoint(points, labels, centroids, counts)
			src := labels[far]
			floats.Sub(sums[src], points[far])
			counts[src]--
			labels[far] = j
			sums[j] = append([]float64(nil), points[far]...)
			counts[j] = 1
		}

		shift := 0.0
		for j := 0; j < k; j++ {
			floats.Scale(1/float64(counts[j]), sums[j])
			shift += floats.Distance(sums[j], centroids[j], 2)
			centroids[j] = sums[j]
		}
		if shift < tol {
			settled = true
		}
	}

	inertia := 0.0
	for i, p := range points {
		d := floats.Distance(p, centroids[labels[i]], 2)
		inertia += d * d
	}
	return kmeansResult{labels: labels, centroids: centroids, inertia: inertia}
}

func emptiesCluster(labels []int, k int) bool {
	counts := make([]int, k)
	for _, l := range labels {
		counts[l]++
	}
	for _, c := range counts {
		if c == 0 {
			return true
		}
	}
	return false
}

// farthestPoint only considers points whose cluster would not be emptied by moving them.
func farthestPoint(points [][]float64, labels []int, centroids [][]float64, counts []int) int {
	idx, best := 0, -1.0
	for i, p := range points {
		if counts[labels[i]] < 2 {
			continue
		}
		d := floats.Distance(p, centroids[labels[i]], 2)
		if d > best {
			idx, best = i, d
		}
	}
	return idx
}
