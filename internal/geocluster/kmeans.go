// Package geocluster partitions listing coordinates into spatial zones with
// seeded k-means, so zone labels are reproducible for a given batch.
package geocluster

import (
	"math"
	"math/rand"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

const maxIterations = 100

// Clusterer assigns categorical zone labels to coordinates. The cluster
// count is static configuration, not derived from data, and the seed is
// fixed so re-running on the same batch yields identical labels. Labels are
// only stable within a single batch run: a different batch may relabel zones.
type Clusterer struct {
	k    int
	seed int64

	centroids []geom.Coord
}

// New creates a Clusterer with the given cluster count and seed.
func New(k int, seed int64) *Clusterer {
	return &Clusterer{k: k, seed: seed}
}

// Fit partitions the points into k clusters and returns one label per point
// in input order. When the batch holds fewer points than k, the effective
// cluster count shrinks to the batch size.
func (c *Clusterer) Fit(points []geom.Coord) ([]int, error) {
	if len(points) == 0 {
		return nil, eris.New("geocluster: empty batch")
	}

	k := c.k
	if k <= 0 {
		return nil, eris.Errorf("geocluster: cluster count must be positive (got %d)", k)
	}
	if len(points) < k {
		k = len(points)
	}

	rng := rand.New(rand.NewSource(c.seed))

	// Seed centroids from k distinct input points.
	centroids := make([]geom.Coord, k)
	for i, idx := range rng.Perm(len(points))[:k] {
		centroids[i] = geom.Coord{points[idx].X(), points[idx].Y()}
	}

	labels := make([]int, len(points))
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// Recompute centroids; an emptied cluster keeps its previous position.
		sumX := make([]float64, k)
		sumY := make([]float64, k)
		count := make([]int, k)
		for i, p := range points {
			sumX[labels[i]] += p.X()
			sumY[labels[i]] += p.Y()
			count[labels[i]]++
		}
		for j := 0; j < k; j++ {
			if count[j] > 0 {
				centroids[j] = geom.Coord{sumX[j] / float64(count[j]), sumY[j] / float64(count[j])}
			}
		}
	}

	c.centroids = centroids
	zap.L().Debug("geocluster: fit complete",
		zap.Int("points", len(points)),
		zap.Int("clusters", k),
	)
	return labels, nil
}

// Centroids returns the centroids from the last Fit, in label order. A
// caller needing cross-run label comparability can persist these and assign
// new points to the nearest persisted centroid instead of re-fitting.
func (c *Clusterer) Centroids() []geom.Coord {
	return c.centroids
}

// Assign returns the label of the nearest fitted centroid for a point.
func (c *Clusterer) Assign(p geom.Coord) (int, error) {
	if len(c.centroids) == 0 {
		return 0, eris.New("geocluster: not fitted")
	}
	return nearestCentroid(p, c.centroids), nil
}

// nearestCentroid uses squared planar distance; the batch covers one city,
// so the planar approximation cannot change a nearest-centroid outcome.
func nearestCentroid(p geom.Coord, centroids []geom.Coord) int {
	best := 0
	bestD := math.Inf(1)
	for j, ctr := range centroids {
		dx := p.X() - ctr.X()
		dy := p.Y() - ctr.Y()
		if d := dx*dx + dy*dy; d < bestD {
			bestD = d
			best = j
		}
	}
	return best
}
