package cluster

import (
	"math"
	"sort"

	"github.com/gonum/floats"
)

const (
	// DefaultK mirrors the three thematic groups the dashboards cluster into.
	DefaultK      = 3
	maxIterations = 100
)

// Result holds the cluster assignment for a title corpus.
type Result struct {
	Assignments []int      // index-aligned with the input titles
	Keywords    [][]string // top terms per cluster, len == K
	K           int
}

// Run clusters post titles into k thematic groups using TF-IDF vectors and
// k-means with cosine distance. k is clamped to the corpus size; an empty
// corpus yields an empty result, and a single title lands in cluster 0.
func Run(titles []string, k int) Result {
	if k <= 0 {
		k = DefaultK
	}
	if len(titles) == 0 {
		return Result{K: 0}
	}
	if k > len(titles) {
		k = len(titles)
	}

	vectorizer := NewVectorizer(titles, DefaultMaxFeatures)
	vectors := vectorizer.VectorizeAll(titles)
	assignments := kmeans(vectors, k)

	return Result{
		Assignments: assignments,
		Keywords:    clusterKeywords(vectorizer, vectors, assignments, k),
		K:           k,
	}
}

// DistinctClusters returns the number of distinct cluster ids actually used.
func (r Result) DistinctClusters() int {
	seen := make(map[int]bool)
	for _, c := range r.Assignments {
		seen[c] = true
	}
	return len(seen)
}

func kmeans(vectors [][]float64, k int) []int {
	dims := len(vectors[0])
	centroids := initialCentroids(vectors, k)

	assignments := make([]int, len(vectors))
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, vec := range vectors {
			best := nearestCentroid(vec, centroids)
			if best != assignments[i] {
				assignments[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// Recompute centroids; reseed any cluster that emptied out.
		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, vec := range vectors {
			c := assignments[i]
			floats.Add(sums[c], vec)
			counts[c]++
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				centroids[c] = append([]float64(nil), farthestVector(vectors, centroids)...)
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			centroids[c] = sums[c]
		}
	}
	return assignments
}

// initialCentroids uses deterministic farthest-point seeding: the first
// title starts cluster 0, and each further centroid is the vector with the
// greatest distance to its nearest already-chosen centroid. Determinism
// keeps cluster ids stable across dashboard re-renders of the same data.
func initialCentroids(vectors [][]float64, k int) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, append([]float64(nil), vectors[0]...))
	for len(centroids) < k {
		centroids = append(centroids, append([]float64(nil), farthestVector(vectors, centroids)...))
	}
	return centroids
}

// farthestVector returns the vector whose nearest centroid is farthest
// away; ties resolve to the lowest index.
func farthestVector(vectors [][]float64, centroids [][]float64) []float64 {
	best := vectors[0]
	bestDist := -1.0
	for _, vec := range vectors {
		nearest := math.MaxFloat64
		for _, centroid := range centroids {
			if d := cosineDistance(vec, centroid); d < nearest {
				nearest = d
			}
		}
		if nearest > bestDist {
			bestDist = nearest
			best = vec
		}
	}
	return best
}

func nearestCentroid(vec []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.MaxFloat64
	for c, centroid := range centroids {
		d := cosineDistance(vec, centroid)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

// cosineDistance is 1 - cosine similarity. Zero vectors are treated as
// maximally distant from everything.
func cosineDistance(a, b []float64) float64 {
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - floats.Dot(a, b)/(normA*normB)
}

// clusterKeywords pulls the highest-weight terms from each cluster's summed
// TF-IDF mass, up to five per cluster.
func clusterKeywords(v *Vectorizer, vectors [][]float64, assignments []int, k int) [][]string {
	terms := make([]string, len(v.IDF))
	for term, idx := range v.Vocabulary {
		terms[idx] = term
	}

	keywords := make([][]string, k)
	for c := 0; c < k; c++ {
		mass := make([]float64, len(v.IDF))
		for i, vec := range vectors {
			if assignments[i] == c {
				floats.Add(mass, vec)
			}
		}

		type weighted struct {
			term   string
			weight float64
		}
		ranked := make([]weighted, 0, len(terms))
		for i, term := range terms {
			if mass[i] > 0 {
				ranked = append(ranked, weighted{term, mass[i]})
			}
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].weight != ranked[j].weight {
				return ranked[i].weight > ranked[j].weight
			}
			return ranked[i].term < ranked[j].term
		})
		top := 5
		if len(ranked) < top {
			top = len(ranked)
		}
		for i := 0; i < top; i++ {
			keywords[c] = append(keywords[c], ranked[i].term)
		}
	}
	return keywords
}
