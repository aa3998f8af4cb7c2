package vectordb

import (
	"math"

	"github.com/viterin/vek/vek32"
)

// maximalMarginalRelevance selects up to k indices from candidates, trading
// similarity to query against similarity to already selected candidates.
// See https://www.cs.cmu.edu/~jgc/publication/The_Use_MMR_Diversity_Based_LTMIR_1998.pdf
func maximalMarginalRelevance(query []float32, candidates [][]float32, lambda float64, k int) []int {
	if k <= 0 || len(candidates) == 0 {
		return []int{}
	}
	k = min(k, len(candidates))

	toQuery := make([]float64, len(candidates))
	best := 0
	for i, c := range candidates {
		toQuery[i] = cosine(query, c)
		if toQuery[i] > toQuery[best] {
			best = i
		}
	}

	selected := []int{best}
	chosen := map[int]bool{best: true}
	// redundancy[i] is the highest similarity of candidate i to any selected one.
	redundancy := make([]float64, len(candidates))
	for i := range redundancy {
		redundancy[i] = math.Inf(-1)
	}

	for len(selected) < k {
		last := candidates[selected[len(selected)-1]]
		next, nextScore := -1, math.Inf(-1)
		for i, c := range candidates {
			if chosen[i] {
				continue
			}
			redundancy[i] = math.Max(redundancy[i], cosine(c, last))
			score := lambda*toQuery[i] - (1-lambda)*redundancy[i]
			if score > nextScore {
				next, nextScore = i, score
			}
		}
		selected = append(selected, next)
		chosen[next] = true
	}
	return selected
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	v := float64(vek32.CosineSimilarity(a, b))
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
