package core

// AliasTable supports O(1) sampling from a discrete probability distribution.
// Built once (scene-build time) and immutable afterwards.
type AliasTable struct {
	probs []float64 // normalized probability per index
	u     []float64 // acceptance threshold per column
	k     []int     // alias index per column
}

// NewAliasTable builds an alias table from a set of weights.
// Weights are normalized internally; all-zero weights yield a uniform table.
func NewAliasTable(weights []float64) *AliasTable {
	n := len(weights)
	probs := make([]float64, n)
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		for i := range probs {
			probs[i] = 1.0 / float64(n)
		}
	} else {
		for i, w := range weights {
			if w > 0 {
				probs[i] = w / total
			}
		}
	}

	u := make([]float64, n)
	k := make([]int, n)
	var small, large []int
	for i, p := range probs {
		u[i] = p * float64(n)
		k[i] = i
		if u[i] < 1.0 {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	// Vose's method: repeatedly pair an under-full column with an over-full
	// one until every column holds exactly one unit of probability.
	for len(small) > 0 && len(large) > 0 {
		poor := small[len(small)-1]
		small = small[:len(small)-1]
		rich := large[len(large)-1]
		large = large[:len(large)-1]

		k[poor] = rich
		u[rich] -= 1.0 - u[poor]
		if u[rich] < 1.0 {
			small = append(small, rich)
		} else {
			large = append(large, rich)
		}
	}
	// Residual columns are full up to floating error
	for _, i := range small {
		u[i] = 1.0
	}
	for _, i := range large {
		u[i] = 1.0
	}

	return &AliasTable{probs: probs, u: u, k: k}
}

// Sample picks an index using a single uniform random number.
// Returns the index and its probability.
func (at *AliasTable) Sample(u float64) (int, float64) {
	n := len(at.probs)
	if n == 0 {
		return -1, 0
	}
	scaled := u * float64(n)
	x := int(scaled)
	if x >= n {
		x = n - 1
	}
	y := scaled - float64(x)
	if y < at.u[x] {
		return x, at.probs[x]
	}
	return at.k[x], at.probs[at.k[x]]
}

// Probability returns the normalized probability of the given index
func (at *AliasTable) Probability(index int) float64 {
	if index < 0 || index >= len(at.probs) {
		return 0
	}
	return at.probs[index]
}

// Len returns the number of entries in the table
func (at *AliasTable) Len() int {
	return len(at.probs)
}
