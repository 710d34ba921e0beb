package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestAliasTableProbabilities(t *testing.T) {
	weights := []float64{1, 2, 3, 4}
	table := NewAliasTable(weights)

	total := 1.0 + 2 + 3 + 4
	for i, w := range weights {
		expected := w / total
		if math.Abs(table.Probability(i)-expected) > 1e-12 {
			t.Errorf("Probability(%d): got %f, expected %f", i, table.Probability(i), expected)
		}
	}

	if table.Probability(-1) != 0 || table.Probability(4) != 0 {
		t.Error("out-of-range probability should be 0")
	}
}

func TestAliasTableSampleFrequencies(t *testing.T) {
	weights := []float64{0.1, 0.4, 0.2, 0.3}
	table := NewAliasTable(weights)
	random := rand.New(rand.NewSource(42))

	const n = 200000
	counts := make([]int, len(weights))
	for i := 0; i < n; i++ {
		index, pdf := table.Sample(random.Float64())
		if index < 0 || index >= len(weights) {
			t.Fatalf("sampled index %d out of range", index)
		}
		if math.Abs(pdf-table.Probability(index)) > 1e-12 {
			t.Fatalf("sample pdf %f disagrees with Probability(%d)=%f", pdf, index, table.Probability(index))
		}
		counts[index]++
	}

	for i, w := range weights {
		freq := float64(counts[i]) / n
		if math.Abs(freq-w) > 0.01 {
			t.Errorf("index %d: frequency %f, expected %f", i, freq, w)
		}
	}
}

func TestAliasTableZeroWeights(t *testing.T) {
	table := NewAliasTable([]float64{0, 0, 0})
	for i := 0; i < 3; i++ {
		if math.Abs(table.Probability(i)-1.0/3.0) > 1e-12 {
			t.Errorf("zero weights should become uniform, Probability(%d)=%f", i, table.Probability(i))
		}
	}
}

func TestAliasTableSingleEntry(t *testing.T) {
	table := NewAliasTable([]float64{7.5})
	index, pdf := table.Sample(0.3)
	if index != 0 || math.Abs(pdf-1.0) > 1e-12 {
		t.Errorf("single entry: got index %d pdf %f, expected 0 and 1", index, pdf)
	}
}
