package highlighter

import (
	"fmt"
	"math"
	"sort"
)

const (
	// Threshold is the relevance probability above which a sentence is
	// selected outright.
	Threshold = 0.5
	// BackoffFloor is the minimum peak probability a window must show for
	// the single best sentence to be force-selected when nothing reaches
	// Threshold.
	BackoffFloor = 0.05
)

// LinearHead is the trained 2-class projection applied to every sentence
// vector. Weight is laid out [class][dim]; class 1 is "relevant".
type LinearHead struct {
	Weight [][]float32 `json:"weight"`
	Bias   []float32   `json:"bias"`
}

// Validate checks the head's shape.
func (h *LinearHead) Validate() error {
	if h == nil || len(h.Weight) != 2 {
		return fmt.Errorf("classifier head must have 2 weight rows, got %d", len(h.Weight))
	}
	if len(h.Weight[0]) != len(h.Weight[1]) {
		return fmt.Errorf("classifier head weight rows differ: %d vs %d", len(h.Weight[0]), len(h.Weight[1]))
	}
	if len(h.Bias) != 2 {
		return fmt.Errorf("classifier head must have 2 bias values, got %d", len(h.Bias))
	}
	return nil
}

// Probabilities projects the first n sentence vectors to 2 logits each and
// returns the softmax probability of the relevant class. Padding rows
// beyond n are never consulted.
func (h *LinearHead) Probabilities(vectors [][]float32, n int) []float32 {
	if n > len(vectors) {
		n = len(vectors)
	}
	probs := make([]float32, n)
	for i := 0; i < n; i++ {
		l0 := dot(h.Weight[0], vectors[i]) + h.Bias[0]
		l1 := dot(h.Weight[1], vectors[i]) + h.Bias[1]
		// Softmax over two classes reduces to a sigmoid of the logit gap.
		probs[i] = float32(1 / (1 + math.Exp(float64(l0-l1))))
	}
	return probs
}

func dot(w, v []float32) float32 {
	n := len(w)
	if len(v) < n {
		n = len(v)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += w[i] * v[i]
	}
	return sum
}

// SelectSentences applies the threshold-with-backoff rule to one window's
// relevance probabilities and returns the selected global sentence indices
// (local position + window offset).
//
// Every position with probability >= Threshold is selected. When none is
// and the peak probability still reaches BackoffFloor, exactly the single
// highest-probability position is forced, so a window with weak but
// nonzero signal always surfaces something. Below the floor the window
// selects nothing.
func SelectSentences(probs []float32, offset int) []int {
	if len(probs) == 0 {
		return nil
	}
	var selected []int
	for i, p := range probs {
		if p >= Threshold {
			selected = append(selected, i+offset)
		}
	}
	if selected == nil {
		best := 0
		for i, p := range probs {
			if p > probs[best] {
				best = i
			}
		}
		if probs[best] >= BackoffFloor {
			selected = []int{best + offset}
		}
	}
	return selected
}

// UnionIndices merges the per-window global sentence indices of one
// passage, de-duplicating sentences independently selected by overlapping
// windows, and returns them in ascending order.
func UnionIndices(perWindow [][]int) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, indices := range perWindow {
		for _, idx := range indices {
			if _, ok := seen[idx]; ok {
				continue
			}
			seen[idx] = struct{}{}
			out = append(out, idx)
		}
	}
	sort.Ints(out)
	return out
}
