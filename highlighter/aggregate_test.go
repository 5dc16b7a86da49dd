package highlighter

import (
	"math"
	"testing"
)

func almostEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestAggregateSentencesMeanPooling(t *testing.T) {
	vectors := [][][]float32{{
		{9, 9},  // NoSentence token, must be ignored
		{2, 0},  // sentence 0
		{4, 2},  // sentence 0
		{1, 1},  // sentence 1
		{-1, 9}, // NoSentence token
	}}
	ids := [][]int{{NoSentence, 0, 0, 1, NoSentence}}

	got := AggregateSentences(vectors, ids)
	if len(got) != 1 {
		t.Fatalf("expected 1 window, got %d", len(got))
	}
	w := got[0]
	if w.Offset != 0 || w.Count != 2 {
		t.Fatalf("offset/count = %d/%d, want 0/2", w.Offset, w.Count)
	}
	if !almostEqual(w.Vectors[0][0], 3) || !almostEqual(w.Vectors[0][1], 1) {
		t.Errorf("sentence 0 vector = %v, want [3 1]", w.Vectors[0])
	}
	if !almostEqual(w.Vectors[1][0], 1) || !almostEqual(w.Vectors[1][1], 1) {
		t.Errorf("sentence 1 vector = %v, want [1 1]", w.Vectors[1])
	}
}

func TestAggregateSentencesOffsetRebase(t *testing.T) {
	// A later window starts at sentence 3: its rows are local, the offset
	// records the global base.
	vectors := [][][]float32{{
		{1, 0},
		{3, 0},
		{5, 5},
	}}
	ids := [][]int{{3, 3, 4}}

	got := AggregateSentences(vectors, ids)
	w := got[0]
	if w.Offset != 3 {
		t.Errorf("offset = %d, want 3", w.Offset)
	}
	if w.Count != 2 {
		t.Errorf("count = %d, want 2", w.Count)
	}
	if !almostEqual(w.Vectors[0][0], 2) {
		t.Errorf("local row 0 = %v, want mean [2 0]", w.Vectors[0])
	}
	if !almostEqual(w.Vectors[1][0], 5) {
		t.Errorf("local row 1 = %v", w.Vectors[1])
	}
	// Rows are padded to the batch-wide maximum raw id + 1.
	if len(w.Vectors) != 5 {
		t.Errorf("rows = %d, want 5", len(w.Vectors))
	}
	for d, v := range w.Vectors[4] {
		if v != 0 {
			t.Errorf("padding row dim %d = %v, want 0", d, v)
		}
	}
}

func TestAggregateSentencesAllNoSentenceWindow(t *testing.T) {
	vectors := [][][]float32{
		{{1, 1}, {3, 3}},
		{{7, 7}, {8, 8}},
	}
	ids := [][]int{
		{0, 0},
		{NoSentence, NoSentence},
	}
	got := AggregateSentences(vectors, ids)
	w := got[1]
	if w.Count != 0 || w.Offset != 0 {
		t.Errorf("empty window offset/count = %d/%d, want 0/0", w.Offset, w.Count)
	}
	if len(w.Vectors) != 1 {
		t.Fatalf("empty window rows = %d, want 1 padding row", len(w.Vectors))
	}
	for _, v := range w.Vectors[0] {
		if v != 0 {
			t.Errorf("padding row = %v, want zeros", w.Vectors[0])
		}
	}
}

func TestAggregateSentencesBatchPaddedUniformly(t *testing.T) {
	vectors := [][][]float32{
		{{1}, {2}, {3}},
		{{4}},
	}
	ids := [][]int{
		{0, 1, 2},
		{2},
	}
	got := AggregateSentences(vectors, ids)
	if len(got[0].Vectors) != 3 || len(got[1].Vectors) != 3 {
		t.Fatalf("rows = %d and %d, want 3 in both", len(got[0].Vectors), len(got[1].Vectors))
	}
	if got[1].Offset != 2 || got[1].Count != 1 {
		t.Errorf("second window offset/count = %d/%d, want 2/1", got[1].Offset, got[1].Count)
	}
}
