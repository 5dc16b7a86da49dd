package highlighter

// WindowSentences is the aggregation result for one token window: a matrix
// of mean-pooled sentence vectors padded with zero rows to the batch-wide
// maximum sentence count, the window's sentence-id offset, and the number
// of real (non-padding) rows.
type WindowSentences struct {
	Vectors [][]float32
	Offset  int
	Count   int
}

// AggregateSentences pools per-token contextual vectors into per-sentence
// vectors, one result per window.
//
// Per window, the minimum sentence id over non-NoSentence tokens becomes
// the offset; ids are rebased to 0..count-1 and every local position is the
// arithmetic mean of its tokens' vectors. A window whose tokens all carry
// NoSentence aggregates to zero sentences with a single zero padding row,
// so batch shapes stay uniform while nothing is ever selectable from it.
// Tokens shared by two overlapping windows are pooled once per window.
func AggregateSentences(vectors [][][]float32, sentenceIDs [][]int) []WindowSentences {
	dim := 0
	maxSentences := 0
	for i := range vectors {
		if len(vectors[i]) > 0 && dim == 0 {
			dim = len(vectors[i][0])
		}
		for _, id := range sentenceIDs[i] {
			if id != NoSentence && id+1 > maxSentences {
				maxSentences = id + 1
			}
		}
	}
	rows := maxSentences
	if rows == 0 {
		rows = 1
	}

	out := make([]WindowSentences, len(vectors))
	for i := range vectors {
		ids := sentenceIDs[i]
		toks := vectors[i]

		offset := -1
		for _, id := range ids {
			if id == NoSentence {
				continue
			}
			if offset < 0 || id < offset {
				offset = id
			}
		}
		if offset < 0 {
			out[i] = WindowSentences{Vectors: zeroMatrix(rows, dim), Offset: 0, Count: 0}
			continue
		}

		count := 0
		for _, id := range ids {
			if id != NoSentence && id-offset+1 > count {
				count = id - offset + 1
			}
		}

		mat := zeroMatrix(rows, dim)
		tally := make([]int, count)
		for t, id := range ids {
			if id == NoSentence || t >= len(toks) {
				continue
			}
			local := id - offset
			for d := 0; d < dim && d < len(toks[t]); d++ {
				mat[local][d] += toks[t][d]
			}
			tally[local]++
		}
		for j := 0; j < count; j++ {
			if tally[j] == 0 {
				continue
			}
			inv := 1 / float32(tally[j])
			for d := range mat[j] {
				mat[j][d] *= inv
			}
		}

		out[i] = WindowSentences{Vectors: mat, Offset: offset, Count: count}
	}
	return out
}

func zeroMatrix(rows, dim int) [][]float32 {
	m := make([][]float32, rows)
	for i := range m {
		m[i] = make([]float32, dim)
	}
	return m
}
