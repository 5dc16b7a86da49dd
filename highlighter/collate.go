package highlighter

// Batch holds the token windows of one passage padded to a common length:
// ids, segment ids and attention mask with 0, sentence ids with NoSentence.
type Batch struct {
	IDs           [][]int64
	TypeIDs       [][]int64
	AttentionMask [][]int64
	SentenceIDs   [][]int
	SeqLen        int
}

// Collate pads the given windows to the longest window in the batch so the
// encoder receives uniformly shaped input.
func Collate(windows []TokenWindow) Batch {
	seqLen := 0
	for _, w := range windows {
		if len(w.IDs) > seqLen {
			seqLen = len(w.IDs)
		}
	}
	b := Batch{
		IDs:           make([][]int64, len(windows)),
		TypeIDs:       make([][]int64, len(windows)),
		AttentionMask: make([][]int64, len(windows)),
		SentenceIDs:   make([][]int, len(windows)),
		SeqLen:        seqLen,
	}
	for i, w := range windows {
		b.IDs[i] = padInt64(w.IDs, seqLen, 0)
		b.TypeIDs[i] = padInt64(w.TypeIDs, seqLen, 0)
		b.AttentionMask[i] = padInt64(w.AttentionMask, seqLen, 0)
		b.SentenceIDs[i] = padInt(w.SentenceIDs, seqLen, NoSentence)
	}
	return b
}

func padInt64(s []int64, n int, fill int64) []int64 {
	out := make([]int64, n)
	copy(out, s)
	for i := len(s); i < n; i++ {
		out[i] = fill
	}
	return out
}

func padInt(s []int, n int, fill int) []int {
	out := make([]int, n)
	copy(out, s)
	for i := len(s); i < n; i++ {
		out[i] = fill
	}
	return out
}
