package highlighter

// ResolveSpans maps selected global sentence indices back to the character
// spans recorded at segmentation time. Indices must arrive sorted
// ascending (UnionIndices guarantees this); anything outside
// [0, len(sents)) is dropped silently, guarding against window/offset
// arithmetic edge cases.
func ResolveSpans(indices []int, sents []Sentence) []Highlight {
	out := make([]Highlight, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(sents) {
			continue
		}
		s := sents[idx]
		out = append(out, Highlight{
			Start:    s.Start,
			End:      s.End,
			Text:     s.Text,
			Position: s.Index,
			Score:    1.0,
		})
	}
	return out
}
