package highlighter

import (
	"fmt"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// WordPieceTokenizer adapts a HuggingFace-format tokenizer.json to the
// PairTokenizer contract: pair encoding that truncates only the passage,
// with the overflow returned as stride-overlapped windows and per-token
// word alignment preserved.
type WordPieceTokenizer struct {
	tk *tokenizer.Tokenizer
}

// NewWordPieceTokenizer loads the tokenizer file and fixes the truncation
// protocol at construction so the handle stays read-only afterwards.
func NewWordPieceTokenizer(path string, maxLength, stride int) (*WordPieceTokenizer, error) {
	tk, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %q: %w", path, err)
	}
	tk.WithTruncation(&tokenizer.TruncationParams{
		MaxLength: maxLength,
		Strategy:  tokenizer.OnlySecond,
		Stride:    stride,
	})
	return &WordPieceTokenizer{tk: tk}, nil
}

// EncodePair tokenizes (question, passage words) as a sequence pair. The
// passage is pre-split into words so sub-word tokens stay aligned to their
// parent word.
func (w *WordPieceTokenizer) EncodePair(question string, words []string) ([]Encoded, error) {
	input := tokenizer.NewDualEncodeInput(
		tokenizer.NewInputSequence(question),
		tokenizer.NewInputSequence(words),
	)
	enc, err := w.tk.Encode(input, true)
	if err != nil {
		return nil, fmt.Errorf("encode pair: %w", err)
	}
	out := make([]Encoded, 0, 1+len(enc.GetOverflowing()))
	out = append(out, convertEncoding(enc))
	for _, overflow := range enc.GetOverflowing() {
		out = append(out, convertEncoding(&overflow))
	}
	return out, nil
}

func convertEncoding(enc *tokenizer.Encoding) Encoded {
	ids := enc.GetIds()
	typeIDs := enc.GetTypeIds()
	mask := enc.GetAttentionMask()
	words := enc.GetWords()

	out := Encoded{
		IDs:           make([]int64, len(ids)),
		TypeIDs:       make([]int64, len(typeIDs)),
		AttentionMask: make([]int64, len(mask)),
		WordIndex:     make([]int, len(ids)),
	}
	for i, v := range ids {
		out.IDs[i] = int64(v)
	}
	for i, v := range typeIDs {
		out.TypeIDs[i] = int64(v)
	}
	for i, v := range mask {
		out.AttentionMask[i] = int64(v)
	}
	for i := range out.WordIndex {
		if i < len(words) {
			out.WordIndex[i] = words[i]
		} else {
			out.WordIndex[i] = NoWord
		}
	}
	return out
}
