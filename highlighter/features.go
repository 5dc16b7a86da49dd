package highlighter

// Encoded is one overflow window as returned by the tokenizer collaborator:
// parallel per-token ids, segment ids, attention mask, and the index of the
// word each token was generated from (NoWord for special tokens).
type Encoded struct {
	IDs           []int64
	TypeIDs       []int64
	AttentionMask []int64
	WordIndex     []int
}

// NoWord marks tokens with no originating word (special tokens, padding).
const NoWord = -1

// PairTokenizer encodes a (question, pre-split passage words) pair,
// truncating only the passage and returning the overflow as additional
// windows that overlap by the tokenizer's configured stride.
type PairTokenizer interface {
	EncodePair(question string, words []string) ([]Encoded, error)
}

// BuildWindows derives per-token sentence ids for every encoded window.
//
// Tokens strictly before the first passage-segment token get NoSentence,
// as do special and padding tokens inside the passage segment. Passage
// tokens inherit the sentence id of their parent word. Every per-window
// field is clamped to maxLength, guarding against off-by-one overflow from
// the tokenizer.
func BuildWindows(encoded []Encoded, sentenceIDs []int, maxLength int) []TokenWindow {
	windows := make([]TokenWindow, 0, len(encoded))
	for _, enc := range encoded {
		passageStart := 0
		for passageStart < len(enc.TypeIDs) && enc.TypeIDs[passageStart] != 1 {
			passageStart++
		}

		ids := make([]int, len(enc.IDs))
		for i := range ids {
			ids[i] = NoSentence
		}
		for i := passageStart; i < len(enc.IDs); i++ {
			if i >= len(enc.WordIndex) {
				break
			}
			w := enc.WordIndex[i]
			if w >= 0 && w < len(sentenceIDs) {
				ids[i] = sentenceIDs[w]
			}
		}

		win := TokenWindow{
			IDs:           clampInt64(enc.IDs, maxLength),
			TypeIDs:       clampInt64(enc.TypeIDs, maxLength),
			AttentionMask: clampInt64(enc.AttentionMask, maxLength),
			SentenceIDs:   clampInt(ids, maxLength),
			PassageStart:  passageStart,
		}
		if win.PassageStart > len(win.IDs) {
			win.PassageStart = len(win.IDs)
		}
		windows = append(windows, win)
	}
	return windows
}

func clampInt64(s []int64, n int) []int64 {
	if len(s) > n {
		s = s[:n]
	}
	out := make([]int64, len(s))
	copy(out, s)
	return out
}

func clampInt(s []int, n int) []int {
	if len(s) > n {
		s = s[:n]
	}
	out := make([]int, len(s))
	copy(out, s)
	return out
}
