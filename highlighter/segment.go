package highlighter

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Segmenter splits a passage into ordered sentence texts. Implementations
// may normalize whitespace or quotes; SplitSentences recovers offsets with
// a cursor fallback when the reported text cannot be located verbatim.
type Segmenter interface {
	Segment(text string) []string
}

// punktSegmenter wraps the trained English punkt boundary detector.
type punktSegmenter struct {
	tk *sentences.DefaultSentenceTokenizer
}

// NewPunktSegmenter returns the default sentence boundary detector.
func NewPunktSegmenter() (Segmenter, error) {
	tk, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load punkt tokenizer: %w", err)
	}
	return &punktSegmenter{tk: tk}, nil
}

func (p *punktSegmenter) Segment(text string) []string {
	sents := p.tk.Tokenize(text)
	out := make([]string, 0, len(sents))
	for _, s := range sents {
		trimmed := strings.TrimSpace(s.Text)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// SplitSentences segments a passage and locates each sentence in it.
// A cursor walks the passage left to right; every sentence is searched for
// at or after the cursor. When the segmenter normalized the text so that
// the exact substring no longer occurs, the cursor position itself becomes
// the start. Spans are therefore always monotonically non-decreasing, at
// the cost of accuracy for that one sentence.
func SplitSentences(seg Segmenter, passage string) []Sentence {
	if passage == "" {
		return nil
	}
	texts := seg.Segment(passage)
	out := make([]Sentence, 0, len(texts))
	cursor := 0
	for _, text := range texts {
		if text == "" {
			continue
		}
		start := cursor
		if cursor <= len(passage) {
			if idx := strings.Index(passage[cursor:], text); idx >= 0 {
				start = cursor + idx
			}
		}
		if start > len(passage) {
			start = len(passage)
		}
		end := start + len(text)
		if end > len(passage) {
			end = len(passage)
		}
		out = append(out, Sentence{
			Index: len(out),
			Text:  text,
			Start: start,
			End:   end,
		})
		cursor = end
	}
	return out
}

// TagWords splits every sentence on whitespace and tags each resulting word
// with the index of its owning sentence. Words keep their case and
// punctuation; subword handling is the tokenizer's job.
func TagWords(sents []Sentence) (words []string, sentenceIDs []int) {
	for _, s := range sents {
		fields := strings.Fields(s.Text)
		for _, w := range fields {
			words = append(words, w)
			sentenceIDs = append(sentenceIDs, s.Index)
		}
	}
	return words, sentenceIDs
}
