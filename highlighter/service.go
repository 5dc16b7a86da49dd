package highlighter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// TokenEncoder produces one contextual vector per token. Batched calls
// return a uniformly shaped batch x seqLen x hidden slice. Implementations
// own their thread-safety: a single model instance performing concurrent
// forward passes must serialize or replicate itself.
type TokenEncoder interface {
	Encode(ctx context.Context, ids, typeIDs, mask [][]int64) ([][][]float32, error)
}

// Service runs the sentence-extraction pipeline. It is a pure function of
// (question, passage) over collaborators that are loaded once and then
// treated as read-only, so a single Service is safe for concurrent use.
type Service struct {
	segmenter Segmenter
	tokenizer PairTokenizer
	encoder   TokenEncoder
	head      *LinearHead

	cfgMu sync.RWMutex
	cfg   Config

	logger *zap.Logger
}

// NewService constructs a service over the given collaborators.
func NewService(segmenter Segmenter, tok PairTokenizer, enc TokenEncoder, head *LinearHead, cfg Config, logger *zap.Logger) (*Service, error) {
	if segmenter == nil {
		return nil, errors.New("segmenter is required")
	}
	if tok == nil {
		return nil, errors.New("tokenizer is required")
	}
	if enc == nil {
		return nil, errors.New("encoder is required")
	}
	if err := head.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.ApplyDefaults()
	return &Service{
		segmenter: segmenter,
		tokenizer: tok,
		encoder:   enc,
		head:      head,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg.Clone()
}

// Close releases collaborator resources that hold any.
func (s *Service) Close() error {
	var err error
	if c, ok := s.encoder.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	if c, ok := s.tokenizer.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}

// Highlight returns the character spans of the passage sentences that best
// answer the question, in sentence order. An empty passage, or one the
// segmenter finds no sentences in, yields an empty result rather than an
// error. Calling it twice with unchanged collaborators yields identical
// output.
func (s *Service) Highlight(ctx context.Context, question, passage string) ([]Highlight, error) {
	if passage == "" {
		return []Highlight{}, nil
	}
	sents := SplitSentences(s.segmenter, passage)
	if len(sents) == 0 {
		return []Highlight{}, nil
	}
	words, sentenceIDs := TagWords(sents)
	if len(words) == 0 {
		return []Highlight{}, nil
	}

	cfg := s.Config()
	encoded, err := s.tokenizer.EncodePair(NormalizeQuestion(question), words)
	if err != nil {
		return nil, fmt.Errorf("tokenize pair: %w", err)
	}
	windows := BuildWindows(encoded, sentenceIDs, cfg.MaxLength)
	if len(windows) == 0 {
		return []Highlight{}, nil
	}

	batch := Collate(windows)
	vectors, err := s.encoder.Encode(ctx, batch.IDs, batch.TypeIDs, batch.AttentionMask)
	if err != nil {
		return nil, fmt.Errorf("encode windows: %w", err)
	}
	if len(vectors) != len(windows) {
		return nil, fmt.Errorf("encoder returned %d windows, want %d", len(vectors), len(windows))
	}

	aggregated := AggregateSentences(vectors, batch.SentenceIDs)
	perWindow := make([][]int, len(aggregated))
	for i, win := range aggregated {
		probs := s.head.Probabilities(win.Vectors, win.Count)
		perWindow[i] = SelectSentences(probs, win.Offset)
	}
	indices := UnionIndices(perWindow)
	highlights := ResolveSpans(indices, sents)

	s.logger.Debug("highlighted passage",
		zap.Int("sentences", len(sents)),
		zap.Int("windows", len(windows)),
		zap.Int("highlights", len(highlights)))
	return highlights, nil
}

// HighlightAll runs Highlight for one shared question over many passages.
// Each passage is processed independently; a failure on any aborts the
// batch.
func (s *Service) HighlightAll(ctx context.Context, question string, passages []string) ([][]Highlight, error) {
	out := make([][]Highlight, len(passages))
	for i, passage := range passages {
		hl, err := s.Highlight(ctx, question, passage)
		if err != nil {
			return nil, fmt.Errorf("passage %d: %w", i, err)
		}
		out[i] = hl
	}
	return out, nil
}
