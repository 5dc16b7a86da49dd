// Package emb wraps the ONNX Runtime BERT encoder behind a small,
// pool-replicated handle that yields one contextual vector per token.
package emb

import (
	"context"
	"errors"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const (
	inputIDsName      = "input_ids"
	attentionMaskName = "attention_mask"
	tokenTypeIDsName  = "token_type_ids"
	outputName        = "last_hidden_state"
)

// Config holds the settings needed to open the encoder.
type Config struct {
	// OrtDLL is the ONNX Runtime shared library path; empty uses the
	// platform default lookup.
	OrtDLL    string
	ModelPath string
	// PoolSize is how many replicated sessions serve concurrent forward
	// passes. One session never runs two passes at once.
	PoolSize int
}

// Encoder runs batched forward passes over replicated ONNX sessions.
// Initialization is lazy, on first use; afterwards the handle is read-only
// and safe for concurrent use.
type Encoder struct {
	cfg    Config
	logger *zap.Logger

	initOnce sync.Once
	initErr  error
	free     chan *ort.DynamicAdvancedSession
	sem      *semaphore.Weighted
}

var ortEnvOnce sync.Once

// NewEncoder prepares an encoder handle. The model is not touched until the
// first Encode call; Warmup forces the load eagerly so binaries can fail at
// startup instead of on the first request.
func NewEncoder(cfg Config, logger *zap.Logger) *Encoder {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Encoder{cfg: cfg, logger: logger}
}

// Warmup loads the model and builds the session pool.
func (e *Encoder) Warmup() error {
	e.initOnce.Do(e.initialize)
	return e.initErr
}

func (e *Encoder) initialize() {
	if e.cfg.ModelPath == "" {
		e.initErr = errors.New("encoder model path is required")
		return
	}
	ortEnvOnce.Do(func() {
		if e.cfg.OrtDLL != "" {
			ort.SetSharedLibraryPath(e.cfg.OrtDLL)
		}
	})
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			e.initErr = fmt.Errorf("initialize onnxruntime: %w", err)
			return
		}
	}
	free := make(chan *ort.DynamicAdvancedSession, e.cfg.PoolSize)
	for i := 0; i < e.cfg.PoolSize; i++ {
		session, err := ort.NewDynamicAdvancedSession(
			e.cfg.ModelPath,
			[]string{inputIDsName, attentionMaskName, tokenTypeIDsName},
			[]string{outputName},
			nil,
		)
		if err != nil {
			close(free)
			for s := range free {
				_ = s.Destroy()
			}
			e.initErr = fmt.Errorf("create encoder session %d: %w", i, err)
			return
		}
		free <- session
	}
	e.free = free
	e.sem = semaphore.NewWeighted(int64(e.cfg.PoolSize))
	e.logger.Info("encoder loaded",
		zap.String("model", e.cfg.ModelPath),
		zap.Int("sessions", e.cfg.PoolSize))
}

// Close destroys all pooled sessions.
func (e *Encoder) Close() error {
	if e.free == nil {
		return nil
	}
	var err error
	for i := 0; i < e.cfg.PoolSize; i++ {
		session := <-e.free
		err = errors.Join(err, session.Destroy())
	}
	e.free = nil
	return err
}

// Encode runs one forward pass over a collated batch and returns the
// last-hidden-state vectors as batch x seqLen x hidden.
func (e *Encoder) Encode(ctx context.Context, ids, typeIDs, mask [][]int64) ([][][]float32, error) {
	if err := e.Warmup(); err != nil {
		return nil, err
	}
	batch := len(ids)
	if batch == 0 {
		return nil, nil
	}
	seqLen := len(ids[0])
	for i := range ids {
		if len(ids[i]) != seqLen || len(typeIDs[i]) != seqLen || len(mask[i]) != seqLen {
			return nil, fmt.Errorf("window %d is not collated to length %d", i, seqLen)
		}
	}

	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer e.sem.Release(1)
	session := <-e.free
	defer func() { e.free <- session }()

	shape := ort.NewShape(int64(batch), int64(seqLen))
	idsTensor, err := ort.NewTensor(shape, flatten(ids))
	if err != nil {
		return nil, fmt.Errorf("create input_ids tensor: %w", err)
	}
	defer idsTensor.Destroy()
	maskTensor, err := ort.NewTensor(shape, flatten(mask))
	if err != nil {
		return nil, fmt.Errorf("create attention_mask tensor: %w", err)
	}
	defer maskTensor.Destroy()
	typeTensor, err := ort.NewTensor(shape, flatten(typeIDs))
	if err != nil {
		return nil, fmt.Errorf("create token_type_ids tensor: %w", err)
	}
	defer typeTensor.Destroy()

	outputs := []ort.Value{nil}
	if err := session.Run([]ort.Value{idsTensor, maskTensor, typeTensor}, outputs); err != nil {
		return nil, fmt.Errorf("encoder forward pass: %w", err)
	}
	outTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected encoder output type %T", outputs[0])
	}
	defer outTensor.Destroy()

	outShape := outTensor.GetShape()
	if len(outShape) != 3 || int(outShape[0]) != batch || int(outShape[1]) != seqLen {
		return nil, fmt.Errorf("unexpected encoder output shape %v", outShape)
	}
	return reshape(outTensor.GetData(), batch, seqLen, int(outShape[2])), nil
}

func flatten(rows [][]int64) []int64 {
	if len(rows) == 0 {
		return nil
	}
	out := make([]int64, 0, len(rows)*len(rows[0]))
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}

func reshape(data []float32, batch, seqLen, dim int) [][][]float32 {
	out := make([][][]float32, batch)
	for b := 0; b < batch; b++ {
		out[b] = make([][]float32, seqLen)
		for t := 0; t < seqLen; t++ {
			start := (b*seqLen + t) * dim
			row := make([]float32, dim)
			copy(row, data[start:start+dim])
			out[b][t] = row
		}
	}
	return out
}
