package highlighter

import "encoding/json"

// NoSentence marks tokens that belong to no passage sentence: question
// tokens, special tokens and padding. It matches the ignore index the
// encoder-side collator pads sentence ids with.
const NoSentence = -100

// Sentence is one segmented sentence with its half-open character span in
// the original passage. Passage[Start:End] == Text whenever the segmenter
// output could be located verbatim; otherwise the span is the cursor-based
// approximation (see SplitSentences).
type Sentence struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Highlight is one selected sentence span, reported against the original
// passage. Score is fixed at 1.0: the pipeline reports a hard decision, not
// the underlying relevance probability.
type Highlight struct {
	Start    int     `json:"start"`
	End      int     `json:"end"`
	Text     string  `json:"text,omitempty"`
	Position int     `json:"position"`
	Score    float32 `json:"score"`
}

// TokenWindow is one overflow chunk of the tokenized (question, passage)
// pair. Windows overlap by the configured stride; sentence ids are assigned
// consistently to both occurrences of a shared token.
type TokenWindow struct {
	IDs           []int64
	TypeIDs       []int64
	AttentionMask []int64
	SentenceIDs   []int
	// PassageStart is the index of the first passage-segment token within
	// this window, len(IDs) when the window carries no passage tokens.
	PassageStart int
}

// EncoderConfig wraps the settings for the ONNX encoder and classifier head.
type EncoderConfig struct {
	OrtDLL     string `json:"ortDll"`
	ModelPath  string `json:"modelPath"`
	HeadPath   string `json:"headPath"`
	PoolSize   int    `json:"poolSize"`
	HiddenSize int    `json:"hiddenSize"`
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	MaxLength     int           `json:"maxLength"`
	Stride        int           `json:"stride"`
	TokenizerPath string        `json:"tokenizerPath"`
	Encoder       EncoderConfig `json:"encoder"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values with the pipeline defaults.
func (c *Config) ApplyDefaults() {
	if c.MaxLength <= 0 {
		c.MaxLength = DefaultMaxLength
	}
	if c.Stride <= 0 || c.Stride >= c.MaxLength {
		c.Stride = DefaultStride
		if c.Stride >= c.MaxLength {
			c.Stride = c.MaxLength / 4
		}
	}
	if c.Encoder.PoolSize <= 0 {
		c.Encoder.PoolSize = 1
	}
}

const (
	// DefaultMaxLength bounds every token window.
	DefaultMaxLength = 510
	// DefaultStride is the token overlap between consecutive windows.
	DefaultStride = 128
)
