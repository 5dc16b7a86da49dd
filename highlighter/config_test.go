package highlighter

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MaxLength != DefaultMaxLength || cfg.Stride != DefaultStride {
		t.Errorf("defaults = %d/%d, want %d/%d", cfg.MaxLength, cfg.Stride, DefaultMaxLength, DefaultStride)
	}
	if cfg.Encoder.PoolSize != 1 {
		t.Errorf("pool size = %d, want 1", cfg.Encoder.PoolSize)
	}
}

func TestSaveAndLoadConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	want := Config{
		MaxLength:     256,
		Stride:        64,
		TokenizerPath: "models/tokenizer.json",
		Encoder: EncoderConfig{
			ModelPath: "models/encoder.onnx",
			HeadPath:  "models/head.json",
			PoolSize:  2,
		},
	}
	if err := SaveConfig(path, want); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.MaxLength != 256 || got.Stride != 64 || got.Encoder.PoolSize != 2 {
		t.Errorf("round trip = %+v", got)
	}
	if got.TokenizerPath != want.TokenizerPath || got.Encoder.ModelPath != want.Encoder.ModelPath {
		t.Errorf("paths lost: %+v", got)
	}
}

func TestLoadConfigRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("malformed config accepted")
	}
}

func TestApplyDefaultsClampsStride(t *testing.T) {
	cfg := Config{MaxLength: 100, Stride: 200}
	cfg.ApplyDefaults()
	if cfg.Stride >= cfg.MaxLength {
		t.Errorf("stride %d not clamped below max length %d", cfg.Stride, cfg.MaxLength)
	}
}
