package emb

import (
	"encoding/json"
	"fmt"
	"os"

	"yashubustudio/highlighter/highlighter"
)

// LoadHead reads the exported classifier weights (a 2 x hidden matrix and
// a 2-value bias) that the training side dumps alongside the ONNX model.
// A load failure is fatal for serving: no request can be scored without it.
func LoadHead(path string) (*highlighter.LinearHead, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read classifier head: %w", err)
	}
	var head highlighter.LinearHead
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode classifier head: %w", err)
	}
	if err := head.Validate(); err != nil {
		return nil, fmt.Errorf("classifier head %q: %w", path, err)
	}
	return &head, nil
}
