package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// The request envelope accepts four shapes. Every shape is resolved to a
// flat list of (question, context) pairs exactly once, at this boundary;
// the response mirrors the nesting of the shape it came from.
type requestKind int

const (
	// kindSingle is {"question": ..., "context": ...}.
	kindSingle requestKind = iota
	// kindContexts is {"question": ..., "contexts": [...]}: one question
	// shared across many passages.
	kindContexts
	// kindInputs is {"inputs": [{"question": ..., "context": ...}, ...]}.
	kindInputs
	// kindList is a bare [{"question": ..., "context": ...}, ...].
	kindList
)

type pair struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type rawPair struct {
	Question *string `json:"question"`
	Context  *string `json:"context"`
}

type envelope struct {
	Question *string   `json:"question"`
	Context  *string   `json:"context"`
	Contexts *[]string `json:"contexts"`
	Inputs   []rawPair `json:"inputs"`
}

type request struct {
	kind  requestKind
	pairs []pair
}

// parseRequest resolves the raw body into one of the supported shapes,
// rejecting anything malformed with a descriptive error before the core is
// ever reached.
func parseRequest(body []byte) (request, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 {
		return request{}, errors.New("empty request body")
	}

	if trimmed[0] == '[' {
		var items []rawPair
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return request{}, fmt.Errorf("decode request list: %w", err)
		}
		pairs, err := resolvePairs(items)
		if err != nil {
			return request{}, err
		}
		return request{kind: kindList, pairs: pairs}, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return request{}, fmt.Errorf("decode request: %w", err)
	}

	switch {
	case env.Inputs != nil:
		pairs, err := resolvePairs(env.Inputs)
		if err != nil {
			return request{}, err
		}
		return request{kind: kindInputs, pairs: pairs}, nil
	case env.Contexts != nil:
		if env.Question == nil {
			return request{}, errors.New(`request with "contexts" is missing "question"`)
		}
		pairs := make([]pair, len(*env.Contexts))
		for i, ctx := range *env.Contexts {
			pairs[i] = pair{Question: *env.Question, Context: ctx}
		}
		return request{kind: kindContexts, pairs: pairs}, nil
	case env.Question != nil || env.Context != nil:
		if env.Question == nil {
			return request{}, errors.New(`request is missing "question"`)
		}
		if env.Context == nil {
			return request{}, errors.New(`request is missing "context"`)
		}
		return request{kind: kindSingle, pairs: []pair{{Question: *env.Question, Context: *env.Context}}}, nil
	default:
		return request{}, errors.New(`request must carry "question"/"context", "contexts", or "inputs"`)
	}
}

func resolvePairs(items []rawPair) ([]pair, error) {
	if len(items) == 0 {
		return nil, errors.New("request carries no (question, context) items")
	}
	pairs := make([]pair, len(items))
	for i, item := range items {
		if item.Question == nil {
			return nil, fmt.Errorf(`item %d is missing "question"`, i)
		}
		if item.Context == nil {
			return nil, fmt.Errorf(`item %d is missing "context"`, i)
		}
		pairs[i] = pair{Question: *item.Question, Context: *item.Context}
	}
	return pairs, nil
}
