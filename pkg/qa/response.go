package qa

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidResponse means the model returned a JSON object without a string
// answer and an array of sources.
var ErrInvalidResponse = errors.New("invalid JSON structure in AI response")

// Result is a grounded answer and the context sentences that support it.
type Result struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// ParseResponse interprets raw model output. Text that is not shaped like a
// JSON object is taken as a plain answer with no sources. Non-string entries
// in sources are dropped.
func ParseResponse(text string) (Result, error) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return Result{Answer: trimmed, Sources: []string{}}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return Result{}, fmt.Errorf("decode AI response: %w", err)
	}

	var answer string
	rawAnswer := bytes.TrimSpace(fields["answer"])
	if !bytes.HasPrefix(rawAnswer, []byte(`"`)) {
		return Result{}, ErrInvalidResponse
	}
	if err := json.Unmarshal(rawAnswer, &answer); err != nil {
		return Result{}, ErrInvalidResponse
	}

	var rawSources []json.RawMessage
	rawList := bytes.TrimSpace(fields["sources"])
	if !bytes.HasPrefix(rawList, []byte("[")) {
		return Result{}, ErrInvalidResponse
	}
	if err := json.Unmarshal(rawList, &rawSources); err != nil {
		return Result{}, ErrInvalidResponse
	}

	sources := make([]string, 0, len(rawSources))
	for _, raw := range rawSources {
		raw = bytes.TrimSpace(raw)
		if !bytes.HasPrefix(raw, []byte(`"`)) {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			sources = append(sources, s)
		}
	}

	return Result{Answer: answer, Sources: sources}, nil
}
