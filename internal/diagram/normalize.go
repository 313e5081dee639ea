package diagram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedReply signals that the model reply could not be decoded into
// the requested action envelope. Callers must surface this as a failure;
// silently dropping diagram edits is worse than reporting an error.
var ErrMalformedReply = errors.New("diagram: malformed model reply")

// NormalizeActions decodes a model reply into a well-formed action list.
//
// The reply must decode to an object with an "actions" key holding a
// sequence (the schema requested from the model). One provider quirk is
// tolerated first: a top-level array of content parts, each possibly
// exposing a "text" field that carries the real envelope. Anything else
// is a hard error wrapping ErrMalformedReply.
func NormalizeActions(content string) ([]Action, error) {
	raw := []byte(stripFences(content))

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope != nil {
		rawActions, ok := envelope["actions"]
		if !ok {
			return nil, fmt.Errorf("%w: missing top-level actions key", ErrMalformedReply)
		}
		trimmed := bytes.TrimSpace(rawActions)
		if len(trimmed) == 0 || trimmed[0] != '[' {
			return nil, fmt.Errorf("%w: actions is not a sequence", ErrMalformedReply)
		}
		var actions []Action
		if err := json.Unmarshal(trimmed, &actions); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
		}
		return actions, nil
	}

	// Content-part shape: [{"text": "<json envelope>"}, ...]
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err == nil {
		for _, p := range parts {
			var part struct {
				Text *string `json:"text"`
			}
			if err := json.Unmarshal(p, &part); err == nil && part.Text != nil {
				return NormalizeActions(*part.Text)
			}
		}
		return nil, fmt.Errorf("%w: no content part carries a text field", ErrMalformedReply)
	}

	return nil, fmt.Errorf("%w: reply is neither an object nor a part list", ErrMalformedReply)
}

// NormalizeSuggestions decodes a model reply of unknown shape into a list of
// suggestion strings. The first matching rule wins:
//
//  1. an object with a "suggestions" sequence returns that sequence
//  2. a bare sequence returns itself
//  3. a string is decoded once and rules 1-2 re-applied
//  4. anything else, or any decode failure, returns an empty list
//
// Suggestions are best-effort; this path never fails.
func NormalizeSuggestions(content string) []string {
	var v any
	if err := json.Unmarshal([]byte(stripFences(content)), &v); err != nil {
		return []string{}
	}
	return suggestionList(v, 1)
}

func suggestionList(v any, redecodes int) []string {
	switch t := v.(type) {
	case map[string]any:
		if s, ok := t["suggestions"]; ok {
			if seq, ok := s.([]any); ok {
				return stringValues(seq)
			}
		}
		return []string{}
	case []any:
		return stringValues(t)
	case string:
		// Double-encoded reply: decode once and re-apply the rules.
		if redecodes > 0 {
			var inner any
			if err := json.Unmarshal([]byte(t), &inner); err == nil {
				return suggestionList(inner, redecodes-1)
			}
		}
		return []string{}
	default:
		return []string{}
	}
}

// stringValues keeps the string elements of a decoded sequence, in order.
func stringValues(seq []any) []string {
	out := make([]string, 0, len(seq))
	for _, item := range seq {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// stripFences removes surrounding markdown code fences that some models wrap
// around JSON output despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s[3:], "\n"); idx >= 0 {
			s = s[3+idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
