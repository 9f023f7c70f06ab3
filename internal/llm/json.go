package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	codeFenceRegex     = regexp.MustCompile("(?s)`{3}(?:json|JSON)?\\s*\\n?(.*?)\\n?`{3}")
	trailingCommaRegex = regexp.MustCompile(`,(\s*[}\]])`)
)

var ErrEmptyReply = errors.New("empty input")

// ParseJSON decodes a model reply into T. Models wrap JSON in code fences, surround it
// with prose, or leave trailing commas; each of those is retried in turn before giving up.
func ParseJSON[T any](text string) (T, error) {
	var out T
	text = strings.TrimSpace(text)
	if text == "" {
		return out, ErrEmptyReply
	}

	candidates := []string{text}
	if m := codeFenceRegex.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if obj := extractObject(text); obj != "" {
		candidates = append(candidates, obj)
	}

	var firstErr error
	for _, c := range candidates {
		for _, variant := range []string{c, trailingCommaRegex.ReplaceAllString(c, "$1")} {
			var v T
			err := json.Unmarshal([]byte(variant), &v)
			if err == nil {
				return v, nil
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return out, fmt.Errorf("parse model reply: %w (raw: %.200s)", firstErr, text)
}

func extractObject(text string) string {
	i := strings.Index(text, "{")
	j := strings.LastIndex(text, "}")
	if i < 0 || j <= i {
		return ""
	}
	return text[i : j+1]
}
