package agents

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractObject finds the first balanced JSON object in raw model output
// and unmarshals it into dest. Markdown fences and surrounding prose are
// tolerated.
func ExtractObject(raw string, dest any) error {
	fragment := extractBalanced(stripFences(raw), '{', '}')
	if fragment == "" {
		return fmt.Errorf("no JSON object found in response")
	}
	if err := json.Unmarshal([]byte(fragment), dest); err != nil {
		return fmt.Errorf("parse JSON object: %w", err)
	}
	return nil
}

// ExtractArray is ExtractObject for top-level JSON arrays.
func ExtractArray(raw string, dest any) error {
	fragment := extractBalanced(stripFences(raw), '[', ']')
	if fragment == "" {
		return fmt.Errorf("no JSON array found in response")
	}
	if err := json.Unmarshal([]byte(fragment), dest); err != nil {
		return fmt.Errorf("parse JSON array: %w", err)
	}
	return nil
}

// stripFences returns the content of the first ```json (or bare ```)
// fenced block, or the input unchanged when there is no fence.
func stripFences(s string) string {
	start := strings.Index(s, "```")
	if start == -1 {
		return s
	}
	nl := strings.Index(s[start:], "\n")
	if nl == -1 {
		return s
	}
	body := s[start+nl+1:]
	if end := strings.Index(body, "```"); end != -1 {
		body = body[:end]
	}
	return body
}

// extractBalanced returns the first balanced open..close run, tracking
// string literals so braces inside values do not break the count.
func extractBalanced(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
