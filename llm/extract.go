package llm

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
)

// ErrInvalidJSON means the model reply contained no parseable JSON value.
// The caller fails the whole request; there is no fix-up or re-prompt.
var ErrInvalidJSON = errors.New("invalid JSON in model output")

// ExtractObject locates the single JSON object in a free-text model reply
// and parses it into v. The reply may wrap the object in a ```json fence or
// surround it with prose; the extraction takes the first '{' through the
// last '}' and parses exactly that substring.
func ExtractObject(raw string, v interface{}) error {
	return extract(raw, '{', '}', v)
}

// ExtractArray is ExtractObject for array-shaped replies ('[' .. ']').
func ExtractArray(raw string, v interface{}) error {
	return extract(raw, '[', ']', v)
}

func extract(raw string, open, close byte, v interface{}) error {
	trimmed := strings.TrimSpace(raw)

	var jsonStr string
	if strings.HasPrefix(trimmed, "```json") && strings.HasSuffix(trimmed, "```") {
		jsonStr = strings.TrimSpace(trimmed[len("```json") : len(trimmed)-len("```")])
	} else {
		start := strings.IndexByte(trimmed, open)
		end := strings.LastIndexByte(trimmed, close)
		if start == -1 || end == -1 || end < start {
			log.Printf("No JSON value found in model output: %s", trimmed)
			return ErrInvalidJSON
		}
		jsonStr = trimmed[start : end+1]
	}

	if err := json.Unmarshal([]byte(jsonStr), v); err != nil {
		log.Printf("Failed to parse model output: %v\nraw: %s\nextracted: %s", err, trimmed, jsonStr)
		return ErrInvalidJSON
	}

	return nil
}
