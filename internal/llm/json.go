package llm

import (
	"encoding/json"
	"strings"

	"github.com/ikrajcar/uplatko/internal/hub3"
)

// decodeFields recovers a JSON object from raw model output. Models routinely
// wrap the object in whitespace, a BOM, or code fences, so the decoder takes
// the span from the first '{' to the last '}' and parses that. Any failure is
// a hard provider error, never a partial result.
func decodeFields(provider, raw string) (hub3.PartialRecord, error) {
	cleaned := strings.TrimPrefix(strings.TrimSpace(raw), "\uFEFF")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end < start {
		return hub3.PartialRecord{}, providerErr(provider, "no JSON object in response")
	}

	var fields hub3.PartialRecord
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &fields); err != nil {
		return hub3.PartialRecord{}, providerErr(provider, "invalid JSON in response: %w", err)
	}
	return fields, nil
}
