package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/labelscan/backend/internal/domain"
)

// ExtractJSONObject recovers the JSON object embedded in free-form model
// output. It takes the span from the leftmost '{' to the rightmost '}' and
// parses that as a whole. The greedy span tolerates prose before and after
// the payload, at the cost of breaking when unrelated braces appear around
// it; balanced-brace scanning would regress extraction rate on real model
// replies, so it is deliberately not done here. No schema validation happens
// at this layer.
func ExtractJSONObject(text string) (map[string]interface{}, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, domain.ErrNoJSONFound
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedJSON, err)
	}

	return parsed, nil
}
