package qdrant

import (
	"encoding/json"
	"strings"
)

// envelope is the outer object every qdrant HTTP response arrives in.
type envelope[T any] struct {
	Status responseStatus `json:"status"`
	Result T              `json:"result"`
}

// responseStatus normalizes the two shapes qdrant uses: the literal string
// "ok" on success, or an object carrying an error message on failure.
type responseStatus struct {
	State string `json:"status"`
	Error string `json:"error,omitempty"`
}

func (s *responseStatus) ok() bool {
	return strings.EqualFold(s.State, "ok")
}

func (s *responseStatus) UnmarshalJSON(b []byte) error {
	var state string
	if err := json.Unmarshal(b, &state); err == nil {
		s.State = strings.ToLower(state)
		return nil
	}

	var failure struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(b, &failure); err != nil {
		return err
	}

	if len(failure.Error) > 0 {
		s.State = "error"
		s.Error = failure.Error
	}

	return nil
}

// scoredPoint is one search hit: the stored vector plus the metadata
// payload the record was flattened into on Add.
type scoredPoint struct {
	Id      string         `json:"id"`
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload"`
	Vector  []float32      `json:"vector"`
}
