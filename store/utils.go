package store

import (
	"errors"
	"math"
)

// ValidateBatch enforces the isolation preconditions before anything is
// written: a record without an owner can never be filtered back out.
func ValidateBatch(records []Record) error {
	for _, rec := range records {
		if len(rec.OwnerId) == 0 {
			return errors.New("record is missing owner id")
		}
		if len(rec.Embedding) == 0 {
			return errors.New("record is missing its embedding")
		}
	}
	return nil
}

func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
