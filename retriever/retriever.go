package retriever

import (
	"context"
	"strings"

	"github.com/w-h-a/finrag/store"
)

type Intent string

const (
	IntentSummary  Intent = "SUMMARY"
	IntentSpecific Intent = "SPECIFIC"
)

var summaryMarkers = []string{"summarize", "overview", "brief", "report"}

// DetectIntent classifies a query with a case-insensitive substring match.
// No external call: intent detection stays fast and deterministic.
func DetectIntent(query string) Intent {
	q := strings.ToLower(query)
	for _, marker := range summaryMarkers {
		if strings.Contains(q, marker) {
			return IntentSummary
		}
	}
	return IntentSpecific
}

// Depth bounds one retrieval: how many candidates to fetch and the minimum
// similarity a candidate needs to be trusted as context.
type Depth struct {
	K              int
	ScoreThreshold float32
}

type DepthPolicy map[Intent]Depth

// DefaultDepthPolicy fetches wider for summaries but keeps k bounded to
// control downstream prompt size.
func DefaultDepthPolicy() DepthPolicy {
	return DepthPolicy{
		IntentSummary:  {K: 5, ScoreThreshold: 0.35},
		IntentSpecific: {K: 4, ScoreThreshold: 0.35},
	}
}

// Result is one fetched candidate. Rejected candidates stay in the list,
// flagged, so callers can account for every fetched record.
type Result struct {
	Record         store.Record
	Intent         Intent
	RelevanceScore float32
	Accepted       bool
}

// Accepted narrows a result list to the records that passed the score gate.
func Accepted(results []Result) []Result {
	out := make([]Result, 0, len(results))
	for _, result := range results {
		if result.Accepted {
			out = append(out, result)
		}
	}
	return out
}

// Retriever runs one query through intent classification, depth selection,
// the owner-filtered vector search, and score validation. An empty accepted
// set is a valid outcome, not an error.
type Retriever interface {
	Retrieve(ctx context.Context, query string, ownerId string, opts ...RetrieveOption) ([]Result, error)
}
