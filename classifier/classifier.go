package classifier

import "context"

// Classification is the outcome of running a free-text personal-finance
// narrative through the external classification model.
type Classification struct {
	Label      string
	Confidence float32
}

// Classifier is the boundary to the sibling budget-classification system.
// The retrieval core never implements it; callers inject their own.
type Classifier interface {
	Classify(ctx context.Context, narrative string) (Classification, error)
}
