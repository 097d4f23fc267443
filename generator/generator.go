package generator

import "context"

// Generator produces a grounded answer from retrieved context. Output is
// token-capped; determinism is not part of the contract.
type Generator interface {
	Generate(ctx context.Context, systemPrompt string, contextBlock string, question string) (string, error)
}
