package finrag

import (
	"context"
	"io"

	"github.com/w-h-a/finrag/generator"
	"github.com/w-h-a/finrag/ingest"
	"github.com/w-h-a/finrag/internal/service/analyst"
	"github.com/w-h-a/finrag/internal/service/session"
	"github.com/w-h-a/finrag/retriever"
)

// Assistant is the embeddable entry point: upload financial documents for
// an owner, then ask questions answered strictly from that owner's
// current session.
type Assistant struct {
	analyst  *analyst.Service
	sessions *session.Service
}

func (a *Assistant) Upload(ctx context.Context, r io.Reader, filename string, ownerId string) (ingest.Receipt, error) {
	return a.analyst.Upload(ctx, r, filename, ownerId)
}

func (a *Assistant) Ask(ctx context.Context, ownerId string, question string) (analyst.Answer, error) {
	return a.analyst.Ask(ctx, ownerId, question)
}

func (a *Assistant) Retrieve(ctx context.Context, ownerId string, query string) ([]retriever.Result, error) {
	return a.analyst.Retrieve(ctx, ownerId, query)
}

func (a *Assistant) StartSession(ctx context.Context, ownerId string, sessionId string) (string, error) {
	sess, err := a.sessions.StartSession(ctx, ownerId, sessionId)
	if err != nil {
		return "", err
	}
	return sess.ID(), nil
}

func (a *Assistant) CurrentSessionId(ctx context.Context, ownerId string) (string, error) {
	sess, err := a.sessions.CurrentSession(ctx, ownerId)
	if err != nil {
		return "", err
	}
	return sess.ID(), nil
}

func (a *Assistant) ListOwnerIds(ctx context.Context) []string {
	return a.sessions.ListOwnerIds(ctx)
}

func (a *Assistant) EndSession(ctx context.Context, ownerId string) {
	a.sessions.EndSession(ctx, ownerId)
}

// Service exposes the orchestration layer for transports that serve the
// assistant directly.
func (a *Assistant) Service() *analyst.Service {
	return a.analyst
}

func New(
	ingestor ingest.Ingestor,
	retr retriever.Retriever,
	gen generator.Generator,
	systemPrompt string,
) *Assistant {
	sessions := session.New()

	svc := analyst.New(
		sessions,
		ingestor,
		retr,
		gen,
		systemPrompt,
	)

	return &Assistant{
		analyst:  svc,
		sessions: sessions,
	}
}
