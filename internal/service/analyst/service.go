package analyst

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/w-h-a/finrag/generator"
	"github.com/w-h-a/finrag/ingest"
	"github.com/w-h-a/finrag/internal/service/session"
	"github.com/w-h-a/finrag/retriever"
)

const (
	defaultSystemPrompt = "You are a careful financial analyst. Answer strictly from the provided context. When the context does not contain the answer, say so instead of guessing. Cite figures exactly as they appear."

	// Returned verbatim when nothing in the knowledge base clears the
	// relevance threshold. An empty context is a valid outcome, not an error.
	NoRelevantData = "No relevant financial data found in the knowledge base."
)

type Citation struct {
	Source string
	Page   string
	Score  float32
}

type Answer struct {
	Text      string
	Intent    retriever.Intent
	Citations []Citation
	Grounded  bool
}

type Service struct {
	sessions     *session.Service
	ingestor     ingest.Ingestor
	retriever    retriever.Retriever
	generator    generator.Generator
	systemPrompt string
}

// Upload opens a fresh session for the owner and ingests the document
// into it. The previous session's records are swept during ingestion.
func (s *Service) Upload(ctx context.Context, r io.Reader, filename string, ownerId string) (ingest.Receipt, error) {
	sess, err := s.sessions.StartSession(ctx, ownerId, "")
	if err != nil {
		return ingest.Receipt{}, err
	}

	receipt, err := s.ingestor.Ingest(ctx, r, filename, ownerId, sess.ID())
	if err != nil {
		return ingest.Receipt{}, err
	}

	return receipt, nil
}

// Ask answers a question against the owner's current session. Questions
// asked before any upload fail with a missing-session error.
func (s *Service) Ask(ctx context.Context, ownerId string, question string) (Answer, error) {
	if len(strings.TrimSpace(question)) == 0 {
		return Answer{}, errors.New("question is required")
	}

	sess, err := s.sessions.CurrentSession(ctx, ownerId)
	if err != nil {
		return Answer{}, &retriever.RetrievalError{OwnerId: ownerId, Err: err}
	}

	results, err := s.retriever.Retrieve(ctx, question, ownerId, retriever.WithSessionId(sess.ID()))
	if err != nil {
		return Answer{}, err
	}

	intent := retriever.DetectIntent(question)
	accepted := retriever.Accepted(results)

	if len(accepted) == 0 {
		slog.InfoContext(ctx, "no context cleared the threshold", "owner_id", ownerId, "intent", string(intent))
		return Answer{
			Text:     NoRelevantData,
			Intent:   intent,
			Grounded: false,
		}, nil
	}

	contextBlock, citations := buildContext(accepted)

	text, err := s.generator.Generate(ctx, s.systemPrompt, contextBlock, question)
	if err != nil {
		return Answer{}, err
	}

	return Answer{
		Text:      text,
		Intent:    intent,
		Citations: citations,
		Grounded:  true,
	}, nil
}

// Retrieve runs a query through the retriever against the owner's current
// session without generating an answer. Rejected candidates stay in the
// list, flagged.
func (s *Service) Retrieve(ctx context.Context, ownerId string, query string) ([]retriever.Result, error) {
	sess, err := s.sessions.CurrentSession(ctx, ownerId)
	if err != nil {
		return nil, &retriever.RetrievalError{OwnerId: ownerId, Err: err}
	}

	return s.retriever.Retrieve(ctx, query, ownerId, retriever.WithSessionId(sess.ID()))
}

// buildContext renders accepted results into the prompt context block,
// tagging each passage with its provenance.
func buildContext(results []retriever.Result) (string, []Citation) {
	var sb bytes.Buffer
	citations := make([]Citation, 0, len(results))

	for _, result := range results {
		fmt.Fprintf(&sb, "[Source: %s | Page: %s]\n%s\n\n", result.Record.Source, result.Record.Page, result.Record.Content)
		citations = append(citations, Citation{
			Source: result.Record.Source,
			Page:   result.Record.Page,
			Score:  result.RelevanceScore,
		})
	}

	return strings.TrimRight(sb.String(), "\n"), citations
}

func New(
	sessions *session.Service,
	ingestor ingest.Ingestor,
	retr retriever.Retriever,
	gen generator.Generator,
	systemPrompt string,
) *Service {
	if sessions == nil {
		panic("session service is required")
	}

	if ingestor == nil {
		panic("ingestor is required")
	}

	if retr == nil {
		panic("retriever is required")
	}

	if gen == nil {
		panic("generator is required")
	}

	if len(strings.TrimSpace(systemPrompt)) == 0 {
		systemPrompt = defaultSystemPrompt
	}

	return &Service{
		sessions:     sessions,
		ingestor:     ingestor,
		retriever:    retr,
		generator:    gen,
		systemPrompt: systemPrompt,
	}
}
