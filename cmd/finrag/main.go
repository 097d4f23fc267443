package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/w-h-a/finrag"
	"github.com/w-h-a/finrag/chunker"
	"github.com/w-h-a/finrag/chunker/recursive"
	"github.com/w-h-a/finrag/embedder"
	googleembedder "github.com/w-h-a/finrag/embedder/google"
	openaiembedder "github.com/w-h-a/finrag/embedder/openai"
	"github.com/w-h-a/finrag/generator"
	anthropicgenerator "github.com/w-h-a/finrag/generator/anthropic"
	googlegenerator "github.com/w-h-a/finrag/generator/google"
	openaigenerator "github.com/w-h-a/finrag/generator/openai"
	"github.com/w-h-a/finrag/ingest"
	"github.com/w-h-a/finrag/loader"
	csvloader "github.com/w-h-a/finrag/loader/csv"
	pdfloader "github.com/w-h-a/finrag/loader/pdf"
	textloader "github.com/w-h-a/finrag/loader/text"
	"github.com/w-h-a/finrag/retriever"
	"github.com/w-h-a/finrag/retriever/vector"
	"github.com/w-h-a/finrag/server"
	httpserver "github.com/w-h-a/finrag/server/http"
	"github.com/w-h-a/finrag/store"
	"github.com/w-h-a/finrag/store/chromem"
	"github.com/w-h-a/finrag/store/memory"
	"github.com/w-h-a/finrag/store/postgres"
	"github.com/w-h-a/finrag/store/qdrant"
)

var (
	cfg struct {
		// Server config
		Address string `help:"Address for the http server" env:"HTTP_ADDRESS" default:":4000"`

		// Chunker config
		ChunkSize    int `help:"Chunk size in characters" env:"CHUNK_SIZE" default:"512"`
		ChunkOverlap int `help:"Chunk overlap in characters" env:"CHUNK_OVERLAP" default:"50"`

		// Store config
		StoreBackend  string `help:"Vector store backend (memory, qdrant, postgres, chromem)" env:"STORE_BACKEND" default:"memory"`
		StoreLocation string `help:"Address or path of the vector store" env:"STORE_LOCATION" default:""`
		StoreKey      string `help:"API key for the vector store" env:"STORE_API_KEY" default:""`
		Collection    string `help:"Collection the records live in" env:"COLLECTION_NAME" default:"finrag_clean_v1"`
		VectorSize    int    `help:"Embedding dimension the store expects" env:"VECTOR_SIZE" default:"1536"`

		// Embedder config
		EmbedderProvider string `help:"Embedding provider (openai, google)" env:"EMBEDDER_PROVIDER" default:"openai"`
		EmbedderKey      string `help:"API key for the embedder" env:"EMBEDDER_API_KEY" default:""`
		Embedder         string `help:"Model identifier for the embedder" env:"EMBEDDER_MODEL" default:"text-embedding-3-small"`

		// Retriever config
		SummaryK       int     `help:"Candidates fetched for summary questions" env:"K_SUMMARY" default:"5"`
		SpecificK      int     `help:"Candidates fetched for specific questions" env:"K_DEFAULT" default:"4"`
		ScoreThreshold float32 `help:"Minimum similarity for context to be trusted" env:"SCORE_THRESHOLD" default:"0.35"`
		SessionScoping bool    `help:"Restrict retrieval to the owner's current session" env:"SESSION_SCOPING" default:"true"`

		// Generator config
		GeneratorProvider string `help:"Generation provider (openai, anthropic, google)" env:"GENERATOR_PROVIDER" default:"openai"`
		GeneratorKey      string `help:"API key for the generator" env:"GENERATOR_API_KEY" default:""`
		Generator         string `help:"Model identifier for the generator" env:"GENERATOR_MODEL" default:"gpt-4o-mini"`
		SystemPrompt      string `help:"System prompt for the analyst" env:"SYSTEM_PROMPT" default:""`
	}
)

func main() {
	_ = godotenv.Load()
	_ = kong.Parse(&cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := loader.NewRegistry()
	registry.Register(".txt", textloader.NewLoader())
	registry.Register(".md", textloader.NewLoader())
	registry.Register(".csv", csvloader.NewLoader())
	registry.Register(".pdf", pdfloader.NewLoader())

	split := recursive.NewChunker(
		chunker.WithChunkSize(cfg.ChunkSize),
		chunker.WithChunkOverlap(cfg.ChunkOverlap),
	)

	var emb embedder.Embedder
	switch cfg.EmbedderProvider {
	case "google":
		emb = googleembedder.NewEmbedder(
			embedder.WithApiKey(cfg.EmbedderKey),
			embedder.WithModel(cfg.Embedder),
		)
	default:
		emb = openaiembedder.NewEmbedder(
			embedder.WithApiKey(cfg.EmbedderKey),
			embedder.WithModel(cfg.Embedder),
		)
	}

	var st store.Store
	switch cfg.StoreBackend {
	case "qdrant":
		st = qdrant.NewStore(
			store.WithLocation(cfg.StoreLocation),
			store.WithCollection(cfg.Collection),
			store.WithVectorSize(cfg.VectorSize),
			store.WithApiKey(cfg.StoreKey),
		)
	case "postgres":
		st = postgres.NewStore(
			store.WithLocation(cfg.StoreLocation),
			store.WithCollection(cfg.Collection),
			store.WithVectorSize(cfg.VectorSize),
		)
	case "chromem":
		st = chromem.NewStore(
			store.WithLocation(cfg.StoreLocation),
			store.WithCollection(cfg.Collection),
		)
	default:
		st = memory.NewStore(
			store.WithCollection(cfg.Collection),
		)
	}

	ingestor := ingest.NewIngestor(
		ingest.WithRegistry(registry),
		ingest.WithChunker(split),
		ingest.WithEmbedder(emb),
		ingest.WithStore(st),
	)

	retr := vector.NewRetriever(
		retriever.WithStore(st),
		retriever.WithEmbedder(emb),
		retriever.WithDepthPolicy(retriever.DepthPolicy{
			retriever.IntentSummary:  {K: cfg.SummaryK, ScoreThreshold: cfg.ScoreThreshold},
			retriever.IntentSpecific: {K: cfg.SpecificK, ScoreThreshold: cfg.ScoreThreshold},
		}),
		retriever.WithSessionScoping(cfg.SessionScoping),
	)

	var gen generator.Generator
	switch cfg.GeneratorProvider {
	case "anthropic":
		gen = anthropicgenerator.NewGenerator(
			generator.WithApiKey(cfg.GeneratorKey),
			generator.WithModel(cfg.Generator),
		)
	case "google":
		gen = googlegenerator.NewGenerator(
			generator.WithApiKey(cfg.GeneratorKey),
			generator.WithModel(cfg.Generator),
		)
	default:
		gen = openaigenerator.NewGenerator(
			generator.WithApiKey(cfg.GeneratorKey),
			generator.WithModel(cfg.Generator),
		)
	}

	assistant := finrag.New(ingestor, retr, gen, cfg.SystemPrompt)

	srv := httpserver.NewServer(
		assistant.Service(),
		server.WithAddress(cfg.Address),
	)

	if err := srv.Run(ctx); err != nil {
		slog.ErrorContext(ctx, "server stopped", "error", err)
		os.Exit(1)
	}
}
