package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/w-h-a/finrag"
	"github.com/w-h-a/finrag/chunker"
	"github.com/w-h-a/finrag/chunker/recursive"
	"github.com/w-h-a/finrag/config"
	"github.com/w-h-a/finrag/embedder"
	openaiembedder "github.com/w-h-a/finrag/embedder/openai"
	"github.com/w-h-a/finrag/generator"
	openaigenerator "github.com/w-h-a/finrag/generator/openai"
	"github.com/w-h-a/finrag/ingest"
	"github.com/w-h-a/finrag/loader"
	csvloader "github.com/w-h-a/finrag/loader/csv"
	pdfloader "github.com/w-h-a/finrag/loader/pdf"
	textloader "github.com/w-h-a/finrag/loader/text"
	"github.com/w-h-a/finrag/retriever"
	"github.com/w-h-a/finrag/retriever/vector"
	"github.com/w-h-a/finrag/store/memory"
)

var (
	flags struct {
		Owner string `help:"Owner identifier for this session" default:"quickstart-user"`
	}
)

func main() {
	_ = kong.Parse(&flags)
	cfg := config.Load()
	ctx := context.Background()

	registry := loader.NewRegistry()
	registry.Register(".txt", textloader.NewLoader())
	registry.Register(".md", textloader.NewLoader())
	registry.Register(".csv", csvloader.NewLoader())
	registry.Register(".pdf", pdfloader.NewLoader())

	emb := openaiembedder.NewEmbedder(
		embedder.WithApiKey(cfg.EmbedderKey),
		embedder.WithModel(cfg.EmbedderModel),
	)

	st := memory.NewStore()

	ingestor := ingest.NewIngestor(
		ingest.WithRegistry(registry),
		ingest.WithChunker(recursive.NewChunker(
			chunker.WithChunkSize(cfg.ChunkSize),
			chunker.WithChunkOverlap(cfg.ChunkOverlap),
		)),
		ingest.WithEmbedder(emb),
		ingest.WithStore(st),
	)

	retr := vector.NewRetriever(
		retriever.WithStore(st),
		retriever.WithEmbedder(emb),
		retriever.WithDepthPolicy(cfg.DepthPolicy()),
		retriever.WithSessionScoping(cfg.SessionScoping),
	)

	gen := openaigenerator.NewGenerator(
		generator.WithApiKey(cfg.GeneratorKey),
		generator.WithModel(cfg.GeneratorModel),
	)

	assistant := finrag.New(ingestor, retr, gen, cfg.SystemPrompt)

	fmt.Println("finrag quickstart. Upload with /file <path>, then ask questions. Empty line quits.")

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("Error reading input:", err)
			continue
		}
		input = strings.TrimSpace(input)
		if len(input) == 0 {
			fmt.Println("Goodbye!")
			return
		}

		if strings.HasPrefix(input, "/file ") {
			path := strings.TrimSpace(input[len("/file "):])
			f, err := os.Open(path)
			if err != nil {
				fmt.Printf("Failed to open file: %v\n", err)
				continue
			}

			receipt, err := assistant.Upload(ctx, f, filepath.Base(path), flags.Owner)
			f.Close()
			if err != nil {
				fmt.Printf("Upload failed: %v\n", err)
				continue
			}

			fmt.Printf("Ingested %d chunks from %s into session %s\n", receipt.Chunks, receipt.Source, receipt.SessionId)
			continue
		}

		answer, err := assistant.Ask(ctx, flags.Owner, input)
		if err != nil {
			fmt.Printf("Ask failed: %v\n", err)
			continue
		}

		fmt.Println(answer.Text)

		for _, citation := range answer.Citations {
			fmt.Printf("  [Source: %s | Page: %s]\n", citation.Source, citation.Page)
		}
	}
}
