// Package main provides the ingestion CLI for the email campaign
// corpus: load raw examples, normalize, embed, and index them.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bull/email-rag/internal/config"
	"github.com/bull/email-rag/internal/corpus"
	"github.com/bull/email-rag/internal/embedding"
	"github.com/bull/email-rag/internal/generator"
	"github.com/bull/email-rag/internal/index"
	"github.com/bull/email-rag/internal/pipeline"
	"github.com/bull/email-rag/internal/source"
)

var (
	corpusFile     string
	githubRepo     string
	githubPath     string
	checkpointFile string
)

var rootCmd = &cobra.Command{
	Use:   "email-ingest",
	Short: "Email campaign corpus ingestion tool",
	Long:  "CLI tool for building the email-campaigns similarity index in Qdrant",
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Normalize, embed, and index the email corpus",
	Long: `Loads raw email examples, normalizes them, generates embeddings,
and upserts them into the vector index.

This command:
1. Loads raw records from a JSON file (or a GitHub corpus repository)
2. Cleans records and derives signal features, dropping empty ones
3. Generates embeddings in rate-limited batches
4. Ensures the collection exists with the right dimensionality
5. Upserts vectors with capped metadata in batches

Environment variables:
  EMAILRAG_QDRANT_HOST  Qdrant hostname (default: localhost)
  EMAILRAG_QDRANT_PORT  Qdrant gRPC port (default: 6334)
  EMAILRAG_COLLECTION   Collection name (default: email-campaigns)
  OPENAI_API_KEY        OpenAI API key; when unset, zero vectors are
                        stored (offline mode)
  GITHUB_TOKEN          GitHub token for --github sources (optional)`,
	RunE: runSync,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report index statistics",
	RunE:  runStats,
}

func init() {
	syncCmd.Flags().StringVar(&corpusFile, "file", "", "JSON corpus file (default from EMAILRAG_CORPUS_FILE)")
	syncCmd.Flags().StringVar(&githubRepo, "github", "", "GitHub corpus source as owner/repo")
	syncCmd.Flags().StringVar(&githubPath, "path", "corpus", "directory within the GitHub repository")
	syncCmd.Flags().StringVar(&checkpointFile, "checkpoint", "", "write the normalized corpus to this path")
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(statsCmd)
}

func main() {
	// Load .env file if present (local development), ignore if missing.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	start := time.Now()
	logger := slog.Default()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// 1. Load raw records
	raws, malformed, err := loadRaws(ctx, cfg, logger)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d raw records (%d malformed skipped)\n", len(raws), malformed)

	// 2. Connect to Qdrant
	fmt.Printf("Connecting to Qdrant at %s:%d...\n", cfg.QdrantHost, cfg.QdrantPort)
	manager, err := index.NewManager(cfg, logger)
	if err != nil {
		return fmt.Errorf("connect to index service: %w", err)
	}
	defer manager.Close()

	// 3. Embedding provider (nil means offline: zero vectors)
	var provider embedding.Provider
	if cfg.HasOpenAI() {
		client, err := embedding.NewClient(cfg)
		if err != nil {
			return fmt.Errorf("create embedding client: %w", err)
		}
		provider = client
	} else {
		fmt.Println("No OpenAI key configured; storing zero vectors (offline mode)")
	}
	producer := embedding.NewProducer(provider, 0, logger)

	// 4. Run ingestion
	fmt.Println()
	fmt.Println("Ingesting corpus...")
	p := pipeline.New(corpus.NewNormalizer(logger), producer, provider, manager, generator.NewGenerator(nil, logger), nil, logger)

	stats, records, err := p.Ingest(ctx, raws, malformed)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	// 5. Optional checkpoint
	if checkpointFile != "" {
		if err := corpus.SaveCheckpoint(checkpointFile, records); err != nil {
			return err
		}
		fmt.Printf("Checkpoint written to %s\n", checkpointFile)
	}

	// 6. Print stage counts so attrition between stages is visible
	fmt.Println()
	fmt.Println("Sync complete!")
	fmt.Printf("  Loaded:    %d (%d malformed)\n", stats.Loaded, stats.Malformed)
	fmt.Printf("  Retained:  %d (%d dropped empty)\n", stats.Retained, stats.Dropped)
	fmt.Printf("  Embedded:  %d (%d failed batches zero-filled)\n", stats.Embedded, stats.FailedEmbedBatches)
	fmt.Printf("  Upserted:  %d (%d un-indexed)\n", stats.Upserted, stats.Unindexed)
	fmt.Printf("  Duration:  %s\n", stats.Duration.Round(time.Second))
	fmt.Printf("Total time: %s\n", time.Since(start).Round(time.Second))

	return nil
}

func loadRaws(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]corpus.RawRecord, int, error) {
	if githubRepo != "" {
		owner, repo, ok := strings.Cut(githubRepo, "/")
		if !ok {
			return nil, 0, fmt.Errorf("--github must be owner/repo, got %q", githubRepo)
		}
		client, err := source.NewClient(cfg.GitHubToken)
		if err != nil {
			return nil, 0, fmt.Errorf("create github client: %w", err)
		}
		fetcher := source.NewFetcher(client, owner, repo, githubPath, logger)
		return fetcher.FetchAll(ctx)
	}

	file := corpusFile
	if file == "" {
		file = cfg.CorpusFile
	}
	return corpus.LoadRaw(file)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	manager, err := index.NewManager(cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("connect to index service: %w", err)
	}
	defer manager.Close()

	count, err := manager.Describe(ctx)
	if err != nil {
		return fmt.Errorf("describe collection: %w", err)
	}

	fmt.Printf("Collection: %s\n", cfg.Collection)
	fmt.Printf("Vectors:    %d\n", count)
	return nil
}
