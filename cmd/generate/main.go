// Package main provides the serving CLI: retrieve similar campaign
// examples for a brief and generate a new marketing email.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bull/email-rag/internal/config"
	"github.com/bull/email-rag/internal/corpus"
	"github.com/bull/email-rag/internal/embedding"
	"github.com/bull/email-rag/internal/export"
	"github.com/bull/email-rag/internal/generator"
	"github.com/bull/email-rag/internal/index"
	"github.com/bull/email-rag/internal/pipeline"
	"github.com/bull/email-rag/internal/store"
)

var (
	productName        string
	productDescription string
	campaignType       string
	targetAudience     string
	keyMessage         string
	topK               int
	withImage          bool
	saveEmail          bool
	htmlPath           string
)

var rootCmd = &cobra.Command{
	Use:   "email-gen",
	Short: "Generate marketing emails from the campaign corpus",
	Long:  "Retrieves similar prior campaigns and generates a new email draft conditioned on them",
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a marketing email for a brief",
	Long: `Synthesizes a retrieval query from the brief, finds the most
similar prior campaigns in the index, and generates a new email
conditioned on them.

Works fully offline: with no OpenAI key or no reachable index the
output degrades to deterministic fallback content and the fixed
example set, never to a failure.`,
	RunE: runGenerate,
}

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage saved generated emails",
}

var savedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved emails",
	RunE:  runSavedList,
}

var savedShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one saved email",
	Args:  cobra.ExactArgs(1),
	RunE:  runSavedShow,
}

var savedDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved email",
	Args:  cobra.ExactArgs(1),
	RunE:  runSavedDelete,
}

func init() {
	generateCmd.Flags().StringVar(&productName, "product", "", "product or company name")
	generateCmd.Flags().StringVar(&productDescription, "description", "", "product description")
	generateCmd.Flags().StringVar(&campaignType, "campaign", "announcement", "campaign type")
	generateCmd.Flags().StringVar(&targetAudience, "audience", "general audience", "target audience")
	generateCmd.Flags().StringVar(&keyMessage, "message", "", "key message")
	generateCmd.Flags().IntVar(&topK, "top-k", pipeline.DefaultTopK, "similar examples to retrieve")
	generateCmd.Flags().BoolVar(&withImage, "image", false, "also generate a campaign image")
	generateCmd.Flags().BoolVar(&saveEmail, "save", false, "save the generated email")
	generateCmd.Flags().StringVar(&htmlPath, "html", "", "write an HTML rendering to this path")
	_ = generateCmd.MarkFlagRequired("product")

	savedCmd.AddCommand(savedListCmd, savedShowCmd, savedDeleteCmd)
	rootCmd.AddCommand(generateCmd, savedCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	logger := slog.Default()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	brief := generator.Brief{
		ProductName:        productName,
		ProductDescription: productDescription,
		CampaignType:       campaignType,
		TargetAudience:     targetAudience,
		KeyMessage:         keyMessage,
	}

	p := buildPipeline(cfg, logger)

	result := p.Compose(ctx, brief, topK)
	email := result.Email

	if withImage {
		email.ImageURL = p.GenerateImage(ctx, brief)
	}

	printEmail(email)

	if result.UsedFallbackExamples {
		fmt.Println("(retrieval unavailable; conditioned on the built-in example set)")
	} else {
		fmt.Printf("(conditioned on %d retrieved examples)\n", len(result.Examples))
	}

	if htmlPath != "" {
		html, err := export.HTML(email)
		if err != nil {
			return fmt.Errorf("render html: %w", err)
		}
		if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
			return fmt.Errorf("write html: %w", err)
		}
		fmt.Printf("HTML written to %s\n", htmlPath)
	}

	if saveEmail {
		s, err := store.NewStore(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer s.Close()

		id, err := s.Save(ctx, email, brief)
		if err != nil {
			return fmt.Errorf("save email: %w", err)
		}
		fmt.Printf("Saved as %s\n", id)
	}

	return nil
}

// buildPipeline assembles the serving pipeline, substituting nil for
// every collaborator that is not configured or not reachable. Each
// nil selects a documented fallback rather than a failure.
func buildPipeline(cfg *config.Config, logger *slog.Logger) *pipeline.Pipeline {
	var provider embedding.Provider
	var chat generator.ChatProvider
	var images generator.ImageProvider
	if cfg.HasOpenAI() {
		client, err := embedding.NewClient(cfg)
		if err != nil {
			logger.Warn("embedding client unavailable", "error", err)
		} else {
			provider = client
			chat = generator.NewChatProvider(client.Client(), cfg.ChatModel)
			images = generator.NewImageProvider(client.Client(), cfg.ImageModel)
		}
	}

	var idx pipeline.Index
	manager, err := index.NewManager(cfg, logger)
	if err != nil {
		logger.Warn("index unavailable, serving will use fallback examples", "error", err)
	} else {
		idx = manager
	}

	return pipeline.New(
		corpus.NewNormalizer(logger),
		embedding.NewProducer(provider, 0, logger),
		provider,
		idx,
		generator.NewGenerator(chat, logger),
		images,
		logger,
	)
}

func printEmail(email generator.Email) {
	fmt.Println()
	fmt.Printf("Subject: %s\n", email.Subject)
	fmt.Println()
	fmt.Println(email.Body)
	fmt.Println()
	fmt.Printf("CTA: %s\n", email.CTA)
	if email.ImageURL != "" {
		fmt.Printf("Image: %s\n", email.ImageURL)
	}
	if email.Fallback {
		fmt.Println("(deterministic fallback content; no model provider used)")
	}
	fmt.Println()
}

func runSavedList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	s, err := store.NewStore(cfg.DataDir)
	if err != nil {
		return err
	}
	defer s.Close()

	emails, err := s.List(context.Background())
	if err != nil {
		return err
	}
	if len(emails) == 0 {
		fmt.Println("No saved emails")
		return nil
	}
	for _, e := range emails {
		fmt.Printf("%s  %-20s  %-24s  %s\n", e.ID, e.CampaignType, e.SavedAt.Format("2006-01-02 15:04"), e.Subject)
	}
	return nil
}

func runSavedShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	s, err := store.NewStore(cfg.DataDir)
	if err != nil {
		return err
	}
	defer s.Close()

	e, err := s.Get(context.Background(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Subject: %s\n\n%s\n\nCTA: %s\n", e.Subject, e.Body, e.CTA)
	if e.ImageURL != "" {
		fmt.Printf("Image: %s\n", e.ImageURL)
	}
	fmt.Printf("Generated: %s  Saved: %s\n", e.GeneratedAt.Format("2006-01-02 15:04"), e.SavedAt.Format("2006-01-02 15:04"))
	return nil
}

func runSavedDelete(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	s, err := store.NewStore(cfg.DataDir)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Delete(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Println("Deleted")
	return nil
}
