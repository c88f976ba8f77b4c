package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ikrajcar/uplatko/internal/config"
	"github.com/ikrajcar/uplatko/internal/extract"
	"github.com/ikrajcar/uplatko/internal/hub3"
	"github.com/ikrajcar/uplatko/internal/llm"
	"github.com/ikrajcar/uplatko/internal/pdf"
	"github.com/ikrajcar/uplatko/internal/settings"
)

var extractProvider string

var extractCmd = &cobra.Command{
	Use:   "extract <invoice.pdf>",
	Short: "Extract payment fields from an invoice PDF",
	Long: `Extract reads the text layer of an invoice PDF and prints the
recognized payment fields as JSON. With --provider the text is also sent
to the configured AI provider; on any provider failure the built-in
heuristic result is printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractProvider, "provider", "", "extraction provider: none, gemini or groq (default: stored setting)")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadEnv()
	if err != nil {
		return err
	}
	defer logger.Sync()

	fields, advisories, err := extractFromFile(cmd, cfg, logger, args[0])
	if err != nil {
		return err
	}

	for _, adv := range advisories {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", adv.Message)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(fields)
}

// extractFromFile runs the PDF text pipeline shared by extract and generate.
func extractFromFile(cmd *cobra.Command, cfg *config.Config, logger *zap.Logger, path string) (hub3.PartialRecord, []extract.Advisory, error) {
	text, err := pdf.NewReader(logger).ExtractText(path)
	if err != nil {
		return hub3.PartialRecord{}, nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return hub3.PartialRecord{}, nil, err
	}
	defer store.Close()

	provider := extractProvider
	if provider == "" {
		provider = store.Provider()
	}

	resolver := extract.NewResolver(logger,
		llm.NewGemini(cfg.LLM.GeminiEndpoint, cfg.LLM.Timeout, logger),
		llm.NewGroq(cfg.LLM.GroqBaseURL, cfg.LLM.GroqModel, cfg.LLM.Timeout, logger),
	)

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.LLM.Timeout+5*time.Second)
	defer cancel()

	fields, advisories := resolver.Resolve(ctx, text, provider, store)
	return fields, advisories, nil
}

func openStore(cfg *config.Config) (*settings.Store, error) {
	if dir := filepath.Dir(cfg.Settings.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create settings directory: %w", err)
		}
	}
	store, err := settings.Open(cfg.Settings.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}
	return store, nil
}
