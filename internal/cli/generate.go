package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ikrajcar/uplatko/internal/hub3"
	"github.com/ikrajcar/uplatko/internal/pdf"
)

var (
	generateFlags barcodeOut
	generateX     float64
	generateY     float64
	generateWidth float64

	generateCmd = &cobra.Command{
		Use:   "generate <invoice.pdf>",
		Short: "Stamp a payment barcode onto an invoice PDF",
		Long: `Generate runs the whole pipeline: extract payment fields from the
invoice, apply any overrides given as flags, encode the HUB3 payload,
render the PDF417 barcode and stamp it onto the first page. The result
is written next to the input as <name>-uplatnica.pdf unless --out is
given.`,
		Args: cobra.ExactArgs(1),
		RunE: runGenerate,
	}
)

func init() {
	generateFlags.register(generateCmd)
	generateCmd.Flags().StringVar(&extractProvider, "provider", "", "extraction provider: none, gemini or groq (default: stored setting)")
	generateCmd.Flags().StringVar(&generateFlags.out, "out", "", "output PDF path")
	generateCmd.Flags().Float64Var(&generateX, "x", 40, "barcode left edge in points from the page's left edge")
	generateCmd.Flags().Float64Var(&generateY, "y", 40, "barcode bottom edge in points from the page's bottom edge")
	generateCmd.Flags().Float64Var(&generateWidth, "width", 180, "barcode width in points")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadEnv()
	if err != nil {
		return err
	}
	defer logger.Sync()

	input := args[0]
	fields, advisories, err := extractFromFile(cmd, cfg, logger, input)
	if err != nil {
		return err
	}
	for _, adv := range advisories {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", adv.Message)
	}

	payload, err := buildPayload(overlay(fields, generateFlags.record))
	if err != nil {
		return err
	}

	gen := newGenerator(cfg, logger)
	img, err := gen.Render(payload)
	if err != nil {
		return fmt.Errorf("failed to render barcode: %w", err)
	}

	pdfBytes, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}
	stamped, err := pdf.NewCompositor(logger).StampPoints(pdfBytes, img, generateX, generateY, generateWidth)
	if err != nil {
		return err
	}

	out := generateFlags.out
	if out == "" {
		out = strings.TrimSuffix(input, ".pdf") + "-uplatnica.pdf"
	}
	if err := os.WriteFile(out, stamped, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// overlay applies flag overrides on top of extracted fields. Only fields the
// user set win; zero values leave the extracted value in place.
func overlay(base, override hub3.PartialRecord) hub3.PartialRecord {
	if override.PayerName != "" {
		base.PayerName = override.PayerName
	}
	if override.PayerAddress != "" {
		base.PayerAddress = override.PayerAddress
	}
	if override.PayerCity != "" {
		base.PayerCity = override.PayerCity
	}
	if override.RecipientName != "" {
		base.RecipientName = override.RecipientName
	}
	if override.RecipientAddress != "" {
		base.RecipientAddress = override.RecipientAddress
	}
	if override.RecipientCity != "" {
		base.RecipientCity = override.RecipientCity
	}
	if override.IBAN != "" {
		base.IBAN = override.IBAN
	}
	if override.Amount != 0 {
		base.Amount = override.Amount
	}
	if override.Model != "" {
		base.Model = override.Model
	}
	if override.ReferenceNumber != "" {
		base.ReferenceNumber = override.ReferenceNumber
	}
	if override.PurposeCode != "" {
		base.PurposeCode = override.PurposeCode
	}
	if override.Description != "" {
		base.Description = override.Description
	}
	return base
}
