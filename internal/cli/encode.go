package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ikrajcar/uplatko/internal/barcode"
	"github.com/ikrajcar/uplatko/internal/config"
	"github.com/ikrajcar/uplatko/internal/hub3"
)

var (
	recordFlags barcodeOut

	encodeCmd = &cobra.Command{
		Use:   "encode",
		Short: "Encode payment details into a HUB3 payload or barcode PNG",
		Long: `Encode builds the HUB3 payload from the given payment details and
prints it to stdout. With --out the payload is rendered as a PDF417
barcode PNG instead.`,
		Args: cobra.NoArgs,
		RunE: runEncode,
	}
)

// barcodeOut collects the record flags shared by encode and generate.
type barcodeOut struct {
	record hub3.PartialRecord
	out    string
}

func (b *barcodeOut) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&b.record.RecipientName, "recipient", "", "recipient name (required)")
	f.StringVar(&b.record.RecipientAddress, "recipient-address", "", "recipient street address")
	f.StringVar(&b.record.RecipientCity, "recipient-city", "", "recipient postal code and city")
	f.StringVar(&b.record.PayerName, "payer", "", "payer name")
	f.StringVar(&b.record.PayerAddress, "payer-address", "", "payer street address")
	f.StringVar(&b.record.PayerCity, "payer-city", "", "payer postal code and city")
	f.StringVar(&b.record.IBAN, "iban", "", "recipient IBAN (required)")
	f.Float64Var(&b.record.Amount, "amount", 0, "amount in EUR (required)")
	f.StringVar(&b.record.Model, "model", "", "payment model, e.g. HR00 (default HR68)")
	f.StringVar(&b.record.ReferenceNumber, "reference", "", "reference number (required)")
	f.StringVar(&b.record.PurposeCode, "purpose", "", "purpose code, e.g. OTHR")
	f.StringVar(&b.record.Description, "description", "", "payment description (required)")
}

func init() {
	recordFlags.register(encodeCmd)
	encodeCmd.Flags().StringVar(&recordFlags.out, "out", "", "write a barcode PNG to this path instead of printing the payload")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadEnv()
	if err != nil {
		return err
	}
	defer logger.Sync()

	payload, err := buildPayload(recordFlags.record)
	if err != nil {
		return err
	}

	if recordFlags.out == "" {
		fmt.Fprintln(cmd.OutOrStdout(), payload)
		return nil
	}
	return writeBarcode(cfg, logger, payload, recordFlags.out)
}

// buildPayload completes, validates and encodes the record from CLI flags.
func buildPayload(partial hub3.PartialRecord) (string, error) {
	record := hub3.Complete(partial)
	if err := hub3.Validate(record); err != nil {
		var ferr *hub3.FormatError
		if errors.As(err, &ferr) {
			return "", fmt.Errorf("invalid %s: %s", ferr.Field, ferr.Reason)
		}
		return "", err
	}
	return hub3.Encode(record)
}

func newGenerator(cfg *config.Config, logger *zap.Logger) *barcode.Generator {
	return barcode.NewGenerator(barcode.Options{
		SecurityLevel: cfg.Barcode.SecurityLevel,
		ScaleX:        cfg.Barcode.ScaleX,
		ScaleY:        cfg.Barcode.ScaleY,
	}, logger)
}

func writeBarcode(cfg *config.Config, logger *zap.Logger, payload, path string) error {
	img, err := newGenerator(cfg, logger).Render(payload)
	if err != nil {
		return fmt.Errorf("failed to render barcode: %w", err)
	}
	if err := os.WriteFile(path, img, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
