// Package barcode renders HUB3 payloads as PDF417 symbols, the symbology
// Croatian banking apps expect on payment slips.
package barcode

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/pdf417"
	"go.uber.org/zap"
)

// Options control symbol robustness and raster density.
type Options struct {
	// SecurityLevel is the PDF417 error correction level (0-8), where 0 is
	// a legal level. Out-of-range values select the default, which is
	// generous since printed slips get scanned from paper.
	SecurityLevel int
	// ScaleX and ScaleY multiply the module grid into pixels. PDF417
	// modules are much wider than tall, hence the asymmetric defaults.
	ScaleX int
	ScaleY int
}

// DefaultOptions mirror the symbol parameters banking apps are tested
// against.
func DefaultOptions() Options {
	return Options{SecurityLevel: 4, ScaleX: 2, ScaleY: 6}
}

// Generator renders PDF417 barcodes as PNG images.
type Generator struct {
	opts   Options
	logger *zap.Logger
}

// NewGenerator creates a barcode generator. Non-positive scale factors and
// out-of-range security levels fall back to defaults; level 0 is honored.
func NewGenerator(opts Options, logger *zap.Logger) *Generator {
	def := DefaultOptions()
	if opts.SecurityLevel < 0 || opts.SecurityLevel > 8 {
		opts.SecurityLevel = def.SecurityLevel
	}
	if opts.ScaleX <= 0 {
		opts.ScaleX = def.ScaleX
	}
	if opts.ScaleY <= 0 {
		opts.ScaleY = def.ScaleY
	}
	return &Generator{opts: opts, logger: logger}
}

// Render encodes the payload into a PDF417 symbol and returns PNG bytes.
// Every character of the payload is preserved verbatim; the payload's
// newline delimiters are part of the encoded data.
func (g *Generator) Render(payload string) ([]byte, error) {
	symbol, err := pdf417.Encode(payload, byte(g.opts.SecurityLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to encode PDF417 symbol: %w", err)
	}

	bounds := symbol.Bounds()
	scaled, err := barcode.Scale(symbol,
		bounds.Dx()*g.opts.ScaleX,
		bounds.Dy()*g.opts.ScaleY)
	if err != nil {
		return nil, fmt.Errorf("failed to scale barcode: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	g.logger.Debug("Barcode rendered",
		zap.Int("payload_len", len(payload)),
		zap.Int("width", bounds.Dx()*g.opts.ScaleX),
		zap.Int("height", bounds.Dy()*g.opts.ScaleY))

	return buf.Bytes(), nil
}
