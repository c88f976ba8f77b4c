package pdf

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"
)

// Geometry describes where the user dropped the barcode on the rendered
// preview, in top-left-origin screen coordinates.
type Geometry struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	CanvasWidth  float64 `json:"canvasWidth"`
	CanvasHeight float64 `json:"canvasHeight"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
}

// Box is a placement rectangle in bottom-left-origin document points.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Placement converts screen geometry to document coordinates. The preview
// canvas and the PDF page share an aspect ratio, so a single scale factor
// derived from the page height maps both axes. PDF pages have their origin
// at the bottom-left, screens at the top-left, hence the Y flip.
func Placement(pageHeight float64, g Geometry) (Box, error) {
	if g.CanvasHeight <= 0 {
		return Box{}, fmt.Errorf("canvas height must be positive")
	}
	scale := pageHeight / g.CanvasHeight
	return Box{
		X:      g.X * scale,
		Y:      pageHeight - (g.Y+g.Height)*scale,
		Width:  g.Width * scale,
		Height: g.Height * scale,
	}, nil
}

// Compositor stamps barcode images onto source PDFs.
type Compositor struct {
	logger *zap.Logger
}

// NewCompositor creates a new document compositor.
func NewCompositor(logger *zap.Logger) *Compositor {
	return &Compositor{logger: logger}
}

// Stamp embeds the PNG barcode onto the first page of the PDF at the given
// screen geometry and returns the re-serialized document. Failures here are
// retryable from the caller's point of view: the source document and the
// encoded payload are untouched.
func (c *Compositor) Stamp(pdfBytes, pngBytes []byte, g Geometry) ([]byte, error) {
	pageHeight, err := firstPageHeight(pdfBytes)
	if err != nil {
		return nil, err
	}

	box, err := Placement(pageHeight, g)
	if err != nil {
		return nil, err
	}
	return c.stamp(pdfBytes, pngBytes, box)
}

// StampPoints embeds the barcode at absolute bottom-left-origin document
// coordinates, for callers that work in points rather than screen space.
// The symbol's aspect ratio is preserved from the image.
func (c *Compositor) StampPoints(pdfBytes, pngBytes []byte, x, y, width float64) ([]byte, error) {
	return c.stamp(pdfBytes, pngBytes, Box{X: x, Y: y, Width: width})
}

func firstPageHeight(pdfBytes []byte) (float64, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(pdfBytes), conf)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF: %w", err)
	}
	dims, err := ctx.PageDims()
	if err != nil || len(dims) == 0 {
		return 0, fmt.Errorf("failed to read page dimensions: %w", err)
	}
	return dims[0].Height, nil
}

func (c *Compositor) stamp(pdfBytes, pngBytes []byte, box Box) ([]byte, error) {
	if box.Width <= 0 {
		return nil, fmt.Errorf("barcode width must be positive")
	}

	// A PNG pixel maps to one point at pdfcpu's natural image size, so the
	// absolute scale factor is target width over pixel width.
	imgConf, err := png.DecodeConfig(bytes.NewReader(pngBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode barcode PNG: %w", err)
	}
	if imgConf.Width == 0 {
		return nil, fmt.Errorf("barcode PNG has zero width")
	}
	factor := box.Width / float64(imgConf.Width)

	desc := fmt.Sprintf("pos:bl, off:%.2f %.2f, scale:%.4f abs, rot:0", box.X, box.Y, factor)
	wm, err := api.ImageWatermarkForReader(bytes.NewReader(pngBytes), desc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("failed to build image stamp: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	var out bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(pdfBytes), &out, []string{"1"}, wm, conf); err != nil {
		return nil, fmt.Errorf("failed to stamp barcode: %w", err)
	}

	c.logger.Info("Barcode stamped onto PDF",
		zap.Float64("x", box.X),
		zap.Float64("y", box.Y),
		zap.Float64("width", box.Width),
		zap.Int("bytes", out.Len()))

	return out.Bytes(), nil
}
