package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ikrajcar/uplatko/internal/extract"
	"github.com/ikrajcar/uplatko/internal/hub3"
	"github.com/ikrajcar/uplatko/internal/llm"
	"github.com/ikrajcar/uplatko/internal/pdf"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "uplatko",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// handleExtract accepts a PDF upload, extracts its text and resolves payment
// fields through the configured extraction path. Extraction itself never
// fails: AI problems degrade to heuristics with an advisory.
func (s *Server) handleExtract(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only PDF files are supported"})
		return
	}

	tmp, err := os.CreateTemp("", "uplatko_upload_*.pdf")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
		return
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
		return
	}

	text, err := s.reader.ExtractText(tmpPath)
	if err != nil {
		s.logger.Error("PDF text extraction failed", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not read the PDF"})
		return
	}

	provider := s.store.Provider()
	fields, advisories := s.resolver.Resolve(c.Request.Context(), text, provider, s.store)
	if advisories == nil {
		advisories = []extract.Advisory{}
	}

	c.JSON(http.StatusOK, gin.H{
		"fields":     fields,
		"advisories": advisories,
		"provider":   provider,
	})
}

// handleEncode validates a completed record and returns the HUB3 payload.
func (s *Server) handleEncode(c *gin.Context) {
	record, ok := bindRecord(c)
	if !ok {
		return
	}

	payload, err := hub3.Encode(record)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payload": payload})
}

// handleBarcode validates, encodes and renders the record as a PDF417 PNG.
func (s *Server) handleBarcode(c *gin.Context) {
	record, ok := bindRecord(c)
	if !ok {
		return
	}

	payload, err := hub3.Encode(record)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	image, err := s.generator.Render(payload)
	if err != nil {
		s.logger.Error("Barcode rendering failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "barcode rendering failed"})
		return
	}

	c.Data(http.StatusOK, "image/png", image)
}

// handleCompose stamps the barcode onto the uploaded PDF and returns the
// composite document. Failures are retryable; nothing server-side changes.
func (s *Server) handleCompose(c *gin.Context) {
	var record hub3.Record
	if err := json.Unmarshal([]byte(c.PostForm("record")), &record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record"})
		return
	}
	if err := hub3.Validate(record); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	var geometry pdf.Geometry
	if err := json.Unmarshal([]byte(c.PostForm("geometry")), &geometry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid geometry"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	defer src.Close()
	pdfBytes, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}

	payload, err := hub3.Encode(record)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	image, err := s.generator.Render(payload)
	if err != nil {
		s.logger.Error("Barcode rendering failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "barcode rendering failed"})
		return
	}

	composite, err := s.compositor.Stamp(pdfBytes, image, geometry)
	if err != nil {
		s.logger.Error("PDF composition failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "composition failed, try again"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="uplatnica.pdf"`)
	c.Data(http.StatusOK, "application/pdf", composite)
}

func (s *Server) handlePurposeCodes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"codes": hub3.PurposeCodes})
}

type settingsResponse struct {
	Provider     string `json:"provider"`
	GeminiKeySet bool   `json:"geminiKeySet"`
	GroqKeySet   bool   `json:"groqKeySet"`
}

func (s *Server) handleGetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, settingsResponse{
		Provider:     s.store.Provider(),
		GeminiKeySet: s.store.HasAPIKey(llm.ProviderGemini),
		GroqKeySet:   s.store.HasAPIKey(llm.ProviderGroq),
	})
}

type settingsRequest struct {
	Provider       string `json:"provider"`
	GeminiAPIKey   string `json:"geminiApiKey"`
	GroqAPIKey     string `json:"groqApiKey"`
	ClearGeminiKey bool   `json:"clearGeminiKey"`
	ClearGroqKey   bool   `json:"clearGroqKey"`
}

// handlePutSettings updates provider selection and credentials. Keys are
// write-only: reads report only whether one is set.
func (s *Server) handlePutSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload"})
		return
	}

	if req.Provider != "" {
		if err := s.store.SetProvider(req.Provider); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
	}

	var err error
	switch {
	case req.ClearGeminiKey:
		err = s.store.ClearAPIKey(llm.ProviderGemini)
	case req.GeminiAPIKey != "":
		err = s.store.SetAPIKey(llm.ProviderGemini, req.GeminiAPIKey)
	}
	if err == nil {
		switch {
		case req.ClearGroqKey:
			err = s.store.ClearAPIKey(llm.ProviderGroq)
		case req.GroqAPIKey != "":
			err = s.store.SetAPIKey(llm.ProviderGroq, req.GroqAPIKey)
		}
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store settings"})
		return
	}

	s.handleGetSettings(c)
}

// bindRecord decodes and validates the record body shared by the encode and
// barcode handlers.
func bindRecord(c *gin.Context) (hub3.Record, bool) {
	var record hub3.Record
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record payload"})
		return record, false
	}
	if err := hub3.Validate(record); err != nil {
		var fe *hub3.FormatError
		if errors.As(err, &fe) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "field": fe.Field})
		} else {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		}
		return record, false
	}
	return record, true
}
