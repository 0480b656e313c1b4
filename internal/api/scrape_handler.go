// Package api exposes the scrape pipeline and the source store over HTTP.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/domain"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/export"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/logger"
)

// Scraper runs one scrape request.
type Scraper interface {
	Scrape(ctx context.Context, req domain.ScrapeRequest) domain.ScrapeResponse
}

// ScrapeHandler serves scrape runs as JSON or as a file download.
type ScrapeHandler struct {
	scraper Scraper
	logger  logger.Logger
}

// NewScrapeHandler creates a ScrapeHandler.
func NewScrapeHandler(scraper Scraper, log logger.Logger) *ScrapeHandler {
	return &ScrapeHandler{scraper: scraper, logger: log}
}

// Scrape handles POST /api/v1/scrape. Only a malformed body fails; the run
// itself always answers 200 with a (possibly empty) result list.
func (h *ScrapeHandler) Scrape(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.scraper.Scrape(c.Request.Context(), req))
}

// Export handles POST /api/v1/scrape/export?format=csv|xlsx.
func (h *ScrapeHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", string(export.FormatCSV)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid export format", "details": err.Error()})
		return
	}

	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	resp := h.scraper.Scrape(c.Request.Context(), req)

	var buf bytes.Buffer
	if writeErr := export.Write(&buf, format, resp.Results); writeErr != nil {
		h.logger.Error("Failed to encode export",
			logger.String("format", string(format)),
			logger.Error(writeErr),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode export"})
		return
	}

	filename := fmt.Sprintf("startup-scout-%s.%s", time.Now().UTC().Format("20060102-150405"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// bindRequest decodes the body. An empty body is an empty request.
func (h *ScrapeHandler) bindRequest(c *gin.Context) (domain.ScrapeRequest, bool) {
	var req domain.ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Debug("Invalid request body",
			logger.String("error", err.Error()),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return domain.ScrapeRequest{}, false
	}

	return req, true
}
