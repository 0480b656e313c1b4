package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/domain"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/logger"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/repository"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/sources"
)

// SourceStore is the persistence the source handler needs.
type SourceStore interface {
	List(ctx context.Context) ([]domain.SourceConfig, error)
	GetByID(ctx context.Context, id string) (*domain.SourceConfig, error)
	Create(ctx context.Context, src *domain.SourceConfig) error
	Update(ctx context.Context, src *domain.SourceConfig) error
	Delete(ctx context.Context, id string) error
	Toggle(ctx context.Context, id string) (*domain.SourceConfig, error)
}

// sourceRequest is the create/update body. Enabled is a pointer so an
// omitted flag defaults to true on create and is left alone on update.
type sourceRequest struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Kind    domain.SourceKind `json:"kind"`
	FeedURL string            `json:"feedUrl"`
	Query   string            `json:"query"`
	Enabled *bool             `json:"enabled"`
}

func (r sourceRequest) apply(src *domain.SourceConfig) {
	src.Name = r.Name
	src.Kind = r.Kind
	src.FeedURL = r.FeedURL
	src.Query = r.Query
	if r.Enabled != nil {
		src.Enabled = *r.Enabled
	}
}

// SourceHandler serves CRUD on the source store.
type SourceHandler struct {
	store  SourceStore
	logger logger.Logger
}

// NewSourceHandler creates a SourceHandler.
func NewSourceHandler(store SourceStore, log logger.Logger) *SourceHandler {
	return &SourceHandler{store: store, logger: log}
}

func (h *SourceHandler) Create(c *gin.Context) {
	var req sourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Invalid request body", logger.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	src := domain.SourceConfig{ID: req.ID, Enabled: true}
	req.apply(&src)

	if err := sources.Validate(src); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source", "details": err.Error()})
		return
	}

	if err := h.store.Create(c.Request.Context(), &src); err != nil {
		h.logger.Error("Failed to create source",
			logger.String("source_name", src.Name),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create source"})
		return
	}

	h.logger.Info("Source created",
		logger.String("source_id", src.ID),
		logger.String("source_name", src.Name),
	)

	c.JSON(http.StatusCreated, src)
}

func (h *SourceHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	src, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondStoreError(c, "Failed to get source", id, err)
		return
	}

	c.JSON(http.StatusOK, src)
}

func (h *SourceHandler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list sources", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sources"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sources": list,
		"count":   len(list),
	})
}

func (h *SourceHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req sourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Invalid request body",
			logger.String("source_id", id),
			logger.String("error", err.Error()),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	src, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondStoreError(c, "Failed to get source", id, err)
		return
	}

	req.apply(src)

	if validateErr := sources.Validate(*src); validateErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source", "details": validateErr.Error()})
		return
	}

	if updateErr := h.store.Update(c.Request.Context(), src); updateErr != nil {
		h.respondStoreError(c, "Failed to update source", id, updateErr)
		return
	}

	h.logger.Info("Source updated",
		logger.String("source_id", id),
		logger.String("source_name", src.Name),
	)

	c.JSON(http.StatusOK, src)
}

func (h *SourceHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.respondStoreError(c, "Failed to delete source", id, err)
		return
	}

	h.logger.Info("Source deleted", logger.String("source_id", id))

	c.Status(http.StatusNoContent)
}

func (h *SourceHandler) Toggle(c *gin.Context) {
	id := c.Param("id")

	src, err := h.store.Toggle(c.Request.Context(), id)
	if err != nil {
		h.respondStoreError(c, "Failed to toggle source", id, err)
		return
	}

	h.logger.Info("Source toggled",
		logger.String("source_id", id),
		logger.Bool("enabled", src.Enabled),
	)

	c.JSON(http.StatusOK, src)
}

// respondStoreError maps ErrSourceNotFound to 404 and anything else to 500.
func (h *SourceHandler) respondStoreError(c *gin.Context, msg, id string, err error) {
	if errors.Is(err, repository.ErrSourceNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		return
	}

	h.logger.Error(msg,
		logger.String("source_id", id),
		logger.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
