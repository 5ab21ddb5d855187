package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"roomcast/internal/media"
)

// UploadHandlers persists uploaded media and serves it back by reference id.
type UploadHandlers struct {
	store *media.Store
	log   *zerolog.Logger
}

// NewUploadHandlers creates a new upload handlers instance.
func NewUploadHandlers(store *media.Store, logger *zerolog.Logger) *UploadHandlers {
	return &UploadHandlers{
		store: store,
		log:   logger,
	}
}

// Upload stores a multipart file and returns its reference.
// POST /uploads
func (h *UploadHandlers) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.log.Debug().Err(err).Msg("invalid upload request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file field is required"})
		return
	}

	src, err := header.Open()
	if err != nil {
		h.log.Error().Err(err).Str("file", header.Filename).Msg("failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	defer src.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	f, err := h.store.Save(c.Request.Context(), header.Filename, contentType, src)
	if err != nil {
		h.log.Error().Err(err).Str("file", header.Filename).Msg("failed to store upload")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("id", f.ID).Str("file", f.Name).Int64("size", f.Size).Msg("media stored")
	c.JSON(http.StatusCreated, f)
}

// Download streams a stored blob back by reference id.
// GET /uploads/:id
func (h *UploadHandlers) Download(c *gin.Context) {
	id := c.Param("id")

	f, blob, err := h.store.Open(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "file not found"})
			return
		}
		h.log.Error().Err(err).Str("id", id).Msg("failed to open stored media")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	defer blob.Close()

	c.Header("Content-Disposition", `inline; filename="`+f.Name+`"`)
	c.Header("Content-Length", strconv.FormatInt(f.Size, 10))
	c.DataFromReader(http.StatusOK, f.Size, f.ContentType, blob, nil)
}
