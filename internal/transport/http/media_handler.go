package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/waste3d/coursehub/internal/application/usecase"
	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/transport/http/response"

	"github.com/gin-gonic/gin"
)

const fileCacheControl = "public, max-age=31536000, immutable"

type MediaHandler struct {
	media *usecase.MediaUseCase
}

func NewMediaHandler(uc *usecase.MediaUseCase) *MediaHandler {
	return &MediaHandler{media: uc}
}

// POST /api/v1/upload
func (h *MediaHandler) Upload(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	// Room for the multipart envelope around a maximum size file.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, usecase.MaxUploadSize+64<<10)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, domain.Validation("media.Upload", "file must not exceed 5MB"))
			return
		}
		response.BadRequest(c, "file is required")
		return
	}
	if fh.Size > usecase.MaxUploadSize {
		response.Error(c, domain.Validation("media.Upload", "file must not exceed 5MB"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, usecase.MaxUploadSize+1))
	if err != nil {
		response.Error(c, err)
		return
	}
	res, err := h.media.Upload(c.Request.Context(), p, data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

// GET /api/v1/files/*key
func (h *MediaHandler) File(c *gin.Context) {
	data, contentType, err := h.media.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", fileCacheControl)
	c.Data(http.StatusOK, contentType, data)
}
