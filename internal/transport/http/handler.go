package handlers

import (
	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/middleware"
	"github.com/waste3d/coursehub/internal/transport/http/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func principal(c *gin.Context) (domain.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Error(c, domain.ErrNoSession)
	}
	return p, ok
}

func parseID(c *gin.Context, raw, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
