package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CommonHandler defines the probes and documents served outside the versioned API
type CommonHandler interface {
	Health(ctx *gin.Context)
	Protected(ctx *gin.Context)
	OpenAPI(ctx *gin.Context)
}

type commonHandler struct {
	openAPI []byte
}

// NewCommonHandler creates a new CommonHandler
func NewCommonHandler(openAPI []byte) CommonHandler {
	return &commonHandler{openAPI: openAPI}
}

// Health reports that the process serves requests
func (handler *commonHandler) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, LiveResponse{Live: true})
}

// Protected reports liveness to authenticated callers only
func (handler *commonHandler) Protected(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, LiveResponse{Live: true})
}

// OpenAPI serves the API description
func (handler *commonHandler) OpenAPI(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "application/yaml", handler.openAPI)
}
