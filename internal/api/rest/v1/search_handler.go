package v1

import (
	"net/http"

	"github.com/ShiroyamaY/tms/internal/domain/search"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// SearchHandler defines the interface for full-text search
type SearchHandler interface {
	Search(ctx *gin.Context)
}

type searchHandler struct {
	searchService search.SearchService
	logger        logger.Logger
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(searchService search.SearchService, logger logger.Logger) SearchHandler {
	return &searchHandler{searchService: searchService, logger: logger}
}

// Search queries the task or comment index
func (handler *searchHandler) Search(ctx *gin.Context) {
	hits, err := handler.searchService.Search(ctx.Request.Context(), search.Target(ctx.Query("target")), ctx.Query("query"))
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	if hits == nil {
		hits = []search.Hit{}
	}
	ctx.JSON(http.StatusOK, hits)
}
