package api

import (
	"net/http"

	reqdto "clinic-scheduler/internal/handler/dto/request"
	"clinic-scheduler/internal/handler/httperr"
	"clinic-scheduler/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type CacheHandler struct {
	cacheCommands commands.CacheCommands
}

func NewCacheHandler(cacheCommands commands.CacheCommands) *CacheHandler {
	return &CacheHandler{cacheCommands: cacheCommands}
}

// InvalidateCache expires cached slot lists by appointment type and staff
// member, for operators recovering from out-of-band data changes.
func (h *CacheHandler) InvalidateCache(c *gin.Context) {
	var req reqdto.InvalidateCacheRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if err := h.cacheCommands.Invalidate(c.Request.Context(), req.TypeIDs, req.StaffIDs); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Cache invalidation failed", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
