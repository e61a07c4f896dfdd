package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	appchase "github.com/meda/backend/internal/application/chase"
)

// CommunicationHandler handles the activity feed API
type CommunicationHandler struct {
	BaseHandler
	communications *appchase.CommunicationService
}

// NewCommunicationHandler creates a new CommunicationHandler
func NewCommunicationHandler(communications *appchase.CommunicationService) *CommunicationHandler {
	return &CommunicationHandler{communications: communications}
}

// RegisterRoutes registers communication routes on the API group
func (h *CommunicationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/communications", h.Recent)
}

// Recent returns the latest communications across all exceptions
func (h *CommunicationHandler) Recent(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		h.BadRequest(c, "Invalid limit")
		return
	}

	comms, err := h.communications.Recent(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, comms)
}
