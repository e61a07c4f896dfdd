package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/meda/backend/internal/application/admin"
)

// AdminHandler handles demo reset and seed endpoints
type AdminHandler struct {
	BaseHandler
	admin *admin.Service
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(admin *admin.Service) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// RegisterRoutes registers admin routes on the API group
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/admin")
	group.POST("/reset", h.Reset)
	group.POST("/seed", h.Seed)
}

// Reset wipes all data
func (h *AdminHandler) Reset(c *gin.Context) {
	if err := h.admin.Reset(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Database reset"})
}

// Seed creates the demo organization, loan and exception
func (h *AdminHandler) Seed(c *gin.Context) {
	result, err := h.admin.Seed(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
