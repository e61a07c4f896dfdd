package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appchase "github.com/meda/backend/internal/application/chase"
	"github.com/meda/backend/internal/interfaces/http/dto"
)

// ExceptionHandler handles exception API endpoints
type ExceptionHandler struct {
	BaseHandler
	exceptions *appchase.ExceptionService
}

// NewExceptionHandler creates a new ExceptionHandler
func NewExceptionHandler(exceptions *appchase.ExceptionService) *ExceptionHandler {
	return &ExceptionHandler{exceptions: exceptions}
}

// RegisterRoutes registers exception routes on the API group
func (h *ExceptionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/exceptions")
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.POST("/:id/resolve", h.Resolve)
	group.POST("/:id/reject", h.Reject)
}

// List returns exceptions, newest first, optionally filtered
func (h *ExceptionHandler) List(c *gin.Context) {
	var query appchase.ListExceptionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	exceptions, err := h.exceptions.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, exceptions)
}

// Create flags a new exception and schedules the first chase attempt
func (h *ExceptionHandler) Create(c *gin.Context) {
	var req appchase.CreateExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	exc, err := h.exceptions.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, exc)
}

// Get returns one exception with its communications, documents and audit trail
func (h *ExceptionHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	exc, err := h.exceptions.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, exc)
}

// Resolve marks an exception resolved
func (h *ExceptionHandler) Resolve(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	exc, err := h.exceptions.Resolve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, exc)
}

// Reject re-opens an exception and schedules another chase attempt
func (h *ExceptionHandler) Reject(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	// The reason is optional; an empty request body is fine.
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	exc, err := h.exceptions.Reject(c.Request.Context(), id, body.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, exc)
}

func (h *ExceptionHandler) bindID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid exception ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid exception ID")
		return uuid.Nil, false
	}
	return id, true
}
