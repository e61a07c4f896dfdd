package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appchase "github.com/meda/backend/internal/application/chase"
)

// UploadHandler handles borrower document uploads from the portal
type UploadHandler struct {
	BaseHandler
	exceptions *appchase.ExceptionService
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(exceptions *appchase.ExceptionService) *UploadHandler {
	return &UploadHandler{exceptions: exceptions}
}

// RegisterRoutes registers upload routes on the API group
func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload/:exceptionId", h.Upload)
}

// Upload receives one document for an exception. The file arrives as
// multipart field "document".
func (h *UploadHandler) Upload(c *gin.Context) {
	id, err := uuid.Parse(c.Param("exceptionId"))
	if err != nil {
		h.BadRequest(c, "Invalid exception ID")
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		h.BadRequest(c, "No file uploaded")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read upload")
		return
	}
	defer file.Close()

	doc, err := h.exceptions.ReceiveDocument(
		c.Request.Context(),
		id,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}
