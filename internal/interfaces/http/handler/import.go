package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/meda/backend/internal/application/importer"
)

// ImportHandler handles CSV loan-tape imports
type ImportHandler struct {
	BaseHandler
	importer *importer.Service
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importer *importer.Service) *ImportHandler {
	return &ImportHandler{importer: importer}
}

// RegisterRoutes registers import routes on the API group
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/import", h.Import)
}

// Import ingests a CSV file of flagged loans. The file arrives as multipart
// field "file".
func (h *ImportHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
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

	result, err := h.importer.Import(c.Request.Context(), file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
