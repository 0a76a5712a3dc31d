package handler

import (
	"mime"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	documentapp "github.com/quotebook/backend/internal/application/document"
	"github.com/quotebook/backend/internal/interfaces/http/dto"
)

// DocumentHandler handles attachments on quotes, bookings and customers
type DocumentHandler struct {
	BaseHandler
	documentService *documentapp.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *documentapp.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

// Upload stores a multipart file for an owner.
// POST /admin/documents (fields: owner_type, owner_id, file)
func (h *DocumentHandler) Upload(c *gin.Context) {
	var req documentapp.UploadDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		h.bindError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.ValidationError(c, []dto.ValidationDetail{{Field: "file", Message: "This field is required"}})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}

	doc, err := h.documentService.Upload(c.Request.Context(), documentapp.UploadInput{
		OwnerType:   req.OwnerType,
		OwnerID:     uuid.MustParse(req.OwnerID),
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, doc)
}

// List returns the documents of one owner.
// GET /admin/documents?owner_type=&owner_id=
func (h *DocumentHandler) List(c *gin.Context) {
	var filter documentapp.DocumentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	docs, total, err := h.documentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, docs, total, filter.Page, filter.PageSize)
}

// GetByID returns document metadata with a presigned download URL.
// GET /admin/documents/:id
func (h *DocumentHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	doc, err := h.documentService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// Delete removes the stored object and its metadata.
// DELETE /admin/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
