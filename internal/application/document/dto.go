package document

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/document"
)

// UploadDocumentRequest holds the form fields of a multipart upload
type UploadDocumentRequest struct {
	OwnerType string `form:"owner_type" binding:"required,oneof=quote booking customer"`
	OwnerID   string `form:"owner_id" binding:"required,uuid"`
}

// UploadInput is an upload with its file content
type UploadInput struct {
	OwnerType   string
	OwnerID     uuid.UUID
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// DocumentListFilter lists documents of one owner
type DocumentListFilter struct {
	OwnerType string `form:"owner_type" binding:"required,oneof=quote booking customer"`
	OwnerID   string `form:"owner_id" binding:"required,uuid"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// DocumentResponse represents document metadata in API responses
type DocumentResponse struct {
	ID          uuid.UUID  `json:"id"`
	OwnerType   string     `json:"owner_type"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Filename    string     `json:"filename"`
	ContentType string     `json:"content_type"`
	Size        int64      `json:"size"`
	Checksum    string     `json:"checksum"`
	DownloadURL string     `json:"download_url,omitempty"`
	URLExpires  *time.Time `json:"url_expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToDocumentResponse converts domain document metadata
func ToDocumentResponse(d *document.Document) DocumentResponse {
	return DocumentResponse{
		ID:          d.ID,
		OwnerType:   string(d.OwnerType),
		OwnerID:     d.OwnerID,
		Filename:    d.Filename,
		ContentType: d.ContentType,
		Size:        d.Size,
		Checksum:    d.Checksum,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDocumentResponses converts a slice of documents
func ToDocumentResponses(docs []document.Document) []DocumentResponse {
	responses := make([]DocumentResponse, len(docs))
	for i := range docs {
		responses[i] = ToDocumentResponse(&docs[i])
	}
	return responses
}
