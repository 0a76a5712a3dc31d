package document

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/shared"
)

// OwnerType is the kind of record a document is attached to
type OwnerType string

const (
	OwnerQuote    OwnerType = "quote"
	OwnerBooking  OwnerType = "booking"
	OwnerCustomer OwnerType = "customer"
)

// IsValid reports whether the owner type is known
func (o OwnerType) IsValid() bool {
	return o == OwnerQuote || o == OwnerBooking || o == OwnerCustomer
}

// AllowedContentTypes lists the MIME types accepted for upload
var AllowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/heic":      true,
	"application/pdf": true,
	"text/plain":      true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// MaxFileSize is the largest accepted upload in bytes
const MaxFileSize int64 = 20 << 20

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Document is file metadata for an object held in storage
type Document struct {
	shared.BaseEntity
	OwnerType   OwnerType
	OwnerID     uuid.UUID
	Filename    string
	ContentType string
	Size        int64
	StorageKey  string
	Checksum    string
}

// NewDocument creates document metadata and derives its storage key
func NewDocument(ownerType OwnerType, ownerID uuid.UUID, filename, contentType string, size int64, checksum string) (*Document, error) {
	if !ownerType.IsValid() {
		return nil, shared.NewDomainError("INVALID_OWNER_TYPE", "Owner type must be quote, booking or customer")
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, shared.NewDomainError("INVALID_FILENAME", "Filename cannot be empty")
	}
	if len(filename) > 255 {
		return nil, shared.NewDomainError("INVALID_FILENAME", "Filename cannot exceed 255 characters")
	}
	contentType = normalizeContentType(contentType)
	if !AllowedContentTypes[contentType] {
		return nil, shared.NewDomainError("UNSUPPORTED_CONTENT_TYPE", "File type "+contentType+" is not allowed")
	}
	if size <= 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File cannot be empty")
	}
	if size > MaxFileSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", fmt.Sprintf("File exceeds the %d MB limit", MaxFileSize>>20))
	}

	d := &Document{
		BaseEntity:  shared.NewBaseEntity(),
		OwnerType:   ownerType,
		OwnerID:     ownerID,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		Checksum:    checksum,
	}
	d.StorageKey = path.Join("documents", string(ownerType), ownerID.String(), d.ID.String(), SanitizeFilename(filename))

	return d, nil
}

// SanitizeFilename reduces a filename to characters safe in an object key
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	return name
}

func normalizeContentType(contentType string) string {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	return contentType
}
