package document

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/document"
	"github.com/quotebook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MaxDocumentsPerOwner caps the attachments of a single quote, booking or customer
const MaxDocumentsPerOwner = 50

// ObjectStorage stores document content
type ObjectStorage interface {
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// GenerateDownloadURL returns a time-limited URL. A zero expiresIn uses
	// the storage default.
	GenerateDownloadURL(ctx context.Context, key, filename string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, key string) error
}

// DocumentService manages document metadata and content
type DocumentService struct {
	documentRepo document.DocumentRepository
	storage      ObjectStorage
	owners       OwnerChecker
	logger       *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(documentRepo document.DocumentRepository, storage ObjectStorage, owners OwnerChecker, logger *zap.Logger) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		storage:      storage,
		owners:       owners,
		logger:       logger,
	}
}

// Upload stores the file content then its metadata. The object is removed
// again if the metadata cannot be saved.
func (s *DocumentService) Upload(ctx context.Context, in UploadInput) (*DocumentResponse, error) {
	ownerType := document.OwnerType(in.OwnerType)
	if !ownerType.IsValid() {
		return nil, shared.NewDomainError("INVALID_OWNER_TYPE", "Owner type must be quote, booking or customer")
	}
	exists, err := s.owners.OwnerExists(ctx, ownerType, in.OwnerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("OWNER_NOT_FOUND", "Document owner not found")
	}
	count, err := s.documentRepo.CountByOwner(ctx, ownerType, in.OwnerID)
	if err != nil {
		return nil, err
	}
	if count >= MaxDocumentsPerOwner {
		return nil, shared.NewDomainError("TOO_MANY_DOCUMENTS", "Owner has reached the document limit")
	}

	doc, err := document.NewDocument(ownerType, in.OwnerID, in.Filename, in.ContentType, in.Size, "")
	if err != nil {
		return nil, err
	}

	hasher := sha256.New()
	if err := s.storage.PutObject(ctx, doc.StorageKey, io.TeeReader(in.Body, hasher), doc.Size, doc.ContentType); err != nil {
		return nil, err
	}
	doc.Checksum = hex.EncodeToString(hasher.Sum(nil))

	if err := s.documentRepo.Save(ctx, doc); err != nil {
		if delErr := s.storage.DeleteObject(ctx, doc.StorageKey); delErr != nil {
			s.logger.Warn("Failed to remove orphaned object",
				zap.String("storage_key", doc.StorageKey),
				zap.Error(delErr),
			)
		}
		return nil, err
	}

	s.logger.Info("Document uploaded",
		zap.String("document_id", doc.ID.String()),
		zap.String("owner_type", string(doc.OwnerType)),
		zap.String("owner_id", doc.OwnerID.String()),
		zap.Int64("size", doc.Size),
	)

	response := ToDocumentResponse(doc)
	return &response, nil
}

// List retrieves the documents of one owner
func (s *DocumentService) List(ctx context.Context, filter DocumentListFilter) ([]DocumentResponse, int64, error) {
	ownerID, err := uuid.Parse(filter.OwnerID)
	if err != nil {
		return nil, 0, shared.NewDomainError("INVALID_OWNER", "Owner ID must be a UUID")
	}
	ownerType := document.OwnerType(filter.OwnerType)
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	docs, err := s.documentRepo.FindByOwner(ctx, ownerType, ownerID, shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	})
	if err != nil {
		return nil, 0, err
	}
	total, err := s.documentRepo.CountByOwner(ctx, ownerType, ownerID)
	if err != nil {
		return nil, 0, err
	}

	return ToDocumentResponses(docs), total, nil
}

// Get retrieves document metadata with a presigned download URL
func (s *DocumentService) Get(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.documentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	url, expires, err := s.storage.GenerateDownloadURL(ctx, doc.StorageKey, doc.Filename, 0)
	if err != nil {
		return nil, err
	}

	response := ToDocumentResponse(doc)
	response.DownloadURL = url
	response.URLExpires = &expires
	return &response, nil
}

// Delete removes the stored object then the metadata
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.documentRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.storage.DeleteObject(ctx, doc.StorageKey); err != nil {
		return err
	}
	if err := s.documentRepo.Delete(ctx, doc.ID); err != nil {
		return err
	}

	s.logger.Info("Document deleted",
		zap.String("document_id", doc.ID.String()),
		zap.String("storage_key", doc.StorageKey),
	)
	return nil
}
