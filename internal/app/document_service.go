package app

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"

	"interviewai-backend/internal/index"
	"interviewai-backend/internal/model"
	"interviewai-backend/internal/pkg/pdfextract"
	"interviewai-backend/internal/repository"
)

var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// DocumentService handles resume uploads. Rows are soft-deleted here;
// hard deletion is the privacy service's job.
type DocumentService struct {
	docRepo     *repository.DocumentRepository
	gateway     index.Gateway
	maxFileSize int64
}

func NewDocumentService(docRepo *repository.DocumentRepository, gateway index.Gateway, maxFileSize int64) *DocumentService {
	if maxFileSize <= 0 {
		maxFileSize = 10 * 1024 * 1024
	}
	if gateway == nil {
		gateway = index.Noop{}
	}
	return &DocumentService{
		docRepo:     docRepo,
		gateway:     gateway,
		maxFileSize: maxFileSize,
	}
}

type UploadDocumentInput struct {
	UserID   uint
	Filename string
	MimeType string
	Content  []byte
}

// Upload validates, dedups by content hash, extracts text and indexes
// it. Index failures are logged only; the relational row is the source
// of truth.
func (s *DocumentService) Upload(ctx context.Context, input UploadDocumentInput) (*model.Document, error) {
	if input.UserID == 0 || len(input.Content) == 0 {
		return nil, ErrInvalidInput
	}
	if int64(len(input.Content)) > s.maxFileSize {
		return nil, ErrFileTooLarge
	}
	if !allowedMimeTypes[input.MimeType] {
		return nil, ErrUnsupportedFileType
	}

	sum := sha256.Sum256(input.Content)
	hash := hex.EncodeToString(sum[:])

	existing, err := s.docRepo.GetBySHA256(hash)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateDocument
	}

	text := ""
	if input.MimeType == "application/pdf" {
		extracted, err := pdfextract.ExtractText(bytes.NewReader(input.Content))
		if err != nil {
			log.Printf("pdf text extraction failed for %s: %v", input.Filename, err)
		} else {
			text = strings.TrimSpace(extracted)
		}
	}

	doc := &model.Document{
		UserID:     input.UserID,
		Filename:   strings.TrimSpace(input.Filename),
		FileSize:   int64(len(input.Content)),
		MimeType:   input.MimeType,
		SHA256Hash: hash,
		IsActive:   true,
	}
	if err := s.docRepo.Create(doc); err != nil {
		return nil, err
	}

	if text != "" {
		if err := s.gateway.IndexDocument(ctx, input.UserID, doc.ID, text); err != nil {
			log.Printf("index document %d failed: %v", doc.ID, err)
		}
	}
	return doc, nil
}

func (s *DocumentService) ListDocuments(userID uint) ([]model.Document, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.docRepo.ListByUserID(userID, true)
}

// Deactivate soft-deletes one document and drops its index entry. The
// row survives until the owner is erased.
func (s *DocumentService) Deactivate(ctx context.Context, userID, documentID uint) error {
	if userID == 0 || documentID == 0 {
		return ErrInvalidInput
	}
	doc, err := s.docRepo.GetByIDAndUserID(documentID, userID)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDocumentNotFound
	}

	if err := s.docRepo.Deactivate(documentID, userID); err != nil {
		return err
	}
	if err := s.gateway.DeleteByDocument(ctx, userID, documentID); err != nil {
		log.Printf("index delete for document %d failed: %v", documentID, err)
	}
	return nil
}
