package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/josias65/gestion-api/internal/dto"
	"github.com/josias65/gestion-api/internal/models"
	"github.com/josias65/gestion-api/internal/observability"
	"github.com/josias65/gestion-api/internal/repository"
)

const (
	maxDocumentsPerUpload = 10
	maxDocumentSizeBytes  = 10 * 1024 * 1024
)

// allowedDocumentTypes is the MIME allowlist for tender attachments.
var allowedDocumentTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"image/jpeg",
	"image/png",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// BlobStorage abstracts where document payloads live. The catalog row only
// keeps the locator returned by Save.
type BlobStorage interface {
	Save(ctx context.Context, name string, reader io.Reader) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Remove(ctx context.Context, path string) error
}

// DocumentService manages tender attachments: validation, storage and the
// catalog rows that reference stored blobs.
type DocumentService interface {
	Attach(ctx context.Context, tenderID uint, files []*multipart.FileHeader, actorID uint) ([]dto.DocumentResponse, error)
	Download(ctx context.Context, tenderID, documentID uint) (dto.DocumentResponse, io.ReadCloser, error)
	Remove(ctx context.Context, tenderID, documentID uint, actorID uint) error
}

type documentService struct {
	tenders   repository.TenderRepository
	documents repository.DocumentRepository
	storage   BlobStorage
	history   HistoryRecorder
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewDocumentService constructs a DocumentService instance.
func NewDocumentService(tenders repository.TenderRepository, documents repository.DocumentRepository, storage BlobStorage, history HistoryRecorder, logger zerolog.Logger) DocumentService {
	return &documentService{
		tenders:   tenders,
		documents: documents,
		storage:   storage,
		history:   history,
		logger:    logger.With().Str("component", "document_service").Logger(),
		tracer:    otel.Tracer("github.com/josias65/gestion-api/internal/service/document"),
	}
}

type validatedFile struct {
	header  *multipart.FileHeader
	payload []byte
	mime    string
}

// Attach validates the whole batch before touching storage or the catalog:
// one bad file rejects everything.
func (s *documentService) Attach(ctx context.Context, tenderID uint, files []*multipart.FileHeader, actorID uint) ([]dto.DocumentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "documents.attach")
	defer span.End()

	span.SetAttributes(
		attribute.Int("documents.tender_id", int(tenderID)),
		attribute.Int("documents.count", len(files)),
	)

	start := time.Now()
	defer func() {
		observability.DocumentUploadLatency().Observe(time.Since(start).Seconds())
	}()

	if len(files) == 0 {
		span.SetStatus(codes.Error, "no files")
		return nil, ErrNoFilesProvided
	}
	if len(files) > maxDocumentsPerUpload {
		observability.DocumentsRejected().WithLabelValues("count").Inc()
		span.SetStatus(codes.Error, "too many files")
		return nil, ErrTooManyFiles
	}

	if _, err := s.tenders.GetByID(ctx, tenderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "tender not found")
			return nil, ErrTenderNotFound
		}
		return nil, err
	}

	validated := make([]validatedFile, 0, len(files))
	for _, file := range files {
		entry, err := s.validateFile(file)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "validation failed")
			return nil, err
		}
		validated = append(validated, entry)
	}

	documents := make([]models.Document, 0, len(validated))
	for _, entry := range validated {
		storedName := uuid.NewString() + strings.ToLower(filepath.Ext(entry.header.Filename))
		path, err := s.storage.Save(ctx, storedName, bytes.NewReader(entry.payload))
		if err != nil {
			observability.DocumentsRejected().WithLabelValues("storage").Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, "storage failed")
			return nil, fmt.Errorf("failed to store document: %w", err)
		}

		documents = append(documents, models.Document{
			TenderID:     tenderID,
			Filename:     storedName,
			OriginalName: entry.header.Filename,
			StoragePath:  path,
			Size:         int64(len(entry.payload)),
			MimeType:     entry.mime,
			UploadedBy:   actorID,
		})
		observability.DocumentsUploaded().WithLabelValues(entry.mime).Inc()
	}

	if err := s.documents.CreateBatch(ctx, documents); err != nil {
		return nil, err
	}

	if err := s.history.Record(ctx, AuditEvent{
		TenderID: tenderID,
		Action:   models.HistoryActionDocumentsUploaded,
		Details:  fmt.Sprintf("%d document(s) uploaded", len(documents)),
		ActorID:  actorID,
	}); err != nil {
		return nil, err
	}

	span.SetStatus(codes.Ok, "stored")
	s.logger.Info().Uint("tender_id", tenderID).Int("count", len(documents)).Msg("documents attached")

	return dto.NewDocumentResponseSlice(documents), nil
}

func (s *documentService) validateFile(file *multipart.FileHeader) (validatedFile, error) {
	if file.Size > maxDocumentSizeBytes {
		observability.DocumentsRejected().WithLabelValues("size").Inc()
		return validatedFile{}, ErrDocumentTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		return validatedFile{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, maxDocumentSizeBytes+1)); err != nil {
		return validatedFile{}, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(buf.Len()) > maxDocumentSizeBytes {
		observability.DocumentsRejected().WithLabelValues("size").Inc()
		return validatedFile{}, ErrDocumentTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	for _, allowed := range allowedDocumentTypes {
		if mime.Is(allowed) {
			return validatedFile{header: file, payload: buf.Bytes(), mime: allowed}, nil
		}
	}

	observability.DocumentsRejected().WithLabelValues("type").Inc()
	return validatedFile{}, ErrDocumentTypeNotAllowed
}

func (s *documentService) Download(ctx context.Context, tenderID, documentID uint) (dto.DocumentResponse, io.ReadCloser, error) {
	document, err := s.documents.GetByTenderAndID(ctx, tenderID, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DocumentResponse{}, nil, ErrDocumentNotFound
		}
		return dto.DocumentResponse{}, nil, err
	}

	reader, err := s.storage.Open(ctx, document.StoragePath)
	if err != nil {
		return dto.DocumentResponse{}, nil, fmt.Errorf("failed to open stored document: %w", err)
	}

	return dto.NewDocumentResponse(document), reader, nil
}

// Remove deletes the catalog row and attempts to delete the blob. A failed
// blob delete leaves an orphaned blob behind, which is the accepted failure
// mode; the catalog row is deleted regardless.
func (s *documentService) Remove(ctx context.Context, tenderID, documentID uint, actorID uint) error {
	document, err := s.documents.GetByTenderAndID(ctx, tenderID, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}

	if err := s.storage.Remove(ctx, document.StoragePath); err != nil {
		s.logger.Warn().Err(err).Str("path", document.StoragePath).Msg("failed to delete stored blob")
	}

	if err := s.documents.Delete(ctx, document.ID); err != nil {
		return err
	}

	if err := s.history.Record(ctx, AuditEvent{
		TenderID: tenderID,
		Action:   models.HistoryActionDocumentDeleted,
		Details:  fmt.Sprintf("Document deleted: %s", document.OriginalName),
		ActorID:  actorID,
	}); err != nil {
		return err
	}

	s.logger.Info().Uint("tender_id", tenderID).Uint("document_id", documentID).Msg("document removed")

	return nil
}
