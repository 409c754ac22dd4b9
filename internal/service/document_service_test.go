package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/josias65/gestion-api/internal/models"
)

type memoryDocumentRepo struct {
	documents map[uint]models.Document
	nextID    uint
}

func newMemoryDocumentRepo() *memoryDocumentRepo {
	return &memoryDocumentRepo{
		documents: make(map[uint]models.Document),
		nextID:    1,
	}
}

func (m *memoryDocumentRepo) CreateBatch(_ context.Context, documents []models.Document) error {
	for i := range documents {
		documents[i].ID = m.nextID
		documents[i].CreatedAt = time.Now()
		m.documents[m.nextID] = documents[i]
		m.nextID++
	}
	return nil
}

func (m *memoryDocumentRepo) GetByTenderAndID(_ context.Context, tenderID, id uint) (models.Document, error) {
	document, ok := m.documents[id]
	if !ok || document.TenderID != tenderID {
		return models.Document{}, gorm.ErrRecordNotFound
	}
	return document, nil
}

func (m *memoryDocumentRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.documents[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.documents, id)
	return nil
}

func (m *memoryDocumentRepo) ListByTender(_ context.Context, tenderID uint) ([]models.Document, error) {
	results := make([]models.Document, 0, len(m.documents))
	for _, document := range m.documents {
		if document.TenderID == tenderID {
			results = append(results, document)
		}
	}
	return results, nil
}

type stubStorage struct {
	blobs   map[string][]byte
	removed []string
	failSet bool
}

func newStubStorage() *stubStorage {
	return &stubStorage{blobs: make(map[string][]byte)}
}

func (s *stubStorage) Save(_ context.Context, name string, reader io.Reader) (string, error) {
	if s.failSet {
		return "", fmt.Errorf("storage unavailable")
	}
	payload, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	path := "blobs/" + name
	s.blobs[path] = payload
	return path, nil
}

func (s *stubStorage) Open(_ context.Context, path string) (io.ReadCloser, error) {
	payload, ok := s.blobs[path]
	if !ok {
		return nil, fmt.Errorf("blob %q not found", path)
	}
	return io.NopCloser(bytes.NewReader(payload)), nil
}

func (s *stubStorage) Remove(_ context.Context, path string) error {
	s.removed = append(s.removed, path)
	delete(s.blobs, path)
	return nil
}

func multipartFiles(t *testing.T, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, content := range files {
		part, err := writer.CreateFormFile("documents", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["documents"]
}

func pdfPayload() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF")
}

func documentFixture(t *testing.T) (*memoryDocumentRepo, *stubStorage, *recorderSpy, DocumentService, uint) {
	t.Helper()

	tenders := newMemoryTenderRepo()
	documents := newMemoryDocumentRepo()
	storage := newStubStorage()
	recorder := &recorderSpy{}
	svc := NewDocumentService(tenders, documents, storage, recorder, testLogger())

	tender := models.Tender{Title: "With documents", Status: models.TenderStatusOpen}
	require.NoError(t, tenders.Create(context.Background(), &tender))

	return documents, storage, recorder, svc, tender.ID
}

func TestDocumentServiceAttachSuccess(t *testing.T) {
	documents, storage, recorder, svc, tenderID := documentFixture(t)

	files := multipartFiles(t, map[string][]byte{"offer.pdf": pdfPayload()})

	result, err := svc.Attach(context.Background(), tenderID, files, 5)
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Equal(t, "offer.pdf", result[0].OriginalName)
	require.Equal(t, "application/pdf", result[0].MimeType)
	require.Equal(t, uint(5), result[0].UploadedBy)

	require.Len(t, documents.documents, 1)
	require.Len(t, storage.blobs, 1)

	require.Len(t, recorder.events, 1)
	require.Equal(t, models.HistoryActionDocumentsUploaded, recorder.events[0].Action)
	require.Contains(t, recorder.events[0].Details, "1 document(s) uploaded")
}

func TestDocumentServiceAttachRejectsArchive(t *testing.T) {
	documents, storage, _, svc, tenderID := documentFixture(t)

	files := multipartFiles(t, map[string][]byte{"payload.zip": {0x50, 0x4B, 0x03, 0x04, 0x14, 0x00, 0x00, 0x00}})

	_, err := svc.Attach(context.Background(), tenderID, files, 5)
	require.ErrorIs(t, err, ErrDocumentTypeNotAllowed)
	require.Empty(t, documents.documents)
	require.Empty(t, storage.blobs)
}

func TestDocumentServiceAttachRejectsBatchWithOneBadFile(t *testing.T) {
	documents, storage, recorder, svc, tenderID := documentFixture(t)

	files := multipartFiles(t, map[string][]byte{
		"offer.pdf":   pdfPayload(),
		"payload.bin": {0x00, 0x01, 0x02, 0x03},
	})

	_, err := svc.Attach(context.Background(), tenderID, files, 5)
	require.ErrorIs(t, err, ErrDocumentTypeNotAllowed)
	require.Empty(t, documents.documents)
	require.Empty(t, storage.blobs)
	require.Empty(t, recorder.events)
}

func TestDocumentServiceAttachRejectsTooManyFiles(t *testing.T) {
	_, _, _, svc, tenderID := documentFixture(t)

	batch := make(map[string][]byte, 11)
	for i := 0; i < 11; i++ {
		batch[fmt.Sprintf("offer-%d.pdf", i)] = pdfPayload()
	}
	files := multipartFiles(t, batch)

	_, err := svc.Attach(context.Background(), tenderID, files, 5)
	require.ErrorIs(t, err, ErrTooManyFiles)
}

func TestDocumentServiceAttachRejectsEmptyBatch(t *testing.T) {
	_, _, _, svc, tenderID := documentFixture(t)

	_, err := svc.Attach(context.Background(), tenderID, nil, 5)
	require.ErrorIs(t, err, ErrNoFilesProvided)
}

func TestDocumentServiceAttachUnknownTender(t *testing.T) {
	_, _, _, svc, _ := documentFixture(t)

	files := multipartFiles(t, map[string][]byte{"offer.pdf": pdfPayload()})

	_, err := svc.Attach(context.Background(), 99, files, 5)
	require.ErrorIs(t, err, ErrTenderNotFound)
}

func TestDocumentServiceDownload(t *testing.T) {
	_, _, _, svc, tenderID := documentFixture(t)

	files := multipartFiles(t, map[string][]byte{"offer.pdf": pdfPayload()})
	uploaded, err := svc.Attach(context.Background(), tenderID, files, 5)
	require.NoError(t, err)

	document, reader, err := svc.Download(context.Background(), tenderID, uploaded[0].ID)
	require.NoError(t, err)
	defer reader.Close()

	payload, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, pdfPayload(), payload)
	require.Equal(t, "offer.pdf", document.OriginalName)
}

func TestDocumentServiceDownloadUnknown(t *testing.T) {
	_, _, _, svc, tenderID := documentFixture(t)

	_, _, err := svc.Download(context.Background(), tenderID, 42)
	require.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDocumentServiceRemove(t *testing.T) {
	documents, storage, recorder, svc, tenderID := documentFixture(t)

	files := multipartFiles(t, map[string][]byte{"offer.pdf": pdfPayload()})
	uploaded, err := svc.Attach(context.Background(), tenderID, files, 5)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), tenderID, uploaded[0].ID, 5))
	require.Empty(t, documents.documents)
	require.Len(t, storage.removed, 1)

	require.Len(t, recorder.events, 2)
	require.Equal(t, models.HistoryActionDocumentDeleted, recorder.events[1].Action)
	require.Contains(t, recorder.events[1].Details, "offer.pdf")
}
