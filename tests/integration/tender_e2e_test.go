package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/josias65/gestion-api/internal/config"
	"github.com/josias65/gestion-api/internal/dto"
	"github.com/josias65/gestion-api/internal/handler"
	"github.com/josias65/gestion-api/internal/middleware"
	"github.com/josias65/gestion-api/internal/models"
	"github.com/josias65/gestion-api/internal/repository"
	"github.com/josias65/gestion-api/internal/router"
	"github.com/josias65/gestion-api/internal/service"
	"github.com/josias65/gestion-api/pkg/storage"
)

func setupTenderApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Tender{},
		&models.Criterion{},
		&models.Submission{},
		&models.Score{},
		&models.Document{},
		&models.Comment{},
		&models.HistoryEntry{},
	))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	blobStore, err := storage.NewLocal(t.TempDir(), logger)
	require.NoError(t, err)

	tenderRepo := repository.NewTenderRepository(db)
	criterionRepo := repository.NewCriterionRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	statsRepo := repository.NewTenderStatsRepository(db)

	recorder := service.NewHistoryRecorder(historyRepo, nil, "", logger)

	tenderService := service.NewTenderService(tenderRepo, criterionRepo, commentRepo, recorder, validate, logger)
	submissionService := service.NewSubmissionService(tenderRepo, submissionRepo, scoreRepo, recorder, validate, logger)
	documentService := service.NewDocumentService(tenderRepo, documentRepo, blobStore, recorder, logger)
	statsService := service.NewStatsService(statsRepo, nil, time.Minute, logger)
	exportService := service.NewExportService(statsRepo, logger)

	app := fiber.New()
	middleware.Register(app, middleware.Config{Logger: &logger})

	cfg := config.Config{AppName: "Test", JWTSecret: "secret", SubmitRateLimit: 1000, SubmitRateWindow: time.Minute}
	router.Register(app, cfg, router.Dependencies{
		TenderHandler:     handler.NewTenderHandler(tenderService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		DocumentHandler:   handler.NewDocumentHandler(documentService, logger),
		StatsHandler:      handler.NewStatsHandler(statsService, exportService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			c.Locals("user_id", uint(9001))
			c.Locals("user_role", "admin")
			return c.Next()
		},
	})

	return app
}

func jsonRequest(t *testing.T, app *fiber.App, method, path string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeData[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var envelope struct {
		Success bool   `json:"success"`
		Data    T      `json:"data"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success, envelope.Message)
	return envelope.Data
}

func TestTenderLifecycle(t *testing.T) {
	app := setupTenderApp(t)

	created := decodeData[dto.TenderResponse](t, func() *http.Response {
		resp := jsonRequest(t, app, http.MethodPost, "/api/v1/tenders", dto.TenderCreateRequest{
			Title:    "Road resurfacing",
			Deadline: "2026-12-01",
			Criteria: []dto.CriterionPayload{{Name: "Price", Weight: 60}, {Name: "Quality", Weight: 40}},
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		return resp
	}())
	require.Equal(t, "open", created.Status)

	base := fmt.Sprintf("/api/v1/tenders/%d", created.ID)

	// First bid is accepted, the same bidder is rejected on retry.
	resp := jsonRequest(t, app, http.MethodPost, base+"/submissions", dto.SubmissionCreateRequest{BidderID: 7, Amount: 4500})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	submission := decodeData[dto.SubmissionResponse](t, resp)

	resp = jsonRequest(t, app, http.MethodPost, base+"/submissions", dto.SubmissionCreateRequest{BidderID: 7, Amount: 4000})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = jsonRequest(t, app, http.MethodPost, base+"/comments", dto.CommentCreateRequest{Content: "Deadline is tight"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = uploadDocument(t, app, base+"/documents", "offer.pdf", []byte("%PDF-1.4\n%%EOF"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	documents := decodeData[[]dto.DocumentResponse](t, resp)
	require.Len(t, documents, 1)

	resp = jsonRequest(t, app, http.MethodPost, fmt.Sprintf("%s/submissions/%d/evaluate", base, submission.ID), dto.SubmissionEvaluateRequest{TotalScore: 88})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	evaluated := decodeData[dto.SubmissionResponse](t, resp)
	require.Equal(t, "evaluated", evaluated.Status)

	resp = jsonRequest(t, app, http.MethodGet, base, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	detail := decodeData[dto.TenderDetailResponse](t, resp)
	require.Len(t, detail.Criteria, 2)
	require.Len(t, detail.Submissions, 1)
	require.Len(t, detail.Documents, 1)
	require.Len(t, detail.Comments, 1)
	// created + submission + comment + upload; evaluation leaves no entry.
	require.Len(t, detail.History, 4)
	require.Equal(t, 1, detail.Stats.TotalSubmissions)

	// Closing the tender blocks further bids.
	status := "closed"
	resp = jsonRequest(t, app, http.MethodPut, base, dto.TenderUpdateRequest{Status: &status})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = jsonRequest(t, app, http.MethodPost, base+"/submissions", dto.SubmissionCreateRequest{BidderID: 8, Amount: 5000})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestStatsAndExportEndpoints(t *testing.T) {
	app := setupTenderApp(t)

	resp := jsonRequest(t, app, http.MethodPost, "/api/v1/tenders", dto.TenderCreateRequest{Title: "Consulting"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = jsonRequest(t, app, http.MethodGet, "/api/v1/tenders/stats/detailed", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	stats := decodeData[dto.DetailedStatsResponse](t, resp)
	require.Equal(t, int64(1), stats.General.Total)

	resp = jsonRequest(t, app, http.MethodGet, "/api/v1/tenders/export/csv", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(payload), "ID,Title,Description,Budget")
	require.Contains(t, string(payload), "Consulting")

	resp = jsonRequest(t, app, http.MethodGet, "/api/v1/tenders/export/xlsx", nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestTenderListFilters(t *testing.T) {
	app := setupTenderApp(t)

	for _, title := range []string{"Road works", "Network audit", "School canteen"} {
		resp := jsonRequest(t, app, http.MethodPost, "/api/v1/tenders", dto.TenderCreateRequest{Title: title})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp := jsonRequest(t, app, http.MethodGet, "/api/v1/tenders?search=network", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	listing := decodeData[dto.TenderListResponse](t, resp)
	require.Len(t, listing.Items, 1)
	require.Equal(t, "Network audit", listing.Items[0].Title)
	require.Equal(t, int64(1), listing.Pagination.Total)
}

func uploadDocument(t *testing.T, app *fiber.App, path, filename string, content []byte) *http.Response {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("documents", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}
