package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/josias65/gestion-api/internal/dto"
	"github.com/josias65/gestion-api/internal/handler"
	"github.com/josias65/gestion-api/internal/service"
)

type mockTenderService struct {
	lastActor  uint
	lastCreate dto.TenderCreateRequest
	lastList   dto.TenderListRequest
	err        error
}

func (m *mockTenderService) Create(_ context.Context, payload dto.TenderCreateRequest, actorID uint) (dto.TenderResponse, error) {
	m.lastCreate = payload
	m.lastActor = actorID
	if m.err != nil {
		return dto.TenderResponse{}, m.err
	}
	return dto.TenderResponse{ID: 1, Title: payload.Title, Status: "open"}, nil
}

func (m *mockTenderService) Update(_ context.Context, id uint, _ dto.TenderUpdateRequest, actorID uint) (dto.TenderResponse, error) {
	m.lastActor = actorID
	if m.err != nil {
		return dto.TenderResponse{}, m.err
	}
	return dto.TenderResponse{ID: id}, nil
}

func (m *mockTenderService) Get(_ context.Context, id uint) (dto.TenderDetailResponse, error) {
	if m.err != nil {
		return dto.TenderDetailResponse{}, m.err
	}
	return dto.TenderDetailResponse{TenderResponse: dto.TenderResponse{ID: id}}, nil
}

func (m *mockTenderService) List(_ context.Context, req dto.TenderListRequest) (dto.TenderListResponse, error) {
	m.lastList = req
	if m.err != nil {
		return dto.TenderListResponse{}, m.err
	}
	return dto.TenderListResponse{Items: []dto.TenderResponse{}, Pagination: dto.PaginationMeta{Page: 1, Limit: 10}}, nil
}

func (m *mockTenderService) AddComment(_ context.Context, tenderID uint, payload dto.CommentCreateRequest, actorID uint) (dto.CommentResponse, error) {
	m.lastActor = actorID
	if m.err != nil {
		return dto.CommentResponse{}, m.err
	}
	return dto.CommentResponse{ID: 1, TenderID: tenderID, Content: payload.Content}, nil
}

func newTenderApp(svc service.TenderService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/tenders", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(42))
		return c.Next()
	})
	handler.NewTenderHandler(svc, zerolog.New(io.Discard)).Register(group)
	return app
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestTenderHandlerCreate(t *testing.T) {
	svc := &mockTenderService{}
	app := newTenderApp(svc)

	body, err := json.Marshal(dto.TenderCreateRequest{Title: "Road resurfacing"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, uint(42), svc.lastActor)
	require.Equal(t, "Road resurfacing", svc.lastCreate.Title)

	var response struct {
		Success bool               `json:"success"`
		Data    dto.TenderResponse `json:"data"`
		Message string             `json:"message"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Equal(t, "tender created", response.Message)
	require.Equal(t, uint(1), response.Data.ID)
}

func TestTenderHandlerListParsesQuery(t *testing.T) {
	svc := &mockTenderService{}
	app := newTenderApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenders?page=2&limit=5&status=open&sortBy=budget&sortOrder=ASC&budgetMin=100", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 2, svc.lastList.Page)
	require.Equal(t, 5, svc.lastList.Limit)
	require.Equal(t, "open", svc.lastList.Status)
	require.Equal(t, "budget", svc.lastList.SortBy)
	require.NotNil(t, svc.lastList.BudgetMin)
	require.Equal(t, float64(100), *svc.lastList.BudgetMin)
}

func TestTenderHandlerGetInvalidID(t *testing.T) {
	app := newTenderApp(&mockTenderService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/tenders/abc", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestTenderHandlerErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
	}{
		{name: "not found", err: service.ErrTenderNotFound, statusCode: fiber.StatusNotFound},
		{name: "empty patch", err: service.ErrNoUpdateFields, statusCode: fiber.StatusBadRequest},
		{name: "bad deadline", err: service.ErrInvalidDeadline, statusCode: fiber.StatusBadRequest},
		{name: "generic", err: errors.New("boom"), statusCode: fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTenderApp(&mockTenderService{err: tc.err})

			body, err := json.Marshal(dto.TenderUpdateRequest{})
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPut, "/api/v1/tenders/1", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, resp.StatusCode)
		})
	}
}

func TestTenderHandlerAddComment(t *testing.T) {
	svc := &mockTenderService{}
	app := newTenderApp(svc)

	body, err := json.Marshal(dto.CommentCreateRequest{Content: "Looks good"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenders/1/comments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, uint(42), svc.lastActor)
}
