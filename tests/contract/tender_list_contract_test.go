package contract_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/josias65/gestion-api/internal/dto"
	"github.com/josias65/gestion-api/internal/handler"
)

type stubTenderService struct {
	listing dto.TenderListResponse
}

func (s stubTenderService) Create(context.Context, dto.TenderCreateRequest, uint) (dto.TenderResponse, error) {
	return dto.TenderResponse{}, nil
}

func (s stubTenderService) Update(context.Context, uint, dto.TenderUpdateRequest, uint) (dto.TenderResponse, error) {
	return dto.TenderResponse{}, nil
}

func (s stubTenderService) Get(context.Context, uint) (dto.TenderDetailResponse, error) {
	return dto.TenderDetailResponse{}, nil
}

func (s stubTenderService) List(context.Context, dto.TenderListRequest) (dto.TenderListResponse, error) {
	return s.listing, nil
}

func (s stubTenderService) AddComment(context.Context, uint, dto.CommentCreateRequest, uint) (dto.CommentResponse, error) {
	return dto.CommentResponse{}, nil
}

func TestTenderListContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "tender_list.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	now := time.Now().UTC()
	budget := 15000.0
	listing := dto.TenderListResponse{
		Items: []dto.TenderResponse{
			{
				ID:          1,
				Title:       "Road resurfacing",
				Description: "Main street",
				Budget:      &budget,
				Category:    "works",
				Urgency:     "normal",
				Status:      "open",
				CreatedBy:   7,
				CreatedAt:   now,
				UpdatedAt:   now,
				SubmissionAggregate: dto.SubmissionAggregate{
					SubmissionsCount: 3,
					MinAmount:        9000,
					MaxAmount:        16000,
					AvgAmount:        12500,
				},
			},
		},
		Pagination: dto.PaginationMeta{Page: 1, Limit: 10, Total: 1, Pages: 1},
		Filters:    dto.TenderListFilters{Status: "open"},
	}

	svc := stubTenderService{listing: listing}
	tenderHandler := handler.NewTenderHandler(svc, zerolog.Nop())

	app := fiber.New()
	tenderHandler.Register(app.Group("/api/v1/tenders"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenders?status=open", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	var payload interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.NoError(t, schema.Validate(payload))
}
