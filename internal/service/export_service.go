package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/josias65/gestion-api/internal/repository"
)

// Export holds a rendered export file ready to stream to the client.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the tender table into downloadable formats.
type ExportService interface {
	Export(ctx context.Context, format string, window repository.StatsWindow) (Export, error)
}

type exportService struct {
	stats  repository.TenderStatsRepository
	logger zerolog.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(stats repository.TenderStatsRepository, logger zerolog.Logger) ExportService {
	return &exportService{
		stats:  stats,
		logger: logger.With().Str("component", "export_service").Logger(),
	}
}

func (s *exportService) Export(ctx context.Context, format string, window repository.StatsWindow) (Export, error) {
	if strings.ToLower(strings.TrimSpace(format)) != "csv" {
		return Export{}, ErrUnsupportedExportFormat
	}

	rows, err := s.stats.ListForExport(ctx, window)
	if err != nil {
		return Export{}, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"ID", "Title", "Description", "Budget", "Status", "Category", "Deadline", "Created At", "Submissions Count", "Avg Submission Amount"}
	if err := writer.Write(header); err != nil {
		return Export{}, fmt.Errorf("failed to write export header: %w", err)
	}

	for _, row := range rows {
		budget := ""
		if row.Budget != nil {
			budget = strconv.FormatFloat(*row.Budget, 'f', 2, 64)
		}
		deadline := ""
		if row.Deadline != nil {
			deadline = row.Deadline.Format("2006-01-02")
		}

		record := []string{
			strconv.FormatUint(uint64(row.ID), 10),
			row.Title,
			row.Description,
			budget,
			row.Status,
			row.Category,
			deadline,
			row.CreatedAt.Format("2006-01-02 15:04:05"),
			strconv.FormatInt(row.SubmissionsCount, 10),
			strconv.FormatFloat(row.AvgSubmissionAmount, 'f', 2, 64),
		}
		if err := writer.Write(record); err != nil {
			return Export{}, fmt.Errorf("failed to write export row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return Export{}, fmt.Errorf("failed to flush export: %w", err)
	}

	s.logger.Info().Int("rows", len(rows)).Msg("tender export rendered")

	return Export{
		Filename:    "tenders_export.csv",
		ContentType: "text/csv",
		Data:        buf.Bytes(),
	}, nil
}
