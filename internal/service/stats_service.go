package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/josias65/gestion-api/internal/dto"
	"github.com/josias65/gestion-api/internal/repository"
)

const topBidderLimit = 10

// StatsService aggregates tender and submission figures for reporting.
type StatsService interface {
	Detailed(ctx context.Context, window repository.StatsWindow) (dto.DetailedStatsResponse, error)
}

type statsService struct {
	stats    repository.TenderStatsRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewStatsService builds the statistics aggregator. The Redis client is
// optional; without it every call hits the database.
func NewStatsService(stats repository.TenderStatsRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) StatsService {
	return &statsService{
		stats:    stats,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "stats_service").Logger(),
	}
}

func (s *statsService) Detailed(ctx context.Context, window repository.StatsWindow) (dto.DetailedStatsResponse, error) {
	cacheKey := statsCacheKey(window)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.DetailedStatsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("key", cacheKey).Msg("stats cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read stats cache")
		}
	}

	total, err := s.stats.CountTenders(ctx, window)
	if err != nil {
		return dto.DetailedStatsResponse{}, err
	}

	byStatus, err := s.stats.CountByStatus(ctx, window)
	if err != nil {
		return dto.DetailedStatsResponse{}, err
	}

	byCategory, err := s.stats.CountByCategory(ctx, window)
	if err != nil {
		return dto.DetailedStatsResponse{}, err
	}

	budget, err := s.stats.BudgetAggregates(ctx, window)
	if err != nil {
		return dto.DetailedStatsResponse{}, err
	}

	submissions, err := s.stats.SubmissionAggregates(ctx, window)
	if err != nil {
		return dto.DetailedStatsResponse{}, err
	}

	bidders, err := s.stats.TopBidders(ctx, window, topBidderLimit)
	if err != nil {
		return dto.DetailedStatsResponse{}, err
	}

	response := buildStatsResponse(total, byStatus, byCategory, budget, submissions, bidders)

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store stats cache")
			}
		}
	}

	return response, nil
}

// statsCacheKey encodes the window bounds so different windows never share a
// cache entry.
func statsCacheKey(window repository.StatsWindow) string {
	from, to := "-", "-"
	if window.From != nil {
		from = window.From.Format("2006-01-02")
	}
	if window.To != nil {
		to = window.To.Format("2006-01-02")
	}
	return fmt.Sprintf("stats:tenders:%s:%s", from, to)
}

func buildStatsResponse(total int64, byStatus []repository.StatusTally, byCategory []repository.CategoryTally, budget repository.BudgetAggregates, submissions repository.SubmissionWindowAggregates, bidders []repository.BidderTally) dto.DetailedStatsResponse {
	statusCounts := make([]dto.StatusCount, 0, len(byStatus))
	for _, tally := range byStatus {
		statusCounts = append(statusCounts, dto.StatusCount{Status: tally.Status, Count: tally.Count})
	}

	categoryCounts := make([]dto.CategoryCount, 0, len(byCategory))
	for _, tally := range byCategory {
		categoryCounts = append(categoryCounts, dto.CategoryCount{Category: tally.Category, Count: tally.Count})
	}

	ranks := make([]dto.BidderRank, 0, len(bidders))
	for _, tally := range bidders {
		ranks = append(ranks, dto.BidderRank{BidderID: tally.BidderID, SubmissionsCount: tally.SubmissionsCount})
	}

	return dto.DetailedStatsResponse{
		General: dto.GeneralStats{
			Total:             total,
			StatusBreakdown:   statusCounts,
			CategoryBreakdown: categoryCounts,
		},
		Financial: dto.BudgetStats{
			TotalBudget: budget.TotalBudget,
			AvgBudget:   budget.AvgBudget,
			MinBudget:   budget.MinBudget,
			MaxBudget:   budget.MaxBudget,
		},
		Submissions: dto.SubmissionTotals{
			TotalSubmissions: submissions.TotalSubmissions,
			AvgAmount:        submissions.AvgAmount,
			MinAmount:        submissions.MinAmount,
			MaxAmount:        submissions.MaxAmount,
		},
		TopBidders: ranks,
	}
}
