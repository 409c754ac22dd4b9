package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/josias65/gestion-api/internal/dto"
	"github.com/josias65/gestion-api/internal/models"
	"github.com/josias65/gestion-api/internal/repository"
)

// SubmissionService admits bids on open tenders and records their
// multi-criteria evaluation.
type SubmissionService interface {
	Submit(ctx context.Context, tenderID uint, payload dto.SubmissionCreateRequest, actorID uint) (dto.SubmissionResponse, error)
	Evaluate(ctx context.Context, tenderID, submissionID uint, payload dto.SubmissionEvaluateRequest, actorID uint) (dto.SubmissionResponse, error)
}

type submissionService struct {
	tenders     repository.TenderRepository
	submissions repository.SubmissionRepository
	scores      repository.ScoreRepository
	history     HistoryRecorder
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(tenders repository.TenderRepository, submissions repository.SubmissionRepository, scores repository.ScoreRepository, history HistoryRecorder, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		tenders:     tenders,
		submissions: submissions,
		scores:      scores,
		history:     history,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, tenderID uint, payload dto.SubmissionCreateRequest, actorID uint) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	tender, err := s.tenders.GetByID(ctx, tenderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrTenderClosed
		}
		return dto.SubmissionResponse{}, err
	}
	if !tender.IsOpen() {
		return dto.SubmissionResponse{}, ErrTenderClosed
	}

	if _, err := s.submissions.FindByTenderAndBidder(ctx, tenderID, payload.BidderID); err == nil {
		return dto.SubmissionResponse{}, ErrDuplicateSubmission
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubmissionResponse{}, err
	}

	submission := models.Submission{
		TenderID:     tenderID,
		BidderID:     payload.BidderID,
		Amount:       payload.Amount,
		Notes:        payload.Notes,
		DeliveryTime: payload.DeliveryTime,
		Warranty:     payload.Warranty,
		Status:       models.SubmissionStatusSubmitted,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		// The unique index on (tender_id, bidder_id) closes the window
		// between the admission lookup and the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.SubmissionResponse{}, ErrDuplicateSubmission
		}
		return dto.SubmissionResponse{}, err
	}

	if err := s.history.Record(ctx, AuditEvent{
		TenderID: tenderID,
		Action:   models.HistoryActionSubmissionAdded,
		Details:  fmt.Sprintf("New submission from bidder %d", payload.BidderID),
		ActorID:  actorID,
	}); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("tender_id", tenderID).
		Uint("submission_id", submission.ID).
		Uint("bidder_id", payload.BidderID).
		Msg("submission created")

	return dto.NewSubmissionResponse(submission), nil
}

// Evaluate records per-criterion scores and the overall evaluation on the
// submission. Criterion ownership is deliberately not verified and partial
// scoring is accepted; callers decide coverage. Evaluation writes no history
// entry, unlike the other mutations.
func (s *submissionService) Evaluate(ctx context.Context, tenderID, submissionID uint, payload dto.SubmissionEvaluateRequest, actorID uint) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByTenderAndID(ctx, tenderID, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if len(payload.Scores) > 0 {
		scores := make([]models.Score, 0, len(payload.Scores))
		for _, score := range payload.Scores {
			scores = append(scores, models.Score{
				SubmissionID: submission.ID,
				CriterionID:  score.CriterionID,
				Score:        score.Score,
				Comments:     score.Comments,
			})
		}
		if err := s.scores.CreateBatch(ctx, scores); err != nil {
			return dto.SubmissionResponse{}, err
		}
	}

	evaluatedAt := s.now()
	totalScore := payload.TotalScore
	submission.TotalScore = &totalScore
	submission.EvaluationComments = payload.Comments
	submission.EvaluatedBy = &actorID
	submission.EvaluatedAt = &evaluatedAt
	submission.Status = models.SubmissionStatusEvaluated

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("tender_id", tenderID).
		Uint("submission_id", submission.ID).
		Float64("total_score", payload.TotalScore).
		Msg("submission evaluated")

	return dto.NewSubmissionResponse(submission), nil
}
