package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"creditrisk/predictor/internal/inference"
	"creditrisk/predictor/internal/metrics"
	"creditrisk/predictor/internal/models"
	"creditrisk/predictor/internal/repositories"
)

var ErrHistoryDisabled = errors.New("prediction history is disabled")

// Failure reasons, used as metric labels and in API error bodies.
const (
	ReasonUnknownCategory = "unknown_category"
	ReasonShapeMismatch   = "shape_mismatch"
	ReasonScorer          = "scorer_failure"
)

// FailureReason classifies an error returned by Predict.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, inference.ErrUnknownCategory):
		return ReasonUnknownCategory
	case errors.Is(err, inference.ErrShapeMismatch):
		return ReasonShapeMismatch
	default:
		return ReasonScorer
	}
}

// PredictionOutcome is the result of one Predict call.
type PredictionOutcome struct {
	ID         uuid.UUID
	Applicant  models.Applicant
	Row        inference.FeatureRow
	Prediction inference.Prediction
	CreatedAt  time.Time
}

func (o *PredictionOutcome) Response() models.PredictionResponse {
	return models.PredictionResponse{
		ID:              o.ID.String(),
		Verdict:         string(o.Prediction.Verdict),
		ClassID:         o.Prediction.ClassID,
		ProbabilityGood: o.Prediction.ProbabilityGood,
		ProbabilityBad:  o.Prediction.ProbabilityBad,
		CreditAmount:    o.Applicant.CreditAmount,
		Duration:        o.Applicant.Duration,
		EncodedInput:    o.Row.Named(),
		CreatedAt:       o.CreatedAt,
	}
}

type PredictorService interface {
	Predict(ctx context.Context, applicant models.Applicant) (*PredictionOutcome, error)
	GetPrediction(ctx context.Context, id uuid.UUID) (*models.Prediction, error)
	ListPredictions(ctx context.Context, limit int) ([]models.Prediction, error)
	AssetInfo() inference.AssetInfo
}

type predictorService struct {
	assets *inference.Assets
	repo   repositories.PredictionRepository
	log    *zap.Logger
	now    func() time.Time
}

// NewPredictorService builds the service around the loaded assets. repo may
// be nil, in which case predictions are not stored.
func NewPredictorService(
	assets *inference.Assets,
	repo repositories.PredictionRepository,
	log *zap.Logger,
) PredictorService {
	return &predictorService{
		assets: assets,
		repo:   repo,
		log:    log,
		now:    time.Now,
	}
}

func (s *predictorService) Predict(ctx context.Context, applicant models.Applicant) (*PredictionOutcome, error) {
	start := time.Now()
	row, prediction, err := s.assets.Predict(applicant.ToInference())
	metrics.PredictionDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		reason := FailureReason(err)
		metrics.PredictionFailures.WithLabelValues(reason).Inc()
		s.log.Warn("prediction failed", zap.String("reason", reason), zap.Error(err))
		return nil, err
	}

	outcome := &PredictionOutcome{
		ID:         uuid.New(),
		Applicant:  applicant,
		Row:        row,
		Prediction: prediction,
		CreatedAt:  s.now().UTC(),
	}

	metrics.PredictionsTotal.WithLabelValues(string(prediction.Verdict)).Inc()
	if !prediction.HasProbability() {
		metrics.ProbabilityUnavailable.Inc()
	}

	fields := []zap.Field{
		zap.String("id", outcome.ID.String()),
		zap.String("verdict", string(prediction.Verdict)),
		zap.Int("class_id", prediction.ClassID),
	}
	if prediction.HasProbability() {
		fields = append(fields, zap.Float64("probability_good", *prediction.ProbabilityGood))
	}
	s.log.Info("prediction completed", fields...)

	if s.repo != nil {
		if err := s.store(ctx, outcome); err != nil {
			metrics.HistoryWriteFailures.Inc()
			s.log.Error("failed to store prediction", zap.String("id", outcome.ID.String()), zap.Error(err))
		}
	}

	return outcome, nil
}

func (s *predictorService) store(ctx context.Context, o *PredictionOutcome) error {
	encoded, err := json.Marshal(o.Row.Values)
	if err != nil {
		return fmt.Errorf("failed to encode feature row: %w", err)
	}

	return s.repo.Create(ctx, &models.Prediction{
		ID:              o.ID,
		Age:             o.Applicant.Age,
		Sex:             o.Applicant.Sex,
		Job:             o.Applicant.Job,
		Housing:         o.Applicant.Housing,
		SavingAccounts:  o.Applicant.SavingAccounts,
		CheckingAccount: o.Applicant.CheckingAccount,
		CreditAmount:    o.Applicant.CreditAmount,
		Duration:        o.Applicant.Duration,
		EncodedRow:      string(encoded),
		Verdict:         string(o.Prediction.Verdict),
		ClassID:         o.Prediction.ClassID,
		ProbabilityGood: o.Prediction.ProbabilityGood,
		CreatedAt:       o.CreatedAt,
	})
}

func (s *predictorService) GetPrediction(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.repo.FindByID(ctx, id)
}

func (s *predictorService) ListPredictions(ctx context.Context, limit int) ([]models.Prediction, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.repo.ListRecent(ctx, limit)
}

func (s *predictorService) AssetInfo() inference.AssetInfo {
	return s.assets.Describe()
}
