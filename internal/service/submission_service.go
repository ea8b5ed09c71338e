package service

import (
	"context"
	"health_survey_backend/internal/model"
	"health_survey_backend/internal/repository"
	"health_survey_backend/internal/util"
	"health_survey_backend/pkg/logger"
	"health_survey_backend/pkg/monitoring"
	"health_survey_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

type SubmissionService struct {
	Repo    repository.SubmissionRepository
	Counter repository.RespondentCounter
}

func NewSubmissionService(repo repository.SubmissionRepository, counter repository.RespondentCounter) *SubmissionService {
	if counter == nil {
		counter = repository.NoopRespondentCounter{}
	}
	return &SubmissionService{Repo: repo, Counter: counter}
}

// Submit 校验并保存一份问卷。answers 为空返回 ErrInvalidSurveyData，
// 存储失败返回 *util.StorageError
func (s *SubmissionService) Submit(ctx context.Context, req *model.SubmitSurveyRequest) (*model.SurveySubmission, error) {
	ctx, span := tracing.Tracer.Start(ctx, "SubmissionService.Submit")
	defer span.End()

	if req == nil || len(req.Answers) == 0 {
		monitoring.SubmissionCounter.WithLabelValues(monitoring.OutcomeInvalid).Inc()
		span.SetStatus(codes.Error, "invalid survey data")
		return nil, util.ErrInvalidSurveyData
	}

	submission := &model.SurveySubmission{
		Answers:      req.Answers,
		SourceSuffix: model.NormalizeSuffix(req.SourceSuffix),
	}
	span.SetAttributes(
		attribute.Int("survey.answer_count", len(submission.Answers)),
		attribute.Bool("survey.has_source", submission.SourceSuffix != nil),
	)

	if err := s.Repo.Create(ctx, submission); err != nil {
		monitoring.SubmissionCounter.WithLabelValues(monitoring.OutcomeStorageError).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failure")
		return nil, &util.StorageError{Err: err}
	}

	monitoring.SubmissionCounter.WithLabelValues(monitoring.OutcomeCreated).Inc()

	suffix := util.NoSourceSuffix
	if submission.SourceSuffix != nil {
		suffix = *submission.SourceSuffix
	}
	logger.Log.Info("Survey response saved",
		zap.String("id", submission.ID),
		zap.String("suffix", suffix),
	)

	// 计数只用于展示，失败不影响提交结果
	if _, err := s.Counter.Increment(ctx); err != nil {
		logger.Log.Warn("Failed to increment respondent counter", zap.Error(err))
	}

	return submission, nil
}

func (s *SubmissionService) RespondentCount(ctx context.Context) (int64, error) {
	return s.Counter.Count(ctx)
}

func (s *SubmissionService) Ping(ctx context.Context) error {
	return s.Repo.Ping(ctx)
}
