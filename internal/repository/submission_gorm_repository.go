package repository

import (
	"context"
	"encoding/json"
	"health_survey_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// GormSubmissionRepository MySQL 存储，answers 以 JSON 列保存
type GormSubmissionRepository struct {
	DB *gorm.DB
}

func NewGormSubmissionRepository(db *gorm.DB) *GormSubmissionRepository {
	return &GormSubmissionRepository{DB: db}
}

func (r *GormSubmissionRepository) Create(ctx context.Context, submission *model.SurveySubmission) error {
	answers, err := json.Marshal(submission.Answers)
	if err != nil {
		return err
	}

	record := &model.SubmissionRecord{
		Answers:      answers,
		SourceSuffix: submission.SourceSuffix,
		SubmittedAt:  time.Now(),
	}
	if err := r.DB.WithContext(ctx).Create(record).Error; err != nil {
		return err
	}

	submission.ID = record.ID
	submission.SubmittedAt = record.SubmittedAt
	return nil
}

func (r *GormSubmissionRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
