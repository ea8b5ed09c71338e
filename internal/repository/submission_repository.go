package repository

import (
	"context"
	"health_survey_backend/internal/model"
)

// SubmissionRepository 只支持写入，提交记录没有更新和删除
type SubmissionRepository interface {
	// Create 成功后回填 ID 和 SubmittedAt
	Create(ctx context.Context, submission *model.SurveySubmission) error
	Ping(ctx context.Context) error
}
