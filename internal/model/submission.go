package model

import (
	"encoding/json"
	"strings"
	"time"
)

// SurveySubmission 一次完整的问卷提交，写入后不再修改
type SurveySubmission struct {
	ID           string                 `json:"id"`
	Answers      map[string]AnswerValue `json:"answers"`
	SourceSuffix *string                `json:"sourceSuffix"`
	SubmittedAt  time.Time              `json:"submittedAt"`
}

// SubmissionRecord MySQL 存储时的表结构
type SubmissionRecord struct {
	UUIDBase
	Answers      json.RawMessage `gorm:"type:json;not null" json:"answers"`
	SourceSuffix *string         `gorm:"type:varchar(255);index" json:"sourceSuffix"`
	SubmittedAt  time.Time       `gorm:"index;not null" json:"submittedAt"`
}

func (SubmissionRecord) TableName() string {
	return "survey_submissions"
}

type SubmitSurveyRequest struct {
	Answers      map[string]AnswerValue `json:"answers" swaggertype:"object"`
	SourceSuffix *string                `json:"sourceSuffix"`
}

type SubmitSurveyResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type SubmitErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NormalizeSuffix 去掉首尾空白，空串视为未提供
func NormalizeSuffix(suffix *string) *string {
	if suffix == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*suffix)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
