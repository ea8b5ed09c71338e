package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"health_survey_backend/internal/model"
	"health_survey_backend/internal/util"
	"health_survey_backend/pkg/fixture"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmissionRepo struct {
	saved   []*model.SurveySubmission
	err     error
	pingErr error
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, submission *model.SurveySubmission) error {
	if f.err != nil {
		return f.err
	}
	submission.ID = "665f1c2e9b1e8a3d4c5b6a79"
	submission.SubmittedAt = time.Now()
	f.saved = append(f.saved, submission)
	return nil
}

func (f *fakeSubmissionRepo) Ping(ctx context.Context) error {
	return f.pingErr
}

type fakeCounter struct {
	count int64
	err   error
}

func (f *fakeCounter) Increment(ctx context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.count++
	return f.count, nil
}

func (f *fakeCounter) Count(ctx context.Context) (int64, error) {
	return f.count, f.err
}

func strPtr(s string) *string { return &s }

func TestSubmitPersistsWithSuffix(t *testing.T) {
	repo := &fakeSubmissionRepo{}
	counter := &fakeCounter{}
	svc := NewSubmissionService(repo, counter)

	submission, err := svc.Submit(context.Background(), &model.SubmitSurveyRequest{
		Answers:      map[string]model.AnswerValue{"0": model.Single("15-18")},
		SourceSuffix: strPtr("campaignX"),
	})

	require.NoError(t, err)
	assert.NotEmpty(t, submission.ID)
	require.Len(t, repo.saved, 1)
	require.NotNil(t, repo.saved[0].SourceSuffix)
	assert.Equal(t, "campaignX", *repo.saved[0].SourceSuffix)
	assert.Equal(t, int64(1), counter.count)
}

func TestSubmitWithoutSuffixStoresNull(t *testing.T) {
	repo := &fakeSubmissionRepo{}
	svc := NewSubmissionService(repo, nil)

	_, err := svc.Submit(context.Background(), &model.SubmitSurveyRequest{
		Answers: map[string]model.AnswerValue{"7": model.Multiple("ถุงยางอนามัย", "หลั่งนอก")},
	})

	require.NoError(t, err)
	require.Len(t, repo.saved, 1)
	assert.Nil(t, repo.saved[0].SourceSuffix)
	assert.Equal(t, []string{"ถุงยางอนามัย", "หลั่งนอก"}, repo.saved[0].Answers["7"].Choices())
}

func TestSubmitTrimsSuffix(t *testing.T) {
	tests := []struct {
		name   string
		suffix *string
		want   *string
	}{
		{"padded", strPtr("  line-oa  "), strPtr("line-oa")},
		{"blank", strPtr("   "), nil},
		{"empty", strPtr(""), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeSubmissionRepo{}
			_, err := NewSubmissionService(repo, nil).Submit(context.Background(), &model.SubmitSurveyRequest{
				Answers:      map[string]model.AnswerValue{"0": model.Single("15-18")},
				SourceSuffix: tt.suffix,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, repo.saved[0].SourceSuffix)
		})
	}
}

func TestSubmitRejectsEmptyAnswers(t *testing.T) {
	repo := &fakeSubmissionRepo{}
	svc := NewSubmissionService(repo, nil)

	for _, req := range []*model.SubmitSurveyRequest{
		nil,
		{},
		{Answers: map[string]model.AnswerValue{}},
	} {
		_, err := svc.Submit(context.Background(), req)
		assert.ErrorIs(t, err, util.ErrInvalidSurveyData)
	}
	assert.Empty(t, repo.saved)
}

func TestSubmitStorageFailure(t *testing.T) {
	repo := &fakeSubmissionRepo{err: errors.New("server selection error: context deadline exceeded")}
	counter := &fakeCounter{}
	svc := NewSubmissionService(repo, counter)

	_, err := svc.Submit(context.Background(), &model.SubmitSurveyRequest{
		Answers: map[string]model.AnswerValue{"0": model.Single("15-18")},
	})

	var storageErr *util.StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "server selection error: context deadline exceeded", err.Error())
	assert.Zero(t, counter.count)
}

func TestSubmitIgnoresCounterFailure(t *testing.T) {
	repo := &fakeSubmissionRepo{}
	svc := NewSubmissionService(repo, &fakeCounter{err: errors.New("redis down")})

	submission, err := svc.Submit(context.Background(), &model.SubmitSurveyRequest{
		Answers: map[string]model.AnswerValue{"0": model.Single("15-18")},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, submission.ID)
}

func TestSurveyServiceComparison(t *testing.T) {
	svc := NewSurveyService(fixture.Default())

	entries, err := svc.GetComparison(12)
	require.NoError(t, err)
	assert.Equal(t, "จำเป็น ใช้เสมอ", entries[0].Label)
	assert.Equal(t, 45, entries[0].Percentage)

	_, err = svc.GetComparison(42)
	assert.ErrorIs(t, err, util.ErrComparisonMissing)

	assert.Len(t, svc.GetSurvey().Questions, 14)
}
