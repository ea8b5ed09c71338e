package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"health_survey_backend/internal/model"
	"health_survey_backend/internal/service"
	"health_survey_backend/pkg/fixture"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	saved   []*model.SurveySubmission
	err     error
	pingErr error
}

func (m *memoryRepo) Create(ctx context.Context, submission *model.SurveySubmission) error {
	if m.err != nil {
		return m.err
	}
	submission.ID = "665f1c2e9b1e8a3d4c5b6a79"
	submission.SubmittedAt = time.Now()
	m.saved = append(m.saved, submission)
	return nil
}

func (m *memoryRepo) Ping(ctx context.Context) error {
	return m.pingErr
}

type staticCounter struct {
	count int64
	err   error
}

func (s *staticCounter) Increment(ctx context.Context) (int64, error) {
	s.count++
	return s.count, nil
}

func (s *staticCounter) Count(ctx context.Context) (int64, error) {
	return s.count, s.err
}

func setupRouter(repo *memoryRepo, counter *staticCounter) *gin.Engine {
	gin.SetMode(gin.TestMode)

	submissionService := service.NewSubmissionService(repo, counter)
	surveyService := service.NewSurveyService(fixture.Default())

	submission := NewSubmissionController(submissionService)
	survey := NewSurveyController(surveyService, submissionService)
	health := NewHealthController(submissionService, "mongo")

	router := gin.New()
	api := router.Group("/api")
	api.POST("/submit", submission.Submit)
	api.GET("/survey", survey.GetSurvey)
	api.GET("/survey/comparisons/:index", survey.GetComparison)
	api.GET("/stats", survey.GetStats)
	api.GET("/health", health.HealthCheck)
	return router
}

func postSubmit(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSubmitCreated(t *testing.T) {
	repo := &memoryRepo{}
	router := setupRouter(repo, &staticCounter{})

	w := postSubmit(router, `{"answers":{"0":"15-18"},"sourceSuffix":"campaignX"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"Survey submitted successfully!","id":"665f1c2e9b1e8a3d4c5b6a79"}`, w.Body.String())
	require.Len(t, repo.saved, 1)
	assert.Equal(t, "campaignX", *repo.saved[0].SourceSuffix)
	assert.Equal(t, "15-18", repo.saved[0].Answers["0"].Text())
}

func TestSubmitMultipleChoiceWithoutSuffix(t *testing.T) {
	repo := &memoryRepo{}
	router := setupRouter(repo, &staticCounter{})

	w := postSubmit(router, `{"answers":{"7":["ถุงยางอนามัย","หลั่งนอก"]}}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.saved, 1)
	assert.Nil(t, repo.saved[0].SourceSuffix)
	assert.Equal(t, []string{"ถุงยางอนามัย", "หลั่งนอก"}, repo.saved[0].Answers["7"].Choices())
}

func TestSubmitInvalidPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty answers", `{"answers":{}}`},
		{"missing answers", `{"sourceSuffix":"campaignX"}`},
		{"null answers", `{"answers":null}`},
		{"answers not a mapping", `{"answers":["15-18"]}`},
		{"answers is a string", `{"answers":"15-18"}`},
		{"numeric answer value", `{"answers":{"0":18}}`},
		{"malformed json", `{"answers":`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memoryRepo{}
			router := setupRouter(repo, &staticCounter{})

			w := postSubmit(router, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"message":"Invalid survey data submitted."}`, w.Body.String())
			assert.Empty(t, repo.saved)
		})
	}
}

func TestSubmitStorageFailure(t *testing.T) {
	repo := &memoryRepo{err: errors.New("connection pool closed")}
	counter := &staticCounter{}
	router := setupRouter(repo, counter)

	w := postSubmit(router, `{"answers":{"0":"15-18"}}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Failed to submit survey.", body["message"])
	assert.Equal(t, "connection pool closed", body["error"])
	assert.Zero(t, counter.count)
}

func TestGetSurvey(t *testing.T) {
	router := setupRouter(&memoryRepo{}, &staticCounter{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/survey", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code int              `json:"code"`
		Data fixture.Document `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Questions, 14)
	assert.True(t, resp.Data.Questions[7].AllowsMultiple)
	assert.Equal(t, "ChulaHealthSurvey", resp.Data.Title)
}

func TestGetComparison(t *testing.T) {
	router := setupRouter(&memoryRepo{}, &staticCounter{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/survey/comparisons/0", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []model.ComparisonEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 5)
	assert.Equal(t, model.ComparisonEntry{Label: "19-22", Percentage: 40}, resp.Data[2])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/survey/comparisons/99", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/survey/comparisons/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetStats(t *testing.T) {
	counter := &staticCounter{}
	router := setupRouter(&memoryRepo{}, counter)

	postSubmit(router, `{"answers":{"0":"15-18"}}`)
	postSubmit(router, `{"answers":{"0":"19-22"}}`)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":200,"message":"success","data":{"respondents":2}}`, w.Body.String())

	counter.err = errors.New("redis down")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealthCheck(t *testing.T) {
	repo := &memoryRepo{}
	router := setupRouter(repo, &staticCounter{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mongo":"up"`)

	repo.pingErr = errors.New("no reachable servers")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
