// Package surveyclient 调用问卷服务端接口，实现 surveyflow.Submitter
package surveyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"health_survey_backend/internal/model"
	"health_survey_backend/pkg/fixture"
	"health_survey_backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	SubmitPath = "/api/submit"
	SurveyPath = "/api/survey"
)

// SubmitError 服务端返回非 2xx 状态
type SubmitError struct {
	StatusCode int
	Message    string
}

func (e *SubmitError) Error() string {
	return e.Message
}

type Client struct {
	RootURL    string
	HTTPClient *http.Client
}

// New timeout 为 0 时不设超时，等待底层连接自己的超时
func New(rootURL string, timeout time.Duration) *Client {
	return &Client{
		RootURL:    strings.TrimRight(rootURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Submit 只发送一次，不重试
func (c *Client) Submit(ctx context.Context, answers model.AnswerSet, sourceSuffix *string) (string, error) {
	payload, err := json.Marshal(model.SubmitSurveyRequest{
		Answers:      answers.Wire(),
		SourceSuffix: sourceSuffix,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.RootURL+SubmitPath, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logger.Log.Error("Survey submission request failed", zap.Error(err))
		return "", err
	}
	defer resp.Body.Close()

	var result struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	decodeErr := json.NewDecoder(resp.Body).Decode(&result)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := result.Message
		if decodeErr != nil || message == "" {
			message = fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
		}
		logger.Log.Warn("Survey submission rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("message", message),
		)
		return "", &SubmitError{StatusCode: resp.StatusCode, Message: message}
	}

	if decodeErr != nil {
		return "", fmt.Errorf("decode submit response: %w", decodeErr)
	}

	logger.Log.Debug("Survey submitted", zap.String("id", result.ID))
	return result.ID, nil
}

// FetchSurvey 读取服务端当前使用的问卷
func (c *Client) FetchSurvey(ctx context.Context) (*fixture.Survey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.RootURL+SurveyPath, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch survey: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Data fixture.Document `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode survey: %w", err)
	}
	return fixture.New(body.Data)
}
