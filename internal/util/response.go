package util

import (
	"health_survey_backend/internal/model"
	"health_survey_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// 提交接口沿用旧客户端的响应格式，不包 Response

func SubmitCreated(c *gin.Context, id string) {
	c.JSON(http.StatusCreated, model.SubmitSurveyResponse{
		Message: MsgSubmitSuccess,
		ID:      id,
	})
}

func SubmitInvalid(c *gin.Context) {
	c.JSON(http.StatusBadRequest, model.SubmitErrorResponse{
		Message: MsgInvalidSurvey,
	})
}

// SubmitFailed 原样返回底层错误信息
func SubmitFailed(c *gin.Context, err error) {
	logger.Log.Error("Error saving survey response", zap.Error(err))
	c.JSON(http.StatusInternalServerError, model.SubmitErrorResponse{
		Message: MsgSubmitFailed,
		Error:   err.Error(),
	})
}
