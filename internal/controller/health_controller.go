package controller

import (
	"health_survey_backend/internal/service"
	"health_survey_backend/internal/util"
	"health_survey_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthController struct {
	SubmissionService *service.SubmissionService
	Driver            string
}

func NewHealthController(submissionService *service.SubmissionService, driver string) *HealthController {
	return &HealthController{SubmissionService: submissionService, Driver: driver}
}

// @Summary 健康检查
// @Description 检查服务和存储状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	if err := c.SubmissionService.Ping(ctx.Request.Context()); err != nil {
		logger.Log.Warn("Storage ping failed", zap.String("driver", c.Driver), zap.Error(err))
		util.Error(ctx, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			c.Driver: "up",
		},
	})
}
