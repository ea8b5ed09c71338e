package controller

import (
	"errors"
	"health_survey_backend/internal/model"
	"health_survey_backend/internal/service"
	"health_survey_backend/internal/util"
	"health_survey_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SubmissionController struct {
	SubmissionService *service.SubmissionService
}

func NewSubmissionController(submissionService *service.SubmissionService) *SubmissionController {
	return &SubmissionController{SubmissionService: submissionService}
}

// @Summary 提交问卷
// @Description 保存一份完整的问卷答案和可选的来源标记
// @Tags 问卷
// @Accept json
// @Produce json
// @Param request body model.SubmitSurveyRequest true "答案和来源标记"
// @Success 201 {object} model.SubmitSurveyResponse
// @Failure 400 {object} model.SubmitErrorResponse
// @Failure 500 {object} model.SubmitErrorResponse
// @Router /submit [post]
func (c *SubmissionController) Submit(ctx *gin.Context) {
	var req model.SubmitSurveyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.Log.Debug("Invalid survey payload", zap.Error(err))
		util.SubmitInvalid(ctx)
		return
	}

	submission, err := c.SubmissionService.Submit(ctx.Request.Context(), &req)
	if err != nil {
		var storageErr *util.StorageError
		switch {
		case errors.Is(err, util.ErrInvalidSurveyData):
			util.SubmitInvalid(ctx)
		case errors.As(err, &storageErr):
			util.SubmitFailed(ctx, storageErr)
		default:
			util.SubmitFailed(ctx, err)
		}
		return
	}

	util.SubmitCreated(ctx, submission.ID)
}
