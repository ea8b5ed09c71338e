package controller

import (
	"errors"
	"health_survey_backend/internal/service"
	"health_survey_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type SurveyController struct {
	SurveyService     *service.SurveyService
	SubmissionService *service.SubmissionService
}

func NewSurveyController(surveyService *service.SurveyService, submissionService *service.SubmissionService) *SurveyController {
	return &SurveyController{
		SurveyService:     surveyService,
		SubmissionService: submissionService,
	}
}

// @Summary 获取问卷
// @Description 题目、对比数据和结束页规则
// @Tags 问卷
// @Produce json
// @Success 200 {object} util.Response{data=fixture.Document}
// @Router /survey [get]
func (c *SurveyController) GetSurvey(ctx *gin.Context) {
	util.Success(ctx, c.SurveyService.GetSurvey())
}

// @Summary 获取对比数据
// @Description 某道题的示意统计数据，不来自真实提交
// @Tags 问卷
// @Produce json
// @Param index path int true "题目下标（从 0 开始）"
// @Success 200 {object} util.Response{data=[]model.ComparisonEntry}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /survey/comparisons/{index} [get]
func (c *SurveyController) GetComparison(ctx *gin.Context) {
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		util.BadRequest(ctx, "question index must be an integer")
		return
	}

	entries, err := c.SurveyService.GetComparison(index)
	if err != nil {
		if errors.Is(err, util.ErrComparisonMissing) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}

// @Summary 参与人数
// @Description 开始页展示的累计提交次数，未启用 Redis 时为 0
// @Tags 问卷
// @Produce json
// @Success 200 {object} util.Response
// @Router /stats [get]
func (c *SurveyController) GetStats(ctx *gin.Context) {
	count, err := c.SubmissionService.RespondentCount(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"respondents": count})
}
