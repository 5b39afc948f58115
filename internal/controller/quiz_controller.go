package controller

import (
	"elearn_backend/internal/service"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// SubmitQuizRequest 空数组是合法提交（全部按答错计），所以不加 required 校验。
type SubmitQuizRequest struct {
	Answers []int `json:"answers"`
}

// SubmitQuiz godoc
// @Summary 提交测验答案
// @Description 判分、追加一条历史记录并把该内容项标记为完成，两者同事务提交
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "内容ID"
// @Param   body body SubmitQuizRequest true "按题目顺序排列的选项下标"
// @Success 200 {object} util.Response{data=service.QuizSubmissionResult} "成功"
// @Failure 400 {object} util.Response "内容不是测验"
// @Failure 403 {object} util.Response "未选课"
// @Failure 404 {object} util.Response "内容不存在"
// @Router /api/content/{id}/quiz/submit [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	contentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	result, err := c.QuizService.SubmitAttempt(claims.UserID, contentID, req.Answers)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	monitoring.QuizSubmissions.Inc()
	monitoring.QuizScores.Observe(result.Score)

	util.Success(ctx, result)
}

// ListAttempts godoc
// @Summary 测验历史
// @Description 当前学员在该测验上的全部判分记录，最新的在前
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "内容ID"
// @Success 200 {object} util.Response{data=[]service.QuizAttemptView} "成功"
// @Failure 404 {object} util.Response "内容不存在"
// @Router /api/content/{id}/quiz/attempts [get]
func (c *QuizController) ListAttempts(ctx *gin.Context) {
	contentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	attempts, err := c.QuizService.ListAttempts(claims.UserID, contentID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, attempts)
}
