package controller

import (
	"elearn_backend/internal/service"
	"elearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
	ProgressService   *service.ProgressService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService, progressService *service.ProgressService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService, ProgressService: progressService}
}

// Enroll godoc
// @Summary 报名模块
// @Description 模块必须已发布且免费，重复报名会被拒绝
// @Tags 选课
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "模块ID"
// @Success 201 {object} util.Response{data=model.Enrollment} "报名成功"
// @Failure 400 {object} util.Response "已报名、未发布或付费模块"
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/modules/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	moduleID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	enrollment, err := c.EnrollmentService.Enroll(claims.UserID, moduleID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, enrollment)
}

// ListMyEnrollments godoc
// @Summary 我的选课
// @Description 当前学员的选课列表，带每个模块的实时进度
// @Tags 选课
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.LearnerEnrollmentView} "成功"
// @Router /api/enrollments [get]
func (c *EnrollmentController) ListMyEnrollments(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	views, err := c.EnrollmentService.ListForLearner(claims.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, views)
}

// CompleteEnrollment godoc
// @Summary 标记结课
// @Tags 选课
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "选课ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "不是本人的选课"
// @Failure 404 {object} util.Response "选课不存在"
// @Router /api/enrollments/{id}/complete [post]
func (c *EnrollmentController) CompleteEnrollment(ctx *gin.Context) {
	enrollmentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	if err := c.ProgressService.MarkEnrollmentComplete(claims.UserID, enrollmentID); err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// CompleteContent godoc
// @Summary 标记内容完成
// @Description 重复提交只刷新时间戳，不会产生重复记录
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "内容ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "未选课"
// @Failure 404 {object} util.Response "内容不存在"
// @Router /api/content/{id}/complete [post]
func (c *EnrollmentController) CompleteContent(ctx *gin.Context) {
	contentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	if err := c.ProgressService.MarkContentComplete(claims.UserID, contentID); err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// GetModuleProgress godoc
// @Summary 模块进度
// @Description 当前学员在该模块下的完成数、总数与百分比
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "模块ID"
// @Success 200 {object} util.Response{data=service.ModuleProgress} "成功"
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/modules/{id}/progress [get]
func (c *EnrollmentController) GetModuleProgress(ctx *gin.Context) {
	moduleID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	progress, err := c.ProgressService.GetModuleProgress(claims.UserID, moduleID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}
