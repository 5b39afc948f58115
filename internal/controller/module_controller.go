package controller

import (
	"elearn_backend/internal/service"
	"elearn_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ModuleController struct {
	ModuleService     *service.ModuleService
	EnrollmentService *service.EnrollmentService
}

func NewModuleController(moduleService *service.ModuleService, enrollmentService *service.EnrollmentService) *ModuleController {
	return &ModuleController{ModuleService: moduleService, EnrollmentService: enrollmentService}
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// ListModules godoc
// @Summary 已发布模块列表
// @Description 分页列出已发布的模块，可按分类过滤
// @Tags 模块
// @Produce  json
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(10)
// @Param   category query string false "分类过滤"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/modules [get]
func (c *ModuleController) ListModules(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	modules, total, err := c.ModuleService.ListPublished(page, limit, ctx.Query("category"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: modules, Total: total, Page: page, Limit: limit})
}

// GetModule godoc
// @Summary 模块详情
// @Description 未发布的模块只有属主讲师和管理员可见
// @Tags 模块
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "模块ID"
// @Success 200 {object} util.Response{data=model.Module} "成功"
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/modules/{id} [get]
func (c *ModuleController) GetModule(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	module, err := c.ModuleService.GetModule(util.GetUserFromContext(ctx), id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, module)
}

// CreateModule godoc
// @Summary 新建模块
// @Tags 模块
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.CreateModuleRequest true "模块信息"
// @Success 201 {object} util.Response{data=model.Module} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/lecturer/modules [post]
func (c *ModuleController) CreateModule(ctx *gin.Context) {
	var req service.CreateModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.ModuleService.CreateModule(util.GetUserFromContext(ctx), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, module)
}

// UpdateModule godoc
// @Summary 修改模块
// @Tags 模块
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "模块ID"
// @Param   body body service.UpdateModuleRequest true "要修改的字段"
// @Success 200 {object} util.Response{data=model.Module} "成功"
// @Failure 403 {object} util.Response "不是模块属主"
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/lecturer/modules/{id} [put]
func (c *ModuleController) UpdateModule(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req service.UpdateModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.ModuleService.UpdateModule(util.GetUserFromContext(ctx), id, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, module)
}

// DeleteModule godoc
// @Summary 删除模块
// @Description 级联删除模块下的内容、选课、进度与测验历史
// @Tags 模块
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "模块ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "不是模块属主"
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/lecturer/modules/{id} [delete]
func (c *ModuleController) DeleteModule(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.ModuleService.DeleteModule(ctx.Request.Context(), util.GetUserFromContext(ctx), id); err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// ListMyModules godoc
// @Summary 我的模块
// @Description 讲师名下的全部模块（含未发布）
// @Tags 模块
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Module} "成功"
// @Router /api/lecturer/modules [get]
func (c *ModuleController) ListMyModules(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	modules, err := c.ModuleService.ListMine(claims.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, modules)
}

// ListAllModules godoc
// @Summary 全部模块
// @Description 管理员视角的全量模块列表
// @Tags 模块
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/admin/modules [get]
func (c *ModuleController) ListAllModules(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	modules, total, err := c.ModuleService.ListAll(page, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: modules, Total: total, Page: page, Limit: limit})
}

// ListModuleLearners godoc
// @Summary 模块学员名单
// @Description 讲师查看自己模块的学员与进度
// @Tags 模块
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "模块ID"
// @Success 200 {object} util.Response{data=[]service.EnrolledLearnerView} "成功"
// @Failure 403 {object} util.Response "不是模块属主"
// @Router /api/lecturer/modules/{id}/learners [get]
func (c *ModuleController) ListModuleLearners(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	learners, err := c.EnrollmentService.ListModuleLearners(util.GetUserFromContext(ctx), id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, learners)
}
