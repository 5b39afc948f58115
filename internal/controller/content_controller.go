package controller

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/service"
	"elearn_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService  *service.ContentService
	ProgressService *service.ProgressService
}

func NewContentController(contentService *service.ContentService, progressService *service.ProgressService) *ContentController {
	return &ContentController{ContentService: contentService, ProgressService: progressService}
}

// CreateContent godoc
// @Summary 新建内容项
// @Description multipart 表单。notes/assignments 提交 content_text 或 file 二选一，
// @Description videos 必须带 file，quizzes 必须带 quiz_data（JSON 题目数组）。
// @Tags 内容
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "模块ID"
// @Param   title formData string true "标题"
// @Param   content_type formData string true "notes/videos/quizzes/assignments"
// @Param   content_text formData string false "文本正文"
// @Param   quiz_data formData string false "测验定义 JSON"
// @Param   file formData file false "附件"
// @Success 201 {object} util.Response{data=model.Content} "创建成功"
// @Failure 400 {object} util.Response "载荷不合法"
// @Failure 403 {object} util.Response "不是模块属主"
// @Router /api/modules/{id}/content [post]
func (c *ContentController) CreateContent(ctx *gin.Context) {
	moduleID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	req := service.CreateContentRequest{
		Title:       ctx.PostForm("title"),
		ContentType: model.ContentType(ctx.PostForm("content_type")),
		ContentText: ctx.PostForm("content_text"),
	}
	if quizData := ctx.PostForm("quiz_data"); quizData != "" {
		req.QuizData = []byte(quizData)
	}
	if file, err := ctx.FormFile("file"); err == nil {
		req.File = file
	}

	content, err := c.ContentService.CreateContent(ctx.Request.Context(), util.GetUserFromContext(ctx), moduleID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, content)
}

// DeleteContent godoc
// @Summary 删除内容项
// @Description 级联清理进度与测验历史，并删除存储中的文件
// @Tags 内容
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "内容ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "不是模块属主"
// @Failure 404 {object} util.Response "内容不存在"
// @Router /api/content/{id} [delete]
func (c *ContentController) DeleteContent(ctx *gin.Context) {
	contentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.ContentService.DeleteContent(ctx.Request.Context(), util.GetUserFromContext(ctx), contentID); err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// GetModuleContent godoc
// @Summary 模块内容列表
// @Description 按角色过滤：学员视角测验题不带正确答案，每项带完成标记
// @Tags 内容
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "模块ID"
// @Success 200 {object} util.Response{data=[]service.ContentView} "成功"
// @Failure 403 {object} util.Response "未选课"
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/modules/{id}/content [get]
func (c *ContentController) GetModuleContent(ctx *gin.Context) {
	moduleID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	views, err := c.ProgressService.GetModuleContent(util.GetUserFromContext(ctx), moduleID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, views)
}

// UploadVideoChunk godoc
// @Summary 分块上传视频
// @Description 上传完最后一块后自动合并并在模块下创建视频内容项
// @Tags 内容
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "模块ID"
// @Param   chunk formData file true "分块数据"
// @Param   chunkNumber formData int true "分块序号，从1开始"
// @Param   totalChunks formData int true "总分块数"
// @Param   identifier formData string true "上传批次标识"
// @Param   filename formData string true "原始文件名"
// @Param   title formData string false "内容标题，缺省用文件名"
// @Success 200 {object} util.Response "分块已接收或上传完成"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/lecturer/modules/{id}/video-chunk [post]
func (c *ContentController) UploadVideoChunk(ctx *gin.Context) {
	moduleID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	chunkFile, err := ctx.FormFile("chunk")
	if err != nil {
		util.BadRequest(ctx, "chunk file is required")
		return
	}
	chunkNumber, err := strconv.Atoi(ctx.PostForm("chunkNumber"))
	if err != nil || chunkNumber < 1 {
		util.BadRequest(ctx, "invalid chunkNumber")
		return
	}
	totalChunks, err := strconv.Atoi(ctx.PostForm("totalChunks"))
	if err != nil || totalChunks < chunkNumber {
		util.BadRequest(ctx, "invalid totalChunks")
		return
	}
	identifier := ctx.PostForm("identifier")
	filename := ctx.PostForm("filename")
	if identifier == "" || filename == "" {
		util.BadRequest(ctx, "identifier and filename are required")
		return
	}

	progress, content, err := c.ContentService.UploadVideoChunk(
		ctx.Request.Context(), util.GetUserFromContext(ctx),
		moduleID, chunkFile, chunkNumber, totalChunks,
		identifier, filename, ctx.PostForm("title"),
	)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	if content != nil {
		util.Created(ctx, gin.H{"progress": progress, "content": content})
		return
	}
	util.Success(ctx, gin.H{"progress": progress})
}

// GetUploadProgress godoc
// @Summary 查询分块上传进度
// @Tags 内容
// @Produce  json
// @Security ApiKeyAuth
// @Param   identifier path string true "上传批次标识"
// @Success 200 {object} util.Response{data=model.UploadProgress} "成功"
// @Failure 404 {object} util.Response "进度不存在"
// @Router /api/lecturer/upload-progress/{identifier} [get]
func (c *ContentController) GetUploadProgress(ctx *gin.Context) {
	progress, err := c.ContentService.GetUploadProgress(ctx.Request.Context(), ctx.Param("identifier"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}
