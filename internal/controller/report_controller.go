package controller

import (
	"elearn_backend/internal/service"
	"elearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// PlatformReport godoc
// @Summary 平台汇总报表
// @Description 用户规模、模块规模、选课完成率与测验均分，实时统计
// @Tags 报表
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.PlatformReport} "成功"
// @Router /api/admin/report [get]
func (c *ReportController) PlatformReport(ctx *gin.Context) {
	report, err := c.ReportService.PlatformReport()
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, report)
}
