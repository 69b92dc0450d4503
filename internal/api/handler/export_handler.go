package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"navy-training/backend/internal/dto"
	"navy-training/backend/internal/service"
	"navy-training/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportSchedules 导出讲师日程
// GET /api/v1/export/instructor-schedules?start_date=&end_date=
func (h *ExportHandler) ExportSchedules(c *gin.Context) {
	var q dto.DateWindowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.ExportSchedules(c.Request.Context(), &q)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoSchedules):
		response.NotFound(c, 23001, "所选时间段内没有讲师日程")
	case errors.Is(err, service.ErrInvalidDate), errors.Is(err, service.ErrInvalidDateRange):
		respondError(c, http.StatusBadRequest, 21007, "时间窗无效", err)
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		respondByKind(c, err)
	}
}
