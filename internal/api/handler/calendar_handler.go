package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"navy-training/backend/internal/dto"
	"navy-training/backend/internal/service"
	"navy-training/backend/pkg/response"
)

// CalendarHandler 日历订阅 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// InstructorFeed 讲师日程 iCalendar
// GET /api/v1/calendar/instructors/:id.ics（路径参数带或不带 .ics 均可）
func (h *CalendarHandler) InstructorFeed(c *gin.Context) {
	raw := strings.TrimSuffix(c.Param("id"), ".ics")
	instructorID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || instructorID <= 0 {
		response.BadRequest(c, 10001, "讲师ID无效")
		return
	}

	var q dto.DateWindowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	data, err := h.calendarSvc.InstructorICS(c.Request.Context(), instructorID, &q)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInstructorNotFound):
			respondError(c, http.StatusNotFound, 22003, "讲师不存在", err)
		default:
			respondByKind(c, err)
		}
		return
	}

	// 日历客户端按固定周期轮询，允许短时缓存
	c.Header("Cache-Control", "private, max-age=300")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=instructor-%d.ics", instructorID))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}
