package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"navy-training/backend/internal/dto"
	"navy-training/backend/internal/service"
	"navy-training/backend/pkg/response"
)

// InstructorScheduleHandler 讲师日程模块 HTTP 处理器
type InstructorScheduleHandler struct {
	scheduleSvc service.InstructorScheduleService
}

// NewInstructorScheduleHandler 创建 InstructorScheduleHandler
func NewInstructorScheduleHandler(scheduleSvc service.InstructorScheduleService) *InstructorScheduleHandler {
	return &InstructorScheduleHandler{scheduleSvc: scheduleSvc}
}

// ListSchedules 按时间窗查询日程
// GET /api/v1/instructor-schedules?start_date=&end_date=&instructor_id=
func (h *InstructorScheduleHandler) ListSchedules(c *gin.Context) {
	var req dto.InstructorScheduleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "start_date 与 end_date 必填，格式 YYYY-MM-DD")
		return
	}

	list, err := h.scheduleSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListByInstructor 单个讲师的日程
// GET /api/v1/instructor-schedules/instructor/:id?start_date=&end_date=
func (h *InstructorScheduleHandler) ListByInstructor(c *gin.Context) {
	instructorID, ok := parseIDParam(c, "id", "讲师ID无效")
	if !ok {
		return
	}

	var q dto.DateWindowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.scheduleSvc.ListByInstructor(c.Request.Context(), instructorID, &q)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// CreateSchedule 手动录入日程
// POST /api/v1/instructor-schedules
func (h *InstructorScheduleHandler) CreateSchedule(c *gin.Context) {
	var req dto.CreateInstructorScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.scheduleSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.Created(c, result)
}

// DeleteSchedule 删除手动录入的日程
// DELETE /api/v1/instructor-schedules/:id
func (h *InstructorScheduleHandler) DeleteSchedule(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "日程ID无效")
	if !ok {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.scheduleSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleScheduleError 统一处理讲师日程模块业务错误
func (h *InstructorScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		respondError(c, http.StatusNotFound, 22001, "讲师日程不存在", err)
	case errors.Is(err, service.ErrScheduleOwnedByRequest):
		respondError(c, http.StatusConflict, 22002, "该日程由训练申请生成，只能通过变更申请状态撤回", err)
	case errors.Is(err, service.ErrInstructorNotFound):
		respondError(c, http.StatusNotFound, 22003, "讲师不存在", err)
	case errors.Is(err, service.ErrInvalidDate):
		respondError(c, http.StatusBadRequest, 21006, "日期格式错误，应为 YYYY-MM-DD", err)
	case errors.Is(err, service.ErrInvalidDateRange):
		respondError(c, http.StatusBadRequest, 21007, "结束日期不能早于开始日期", err)
	default:
		respondByKind(c, err)
	}
}
