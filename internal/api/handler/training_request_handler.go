package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"navy-training/backend/internal/dto"
	"navy-training/backend/internal/service"
	"navy-training/backend/pkg/response"
)

// TrainingRequestHandler 训练申请模块 HTTP 处理器
type TrainingRequestHandler struct {
	requestSvc      service.TrainingRequestService
	availabilitySvc service.AvailabilityService
}

// NewTrainingRequestHandler 创建 TrainingRequestHandler
func NewTrainingRequestHandler(requestSvc service.TrainingRequestService, availabilitySvc service.AvailabilityService) *TrainingRequestHandler {
	return &TrainingRequestHandler{requestSvc: requestSvc, availabilitySvc: availabilitySvc}
}

// CreateRequest 提交训练申请
// POST /api/v1/requests
func (h *TrainingRequestHandler) CreateRequest(c *gin.Context) {
	var req dto.CreateTrainingRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.requestSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.Created(c, result)
}

// ListRequests 训练申请列表，可按申请人过滤
// GET /api/v1/requests?user_id=
func (h *TrainingRequestHandler) ListRequests(c *gin.Context) {
	var req dto.TrainingRequestListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.requestSvc.List(c.Request.Context(), req.UserID)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetRequest 训练申请详情
// GET /api/v1/requests/:id
func (h *TrainingRequestHandler) GetRequest(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "申请ID无效")
	if !ok {
		return
	}

	result, err := h.requestSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, result)
}

// GetAvailability 指定日期的讲师与场地占用
// GET /api/v1/requests/availability?date=YYYY-MM-DD
func (h *TrainingRequestHandler) GetAvailability(c *gin.Context) {
	var req dto.AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 21006, "日期格式错误，应为 YYYY-MM-DD")
		return
	}

	result, err := h.availabilitySvc.GetAvailability(c.Request.Context(), req.Date)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateStatus 变更申请状态
// PATCH /api/v1/requests/:id/status
func (h *TrainingRequestHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "申请ID无效")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.requestSvc.UpdateStatus(c.Request.Context(), id, req.Status, callerID)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, result)
}

// AssignInstructors 指派讲师（三个槽位整体覆盖）
// PATCH /api/v1/requests/:id/instructors
func (h *TrainingRequestHandler) AssignInstructors(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "申请ID无效")
	if !ok {
		return
	}

	var req dto.AssignInstructorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.requestSvc.AssignInstructors(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdatePlan 更新训练计划
// PATCH /api/v1/requests/:id/plan
func (h *TrainingRequestHandler) UpdatePlan(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "申请ID无效")
	if !ok {
		return
	}

	var req dto.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.requestSvc.UpdatePlan(c.Request.Context(), id, req.Plan, callerID)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, result)
}

// handleRequestError 统一处理训练申请模块业务错误
func (h *TrainingRequestHandler) handleRequestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTrainingRequestNotFound):
		respondError(c, http.StatusNotFound, 21001, "训练申请不存在", err)
	case errors.Is(err, service.ErrRequesterNotFound):
		respondError(c, http.StatusNotFound, 21002, "申请人不存在", err)
	case errors.Is(err, service.ErrVenueNotFound):
		respondError(c, http.StatusNotFound, 21003, "场地不存在", err)
	case errors.Is(err, service.ErrSecondVenueNotFound):
		respondError(c, http.StatusNotFound, 21004, "副场地不存在", err)
	case errors.Is(err, service.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, 21005, "无效的申请状态", err)
	case errors.Is(err, service.ErrInvalidDate):
		respondError(c, http.StatusBadRequest, 21006, "日期格式错误，应为 YYYY-MM-DD", err)
	case errors.Is(err, service.ErrInvalidDateRange):
		respondError(c, http.StatusBadRequest, 21007, "结束日期不能早于开始日期", err)
	case errors.Is(err, service.ErrInvalidStartTime):
		respondError(c, http.StatusBadRequest, 21008, "开始时间格式错误，应为 HH:MM", err)
	default:
		respondByKind(c, err)
	}
}
