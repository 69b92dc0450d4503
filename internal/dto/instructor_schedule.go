package dto

// ── 讲师日程模块 DTO ──

// CreateInstructorScheduleRequest 手动录入讲师日程
type CreateInstructorScheduleRequest struct {
	InstructorID int64  `json:"instructor_id" binding:"required,gt=0"`
	ScheduleDate string `json:"schedule_date" binding:"required,isodate"`
	EndDate      string `json:"end_date"      binding:"omitempty,isodate"`
	Description  string `json:"description"   binding:"max=200"`
}

// InstructorScheduleListRequest 按时间窗查询日程
type InstructorScheduleListRequest struct {
	StartDate    string `form:"start_date"    binding:"required,isodate"`
	EndDate      string `form:"end_date"      binding:"required,isodate"`
	InstructorID *int64 `form:"instructor_id" binding:"omitempty,gt=0"`
}

// DateWindowQuery 可选时间窗，导出与日历订阅共用
type DateWindowQuery struct {
	StartDate string `form:"start_date" binding:"omitempty,isodate"`
	EndDate   string `form:"end_date"   binding:"omitempty,isodate"`
}

// InstructorScheduleResponse 讲师日程视图
type InstructorScheduleResponse struct {
	ID           int64            `json:"id"`
	InstructorID int64            `json:"instructor_id"`
	Instructor   *InstructorBrief `json:"instructor,omitempty"`
	ScheduleDate string           `json:"schedule_date"`
	EndDate      *string          `json:"end_date"`
	Description  string           `json:"description"`
	Source       string           `json:"source"`
	RequestID    *int64           `json:"request_id"`
	CreatedAt    string           `json:"created_at"`
}
