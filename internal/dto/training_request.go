package dto

// ── 训练申请模块 DTO ──

// CreateTrainingRequestRequest 创建训练申请请求
// user_id 缺省时取当前登录用户
type CreateTrainingRequestRequest struct {
	UserID                    *int64 `json:"user_id"                     binding:"omitempty,gt=0"`
	IdentityInstructorID      *int64 `json:"identity_instructor_id"      binding:"omitempty,gt=0"`
	SecurityInstructorID      *int64 `json:"security_instructor_id"      binding:"omitempty,gt=0"`
	CommunicationInstructorID *int64 `json:"communication_instructor_id" binding:"omitempty,gt=0"`
	VenueID                   int64  `json:"venue_id"                    binding:"required,gt=0"`
	SecondVenueID             *int64 `json:"second_venue_id"             binding:"omitempty,gt=0"`
	TrainingType              string `json:"training_type"               binding:"required,max=20"`
	Fleet                     string `json:"fleet"                       binding:"required,max=20"`
	RequestDate               string `json:"request_date"                binding:"required,isodate"`  // "2024-03-01"
	RequestEndDate            string `json:"request_end_date"            binding:"omitempty,isodate"` // 含当天
	StartTime                 string `json:"start_time"                  binding:"omitempty,hhmm"`    // "09:00"
	Notes                     string `json:"notes"                       binding:"max=2000"`
}

// AssignInstructorsRequest 指派讲师请求
// 三个槽位整体覆盖，缺省即清空
type AssignInstructorsRequest struct {
	IdentityInstructorID      *int64 `json:"identity_instructor_id"      binding:"omitempty,gt=0"`
	SecurityInstructorID      *int64 `json:"security_instructor_id"      binding:"omitempty,gt=0"`
	CommunicationInstructorID *int64 `json:"communication_instructor_id" binding:"omitempty,gt=0"`
}

// UpdateStatusRequest 变更状态请求
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePlanRequest 更新训练计划请求
type UpdatePlanRequest struct {
	Plan string `json:"plan"`
}

// TrainingRequestListRequest 训练申请列表查询
type TrainingRequestListRequest struct {
	UserID *int64 `form:"user_id" binding:"omitempty,gt=0"`
}

// AvailabilityRequest 占用查询
type AvailabilityRequest struct {
	Date string `form:"date" binding:"required,isodate"`
}

// ── 响应 ──

// UserBrief 申请人摘要
type UserBrief struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// InstructorBrief 讲师摘要
type InstructorBrief struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Rank string `json:"rank"`
}

// VenueBrief 场地摘要
type VenueBrief struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	RoomNumber string `json:"room_number"`
}

// TrainingRequestResponse 训练申请视图
// 讲师与副场地未指派时为 null
type TrainingRequestResponse struct {
	ID                      int64            `json:"id"`
	User                    *UserBrief       `json:"user"`
	IdentityInstructor      *InstructorBrief `json:"identity_instructor"`
	SecurityInstructor      *InstructorBrief `json:"security_instructor"`
	CommunicationInstructor *InstructorBrief `json:"communication_instructor"`
	Venue                   *VenueBrief      `json:"venue"`
	SecondVenue             *VenueBrief      `json:"second_venue"`
	TrainingType            string           `json:"training_type"`
	Fleet                   string           `json:"fleet"`
	RequestDate             string           `json:"request_date"`
	RequestEndDate          *string          `json:"request_end_date"`
	StartTime               *string          `json:"start_time"`
	Status                  string           `json:"status"`
	Notes                   string           `json:"notes"`
	Plan                    *string          `json:"plan"`
	CreatedAt               string           `json:"created_at"`
	UpdatedAt               string           `json:"updated_at"`
}

// AvailabilityResponse 指定日期的占用情况
// 两个列表均升序去重，空时序列化为 []
type AvailabilityResponse struct {
	Date                string  `json:"date"`
	BookedInstructorIDs []int64 `json:"booked_instructor_ids"`
	BookedVenueIDs      []int64 `json:"booked_venue_ids"`
}
