package model

import "time"

// RequestStatus 训练申请状态
type RequestStatus string

const (
	StatusPending         RequestStatus = "PENDING"
	StatusVenueCheck      RequestStatus = "VENUE_CHECK"
	StatusInstructorCheck RequestStatus = "INSTRUCTOR_CHECK"
	StatusApproved        RequestStatus = "APPROVED"
	StatusRejected        RequestStatus = "REJECTED"
	StatusCancelled       RequestStatus = "CANCELLED"
)

// statusConfirmed 旧前端使用的“已确认”字面量，与 APPROVED 视为同一状态
const statusConfirmed = "CONFIRMED"

// ParseRequestStatus 解析状态字面量
// CONFIRMED 归一为 APPROVED；未知字面量返回 false
func ParseRequestStatus(s string) (RequestStatus, bool) {
	switch RequestStatus(s) {
	case StatusPending, StatusVenueCheck, StatusInstructorCheck,
		StatusApproved, StatusRejected, StatusCancelled:
		return RequestStatus(s), true
	}
	if s == statusConfirmed {
		return StatusApproved, true
	}
	return "", false
}

// IsBookingEffective 是否占用讲师与场地
func (s RequestStatus) IsBookingEffective() bool {
	return s == StatusApproved
}

// IsWithdrawal 审批后撤回的目标状态
func (s RequestStatus) IsWithdrawal() bool {
	return s == StatusCancelled || s == StatusRejected
}

// TrainingRequest 训练申请表 — 对应 training_requests
type TrainingRequest struct {
	ID                        int64         `gorm:"primaryKey;autoIncrement"                     json:"id"`
	UserID                    int64         `gorm:"not null"                                     json:"user_id"`
	IdentityInstructorID      *int64        `json:"identity_instructor_id,omitempty"`
	SecurityInstructorID      *int64        `json:"security_instructor_id,omitempty"`
	CommunicationInstructorID *int64        `json:"communication_instructor_id,omitempty"`
	VenueID                   int64         `gorm:"not null"                                     json:"venue_id"`
	SecondVenueID             *int64        `json:"second_venue_id,omitempty"`
	TrainingType              string        `gorm:"type:varchar(20);not null"                    json:"training_type"`
	Fleet                     string        `gorm:"type:varchar(20);not null"                    json:"fleet"`
	RequestDate               time.Time     `gorm:"type:date;not null"                           json:"request_date"`
	RequestEndDate            *time.Time    `gorm:"type:date"                                    json:"request_end_date,omitempty"`
	StartTime                 *string       `gorm:"type:varchar(5)"                              json:"start_time,omitempty"`
	Status                    RequestStatus `gorm:"type:varchar(20);not null;default:'PENDING'"  json:"status"`
	Notes                     string        `gorm:"type:text"                                    json:"notes,omitempty"`
	Plan                      *string       `gorm:"type:text"                                    json:"plan,omitempty"`
	CreatedAt                 time.Time     `gorm:"not null"                                     json:"created_at"`
	UpdatedAt                 time.Time     `gorm:"not null"                                     json:"updated_at"`
}

// TableName 指定表名
func (TrainingRequest) TableName() string { return "training_requests" }

// InstructorIDs 三个讲师槽位中非空且去重后的讲师 ID，保持 身份→保安→通信 顺序
func (r *TrainingRequest) InstructorIDs() []int64 {
	ids := make([]int64, 0, 3)
	seen := make(map[int64]bool, 3)
	for _, p := range []*int64{r.IdentityInstructorID, r.SecurityInstructorID, r.CommunicationInstructorID} {
		if p == nil || seen[*p] {
			continue
		}
		seen[*p] = true
		ids = append(ids, *p)
	}
	return ids
}
