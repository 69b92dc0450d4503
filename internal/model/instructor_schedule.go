package model

import "time"

// ScheduleSource 讲师日程来源
type ScheduleSource string

const (
	SourceManual  ScheduleSource = "MANUAL"  // 管理员手动录入
	SourceRequest ScheduleSource = "REQUEST" // 训练申请审批通过后自动生成
)

// InstructorSchedule 讲师日程表 — 对应 instructor_schedules
// Source=REQUEST 时 RequestID 必填，Source=MANUAL 时 RequestID 必为空
type InstructorSchedule struct {
	ID           int64          `gorm:"primaryKey;autoIncrement"                    json:"id"`
	InstructorID int64          `gorm:"not null"                                    json:"instructor_id"`
	ScheduleDate time.Time      `gorm:"type:date;not null"                          json:"schedule_date"`
	EndDate      *time.Time     `gorm:"type:date"                                   json:"end_date,omitempty"`
	Description  string         `gorm:"type:varchar(200)"                           json:"description,omitempty"`
	Source       ScheduleSource `gorm:"type:varchar(20);not null;default:'MANUAL'"  json:"source"`
	RequestID    *int64         `json:"request_id,omitempty"`
	CreatedAt    time.Time      `gorm:"not null"                                    json:"created_at"`
}

// TableName 指定表名
func (InstructorSchedule) TableName() string { return "instructor_schedules" }

// LastDate 区间最后一天（含），无结束日期时即开始日期
func (s *InstructorSchedule) LastDate() time.Time {
	if s.EndDate != nil {
		return *s.EndDate
	}
	return s.ScheduleDate
}

// Covers 日程区间 [开始, 结束或开始] 是否包含 date
func (s *InstructorSchedule) Covers(date time.Time) bool {
	if s.ScheduleDate.Equal(date) {
		return true
	}
	return s.EndDate != nil && !s.ScheduleDate.After(date) && !s.EndDate.Before(date)
}

// Overlaps 日程区间是否与 [start, end] 相交
func (s *InstructorSchedule) Overlaps(start, end time.Time) bool {
	return !s.ScheduleDate.After(end) && !s.LastDate().Before(start)
}

// IsConsistent 来源与申请回链是否一致
func (s *InstructorSchedule) IsConsistent() bool {
	switch s.Source {
	case SourceRequest:
		return s.RequestID != nil
	case SourceManual:
		return s.RequestID == nil
	}
	return false
}
