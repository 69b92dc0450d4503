package model

import "time"

// Instructor 讲师 — 对应 instructors（档案维护不在本服务内）
type Instructor struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"           json:"id"`
	Name      string    `gorm:"type:varchar(100);not null"         json:"name"`
	Rank      string    `gorm:"type:varchar(50);not null"          json:"rank"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (Instructor) TableName() string { return "instructors" }
