package model

import "time"

// User 申请人 — 对应 users
// 账号注册与审批由账号服务负责，这里只读取展示字段
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"           json:"id"`
	Name      string    `gorm:"type:varchar(100);not null"         json:"name"`
	Email     string    `gorm:"type:varchar(255);not null"         json:"email"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
