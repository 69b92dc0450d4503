package model

import "time"

// Venue 训练场地 — 对应 venues
type Venue struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"           json:"id"`
	Name       string    `gorm:"type:varchar(100);not null"         json:"name"`
	RoomNumber string    `gorm:"type:varchar(50)"                   json:"room_number"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (Venue) TableName() string { return "venues" }
