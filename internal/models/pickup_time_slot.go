package models

import (
	"time"

	"gorm.io/gorm"
)

// PickupTimeSlot 取货时段表
type PickupTimeSlot struct {
	ID         uint           `gorm:"primarykey" json:"id"`              // 主键
	LocationID uint           `gorm:"index;not null" json:"location_id"` // 售货点ID
	Label      string         `gorm:"not null" json:"label"`             // 展示文案，如 12:00 - 12:30
	StartTime  string         `gorm:"type:varchar(10);not null" json:"start_time"` // 开始时间 HH:MM
	EndTime    string         `gorm:"type:varchar(10);not null" json:"end_time"`   // 结束时间 HH:MM
	IsActive   bool           `gorm:"index;not null;default:true" json:"is_active"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"` // 创建时间
	UpdatedAt  time.Time      `gorm:"index" json:"updated_at"` // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`          // 软删除时间
}

// TableName 指定表名
func (PickupTimeSlot) TableName() string {
	return "pickup_time_slots"
}
