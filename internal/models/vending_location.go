package models

import (
	"time"

	"gorm.io/gorm"
)

// VendingLocation 售货点表
type VendingLocation struct {
	ID          uint           `gorm:"primarykey" json:"id"`                     // 主键
	Name        string         `gorm:"not null" json:"name"`                     // 售货点名称
	Address     string         `gorm:"type:varchar(255)" json:"address"`         // 地址
	MachineUUID string         `gorm:"uniqueIndex;not null" json:"machine_uuid"` // 售货机设备 UUID
	IsActive    bool           `gorm:"index;not null;default:true" json:"is_active"`
	SortOrder   int            `gorm:"not null;default:0" json:"sort_order"` // 排序值
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`              // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`              // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                       // 软删除时间

	TimeSlots []PickupTimeSlot `gorm:"foreignKey:LocationID" json:"time_slots,omitempty"` // 取货时段
}

// TableName 指定表名
func (VendingLocation) TableName() string {
	return "vending_locations"
}
