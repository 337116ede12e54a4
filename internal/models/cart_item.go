package models

import (
	"time"

	"gorm.io/gorm"
)

// CartItem 购物车项表
type CartItem struct {
	ID          uint           `gorm:"primarykey" json:"id"`               // 主键
	CartID      uint           `gorm:"index;not null" json:"cart_id"`      // 购物车ID
	MenuItemID  uint           `gorm:"index;not null" json:"menu_item_id"` // 菜单项ID
	Quantity    int            `gorm:"not null" json:"quantity"`           // 数量
	UnitPrice   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 单价快照
	PlanType    string         `gorm:"index;not null" json:"plan_type"`    // 计划类型
	PlanSubType string         `gorm:"not null;default:'NONE'" json:"plan_sub_type"` // 计划子类型
	PickupType  string         `gorm:"not null" json:"pickup_type"`        // 取货时间类型
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`            // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`            // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                     // 软删除时间

	MenuItem *MenuItem `gorm:"foreignKey:MenuItemID" json:"menu_item,omitempty"` // 关联菜单项
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
