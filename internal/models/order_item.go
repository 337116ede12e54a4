package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单项表
type OrderItem struct {
	ID          uint           `gorm:"primarykey" json:"id"`                 // 主键
	OrderID     uint           `gorm:"index;not null" json:"order_id"`       // 订单ID
	MenuItemID  uint           `gorm:"index;not null" json:"menu_item_id"`   // 菜单项ID
	Name        string         `gorm:"not null" json:"name"`                 // 菜品名称快照
	UnitPrice   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 单价
	Quantity    int            `gorm:"not null" json:"quantity"`             // 数量
	PlanType    string         `gorm:"not null" json:"plan_type"`            // 计划类型
	PlanSubType string         `gorm:"not null;default:'NONE'" json:"plan_sub_type"` // 计划子类型
	PickupType  string         `gorm:"not null" json:"pickup_type"`          // 取货时间类型
	GoodsUUID   string         `gorm:"index;type:varchar(64)" json:"goods_uuid,omitempty"` // 已解析的售货机货道商品 UUID
	Heated      bool           `gorm:"not null;default:false" json:"heated"` // 是否加热
	Fulfilled   bool           `gorm:"not null;default:false" json:"fulfilled"` // 是否已出货
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`              // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`              // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                       // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
