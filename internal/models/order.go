package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID               uint           `gorm:"primarykey" json:"id"`                   // 主键
	OrderNo          string         `gorm:"uniqueIndex;not null" json:"order_no"`   // 订单编号
	UserID           uint           `gorm:"index;not null" json:"user_id"`          // 用户ID
	LocationID       uint           `gorm:"index;not null" json:"location_id"`      // 售货点ID
	TimeSlotID       *uint          `gorm:"index" json:"time_slot_id,omitempty"`    // 取货时段ID
	Status           string         `gorm:"index;not null" json:"status"`           // 订单状态
	FulfillmentState string         `gorm:"index;not null" json:"fulfillment_state"` // 履约状态
	CurrentStep      string         `gorm:"not null" json:"current_step"`           // 当前进度步骤
	PlanType         string         `gorm:"not null" json:"plan_type"`              // 订单级计划类型
	PlanSubType      string         `gorm:"not null;default:'NONE'" json:"plan_sub_type"` // 订单级计划子类型
	PickupType       string         `gorm:"not null" json:"pickup_type"`            // 取货时间类型
	TotalAmount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 实付金额
	PickupCode       string         `gorm:"type:varchar(64)" json:"pickup_code,omitempty"` // 取货码
	QRCodeURL        string         `gorm:"type:varchar(500)" json:"qr_code_url,omitempty"` // 取货二维码地址
	ConfirmedAt      *time.Time     `gorm:"index" json:"confirmed_at"`              // 确认时间
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`                // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间

	Items    []OrderItem      `gorm:"foreignKey:OrderID" json:"items,omitempty"`      // 订单项
	Location *VendingLocation `gorm:"foreignKey:LocationID" json:"location,omitempty"` // 关联售货点
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
