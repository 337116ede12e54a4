package models

import (
	"time"

	"gorm.io/gorm"
)

// Cart 购物车表（每个用户一条）
type Cart struct {
	ID          uint           `gorm:"primarykey" json:"id"`              // 主键
	UserID      uint           `gorm:"uniqueIndex;not null" json:"user_id"` // 用户ID
	TotalAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 合计金额
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`           // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`           // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                    // 软删除时间

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}
