package models

import (
	"time"

	"gorm.io/gorm"
)

// VendingMachineStock 售货机库存镜像表
// 保存最近一次出货后各货道商品的本地库存快照，仅用于展示。
type VendingMachineStock struct {
	ID         uint           `gorm:"primarykey" json:"id"`                                           // 主键
	LocationID uint           `gorm:"index;not null;uniqueIndex:idx_stock_location_goods" json:"location_id"` // 售货点ID
	GoodsUUID  string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_stock_location_goods" json:"goods_uuid"` // 货道商品 UUID
	GoodsName  string         `gorm:"not null" json:"goods_name"` // 商品名称
	Quantity   int            `gorm:"not null;default:0" json:"quantity"` // 剩余数量
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`    // 创建时间
	UpdatedAt  time.Time      `gorm:"index" json:"updated_at"`    // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`             // 软删除时间
}

// TableName 指定表名
func (VendingMachineStock) TableName() string {
	return "vending_machine_stocks"
}
