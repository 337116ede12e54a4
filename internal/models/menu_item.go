package models

import (
	"time"

	"gorm.io/gorm"
)

// MenuItem 菜单项表
type MenuItem struct {
	ID           uint           `gorm:"primarykey" json:"id"`                          // 主键
	MasterItemID *uint          `gorm:"index" json:"master_item_id,omitempty"`         // 关联主数据菜品ID
	Name         string         `gorm:"not null" json:"name"`                          // 菜品名称
	Price        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 价格
	ImageURL     string         `gorm:"type:varchar(500)" json:"image_url"`            // 图片地址
	Description  string         `gorm:"type:text" json:"description"`                  // 描述
	Heated       bool           `gorm:"not null;default:false" json:"heated"`          // 是否需要加热
	IsActive     bool           `gorm:"index;not null;default:true" json:"is_active"`  // 是否上架
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                       // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间
}

// TableName 指定表名
func (MenuItem) TableName() string {
	return "menu_items"
}
