package models

import (
	"time"

	"gorm.io/gorm"
)

// MasterItem 主数据菜品表
// 菜单项通过规范化名称挂到主数据菜品上，主数据变更会同步到关联菜单项。
type MasterItem struct {
	ID             uint           `gorm:"primarykey" json:"id"`                          // 主键
	Name           string         `gorm:"not null" json:"name"`                          // 菜品名称
	NormalizedName string         `gorm:"uniqueIndex;not null" json:"normalized_name"`   // 规范化名称
	Price          Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 价格
	ImageURL       string         `gorm:"type:varchar(500)" json:"image_url"`            // 图片地址
	Description    string         `gorm:"type:text" json:"description"`                  // 描述
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                       // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间
}

// TableName 指定表名
func (MasterItem) TableName() string {
	return "master_items"
}
