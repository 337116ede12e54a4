package repository

import (
	"errors"

	"github.com/alphadeveloper12/dosta-backend/internal/models"

	"gorm.io/gorm"
)

// MasterItemRepository 主数据菜品数据访问接口
type MasterItemRepository interface {
	GetByID(id uint) (*models.MasterItem, error)
	GetByNormalizedName(name string) (*models.MasterItem, error)
	Create(item *models.MasterItem) error
	Updates(id uint, fields map[string]interface{}) error
	WithTx(tx *gorm.DB) *GormMasterItemRepository
}

// GormMasterItemRepository GORM 实现
type GormMasterItemRepository struct {
	db *gorm.DB
}

// NewMasterItemRepository 创建主数据菜品仓库
func NewMasterItemRepository(db *gorm.DB) *GormMasterItemRepository {
	return &GormMasterItemRepository{db: db}
}

// WithTx 绑定事务
func (r *GormMasterItemRepository) WithTx(tx *gorm.DB) *GormMasterItemRepository {
	if tx == nil {
		return r
	}
	return &GormMasterItemRepository{db: tx}
}

// GetByID 按 ID 查询主数据菜品
func (r *GormMasterItemRepository) GetByID(id uint) (*models.MasterItem, error) {
	var item models.MasterItem
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetByNormalizedName 按规范化名称查询主数据菜品
func (r *GormMasterItemRepository) GetByNormalizedName(name string) (*models.MasterItem, error) {
	var item models.MasterItem
	if err := r.db.Where("normalized_name = ?", name).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create 创建主数据菜品
func (r *GormMasterItemRepository) Create(item *models.MasterItem) error {
	return r.db.Create(item).Error
}

// Updates 更新主数据菜品字段
func (r *GormMasterItemRepository) Updates(id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.MasterItem{}).Where("id = ?", id).Updates(fields).Error
}
