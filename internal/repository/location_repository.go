package repository

import (
	"errors"

	"github.com/alphadeveloper12/dosta-backend/internal/models"

	"gorm.io/gorm"
)

// LocationRepository 售货点数据访问接口
type LocationRepository interface {
	GetByID(id uint) (*models.VendingLocation, error)
	ListActive() ([]models.VendingLocation, error)
	Create(location *models.VendingLocation) error
	WithTx(tx *gorm.DB) *GormLocationRepository
}

// GormLocationRepository GORM 实现
type GormLocationRepository struct {
	db *gorm.DB
}

// NewLocationRepository 创建售货点仓库
func NewLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// WithTx 绑定事务
func (r *GormLocationRepository) WithTx(tx *gorm.DB) *GormLocationRepository {
	if tx == nil {
		return r
	}
	return &GormLocationRepository{db: tx}
}

// GetByID 按 ID 查询售货点
func (r *GormLocationRepository) GetByID(id uint) (*models.VendingLocation, error) {
	var location models.VendingLocation
	if err := r.db.First(&location, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &location, nil
}

// ListActive 查询启用中的售货点
func (r *GormLocationRepository) ListActive() ([]models.VendingLocation, error) {
	var locations []models.VendingLocation
	if err := r.db.Where("is_active = ?", true).Order("sort_order asc, id asc").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// Create 创建售货点
func (r *GormLocationRepository) Create(location *models.VendingLocation) error {
	return r.db.Create(location).Error
}
