package repository

import (
	"errors"

	"github.com/alphadeveloper12/dosta-backend/internal/models"

	"gorm.io/gorm"
)

// TimeSlotRepository 取货时段数据访问接口
type TimeSlotRepository interface {
	GetByID(id uint) (*models.PickupTimeSlot, error)
	ListByLocation(locationID uint) ([]models.PickupTimeSlot, error)
	Create(slot *models.PickupTimeSlot) error
	WithTx(tx *gorm.DB) *GormTimeSlotRepository
}

// GormTimeSlotRepository GORM 实现
type GormTimeSlotRepository struct {
	db *gorm.DB
}

// NewTimeSlotRepository 创建取货时段仓库
func NewTimeSlotRepository(db *gorm.DB) *GormTimeSlotRepository {
	return &GormTimeSlotRepository{db: db}
}

// WithTx 绑定事务
func (r *GormTimeSlotRepository) WithTx(tx *gorm.DB) *GormTimeSlotRepository {
	if tx == nil {
		return r
	}
	return &GormTimeSlotRepository{db: tx}
}

// GetByID 按 ID 查询取货时段
func (r *GormTimeSlotRepository) GetByID(id uint) (*models.PickupTimeSlot, error) {
	var slot models.PickupTimeSlot
	if err := r.db.First(&slot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

// ListByLocation 查询售货点下启用的取货时段
func (r *GormTimeSlotRepository) ListByLocation(locationID uint) ([]models.PickupTimeSlot, error) {
	var slots []models.PickupTimeSlot
	if err := r.db.Where("location_id = ? AND is_active = ?", locationID, true).Order("start_time asc").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// Create 创建取货时段
func (r *GormTimeSlotRepository) Create(slot *models.PickupTimeSlot) error {
	return r.db.Create(slot).Error
}
