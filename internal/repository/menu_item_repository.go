package repository

import (
	"errors"
	"strings"

	"github.com/alphadeveloper12/dosta-backend/internal/models"

	"gorm.io/gorm"
)

// MenuItemRepository 菜单项数据访问接口
type MenuItemRepository interface {
	GetByID(id uint) (*models.MenuItem, error)
	GetByIDs(ids []uint) ([]models.MenuItem, error)
	List(filter MenuItemListFilter) ([]models.MenuItem, int64, error)
	ListByMasterItem(masterItemID uint) ([]models.MenuItem, error)
	Create(item *models.MenuItem) error
	Updates(id uint, fields map[string]interface{}) error
	WithTx(tx *gorm.DB) *GormMenuItemRepository
}

// GormMenuItemRepository GORM 实现
type GormMenuItemRepository struct {
	db *gorm.DB
}

// NewMenuItemRepository 创建菜单项仓库
func NewMenuItemRepository(db *gorm.DB) *GormMenuItemRepository {
	return &GormMenuItemRepository{db: db}
}

// WithTx 绑定事务
func (r *GormMenuItemRepository) WithTx(tx *gorm.DB) *GormMenuItemRepository {
	if tx == nil {
		return r
	}
	return &GormMenuItemRepository{db: tx}
}

// GetByID 按 ID 查询菜单项
func (r *GormMenuItemRepository) GetByID(id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetByIDs 批量查询菜单项
func (r *GormMenuItemRepository) GetByIDs(ids []uint) ([]models.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.MenuItem
	if err := r.db.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// List 查询菜单项列表
func (r *GormMenuItemRepository) List(filter MenuItemListFilter) ([]models.MenuItem, int64, error) {
	query := r.db.Model(&models.MenuItem{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.MenuItem
	if err := applyPagination(query.Order("id asc"), filter.Page, filter.PageSize).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByMasterItem 查询挂在主数据菜品下的菜单项
func (r *GormMenuItemRepository) ListByMasterItem(masterItemID uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.db.Where("master_item_id = ?", masterItemID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Create 创建菜单项
func (r *GormMenuItemRepository) Create(item *models.MenuItem) error {
	return r.db.Create(item).Error
}

// Updates 更新菜单项字段
func (r *GormMenuItemRepository) Updates(id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.MenuItem{}).Where("id = ?", id).Updates(fields).Error
}
