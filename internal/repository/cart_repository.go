package repository

import (
	"errors"

	"github.com/alphadeveloper12/dosta-backend/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetOrCreateByUser(userID uint) (*models.Cart, error)
	GetByUser(userID uint) (*models.Cart, error)
	ReplaceItemsByPlanType(cartID uint, planType string, items []models.CartItem) error
	UpdateTotal(cartID uint, total models.Money) error
	ClearItems(cartID uint) error
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetOrCreateByUser 获取用户购物车，不存在则创建
func (r *GormCartRepository) GetOrCreateByUser(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items").Preload("Items.MenuItem").Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		if err := r.db.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetByUser 获取用户购物车
func (r *GormCartRepository) GetByUser(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items").Preload("Items.MenuItem").Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// ReplaceItemsByPlanType 替换同计划类型的购物车项
func (r *GormCartRepository) ReplaceItemsByPlanType(cartID uint, planType string, items []models.CartItem) error {
	if err := r.db.Where("cart_id = ? AND plan_type = ?", cartID, planType).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].CartID = cartID
	}
	return r.db.Create(&items).Error
}

// UpdateTotal 更新购物车合计金额
func (r *GormCartRepository) UpdateTotal(cartID uint, total models.Money) error {
	return r.db.Model(&models.Cart{}).Where("id = ?", cartID).Update("total_amount", total).Error
}

// ClearItems 清空购物车项
func (r *GormCartRepository) ClearItems(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}
