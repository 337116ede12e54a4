package repository

import (
	"errors"

	"github.com/alphadeveloper12/dosta-backend/internal/models"

	"gorm.io/gorm"
)

// MachineStockRepository 售货机库存镜像数据访问接口
type MachineStockRepository interface {
	GetByLocationAndGoods(locationID uint, goodsUUID string) (*models.VendingMachineStock, error)
	ListByLocation(locationID uint) ([]models.VendingMachineStock, error)
	Upsert(stock *models.VendingMachineStock) error
	DecrementClamped(locationID uint, goodsUUID string, quantity int) error
	WithTx(tx *gorm.DB) *GormMachineStockRepository
}

// GormMachineStockRepository GORM 实现
type GormMachineStockRepository struct {
	db *gorm.DB
}

// NewMachineStockRepository 创建售货机库存镜像仓库
func NewMachineStockRepository(db *gorm.DB) *GormMachineStockRepository {
	return &GormMachineStockRepository{db: db}
}

// WithTx 绑定事务
func (r *GormMachineStockRepository) WithTx(tx *gorm.DB) *GormMachineStockRepository {
	if tx == nil {
		return r
	}
	return &GormMachineStockRepository{db: tx}
}

// GetByLocationAndGoods 查询某售货点某货道商品的镜像库存
func (r *GormMachineStockRepository) GetByLocationAndGoods(locationID uint, goodsUUID string) (*models.VendingMachineStock, error) {
	var stock models.VendingMachineStock
	err := r.db.Where("location_id = ? AND goods_uuid = ?", locationID, goodsUUID).First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

// ListByLocation 查询售货点的镜像库存
func (r *GormMachineStockRepository) ListByLocation(locationID uint) ([]models.VendingMachineStock, error) {
	var stocks []models.VendingMachineStock
	if err := r.db.Where("location_id = ?", locationID).Order("goods_name asc").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// Upsert 写入或更新镜像库存
func (r *GormMachineStockRepository) Upsert(stock *models.VendingMachineStock) error {
	if stock == nil {
		return nil
	}
	var existing models.VendingMachineStock
	err := r.db.Where("location_id = ? AND goods_uuid = ?", stock.LocationID, stock.GoodsUUID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(stock).Error
	}
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		"goods_name": stock.GoodsName,
		"quantity":   stock.Quantity,
	}
	return r.db.Model(&existing).Updates(updates).Error
}

// DecrementClamped 扣减镜像库存，下限为 0
func (r *GormMachineStockRepository) DecrementClamped(locationID uint, goodsUUID string, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	return r.db.Model(&models.VendingMachineStock{}).
		Where("location_id = ? AND goods_uuid = ?", locationID, goodsUUID).
		Update("quantity", gorm.Expr("CASE WHEN quantity > ? THEN quantity - ? ELSE 0 END", quantity, quantity)).Error
}
