package service

import (
	"fmt"

	"github.com/alphadeveloper12/dosta-backend/internal/logger"
	"github.com/alphadeveloper12/dosta-backend/internal/models"
	"github.com/alphadeveloper12/dosta-backend/internal/repository"
)

// CatalogService 菜品主数据服务
// 菜单项通过规范化名称挂到主数据菜品上，主数据变更会推送到所有关联菜单项。
type CatalogService struct {
	masterItemRepo repository.MasterItemRepository
	menuItemRepo   repository.MenuItemRepository
}

// NewCatalogService 创建菜品主数据服务
func NewCatalogService(masterItemRepo repository.MasterItemRepository, menuItemRepo repository.MenuItemRepository) *CatalogService {
	return &CatalogService{
		masterItemRepo: masterItemRepo,
		menuItemRepo:   menuItemRepo,
	}
}

// LinkOrCreateMasterItem 按规范化名称挂接主数据菜品，不存在时创建
func (s *CatalogService) LinkOrCreateMasterItem(menuItem *models.MenuItem) (*models.MasterItem, error) {
	if menuItem == nil || menuItem.Name == "" {
		return nil, ErrMenuItemNotFound
	}
	normalized := NormalizeName(menuItem.Name)
	if normalized == "" {
		return nil, ErrMenuItemNotFound
	}

	master, err := s.masterItemRepo.GetByNormalizedName(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMenuItemNotFound, err)
	}
	if master == nil {
		master = &models.MasterItem{
			Name:           menuItem.Name,
			NormalizedName: normalized,
			Price:          menuItem.Price,
			ImageURL:       menuItem.ImageURL,
			Description:    menuItem.Description,
		}
		if err := s.masterItemRepo.Create(master); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMenuItemNotFound, err)
		}
	}

	if menuItem.ID != 0 {
		if err := s.menuItemRepo.Updates(menuItem.ID, map[string]interface{}{
			"master_item_id": master.ID,
		}); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMenuItemNotFound, err)
		}
	}
	menuItem.MasterItemID = &master.ID
	return master, nil
}

// PropagateMasterItem 将主数据菜品的名称、价格、图片同步到所有关联菜单项
func (s *CatalogService) PropagateMasterItem(masterItemID uint) (int, error) {
	master, err := s.masterItemRepo.GetByID(masterItemID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMenuItemNotFound, err)
	}
	if master == nil {
		return 0, ErrMenuItemNotFound
	}

	menuItems, err := s.menuItemRepo.ListByMasterItem(master.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMenuItemNotFound, err)
	}

	updated := 0
	for _, menuItem := range menuItems {
		if err := s.menuItemRepo.Updates(menuItem.ID, map[string]interface{}{
			"name":      master.Name,
			"price":     master.Price,
			"image_url": master.ImageURL,
		}); err != nil {
			logger.Warnw("catalog_propagate_item_failed",
				"master_item_id", master.ID, "menu_item_id", menuItem.ID, "error", err)
			continue
		}
		updated++
	}
	return updated, nil
}

// UpdateMasterItem 更新主数据菜品并同步关联菜单项
func (s *CatalogService) UpdateMasterItem(masterItemID uint, fields map[string]interface{}) (int, error) {
	if len(fields) == 0 {
		return 0, nil
	}
	if err := s.masterItemRepo.Updates(masterItemID, fields); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMenuItemNotFound, err)
	}
	return s.PropagateMasterItem(masterItemID)
}
