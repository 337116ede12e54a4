package repository

import "time"

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	LocationID  uint
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// MenuItemListFilter 查询菜单项列表的过滤条件
type MenuItemListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}
