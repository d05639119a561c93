package repository

import "time"

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Status      string
	Role        string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// VendorShopListFilter 查询已开店分销商列表的过滤条件
type VendorShopListFilter struct {
	Page     int
	PageSize int
	OrderBy  string // registered / display_name
	Desc     bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	Status   string
}

// VendorLineItemRow 分销商订单项行（订单项 + 订单 + 佣金快照）
type VendorLineItemRow struct {
	OrderItemID    uint
	OrderID        uint
	OrderNo        string
	OrderCreatedAt time.Time
	ItemName       string
	VendorUserID   string
	Commissions    string
}
