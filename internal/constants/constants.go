package constants

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 用户角色常量
const (
	RoleVendor   = "vendor"
	RoleCustomer = "customer"
)

// 用户元数据键（与原插件保持一致，便于迁移历史数据）
const (
	UserMetaCommissionRate  = "built_mlm_commission_rate"
	UserMetaPaypalEmail     = "built_mlm_paypal_email"
	UserMetaShopName        = "built_mlm_shop_name"
	UserMetaShopSlug        = "built_mlm_shop_slug"
	UserMetaShopDescription = "built_mlm_shop_description"
)

// 订单项元数据键
const (
	OrderItemMetaVendorUserID = "built_mlm_vendor_user_id"
	OrderItemMetaCommissions  = "built_mlm_commissions"
)

// 订单状态常量
const (
	OrderStatusPlaced    = "placed"
	OrderStatusCompleted = "completed"
	OrderStatusCanceled  = "canceled"
)

// 队列与任务
const (
	QueueDefault                = "default"
	QueueCritical               = "critical"
	TaskCommissionReportRefresh = "mlm:commission_report_refresh"
)

// 系统设置键与字段
const (
	SettingKeyMLMConfig         = "built_mlm_settings"
	SettingFieldRootGroupID     = "root_group_id"
	SettingFieldPermalinkBase   = "permalink_base"
	SettingFieldVendorsPageID   = "vendors_page_id"
	CacheKeyCommissionReport    = "mlm:report:commissions"
	DefaultCommissionReportTTL  = 600
	DefaultVendorTreeMaxDepth   = 32
	DefaultVendorListPageSize   = 8
	DefaultVendorListOrderBy    = "registered"
	DefaultVendorListOrderAsc   = "ASC"
	VendorListOrderByDisplayKey = "display_name"
)
