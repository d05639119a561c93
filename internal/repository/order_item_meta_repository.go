package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/built-mlm/internal/constants"
	"github.com/built-mlm/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderItemMetaRepository 订单项元数据访问接口
type OrderItemMetaRepository interface {
	Upsert(orderItemID uint, key, value string) error
	Get(orderItemID uint, key string) (*models.OrderItemMeta, error)
	ListByItemIDs(orderItemIDs []uint) ([]models.OrderItemMeta, error)
	ListValuesByKey(key string, afterID uint, limit int) ([]models.OrderItemMeta, error)
	ListVendorLineItems(vendorIDs []uint) ([]VendorLineItemRow, error)
	WithTx(tx *gorm.DB) OrderItemMetaRepository
	WithContext(ctx context.Context) OrderItemMetaRepository
}

// GormOrderItemMetaRepository GORM 实现
type GormOrderItemMetaRepository struct {
	db *gorm.DB
}

// NewOrderItemMetaRepository 创建订单项元数据仓库
func NewOrderItemMetaRepository(db *gorm.DB) *GormOrderItemMetaRepository {
	return &GormOrderItemMetaRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderItemMetaRepository) WithTx(tx *gorm.DB) OrderItemMetaRepository {
	if tx == nil {
		return r
	}
	return &GormOrderItemMetaRepository{db: tx}
}

// WithContext 绑定请求上下文
func (r *GormOrderItemMetaRepository) WithContext(ctx context.Context) OrderItemMetaRepository {
	if ctx == nil {
		return r
	}
	return &GormOrderItemMetaRepository{db: r.db.WithContext(ctx)}
}

// Upsert 写入元数据，同一订单项同一键覆盖旧值
func (r *GormOrderItemMetaRepository) Upsert(orderItemID uint, key, value string) error {
	now := time.Now()
	meta := models.OrderItemMeta{
		OrderItemID: orderItemID,
		MetaKey:     key,
		MetaValue:   value,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_item_id"}, {Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_value", "updated_at"}),
	}).Create(&meta).Error
}

// Get 获取单个元数据，不存在返回 nil
func (r *GormOrderItemMetaRepository) Get(orderItemID uint, key string) (*models.OrderItemMeta, error) {
	var meta models.OrderItemMeta
	if err := r.db.Where("order_item_id = ? AND meta_key = ?", orderItemID, key).First(&meta).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meta, nil
}

// ListByItemIDs 批量获取订单项元数据
func (r *GormOrderItemMetaRepository) ListByItemIDs(orderItemIDs []uint) ([]models.OrderItemMeta, error) {
	rows := make([]models.OrderItemMeta, 0)
	if len(orderItemIDs) == 0 {
		return rows, nil
	}
	if err := r.db.Where("order_item_id IN ?", orderItemIDs).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListValuesByKey 按主键游标分批读取某个键的全部元数据
func (r *GormOrderItemMetaRepository) ListValuesByKey(key string, afterID uint, limit int) ([]models.OrderItemMeta, error) {
	rows := make([]models.OrderItemMeta, 0)
	query := r.db.Where("meta_key = ? AND id > ?", key, afterID).Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListVendorLineItems 查询售出分销商在给定集合中的订单项及其佣金快照
func (r *GormOrderItemMetaRepository) ListVendorLineItems(vendorIDs []uint) ([]VendorLineItemRow, error) {
	rows := make([]VendorLineItemRow, 0)
	if len(vendorIDs) == 0 {
		return rows, nil
	}
	values := make([]string, 0, len(vendorIDs))
	for _, id := range vendorIDs {
		values = append(values, strconv.FormatUint(uint64(id), 10))
	}
	err := r.db.Table("order_item_meta AS vendor_meta").
		Select(`vendor_meta.order_item_id AS order_item_id,
			order_items.order_id AS order_id,
			orders.order_no AS order_no,
			orders.created_at AS order_created_at,
			order_items.name AS item_name,
			vendor_meta.meta_value AS vendor_user_id,
			COALESCE(commission_meta.meta_value, '') AS commissions`).
		Joins("JOIN order_items ON order_items.id = vendor_meta.order_item_id").
		Joins("JOIN orders ON orders.id = order_items.order_id AND orders.deleted_at IS NULL").
		Joins("LEFT JOIN order_item_meta AS commission_meta ON commission_meta.order_item_id = vendor_meta.order_item_id AND commission_meta.meta_key = ?", constants.OrderItemMetaCommissions).
		Where("vendor_meta.meta_key = ? AND vendor_meta.meta_value IN ?", constants.OrderItemMetaVendorUserID, values).
		Order("orders.created_at DESC").
		Order("vendor_meta.order_item_id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
