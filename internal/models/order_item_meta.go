package models

import "time"

// OrderItemMeta 订单项元数据（佣金快照等），同一订单项同一键只保留一行
type OrderItemMeta struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	OrderItemID uint      `gorm:"not null;uniqueIndex:idx_order_item_meta_key" json:"order_item_id"`
	MetaKey     string    `gorm:"type:varchar(191);not null;uniqueIndex:idx_order_item_meta_key;index" json:"meta_key"`
	MetaValue   string    `gorm:"type:text" json:"meta_value"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 指定表名
func (OrderItemMeta) TableName() string {
	return "order_item_meta"
}
