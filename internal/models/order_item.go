package models

import "time"

// OrderItem 订单项表
type OrderItem struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                     // 主键
	OrderID    uint      `gorm:"index;not null" json:"order_id"`                           // 订单ID
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`                   // 商品名称快照
	UnitPrice  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`  // 单价
	Quantity   int       `gorm:"not null" json:"quantity"`                                 // 数量
	TotalPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 小计（佣金计算基数）
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt  time.Time `json:"updated_at"`                                               // 更新时间

	Meta []OrderItemMeta `gorm:"foreignKey:OrderItemID" json:"meta,omitempty"` // 订单项元数据
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
