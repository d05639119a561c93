package models

import "time"

// UserMeta 用户元数据（分销佣金比例、店铺资料等）
type UserMeta struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_meta_key" json:"user_id"`
	MetaKey   string    `gorm:"type:varchar(191);not null;uniqueIndex:idx_user_meta_key;index" json:"meta_key"`
	MetaValue string    `gorm:"type:text" json:"meta_value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (UserMeta) TableName() string {
	return "user_meta"
}
