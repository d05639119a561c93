package models

import "time"

// GroupMembership 用户与分组的直接成员关系
type GroupMembership struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	GroupID   uint      `gorm:"primaryKey;autoIncrement:false;index" json:"group_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (GroupMembership) TableName() string {
	return "group_memberships"
}
