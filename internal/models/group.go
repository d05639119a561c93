package models

import "time"

// Group 分组（分销树节点），父子关系构成森林
type Group struct {
	ID          uint      `gorm:"primarykey" json:"id"`                   // 主键
	ParentID    *uint     `gorm:"index" json:"parent_id"`                 // 父分组ID（根节点为空）
	Name        string    `gorm:"type:varchar(100);not null" json:"name"` // 分组名称
	Description string    `gorm:"type:varchar(255)" json:"description"`   // 描述
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                             // 更新时间
}

// TableName 指定表名
func (Group) TableName() string {
	return "mlm_groups"
}

// ParentIDValue 返回父分组ID，根节点返回 0
func (g Group) ParentIDValue() uint {
	if g.ParentID == nil {
		return 0
	}
	return *g.ParentID
}
