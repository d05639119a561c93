package mlm

import (
	"context"

	"github.com/shopspring/decimal"
)

// Group 分组节点
type Group struct {
	ID       uint
	ParentID uint // 0 表示无父分组
	Name     string
}

// Member 分组成员
type Member struct {
	UserID      uint
	DisplayName string
	Roles       []string
}

// HasRole 判断成员是否拥有角色
func (m Member) HasRole(role string) bool {
	for _, r := range m.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Directory 分组目录与用户元数据的只读视图
type Directory interface {
	// GetGroup 获取分组，不存在返回 nil
	GetGroup(ctx context.Context, id uint) (*Group, error)
	// ListGroupMembers 获取分组的直接成员
	ListGroupMembers(ctx context.Context, groupID uint) ([]Member, error)
	// ListUserGroupIDs 获取用户直接所属分组
	ListUserGroupIDs(ctx context.Context, userID uint) ([]uint, error)
	// ListUserGroupIDsDeep 获取用户直接所属分组及其全部祖先
	ListUserGroupIDsDeep(ctx context.Context, userID uint) ([]uint, error)
	// GetCommissionRate 获取用户佣金比例，未设置或无法解析返回 0
	GetCommissionRate(ctx context.Context, userID uint) (decimal.Decimal, error)
}
