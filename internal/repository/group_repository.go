package repository

import (
	"context"
	"errors"

	"github.com/built-mlm/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GroupRepository 分组与成员关系数据访问接口
type GroupRepository interface {
	GetByID(id uint) (*models.Group, error)
	List() ([]models.Group, error)
	ListChildren(parentIDs []uint) ([]models.Group, error)
	Create(group *models.Group) error
	AddMember(groupID, userID uint) error
	RemoveMember(groupID, userID uint) error
	ListMembers(groupID uint) ([]models.GroupMembership, error)
	ListMembersByGroupIDs(groupIDs []uint) ([]models.GroupMembership, error)
	ListUserGroupIDs(userID uint) ([]uint, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) GroupRepository
	WithContext(ctx context.Context) GroupRepository
}

// GormGroupRepository GORM 实现
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository 创建分组仓库
func NewGroupRepository(db *gorm.DB) *GormGroupRepository {
	return &GormGroupRepository{db: db}
}

// WithTx 绑定事务
func (r *GormGroupRepository) WithTx(tx *gorm.DB) GroupRepository {
	if tx == nil {
		return r
	}
	return &GormGroupRepository{db: tx}
}

// WithContext 绑定请求上下文
func (r *GormGroupRepository) WithContext(ctx context.Context) GroupRepository {
	if ctx == nil {
		return r
	}
	return &GormGroupRepository{db: r.db.WithContext(ctx)}
}

// Transaction 执行事务
func (r *GormGroupRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// GetByID 根据 ID 获取分组
func (r *GormGroupRepository) GetByID(id uint) (*models.Group, error) {
	if id == 0 {
		return nil, nil
	}
	var group models.Group
	if err := r.db.First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

// List 获取全部分组（按 ID 升序）
func (r *GormGroupRepository) List() ([]models.Group, error) {
	groups := make([]models.Group, 0)
	if err := r.db.Order("id ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// ListChildren 获取指定父分组的直接子分组
func (r *GormGroupRepository) ListChildren(parentIDs []uint) ([]models.Group, error) {
	groups := make([]models.Group, 0)
	if len(parentIDs) == 0 {
		return groups, nil
	}
	if err := r.db.Where("parent_id IN ?", parentIDs).Order("id ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// Create 创建分组
func (r *GormGroupRepository) Create(group *models.Group) error {
	return r.db.Create(group).Error
}

// AddMember 添加成员（已存在时忽略）
func (r *GormGroupRepository) AddMember(groupID, userID uint) error {
	membership := models.GroupMembership{GroupID: groupID, UserID: userID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Omit("User").Create(&membership).Error
}

// RemoveMember 移除成员
func (r *GormGroupRepository) RemoveMember(groupID, userID uint) error {
	return r.db.Where("group_id = ? AND user_id = ?", groupID, userID).Delete(&models.GroupMembership{}).Error
}

// ListMembers 获取分组直接成员（含用户信息，按用户 ID 升序）
func (r *GormGroupRepository) ListMembers(groupID uint) ([]models.GroupMembership, error) {
	return r.ListMembersByGroupIDs([]uint{groupID})
}

// ListMembersByGroupIDs 批量获取多个分组的成员
func (r *GormGroupRepository) ListMembersByGroupIDs(groupIDs []uint) ([]models.GroupMembership, error) {
	members := make([]models.GroupMembership, 0)
	if len(groupIDs) == 0 {
		return members, nil
	}
	err := r.db.Preload("User").
		Where("group_id IN ?", groupIDs).
		Order("group_id ASC").
		Order("user_id ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// ListUserGroupIDs 获取用户直接所属分组 ID（升序）
func (r *GormGroupRepository) ListUserGroupIDs(userID uint) ([]uint, error) {
	ids := make([]uint, 0)
	if userID == 0 {
		return ids, nil
	}
	err := r.db.Model(&models.GroupMembership{}).
		Where("user_id = ?", userID).
		Order("group_id ASC").
		Pluck("group_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
