package service

import (
	"context"
	"strings"

	"github.com/built-mlm/internal/logger"
	"github.com/built-mlm/internal/models"
	"github.com/built-mlm/internal/repository"
)

const groupNameMaxRune = 191

// GroupService 分组目录管理
type GroupService struct {
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
}

// NewGroupService 创建分组服务
func NewGroupService(groupRepo repository.GroupRepository, userRepo repository.UserRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo, userRepo: userRepo}
}

// CreateGroupInput 创建分组参数
type CreateGroupInput struct {
	Name        string
	Description string
	ParentID    uint
}

// List 平铺返回全部分组（供根分组选择）
func (s *GroupService) List(ctx context.Context) ([]models.Group, error) {
	return s.groupRepo.WithContext(ctx).List()
}

// Create 创建分组，父分组在创建时固定
func (s *GroupService) Create(ctx context.Context, input CreateGroupInput) (*models.Group, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrGroupNameRequired
	}
	if runes := []rune(name); len(runes) > groupNameMaxRune {
		name = string(runes[:groupNameMaxRune])
	}
	repo := s.groupRepo.WithContext(ctx)
	group := &models.Group{Name: name, Description: strings.TrimSpace(input.Description)}
	if input.ParentID != 0 {
		parent, err := repo.GetByID(input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrGroupParentNotFound
		}
		parentID := parent.ID
		group.ParentID = &parentID
	}
	if err := repo.Create(group); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Infow("group_created", "group_id", group.ID, "parent_id", input.ParentID)
	return group, nil
}

// AddMember 加入分组
func (s *GroupService) AddMember(ctx context.Context, groupID, userID uint) error {
	if err := s.ensureGroupAndUser(ctx, groupID, userID); err != nil {
		return err
	}
	return s.groupRepo.WithContext(ctx).AddMember(groupID, userID)
}

// RemoveMember 移出分组
func (s *GroupService) RemoveMember(ctx context.Context, groupID, userID uint) error {
	if err := s.ensureGroupAndUser(ctx, groupID, userID); err != nil {
		return err
	}
	return s.groupRepo.WithContext(ctx).RemoveMember(groupID, userID)
}

// ListMembers 分组成员
func (s *GroupService) ListMembers(ctx context.Context, groupID uint) ([]models.GroupMembership, error) {
	group, err := s.groupRepo.WithContext(ctx).GetByID(groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return s.groupRepo.WithContext(ctx).ListMembers(groupID)
}

func (s *GroupService) ensureGroupAndUser(ctx context.Context, groupID, userID uint) error {
	group, err := s.groupRepo.WithContext(ctx).GetByID(groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrGroupNotFound
	}
	user, err := s.userRepo.WithContext(ctx).GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return nil
}
