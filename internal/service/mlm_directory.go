package service

import (
	"context"
	"strings"

	"github.com/built-mlm/internal/constants"
	"github.com/built-mlm/internal/logger"
	"github.com/built-mlm/internal/mlm"
	"github.com/built-mlm/internal/repository"

	"github.com/shopspring/decimal"
)

// RepositoryDirectory 基于数据库仓库的分组目录
type RepositoryDirectory struct {
	groupRepo    repository.GroupRepository
	userMetaRepo repository.UserMetaRepository
	maxDepth     int
}

// NewRepositoryDirectory 创建分组目录
func NewRepositoryDirectory(groupRepo repository.GroupRepository, userMetaRepo repository.UserMetaRepository, maxDepth int) *RepositoryDirectory {
	if maxDepth <= 0 {
		maxDepth = mlm.DefaultMaxDepth
	}
	return &RepositoryDirectory{groupRepo: groupRepo, userMetaRepo: userMetaRepo, maxDepth: maxDepth}
}

// GetGroup 获取分组
func (d *RepositoryDirectory) GetGroup(ctx context.Context, id uint) (*mlm.Group, error) {
	group, err := d.groupRepo.WithContext(ctx).GetByID(id)
	if err != nil || group == nil {
		return nil, err
	}
	return &mlm.Group{ID: group.ID, ParentID: group.ParentIDValue(), Name: group.Name}, nil
}

// ListGroupMembers 获取分组成员
func (d *RepositoryDirectory) ListGroupMembers(ctx context.Context, groupID uint) ([]mlm.Member, error) {
	rows, err := d.groupRepo.WithContext(ctx).ListMembers(groupID)
	if err != nil {
		return nil, err
	}
	members := make([]mlm.Member, 0, len(rows))
	for _, row := range rows {
		if row.User.ID == 0 {
			continue
		}
		members = append(members, mlm.Member{
			UserID:      row.UserID,
			DisplayName: row.User.DisplayName,
			Roles:       []string(row.User.Roles),
		})
	}
	return members, nil
}

// ListUserGroupIDs 获取用户直接所属分组
func (d *RepositoryDirectory) ListUserGroupIDs(ctx context.Context, userID uint) ([]uint, error) {
	return d.groupRepo.WithContext(ctx).ListUserGroupIDs(userID)
}

// ListUserGroupIDsDeep 获取直接分组及全部祖先（遇到环或超出深度时停止向上）
func (d *RepositoryDirectory) ListUserGroupIDsDeep(ctx context.Context, userID uint) ([]uint, error) {
	repo := d.groupRepo.WithContext(ctx)
	direct, err := repo.ListUserGroupIDs(userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[uint]struct{}, len(direct))
	result := make([]uint, 0, len(direct))
	for _, groupID := range direct {
		current := groupID
		for steps := 0; current != 0 && steps <= d.maxDepth; steps++ {
			if _, ok := seen[current]; ok {
				break
			}
			seen[current] = struct{}{}
			result = append(result, current)
			group, err := repo.GetByID(current)
			if err != nil {
				return nil, err
			}
			if group == nil {
				break
			}
			current = group.ParentIDValue()
		}
	}
	return result, nil
}

// GetCommissionRate 读取佣金比例，未设置或无法解析时为 0
func (d *RepositoryDirectory) GetCommissionRate(ctx context.Context, userID uint) (decimal.Decimal, error) {
	meta, err := d.userMetaRepo.WithContext(ctx).Get(userID, constants.UserMetaCommissionRate)
	if err != nil {
		return decimal.Zero, err
	}
	if meta == nil {
		return decimal.Zero, nil
	}
	return parseCommissionRate(ctx, userID, meta.MetaValue), nil
}

func parseCommissionRate(ctx context.Context, userID uint, raw string) decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero
	}
	rate, err := decimal.NewFromString(trimmed)
	if err != nil {
		logger.Ctx(ctx).Debugw("commission_rate_unparsable", "user_id", userID, "value", raw)
		return decimal.Zero
	}
	return rate
}
