package mlm

import (
	"context"
	"fmt"
	"sort"

	"github.com/built-mlm/internal/constants"
)

// Tree 分销树查询：用户所属分销分组与分组的分销商
type Tree struct {
	dir Directory
	cfg Config
}

// NewTree 创建分销树查询
func NewTree(dir Directory, cfg Config) *Tree {
	return &Tree{dir: dir, cfg: cfg}
}

// Config 返回当前配置
func (t *Tree) Config() Config {
	if t == nil {
		return Config{}
	}
	return t.cfg
}

// ResolveVendorGroup 解析用户所在的分销分组：根分组严格下方、按分组ID升序的第一个直接分组
func (t *Tree) ResolveVendorGroup(ctx context.Context, userID uint) (uint, bool, error) {
	if t == nil || t.dir == nil || userID == 0 || t.cfg.RootGroupID == 0 {
		return 0, false, nil
	}
	root := t.cfg.RootGroupID

	deep, err := t.dir.ListUserGroupIDsDeep(ctx, userID)
	if err != nil {
		return 0, false, err
	}
	if !containsID(deep, root) {
		return 0, false, nil
	}

	direct, err := t.dir.ListUserGroupIDs(ctx, userID)
	if err != nil {
		return 0, false, err
	}
	for _, groupID := range sortedIDs(direct) {
		ok, err := t.hasStrictAncestor(ctx, groupID, root)
		if err != nil {
			return 0, false, err
		}
		if ok {
			return groupID, true, nil
		}
	}
	return 0, false, nil
}

// GroupVendorUser 返回分组中用户ID最小的分销商成员
func (t *Tree) GroupVendorUser(ctx context.Context, groupID uint) (uint, bool, error) {
	if t == nil || t.dir == nil || groupID == 0 {
		return 0, false, nil
	}
	members, err := t.dir.ListGroupMembers(ctx, groupID)
	if err != nil {
		return 0, false, err
	}
	sorted := make([]Member, len(members))
	copy(sorted, members)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].UserID < sorted[j].UserID })
	for _, member := range sorted {
		if member.UserID != 0 && member.HasRole(constants.RoleVendor) {
			return member.UserID, true, nil
		}
	}
	return 0, false, nil
}

// hasStrictAncestor 沿父链查找 ancestorID，不包含 groupID 自身
func (t *Tree) hasStrictAncestor(ctx context.Context, groupID, ancestorID uint) (bool, error) {
	group, err := t.dir.GetGroup(ctx, groupID)
	if err != nil {
		return false, err
	}
	if group == nil {
		return false, nil
	}
	maxDepth := t.cfg.maxDepth()
	visited := map[uint]struct{}{groupID: {}}
	steps := 0
	parentID := group.ParentID
	for parentID != 0 {
		if parentID == ancestorID {
			return true, nil
		}
		if _, seen := visited[parentID]; seen {
			return false, fmt.Errorf("%w: group %d revisited above group %d", ErrTreeCycle, parentID, groupID)
		}
		steps++
		if steps > maxDepth {
			return false, fmt.Errorf("%w: more than %d ancestors above group %d", ErrTreeDepthExceeded, maxDepth, groupID)
		}
		visited[parentID] = struct{}{}
		parent, err := t.dir.GetGroup(ctx, parentID)
		if err != nil {
			return false, err
		}
		if parent == nil {
			return false, nil
		}
		parentID = parent.ParentID
	}
	return false, nil
}

func containsID(ids []uint, target uint) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

func sortedIDs(ids []uint) []uint {
	out := make([]uint, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
