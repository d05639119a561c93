package mlm

import (
	"context"
	"errors"

	"github.com/built-mlm/internal/constants"

	"github.com/shopspring/decimal"
)

type memoryDirectory struct {
	groups     map[uint]*Group
	members    map[uint][]Member
	userGroups map[uint][]uint
	rates      map[uint]decimal.Decimal
	failRates  bool
}

func newMemoryDirectory() *memoryDirectory {
	return &memoryDirectory{
		groups:     make(map[uint]*Group),
		members:    make(map[uint][]Member),
		userGroups: make(map[uint][]uint),
		rates:      make(map[uint]decimal.Decimal),
	}
}

func (d *memoryDirectory) addGroup(id, parentID uint) {
	d.groups[id] = &Group{ID: id, ParentID: parentID}
}

func (d *memoryDirectory) join(userID, groupID uint, vendor bool) {
	roles := []string{constants.RoleCustomer}
	if vendor {
		roles = []string{constants.RoleVendor}
	}
	d.members[groupID] = append(d.members[groupID], Member{UserID: userID, Roles: roles})
	d.userGroups[userID] = append(d.userGroups[userID], groupID)
}

func (d *memoryDirectory) setRate(userID uint, rate string) {
	d.rates[userID] = decimal.RequireFromString(rate)
}

func (d *memoryDirectory) GetGroup(_ context.Context, id uint) (*Group, error) {
	group, ok := d.groups[id]
	if !ok {
		return nil, nil
	}
	copied := *group
	return &copied, nil
}

func (d *memoryDirectory) ListGroupMembers(_ context.Context, groupID uint) ([]Member, error) {
	return d.members[groupID], nil
}

func (d *memoryDirectory) ListUserGroupIDs(_ context.Context, userID uint) ([]uint, error) {
	return d.userGroups[userID], nil
}

func (d *memoryDirectory) ListUserGroupIDsDeep(_ context.Context, userID uint) ([]uint, error) {
	seen := make(map[uint]struct{})
	out := make([]uint, 0)
	for _, groupID := range d.userGroups[userID] {
		current := groupID
		for current != 0 {
			if _, ok := seen[current]; ok {
				break
			}
			seen[current] = struct{}{}
			out = append(out, current)
			group, ok := d.groups[current]
			if !ok {
				break
			}
			current = group.ParentID
		}
	}
	return out, nil
}

var errRateStore = errors.New("rate store unavailable")

func (d *memoryDirectory) GetCommissionRate(_ context.Context, userID uint) (decimal.Decimal, error) {
	if d.failRates {
		return decimal.Zero, errRateStore
	}
	rate, ok := d.rates[userID]
	if !ok {
		return decimal.Zero, nil
	}
	return rate, nil
}
