package repository

import (
	"context"
	"testing"

	"github.com/built-mlm/internal/constants"
)

func TestGroupRepositoryMembership(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewGroupRepository(db)

	root := createRepositoryTestGroup(t, db, "root", 0)
	child := createRepositoryTestGroup(t, db, "child", root.ID)
	vendor := createRepositoryTestUser(t, db, "vendor@example.com", constants.RoleVendor)
	buyer := createRepositoryTestUser(t, db, "buyer@example.com")

	for _, userID := range []uint{buyer.ID, vendor.ID, vendor.ID} {
		if err := repo.AddMember(child.ID, userID); err != nil {
			t.Fatalf("add member failed: %v", err)
		}
	}

	members, err := repo.WithContext(context.Background()).ListMembers(child.ID)
	if err != nil {
		t.Fatalf("list members failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("duplicate membership should be ignored, got %d members", len(members))
	}
	if members[0].UserID != vendor.ID || !members[0].User.HasRole(constants.RoleVendor) {
		t.Fatalf("expected vendor first with roles loaded, got %+v", members[0])
	}

	ids, err := repo.ListUserGroupIDs(vendor.ID)
	if err != nil {
		t.Fatalf("list user groups failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != child.ID {
		t.Fatalf("unexpected group ids %v", ids)
	}

	if err := repo.RemoveMember(child.ID, vendor.ID); err != nil {
		t.Fatalf("remove member failed: %v", err)
	}
	ids, err = repo.ListUserGroupIDs(vendor.ID)
	if err != nil {
		t.Fatalf("list user groups failed: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no groups after removal, got %v", ids)
	}
}

func TestGroupRepositoryParentsAndChildren(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewGroupRepository(db)

	root := createRepositoryTestGroup(t, db, "root", 0)
	a := createRepositoryTestGroup(t, db, "a", root.ID)
	b := createRepositoryTestGroup(t, db, "b", root.ID)
	createRepositoryTestGroup(t, db, "a1", a.ID)

	got, err := repo.GetByID(a.ID)
	if err != nil || got == nil {
		t.Fatalf("get group failed: %v", err)
	}
	if got.ParentIDValue() != root.ID {
		t.Fatalf("expected parent %d, got %d", root.ID, got.ParentIDValue())
	}
	missing, err := repo.GetByID(9999)
	if err != nil || missing != nil {
		t.Fatalf("missing group should return nil, nil; got %v %v", missing, err)
	}

	children, err := repo.ListChildren([]uint{root.ID})
	if err != nil {
		t.Fatalf("list children failed: %v", err)
	}
	if len(children) != 2 || children[0].ID != a.ID || children[1].ID != b.ID {
		t.Fatalf("unexpected children %+v", children)
	}

	all, err := repo.List()
	if err != nil {
		t.Fatalf("list groups failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 groups, got %d", len(all))
	}
}
