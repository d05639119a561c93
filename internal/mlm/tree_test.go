package mlm

import (
	"context"
	"errors"
	"testing"
)

func TestResolveVendorGroupPicksLowestDirectGroupUnderRoot(t *testing.T) {
	dir := newMemoryDirectory()
	dir.addGroup(1, 0)
	dir.addGroup(4, 1)
	dir.addGroup(7, 1)
	dir.addGroup(9, 0)
	// 按降序写入，结果仍应按升序选择
	dir.join(50, 9, true)
	dir.join(50, 7, true)
	dir.join(50, 4, true)

	tree := NewTree(dir, Config{RootGroupID: 1})
	groupID, ok, err := tree.ResolveVendorGroup(context.Background(), 50)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !ok || groupID != 4 {
		t.Fatalf("expected group 4, got %d ok=%v", groupID, ok)
	}
}

func TestResolveVendorGroupSkipsRootAndOutsiders(t *testing.T) {
	dir := newMemoryDirectory()
	dir.addGroup(1, 0)
	dir.addGroup(2, 0)
	dir.join(10, 1, true)
	dir.join(11, 2, true)

	tree := NewTree(dir, Config{RootGroupID: 1})
	ctx := context.Background()
	if _, ok, err := tree.ResolveVendorGroup(ctx, 10); err != nil || ok {
		t.Fatalf("direct member of root must not resolve, ok=%v err=%v", ok, err)
	}
	if _, ok, err := tree.ResolveVendorGroup(ctx, 11); err != nil || ok {
		t.Fatalf("user outside root must not resolve, ok=%v err=%v", ok, err)
	}
	if _, ok, err := tree.ResolveVendorGroup(ctx, 0); err != nil || ok {
		t.Fatalf("user 0 must not resolve, ok=%v err=%v", ok, err)
	}
}

func TestResolveVendorGroupWithoutRootConfigured(t *testing.T) {
	dir := newMemoryDirectory()
	dir.addGroup(1, 0)
	dir.addGroup(2, 1)
	dir.join(10, 2, true)

	tree := NewTree(dir, Config{})
	if _, ok, err := tree.ResolveVendorGroup(context.Background(), 10); err != nil || ok {
		t.Fatalf("unconfigured root must not resolve, ok=%v err=%v", ok, err)
	}
	var nilTree *Tree
	if _, ok, err := nilTree.ResolveVendorGroup(context.Background(), 10); err != nil || ok {
		t.Fatalf("nil tree must not resolve, ok=%v err=%v", ok, err)
	}
}

func TestResolveVendorGroupDetectsParentCycle(t *testing.T) {
	dir := newMemoryDirectory()
	dir.addGroup(10, 0)
	dir.addGroup(11, 10)
	dir.addGroup(2, 3)
	dir.addGroup(3, 2)
	// 分组 2 与 3 互为父级，ID 小于 11 因此先被检查
	dir.join(50, 11, true)
	dir.join(50, 2, true)

	tree := NewTree(dir, Config{RootGroupID: 10})
	_, ok, err := tree.ResolveVendorGroup(context.Background(), 50)
	if !errors.Is(err, ErrTreeCycle) {
		t.Fatalf("expected ErrTreeCycle, got %v", err)
	}
	if ok {
		t.Fatalf("cycle must not resolve a group")
	}
}

func TestResolveVendorGroupDepthGuard(t *testing.T) {
	dir := newMemoryDirectory()
	dir.addGroup(1, 0)
	for id := uint(2); id <= 6; id++ {
		dir.addGroup(id, id-1)
	}
	dir.join(10, 6, true)

	if _, ok, err := NewTree(dir, Config{RootGroupID: 1, MaxDepth: 4}).ResolveVendorGroup(context.Background(), 10); err != nil || !ok {
		t.Fatalf("four ancestors must fit depth 4, ok=%v err=%v", ok, err)
	}
	_, _, err := NewTree(dir, Config{RootGroupID: 1, MaxDepth: 3}).ResolveVendorGroup(context.Background(), 10)
	if !errors.Is(err, ErrTreeDepthExceeded) {
		t.Fatalf("expected ErrTreeDepthExceeded, got %v", err)
	}
}

func TestGroupVendorUserPicksLowestVendorID(t *testing.T) {
	dir := newMemoryDirectory()
	dir.addGroup(1, 0)
	dir.addGroup(2, 1)
	dir.join(30, 2, true)
	dir.join(5, 2, false)
	dir.join(20, 2, true)

	tree := NewTree(dir, Config{RootGroupID: 1})
	userID, ok, err := tree.GroupVendorUser(context.Background(), 2)
	if err != nil {
		t.Fatalf("group vendor user failed: %v", err)
	}
	if !ok || userID != 20 {
		t.Fatalf("expected vendor 20, got %d ok=%v", userID, ok)
	}

	dir.addGroup(3, 1)
	dir.join(7, 3, false)
	if _, ok, err := tree.GroupVendorUser(context.Background(), 3); err != nil || ok {
		t.Fatalf("group without vendors must not resolve, ok=%v err=%v", ok, err)
	}
}
