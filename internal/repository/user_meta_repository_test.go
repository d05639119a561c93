package repository

import (
	"testing"

	"github.com/built-mlm/internal/constants"
)

func TestUserMetaRepositorySetOverwrites(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewUserMetaRepository(db)
	user := createRepositoryTestUser(t, db, "meta@example.com", constants.RoleVendor)

	if err := repo.Set(user.ID, constants.UserMetaCommissionRate, "10"); err != nil {
		t.Fatalf("set meta failed: %v", err)
	}
	if err := repo.Set(user.ID, constants.UserMetaCommissionRate, "12.5"); err != nil {
		t.Fatalf("overwrite meta failed: %v", err)
	}

	meta, err := repo.Get(user.ID, constants.UserMetaCommissionRate)
	if err != nil || meta == nil {
		t.Fatalf("get meta failed: %v", err)
	}
	if meta.MetaValue != "12.5" {
		t.Fatalf("expected overwritten value 12.5, got %s", meta.MetaValue)
	}

	var count int64
	db.Table("user_meta").Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected single meta row, got %d", count)
	}

	missing, err := repo.Get(user.ID, constants.UserMetaShopName)
	if err != nil || missing != nil {
		t.Fatalf("missing meta should return nil, nil; got %v %v", missing, err)
	}
}

func TestUserMetaRepositoryLookups(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewUserMetaRepository(db)
	first := createRepositoryTestUser(t, db, "first@example.com", constants.RoleVendor)
	second := createRepositoryTestUser(t, db, "second@example.com", constants.RoleVendor)

	_ = repo.Set(first.ID, constants.UserMetaShopSlug, "corner-shop")
	_ = repo.Set(first.ID, constants.UserMetaShopName, "Corner Shop")
	_ = repo.Set(second.ID, constants.UserMetaShopSlug, "other")

	values, err := repo.GetValues(first.ID, []string{constants.UserMetaShopSlug, constants.UserMetaShopName, constants.UserMetaPaypalEmail})
	if err != nil {
		t.Fatalf("get values failed: %v", err)
	}
	if values[constants.UserMetaShopName] != "Corner Shop" || values[constants.UserMetaShopSlug] != "corner-shop" {
		t.Fatalf("unexpected values %v", values)
	}
	if _, ok := values[constants.UserMetaPaypalEmail]; ok {
		t.Fatalf("unset key must be absent")
	}

	ids, err := repo.FindUserIDsByValue(constants.UserMetaShopSlug, "corner-shop")
	if err != nil || len(ids) != 1 || ids[0] != first.ID {
		t.Fatalf("unexpected lookup result %v err=%v", ids, err)
	}

	slugs, err := repo.ListValues([]uint{first.ID, second.ID}, constants.UserMetaShopSlug)
	if err != nil {
		t.Fatalf("list values failed: %v", err)
	}
	if slugs[second.ID] != "other" || len(slugs) != 2 {
		t.Fatalf("unexpected slugs %v", slugs)
	}

	if err := repo.Delete(first.ID, constants.UserMetaShopName); err != nil {
		t.Fatalf("delete meta failed: %v", err)
	}
	if meta, _ := repo.Get(first.ID, constants.UserMetaShopName); meta != nil {
		t.Fatalf("meta should be deleted")
	}
}
