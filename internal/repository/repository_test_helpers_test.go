package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/built-mlm/internal/constants"
	"github.com/built-mlm/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repository_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrateWith(db); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	return db
}

func createRepositoryTestUser(t *testing.T, db *gorm.DB, email string, roles ...string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hash",
		DisplayName:  email,
		Roles:        models.StringArray(roles),
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createRepositoryTestGroup(t *testing.T, db *gorm.DB, name string, parentID uint) *models.Group {
	t.Helper()
	group := &models.Group{Name: name}
	if parentID != 0 {
		parent := parentID
		group.ParentID = &parent
	}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("create group failed: %v", err)
	}
	return group
}
