package service

import (
	"errors"
	"testing"

	"github.com/built-mlm/internal/constants"
	"github.com/built-mlm/internal/models"
)

func TestUserRegisterAndLogin(t *testing.T) {
	env := setupMLMServiceTest(t)

	user, token, _, err := env.userAuth.Register(testContext(), " Buyer@Example.com ", "secret123", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "buyer@example.com" || user.DisplayName != "buyer" || !user.HasRole(constants.RoleCustomer) {
		t.Fatalf("unexpected user %+v", user)
	}
	claims, err := env.userAuth.ParseUserJWT(token)
	if err != nil || claims.UserID != user.ID {
		t.Fatalf("parse token failed: %+v err=%v", claims, err)
	}
	if _, err := env.auth.ParseJWT(token); err == nil {
		t.Fatalf("user token must not validate with the admin secret")
	}

	if _, _, _, err := env.userAuth.Register(testContext(), "buyer@example.com", "secret123", ""); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if _, _, _, err := env.userAuth.Login(testContext(), "buyer@example.com", "wrong-pass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	logged, _, _, err := env.userAuth.Login(testContext(), "BUYER@example.com", "secret123")
	if err != nil || logged.ID != user.ID || logged.LastLoginAt == nil {
		t.Fatalf("login failed: %+v err=%v", logged, err)
	}

	env.db.Model(&models.User{}).Where("id = ?", user.ID).Update("status", constants.UserStatusDisabled)
	if _, _, _, err := env.userAuth.Login(testContext(), "buyer@example.com", "secret123"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

func TestRegisterEnforcesPasswordPolicy(t *testing.T) {
	env := setupMLMServiceTest(t)

	_, _, _, err := env.userAuth.Register(testContext(), "weak@example.com", "short1", "")
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	var policyErr passwordPolicyError
	if !errors.As(err, &policyErr) || policyErr.Key() != "error.password_min_length" {
		t.Fatalf("expected min length key, got %v", err)
	}
	_, _, _, err = env.userAuth.Register(testContext(), "weak@example.com", "lettersonly", "")
	if !errors.As(err, &policyErr) || policyErr.Key() != "error.password_require_number" {
		t.Fatalf("expected require number key, got %v", err)
	}
	if _, _, _, err := env.userAuth.Register(testContext(), "not-an-email", "secret123", ""); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestAdminLogin(t *testing.T) {
	env := setupMLMServiceTest(t)
	hash, err := HashPassword("admin-pass1")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	admin := &models.Admin{Username: "root", PasswordHash: hash, IsSuper: true}
	if err := env.db.Create(admin).Error; err != nil {
		t.Fatalf("create admin failed: %v", err)
	}

	if _, _, _, err := env.auth.Login(testContext(), "root", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	logged, token, _, err := env.auth.Login(testContext(), "root", "admin-pass1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	claims, err := env.auth.ParseJWT(token)
	if err != nil || claims.AdminID != logged.ID || claims.Username != "root" {
		t.Fatalf("unexpected claims %+v err=%v", claims, err)
	}
	state, err := env.auth.LoadAdminAuthState(testContext(), logged.ID)
	if err != nil || !state.IsSuper {
		t.Fatalf("unexpected auth state %+v err=%v", state, err)
	}
}
