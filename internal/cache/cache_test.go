package cache

import (
	"context"
	"testing"
	"time"

	"github.com/built-mlm/internal/constants"
	"github.com/built-mlm/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	UseClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")
	t.Cleanup(func() {
		_ = Close()
	})
	return mr
}

func TestCommissionReportCacheRoundTrip(t *testing.T) {
	mr := setupMiniRedis(t)
	ctx := context.Background()

	report := &CommissionReport{
		Rows:        []CommissionReportRow{{VendorID: 3, DisplayName: "Ann", Total: "15.00", LineItems: 2}},
		GeneratedAt: time.Now().Unix(),
	}
	if err := SetCommissionReport(ctx, report, 0); err != nil {
		t.Fatalf("set report failed: %v", err)
	}

	key := "test:" + constants.CacheKeyCommissionReport
	if !mr.Exists(key) {
		t.Fatalf("expected key %s in redis", key)
	}
	if ttl := mr.TTL(key); ttl != time.Duration(constants.DefaultCommissionReportTTL)*time.Second {
		t.Fatalf("expected default ttl, got %s", ttl)
	}

	cached, hit, err := GetCommissionReport(ctx)
	if err != nil || !hit {
		t.Fatalf("expected cache hit, hit=%v err=%v", hit, err)
	}
	if len(cached.Rows) != 1 || cached.Rows[0].Total != "15.00" {
		t.Fatalf("unexpected cached report %+v", cached)
	}

	mr.FastForward(11 * time.Minute)
	if _, hit, _ := GetCommissionReport(ctx); hit {
		t.Fatalf("report should expire after ttl")
	}

	_ = SetCommissionReport(ctx, report, time.Minute)
	if err := InvalidateCommissionReport(ctx); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}
	if _, hit, _ := GetCommissionReport(ctx); hit {
		t.Fatalf("report should be invalidated")
	}
}

func TestUserAuthStateCarriesRoles(t *testing.T) {
	setupMiniRedis(t)
	ctx := context.Background()
	user := &models.User{ID: 9, Status: constants.UserStatusActive, Roles: models.StringArray{constants.RoleVendor}}

	if err := SetUserAuthState(ctx, BuildUserAuthState(user)); err != nil {
		t.Fatalf("set auth state failed: %v", err)
	}
	state, hit, err := GetUserAuthState(ctx, 9)
	if err != nil || !hit {
		t.Fatalf("expected auth state hit, hit=%v err=%v", hit, err)
	}
	if len(state.Roles) != 1 || state.Roles[0] != constants.RoleVendor {
		t.Fatalf("unexpected roles %v", state.Roles)
	}
	if err := DelUserAuthState(ctx, 9); err != nil {
		t.Fatalf("delete auth state failed: %v", err)
	}
	if _, hit, _ := GetUserAuthState(ctx, 9); hit {
		t.Fatalf("auth state should be deleted")
	}
}

func TestDisabledCacheIsNoop(t *testing.T) {
	UseClient(nil, "")
	ctx := context.Background()
	if err := SetCommissionReport(ctx, &CommissionReport{}, time.Minute); err != nil {
		t.Fatalf("disabled set should be noop, got %v", err)
	}
	if _, hit, err := GetCommissionReport(ctx); hit || err != nil {
		t.Fatalf("disabled get should miss, hit=%v err=%v", hit, err)
	}
	if BuildKey("x") != defaultRedisPrefix+":x" {
		t.Fatalf("unexpected key %s", BuildKey("x"))
	}
}
