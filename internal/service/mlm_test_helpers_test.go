package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/built-mlm/internal/cache"
	"github.com/built-mlm/internal/config"
	"github.com/built-mlm/internal/constants"
	"github.com/built-mlm/internal/models"
	"github.com/built-mlm/internal/queue"
	"github.com/built-mlm/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type mlmTestEnv struct {
	db         *gorm.DB
	cfg        *config.Config
	settings   *SettingService
	groups     *GroupService
	commission *CommissionService
	vendors    *VendorService
	reports    *ReportService
	orders     *OrderService
	userAuth   *UserAuthService
	auth       *AuthService
}

// mlmTestTree 根分组 -> A(50) -> B(35) -> C(20)，顾客在 C 组
type mlmTestTree struct {
	root, groupA, groupB, groupC *models.Group
	vendorA, vendorB, vendorC    *models.User
	customer                     *models.User
}

func setupMLMServiceTest(t *testing.T) *mlmTestEnv {
	t.Helper()
	cache.UseClient(nil, "")

	dsn := fmt.Sprintf("file:mlm_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrateWith(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{
		JWT:     config.JWTConfig{SecretKey: "admin-secret", ExpireHours: 1},
		UserJWT: config.JWTConfig{SecretKey: "user-secret", ExpireHours: 1},
		Security: config.SecurityConfig{PasswordPolicy: config.PasswordPolicyConfig{
			MinLength:     8,
			RequireNumber: true,
		}},
	}

	groupRepo := repository.NewGroupRepository(db)
	userRepo := repository.NewUserRepository(db)
	userMetaRepo := repository.NewUserMetaRepository(db)
	itemMetaRepo := repository.NewOrderItemMetaRepository(db)
	queueClient, _ := queue.NewClient(nil)

	settings := NewSettingService(repository.NewSettingRepository(db), groupRepo)
	directory := NewRepositoryDirectory(groupRepo, userMetaRepo, 8)
	commission := NewCommissionService(settings, directory, itemMetaRepo, 8)
	vendors := NewVendorService(commission, settings, userRepo, userMetaRepo, groupRepo, 8)
	return &mlmTestEnv{
		db:         db,
		cfg:        cfg,
		settings:   settings,
		groups:     NewGroupService(groupRepo, userRepo),
		commission: commission,
		vendors:    vendors,
		reports:    NewReportService(vendors, userRepo, itemMetaRepo, time.Minute),
		orders:     NewOrderService(repository.NewOrderRepository(db), commission, queueClient, "usd", 10),
		userAuth:   NewUserAuthService(cfg, userRepo),
		auth:       NewAuthService(cfg, repository.NewAdminRepository(db)),
	}
}

func createServiceTestUser(t *testing.T, db *gorm.DB, email string, roles ...string) *models.User {
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

func createServiceTestGroup(t *testing.T, db *gorm.DB, name string, parent *models.Group) *models.Group {
	t.Helper()
	group := &models.Group{Name: name}
	if parent != nil {
		parentID := parent.ID
		group.ParentID = &parentID
	}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("create group failed: %v", err)
	}
	return group
}

func addServiceTestMember(t *testing.T, db *gorm.DB, group *models.Group, user *models.User) {
	t.Helper()
	if err := db.Create(&models.GroupMembership{GroupID: group.ID, UserID: user.ID}).Error; err != nil {
		t.Fatalf("add member failed: %v", err)
	}
}

func setServiceTestRate(t *testing.T, env *mlmTestEnv, user *models.User, rate int64) {
	t.Helper()
	if _, err := env.vendors.SetCommissionRate(testContext(), user.ID, decimal.NewFromInt(rate)); err != nil {
		t.Fatalf("set rate failed: %v", err)
	}
}

func buildServiceTestTree(t *testing.T, env *mlmTestEnv) *mlmTestTree {
	t.Helper()
	tree := &mlmTestTree{}
	tree.root = createServiceTestGroup(t, env.db, "Registered", nil)
	tree.groupA = createServiceTestGroup(t, env.db, "Ann", tree.root)
	tree.groupB = createServiceTestGroup(t, env.db, "Bob", tree.groupA)
	tree.groupC = createServiceTestGroup(t, env.db, "Cid", tree.groupB)

	tree.vendorA = createServiceTestUser(t, env.db, "ann@example.com", constants.RoleVendor)
	tree.vendorB = createServiceTestUser(t, env.db, "bob@example.com", constants.RoleVendor)
	tree.vendorC = createServiceTestUser(t, env.db, "cid@example.com", constants.RoleVendor)
	tree.customer = createServiceTestUser(t, env.db, "buyer@example.com", constants.RoleCustomer)

	addServiceTestMember(t, env.db, tree.groupA, tree.vendorA)
	addServiceTestMember(t, env.db, tree.groupB, tree.vendorB)
	addServiceTestMember(t, env.db, tree.groupC, tree.vendorC)
	addServiceTestMember(t, env.db, tree.groupC, tree.customer)

	setServiceTestRate(t, env, tree.vendorA, 50)
	setServiceTestRate(t, env, tree.vendorB, 35)
	setServiceTestRate(t, env, tree.vendorC, 20)

	if _, err := env.settings.UpdateMLMSetting(MLMSetting{RootGroupID: tree.root.ID, PermalinkBase: "/vendors/"}); err != nil {
		t.Fatalf("update mlm setting failed: %v", err)
	}
	return tree
}

func checkoutServiceTestOrder(t *testing.T, env *mlmTestEnv, buyer *models.User, price int64) *OrderView {
	t.Helper()
	view, err := env.orders.Checkout(testContext(), CheckoutInput{
		UserID: buyer.ID,
		Items:  []CheckoutItem{{Name: "Tea", Quantity: 1, UnitPrice: decimal.NewFromInt(price)}},
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	return view
}

func testContext() context.Context {
	return context.Background()
}

func assertCommissionAmounts(t *testing.T, records []models.CommissionRecord, vendors []uint, amounts []int64) {
	t.Helper()
	if len(records) != len(amounts) {
		t.Fatalf("expected %d records, got %d: %+v", len(amounts), len(records), records)
	}
	for i := range records {
		if records[i].VendorID != vendors[i] {
			t.Fatalf("record %d: expected vendor %d, got %d", i, vendors[i], records[i].VendorID)
		}
		if !records[i].CommissionEarned.Equal(decimal.NewFromInt(amounts[i])) {
			t.Fatalf("record %d: expected earned %d, got %s", i, amounts[i], records[i].CommissionEarned.String())
		}
	}
}
