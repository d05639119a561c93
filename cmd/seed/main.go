package main

import (
	"context"
	"fmt"
	"os"

	"github.com/built-mlm/internal/config"
	"github.com/built-mlm/internal/constants"
	"github.com/built-mlm/internal/logger"
	"github.com/built-mlm/internal/models"
	"github.com/built-mlm/internal/provider"
	"github.com/built-mlm/internal/service"

	"github.com/shopspring/decimal"
)

// seedVendor 演示分销树中的一个分销商
type seedVendor struct {
	Email    string
	Name     string
	ShopName string
	Rate     string
	// Parent 上级分销商邮箱，空表示挂在根分组下
	Parent string
}

var seedVendors = []seedVendor{
	{Email: "alice@example.com", Name: "Alice", ShopName: "Alice Wholesale", Rate: "50"},
	{Email: "bob@example.com", Name: "Bob", ShopName: "Bob's Corner", Rate: "35", Parent: "alice@example.com"},
	{Email: "carol@example.com", Name: "Carol", ShopName: "Carol Direct", Rate: "20", Parent: "bob@example.com"},
}

const seedPassword = "password123"

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}
	if err := models.InitDefaultAdmin(os.Getenv("MLM_DEFAULT_ADMIN_USERNAME"), os.Getenv("MLM_DEFAULT_ADMIN_PASSWORD")); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	container := provider.NewContainerWithDB(cfg, models.DB)
	ctx := context.Background()

	setting, err := container.SettingService.GetMLMSetting()
	if err != nil {
		stdLog.Fatalf("Failed to load mlm setting: %v", err)
	}
	if setting.RootGroupID != 0 {
		stdLog.Printf("Root group %d already configured, skip seeding tree", setting.RootGroupID)
		return
	}

	root, err := container.GroupService.Create(ctx, service.CreateGroupInput{Name: "Vendors", Description: "Root of the vendor tree"})
	if err != nil {
		stdLog.Fatalf("Failed to create root group: %v", err)
	}
	setting.RootGroupID = root.ID
	if setting.PermalinkBase == "" {
		setting.PermalinkBase = "vendors"
	}
	if _, err := container.SettingService.UpdateMLMSetting(setting); err != nil {
		stdLog.Fatalf("Failed to save mlm setting: %v", err)
	}
	stdLog.Printf("Created root group: %d", root.ID)

	groups := map[string]uint{}
	vendors := map[string]uint{}
	for _, item := range seedVendors {
		parentGroup := root.ID
		if item.Parent != "" {
			parentGroup = groups[item.Parent]
		}
		group, err := container.GroupService.Create(ctx, service.CreateGroupInput{
			Name:     item.Name,
			ParentID: parentGroup,
		})
		if err != nil {
			stdLog.Fatalf("Failed to create group for %s: %v", item.Email, err)
		}
		user, _, _, err := container.UserAuthService.Register(ctx, item.Email, seedPassword, item.Name)
		if err != nil {
			stdLog.Fatalf("Failed to register %s: %v", item.Email, err)
		}
		if _, err := container.VendorService.UpdateUserRoles(ctx, user.ID, []string{constants.RoleCustomer, constants.RoleVendor}); err != nil {
			stdLog.Fatalf("Failed to grant vendor role to %s: %v", item.Email, err)
		}
		if err := container.GroupService.AddMember(ctx, group.ID, user.ID); err != nil {
			stdLog.Fatalf("Failed to add %s to group: %v", item.Email, err)
		}
		if _, err := container.VendorService.SetCommissionRate(ctx, user.ID, decimal.RequireFromString(item.Rate)); err != nil {
			stdLog.Fatalf("Failed to set rate for %s: %v", item.Email, err)
		}
		if _, err := container.VendorService.UpdateShop(ctx, user.ID, service.UpdateShopInput{
			ShopName:        item.ShopName,
			ShopDescription: fmt.Sprintf("Demo shop run by %s", item.Name),
			PaypalEmail:     item.Email,
		}); err != nil {
			stdLog.Fatalf("Failed to update shop for %s: %v", item.Email, err)
		}
		groups[item.Email] = group.ID
		vendors[item.Email] = user.ID
		stdLog.Printf("Created vendor: %s (rate %s%%)", item.Email, item.Rate)
	}

	buyer, _, _, err := container.UserAuthService.Register(ctx, "dave@example.com", seedPassword, "Dave")
	if err != nil {
		stdLog.Fatalf("Failed to register buyer: %v", err)
	}
	if _, err := container.VendorService.JoinVendor(ctx, buyer.ID, vendors["carol@example.com"]); err != nil {
		stdLog.Fatalf("Failed to attach buyer to vendor: %v", err)
	}
	order, err := container.OrderService.Checkout(ctx, service.CheckoutInput{
		UserID: buyer.ID,
		Items: []service.CheckoutItem{
			{Name: "Starter kit", Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
		},
	})
	if err != nil {
		stdLog.Fatalf("Failed to place demo order: %v", err)
	}
	stdLog.Printf("Placed demo order %d for %s", order.ID, buyer.Email)
	stdLog.Println("Seeding completed successfully!")
}
