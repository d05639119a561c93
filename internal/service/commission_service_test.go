package service

import (
	"errors"
	"testing"

	"github.com/built-mlm/internal/constants"
	"github.com/built-mlm/internal/models"

	"github.com/shopspring/decimal"
)

func TestCheckoutSnapshotsCommissionCascade(t *testing.T) {
	env := setupMLMServiceTest(t)
	tree := buildServiceTestTree(t, env)

	view := checkoutServiceTestOrder(t, env, tree.customer, 100)
	if len(view.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(view.Items))
	}
	snapshot := view.Items[0].Commission
	if snapshot == nil || snapshot.VendorUserID != tree.vendorC.ID {
		t.Fatalf("expected selling vendor %d, got %+v", tree.vendorC.ID, snapshot)
	}
	assertCommissionAmounts(t, snapshot.Commissions,
		[]uint{tree.vendorC.ID, tree.vendorB.ID, tree.vendorA.ID},
		[]int64{20, 15, 15},
	)
	leaf := snapshot.Commissions[0]
	if leaf.ChildVendorID != nil || !leaf.ChildCommissionRate.IsZero() {
		t.Fatalf("leaf record should have no child, got %+v", leaf)
	}
	if top := snapshot.Commissions[2]; top.ChildVendorID == nil || *top.ChildVendorID != tree.vendorB.ID {
		t.Fatalf("top record should point to vendor B, got %+v", top)
	}

	var rows []models.OrderItemMeta
	if err := env.db.Where("order_item_id = ?", view.Items[0].ID).Order("meta_key ASC").Find(&rows).Error; err != nil {
		t.Fatalf("load meta failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 meta rows, got %d", len(rows))
	}
}

func TestSnapshotIsNotAffectedByLaterRateChanges(t *testing.T) {
	env := setupMLMServiceTest(t)
	tree := buildServiceTestTree(t, env)

	placed := checkoutServiceTestOrder(t, env, tree.customer, 100)
	setServiceTestRate(t, env, tree.vendorC, 30)

	loaded, err := env.orders.GetOrder(testContext(), tree.customer.ID, placed.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	assertCommissionAmounts(t, loaded.Items[0].Commission.Commissions,
		[]uint{tree.vendorC.ID, tree.vendorB.ID, tree.vendorA.ID},
		[]int64{20, 15, 15},
	)

	next := checkoutServiceTestOrder(t, env, tree.customer, 100)
	assertCommissionAmounts(t, next.Items[0].Commission.Commissions,
		[]uint{tree.vendorC.ID, tree.vendorB.ID, tree.vendorA.ID},
		[]int64{30, 5, 15},
	)
}

func TestSaveLineItemOverwritesInsteadOfAppending(t *testing.T) {
	env := setupMLMServiceTest(t)
	tree := buildServiceTestTree(t, env)
	placed := checkoutServiceTestOrder(t, env, tree.customer, 100)
	itemID := placed.Items[0].ID

	snapshot, err := env.commission.SnapshotLineItem(testContext(), tree.customer.ID, itemID, decimal.NewFromInt(200))
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	assertCommissionAmounts(t, snapshot.Commissions,
		[]uint{tree.vendorC.ID, tree.vendorB.ID, tree.vendorA.ID},
		[]int64{40, 30, 30},
	)

	var count int64
	env.db.Model(&models.OrderItemMeta{}).Where("order_item_id = ?", itemID).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 meta rows after retry, got %d", count)
	}
	meta, err := env.commission.itemMetaRepo.Get(itemID, constants.OrderItemMetaCommissions)
	if err != nil || meta == nil {
		t.Fatalf("load commissions meta failed: %v", err)
	}
	records, err := models.DecodeCommissionRecords(meta.MetaValue)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	assertCommissionAmounts(t, records,
		[]uint{tree.vendorC.ID, tree.vendorB.ID, tree.vendorA.ID},
		[]int64{40, 30, 30},
	)
}

func TestCheckoutOutsideTreeWritesNoSnapshot(t *testing.T) {
	env := setupMLMServiceTest(t)
	buildServiceTestTree(t, env)
	stranger := createServiceTestUser(t, env.db, "stranger@example.com", constants.RoleCustomer)

	view := checkoutServiceTestOrder(t, env, stranger, 80)
	if view.Items[0].Commission != nil {
		t.Fatalf("expected no snapshot, got %+v", view.Items[0].Commission)
	}
	var count int64
	env.db.Model(&models.OrderItemMeta{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no meta rows, got %d", count)
	}
}

func TestCheckoutWithoutRootGroupWritesNoSnapshot(t *testing.T) {
	env := setupMLMServiceTest(t)
	tree := buildServiceTestTree(t, env)
	if _, err := env.settings.UpdateMLMSetting(MLMSetting{}); err != nil {
		t.Fatalf("reset setting failed: %v", err)
	}

	view := checkoutServiceTestOrder(t, env, tree.customer, 80)
	if view.Items[0].Commission != nil {
		t.Fatalf("expected no snapshot when root is unset")
	}
}

func TestComputeLineItemKeepsPartialRecordsOnCycle(t *testing.T) {
	env := setupMLMServiceTest(t)
	root := createServiceTestGroup(t, env.db, "Registered", nil)
	lower := createServiceTestGroup(t, env.db, "Lower", nil)
	upper := createServiceTestGroup(t, env.db, "Upper", root)
	if err := env.db.Model(&models.Group{}).Where("id = ?", lower.ID).Update("parent_id", upper.ID).Error; err != nil {
		t.Fatalf("update parent failed: %v", err)
	}

	seller := createServiceTestUser(t, env.db, "seller@example.com", constants.RoleVendor)
	upline := createServiceTestUser(t, env.db, "upline@example.com", constants.RoleVendor)
	buyer := createServiceTestUser(t, env.db, "cycle-buyer@example.com")
	addServiceTestMember(t, env.db, lower, seller)
	addServiceTestMember(t, env.db, upper, upline)
	// upline 同时属于 lower，按分组 ID 升序解析回 lower，形成重复访问
	addServiceTestMember(t, env.db, lower, upline)
	addServiceTestMember(t, env.db, lower, buyer)
	setServiceTestRate(t, env, seller, 10)
	setServiceTestRate(t, env, upline, 30)
	if _, err := env.settings.UpdateMLMSetting(MLMSetting{RootGroupID: root.ID}); err != nil {
		t.Fatalf("update setting failed: %v", err)
	}

	snapshot, err := env.commission.ComputeLineItem(testContext(), buyer.ID, decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("integrity errors should not fail checkout: %v", err)
	}
	if snapshot == nil || snapshot.VendorUserID != seller.ID {
		t.Fatalf("expected seller snapshot, got %+v", snapshot)
	}
	assertCommissionAmounts(t, snapshot.Commissions, []uint{seller.ID}, []int64{10})
}

func TestCheckoutValidatesItems(t *testing.T) {
	env := setupMLMServiceTest(t)
	tree := buildServiceTestTree(t, env)

	cases := []struct {
		name  string
		items []CheckoutItem
		want  error
	}{
		{"empty", nil, ErrOrderItemsEmpty},
		{"blank name", []CheckoutItem{{Name: " ", Quantity: 1, UnitPrice: decimal.NewFromInt(1)}}, ErrOrderItemInvalid},
		{"zero quantity", []CheckoutItem{{Name: "Tea", Quantity: 0, UnitPrice: decimal.NewFromInt(1)}}, ErrOrderItemInvalid},
		{"negative price", []CheckoutItem{{Name: "Tea", Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}}, ErrOrderItemInvalid},
		{"too many", make([]CheckoutItem, 11), ErrOrderTooManyItems},
	}
	for _, tc := range cases {
		_, err := env.orders.Checkout(testContext(), CheckoutInput{UserID: tree.customer.ID, Items: tc.items})
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestCheckoutLineTotalUsesQuantity(t *testing.T) {
	env := setupMLMServiceTest(t)
	tree := buildServiceTestTree(t, env)

	view, err := env.orders.Checkout(testContext(), CheckoutInput{
		UserID: tree.customer.ID,
		Items:  []CheckoutItem{{Name: "Tea", Quantity: 3, UnitPrice: decimal.RequireFromString("10.005")}},
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	item := view.Items[0]
	if item.UnitPrice.StringFixed(2) != "10.01" || item.TotalPrice.StringFixed(2) != "30.03" {
		t.Fatalf("unexpected prices unit=%s total=%s", item.UnitPrice.String(), item.TotalPrice.String())
	}
	if view.TotalAmount.StringFixed(2) != "30.03" || view.Currency != "USD" {
		t.Fatalf("unexpected order total %s %s", view.TotalAmount.String(), view.Currency)
	}
	if got := item.Commission.Commissions[0].CommissionEarned.StringFixed(2); got != "6.01" {
		t.Fatalf("expected leaf commission 6.01, got %s", got)
	}
}

func TestGetOrderRejectsOtherUsers(t *testing.T) {
	env := setupMLMServiceTest(t)
	tree := buildServiceTestTree(t, env)
	placed := checkoutServiceTestOrder(t, env, tree.customer, 10)

	if _, err := env.orders.GetOrder(testContext(), tree.vendorA.ID, placed.ID); err != ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
