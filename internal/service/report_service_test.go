package service

import (
	"testing"

	"github.com/built-mlm/internal/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestDashboardSplitsOwnAndSubVendorCommission(t *testing.T) {
	env := setupMLMServiceTest(t)
	tree := buildServiceTestTree(t, env)
	placed := checkoutServiceTestOrder(t, env, tree.customer, 100)

	dashboard, err := env.reports.Dashboard(testContext(), tree.vendorB.ID)
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if len(dashboard.SubVendors) != 1 || dashboard.SubVendors[0].UserID != tree.vendorC.ID {
		t.Fatalf("unexpected sub vendors %+v", dashboard.SubVendors)
	}
	if len(dashboard.LineItems) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(dashboard.LineItems))
	}
	item := dashboard.LineItems[0]
	if item.OrderID != placed.ID || item.ItemName != "Tea" {
		t.Fatalf("unexpected line item %+v", item)
	}
	if item.OriginVendorID != tree.vendorC.ID || item.OriginVendorName != tree.vendorC.DisplayName {
		t.Fatalf("unexpected origin vendor %d %q", item.OriginVendorID, item.OriginVendorName)
	}
	if item.Rate == nil || item.Rate.String() != "15" {
		t.Fatalf("expected own net rate 15, got %v", item.Rate)
	}
	if item.Commission.StringFixed(2) != "15.00" || item.SubVendorCommission.StringFixed(2) != "35.00" {
		t.Fatalf("unexpected split own=%s others=%s", item.Commission.String(), item.SubVendorCommission.String())
	}

	leaf, err := env.reports.Dashboard(testContext(), tree.vendorC.ID)
	if err != nil {
		t.Fatalf("leaf dashboard failed: %v", err)
	}
	if len(leaf.LineItems) != 1 || leaf.LineItems[0].Commission.StringFixed(2) != "20.00" {
		t.Fatalf("unexpected leaf dashboard %+v", leaf.LineItems)
	}
	if _, err := env.reports.Dashboard(testContext(), tree.customer.ID); err != ErrNotVendor {
		t.Fatalf("expected ErrNotVendor, got %v", err)
	}
}

func TestCommissionReportTotalsAndCache(t *testing.T) {
	env := setupMLMServiceTest(t)
	mr := miniredis.RunT(t)
	cache.UseClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "report-test")
	t.Cleanup(func() { _ = cache.Close() })

	tree := buildServiceTestTree(t, env)
	checkoutServiceTestOrder(t, env, tree.customer, 100)
	checkoutServiceTestOrder(t, env, tree.customer, 50)

	report, err := env.reports.CommissionReport(testContext())
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if len(report.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %+v", report.Rows)
	}
	want := map[uint]string{tree.vendorA.ID: "22.50", tree.vendorB.ID: "22.50", tree.vendorC.ID: "30.00"}
	for i, row := range report.Rows {
		if i > 0 && report.Rows[i-1].VendorID >= row.VendorID {
			t.Fatalf("rows should be sorted by vendor id: %+v", report.Rows)
		}
		if row.Total != want[row.VendorID] || row.LineItems != 2 {
			t.Fatalf("unexpected row %+v", row)
		}
	}
	if !mr.Exists("report-test:mlm:report:commissions") {
		t.Fatalf("report should be cached")
	}

	// 新订单让缓存失效，下次读取重新汇总
	checkoutServiceTestOrder(t, env, tree.customer, 100)
	if mr.Exists("report-test:mlm:report:commissions") {
		t.Fatalf("checkout should invalidate the cached report")
	}
	refreshed, err := env.reports.CommissionReport(testContext())
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	for _, row := range refreshed.Rows {
		if row.VendorID == tree.vendorC.ID && row.Total != "50.00" {
			t.Fatalf("expected refreshed total 50.00, got %s", row.Total)
		}
	}
}
