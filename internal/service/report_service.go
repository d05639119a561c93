package service

import (
	"context"
	"sort"
	"time"

	"github.com/built-mlm/internal/cache"
	"github.com/built-mlm/internal/constants"
	"github.com/built-mlm/internal/logger"
	"github.com/built-mlm/internal/models"
	"github.com/built-mlm/internal/repository"

	"github.com/shopspring/decimal"
)

const reportScanBatchSize = 500

// ReportService 分销商看板与后台佣金报表
type ReportService struct {
	vendorService *VendorService
	userRepo      repository.UserRepository
	itemMetaRepo  repository.OrderItemMetaRepository
	cacheTTL      time.Duration
}

// NewReportService 创建报表服务
func NewReportService(vendorService *VendorService, userRepo repository.UserRepository, itemMetaRepo repository.OrderItemMetaRepository, cacheTTL time.Duration) *ReportService {
	return &ReportService{
		vendorService: vendorService,
		userRepo:      userRepo,
		itemMetaRepo:  itemMetaRepo,
		cacheTTL:      cacheTTL,
	}
}

// DashboardLineItem 看板行
type DashboardLineItem struct {
	OrderID             uint             `json:"order_id"`
	OrderNo             string           `json:"order_no"`
	OrderDate           time.Time        `json:"order_date"`
	OrderItemID         uint             `json:"order_item_id"`
	ItemName            string           `json:"item_name"`
	OriginVendorID      uint             `json:"origin_vendor_id"`
	OriginVendorName    string           `json:"origin_vendor_name"`
	Rate                *decimal.Decimal `json:"rate"`
	Commission          models.Money     `json:"commission"`
	SubVendorCommission models.Money     `json:"sub_vendor_commission"`
}

// VendorDashboard 分销商看板
type VendorDashboard struct {
	VendorID   uint                `json:"vendor_id"`
	SubVendors []SubVendor         `json:"sub_vendors"`
	LineItems  []DashboardLineItem `json:"line_items"`
}

// Dashboard 本人及下级分销商售出的订单项，拆分本人佣金与其他层级佣金
func (s *ReportService) Dashboard(ctx context.Context, vendorID uint) (*VendorDashboard, error) {
	if _, err := s.vendorService.requireVendor(ctx, vendorID); err != nil {
		return nil, err
	}
	subVendors, err := s.vendorService.ListSubVendors(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	vendorIDs := []uint{vendorID}
	for _, sub := range subVendors {
		vendorIDs = append(vendorIDs, sub.UserID)
	}

	rows, err := s.itemMetaRepo.WithContext(ctx).ListVendorLineItems(vendorIDs)
	if err != nil {
		return nil, err
	}
	names, err := s.displayNames(ctx, vendorIDs)
	if err != nil {
		return nil, err
	}

	items := make([]DashboardLineItem, 0, len(rows))
	for _, row := range rows {
		originID, err := parseUintValue(row.VendorUserID)
		if err != nil {
			logger.Ctx(ctx).Warnw("dashboard_vendor_meta_invalid", "order_item_id", row.OrderItemID, "value", row.VendorUserID)
			continue
		}
		records, err := models.DecodeCommissionRecords(row.Commissions)
		if err != nil {
			logger.Ctx(ctx).Warnw("dashboard_commissions_invalid", "order_item_id", row.OrderItemID, "error", err)
			continue
		}
		items = append(items, buildDashboardLineItem(vendorID, row, originID, names[originID], records))
	}
	return &VendorDashboard{VendorID: vendorID, SubVendors: subVendors, LineItems: items}, nil
}

func buildDashboardLineItem(vendorID uint, row repository.VendorLineItemRow, originID uint, originName string, records []models.CommissionRecord) DashboardLineItem {
	item := DashboardLineItem{
		OrderID:          row.OrderID,
		OrderNo:          row.OrderNo,
		OrderDate:        row.OrderCreatedAt,
		OrderItemID:      row.OrderItemID,
		ItemName:         row.ItemName,
		OriginVendorID:   originID,
		OriginVendorName: originName,
	}
	own := decimal.Zero
	others := decimal.Zero
	for _, record := range records {
		if record.VendorID == vendorID {
			rate := record.NetRate.Decimal
			item.Rate = &rate
			own = own.Add(record.CommissionEarned.Decimal)
			continue
		}
		others = others.Add(record.CommissionEarned.Decimal)
	}
	item.Commission = models.NewMoneyFromDecimal(own)
	item.SubVendorCommission = models.NewMoneyFromDecimal(others)
	return item
}

// CommissionReport 后台佣金报表（缓存优先）
func (s *ReportService) CommissionReport(ctx context.Context) (*cache.CommissionReport, error) {
	cached, hit, err := cache.GetCommissionReport(ctx)
	if err != nil {
		logger.Ctx(ctx).Warnw("commission_report_cache_read_failed", "error", err)
	}
	if hit {
		return cached, nil
	}
	return s.RefreshCommissionReport(ctx)
}

// RefreshCommissionReport 重新汇总全部快照并写入缓存
func (s *ReportService) RefreshCommissionReport(ctx context.Context) (*cache.CommissionReport, error) {
	report, err := s.BuildCommissionReport(ctx)
	if err != nil {
		return nil, err
	}
	if err := cache.SetCommissionReport(ctx, report, s.cacheTTL); err != nil {
		logger.Ctx(ctx).Warnw("commission_report_cache_write_failed", "error", err)
	}
	return report, nil
}

// BuildCommissionReport 按分销商汇总 commission_earned，按分销商 ID 升序
func (s *ReportService) BuildCommissionReport(ctx context.Context) (*cache.CommissionReport, error) {
	repo := s.itemMetaRepo.WithContext(ctx)
	totals := map[uint]decimal.Decimal{}
	counts := map[uint]int{}
	var afterID uint
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch, err := repo.ListValuesByKey(constants.OrderItemMetaCommissions, afterID, reportScanBatchSize)
		if err != nil {
			return nil, err
		}
		for _, row := range batch {
			afterID = row.ID
			records, err := models.DecodeCommissionRecords(row.MetaValue)
			if err != nil {
				logger.Ctx(ctx).Warnw("commission_report_row_invalid", "order_item_id", row.OrderItemID, "error", err)
				continue
			}
			for _, record := range records {
				totals[record.VendorID] = totals[record.VendorID].Add(record.CommissionEarned.Decimal)
				counts[record.VendorID]++
			}
		}
		if len(batch) < reportScanBatchSize {
			break
		}
	}

	vendorIDs := make([]uint, 0, len(totals))
	for id := range totals {
		vendorIDs = append(vendorIDs, id)
	}
	sort.Slice(vendorIDs, func(i, j int) bool { return vendorIDs[i] < vendorIDs[j] })
	names, err := s.displayNames(ctx, vendorIDs)
	if err != nil {
		return nil, err
	}

	report := &cache.CommissionReport{
		Rows:        make([]cache.CommissionReportRow, 0, len(vendorIDs)),
		GeneratedAt: time.Now().Unix(),
	}
	for _, id := range vendorIDs {
		report.Rows = append(report.Rows, cache.CommissionReportRow{
			VendorID:    id,
			DisplayName: names[id],
			Total:       totals[id].StringFixed(models.MoneyPlaces),
			LineItems:   counts[id],
		})
	}
	return report, nil
}

func (s *ReportService) displayNames(ctx context.Context, ids []uint) (map[uint]string, error) {
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	users, err := s.userRepo.WithContext(ctx).ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		names[user.ID] = user.DisplayName
	}
	return names, nil
}
