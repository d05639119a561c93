package cache

import (
	"context"
	"time"

	"github.com/built-mlm/internal/constants"
)

// CommissionReportRow 报表行（每个分销商的累计佣金）
type CommissionReportRow struct {
	VendorID    uint   `json:"vendor_id"`
	DisplayName string `json:"display_name"`
	Total       string `json:"total"`
	LineItems   int    `json:"line_items"`
}

// CommissionReport 佣金报表缓存结构
type CommissionReport struct {
	Rows        []CommissionReportRow `json:"rows"`
	GeneratedAt int64                 `json:"generated_at"`
}

// GetCommissionReport 读取报表缓存
func GetCommissionReport(ctx context.Context) (*CommissionReport, bool, error) {
	var report CommissionReport
	hit, err := GetJSON(ctx, constants.CacheKeyCommissionReport, &report)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &report, true, nil
}

// SetCommissionReport 写入报表缓存，ttl<=0 时使用默认 10 分钟
func SetCommissionReport(ctx context.Context, report *CommissionReport, ttl time.Duration) error {
	if report == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Duration(constants.DefaultCommissionReportTTL) * time.Second
	}
	return SetJSON(ctx, constants.CacheKeyCommissionReport, report, ttl)
}

// InvalidateCommissionReport 删除报表缓存
func InvalidateCommissionReport(ctx context.Context) error {
	return Del(ctx, constants.CacheKeyCommissionReport)
}
