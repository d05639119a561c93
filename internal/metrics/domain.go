package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// 结果标签
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultPartial = "partial"
	ResultSkipped = "skipped"
)

// DomainMetrics 分销业务指标
type DomainMetrics struct {
	CommissionSnapshots *prometheus.CounterVec
	CommissionLevels    prometheus.Histogram
	OrdersPlaced        *prometheus.CounterVec
	ReportRefreshes     *prometheus.CounterVec
}

var (
	domainOnce sync.Once
	domain     *DomainMetrics
)

// NewDomainMetrics 注册分销业务指标
func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &DomainMetrics{
		CommissionSnapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "commission_snapshots_total",
			Help:      "Commission snapshot outcomes per order line item.",
		}, []string{"result"}),
		CommissionLevels: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "commission_levels",
			Help:      "Number of vendors credited per order line item.",
			Buckets:   []float64{1, 2, 3, 4, 6, 8, 12, 16, 32},
		}),
		OrdersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "orders_placed_total",
			Help:      "Checkout outcomes.",
		}, []string{"result"}),
		ReportRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "commission_report_refresh_total",
			Help:      "Commission report rebuilds by trigger and outcome.",
		}, []string{"reason", "result"}),
	}
	m.CommissionSnapshots = registerCollector(reg, m.CommissionSnapshots)
	m.CommissionLevels = registerCollector(reg, m.CommissionLevels)
	m.OrdersPlaced = registerCollector(reg, m.OrdersPlaced)
	m.ReportRefreshes = registerCollector(reg, m.ReportRefreshes)
	return m
}

// Domain 进程级业务指标（注册到默认 Registerer）
func Domain() *DomainMetrics {
	domainOnce.Do(func() {
		domain = NewDomainMetrics(nil)
	})
	return domain
}

// ObserveSnapshot 记录一次佣金快照结果
func (m *DomainMetrics) ObserveSnapshot(result string, levels int) {
	if m == nil {
		return
	}
	m.CommissionSnapshots.WithLabelValues(result).Inc()
	if levels > 0 {
		m.CommissionLevels.Observe(float64(levels))
	}
}

// ObserveOrder 记录下单结果
func (m *DomainMetrics) ObserveOrder(result string) {
	if m == nil {
		return
	}
	m.OrdersPlaced.WithLabelValues(result).Inc()
}

// ObserveReportRefresh 记录报表刷新
func (m *DomainMetrics) ObserveReportRefresh(reason, result string) {
	if m == nil {
		return
	}
	m.ReportRefreshes.WithLabelValues(reason, result).Inc()
}
