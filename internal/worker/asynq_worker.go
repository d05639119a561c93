package worker

import (
	"context"
	"strings"

	"github.com/built-mlm/internal/logger"
	"github.com/built-mlm/internal/metrics"
	"github.com/built-mlm/internal/provider"
	"github.com/built-mlm/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCommissionReportRefresh, c.handleCommissionReportRefresh)
}

func (c *Consumer) handleCommissionReportRefresh(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_report_refresh_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseCommissionReportRefreshPayload(task)
	if err != nil {
		// 载荷损坏时重试无意义
		logger.Warnw("worker_report_refresh_unmarshal_failed", "error", err)
		return asynq.SkipRetry
	}
	reason := normalizeRefreshReason(payload.Reason)
	if c.ReportService == nil {
		logger.Warnw("worker_report_refresh_skip_service_nil", "reason", reason, "order_id", payload.OrderID)
		metrics.Domain().ObserveReportRefresh(reason, metrics.ResultSkipped)
		return nil
	}
	report, err := c.ReportService.RefreshCommissionReport(ctx)
	if err != nil {
		logger.Warnw("worker_report_refresh_failed", "reason", reason, "order_id", payload.OrderID, "error", err)
		metrics.Domain().ObserveReportRefresh(reason, metrics.ResultError)
		return err
	}
	metrics.Domain().ObserveReportRefresh(reason, metrics.ResultOK)
	logger.Debugw("worker_report_refresh_done", "reason", reason, "order_id", payload.OrderID, "vendors", len(report.Rows))
	return nil
}

func normalizeRefreshReason(reason string) string {
	switch strings.ToLower(strings.TrimSpace(reason)) {
	case queue.ReportRefreshReasonCheckout:
		return queue.ReportRefreshReasonCheckout
	case queue.ReportRefreshReasonAdmin:
		return queue.ReportRefreshReasonAdmin
	default:
		return queue.ReportRefreshReasonManual
	}
}
