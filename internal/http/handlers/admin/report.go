package admin

import (
	"github.com/built-mlm/internal/http/response"
	"github.com/built-mlm/internal/queue"

	"github.com/gin-gonic/gin"
)

// GetCommissionReport 各分销商累计佣金报表（优先读缓存）
func (h *Handler) GetCommissionReport(c *gin.Context) {
	report, err := h.ReportService.CommissionReport(c.Request.Context())
	if err != nil {
		respondWithMappedError(c, err, vendorErrorRules, "error.internal")
		return
	}
	response.Success(c, report)
}

// RefreshCommissionReport 刷新报表，队列可用时异步执行
func (h *Handler) RefreshCommissionReport(c *gin.Context) {
	if h.QueueClient.Enabled() {
		err := h.QueueClient.EnqueueCommissionReportRefresh(queue.CommissionReportRefreshPayload{
			Reason: queue.ReportRefreshReasonAdmin,
		})
		if err == nil {
			response.Success(c, gin.H{"queued": true})
			return
		}
		requestLog(c).Warnw("commission_report_enqueue_failed", "error", err)
	}
	report, err := h.ReportService.RefreshCommissionReport(c.Request.Context())
	if err != nil {
		respondWithMappedError(c, err, vendorErrorRules, "error.internal")
		return
	}
	response.Success(c, gin.H{"queued": false, "report": report})
}
