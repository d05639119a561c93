package queue

import (
	"encoding/json"

	"github.com/built-mlm/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCommissionReportRefresh 佣金报表缓存刷新任务
	TaskCommissionReportRefresh = constants.TaskCommissionReportRefresh
)

// 报表刷新原因
const (
	ReportRefreshReasonCheckout = "checkout"
	ReportRefreshReasonAdmin    = "admin"
	ReportRefreshReasonManual   = "manual"
)

// CommissionReportRefreshPayload 佣金报表刷新任务载荷
type CommissionReportRefreshPayload struct {
	OrderID uint   `json:"order_id,omitempty"` // 触发刷新的订单
	Reason  string `json:"reason"`             // checkout / admin / manual
}

// NewCommissionReportRefreshTask 创建佣金报表刷新任务
func NewCommissionReportRefreshTask(payload CommissionReportRefreshPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCommissionReportRefresh, body), nil
}

// ParseCommissionReportRefreshPayload 解析任务载荷，空载荷视为手动刷新
func ParseCommissionReportRefreshPayload(task *asynq.Task) (CommissionReportRefreshPayload, error) {
	var payload CommissionReportRefreshPayload
	if task == nil || len(task.Payload()) == 0 {
		payload.Reason = ReportRefreshReasonManual
		return payload, nil
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}
