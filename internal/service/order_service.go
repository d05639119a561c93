package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/built-mlm/internal/cache"
	"github.com/built-mlm/internal/constants"
	"github.com/built-mlm/internal/logger"
	"github.com/built-mlm/internal/metrics"
	"github.com/built-mlm/internal/models"
	"github.com/built-mlm/internal/queue"
	"github.com/built-mlm/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultMaxItemsPerOrder = 100

// OrderService 下单与订单查询（宿主商城订单流程的最小替身）
type OrderService struct {
	orderRepo         repository.OrderRepository
	commissionService *CommissionService
	queueClient       *queue.Client
	currency          string
	maxItems          int
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, commissionService *CommissionService, queueClient *queue.Client, currency string, maxItems int) *OrderService {
	if maxItems <= 0 {
		maxItems = defaultMaxItemsPerOrder
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "USD"
	}
	return &OrderService{
		orderRepo:         orderRepo,
		commissionService: commissionService,
		queueClient:       queueClient,
		currency:          currency,
		maxItems:          maxItems,
	}
}

// CheckoutItem 下单商品行
type CheckoutItem struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// CheckoutInput 下单参数
type CheckoutInput struct {
	UserID   uint
	Items    []CheckoutItem
	ClientIP string
}

// OrderItemView 订单项及其佣金快照
type OrderItemView struct {
	models.OrderItem
	Commission *LineItemSnapshot `json:"commission,omitempty"`
}

// OrderView 订单详情
type OrderView struct {
	models.Order
	Items []OrderItemView `json:"items"`
}

// Checkout 创建订单并为每个订单项快照佣金
// 快照先在事务外计算，订单、订单项与快照元数据在同一事务中写入
func (s *OrderService) Checkout(ctx context.Context, input CheckoutInput) (*OrderView, error) {
	if input.UserID == 0 {
		return nil, ErrUserNotFound
	}
	items, total, err := s.buildItems(input.Items)
	if err != nil {
		return nil, err
	}

	snapshots := make([]*LineItemSnapshot, len(items))
	for i := range items {
		snapshot, err := s.commissionService.ComputeLineItem(ctx, input.UserID, items[i].TotalPrice.Decimal)
		if err != nil {
			metrics.Domain().ObserveOrder(metrics.ResultError)
			return nil, err
		}
		if snapshot == nil {
			metrics.Domain().ObserveSnapshot(metrics.ResultSkipped, 0)
		}
		snapshots[i] = snapshot
	}

	order := &models.Order{
		OrderNo:     generateOrderNo(),
		UserID:      input.UserID,
		Status:      constants.OrderStatusPlaced,
		Currency:    s.currency,
		TotalAmount: models.NewMoneyFromDecimal(total),
		ClientIP:    strings.TrimSpace(input.ClientIP),
	}
	err = s.orderRepo.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).Create(order, items); err != nil {
			return err
		}
		commission := s.commissionService.WithTx(tx)
		for i := range items {
			if err := commission.SaveLineItem(ctx, items[i].ID, snapshots[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		metrics.Domain().ObserveOrder(metrics.ResultError)
		return nil, err
	}
	metrics.Domain().ObserveOrder(metrics.ResultOK)

	logger.Ctx(ctx).Infow("order_placed",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"items", len(items),
		"total", order.TotalAmount.StringFixed(models.MoneyPlaces),
	)
	s.scheduleReportRefresh(ctx, order.ID)

	order.Items = items
	return buildOrderView(order, snapshots), nil
}

// GetOrder 获取用户自己的订单详情（含佣金快照）
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uint) (*OrderView, error) {
	order, err := s.orderRepo.WithContext(ctx).GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	snapshots := make([]*LineItemSnapshot, len(order.Items))
	for i, item := range order.Items {
		snapshot, err := SnapshotFromMeta(item.Meta)
		if err != nil {
			logger.Ctx(ctx).Warnw("order_item_snapshot_invalid", "order_item_id", item.ID, "error", err)
			continue
		}
		snapshots[i] = snapshot
	}
	return buildOrderView(order, snapshots), nil
}

// ListOrders 用户订单列表
func (s *OrderService) ListOrders(ctx context.Context, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.WithContext(ctx).ListByUser(filter)
}

func (s *OrderService) buildItems(input []CheckoutItem) ([]models.OrderItem, decimal.Decimal, error) {
	if len(input) == 0 {
		return nil, decimal.Zero, ErrOrderItemsEmpty
	}
	if len(input) > s.maxItems {
		return nil, decimal.Zero, ErrOrderTooManyItems
	}
	items := make([]models.OrderItem, 0, len(input))
	total := decimal.Zero
	for idx, raw := range input {
		name := strings.TrimSpace(raw.Name)
		if name == "" || raw.Quantity <= 0 || raw.UnitPrice.IsNegative() {
			return nil, decimal.Zero, fmt.Errorf("%w: line %d", ErrOrderItemInvalid, idx+1)
		}
		unit := models.NewMoneyFromDecimal(raw.UnitPrice)
		lineTotal := models.NewMoneyFromDecimal(unit.Decimal.Mul(decimal.NewFromInt(int64(raw.Quantity))))
		items = append(items, models.OrderItem{
			Name:       name,
			UnitPrice:  unit,
			Quantity:   raw.Quantity,
			TotalPrice: lineTotal,
		})
		total = total.Add(lineTotal.Decimal)
	}
	return items, total, nil
}

// scheduleReportRefresh 队列可用时异步刷新报表，否则直接让缓存失效
func (s *OrderService) scheduleReportRefresh(ctx context.Context, orderID uint) {
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueCommissionReportRefresh(queue.CommissionReportRefreshPayload{
			OrderID: orderID,
			Reason:  queue.ReportRefreshReasonCheckout,
		})
		if err == nil {
			return
		}
		logger.Ctx(ctx).Warnw("commission_report_refresh_enqueue_failed", "order_id", orderID, "error", err)
	}
	if err := cache.InvalidateCommissionReport(ctx); err != nil {
		logger.Ctx(ctx).Warnw("commission_report_invalidate_failed", "order_id", orderID, "error", err)
	}
}

func buildOrderView(order *models.Order, snapshots []*LineItemSnapshot) *OrderView {
	view := &OrderView{Order: *order, Items: make([]OrderItemView, 0, len(order.Items))}
	for i, item := range order.Items {
		item.Meta = nil
		entry := OrderItemView{OrderItem: item}
		if i < len(snapshots) {
			entry.Commission = snapshots[i]
		}
		view.Items = append(view.Items, entry)
	}
	view.Order.Items = nil
	return view
}

func generateOrderNo() string {
	return fmt.Sprintf("MLM%s%s", time.Now().Format("20060102150405"), randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteByte('0')
			continue
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String()
}
