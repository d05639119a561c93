package public

import (
	"strings"

	handlershared "github.com/built-mlm/internal/http/handlers/shared"
	"github.com/built-mlm/internal/http/response"
	"github.com/built-mlm/internal/repository"
	"github.com/built-mlm/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// OrderItemRequest 订单项请求
type OrderItemRequest struct {
	Name      string          `json:"name" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required"`
}

// CreateOrder 下单并快照分销佣金
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	items := make([]service.CheckoutItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CheckoutItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	order, err := h.OrderService.Checkout(c.Request.Context(), service.CheckoutInput{
		UserID:   uid,
		Items:    items,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, "error.internal")
		return
	}
	response.Success(c, order)
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(c.Request.Context(), uid, orderID)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, "error.internal")
		return
	}
	response.Success(c, order)
}

// ListOrders 我的订单
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	pq := handlershared.ParsePageQuery(c, handlershared.DefaultPageSize)
	orders, total, err := h.OrderService.ListOrders(c.Request.Context(), repository.OrderListFilter{
		Page:     pq.Page,
		PageSize: pq.PageSize,
		UserID:   uid,
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, orders, pq.Pagination(total))
}
