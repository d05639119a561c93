package admin

import (
	"strings"

	"github.com/built-mlm/internal/constants"
	handlershared "github.com/built-mlm/internal/http/handlers/shared"
	"github.com/built-mlm/internal/http/response"
	"github.com/built-mlm/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func bindUserListFilter(c *gin.Context) repository.UserListFilter {
	pq := handlershared.ParsePageQuery(c, handlershared.DefaultPageSize)
	return repository.UserListFilter{
		Page:     pq.Page,
		PageSize: pq.PageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Status:   strings.TrimSpace(c.Query("status")),
		Role:     strings.TrimSpace(c.Query("role")),
	}
}

// GetAdminVendors 分销商列表（含分组与佣金比例）
func (h *Handler) GetAdminVendors(c *gin.Context) {
	filter := bindUserListFilter(c)
	filter.Role = constants.RoleVendor
	vendors, total, err := h.VendorService.ListVendors(c.Request.Context(), filter)
	if err != nil {
		respondWithMappedError(c, err, vendorErrorRules, "error.internal")
		return
	}
	response.SuccessWithPage(c, vendors, response.BuildPagination(filter.Page, filter.PageSize, total))
}

// GetAdminUsers 用户列表
func (h *Handler) GetAdminUsers(c *gin.Context) {
	filter := bindUserListFilter(c)
	users, total, err := h.UserRepo.WithContext(c.Request.Context()).List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, users, response.BuildPagination(filter.Page, filter.PageSize, total))
}

// UpdateCommissionRateRequest 佣金比例请求，百分比字符串或数字
type UpdateCommissionRateRequest struct {
	Rate *decimal.Decimal `json:"rate" binding:"required"`
}

// UpdateVendorCommissionRate 设置分销商佣金比例
func (h *Handler) UpdateVendorCommissionRate(c *gin.Context) {
	vendorID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req UpdateCommissionRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.commission_rate_invalid", err)
		return
	}
	rate, err := h.VendorService.SetCommissionRate(c.Request.Context(), vendorID, *req.Rate)
	if err != nil {
		respondWithMappedError(c, err, vendorErrorRules, "error.internal")
		return
	}
	adminID := c.GetUint(handlershared.AdminIDKey)
	requestLog(c).Infow("vendor_commission_rate_updated", "admin_id", adminID, "vendor_id", vendorID, "rate", rate.StringFixed(2))
	response.Success(c, gin.H{"vendor_id": vendorID, "rate": rate.StringFixed(2)})
}

// UpdateUserRolesRequest 设置用户角色请求
type UpdateUserRolesRequest struct {
	Roles []string `json:"roles"`
}

// UpdateUserRoles 设置用户角色（vendor / customer）
func (h *Handler) UpdateUserRoles(c *gin.Context) {
	userID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, err := h.VendorService.UpdateUserRoles(c.Request.Context(), userID, req.Roles)
	if err != nil {
		respondWithMappedError(c, err, vendorErrorRules, "error.internal")
		return
	}
	response.Success(c, user)
}
