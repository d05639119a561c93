package public

import (
	"github.com/built-mlm/internal/constants"
	handlershared "github.com/built-mlm/internal/http/handlers/shared"
	"github.com/built-mlm/internal/http/response"
	"github.com/built-mlm/internal/repository"
	"github.com/built-mlm/internal/service"

	"github.com/gin-gonic/gin"
)

// GetVendorDashboard 分销商后台：下级分销商与佣金明细
func (h *Handler) GetVendorDashboard(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	dashboard, err := h.ReportService.Dashboard(c.Request.Context(), uid)
	if err != nil {
		respondWithMappedError(c, err, vendorErrorRules, "error.internal")
		return
	}
	response.Success(c, dashboard)
}

// GetVendorShop 读取当前分销商店铺设置
func (h *Handler) GetVendorShop(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	shop, err := h.VendorService.GetShop(c.Request.Context(), uid)
	if err != nil {
		respondWithMappedError(c, err, vendorErrorRules, "error.internal")
		return
	}
	response.Success(c, shop)
}

// UpdateVendorShopRequest 店铺设置请求
type UpdateVendorShopRequest struct {
	PaypalEmail     string `json:"paypal_email"`
	ShopName        string `json:"shop_name"`
	ShopDescription string `json:"shop_description"`
}

// UpdateVendorShop 保存店铺设置，店铺名称决定 slug
func (h *Handler) UpdateVendorShop(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateVendorShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	shop, err := h.VendorService.UpdateShop(c.Request.Context(), uid, service.UpdateShopInput{
		PaypalEmail:     req.PaypalEmail,
		ShopName:        req.ShopName,
		ShopDescription: req.ShopDescription,
	})
	if err != nil {
		respondWithMappedError(c, err, vendorErrorRules, "error.internal")
		return
	}
	response.Success(c, shop)
}

// JoinVendor 加入分销商分组（离开原分销商分组）
func (h *Handler) JoinVendor(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	vendorID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	groupID, err := h.VendorService.JoinVendor(c.Request.Context(), uid, vendorID)
	if err != nil {
		respondWithMappedError(c, err, vendorErrorRules, "error.internal")
		return
	}
	response.Success(c, gin.H{"vendor_id": vendorID, "group_id": groupID})
}

// GetPublicVendors 已开店分销商列表
func (h *Handler) GetPublicVendors(c *gin.Context) {
	pq := handlershared.ParsePageQuery(c, constants.DefaultVendorListPageSize)
	orderBy := c.DefaultQuery("orderby", constants.DefaultVendorListOrderBy)
	if orderBy != constants.VendorListOrderByDisplayKey {
		orderBy = constants.DefaultVendorListOrderBy
	}
	filter := repository.VendorShopListFilter{
		Page:     pq.Page,
		PageSize: pq.PageSize,
		OrderBy:  orderBy,
		Desc:     c.DefaultQuery("order", constants.DefaultVendorListOrderAsc) == "DESC",
	}
	vendors, total, err := h.VendorService.ListPublicVendors(c.Request.Context(), filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, vendors, pq.Pagination(total))
}

// GetShopBySlug 公开店铺页
func (h *Handler) GetShopBySlug(c *gin.Context) {
	shop, err := h.VendorService.GetShopBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondWithMappedError(c, err, vendorErrorRules, "error.internal")
		return
	}
	response.Success(c, shop)
}
