package admin

import (
	"github.com/built-mlm/internal/http/response"
	"github.com/built-mlm/internal/service"

	"github.com/gin-gonic/gin"
)

// GetMLMSetting 获取分销设置
func (h *Handler) GetMLMSetting(c *gin.Context) {
	setting, err := h.SettingService.GetMLMSetting()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, setting)
}

// UpdateMLMSettingRequest 更新分销设置请求
type UpdateMLMSettingRequest struct {
	RootGroupID   uint   `json:"root_group_id"`
	PermalinkBase string `json:"permalink_base"`
	VendorsPageID uint   `json:"vendors_page_id"`
}

// UpdateMLMSetting 更新分销设置（根分组、店铺链接前缀）
func (h *Handler) UpdateMLMSetting(c *gin.Context) {
	var req UpdateMLMSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	setting, err := h.SettingService.UpdateMLMSetting(service.MLMSetting{
		RootGroupID:   req.RootGroupID,
		PermalinkBase: req.PermalinkBase,
		VendorsPageID: req.VendorsPageID,
	})
	if err != nil {
		respondWithMappedError(c, err, treeErrorRules, "error.internal")
		return
	}
	requestLog(c).Infow("mlm_setting_updated", "root_group_id", setting.RootGroupID, "permalink_base", setting.PermalinkBase)
	response.Success(c, setting)
}
