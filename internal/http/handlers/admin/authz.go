package admin

import (
	"github.com/built-mlm/internal/authz"
	"github.com/built-mlm/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetAuthzRoles 列出后台角色
func (h *Handler) GetAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, roles)
}

// SetAdminRolesRequest 设置管理员角色请求
type SetAdminRolesRequest struct {
	Roles []string `json:"roles"`
}

// SetAdminRoles 覆盖设置管理员角色（仅超级管理员可调用）
func (h *Handler) SetAdminRoles(c *gin.Context) {
	targetID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req SetAdminRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	admin, err := h.AdminRepo.GetByID(targetID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if admin == nil {
		respondError(c, response.CodeNotFound, "error.admin_not_found", nil)
		return
	}

	known, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	allowed := make(map[string]struct{}, len(known))
	for _, role := range known {
		allowed[role] = struct{}{}
	}
	for _, role := range req.Roles {
		normalized, err := authz.NormalizeRole(role)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.admin_role_invalid", nil)
			return
		}
		if _, ok := allowed[normalized]; !ok {
			respondError(c, response.CodeBadRequest, "error.admin_role_invalid", nil)
			return
		}
	}

	if err := h.AuthzService.SetAdminRoles(targetID, req.Roles); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	roles, err := h.AuthzService.GetAdminRoles(targetID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	requestLog(c).Infow("admin_roles_updated", "target_admin_id", targetID, "roles", roles)
	response.Success(c, gin.H{"admin_id": targetID, "roles": roles})
}
