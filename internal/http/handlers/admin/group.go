package admin

import (
	"github.com/built-mlm/internal/http/response"
	"github.com/built-mlm/internal/service"

	"github.com/gin-gonic/gin"
)

// GetGroups 分组列表
func (h *Handler) GetGroups(c *gin.Context) {
	groups, err := h.GroupService.List(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, groups)
}

// CreateGroupRequest 创建分组请求
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parent_id"`
}

// CreateGroup 创建分组
func (h *Handler) CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	var parentID uint
	if req.ParentID != nil {
		parentID = *req.ParentID
	}
	group, err := h.GroupService.Create(c.Request.Context(), service.CreateGroupInput{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    parentID,
	})
	if err != nil {
		respondWithMappedError(c, err, treeErrorRules, "error.internal")
		return
	}
	response.Success(c, group)
}

// GetGroupMembers 分组成员
func (h *Handler) GetGroupMembers(c *gin.Context) {
	groupID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	members, err := h.GroupService.ListMembers(c.Request.Context(), groupID)
	if err != nil {
		respondWithMappedError(c, err, treeErrorRules, "error.internal")
		return
	}
	response.Success(c, members)
}

// AddGroupMemberRequest 添加成员请求
type AddGroupMemberRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// AddGroupMember 添加分组成员
func (h *Handler) AddGroupMember(c *gin.Context) {
	groupID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req AddGroupMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.GroupService.AddMember(c.Request.Context(), groupID, req.UserID); err != nil {
		respondWithMappedError(c, err, treeErrorRules, "error.internal")
		return
	}
	response.Success(c, gin.H{"group_id": groupID, "user_id": req.UserID})
}

// RemoveGroupMember 移除分组成员
func (h *Handler) RemoveGroupMember(c *gin.Context) {
	groupID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseUintParam(c, "user_id")
	if !ok {
		return
	}
	if err := h.GroupService.RemoveMember(c.Request.Context(), groupID, userID); err != nil {
		respondWithMappedError(c, err, treeErrorRules, "error.internal")
		return
	}
	response.Success(c, nil)
}
