package admin

import (
	handlershared "github.com/built-mlm/internal/http/handlers/shared"
	"github.com/built-mlm/internal/http/response"
	"github.com/built-mlm/internal/mlm"
	"github.com/built-mlm/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []handlershared.MappedError, fallbackKey string) {
	handlershared.RespondMappedError(c, err, rules, response.CodeInternal, fallbackKey)
}

var treeErrorRules = []handlershared.MappedError{
	{Target: service.ErrGroupNotFound, Code: response.CodeNotFound, Key: "error.group_not_found"},
	{Target: service.ErrGroupParentNotFound, Code: response.CodeBadRequest, Key: "error.group_parent_not_found"},
	{Target: service.ErrGroupNameRequired, Code: response.CodeBadRequest, Key: "error.group_name_required"},
	{Target: service.ErrRootGroupNotFound, Code: response.CodeBadRequest, Key: "error.root_group_not_found"},
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
	{Target: mlm.ErrTreeCycle, Code: response.CodeConflict, Key: "error.tree_integrity"},
	{Target: mlm.ErrTreeDepthExceeded, Code: response.CodeConflict, Key: "error.tree_integrity"},
}

var vendorErrorRules = []handlershared.MappedError{
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
	{Target: service.ErrNotVendor, Code: response.CodeBadRequest, Key: "error.not_vendor"},
	{Target: service.ErrCommissionRateInvalid, Code: response.CodeBadRequest, Key: "error.commission_rate_invalid"},
	{Target: service.ErrRoleInvalid, Code: response.CodeBadRequest, Key: "error.role_invalid"},
	{Target: service.ErrRootGroupNotFound, Code: response.CodeBadRequest, Key: "error.root_group_not_found"},
	{Target: mlm.ErrTreeCycle, Code: response.CodeConflict, Key: "error.tree_integrity"},
	{Target: mlm.ErrTreeDepthExceeded, Code: response.CodeConflict, Key: "error.tree_integrity"},
}
