package public

import (
	"errors"

	handlershared "github.com/built-mlm/internal/http/handlers/shared"
	"github.com/built-mlm/internal/http/response"
	"github.com/built-mlm/internal/i18n"
	"github.com/built-mlm/internal/mlm"
	"github.com/built-mlm/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []handlershared.MappedError, fallbackKey string) {
	handlershared.RespondMappedError(c, err, rules, response.CodeInternal, fallbackKey)
}

// respondWeakPassword 返回带策略参数的密码强度错误
func respondWeakPassword(c *gin.Context, err error) {
	var perr interface {
		Key() string
		Args() []interface{}
	}
	if errors.As(err, &perr) {
		msg := i18n.Sprintf(i18n.ResolveLocale(c), perr.Key(), perr.Args()...)
		handlershared.RespondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
		return
	}
	respondError(c, response.CodeBadRequest, "error.password_weak", nil)
}

var userAuthErrorRules = []handlershared.MappedError{
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrEmailExists, Code: response.CodeBadRequest, Key: "error.email_exists"},
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Key: "error.captcha_required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Key: "error.captcha_invalid"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.login_invalid"},
	{Target: service.ErrUserDisabled, Code: response.CodeUnauthorized, Key: "error.user_disabled"},
}

var vendorErrorRules = []handlershared.MappedError{
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
	{Target: service.ErrNotVendor, Code: response.CodeBadRequest, Key: "error.not_vendor"},
	{Target: service.ErrShopSlugTaken, Code: response.CodeConflict, Key: "error.shop_slug_taken"},
	{Target: service.ErrShopNotFound, Code: response.CodeNotFound, Key: "error.shop_not_found"},
	{Target: service.ErrPaypalEmailInvalid, Code: response.CodeBadRequest, Key: "error.paypal_email_invalid"},
	{Target: service.ErrRootGroupNotSet, Code: response.CodeBadRequest, Key: "error.root_group_not_set"},
	{Target: service.ErrRootGroupNotFound, Code: response.CodeBadRequest, Key: "error.root_group_not_found"},
	{Target: service.ErrVendorGroupNotFound, Code: response.CodeBadRequest, Key: "error.vendor_group_not_found"},
	{Target: mlm.ErrTreeCycle, Code: response.CodeConflict, Key: "error.tree_integrity"},
	{Target: mlm.ErrTreeDepthExceeded, Code: response.CodeConflict, Key: "error.tree_integrity"},
}

var orderErrorRules = []handlershared.MappedError{
	{Target: service.ErrOrderItemsEmpty, Code: response.CodeBadRequest, Key: "error.order_items_empty"},
	{Target: service.ErrOrderItemInvalid, Code: response.CodeBadRequest, Key: "error.order_item_invalid"},
	{Target: service.ErrOrderTooManyItems, Code: response.CodeBadRequest, Key: "error.order_too_many_items"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
}
