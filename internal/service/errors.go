package service

import "errors"

// 通用错误
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("password does not satisfy policy")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrUserDisabled       = errors.New("user disabled")
)

// 验证码错误
var (
	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")
)

// 分销业务错误
var (
	ErrMLMConfigInvalid      = errors.New("mlm config invalid")
	ErrRootGroupNotFound     = errors.New("root group not found")
	ErrRootGroupNotSet       = errors.New("root group not configured")
	ErrGroupNotFound         = errors.New("group not found")
	ErrGroupParentNotFound   = errors.New("parent group not found")
	ErrGroupNameRequired     = errors.New("group name required")
	ErrUserNotFound          = errors.New("user not found")
	ErrNotVendor             = errors.New("user is not a vendor")
	ErrVendorGroupNotFound   = errors.New("vendor group not found")
	ErrCommissionRateInvalid = errors.New("commission rate must be between 0 and 100")
	ErrShopSlugTaken         = errors.New("shop slug already taken")
	ErrShopNotFound          = errors.New("shop not found")
	ErrPaypalEmailInvalid    = errors.New("paypal email invalid")
	ErrRoleInvalid           = errors.New("role invalid")
)

// 订单错误
var (
	ErrOrderItemsEmpty   = errors.New("order items empty")
	ErrOrderItemInvalid  = errors.New("order item invalid")
	ErrOrderTooManyItems = errors.New("too many order items")
	ErrOrderNotFound     = errors.New("order not found")
)
