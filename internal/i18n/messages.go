package i18n

var catalog = map[string]map[string]string{
	LocaleZH: {
		"error.bad_request":              "请求参数错误",
		"error.unauthorized":             "未登录或登录已过期",
		"error.token_invalid":            "登录凭证无效",
		"error.forbidden":                "无权访问",
		"error.vendor_only":              "仅分销商可访问",
		"error.not_found":                "资源不存在",
		"error.internal":                 "服务器内部错误",
		"error.too_many_requests":        "请求过于频繁，请稍后再试",
		"error.login_invalid":            "账号或密码错误",
		"error.user_disabled":            "账号已被禁用",
		"error.email_exists":             "邮箱已注册",
		"error.email_invalid":            "邮箱格式不正确",
		"error.captcha_required":         "请输入验证码",
		"error.captcha_invalid":          "验证码错误或已过期",
		"error.captcha_generate_failed":  "验证码生成失败",
		"error.password_weak":            "密码强度不足",
		"error.password_min_length":      "密码长度至少 %d 位",
		"error.password_require_upper":   "密码需包含大写字母",
		"error.password_require_lower":   "密码需包含小写字母",
		"error.password_require_number":  "密码需包含数字",
		"error.password_require_special": "密码需包含特殊字符",
		"error.id_invalid":               "ID 格式不正确",
		"error.user_not_found":           "用户不存在",
		"error.group_not_found":          "分组不存在",
		"error.group_parent_not_found":   "父分组不存在",
		"error.group_name_required":      "分组名称不能为空",
		"error.root_group_not_found":     "根分组不存在",
		"error.root_group_not_set":       "尚未配置分销根分组",
		"error.not_vendor":               "该用户不是分销商",
		"error.vendor_group_not_found":   "分销商不在分销树中",
		"error.commission_rate_invalid":  "佣金比例必须在 0 到 100 之间",
		"error.shop_slug_taken":          "店铺名称已被占用",
		"error.shop_not_found":           "店铺不存在",
		"error.paypal_email_invalid":     "PayPal 邮箱格式不正确",
		"error.role_invalid":             "角色不合法",
		"error.order_items_empty":        "订单商品不能为空",
		"error.order_item_invalid":       "订单商品参数错误",
		"error.order_too_many_items":     "订单商品数量超出限制",
		"error.order_not_found":          "订单不存在",
		"error.tree_integrity":           "分销树结构异常",
		"error.admin_not_found":          "管理员不存在",
		"error.admin_role_invalid":       "管理员角色不合法",
		"error.auth_header_invalid":      "Authorization 头格式错误",
		"error.token_revoked":            "登录凭证已失效，请重新登录",
		"error.login_too_many":           "登录尝试过于频繁，请 %d 秒后再试",
		"error.rate_limit_unavailable":   "限流服务不可用",
	},
	LocaleTW: {
		"error.bad_request":             "請求參數錯誤",
		"error.unauthorized":            "未登入或登入已過期",
		"error.forbidden":               "無權訪問",
		"error.vendor_only":             "僅分銷商可訪問",
		"error.not_found":               "資源不存在",
		"error.internal":                "伺服器內部錯誤",
		"error.too_many_requests":       "請求過於頻繁，請稍後再試",
		"error.login_invalid":           "帳號或密碼錯誤",
		"error.captcha_invalid":         "驗證碼錯誤或已過期",
		"error.password_min_length":     "密碼長度至少 %d 位",
		"error.commission_rate_invalid": "佣金比例必須在 0 到 100 之間",
		"error.shop_slug_taken":         "店鋪名稱已被佔用",
		"error.order_not_found":         "訂單不存在",
	},
	LocaleEN: {
		"error.bad_request":              "Invalid request parameters",
		"error.unauthorized":             "Not logged in or session expired",
		"error.token_invalid":            "Invalid token",
		"error.forbidden":                "Forbidden",
		"error.vendor_only":              "Vendors only",
		"error.not_found":                "Resource not found",
		"error.internal":                 "Internal server error",
		"error.too_many_requests":        "Too many requests, please try again later",
		"error.login_invalid":            "Invalid account or password",
		"error.user_disabled":            "Account disabled",
		"error.email_exists":             "Email already registered",
		"error.email_invalid":            "Invalid email",
		"error.captcha_required":         "Captcha required",
		"error.captcha_invalid":          "Captcha is wrong or expired",
		"error.captcha_generate_failed":  "Failed to generate captcha",
		"error.password_weak":            "Password is too weak",
		"error.password_min_length":      "Password must be at least %d characters",
		"error.password_require_upper":   "Password must contain an uppercase letter",
		"error.password_require_lower":   "Password must contain a lowercase letter",
		"error.password_require_number":  "Password must contain a number",
		"error.password_require_special": "Password must contain a special character",
		"error.id_invalid":               "Invalid id",
		"error.user_not_found":           "User not found",
		"error.group_not_found":          "Group not found",
		"error.group_parent_not_found":   "Parent group not found",
		"error.group_name_required":      "Group name is required",
		"error.root_group_not_found":     "Root group not found",
		"error.root_group_not_set":       "Vendor root group is not configured",
		"error.not_vendor":               "User is not a vendor",
		"error.vendor_group_not_found":   "Vendor is not part of the vendor tree",
		"error.commission_rate_invalid":  "Commission rate must be between 0 and 100",
		"error.shop_slug_taken":          "Shop name already taken",
		"error.shop_not_found":           "Shop not found",
		"error.paypal_email_invalid":     "Invalid PayPal email",
		"error.role_invalid":             "Invalid role",
		"error.order_items_empty":        "Order has no items",
		"error.order_item_invalid":       "Invalid order item",
		"error.order_too_many_items":     "Too many order items",
		"error.order_not_found":          "Order not found",
		"error.tree_integrity":           "Vendor tree is inconsistent",
		"error.admin_not_found":          "Admin not found",
		"error.admin_role_invalid":       "Invalid admin role",
		"error.auth_header_invalid":      "Malformed Authorization header",
		"error.token_revoked":            "Token revoked, please sign in again",
		"error.login_too_many":           "Too many login attempts, retry in %d seconds",
		"error.rate_limit_unavailable":   "Rate limiter unavailable",
	},
}
