package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/built-mlm/internal/authz"
	"github.com/built-mlm/internal/cache"
	"github.com/built-mlm/internal/config"
	adminhandlers "github.com/built-mlm/internal/http/handlers/admin"
	publichandlers "github.com/built-mlm/internal/http/handlers/public"
	"github.com/built-mlm/internal/http/response"
	"github.com/built-mlm/internal/logger"
	"github.com/built-mlm/internal/metrics"
	"github.com/built-mlm/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "mlm"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}
	adminLoginRule := loginRule
	adminLoginRule.Prefix = fmt.Sprintf("%s:rate:admin_login", redisPrefix)

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(MetricsMiddleware(metrics.NewHTTPMetrics(nil, nil)))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		public := apiV1.Group("/public")
		{
			public.GET("/vendors", publicHandler.GetPublicVendors)
			public.GET("/shops/:slug", publicHandler.GetShopBySlug)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
		}

		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(c.UserAuthService, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetUserMe)
			user.POST("/vendors/:id/join", publicHandler.JoinVendor)
			user.POST("/orders", publicHandler.CreateOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)

			vendor := user.Group("/vendor")
			vendor.Use(VendorOnlyMiddleware())
			{
				vendor.GET("/dashboard", publicHandler.GetVendorDashboard)
				vendor.GET("/shop", publicHandler.GetVendorShop)
				vendor.PUT("/shop", publicHandler.UpdateVendorShop)
			}
		}

		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			authorized := admin.Group("")
			authorized.Use(JWTAuthMiddleware(c.AuthService, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/me", adminHandler.GetAdminMe)

				// 分销设置
				authorized.GET("/settings/mlm", adminHandler.GetMLMSetting)
				authorized.PUT("/settings/mlm", adminHandler.UpdateMLMSetting)

				// 分组与分销树
				authorized.GET("/groups", adminHandler.GetGroups)
				authorized.POST("/groups", adminHandler.CreateGroup)
				authorized.GET("/groups/:id/members", adminHandler.GetGroupMembers)
				authorized.POST("/groups/:id/members", adminHandler.AddGroupMember)
				authorized.DELETE("/groups/:id/members/:user_id", adminHandler.RemoveGroupMember)

				// 用户与分销商
				authorized.GET("/users", adminHandler.GetAdminUsers)
				authorized.PUT("/users/:id/roles", adminHandler.UpdateUserRoles)
				authorized.GET("/vendors", adminHandler.GetAdminVendors)
				authorized.PUT("/vendors/:id/commission-rate", adminHandler.UpdateVendorCommissionRate)

				// 佣金报表
				authorized.GET("/reports/commissions", adminHandler.GetCommissionReport)
				authorized.POST("/reports/commissions/refresh", adminHandler.RefreshCommissionReport)

				// 权限
				authorized.GET("/authz/roles", adminHandler.GetAuthzRoles)
				authorized.GET("/authz/permissions", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAdminRoles)
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildAdminPermissionCatalog 从已注册路由生成可授权的权限清单
func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}
	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))
	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") || item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})
	return items
}

func deriveAdminPermissionModule(object string) string {
	segments := strings.Split(strings.TrimPrefix(strings.TrimSpace(object), "/"), "/")
	if len(segments) <= 1 || segments[0] != "admin" {
		return segments[0]
	}
	return segments[1]
}
