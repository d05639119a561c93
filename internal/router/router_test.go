package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/built-mlm/internal/authz"
	"github.com/built-mlm/internal/cache"
	"github.com/built-mlm/internal/config"
	"github.com/built-mlm/internal/http/response"
	"github.com/built-mlm/internal/logger"
	"github.com/built-mlm/internal/models"
	"github.com/built-mlm/internal/provider"
	"github.com/built-mlm/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

type routerTestEnv struct {
	engine    *gin.Engine
	container *provider.Container
	db        *gorm.DB
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func setupRouterTest(t *testing.T) *routerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.L = zap.NewNop()
	cache.UseClient(nil, "")

	dsn := fmt.Sprintf("file:router_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrateWith(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{
		JWT:     config.JWTConfig{SecretKey: "admin-secret", ExpireHours: 1},
		UserJWT: config.JWTConfig{SecretKey: "user-secret", ExpireHours: 1},
		Security: config.SecurityConfig{PasswordPolicy: config.PasswordPolicyConfig{
			MinLength:     8,
			RequireNumber: true,
		}},
		Order: config.OrderConfig{Currency: "USD", MaxItemsPerOrder: 10},
		MLM:   config.MLMConfig{MaxTreeDepth: 8, ReportCacheTTLSeconds: 60},
	}
	container := provider.NewContainerWithDB(cfg, db)
	return &routerTestEnv{
		engine:    SetupRouter(cfg, container),
		container: container,
		db:        db,
	}
}

func (env *routerTestEnv) createAdmin(t *testing.T, username string, isSuper bool) *models.Admin {
	t.Helper()
	hash, err := service.HashPassword("admin-pass-1")
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	admin := &models.Admin{Username: username, PasswordHash: hash, IsSuper: isSuper}
	if err := env.db.Create(admin).Error; err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	return admin
}

func (env *routerTestEnv) call(t *testing.T, method, path, token string, body interface{}) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s: http status want 200 got %d", method, path, w.Code)
	}
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("%s %s: decode envelope failed: %v body=%s", method, path, err, w.Body.String())
	}
	return resp
}

func (env *routerTestEnv) mustOK(t *testing.T, method, path, token string, body interface{}, dest interface{}) {
	t.Helper()
	resp := env.call(t, method, path, token, body)
	if resp.StatusCode != 0 {
		t.Fatalf("%s %s: status_code want 0 got %d msg=%s", method, path, resp.StatusCode, resp.Msg)
	}
	if dest != nil {
		if err := json.Unmarshal(resp.Data, dest); err != nil {
			t.Fatalf("%s %s: decode data failed: %v", method, path, err)
		}
	}
}

func (env *routerTestEnv) adminToken(t *testing.T, username string) string {
	t.Helper()
	var login struct {
		Token string `json:"token"`
	}
	env.mustOK(t, http.MethodPost, "/api/v1/admin/login", "", gin.H{"username": username, "password": "admin-pass-1"}, &login)
	return login.Token
}

func (env *routerTestEnv) registerUser(t *testing.T, email string) (uint, string) {
	t.Helper()
	var out struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	env.mustOK(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": email, "password": "password1"}, &out)
	return out.User.ID, out.Token
}

func TestAdminRoutesEnforceRBAC(t *testing.T) {
	env := setupRouterTest(t)
	env.createAdmin(t, "root", true)
	viewer := env.createAdmin(t, "viewer", false)
	if err := env.container.AuthzService.SetAdminRoles(viewer.ID, []string{authz.RoleReportViewer}); err != nil {
		t.Fatalf("set viewer roles failed: %v", err)
	}

	if resp := env.call(t, http.MethodGet, "/api/v1/admin/groups", "", nil); resp.StatusCode != 401 {
		t.Fatalf("missing token want 401 got %d", resp.StatusCode)
	}

	superToken := env.adminToken(t, "root")
	viewerToken := env.adminToken(t, "viewer")

	env.mustOK(t, http.MethodGet, "/api/v1/admin/groups", viewerToken, nil, nil)
	if resp := env.call(t, http.MethodPost, "/api/v1/admin/groups", viewerToken, gin.H{"name": "Root"}); resp.StatusCode != 403 {
		t.Fatalf("viewer create group want 403 got %d", resp.StatusCode)
	}

	var group models.Group
	env.mustOK(t, http.MethodPost, "/api/v1/admin/groups", superToken, gin.H{"name": "Root"}, &group)
	if group.ID == 0 || group.Name != "Root" {
		t.Fatalf("unexpected group %+v", group)
	}

	var me struct {
		Roles []string `json:"roles"`
	}
	env.mustOK(t, http.MethodGet, "/api/v1/admin/me", viewerToken, nil, &me)
	if len(me.Roles) != 1 || me.Roles[0] != "role:report_viewer" {
		t.Fatalf("unexpected viewer roles %v", me.Roles)
	}
	if resp := env.call(t, http.MethodPut, fmt.Sprintf("/api/v1/admin/authz/admins/%d/roles", viewer.ID), viewerToken, gin.H{"roles": []string{"tree_manager"}}); resp.StatusCode != 403 {
		t.Fatalf("viewer must not grant roles, got %d", resp.StatusCode)
	}
}

func TestVendorFlowOverHTTP(t *testing.T) {
	env := setupRouterTest(t)
	env.createAdmin(t, "root", true)
	adminToken := env.adminToken(t, "root")

	var root, annGroup models.Group
	env.mustOK(t, http.MethodPost, "/api/v1/admin/groups", adminToken, gin.H{"name": "Root"}, &root)
	env.mustOK(t, http.MethodPost, "/api/v1/admin/groups", adminToken, gin.H{"name": "Ann", "parent_id": root.ID}, &annGroup)
	env.mustOK(t, http.MethodPut, "/api/v1/admin/settings/mlm", adminToken, gin.H{"root_group_id": root.ID, "permalink_base": "/vendors/"}, nil)

	annID, annToken := env.registerUser(t, "ann@example.com")
	if resp := env.call(t, http.MethodGet, "/api/v1/vendor/dashboard", annToken, nil); resp.StatusCode != 403 {
		t.Fatalf("customer dashboard want 403 got %d", resp.StatusCode)
	}

	env.mustOK(t, http.MethodPut, fmt.Sprintf("/api/v1/admin/users/%d/roles", annID), adminToken, gin.H{"roles": []string{"vendor"}}, nil)
	env.mustOK(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/groups/%d/members", annGroup.ID), adminToken, gin.H{"user_id": annID}, nil)
	if resp := env.call(t, http.MethodPut, fmt.Sprintf("/api/v1/admin/vendors/%d/commission-rate", annID), adminToken, gin.H{"rate": "120"}); resp.StatusCode != 400 {
		t.Fatalf("rate above 100 want 400 got %d", resp.StatusCode)
	}
	env.mustOK(t, http.MethodPut, fmt.Sprintf("/api/v1/admin/vendors/%d/commission-rate", annID), adminToken, gin.H{"rate": "50"}, nil)

	var shop service.VendorShop
	env.mustOK(t, http.MethodPut, "/api/v1/vendor/shop", annToken, gin.H{
		"shop_name":    "Ann's Tea Co",
		"paypal_email": "ann@paypal.example.com",
	}, &shop)
	if shop.ShopSlug != "anns-tea-co" || shop.ShopURL != "/vendors/anns-tea-co/" {
		t.Fatalf("unexpected shop %+v", shop)
	}
	var publicShop service.VendorShop
	env.mustOK(t, http.MethodGet, "/api/v1/public/shops/anns-tea-co", "", nil, &publicShop)
	if publicShop.VendorID != annID || publicShop.PaypalEmail != "" {
		t.Fatalf("public shop must hide paypal email, got %+v", publicShop)
	}

	_, buyerToken := env.registerUser(t, "buyer@example.com")
	var joined struct {
		GroupID uint `json:"group_id"`
	}
	env.mustOK(t, http.MethodPost, fmt.Sprintf("/api/v1/vendors/%d/join", annID), buyerToken, nil, &joined)
	if joined.GroupID != annGroup.ID {
		t.Fatalf("join want group %d got %d", annGroup.ID, joined.GroupID)
	}

	var order service.OrderView
	env.mustOK(t, http.MethodPost, "/api/v1/orders", buyerToken, gin.H{
		"items": []gin.H{{"name": "Tea", "quantity": 1, "unit_price": "100"}},
	}, &order)
	if len(order.Items) != 1 || order.Items[0].Commission == nil {
		t.Fatalf("order item should carry commission snapshot: %+v", order.Items)
	}
	if got := order.Items[0].Commission.Commissions[0].CommissionEarned.StringFixed(2); got != "50.00" {
		t.Fatalf("leaf commission want 50.00 got %s", got)
	}

	var report cache.CommissionReport
	env.mustOK(t, http.MethodGet, "/api/v1/admin/reports/commissions", adminToken, nil, &report)
	if len(report.Rows) != 1 || report.Rows[0].VendorID != annID || report.Rows[0].Total != "50.00" {
		t.Fatalf("unexpected report %+v", report.Rows)
	}

	var dashboard service.VendorDashboard
	env.mustOK(t, http.MethodGet, "/api/v1/vendor/dashboard", annToken, nil, &dashboard)
	if len(dashboard.LineItems) != 1 {
		t.Fatalf("dashboard want 1 line item got %d", len(dashboard.LineItems))
	}

	if resp := env.call(t, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", order.ID), annToken, nil); resp.StatusCode != 404 {
		t.Fatalf("other user's order want 404 got %d", resp.StatusCode)
	}
}

func TestJoinVendorLogsOneEvent(t *testing.T) {
	env := setupRouterTest(t)
	env.createAdmin(t, "root", true)
	adminToken := env.adminToken(t, "root")

	var root, vendorGroup models.Group
	env.mustOK(t, http.MethodPost, "/api/v1/admin/groups", adminToken, gin.H{"name": "Root"}, &root)
	env.mustOK(t, http.MethodPost, "/api/v1/admin/groups", adminToken, gin.H{"name": "Bo", "parent_id": root.ID}, &vendorGroup)
	env.mustOK(t, http.MethodPut, "/api/v1/admin/settings/mlm", adminToken, gin.H{"root_group_id": root.ID}, nil)
	vendorID, _ := env.registerUser(t, "bo@example.com")
	env.mustOK(t, http.MethodPut, fmt.Sprintf("/api/v1/admin/users/%d/roles", vendorID), adminToken, gin.H{"roles": []string{"vendor"}}, nil)
	env.mustOK(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/groups/%d/members", vendorGroup.ID), adminToken, gin.H{"user_id": vendorID}, nil)
	_, buyerToken := env.registerUser(t, "cy@example.com")

	core, logs := observer.New(zap.InfoLevel)
	logger.L = zap.New(core)
	t.Cleanup(func() { logger.L = zap.NewNop() })

	env.mustOK(t, http.MethodPost, fmt.Sprintf("/api/v1/vendors/%d/join", vendorID), buyerToken, nil, nil)
	joined := logs.FilterMessage("vendor_group_joined").All()
	if len(joined) != 1 {
		t.Fatalf("join should log vendor_group_joined once, got %d", len(joined))
	}
}

func TestRegisterRequiresCaptchaWhenEnabled(t *testing.T) {
	env := setupRouterTest(t)
	env.container.CaptchaService = service.NewCaptchaService(config.CaptchaConfig{Register: true})

	var challenge struct {
		CaptchaID       string `json:"captcha_id"`
		ImageBase64     string `json:"image_base64"`
		RegisterEnabled bool   `json:"register_enabled"`
	}
	env.mustOK(t, http.MethodGet, "/api/v1/public/captcha/image", "", nil, &challenge)
	if challenge.CaptchaID == "" || challenge.ImageBase64 == "" || !challenge.RegisterEnabled {
		t.Fatalf("unexpected challenge %+v", challenge)
	}

	body := gin.H{"email": "dee@example.com", "password": "password1"}
	if resp := env.call(t, http.MethodPost, "/api/v1/auth/register", "", body); resp.StatusCode != response.CodeBadRequest {
		t.Fatalf("register without captcha want %d got %d", response.CodeBadRequest, resp.StatusCode)
	}
	body["captcha_id"] = challenge.CaptchaID
	body["captcha_code"] = "!!!!!"
	if resp := env.call(t, http.MethodPost, "/api/v1/auth/register", "", body); resp.StatusCode != response.CodeBadRequest {
		t.Fatalf("register with wrong captcha want %d got %d", response.CodeBadRequest, resp.StatusCode)
	}
	var count int64
	env.db.Model(&models.User{}).Where("email = ?", "dee@example.com").Count(&count)
	if count != 0 {
		t.Fatalf("user must not be created without a valid captcha")
	}
}

func TestBuildAdminPermissionCatalog(t *testing.T) {
	env := setupRouterTest(t)
	items := buildAdminPermissionCatalog(env.engine)
	found := false
	for _, item := range items {
		if item.Object == "/admin/login" {
			t.Fatalf("login route must not be listed")
		}
		if item.Permission == "PUT:/admin/vendors/:id/commission-rate" {
			found = true
			if item.Module != "vendors" {
				t.Fatalf("module want vendors got %s", item.Module)
			}
		}
	}
	if !found {
		t.Fatalf("commission rate permission missing from catalog")
	}
}
