package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/built-mlm/internal/cache"
	"github.com/built-mlm/internal/constants"
	"github.com/built-mlm/internal/logger"
	"github.com/built-mlm/internal/mlm"
	"github.com/built-mlm/internal/models"
	"github.com/built-mlm/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	commissionRateMin = decimal.Zero
	commissionRateMax = decimal.NewFromInt(100)
	shopValidate      = validator.New()
	shopNameQuotes    = strings.NewReplacer("'", "", "\u2019", "", "\"", "")
)

// VendorService 分销商管理（比例、角色、店铺、下级、加入）
type VendorService struct {
	commissionService *CommissionService
	settingService    *SettingService
	userRepo          repository.UserRepository
	userMetaRepo      repository.UserMetaRepository
	groupRepo         repository.GroupRepository
	maxDepth          int
}

// NewVendorService 创建分销商服务
func NewVendorService(
	commissionService *CommissionService,
	settingService *SettingService,
	userRepo repository.UserRepository,
	userMetaRepo repository.UserMetaRepository,
	groupRepo repository.GroupRepository,
	maxDepth int,
) *VendorService {
	if maxDepth <= 0 {
		maxDepth = mlm.DefaultMaxDepth
	}
	return &VendorService{
		commissionService: commissionService,
		settingService:    settingService,
		userRepo:          userRepo,
		userMetaRepo:      userMetaRepo,
		groupRepo:         groupRepo,
		maxDepth:          maxDepth,
	}
}

// VendorSummary 后台分销商列表项
type VendorSummary struct {
	UserID         uint            `json:"user_id"`
	Email          string          `json:"email"`
	DisplayName    string          `json:"display_name"`
	GroupID        uint            `json:"group_id"`
	GroupName      string          `json:"group_name"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
}

// VendorShop 店铺设置
type VendorShop struct {
	VendorID        uint   `json:"vendor_id"`
	PaypalEmail     string `json:"paypal_email"`
	ShopName        string `json:"shop_name"`
	ShopSlug        string `json:"shop_slug"`
	ShopDescription string `json:"shop_description"`
	ShopURL         string `json:"shop_url"`
}

// UpdateShopInput 店铺设置更新参数
type UpdateShopInput struct {
	PaypalEmail     string
	ShopName        string
	ShopDescription string
}

// PublicVendor 公开分销商列表项
type PublicVendor struct {
	VendorID    uint   `json:"vendor_id"`
	DisplayName string `json:"display_name"`
	ShopName    string `json:"shop_name"`
	ShopSlug    string `json:"shop_slug"`
	ShopURL     string `json:"shop_url"`
}

// SubVendor 下级分销商
type SubVendor struct {
	UserID      uint   `json:"user_id"`
	DisplayName string `json:"display_name"`
	GroupID     uint   `json:"group_id"`
}

func (s *VendorService) tree() (*mlm.Tree, error) {
	engine, err := s.commissionService.Engine()
	if err != nil {
		return nil, err
	}
	return engine.Tree(), nil
}

// ListVendors 后台分销商列表：所在分组与当前比例
func (s *VendorService) ListVendors(ctx context.Context, filter repository.UserListFilter) ([]VendorSummary, int64, error) {
	filter.Role = constants.RoleVendor
	users, total, err := s.userRepo.WithContext(ctx).List(filter)
	if err != nil {
		return nil, 0, err
	}
	if len(users) == 0 {
		return []VendorSummary{}, total, nil
	}
	ids := make([]uint, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
	}
	rates, err := s.userMetaRepo.WithContext(ctx).ListValues(ids, constants.UserMetaCommissionRate)
	if err != nil {
		return nil, 0, err
	}
	tree, err := s.tree()
	if err != nil {
		return nil, 0, err
	}
	groupNames := map[uint]string{}
	result := make([]VendorSummary, 0, len(users))
	for _, user := range users {
		item := VendorSummary{
			UserID:         user.ID,
			Email:          user.Email,
			DisplayName:    user.DisplayName,
			CommissionRate: parseCommissionRate(ctx, user.ID, rates[user.ID]),
		}
		groupID, ok, err := tree.ResolveVendorGroup(ctx, user.ID)
		if err != nil && !mlm.IsIntegrityError(err) {
			return nil, 0, err
		}
		if ok {
			item.GroupID = groupID
			if _, cached := groupNames[groupID]; !cached {
				group, err := s.groupRepo.WithContext(ctx).GetByID(groupID)
				if err != nil {
					return nil, 0, err
				}
				if group != nil {
					groupNames[groupID] = group.Name
				}
			}
			item.GroupName = groupNames[groupID]
		}
		result = append(result, item)
	}
	return result, total, nil
}

// SetCommissionRate 设置分销商佣金比例（0-100）
func (s *VendorService) SetCommissionRate(ctx context.Context, vendorID uint, rate decimal.Decimal) (decimal.Decimal, error) {
	if rate.LessThan(commissionRateMin) || rate.GreaterThan(commissionRateMax) {
		return decimal.Zero, ErrCommissionRateInvalid
	}
	if _, err := s.requireVendor(ctx, vendorID); err != nil {
		return decimal.Zero, err
	}
	normalized := rate.Round(models.MoneyPlaces)
	if err := s.userMetaRepo.WithContext(ctx).Set(vendorID, constants.UserMetaCommissionRate, normalized.String()); err != nil {
		return decimal.Zero, err
	}
	logger.Ctx(ctx).Infow("vendor_commission_rate_updated", "vendor_id", vendorID, "rate", normalized.String())
	return normalized, nil
}

// UpdateUserRoles 更新用户角色（授予或撤销 vendor）
func (s *VendorService) UpdateUserRoles(ctx context.Context, userID uint, roles []string) (*models.User, error) {
	normalized := make(models.StringArray, 0, len(roles))
	seen := map[string]struct{}{}
	for _, role := range roles {
		role = strings.ToLower(strings.TrimSpace(role))
		if role == "" {
			continue
		}
		if role != constants.RoleVendor && role != constants.RoleCustomer {
			return nil, fmt.Errorf("%w: %s", ErrRoleInvalid, role)
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		normalized = append(normalized, role)
	}
	repo := s.userRepo.WithContext(ctx)
	user, err := repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if err := repo.UpdateRoles(userID, normalized); err != nil {
		return nil, err
	}
	user.Roles = normalized
	if err := cache.DelUserAuthState(ctx, userID); err != nil {
		logger.Ctx(ctx).Warnw("user_auth_state_invalidate_failed", "user_id", userID, "error", err)
	}
	logger.Ctx(ctx).Infow("user_roles_updated", "user_id", userID, "roles", []string(normalized))
	return user, nil
}

// GetShop 读取店铺设置
func (s *VendorService) GetShop(ctx context.Context, vendorID uint) (*VendorShop, error) {
	if _, err := s.requireVendor(ctx, vendorID); err != nil {
		return nil, err
	}
	values, err := s.userMetaRepo.WithContext(ctx).GetValues(vendorID, []string{
		constants.UserMetaPaypalEmail,
		constants.UserMetaShopName,
		constants.UserMetaShopSlug,
		constants.UserMetaShopDescription,
	})
	if err != nil {
		return nil, err
	}
	shop := &VendorShop{
		VendorID:        vendorID,
		PaypalEmail:     values[constants.UserMetaPaypalEmail],
		ShopName:        values[constants.UserMetaShopName],
		ShopSlug:        values[constants.UserMetaShopSlug],
		ShopDescription: values[constants.UserMetaShopDescription],
	}
	if shop.ShopName != "" {
		shop.ShopURL, err = s.shopURL(shop.ShopSlug)
		if err != nil {
			return nil, err
		}
	}
	return shop, nil
}

// UpdateShop 保存店铺设置，店铺标识由名称生成
func (s *VendorService) UpdateShop(ctx context.Context, vendorID uint, input UpdateShopInput) (*VendorShop, error) {
	if _, err := s.requireVendor(ctx, vendorID); err != nil {
		return nil, err
	}
	paypal := strings.TrimSpace(input.PaypalEmail)
	if paypal != "" {
		if err := shopValidate.Var(paypal, "email"); err != nil {
			return nil, ErrPaypalEmailInvalid
		}
	}
	name := strings.TrimSpace(input.ShopName)
	slug := Slugify(name)

	metaRepo := s.userMetaRepo.WithContext(ctx)
	if slug != "" {
		owners, err := metaRepo.FindUserIDsByValue(constants.UserMetaShopSlug, slug)
		if err != nil {
			return nil, err
		}
		for _, owner := range owners {
			if owner != vendorID {
				return nil, ErrShopSlugTaken
			}
		}
	}

	values := map[string]string{
		constants.UserMetaPaypalEmail:     paypal,
		constants.UserMetaShopName:        name,
		constants.UserMetaShopSlug:        slug,
		constants.UserMetaShopDescription: strings.TrimSpace(input.ShopDescription),
	}
	err := metaRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.userMetaRepo.WithTx(tx)
		for _, key := range []string{
			constants.UserMetaPaypalEmail,
			constants.UserMetaShopName,
			constants.UserMetaShopSlug,
			constants.UserMetaShopDescription,
		} {
			if err := repo.Set(vendorID, key, values[key]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Infow("vendor_shop_updated", "vendor_id", vendorID, "shop_slug", slug)
	return s.GetShop(ctx, vendorID)
}

// ListPublicVendors 已开店的分销商列表
func (s *VendorService) ListPublicVendors(ctx context.Context, filter repository.VendorShopListFilter) ([]PublicVendor, int64, error) {
	if filter.PageSize <= 0 {
		filter.PageSize = constants.DefaultVendorListPageSize
	}
	users, total, err := s.userRepo.WithContext(ctx).ListVendorsWithShop(filter)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]uint, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
	}
	metaRepo := s.userMetaRepo.WithContext(ctx)
	names, err := metaRepo.ListValues(ids, constants.UserMetaShopName)
	if err != nil {
		return nil, 0, err
	}
	slugs, err := metaRepo.ListValues(ids, constants.UserMetaShopSlug)
	if err != nil {
		return nil, 0, err
	}
	setting, err := s.settingService.GetMLMSetting()
	if err != nil {
		return nil, 0, err
	}
	result := make([]PublicVendor, 0, len(users))
	for _, user := range users {
		result = append(result, PublicVendor{
			VendorID:    user.ID,
			DisplayName: user.DisplayName,
			ShopName:    names[user.ID],
			ShopSlug:    slugs[user.ID],
			ShopURL:     setting.ShopURL(slugs[user.ID]),
		})
	}
	return result, total, nil
}

// GetShopBySlug 按店铺标识查找分销商
func (s *VendorService) GetShopBySlug(ctx context.Context, slug string) (*VendorShop, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, ErrShopNotFound
	}
	owners, err := s.userMetaRepo.WithContext(ctx).FindUserIDsByValue(constants.UserMetaShopSlug, slug)
	if err != nil {
		return nil, err
	}
	for _, owner := range owners {
		shop, err := s.GetShop(ctx, owner)
		if errors.Is(err, ErrNotVendor) || errors.Is(err, ErrUserNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		shop.PaypalEmail = ""
		return shop, nil
	}
	return nil, ErrShopNotFound
}

// ListSubVendors 用户分销分组之下（不含本组）所有分组中的分销商
func (s *VendorService) ListSubVendors(ctx context.Context, userID uint) ([]SubVendor, error) {
	tree, err := s.tree()
	if err != nil {
		return nil, err
	}
	groupID, ok, err := tree.ResolveVendorGroup(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []SubVendor{}, nil
	}
	descendants, err := s.descendantGroupIDs(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(descendants) == 0 {
		return []SubVendor{}, nil
	}
	members, err := s.groupRepo.WithContext(ctx).ListMembersByGroupIDs(descendants)
	if err != nil {
		return nil, err
	}
	seen := map[uint]struct{}{userID: {}}
	result := make([]SubVendor, 0)
	for _, member := range members {
		if _, ok := seen[member.UserID]; ok {
			continue
		}
		if !member.User.HasRole(constants.RoleVendor) {
			continue
		}
		seen[member.UserID] = struct{}{}
		result = append(result, SubVendor{
			UserID:      member.UserID,
			DisplayName: member.User.DisplayName,
			GroupID:     member.GroupID,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

// descendantGroupIDs 广度优先收集子孙分组，遇到重复分组跳过
func (s *VendorService) descendantGroupIDs(ctx context.Context, groupID uint) ([]uint, error) {
	repo := s.groupRepo.WithContext(ctx)
	visited := map[uint]struct{}{groupID: {}}
	frontier := []uint{groupID}
	result := make([]uint, 0)
	for depth := 0; len(frontier) > 0; depth++ {
		if depth >= s.maxDepth {
			logger.Ctx(ctx).Warnw("sub_vendor_walk_depth_exceeded", "group_id", groupID, "max_depth", s.maxDepth)
			break
		}
		children, err := repo.ListChildren(frontier)
		if err != nil {
			return nil, err
		}
		next := make([]uint, 0, len(children))
		for _, child := range children {
			if _, ok := visited[child.ID]; ok {
				continue
			}
			visited[child.ID] = struct{}{}
			next = append(next, child.ID)
		}
		sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })
		result = append(result, next...)
		frontier = next
	}
	return result, nil
}

// JoinVendor 用户离开当前分销分组并加入指定分销商的分组
func (s *VendorService) JoinVendor(ctx context.Context, userID, vendorID uint) (uint, error) {
	if _, err := s.requireVendor(ctx, vendorID); err != nil {
		return 0, err
	}
	tree, err := s.tree()
	if err != nil {
		return 0, err
	}
	if tree.Config().RootGroupID == 0 {
		return 0, ErrRootGroupNotSet
	}
	target, ok, err := tree.ResolveVendorGroup(ctx, vendorID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrVendorGroupNotFound
	}
	current, hasCurrent, err := tree.ResolveVendorGroup(ctx, userID)
	if err != nil && !mlm.IsIntegrityError(err) {
		return 0, err
	}
	if hasCurrent && current == target {
		return target, nil
	}

	err = s.groupRepo.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.groupRepo.WithTx(tx)
		if hasCurrent {
			if err := repo.RemoveMember(current, userID); err != nil {
				return err
			}
		}
		return repo.AddMember(target, userID)
	})
	if err != nil {
		return 0, err
	}
	logger.Ctx(ctx).Infow("vendor_group_joined",
		"user_id", userID,
		"vendor_id", vendorID,
		"group_id", target,
		"left_group_id", current,
	)
	return target, nil
}

func (s *VendorService) requireVendor(ctx context.Context, vendorID uint) (*models.User, error) {
	user, err := s.userRepo.WithContext(ctx).GetByID(vendorID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.HasRole(constants.RoleVendor) {
		return nil, ErrNotVendor
	}
	return user, nil
}

func (s *VendorService) shopURL(slug string) (string, error) {
	setting, err := s.settingService.GetMLMSetting()
	if err != nil {
		return "", err
	}
	return setting.ShopURL(slug), nil
}

// Slugify 将店铺名称转换为链接标识：音标字符转写为 ASCII，引号删除，其余符号折叠为单个连字符
func Slugify(name string) string {
	return slug.Make(shopNameQuotes.Replace(strings.TrimSpace(name)))
}
