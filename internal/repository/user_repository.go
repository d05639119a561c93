package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/built-mlm/internal/constants"
	"github.com/built-mlm/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	ListByIDs(ids []uint) ([]models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	UpdateRoles(id uint, roles models.StringArray) error
	List(filter UserListFilter) ([]models.User, int64, error)
	ListVendorsWithShop(filter VendorShopListFilter) ([]models.User, int64, error)
	WithContext(ctx context.Context) UserRepository
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// WithContext 绑定请求上下文
func (r *GormUserRepository) WithContext(ctx context.Context) UserRepository {
	if ctx == nil {
		return r
	}
	return &GormUserRepository{db: r.db.WithContext(ctx)}
}

// GetByEmail 根据邮箱获取用户
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByID 根据 ID 获取用户
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, nil
	}
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ListByIDs 批量获取用户
func (r *GormUserRepository) ListByIDs(ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	var users []models.User
	if err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update 更新用户
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// UpdateRoles 更新角色列表
func (r *GormUserRepository) UpdateRoles(id uint, roles models.StringArray) error {
	if roles == nil {
		roles = models.StringArray{}
	}
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"roles":      roles,
		"updated_at": time.Now(),
	}).Error
}

// List 用户列表
func (r *GormUserRepository) List(filter UserListFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})

	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		condition, count := buildKeywordCondition(r.db, []string{"email", "display_name"})
		query = query.Where(condition, repeatLikeArgs("%"+keyword+"%", count)...)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Role != "" {
		query = query.Where(jsonArrayContainsCondition(r.db, "roles"), jsonArrayContainsArg(filter.Role))
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	return findPage[models.User](query, filter.Page, filter.PageSize, func(q *gorm.DB) *gorm.DB {
		return q.Order("id ASC")
	})
}

// ListVendorsWithShop 已设置店铺 slug 的分销商列表
func (r *GormUserRepository) ListVendorsWithShop(filter VendorShopListFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{}).
		Joins("JOIN user_meta ON user_meta.user_id = users.id AND user_meta.meta_key = ?", constants.UserMetaShopSlug).
		Where("user_meta.meta_value <> ''").
		Where("users.status = ?", constants.UserStatusActive).
		Where(jsonArrayContainsCondition(r.db, "users.roles"), jsonArrayContainsArg(constants.RoleVendor))

	direction := "ASC"
	if filter.Desc {
		direction = "DESC"
	}
	orderColumn := "users.created_at"
	if filter.OrderBy == constants.VendorListOrderByDisplayKey {
		orderColumn = "users.display_name"
	}
	return findPage[models.User](query, filter.Page, filter.PageSize, func(q *gorm.DB) *gorm.DB {
		return q.Order(orderColumn + " " + direction).Order("users.id ASC")
	})
}
