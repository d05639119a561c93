package repository

import (
	"context"
	"errors"
	"time"

	"github.com/built-mlm/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserMetaRepository 用户元数据访问接口
type UserMetaRepository interface {
	Get(userID uint, key string) (*models.UserMeta, error)
	GetValues(userID uint, keys []string) (map[string]string, error)
	ListValues(userIDs []uint, key string) (map[uint]string, error)
	Set(userID uint, key, value string) error
	Delete(userID uint, key string) error
	FindUserIDsByValue(key, value string) ([]uint, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) UserMetaRepository
	WithContext(ctx context.Context) UserMetaRepository
}

// GormUserMetaRepository GORM 实现
type GormUserMetaRepository struct {
	db *gorm.DB
}

// NewUserMetaRepository 创建用户元数据仓库
func NewUserMetaRepository(db *gorm.DB) *GormUserMetaRepository {
	return &GormUserMetaRepository{db: db}
}

// Transaction 执行事务
func (r *GormUserMetaRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// WithTx 绑定事务
func (r *GormUserMetaRepository) WithTx(tx *gorm.DB) UserMetaRepository {
	if tx == nil {
		return r
	}
	return &GormUserMetaRepository{db: tx}
}

// WithContext 绑定请求上下文
func (r *GormUserMetaRepository) WithContext(ctx context.Context) UserMetaRepository {
	if ctx == nil {
		return r
	}
	return &GormUserMetaRepository{db: r.db.WithContext(ctx)}
}

// Get 获取单个元数据，不存在返回 nil
func (r *GormUserMetaRepository) Get(userID uint, key string) (*models.UserMeta, error) {
	var meta models.UserMeta
	if err := r.db.Where("user_id = ? AND meta_key = ?", userID, key).First(&meta).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meta, nil
}

// GetValues 批量获取一个用户的多个元数据
func (r *GormUserMetaRepository) GetValues(userID uint, keys []string) (map[string]string, error) {
	result := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return result, nil
	}
	var rows []models.UserMeta
	if err := r.db.Where("user_id = ? AND meta_key IN ?", userID, keys).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.MetaKey] = row.MetaValue
	}
	return result, nil
}

// ListValues 批量获取多个用户同一键的元数据
func (r *GormUserMetaRepository) ListValues(userIDs []uint, key string) (map[uint]string, error) {
	result := make(map[uint]string, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}
	var rows []models.UserMeta
	if err := r.db.Where("user_id IN ? AND meta_key = ?", userIDs, key).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.UserID] = row.MetaValue
	}
	return result, nil
}

// Set 写入元数据（存在则覆盖）
func (r *GormUserMetaRepository) Set(userID uint, key, value string) error {
	meta := models.UserMeta{
		UserID:    userID,
		MetaKey:   key,
		MetaValue: value,
		UpdatedAt: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_value", "updated_at"}),
	}).Create(&meta).Error
}

// Delete 删除元数据
func (r *GormUserMetaRepository) Delete(userID uint, key string) error {
	return r.db.Where("user_id = ? AND meta_key = ?", userID, key).Delete(&models.UserMeta{}).Error
}

// FindUserIDsByValue 根据键值查找用户 ID（升序）
func (r *GormUserMetaRepository) FindUserIDsByValue(key, value string) ([]uint, error) {
	ids := make([]uint, 0)
	err := r.db.Model(&models.UserMeta{}).
		Where("meta_key = ? AND meta_value = ?", key, value).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
