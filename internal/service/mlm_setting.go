package service

import (
	"fmt"
	"strings"

	"github.com/built-mlm/internal/constants"
	"github.com/built-mlm/internal/models"
)

const mlmPermalinkBaseMaxRune = 100

// MLMSetting 分销插件设置
type MLMSetting struct {
	RootGroupID   uint   `json:"root_group_id"`   // 分销树根分组，0 表示未配置
	PermalinkBase string `json:"permalink_base"`  // 店铺链接前缀
	VendorsPageID uint   `json:"vendors_page_id"` // 分销商列表页
}

// MLMDefaultSetting 默认设置
func MLMDefaultSetting() MLMSetting {
	return MLMSetting{}
}

// NormalizeMLMSetting 归一化设置：去掉链接前缀首尾斜杠
func NormalizeMLMSetting(setting MLMSetting) MLMSetting {
	setting.PermalinkBase = strings.Trim(strings.TrimSpace(setting.PermalinkBase), "/")
	if runes := []rune(setting.PermalinkBase); len(runes) > mlmPermalinkBaseMaxRune {
		setting.PermalinkBase = string(runes[:mlmPermalinkBaseMaxRune])
	}
	return setting
}

// MLMSettingToMap 转换为 settings 存储结构
func MLMSettingToMap(setting MLMSetting) map[string]interface{} {
	normalized := NormalizeMLMSetting(setting)
	return map[string]interface{}{
		constants.SettingFieldRootGroupID:   normalized.RootGroupID,
		constants.SettingFieldPermalinkBase: normalized.PermalinkBase,
		constants.SettingFieldVendorsPageID: normalized.VendorsPageID,
	}
}

func mlmSettingFromJSON(raw models.JSON, fallback MLMSetting) MLMSetting {
	result := fallback
	if value, ok := raw[constants.SettingFieldRootGroupID]; ok {
		if parsed, err := parseSettingInt(value); err == nil && parsed >= 0 {
			result.RootGroupID = uint(parsed)
		}
	}
	if value, ok := raw[constants.SettingFieldPermalinkBase]; ok {
		result.PermalinkBase = parseSettingString(value)
	}
	if value, ok := raw[constants.SettingFieldVendorsPageID]; ok {
		if parsed, err := parseSettingInt(value); err == nil && parsed >= 0 {
			result.VendorsPageID = uint(parsed)
		}
	}
	return NormalizeMLMSetting(result)
}

// GetMLMSetting 获取分销设置（读取失败时返回默认值与错误）
func (s *SettingService) GetMLMSetting() (MLMSetting, error) {
	fallback := MLMDefaultSetting()
	if s == nil || s.repo == nil {
		return fallback, nil
	}
	value, err := s.GetByKey(constants.SettingKeyMLMConfig)
	if err != nil {
		return fallback, err
	}
	if value == nil {
		return fallback, nil
	}
	return mlmSettingFromJSON(value, fallback), nil
}

// UpdateMLMSetting 更新分销设置，非零根分组必须存在
func (s *SettingService) UpdateMLMSetting(setting MLMSetting) (MLMSetting, error) {
	normalized := NormalizeMLMSetting(setting)
	if normalized.RootGroupID != 0 && s.groupRepo != nil {
		group, err := s.groupRepo.GetByID(normalized.RootGroupID)
		if err != nil {
			return MLMDefaultSetting(), err
		}
		if group == nil {
			return MLMDefaultSetting(), fmt.Errorf("%w: %d", ErrRootGroupNotFound, normalized.RootGroupID)
		}
	}
	if _, err := s.Update(constants.SettingKeyMLMConfig, MLMSettingToMap(normalized)); err != nil {
		return MLMDefaultSetting(), err
	}
	return normalized, nil
}

// ShopURL 生成店铺链接 /<permalink_base>/<slug>/
func (setting MLMSetting) ShopURL(slug string) string {
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	if slug == "" {
		return ""
	}
	base := NormalizeMLMSetting(setting).PermalinkBase
	if base == "" {
		return "/" + slug + "/"
	}
	return "/" + base + "/" + slug + "/"
}
