package models

import (
	"encoding/json"
	"strings"
)

// CommissionRecord 单层佣金记录，下单时快照到订单项元数据
type CommissionRecord struct {
	VendorID             uint  `json:"vendor_id"`                 // 获得佣金的分销商
	VendorCommissionRate Money `json:"vendor_commission_rate"`    // 该分销商的佣金比例（百分比）
	ChildVendorID        *uint `json:"child_vendor_id,omitempty"` // 下一级分销商（叶子层为空）
	ChildCommissionRate  Money `json:"child_commission_rate"`     // 下一级分销商的比例（叶子层为 0）
	NetRate              Money `json:"net_rate"`                  // 净比例 = 本级 - 下级
	CommissionEarned     Money `json:"commission_earned"`         // 本级实得佣金
}

// EncodeCommissionRecords 序列化佣金记录列表
func EncodeCommissionRecords(records []CommissionRecord) (string, error) {
	if records == nil {
		records = []CommissionRecord{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// DecodeCommissionRecords 反序列化佣金记录列表，空值返回空列表
func DecodeCommissionRecords(raw string) ([]CommissionRecord, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []CommissionRecord{}, nil
	}
	var records []CommissionRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []CommissionRecord{}
	}
	return records, nil
}
