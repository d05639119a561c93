package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/built-mlm/internal/constants"
	"github.com/built-mlm/internal/logger"
	"github.com/built-mlm/internal/metrics"
	"github.com/built-mlm/internal/mlm"
	"github.com/built-mlm/internal/models"
	"github.com/built-mlm/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LineItemSnapshot 订单项佣金快照
type LineItemSnapshot struct {
	VendorUserID uint                      `json:"vendor_user_id"`
	Commissions  []models.CommissionRecord `json:"commissions"`
}

// CommissionService 下单时计算并快照佣金
type CommissionService struct {
	settingService *SettingService
	directory      mlm.Directory
	itemMetaRepo   repository.OrderItemMetaRepository
	maxDepth       int
}

// NewCommissionService 创建佣金服务
func NewCommissionService(settingService *SettingService, directory mlm.Directory, itemMetaRepo repository.OrderItemMetaRepository, maxDepth int) *CommissionService {
	return &CommissionService{
		settingService: settingService,
		directory:      directory,
		itemMetaRepo:   itemMetaRepo,
		maxDepth:       maxDepth,
	}
}

// WithTx 绑定事务，快照与订单写入同一事务
func (s *CommissionService) WithTx(tx *gorm.DB) *CommissionService {
	if s == nil || tx == nil {
		return s
	}
	copied := *s
	copied.itemMetaRepo = s.itemMetaRepo.WithTx(tx)
	return &copied
}

// Engine 按当前设置构建计算引擎（每次调用读取最新根分组）
func (s *CommissionService) Engine() (*mlm.Engine, error) {
	setting, err := s.settingService.GetMLMSetting()
	if err != nil {
		return nil, err
	}
	return mlm.NewEngine(s.directory, mlm.Config{
		RootGroupID: setting.RootGroupID,
		MaxDepth:    s.maxDepth,
	}), nil
}

// SnapshotLineItem 为买家的一条订单项计算佣金并写入元数据
// 买家不在分销树中时返回 nil；树结构异常时记录告警并保存已计算的部分
func (s *CommissionService) SnapshotLineItem(ctx context.Context, buyerID, orderItemID uint, lineTotal decimal.Decimal) (*LineItemSnapshot, error) {
	snapshot, err := s.ComputeLineItem(ctx, buyerID, lineTotal)
	if err != nil || snapshot == nil {
		return nil, err
	}
	if err := s.SaveLineItem(ctx, orderItemID, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// ComputeLineItem 只计算不落库：买家 -> 分销分组 -> 分组分销商 -> 级联佣金
func (s *CommissionService) ComputeLineItem(ctx context.Context, buyerID uint, lineTotal decimal.Decimal) (*LineItemSnapshot, error) {
	if s == nil || s.directory == nil {
		return nil, nil
	}
	log := logger.Ctx(ctx, "buyer_id", buyerID)

	engine, err := s.Engine()
	if err != nil {
		return nil, err
	}
	tree := engine.Tree()
	if tree.Config().RootGroupID == 0 {
		log.Debugw("commission_snapshot_skipped_no_root")
		return nil, nil
	}

	groupID, ok, err := tree.ResolveVendorGroup(ctx, buyerID)
	if err != nil {
		if mlm.IsIntegrityError(err) {
			log.Warnw("commission_snapshot_vendor_group_unresolved", "error", err)
			return nil, nil
		}
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	vendorID, ok, err := tree.GroupVendorUser(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Debugw("commission_snapshot_group_without_vendor", "group_id", groupID)
		return nil, nil
	}

	records, err := engine.Calculate(ctx, vendorID, lineTotal)
	if err != nil {
		if !mlm.IsIntegrityError(err) {
			metrics.Domain().ObserveSnapshot(metrics.ResultError, 0)
			return nil, err
		}
		log.Warnw("commission_snapshot_partial", "vendor_id", vendorID, "levels", len(records), "error", err)
		metrics.Domain().ObserveSnapshot(metrics.ResultPartial, len(records))
	} else {
		metrics.Domain().ObserveSnapshot(metrics.ResultOK, len(records))
	}
	return &LineItemSnapshot{VendorUserID: vendorID, Commissions: records}, nil
}

// SaveLineItem 写入订单项快照，重复写入覆盖旧值
func (s *CommissionService) SaveLineItem(ctx context.Context, orderItemID uint, snapshot *LineItemSnapshot) error {
	if s == nil || snapshot == nil || snapshot.VendorUserID == 0 {
		return nil
	}
	encoded, err := models.EncodeCommissionRecords(snapshot.Commissions)
	if err != nil {
		return err
	}
	repo := s.itemMetaRepo.WithContext(ctx)
	if err := repo.Upsert(orderItemID, constants.OrderItemMetaVendorUserID, strconv.FormatUint(uint64(snapshot.VendorUserID), 10)); err != nil {
		return err
	}
	if err := repo.Upsert(orderItemID, constants.OrderItemMetaCommissions, encoded); err != nil {
		return err
	}
	logger.Ctx(ctx).Infow("commission_snapshot_saved",
		"order_item_id", orderItemID,
		"vendor_id", snapshot.VendorUserID,
		"levels", len(snapshot.Commissions),
	)
	return nil
}

// SnapshotFromMeta 从订单项元数据还原快照，没有快照时返回 nil
func SnapshotFromMeta(meta []models.OrderItemMeta) (*LineItemSnapshot, error) {
	var vendorRaw, commissionsRaw string
	var found bool
	for _, row := range meta {
		switch row.MetaKey {
		case constants.OrderItemMetaVendorUserID:
			vendorRaw = row.MetaValue
			found = true
		case constants.OrderItemMetaCommissions:
			commissionsRaw = row.MetaValue
		}
	}
	if !found {
		return nil, nil
	}
	vendorID, err := parseUintValue(vendorRaw)
	if err != nil {
		return nil, err
	}
	records, err := models.DecodeCommissionRecords(commissionsRaw)
	if err != nil {
		return nil, err
	}
	return &LineItemSnapshot{VendorUserID: vendorID, Commissions: records}, nil
}

func parseUintValue(raw string) (uint, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}
