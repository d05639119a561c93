package mlm

import (
	"context"
	"fmt"

	"github.com/built-mlm/internal/models"

	"github.com/shopspring/decimal"
)

// RoundingMode 佣金金额舍入方式
type RoundingMode int

const (
	// RoundHalfUp 恰好一半时向正无穷进位：0.125 -> 0.13，-0.125 -> -0.12
	RoundHalfUp RoundingMode = iota
	// RoundHalfAwayFromZero 恰好一半时远离零：-0.125 -> -0.13
	RoundHalfAwayFromZero
)

const (
	// RoundPlaces 佣金金额保留小数位
	RoundPlaces = 2
	// CommissionRounding 佣金金额使用的舍入方式
	CommissionRounding = RoundHalfUp
)

var hundred = decimal.NewFromInt(100)

// Round 按舍入方式保留 places 位小数
func (m RoundingMode) Round(d decimal.Decimal, places int32) decimal.Decimal {
	switch m {
	case RoundHalfAwayFromZero:
		return d.Round(places)
	default:
		return d.Add(decimal.New(5, -(places + 1))).RoundFloor(places)
	}
}

// RoundCommission 按佣金舍入规则计算 price × rate / 100
func RoundCommission(price, rate decimal.Decimal) decimal.Decimal {
	return CommissionRounding.Round(price.Mul(rate).Div(hundred), RoundPlaces)
}

// Engine 佣金级联计算
type Engine struct {
	tree *Tree
	dir  Directory
}

// NewEngine 创建佣金计算引擎
func NewEngine(dir Directory, cfg Config) *Engine {
	return &Engine{tree: NewTree(dir, cfg), dir: dir}
}

// Tree 返回引擎使用的分销树查询
func (e *Engine) Tree() *Tree {
	if e == nil {
		return nil
	}
	return e.tree
}

// Calculate 从售出分销商开始向根方向计算各级佣金，结果按叶子到根排序
func (e *Engine) Calculate(ctx context.Context, vendorID uint, price decimal.Decimal) ([]models.CommissionRecord, error) {
	return e.CalculateFrom(ctx, vendorID, nil, decimal.Zero, price)
}

// CalculateFrom 从指定层级继续计算，childVendorID/childRate 为下一级分销商及其比例
// 出现环或超出最大深度时返回已计算的记录与对应错误
func (e *Engine) CalculateFrom(ctx context.Context, vendorID uint, childVendorID *uint, childRate decimal.Decimal, price decimal.Decimal) ([]models.CommissionRecord, error) {
	records := make([]models.CommissionRecord, 0)
	if e == nil || e.dir == nil {
		return records, nil
	}
	root := e.tree.cfg.RootGroupID
	maxDepth := e.tree.cfg.maxDepth()
	visited := make(map[uint]struct{})

	for vendorID != 0 {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		groupID, ok, err := e.tree.ResolveVendorGroup(ctx, vendorID)
		if err != nil {
			return records, err
		}
		if !ok {
			return records, nil
		}
		if _, seen := visited[groupID]; seen {
			return records, fmt.Errorf("%w: group %d reached twice from vendor %d", ErrTreeCycle, groupID, vendorID)
		}
		if len(records) >= maxDepth {
			return records, fmt.Errorf("%w: more than %d commission levels", ErrTreeDepthExceeded, maxDepth)
		}
		visited[groupID] = struct{}{}

		rate, err := e.dir.GetCommissionRate(ctx, vendorID)
		if err != nil {
			return records, err
		}
		records = append(records, buildRecord(vendorID, rate, childVendorID, childRate, price))

		group, err := e.dir.GetGroup(ctx, groupID)
		if err != nil {
			return records, err
		}
		if group == nil || group.ParentID == 0 || group.ParentID == root {
			return records, nil
		}
		nextVendorID, ok, err := e.tree.GroupVendorUser(ctx, group.ParentID)
		if err != nil {
			return records, err
		}
		if !ok {
			return records, nil
		}
		child := vendorID
		childVendorID = &child
		childRate = rate
		vendorID = nextVendorID
	}
	return records, nil
}

func buildRecord(vendorID uint, rate decimal.Decimal, childVendorID *uint, childRate, price decimal.Decimal) models.CommissionRecord {
	net := rate.Sub(childRate)
	earned := RoundCommission(price, net)
	var child *uint
	if childVendorID != nil {
		id := *childVendorID
		child = &id
	}
	return models.CommissionRecord{
		VendorID:             vendorID,
		VendorCommissionRate: models.NewMoneyFromDecimal(rate),
		ChildVendorID:        child,
		ChildCommissionRate:  models.NewMoneyFromDecimal(childRate),
		NetRate:              models.NewMoneyFromDecimal(net),
		CommissionEarned:     models.NewMoneyFromDecimal(earned),
	}
}
