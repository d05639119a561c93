package mlm

import "errors"

var (
	// ErrTreeCycle 分组父链出现环
	ErrTreeCycle = errors.New("vendor tree cycle detected")
	// ErrTreeDepthExceeded 分组父链超过最大深度
	ErrTreeDepthExceeded = errors.New("vendor tree depth exceeded")
)

// IsIntegrityError 判断是否为树结构数据完整性错误（环或深度超限）
func IsIntegrityError(err error) bool {
	return errors.Is(err, ErrTreeCycle) || errors.Is(err, ErrTreeDepthExceeded)
}
