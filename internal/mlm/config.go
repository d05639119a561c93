package mlm

// DefaultMaxDepth 默认最大分销层级
const DefaultMaxDepth = 32

// Config 分销树计算配置
type Config struct {
	RootGroupID uint // 分销树根分组（0 表示未配置）
	MaxDepth    int  // 最大层级，<=0 时使用默认值
}

func (c Config) maxDepth() int {
	if c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}
