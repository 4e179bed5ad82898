package recall

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// Source 表示一个可复用的召回源（k-NN 个性化 / 热门兜底 / ...）。
// 你可以把它理解为可独立调用的候选生成策略单元。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
