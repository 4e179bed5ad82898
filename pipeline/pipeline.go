package pipeline

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// Pipeline 是 ShopRec 的核心抽象：把推荐逻辑拆成可组合的 Node 链。
// 个性化主链通常是 召回(knn) → 过滤(已交互) → 重排(topn)，
// 兜底链是 召回(hot) → 重排(topn)。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
