package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/engine"
)

// InteractedFilter 过滤掉用户已经交互过的商品：
// 只要用户对商品的亲和度 > 0（浏览/加购/喜欢/购买过且没被踩成 0），
// 该商品就不再出现在推荐结果里。
//
// 只有 rctx.ExcludeInteracted 打开时才生效。
// 亲和度从当前模型快照读取，与打分使用同一份数据。
type InteractedFilter struct {
	Model *engine.Model
}

// NewInteractedFilter 创建一个已交互过滤器。
func NewInteractedFilter(model *engine.Model) *InteractedFilter {
	return &InteractedFilter{Model: model}
}

func (f *InteractedFilter) Name() string {
	return "filter.interacted"
}

func (f *InteractedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || rctx == nil || !rctx.ExcludeInteracted {
		return false, nil
	}
	if f.Model == nil {
		return false, nil
	}

	affinity, ok := f.Model.Current().Affinity(rctx.UserID, item.ID)
	if !ok {
		return false, nil
	}
	return affinity > 0, nil
}
