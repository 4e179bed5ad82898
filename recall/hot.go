package recall

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// Hot 是热门召回源：按交互总次数（不分行为类型）降序排热度，
// 只保留有库存的商品；热门供给不足时用目录里任意有库存商品补齐。
//
// 这是保底可用的基线：冷启动、未知用户、空模型都落到这里，
// 低数据量场景下也绝不报错。
// Hot 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Hot struct {
	Catalog core.CatalogStore
}

func (r *Hot) Name() string        { return "recall.hot" }
func (r *Hot) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Hot) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Hot) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	n := 10
	if rctx != nil && rctx.N > 0 {
		n = rctx.N
	}
	return r.Popular(ctx, n, nil)
}

// Popular 返回至多 n 个热门商品，跳过 exclude 中的 ID。
// 排序：交互次数降序 → 目录任意有库存商品补齐。
func (r *Hot) Popular(
	ctx context.Context,
	n int,
	exclude map[int64]struct{},
) ([]*core.Item, error) {
	if r.Catalog == nil || n <= 0 {
		return nil, nil
	}

	counts, err := r.Catalog.CountInteractionsByProduct(ctx, exclude)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(counts))
	for _, c := range counts {
		ids = append(ids, c.ProductID)
	}
	inStock, err := r.Catalog.FetchProducts(ctx, ids, true)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, n)
	chosen := make(map[int64]struct{}, n)
	for _, c := range counts {
		if len(out) >= n {
			break
		}
		if _, ok := inStock[c.ProductID]; !ok {
			continue
		}
		it := core.NewItem(c.ProductID)
		it.Score = float64(c.Count)
		it.PutLabel("source", utils.Label{Value: "hot", Source: "recall"})
		out = append(out, it)
		chosen[c.ProductID] = struct{}{}
	}

	if len(out) < n {
		// 热门供给耗尽：用目录里任意有库存、未被排除的商品补齐
		products, err := r.Catalog.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			if len(out) >= n {
				break
			}
			if !p.InStock() {
				continue
			}
			if _, ok := exclude[p.ID]; ok {
				continue
			}
			if _, ok := chosen[p.ID]; ok {
				continue
			}
			it := core.NewItem(p.ID)
			it.PutLabel("source", utils.Label{Value: "catalog_pad", Source: "recall"})
			out = append(out, it)
			chosen[p.ID] = struct{}{}
		}
	}
	return out, nil
}
