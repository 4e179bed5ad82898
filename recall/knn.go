package recall

import (
	"context"
	"sort"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/engine"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// KNNRecall 是基于物品协同过滤的个性化召回源（Item-CF k-NN）。
//
// 核心思想："被同一批用户喜欢的商品，相互相似"
//
// 算法流程：
//  1. 从当前模型快照取用户的亲和度行
//  2. 用 item-item 相似度矩阵做 k-NN 加权打分
//  3. 可选剔除用户已交互过的商品，按分数降序返回
//
// 快照为空或用户不在快照中时返回 (nil, nil)：
// 这不是错误，由上层 Recommender 落到热门兜底。
//
// KNNRecall 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type KNNRecall struct {
	Model *engine.Model
}

func (r *KNNRecall) Name() string        { return "recall.knn" }
func (r *KNNRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *KNNRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *KNNRecall) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Model == nil || rctx == nil {
		return nil, nil
	}

	scores, snap, ok := r.Model.PredictFor(rctx.UserID)
	if !ok {
		return nil, nil
	}

	// 已交互剔除交给 filter.InteractedFilter，召回只负责全量打分排序
	out := make([]*core.Item, 0, len(scores))
	for idx, score := range scores {
		it := core.NewItem(snap.ProductIDAt(idx))
		it.Score = score
		it.PutLabel("source", utils.Label{Value: "knn", Source: "recall"})
		out = append(out, it)
	}

	// 分数降序；平局按商品 ID 升序，保证同一快照上结果可复现
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
