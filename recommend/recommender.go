package recommend

import (
	"context"
	"log/slog"
	"sort"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/engine"
	"github.com/rushteam/shoprec/filter"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/recall"
	"github.com/rushteam/shoprec/rerank"
)

const (
	// DefaultRecommendations 是推荐位的默认结果数。
	DefaultRecommendations = 10

	// DefaultSimilar 是相似商品栏的默认结果数。
	DefaultSimilar = 5
)

// Recommender 是推荐引擎对商城侧的统一门面，串起
// 训练（build → train）与请求（score → rank → fallback）两条链路。
//
// 请求链路：
//   - Recommend: knn 召回 → 已交互过滤 → TopN → 库存解析 → 热门补齐
//   - SimilarProducts: 相似度行 → TopN → 库存解析（不足不补齐）→ 类目兜底
//
// 个性化不可用（未知用户/空模型）时自动落到热门兜底，
// 低数据量场景下所有操作都返回（可能为空的）列表而不是报错。
//
// Recommender 持有唯一的模型实例，应当在进程启动时构建一次，
// 注入到请求处理方使用。
type Recommender struct {
	catalog core.CatalogStore
	model   *engine.Model
	trainer *engine.Trainer
	hot     *recall.Hot
}

// Option 配置 Recommender。
type Option func(*options)

type options struct {
	neighbors int
	logger    *slog.Logger
}

// WithNeighbors 设置 k-NN 打分的邻居数。
func WithNeighbors(k int) Option {
	return func(o *options) { o.neighbors = k }
}

// WithLogger 设置异步重训失败时使用的日志器。
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New 创建一个 Recommender 并启动后台训练器。
// 模型是懒加载的：首次请求或首次 Train 才会构建快照。
func New(catalog core.CatalogStore, opts ...Option) *Recommender {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var modelOpts []engine.Option
	if o.neighbors > 0 {
		modelOpts = append(modelOpts, engine.WithNeighbors(o.neighbors))
	}
	model := engine.NewModel(catalog, modelOpts...)

	return &Recommender{
		catalog: catalog,
		model:   model,
		trainer: engine.NewTrainer(model, o.logger),
		hot:     &recall.Hot{Catalog: catalog},
	}
}

// Model 返回底层模型（供自定义 Pipeline / config 工厂使用）。
func (r *Recommender) Model() *engine.Model { return r.model }

// Train 同步全量重建模型快照。空目录下也能正常完成。
func (r *Recommender) Train(ctx context.Context) error {
	return r.model.Train(ctx)
}

// NotifyFeedback 在结账/点赞/点踩等业务动作后调用：
// 异步提交一次重训，永不阻塞、永不报错，失败由训练器记日志。
func (r *Recommender) NotifyFeedback() {
	r.trainer.Submit()
}

// Close 停止后台训练器并关闭底层存储。
func (r *Recommender) Close() error {
	r.trainer.Close()
	return r.catalog.Close()
}

// Recommend 为用户生成至多 n 个有库存的推荐商品，按预测分降序。
//
//   - excludeInteracted 为 true 时剔除用户已交互过（亲和度 > 0）的商品，
//     补齐环节同样不让它们回流
//   - 未知用户或空模型：纯热门兜底
//   - 库存过滤后不足 n 个：用热门结果去重补齐，补无可补为止
func (r *Recommender) Recommend(
	ctx context.Context,
	userID int64,
	n int,
	excludeInteracted bool,
) ([]core.Product, error) {
	if n <= 0 {
		n = DefaultRecommendations
	}
	if err := r.model.Ensure(ctx); err != nil {
		return nil, err
	}

	rctx := &core.RecommendContext{
		UserID:            userID,
		N:                 n,
		ExcludeInteracted: excludeInteracted,
	}
	p := &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&recall.KNNRecall{Model: r.model},
			&filter.FilterNode{Filters: []filter.Filter{
				filter.NewInteractedFilter(r.model),
			}},
			&rerank.TopNNode{N: n},
		},
	}
	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	// 库存解析，保持排序；未知用户时 items 为空，直接整段走热门补齐
	selected, err := r.resolveInStock(ctx, items)
	if err != nil {
		return nil, err
	}

	if len(selected) < n {
		exclude := make(map[int64]struct{}, len(selected))
		for _, p := range selected {
			exclude[p.ID] = struct{}{}
		}
		if excludeInteracted {
			// 已交互商品不许借热门补齐回流
			snap := r.model.Current()
			for idx := 0; idx < snap.NumProducts(); idx++ {
				id := snap.ProductIDAt(idx)
				if aff, ok := snap.Affinity(userID, id); ok && aff > 0 {
					exclude[id] = struct{}{}
				}
			}
		}
		padded, err := r.hot.Popular(ctx, n-len(selected), exclude)
		if err != nil {
			return nil, err
		}
		pads, err := r.resolveInStock(ctx, padded)
		if err != nil {
			return nil, err
		}
		selected = append(selected, pads...)
	}

	if len(selected) > n {
		selected = selected[:n]
	}
	return selected, nil
}

// SimilarProducts 返回与给定商品最相似的至多 n 个有库存商品。
//
//   - 商品不在当前快照中（如训练后新上架）：退化为同类目、有库存、
//     排除自身的兜底列表
//   - 正常路径只取正相似度邻居，自相似永远不会被选中；
//     库存过滤减员不补齐（与推荐位不同）
func (r *Recommender) SimilarProducts(
	ctx context.Context,
	product core.Product,
	n int,
) ([]core.Product, error) {
	if n <= 0 {
		n = DefaultSimilar
	}
	if err := r.model.Ensure(ctx); err != nil {
		return nil, err
	}

	snap := r.model.Current()
	simRow, ok := snap.SimilarityRow(product.ID)
	if !ok {
		return r.similarByCategory(ctx, product, n)
	}

	items := make([]*core.Item, 0, len(simRow))
	for idx, sim := range simRow {
		id := snap.ProductIDAt(idx)
		if id == product.ID || sim <= 0 {
			continue // 排除自身和非正相似度
		}
		it := core.NewItem(id)
		it.Score = sim
		items = append(items, it)
	}
	sortItemsByScore(items)
	if len(items) > n {
		items = items[:n]
	}

	return r.resolveInStock(ctx, items)
}

// similarByCategory 是快照外商品的兜底：同类目、有库存、排除自身。
func (r *Recommender) similarByCategory(
	ctx context.Context,
	product core.Product,
	n int,
) ([]core.Product, error) {
	products, err := r.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]core.Product, 0, n)
	for _, p := range products {
		if len(out) >= n {
			break
		}
		if p.ID == product.ID || !p.InStock() {
			continue
		}
		if p.Category != product.Category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// resolveInStock 把候选 items 解析成有库存的商品记录，保持原排序。
func (r *Recommender) resolveInStock(
	ctx context.Context,
	items []*core.Item,
) ([]core.Product, error) {
	if len(items) == 0 {
		return []core.Product{}, nil
	}

	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	fetched, err := r.catalog.FetchProducts(ctx, ids, true)
	if err != nil {
		return nil, err
	}

	out := make([]core.Product, 0, len(items))
	for _, it := range items {
		if p, ok := fetched[it.ID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func sortItemsByScore(items []*core.Item) {
	// 分数降序；平局按商品 ID 升序，保证同一快照上结果可复现
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})
}
