package engine

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/shoprec/core"
)

// Model 持有当前可用的模型快照，并负责训练产出新快照。
//
// 并发模型：
//   - 快照在旁路整体构建，完成后经 atomic 指针一次性发布
//   - 读请求（推荐/相似商品）无锁读当前指针，读到的要么是旧快照
//     要么是新快照，绝不会是半成品
//   - 并发训练互不串行化，各自发布自洽快照，后发布者胜出
//
// Model 应当通过构造函数创建后注入到请求处理方，
// 而不是作为包级单例被各处 import。
type Model struct {
	catalog core.CatalogStore
	k       int
	snap    atomic.Pointer[Snapshot]
}

// Option 配置 Model。
type Option func(*Model)

// WithNeighbors 设置 k-NN 打分的邻居数（默认 DefaultNeighbors）。
func WithNeighbors(k int) Option {
	return func(m *Model) {
		if k > 0 {
			m.k = k
		}
	}
}

// NewModel 创建一个未训练的 Model。首次请求或显式 Train 时才构建快照。
func NewModel(catalog core.CatalogStore, opts ...Option) *Model {
	m := &Model{
		catalog: catalog,
		k:       DefaultNeighbors,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Neighbors 返回 k-NN 邻居数。
func (m *Model) Neighbors() int { return m.k }

// Current 返回当前快照；从未训练过时返回 nil。
func (m *Model) Current() *Snapshot {
	return m.snap.Load()
}

// Ensure 保证存在一份快照：没有就训练一次（懒加载，不抢跑）。
func (m *Model) Ensure(ctx context.Context) error {
	if m.snap.Load() != nil {
		return nil
	}
	return m.Train(ctx)
}

// Train 全量重建模型：读目录与交互日志 → 亲和度矩阵 → 相似度矩阵，
// 然后原子替换当前快照。重复调用安全；零用户/零商品时发布空快照而不报错。
func (m *Model) Train(ctx context.Context) error {
	var (
		users        []int64
		products     []core.Product
		interactions []core.Interaction
	)

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		users, err = m.catalog.ListUsers(gctx)
		return err
	})
	eg.Go(func() error {
		var err error
		products, err = m.catalog.ListProducts(gctx)
		return err
	})
	eg.Go(func() error {
		var err error
		interactions, err = m.catalog.ListInteractions(gctx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return err
	}

	productIDs := make([]int64, len(products))
	for i, p := range products {
		productIDs[i] = p.ID
	}

	affinity, userIdx, productIdx := BuildAffinity(users, productIDs, interactions)

	snap := &Snapshot{
		affinity:   affinity,
		similarity: CosineSimilarity(affinity),
		userIDs:    users,
		productIDs: productIDs,
		userIdx:    userIdx,
		productIdx: productIdx,
	}
	m.snap.Store(snap)
	return nil
}

// PredictFor 用当前快照对用户做 k-NN 打分。
// 返回 (scores, snapshot, true)；快照为空或用户未知时返回 false。
// scores 与 snapshot 来自同一次指针读取，调用方可以放心用
// snapshot 做下标到商品 ID 的映射。
func (m *Model) PredictFor(userID int64) ([]float64, *Snapshot, bool) {
	snap := m.snap.Load()
	if snap.Empty() {
		return nil, snap, false
	}
	row, ok := snap.UserRow(userID)
	if !ok {
		return nil, snap, false
	}
	return PredictScores(row, snap.similarity, m.k), snap, true
}
