package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rushteam/shoprec/core"
)

// MemoryCatalog 是内存实现的 CatalogStore，用于测试/开发/原型。
// 商城侧通过写方法（AddUser/AddProduct/RecordInteraction）喂数据，
// 进程重启后数据丢失。
type MemoryCatalog struct {
	mu           sync.RWMutex
	userIDs      []int64
	userSeen     map[int64]struct{}
	products     []core.Product
	productIdx   map[int64]int
	interactions []core.Interaction
	counts       map[int64]int64
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		userSeen:   make(map[int64]struct{}),
		productIdx: make(map[int64]int),
		counts:     make(map[int64]int64),
	}
}

func (m *MemoryCatalog) Name() string { return "memory" }

// AddUser 注册一个用户，重复注册是幂等的。
func (m *MemoryCatalog) AddUser(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.userSeen[id]; ok {
		return
	}
	m.userSeen[id] = struct{}{}
	m.userIDs = append(m.userIDs, id)
}

// AddProduct 新增或整体覆盖一个商品。
func (m *MemoryCatalog) AddProduct(p core.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idx, ok := m.productIdx[p.ID]; ok {
		m.products[idx] = p
		return
	}
	m.productIdx[p.ID] = len(m.products)
	m.products = append(m.products, p)
}

// SetStock 更新商品库存；商品不存在时忽略。
func (m *MemoryCatalog) SetStock(id int64, stock int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idx, ok := m.productIdx[id]; ok {
		m.products[idx].Stock = stock
	}
}

// RecordInteraction 追加一条交互事件。Timestamp 为零值时补当前时间。
func (m *MemoryCatalog) RecordInteraction(in core.Interaction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now()
	}
	m.interactions = append(m.interactions, in)
	m.counts[in.ProductID]++
}

func (m *MemoryCatalog) ListUsers(ctx context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]int64, len(m.userIDs))
	copy(out, m.userIDs)
	return out, nil
}

func (m *MemoryCatalog) ListProducts(ctx context.Context) ([]core.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]core.Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

func (m *MemoryCatalog) ListInteractions(ctx context.Context) ([]core.Interaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]core.Interaction, len(m.interactions))
	copy(out, m.interactions)
	return out, nil
}

func (m *MemoryCatalog) CountInteractionsByProduct(
	ctx context.Context,
	exclude map[int64]struct{},
) ([]core.ProductCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]core.ProductCount, 0, len(m.counts))
	for id, count := range m.counts {
		if _, ok := exclude[id]; ok {
			continue
		}
		out = append(out, core.ProductCount{ProductID: id, Count: count})
	}
	// 次数降序；平局按商品 ID 升序，保证排序结果可复现
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out, nil
}

func (m *MemoryCatalog) FetchProducts(
	ctx context.Context,
	ids []int64,
	inStockOnly bool,
) (map[int64]core.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[int64]core.Product, len(ids))
	for _, id := range ids {
		idx, ok := m.productIdx[id]
		if !ok {
			continue
		}
		p := m.products[idx]
		if inStockOnly && !p.InStock() {
			continue
		}
		result[id] = p
	}
	return result, nil
}

func (m *MemoryCatalog) Close() error { return nil }

// 确保 MemoryCatalog 实现了 core.CatalogStore 接口
var _ core.CatalogStore = (*MemoryCatalog)(nil)
