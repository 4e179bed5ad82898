package engine

import "gonum.org/v1/gonum/mat"

// Snapshot 是一次训练产出的完整模型快照：
// 亲和度矩阵、相似度矩阵、行/列下标与实体 ID 的映射。
//
// 快照一旦构建完成就不再修改，整体经 atomic 指针发布替换，
// 不存在部分更新；下次训练产出新快照整体替换旧快照。
// 下标映射使用 map（ID → index），避免训练时每条事件 O(n) 扫描列表。
type Snapshot struct {
	affinity   *mat.Dense // n_users × n_products，取值 [0, 5]
	similarity *mat.Dense // n_products × n_products，对称
	userIDs    []int64
	productIDs []int64
	userIdx    map[int64]int
	productIdx map[int64]int
}

// Empty 表示快照里没有任何可用数据（零用户或零商品）。
// 调用方应当直接走热门/类目兜底。
func (s *Snapshot) Empty() bool {
	return s == nil || s.affinity == nil || s.similarity == nil
}

// NumUsers 返回快照中的用户数。
func (s *Snapshot) NumUsers() int {
	if s == nil {
		return 0
	}
	return len(s.userIDs)
}

// NumProducts 返回快照中的商品数。
func (s *Snapshot) NumProducts() int {
	if s == nil {
		return 0
	}
	return len(s.productIDs)
}

// UserRow 返回某个用户的亲和度行（副本，长度 = NumProducts）。
// 用户不在快照中时返回 (nil, false)。
func (s *Snapshot) UserRow(userID int64) ([]float64, bool) {
	if s.Empty() {
		return nil, false
	}
	idx, ok := s.userIdx[userID]
	if !ok {
		return nil, false
	}
	row := make([]float64, len(s.productIDs))
	mat.Row(row, idx, s.affinity)
	return row, true
}

// SimilarityRow 返回某个商品与全部商品的相似度行（副本）。
// 商品不在快照中时返回 (nil, false)。
func (s *Snapshot) SimilarityRow(productID int64) ([]float64, bool) {
	if s.Empty() {
		return nil, false
	}
	idx, ok := s.productIdx[productID]
	if !ok {
		return nil, false
	}
	row := make([]float64, len(s.productIDs))
	mat.Row(row, idx, s.similarity)
	return row, true
}

// HasProduct 判断商品是否在快照中。
func (s *Snapshot) HasProduct(productID int64) bool {
	if s.Empty() {
		return false
	}
	_, ok := s.productIdx[productID]
	return ok
}

// ProductIDAt 返回列下标对应的商品 ID。
func (s *Snapshot) ProductIDAt(idx int) int64 {
	return s.productIDs[idx]
}

// Affinity 返回用户对商品的亲和度。任一实体不在快照中时返回 (0, false)。
func (s *Snapshot) Affinity(userID, productID int64) (float64, bool) {
	if s.Empty() {
		return 0, false
	}
	u, ok := s.userIdx[userID]
	if !ok {
		return 0, false
	}
	p, ok := s.productIdx[productID]
	if !ok {
		return 0, false
	}
	return s.affinity.At(u, p), true
}
