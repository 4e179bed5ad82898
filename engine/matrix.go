package engine

import (
	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/shoprec/core"
)

// 亲和度裁剪区间：累计负反馈最低压到 0（不会把格子压成负数），
// 正反馈累计最高封顶 5。
const (
	affinityFloor = 0.0
	affinityCap   = 5.0
)

// BuildAffinity 把交互日志聚合成 用户×商品 亲和度矩阵。
//
// 构建流程：
//  1. 对本次快照的用户/商品列表建下标映射（ID → index）
//  2. 逐条事件累加行为权重到对应格子
//  3. 全矩阵裁剪到 [0, 5]
//
// 事件引用的用户或商品不在本次快照中时直接跳过：
// 这是日志与目录快照之间正常的时间差，不是错误。
// 零用户或零商品返回 nil 矩阵，下游走兜底。
func BuildAffinity(
	userIDs []int64,
	productIDs []int64,
	interactions []core.Interaction,
) (*mat.Dense, map[int64]int, map[int64]int) {
	userIdx := make(map[int64]int, len(userIDs))
	for i, id := range userIDs {
		userIdx[id] = i
	}
	productIdx := make(map[int64]int, len(productIDs))
	for i, id := range productIDs {
		productIdx[id] = i
	}

	if len(userIDs) == 0 || len(productIDs) == 0 {
		return nil, userIdx, productIdx
	}

	m := mat.NewDense(len(userIDs), len(productIDs), nil)
	for _, ev := range interactions {
		u, ok := userIdx[ev.UserID]
		if !ok {
			continue
		}
		p, ok := productIdx[ev.ProductID]
		if !ok {
			continue
		}
		m.Set(u, p, m.At(u, p)+ev.Type.Weight())
	}

	m.Apply(func(_, _ int, v float64) float64 {
		if v < affinityFloor {
			return affinityFloor
		}
		if v > affinityCap {
			return affinityCap
		}
		return v
	}, m)

	return m, userIdx, productIdx
}
