package engine

import "gonum.org/v1/gonum/mat"

// DefaultNeighbors 是 k-NN 打分的默认邻居数。
const DefaultNeighbors = 10

// PredictScores 对一个用户的亲和度行做 item-based k-NN 打分，
// 返回每个商品的预测分数（与 userRow 等长）。
//
// 对每个目标商品 t：
//   - 邻居取与 t 相似度最高的 k 个商品，排除 t 自身和非正相似度
//   - 分数 = Σ(sim·affinity) / Σ(sim)，即按相似度加权的亲和度均值
//   - 没有合格邻居时分数为 0
//
// 商品数不足 k 时用全部可用商品。相似度平局取下标小的，
// 保证同一快照上重复调用结果可复现。
// 每个商品独立计算，返回值在调用方排序之前没有顺序含义。
func PredictScores(userRow []float64, sim *mat.Dense, k int) []float64 {
	n := len(userRow)
	if sim == nil || n == 0 {
		return nil
	}
	if k <= 0 {
		k = DefaultNeighbors
	}

	scores := make([]float64, n)
	top := make([]neighbor, 0, k)
	for t := 0; t < n; t++ {
		simRow := sim.RawRowView(t)
		top = topPositiveNeighbors(simRow, t, k, top[:0])

		var num, den float64
		for _, nb := range top {
			num += nb.sim * userRow[nb.idx]
			den += nb.sim
		}
		if den > 0 {
			scores[t] = num / den
		}
	}
	return scores
}

type neighbor struct {
	idx int
	sim float64
}

// topPositiveNeighbors 在 simRow 中选出相似度最高的 k 个正相似邻居，
// 跳过 self 下标。结果按相似度降序、下标升序排列（插入保持有序，k 很小）。
func topPositiveNeighbors(simRow []float64, self, k int, buf []neighbor) []neighbor {
	out := buf
	for j, s := range simRow {
		if j == self || s <= 0 {
			continue
		}
		if len(out) == k && s <= out[k-1].sim {
			continue
		}
		// 插入位置：sim 降序，平局 idx 升序；j 递增遍历保证平局时先到先得
		pos := len(out)
		for pos > 0 && out[pos-1].sim < s {
			pos--
		}
		if len(out) < k {
			out = append(out, neighbor{})
		}
		copy(out[pos+1:], out[pos:len(out)-1])
		out[pos] = neighbor{idx: j, sim: s}
	}
	return out
}
