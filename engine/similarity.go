package engine

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// CosineSimilarity 计算商品两两之间的余弦相似度矩阵。
//
// 这是整个训练里最重的一步（O(n_items² × n_users)），
// 所以不走朴素三重循环，而是先做列归一化，再用一次 BLAS 级
// 矩阵乘得到全部 item 对的点积：
//
//	N[:,j] = M[:,j] / ‖M[:,j]‖
//	S      = Nᵀ · N
//
// 全零列（从未被交互过的商品）保持全零，等价于与所有商品相似度为 0。
// 返回矩阵对称，对角线为自相似，调用方做邻居搜索时必须排除对角线。
func CosineSimilarity(m *mat.Dense) *mat.Dense {
	if m == nil {
		return nil
	}
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return nil
	}

	normalized := mat.NewDense(rows, cols, nil)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, m)
		norm := floats.Norm(col, 2)
		if norm == 0 {
			continue // 全零列保持全零
		}
		floats.Scale(1/norm, col)
		normalized.SetCol(j, col)
	}

	var sim mat.Dense
	sim.Mul(normalized.T(), normalized)
	return &sim
}
