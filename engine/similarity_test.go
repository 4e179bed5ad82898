package engine

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCosineSimilarity(t *testing.T) {
	// 3 用户 × 4 商品：
	// 商品 0 和 1 的评分列成比例（相似度 1），
	// 商品 2 与 0/1 部分重叠，商品 3 无任何交互。
	m := mat.NewDense(3, 4, []float64{
		5, 2.5, 0, 0,
		3, 1.5, 3, 0,
		0, 0, 4, 0,
	})
	sim := CosineSimilarity(m)

	rows, cols := sim.Dims()
	if rows != 4 || cols != 4 {
		t.Fatalf("sim dims = (%d, %d), want (4, 4)", rows, cols)
	}

	t.Run("diagonal is 1 for active products", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			if got := sim.At(i, i); !almostEqual(got, 1.0) {
				t.Errorf("sim[%d][%d] = %v, want 1", i, i, got)
			}
		}
	})

	t.Run("proportional columns have similarity 1", func(t *testing.T) {
		if got := sim.At(0, 1); !almostEqual(got, 1.0) {
			t.Errorf("sim[0][1] = %v, want 1", got)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				if !almostEqual(sim.At(i, j), sim.At(j, i)) {
					t.Errorf("sim[%d][%d]=%v != sim[%d][%d]=%v",
						i, j, sim.At(i, j), j, i, sim.At(j, i))
				}
			}
		}
	})

	t.Run("zero column stays zero everywhere including diagonal", func(t *testing.T) {
		for j := 0; j < 4; j++ {
			if got := sim.At(3, j); got != 0 {
				t.Errorf("sim[3][%d] = %v, want 0", j, got)
			}
		}
	})

	t.Run("partial overlap lands strictly between 0 and 1", func(t *testing.T) {
		got := sim.At(0, 2)
		if got <= 0 || got >= 1 {
			t.Errorf("sim[0][2] = %v, want in (0, 1)", got)
		}
		// 手算参照：cos((5,3,0), (0,3,4)) = 9 / (sqrt(34)*5)
		want := 9.0 / (math.Sqrt(34) * 5)
		if !almostEqual(got, want) {
			t.Errorf("sim[0][2] = %v, want %v", got, want)
		}
	})
}
