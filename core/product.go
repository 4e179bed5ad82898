package core

// Product 是商品目录里的一条记录。
// 推荐引擎只关心 ID / Category / Stock：
//   - ID 用于矩阵索引映射
//   - Category 用于兜底召回（同类目）
//   - Stock 用于过滤不可售商品
// Name / Price 原样透传给上层展示。
type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
}

// InStock 返回商品是否有库存。
func (p Product) InStock() bool { return p.Stock > 0 }

// ProductCount 是按商品聚合的交互次数，用于热门排序。
type ProductCount struct {
	ProductID int64
	Count     int64
}
