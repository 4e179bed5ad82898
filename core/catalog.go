package core

import "context"

// CatalogStore 是商城侧（目录 + 交互日志）的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 遵循依赖倒置原则：引擎不关心数据存在内存、Redis 还是数据库
//   - 交互日志是追加式的，训练时整体读出构建快照
//
// 实现：
//   - store.MemoryCatalog 实现此接口（测试/开发/原型）
//   - store.RedisCatalog 实现此接口（生产）
type CatalogStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// ListUsers 返回全部用户 ID（枚举顺序在一次快照内保持稳定即可）
	ListUsers(ctx context.Context) ([]int64, error)

	// ListProducts 返回全部商品（含库存与类目元信息）
	ListProducts(ctx context.Context) ([]Product, error)

	// ListInteractions 返回全部交互日志
	ListInteractions(ctx context.Context) ([]Interaction, error)

	// CountInteractionsByProduct 按商品聚合交互次数，降序返回，
	// 跳过 exclude 中的商品。用于热门兜底排序。
	CountInteractionsByProduct(ctx context.Context, exclude map[int64]struct{}) ([]ProductCount, error)

	// FetchProducts 按 ID 批量取商品；inStockOnly 为 true 时只返回有库存的。
	// 结果以 map 返回，缺失的 ID 直接不出现（不是错误）。
	FetchProducts(ctx context.Context, ids []int64, inStockOnly bool) (map[int64]Product, error)

	// Close 关闭连接/释放资源
	Close() error
}
