package store

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rushteam/shoprec/core"
)

// RedisCatalog 是 Redis 实现的 CatalogStore，生产环境常用。
//
// 存储布局（{prefix} 默认 "shop"）：
//   - {prefix}:users         set，成员为用户 ID
//   - {prefix}:products      hash，field 为商品 ID，value 为商品 JSON
//   - {prefix}:interactions  list，每个元素一条交互事件 JSON（追加式日志）
//   - {prefix}:popularity    zset，成员为商品 ID，分数为交互总次数
//
// 热度用 ZINCRBY 维护，CountInteractionsByProduct 直接
// ZREVRANGE WITHSCORES 读回，不需要扫日志。
type RedisCatalog struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisCatalog(addr string, db int, keyPrefix string) (*RedisCatalog, error) {
	if keyPrefix == "" {
		keyPrefix = "shop"
	}
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable,
			"catalog: redis unreachable at "+addr+": "+err.Error())
	}
	return &RedisCatalog{client: client, keyPrefix: keyPrefix}, nil
}

func (r *RedisCatalog) Name() string { return "redis" }

func (r *RedisCatalog) usersKey() string        { return r.keyPrefix + ":users" }
func (r *RedisCatalog) productsKey() string     { return r.keyPrefix + ":products" }
func (r *RedisCatalog) interactionsKey() string { return r.keyPrefix + ":interactions" }
func (r *RedisCatalog) popularityKey() string   { return r.keyPrefix + ":popularity" }

// AddUser 注册一个用户（set 成员，天然幂等）。
func (r *RedisCatalog) AddUser(ctx context.Context, id int64) error {
	return r.client.SAdd(ctx, r.usersKey(), strconv.FormatInt(id, 10)).Err()
}

// AddProduct 新增或整体覆盖一个商品。
func (r *RedisCatalog) AddProduct(ctx context.Context, p core.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.client.HSet(ctx, r.productsKey(), strconv.FormatInt(p.ID, 10), data).Err()
}

// RecordInteraction 追加一条交互事件并同步累加热度。
// 事件日志与热度计数在一个 pipeline 里提交，减少网络往返。
func (r *RedisCatalog) RecordInteraction(ctx context.Context, in core.Interaction) error {
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now()
	}
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}

	member := strconv.FormatInt(in.ProductID, 10)
	pipe := r.client.Pipeline()
	pipe.SAdd(ctx, r.usersKey(), strconv.FormatInt(in.UserID, 10))
	pipe.RPush(ctx, r.interactionsKey(), data)
	pipe.ZIncrBy(ctx, r.popularityKey(), 1, member)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisCatalog) ListUsers(ctx context.Context) ([]int64, error) {
	members, err := r.client.SMembers(ctx, r.usersKey()).Result()
	if err != nil {
		return nil, err
	}

	// SMEMBERS 返回顺序不稳定，按 ID 排序保证一次快照内枚举一致
	out := make([]int64, 0, len(members))
	for _, m := range members {
		if id, err := strconv.ParseInt(m, 10, 64); err == nil {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (r *RedisCatalog) ListProducts(ctx context.Context) ([]core.Product, error) {
	vals, err := r.client.HGetAll(ctx, r.productsKey()).Result()
	if err != nil {
		return nil, err
	}

	out := make([]core.Product, 0, len(vals))
	for _, v := range vals {
		var p core.Product
		if err := json.Unmarshal([]byte(v), &p); err != nil {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RedisCatalog) ListInteractions(ctx context.Context) ([]core.Interaction, error) {
	vals, err := r.client.LRange(ctx, r.interactionsKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]core.Interaction, 0, len(vals))
	for _, v := range vals {
		var in core.Interaction
		if err := json.Unmarshal([]byte(v), &in); err != nil {
			continue
		}
		out = append(out, in)
	}
	return out, nil
}

func (r *RedisCatalog) CountInteractionsByProduct(
	ctx context.Context,
	exclude map[int64]struct{},
) ([]core.ProductCount, error) {
	zs, err := r.client.ZRevRangeWithScores(ctx, r.popularityKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]core.ProductCount, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		if _, skip := exclude[id]; skip {
			continue
		}
		out = append(out, core.ProductCount{ProductID: id, Count: int64(z.Score)})
	}
	return out, nil
}

func (r *RedisCatalog) FetchProducts(
	ctx context.Context,
	ids []int64,
	inStockOnly bool,
) (map[int64]core.Product, error) {
	if len(ids) == 0 {
		return make(map[int64]core.Product), nil
	}

	fields := make([]string, len(ids))
	for i, id := range ids {
		fields[i] = strconv.FormatInt(id, 10)
	}
	vals, err := r.client.HMGet(ctx, r.productsKey(), fields...).Result()
	if err != nil {
		return nil, err
	}

	result := make(map[int64]core.Product, len(ids))
	for i, v := range vals {
		if v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		var p core.Product
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			continue
		}
		if inStockOnly && !p.InStock() {
			continue
		}
		result[ids[i]] = p
	}
	return result, nil
}

func (r *RedisCatalog) Close() error {
	return r.client.Close()
}

// 确保 RedisCatalog 实现了 core.CatalogStore 接口
var _ core.CatalogStore = (*RedisCatalog)(nil)
