package recommend

import (
	"context"
	"testing"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/store"
)

// storefrontCatalog 构造一个小商城：
//   - 用户 100/101 口味接近（外设党），用户 102 只看屏幕
//   - 商品 5 无库存，商品 6 有库存但无人交互
func storefrontCatalog(t *testing.T) *store.MemoryCatalog {
	t.Helper()
	catalog := store.NewMemoryCatalog()
	for _, p := range []core.Product{
		{ID: 1, Name: "keyboard", Category: "gear", Price: 399, Stock: 10},
		{ID: 2, Name: "mouse", Category: "gear", Price: 199, Stock: 5},
		{ID: 3, Name: "monitor", Category: "display", Price: 1299, Stock: 3},
		{ID: 4, Name: "deskmat", Category: "gear", Price: 29, Stock: 100},
		{ID: 5, Name: "desk", Category: "furniture", Price: 1999, Stock: 0},
		{ID: 6, Name: "lamp", Category: "furniture", Price: 99, Stock: 7},
	} {
		catalog.AddProduct(p)
	}
	for _, ev := range []core.Interaction{
		{UserID: 100, ProductID: 1, Type: core.InteractionBuy},
		{UserID: 100, ProductID: 2, Type: core.InteractionLike},
		{UserID: 101, ProductID: 1, Type: core.InteractionBuy},
		{UserID: 101, ProductID: 2, Type: core.InteractionCartAdd},
		{UserID: 101, ProductID: 4, Type: core.InteractionLike},
		{UserID: 102, ProductID: 3, Type: core.InteractionBuy},
		{UserID: 102, ProductID: 5, Type: core.InteractionView},
	} {
		catalog.AddUser(ev.UserID)
		catalog.RecordInteraction(ev)
	}
	return catalog
}

func newTrained(t *testing.T) *Recommender {
	t.Helper()
	rec := New(storefrontCatalog(t))
	t.Cleanup(func() { rec.Close() })
	if err := rec.Train(context.Background()); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	return rec
}

func TestRecommend(t *testing.T) {
	ctx := context.Background()

	t.Run("excludes interacted and ranks by predicted score", func(t *testing.T) {
		rec := newTrained(t)
		got, err := rec.Recommend(ctx, 100, 2, true)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("len(got) = %d, want 2", len(got))
		}
		// 用户 100 买过 1、喜欢过 2，二者必须被剔除；
		// 商品 4 与 1/2 被同一批用户喜欢，应当排在最前
		if got[0].ID != 4 {
			t.Errorf("top recommendation = %d, want 4", got[0].ID)
		}
		for _, p := range got {
			if p.ID == 1 || p.ID == 2 {
				t.Errorf("interacted product %d leaked into recommendations", p.ID)
			}
		}
	})

	t.Run("keeps interacted when flag off", func(t *testing.T) {
		rec := newTrained(t)
		got, err := rec.Recommend(ctx, 100, 6, false)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		found := false
		for _, p := range got {
			if p.ID == 1 {
				found = true
			}
		}
		if !found {
			t.Error("product 1 should be recommendable when exclusion is off")
		}
	})

	t.Run("never returns out-of-stock products", func(t *testing.T) {
		rec := newTrained(t)
		got, err := rec.Recommend(ctx, 102, 6, true)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		for _, p := range got {
			if p.ID == 5 {
				t.Error("out-of-stock product 5 leaked into recommendations")
			}
			if !p.InStock() {
				t.Errorf("product %d has no stock", p.ID)
			}
		}
	})

	t.Run("pads with popular products without duplicates", func(t *testing.T) {
		rec := newTrained(t)
		got, err := rec.Recommend(ctx, 100, 5, true)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		seen := map[int64]struct{}{}
		for _, p := range got {
			if _, dup := seen[p.ID]; dup {
				t.Errorf("product %d appears twice", p.ID)
			}
			seen[p.ID] = struct{}{}
		}
		// 个性化给出 4、3、6；补齐排除已选和已交互（1、2），
		// 供给耗尽时宁缺毋滥
		if len(got) != 3 {
			t.Errorf("len(got) = %d, want 3", len(got))
		}
		if got[0].ID != 4 {
			t.Errorf("got[0] = %d, want personalized pick 4 first", got[0].ID)
		}
		for _, p := range got {
			if p.ID == 1 || p.ID == 2 {
				t.Errorf("interacted product %d returned through padding", p.ID)
			}
		}
	})

	t.Run("unknown user falls back to popularity", func(t *testing.T) {
		rec := newTrained(t)
		got, err := rec.Recommend(ctx, 999, 3, true)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("len(got) = %d, want 3", len(got))
		}
		// 热度：1(2次) 2(2次) 3(1次) 4(1次)，5 无库存被跳过
		if got[0].ID != 1 || got[1].ID != 2 {
			t.Errorf("top popular = [%d, %d], want [1, 2]", got[0].ID, got[1].ID)
		}
	})

	t.Run("empty catalog yields empty list", func(t *testing.T) {
		rec := New(store.NewMemoryCatalog())
		t.Cleanup(func() { rec.Close() })
		got, err := rec.Recommend(ctx, 100, 5, true)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("len(got) = %d, want 0", len(got))
		}
	})

	t.Run("default n applies", func(t *testing.T) {
		rec := newTrained(t)
		got, err := rec.Recommend(ctx, 999, 0, false)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		// 目录里有库存的只有 5 个商品，默认 10 取不满
		if len(got) != 5 {
			t.Errorf("len(got) = %d, want 5", len(got))
		}
	})

	t.Run("lazy training on first request", func(t *testing.T) {
		rec := New(storefrontCatalog(t))
		t.Cleanup(func() { rec.Close() })
		// 不显式 Train，首次请求触发懒加载
		got, err := rec.Recommend(ctx, 100, 2, true)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if len(got) == 0 {
			t.Error("lazy-trained recommender returned nothing")
		}
	})
}

func TestSimilarProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("returns co-liked products", func(t *testing.T) {
		rec := newTrained(t)
		got, err := rec.SimilarProducts(ctx, core.Product{ID: 1, Category: "gear"}, 3)
		if err != nil {
			t.Fatalf("SimilarProducts() error = %v", err)
		}
		if len(got) == 0 {
			t.Fatal("no similar products for a well-connected product")
		}
		// 商品 2 与商品 1 被同一批用户交互，必须排第一
		if got[0].ID != 2 {
			t.Errorf("most similar = %d, want 2", got[0].ID)
		}
		for _, p := range got {
			if p.ID == 1 {
				t.Error("product is similar to itself")
			}
		}
	})

	t.Run("zero-interaction product never appears", func(t *testing.T) {
		rec := newTrained(t)
		got, err := rec.SimilarProducts(ctx, core.Product{ID: 1, Category: "gear"}, 6)
		if err != nil {
			t.Fatalf("SimilarProducts() error = %v", err)
		}
		for _, p := range got {
			if p.ID == 6 {
				t.Error("product 6 has no interactions and cannot be similar to anything")
			}
		}
	})

	t.Run("stock filter shrinks without backfill", func(t *testing.T) {
		rec := newTrained(t)
		// 商品 5 与商品 3 被用户 102 同时交互过，但无库存
		got, err := rec.SimilarProducts(ctx, core.Product{ID: 3, Category: "display"}, 5)
		if err != nil {
			t.Fatalf("SimilarProducts() error = %v", err)
		}
		for _, p := range got {
			if p.ID == 5 {
				t.Error("out-of-stock product 5 leaked into similar products")
			}
		}
	})

	t.Run("unknown product falls back to category", func(t *testing.T) {
		rec := newTrained(t)
		// 商品 77 不在训练快照里：同类目兜底
		got, err := rec.SimilarProducts(ctx, core.Product{ID: 77, Category: "gear"}, 5)
		if err != nil {
			t.Fatalf("SimilarProducts() error = %v", err)
		}
		if len(got) == 0 {
			t.Fatal("category fallback returned nothing")
		}
		for _, p := range got {
			if p.Category != "gear" {
				t.Errorf("product %d category = %q, want gear", p.ID, p.Category)
			}
		}
	})

	t.Run("category fallback excludes self and out-of-stock", func(t *testing.T) {
		rec := newTrained(t)
		got, err := rec.SimilarProducts(ctx, core.Product{ID: 77, Category: "furniture"}, 5)
		if err != nil {
			t.Fatalf("SimilarProducts() error = %v", err)
		}
		// furniture 只有 5（无库存）和 6
		if len(got) != 1 || got[0].ID != 6 {
			t.Errorf("got = %v, want only product 6", got)
		}
	})
}

func TestNotifyFeedback(t *testing.T) {
	rec := newTrained(t)
	// 永不阻塞、永不报错
	for i := 0; i < 100; i++ {
		rec.NotifyFeedback()
	}
}
