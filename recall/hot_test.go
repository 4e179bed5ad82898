package recall

import (
	"context"
	"testing"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/store"
)

func TestHotPopular(t *testing.T) {
	ctx := context.Background()

	newCatalog := func() *store.MemoryCatalog {
		catalog := store.NewMemoryCatalog()
		for _, p := range []core.Product{
			{ID: 1, Stock: 5},
			{ID: 2, Stock: 5},
			{ID: 3, Stock: 0}, // 无库存
			{ID: 4, Stock: 5}, // 无交互
		} {
			catalog.AddProduct(p)
		}
		// 热度：商品2 三次 > 商品1 两次 > 商品3 一次
		for _, ev := range []core.Interaction{
			{UserID: 100, ProductID: 2, Type: core.InteractionView},
			{UserID: 101, ProductID: 2, Type: core.InteractionView},
			{UserID: 102, ProductID: 2, Type: core.InteractionBuy},
			{UserID: 100, ProductID: 1, Type: core.InteractionView},
			{UserID: 101, ProductID: 1, Type: core.InteractionLike},
			{UserID: 100, ProductID: 3, Type: core.InteractionBuy},
		} {
			catalog.AddUser(ev.UserID)
			catalog.RecordInteraction(ev)
		}
		return catalog
	}

	t.Run("orders by interaction count and skips out of stock", func(t *testing.T) {
		r := &Hot{Catalog: newCatalog()}
		items, err := r.Popular(ctx, 2, nil)
		if err != nil {
			t.Fatalf("Popular() error = %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("len(items) = %d, want 2", len(items))
		}
		if items[0].ID != 2 || items[1].ID != 1 {
			t.Errorf("item IDs = [%d, %d], want [2, 1]", items[0].ID, items[1].ID)
		}
	})

	t.Run("pads with arbitrary in-stock products", func(t *testing.T) {
		r := &Hot{Catalog: newCatalog()}
		items, err := r.Popular(ctx, 3, nil)
		if err != nil {
			t.Fatalf("Popular() error = %v", err)
		}
		// 热门只有 1、2 有库存，商品 4 作为目录补齐进入
		if len(items) != 3 {
			t.Fatalf("len(items) = %d, want 3", len(items))
		}
		if items[2].ID != 4 {
			t.Errorf("pad item = %d, want 4", items[2].ID)
		}
		if lbl := items[2].Labels["source"]; lbl.Value != "catalog_pad" {
			t.Errorf("pad label = %v, want catalog_pad", lbl)
		}
	})

	t.Run("respects exclude set", func(t *testing.T) {
		r := &Hot{Catalog: newCatalog()}
		items, err := r.Popular(ctx, 10, map[int64]struct{}{2: {}})
		if err != nil {
			t.Fatalf("Popular() error = %v", err)
		}
		for _, it := range items {
			if it.ID == 2 {
				t.Error("excluded product 2 appeared in results")
			}
		}
	})

	t.Run("empty catalog yields empty list without error", func(t *testing.T) {
		r := &Hot{Catalog: store.NewMemoryCatalog()}
		items, err := r.Popular(ctx, 5, nil)
		if err != nil {
			t.Fatalf("Popular() error = %v", err)
		}
		if len(items) != 0 {
			t.Errorf("len(items) = %d, want 0", len(items))
		}
	})
}
