package recall

import (
	"context"
	"testing"

	"github.com/rushteam/dinekit/catalog"
	"github.com/rushteam/dinekit/core"
	"github.com/rushteam/dinekit/store"
)

func testMenu() *core.Menu {
	return &core.Menu{
		Date: "2025-03-10",
		Buckets: map[string][]core.MenuSlice{
			core.BucketLunch: {
				{EateryName: "East Hall", Bucket: core.BucketLunch, Items: []string{"Pad Thai (spicy)", "Miso Soup"}},
				{EateryName: "North Commons", Bucket: core.BucketLunch, Items: []string{"Pad Thai"}},
			},
			core.BucketDinner: {
				{EateryName: "East Hall", Bucket: core.BucketDinner, Items: []string{"Bibimbap"}},
			},
		},
	}
}

func TestMenuSourceRecall(t *testing.T) {
	ms := store.NewMemoryStore()
	defer ms.Close()
	cat := catalog.NewCatalog(ms)
	ctx := context.Background()

	dish := core.NewDish("pad thai", "Pad Thai")
	dish.ApplyAttributes(core.DishAttributes{FlavorProfiles: []string{"savory"}, CuisineType: "thai", DishType: "main"})
	if err := cat.Upsert(ctx, dish); err != nil {
		t.Fatal(err)
	}

	src := &MenuSource{Menu: testMenu(), Bucket: core.BucketLunch, Catalog: cat}
	items, err := src.Recall(ctx, &core.RecommendContext{UserID: "alice"})
	if err != nil {
		t.Fatalf("Recall failed: %v", err)
	}

	// 两个食堂共 3 个出现：East Hall 的 pad thai + miso soup，North Commons 的 pad thai
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	byEatery := map[string]int{}
	for _, it := range items {
		byEatery[it.Eatery]++
		if it.Bucket != core.BucketLunch {
			t.Errorf("item %s has bucket %q", it.ID, it.Bucket)
		}
		if it.ID == "pad thai" && it.Dish == nil {
			t.Error("catalog hit should attach the dish")
		}
		if it.ID == "miso soup" && it.Dish != nil {
			t.Error("catalog miss should leave dish nil")
		}
	}
	if byEatery["East Hall"] != 2 || byEatery["North Commons"] != 1 {
		t.Errorf("unexpected distribution: %v", byEatery)
	}
}

func TestMenuSourceEmptyBucket(t *testing.T) {
	ms := store.NewMemoryStore()
	defer ms.Close()
	src := &MenuSource{Menu: testMenu(), Bucket: core.BucketBreakfastBrunch, Catalog: catalog.NewCatalog(ms)}
	items, err := src.Recall(context.Background(), &core.RecommendContext{})
	if err != nil || len(items) != 0 {
		t.Errorf("empty bucket should recall nothing: %v, %v", items, err)
	}
}

func TestFanoutDedup(t *testing.T) {
	ms := store.NewMemoryStore()
	defer ms.Close()
	cat := catalog.NewCatalog(ms)

	menu := testMenu()
	n := &Fanout{
		Sources: []Source{
			&MenuSource{Menu: menu, Bucket: core.BucketLunch, Catalog: cat},
			&MenuSource{Menu: menu, Bucket: core.BucketLunch, Catalog: cat},
		},
		Dedup: true,
	}
	items, err := n.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	// 同一 (菜, 食堂, 餐段) 只保留一份
	if len(items) != 3 {
		t.Fatalf("expected 3 deduped items, got %d", len(items))
	}
	for _, it := range items {
		if _, ok := it.Labels["recall_source"]; !ok {
			t.Error("recall source label missing")
		}
	}
}
