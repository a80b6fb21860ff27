package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/dinekit/core"
)

func cuisineItem(key, eatery, cuisine string, score float64) *core.Item {
	it := core.NewItem(key)
	it.Eatery = eatery
	it.Score = score
	d := core.NewDish(key, key)
	d.CuisineType = cuisine
	it.Dish = d
	return it
}

func TestTopNNode(t *testing.T) {
	items := []*core.Item{
		core.NewItem("a"), core.NewItem("b"), core.NewItem("c"),
	}
	out, err := (&TopNNode{N: 2}).Process(context.Background(), nil, items)
	if err != nil || len(out) != 2 {
		t.Fatalf("expected truncation to 2, got %d (%v)", len(out), err)
	}
	out, err = (&TopNNode{N: 0}).Process(context.Background(), nil, items)
	if err != nil || len(out) != 3 {
		t.Fatalf("N=0 must not truncate, got %d (%v)", len(out), err)
	}
}

func TestDiversityCapsPerCuisine(t *testing.T) {
	items := []*core.Item{
		cuisineItem("pad thai", "North Hall", "thai", 0.9),
		cuisineItem("green curry", "North Hall", "thai", 0.8),
		cuisineItem("tom yum", "North Hall", "thai", 0.7),
		cuisineItem("pizza", "North Hall", "italian", 0.6),
		cuisineItem("spring rolls", "South Hall", "thai", 0.5), // 另一家食堂不受影响
	}
	out, err := (&Diversity{MaxPerCuisine: 2}).Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("expected 4 items after capping, got %d", len(out))
	}
	for _, it := range out {
		if it.ID == "tom yum" {
			t.Error("third thai dish at the same eatery should be dropped")
		}
	}
}

func TestDiversityPassesUnknownCuisine(t *testing.T) {
	items := []*core.Item{
		cuisineItem("dish a", "North Hall", core.CuisineOther, 0.9),
		cuisineItem("dish b", "North Hall", core.CuisineOther, 0.8),
		cuisineItem("dish c", "North Hall", core.CuisineOther, 0.7),
	}
	out, err := (&Diversity{MaxPerCuisine: 1}).Process(context.Background(), nil, items)
	if err != nil || len(out) != 3 {
		t.Fatalf("sentinel cuisine must not be capped, got %d (%v)", len(out), err)
	}
}
