package coldstart

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/dinekit/core"
)

func dayMenu() *core.Menu {
	return &core.Menu{
		Date: "2025-03-10",
		Buckets: map[string][]core.MenuSlice{
			core.BucketLunch: {
				{EateryName: "North Hall", Bucket: core.BucketLunch, Items: []string{"Pad Thai"}},
				{EateryName: "South Hall", Bucket: core.BucketLunch, Items: []string{"Burrito Bowl"}},
			},
			core.BucketDinner: {
				{EateryName: "North Hall", Bucket: core.BucketDinner, Items: []string{"Ramen"}},
			},
		},
	}
}

func TestSanitizeDropsUnknownEateries(t *testing.T) {
	raw := core.Recommendation{
		core.BucketLunch: {Picks: []core.EateryPick{
			{Eatery: "North Hall", Dishes: []string{"Pad Thai"}},
			{Eatery: "Imaginary Cafe", Dishes: []string{"Unicorn Soup"}},
		}},
	}
	got := Sanitize(raw, dayMenu())
	picks := got[core.BucketLunch].Picks
	if len(picks) != 1 || picks[0].Eatery != "North Hall" {
		t.Fatalf("unknown eatery should be dropped, got %+v", picks)
	}
}

func TestSanitizeDedupesEateriesPerBucket(t *testing.T) {
	raw := core.Recommendation{
		core.BucketLunch: {Picks: []core.EateryPick{
			{Eatery: "North Hall", Dishes: []string{"Pad Thai"}},
			{Eatery: "North Hall", Dishes: []string{"Fried Rice"}},
			{Eatery: "South Hall", Dishes: []string{"Burrito Bowl"}},
		}},
	}
	got := Sanitize(raw, dayMenu())
	picks := got[core.BucketLunch].Picks
	if len(picks) != 2 {
		t.Fatalf("expected dedupe to 2 picks, got %+v", picks)
	}
	if picks[0].Dishes[0] != "Pad Thai" {
		t.Errorf("first occurrence should win, got %+v", picks[0])
	}
}

func TestSanitizeDropsMalformedAndUnknownBuckets(t *testing.T) {
	raw := core.Recommendation{
		core.BucketLunch: {Picks: []core.EateryPick{
			{Eatery: "", Dishes: []string{"Nameless"}},
			{Eatery: "South Hall", Dishes: []string{"", "Burrito Bowl", "Burrito Bowl"}},
		}},
		"midnight_snack": {Picks: []core.EateryPick{
			{Eatery: "North Hall", Dishes: []string{"Ramen"}},
		}},
	}
	got := Sanitize(raw, dayMenu())
	if _, ok := got["midnight_snack"]; ok {
		t.Error("unknown bucket should be dropped")
	}
	picks := got[core.BucketLunch].Picks
	if len(picks) != 1 || picks[0].Eatery != "South Hall" {
		t.Fatalf("empty eatery name should be dropped, got %+v", picks)
	}
	if len(picks[0].Dishes) != 1 || picks[0].Dishes[0] != "Burrito Bowl" {
		t.Errorf("dish list should be cleaned, got %v", picks[0].Dishes)
	}
}

func TestSanitizeCapsPicks(t *testing.T) {
	menu := &core.Menu{Date: "2025-03-10", Buckets: map[string][]core.MenuSlice{core.BucketLunch: {}}}
	var picks []core.EateryPick
	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		menu.Buckets[core.BucketLunch] = append(menu.Buckets[core.BucketLunch],
			core.MenuSlice{EateryName: name, Bucket: core.BucketLunch})
		picks = append(picks, core.EateryPick{Eatery: name, Dishes: []string{"dish"}})
	}
	got := Sanitize(core.Recommendation{core.BucketLunch: {Picks: picks}}, menu)
	if len(got[core.BucketLunch].Picks) != MaxPicksPerBucket {
		t.Errorf("expected cap at %d picks, got %d", MaxPicksPerBucket, len(got[core.BucketLunch].Picks))
	}
}

type fakeColdStart struct {
	rec core.Recommendation
	err error
}

func (f *fakeColdStart) Name() string { return "fake" }
func (f *fakeColdStart) Recommend(context.Context, *core.Menu) (core.Recommendation, error) {
	return f.rec, f.err
}
func (f *fakeColdStart) Close() error { return nil }

func TestResolverSanitizesServiceOutput(t *testing.T) {
	svc := &fakeColdStart{rec: core.Recommendation{
		core.BucketDinner: {Picks: []core.EateryPick{
			{Eatery: "North Hall", Dishes: []string{"Ramen"}},
			{Eatery: "Ghost Kitchen", Dishes: []string{"Phantom Pho"}},
		}},
	}}
	got, err := NewResolver(svc).Resolve(context.Background(), dayMenu())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	picks := got[core.BucketDinner].Picks
	if len(picks) != 1 || picks[0].Eatery != "North Hall" {
		t.Fatalf("unexpected picks: %+v", picks)
	}
}

func TestResolverPropagatesServiceError(t *testing.T) {
	svc := &fakeColdStart{err: core.NewDomainError(core.ModuleColdStart, core.ErrorCodeUnavailable, "llm down")}
	_, err := NewResolver(svc).Resolve(context.Background(), dayMenu())
	if err == nil || !core.IsUnavailable(errors.Unwrap(err)) {
		t.Fatalf("expected wrapped UNAVAILABLE error, got %v", err)
	}
}
