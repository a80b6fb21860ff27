package resolver

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rushteam/dinekit/catalog"
	"github.com/rushteam/dinekit/core"
	"github.com/rushteam/dinekit/feast"
	"github.com/rushteam/dinekit/store"
)

type fakeAttrService struct {
	mu         sync.Mutex
	calls      [][]string
	failuresLeft int
	attrs      map[string]core.DishAttributes
}

func (f *fakeAttrService) Name() string { return "fake-attrs" }
func (f *fakeAttrService) Close() error { return nil }

func (f *fakeAttrService) ExtractBatch(ctx context.Context, sourceNames []string) (map[string]core.DishAttributes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sourceNames)
	if f.failuresLeft > 0 {
		f.failuresLeft--
		return nil, errors.New("collaborator down")
	}
	out := make(map[string]core.DishAttributes)
	for _, name := range sourceNames {
		if attrs, ok := f.attrs[name]; ok {
			out[name] = attrs
		}
	}
	return out, nil
}

type fakeEmbedder struct {
	fail bool
}

func (f *fakeEmbedder) Name() string { return "fake-embedder" }
func (f *fakeEmbedder) Close() error { return nil }

func (f *fakeEmbedder) EmbedIngredients(ctx context.Context, ingredients []string) ([]float64, error) {
	if f.fail || len(ingredients) == 0 {
		return nil, core.ErrNoEmbedding
	}
	vec := make([]float64, core.EmbeddingDim)
	vec[0] = float64(len(ingredients))
	return vec, nil
}

func newTestResolver(t *testing.T, attrs *fakeAttrService, embedder *fakeEmbedder, opts ...Option) (*Resolver, *catalog.Catalog) {
	t.Helper()
	ms := store.NewMemoryStore()
	t.Cleanup(func() { ms.Close() })
	cat := catalog.NewCatalog(ms)
	opts = append([]Option{WithBackoff(0), WithMaxRetries(1)}, opts...)
	return NewResolver(attrs, embedder, cat, opts...), cat
}

func TestResolveNewWritesCatalog(t *testing.T) {
	attrs := &fakeAttrService{attrs: map[string]core.DishAttributes{
		"Pad Thai": {
			Ingredients:    []string{"Rice Noodles", "peanut"},
			FlavorProfiles: []string{"savory", "electric"}, // electric 不在词表
			CookingMethods: []string{"stir-fried"},
			CuisineType:    "thai",
			DietaryAttrs:   []string{"vegetarian"},
			DishType:       "main",
		},
	}}
	r, cat := newTestResolver(t, attrs, &fakeEmbedder{})
	ctx := context.Background()

	dish := core.NewDish("pad thai", "Pad Thai")
	stats, err := r.ResolveNew(ctx, []*core.Dish{dish})
	if err != nil {
		t.Fatalf("ResolveNew failed: %v", err)
	}
	if stats.Resolved != 1 || stats.Defaulted != 0 {
		t.Errorf("stats = %+v", stats)
	}

	got, err := cat.GetByKey(ctx, "pad thai")
	if err != nil {
		t.Fatalf("GetByKey failed: %v", err)
	}
	if len(got.FlavorProfiles) != 1 || got.FlavorProfiles[0] != "savory" {
		t.Errorf("vocab filtering failed: %v", got.FlavorProfiles)
	}
	if got.Ingredients[0] != "rice noodles" {
		t.Errorf("ingredients should be lowercased: %v", got.Ingredients)
	}
	if !got.HasEmbedding() {
		t.Error("dish should have an embedding")
	}
}

func TestResolveNewDegradesToDefaults(t *testing.T) {
	// 永远失败的抽取协作方：重试耗尽后降级到默认属性，run 不失败
	attrs := &fakeAttrService{failuresLeft: 1 << 30}
	r, cat := newTestResolver(t, attrs, &fakeEmbedder{})
	ctx := context.Background()

	dish := core.NewDish("mystery stew", "Mystery Stew")
	stats, err := r.ResolveNew(ctx, []*core.Dish{dish})
	if err != nil {
		t.Fatalf("ResolveNew failed: %v", err)
	}
	if stats.Defaulted != 1 {
		t.Errorf("stats = %+v, want 1 defaulted", stats)
	}

	got, err := cat.GetByKey(ctx, "mystery stew")
	if err != nil {
		t.Fatalf("dish must still be written to catalog: %v", err)
	}
	if got.CuisineType != core.CuisineOther || got.DishType != core.DishTypeMain {
		t.Errorf("defaults not applied: cuisine=%q type=%q", got.CuisineType, got.DishType)
	}
	if got.HasEmbedding() {
		t.Error("no ingredients means no embedding")
	}
	if stats.NoEmbedding != 1 {
		t.Errorf("stats.NoEmbedding = %d, want 1", stats.NoEmbedding)
	}
}

func TestResolveNewRetriesThenSucceeds(t *testing.T) {
	attrs := &fakeAttrService{
		failuresLeft: 1,
		attrs: map[string]core.DishAttributes{
			"Miso Soup": {Ingredients: []string{"miso"}, FlavorProfiles: []string{"umami"}, CuisineType: "japanese", DishType: "side"},
		},
	}
	r, _ := newTestResolver(t, attrs, &fakeEmbedder{})

	dish := core.NewDish("miso soup", "Miso Soup")
	stats, err := r.ResolveNew(context.Background(), []*core.Dish{dish})
	if err != nil {
		t.Fatalf("ResolveNew failed: %v", err)
	}
	if stats.Resolved != 1 {
		t.Errorf("stats = %+v, want 1 resolved after retry", stats)
	}
	if len(attrs.calls) != 2 {
		t.Errorf("expected 2 extraction calls (1 failure + 1 retry), got %d", len(attrs.calls))
	}
}

func TestResolveNewBatching(t *testing.T) {
	attrs := &fakeAttrService{attrs: map[string]core.DishAttributes{}}
	r, _ := newTestResolver(t, attrs, &fakeEmbedder{fail: true}, WithMaxConcurrent(1))

	dishes := make([]*core.Dish, 0, 25)
	for i := 0; i < 25; i++ {
		name := "dish-" + string(rune('a'+i))
		dishes = append(dishes, core.NewDish(name, name))
	}
	if _, err := r.ResolveNew(context.Background(), dishes); err != nil {
		t.Fatalf("ResolveNew failed: %v", err)
	}

	if len(attrs.calls) != 3 {
		t.Fatalf("expected 3 batches for 25 dishes, got %d", len(attrs.calls))
	}
	for _, call := range attrs.calls {
		if len(call) > BatchSize {
			t.Errorf("batch of %d exceeds limit %d", len(call), BatchSize)
		}
	}
}

type fakeFeatureStore struct {
	features map[string]feast.DishFeatures
}

func (f *fakeFeatureStore) Close() error { return nil }

func (f *fakeFeatureStore) GetDishFeatures(ctx context.Context, keys []string) (map[string]feast.DishFeatures, error) {
	out := make(map[string]feast.DishFeatures)
	for _, k := range keys {
		if v, ok := f.features[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func TestResolveNewPrecomputedFeatures(t *testing.T) {
	emb := make([]float64, core.EmbeddingDim)
	emb[0] = 0.7
	fs := &fakeFeatureStore{features: map[string]feast.DishFeatures{
		"bibimbap": {
			Attributes: core.DishAttributes{
				Ingredients:    []string{"rice", "egg"},
				FlavorProfiles: []string{"savory"},
				CuisineType:    "korean",
				DishType:       "main",
			},
			Embedding: emb,
		},
	}}
	// 抽取协作方永远失败：命中特征库的菜不应受影响
	attrs := &fakeAttrService{failuresLeft: 1 << 30}
	r, cat := newTestResolver(t, attrs, &fakeEmbedder{}, WithFeatureStore(fs))
	ctx := context.Background()

	hit := core.NewDish("bibimbap", "Bibimbap")
	miss := core.NewDish("mystery stew", "Mystery Stew")
	stats, err := r.ResolveNew(ctx, []*core.Dish{hit, miss})
	if err != nil {
		t.Fatalf("ResolveNew failed: %v", err)
	}
	if stats.Precomputed != 1 || stats.Defaulted != 1 {
		t.Errorf("stats = %+v", stats)
	}

	got, err := cat.GetByKey(ctx, "bibimbap")
	if err != nil {
		t.Fatal(err)
	}
	if got.CuisineType != "korean" || !got.HasEmbedding() {
		t.Errorf("precomputed features not applied: %+v", got)
	}
}
