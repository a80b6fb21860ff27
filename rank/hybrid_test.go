package rank

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/dinekit/core"
)

func TestWeightsFor(t *testing.T) {
	tests := []struct {
		n    int
		want Weights
	}{
		{0, weightsSparse},
		{14, weightsSparse},
		{15, weightsMedium},
		{39, weightsMedium},
		{40, weightsDense},
		{200, weightsDense},
	}
	for _, tt := range tests {
		if got := WeightsFor(tt.n); got != tt.want {
			t.Errorf("WeightsFor(%d) = %+v, want %+v", tt.n, got, tt.want)
		}
	}
}

func scoringUser(ratingCount int) *core.UserPreferenceState {
	user := core.NewUserPreferenceState("alice")
	user.RatingCount = ratingCount
	user.FlavorWeights = map[string]float64{"spicy": 1.0, "savory": 0.5}
	user.MethodWeights = map[string]float64{"grilled": 1.0}
	user.CuisineWeights = map[string]float64{"thai": 1.0}
	user.SetVector([]float64{1, 0, 0})
	return user
}

func scoredItem(key string, embedding []float64, flavors, methods []string, cuisine string) *core.Item {
	it := core.NewItem(key)
	d := core.NewDish(key, key)
	d.Embedding = embedding
	d.FlavorProfiles = flavors
	d.CookingMethods = methods
	d.CuisineType = cuisine
	it.Dish = d
	return it
}

func TestHybridNodeScore(t *testing.T) {
	node := &HybridNode{}
	rctx := &core.RecommendContext{UserID: "alice", User: scoringUser(5)}

	// cos = 1, flavor jaccard = 1/2, method jaccard = 1, cuisine hit
	it := scoredItem("pad thai", []float64{1, 0, 0}, []string{"spicy"}, []string{"grilled"}, "thai")
	out, err := node.Process(context.Background(), rctx, []*core.Item{it})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	want := 0.40*1.0 + 0.20*0.5 + 0.15*1.0 + 0.25
	if math.Abs(out[0].Score-want) > 1e-9 {
		t.Errorf("score = %v, want %v", out[0].Score, want)
	}
}

func TestHybridNodeSortsDescending(t *testing.T) {
	node := &HybridNode{}
	rctx := &core.RecommendContext{UserID: "alice", User: scoringUser(5)}

	low := scoredItem("plain rice", []float64{0, 1, 0}, nil, nil, "other")
	high := scoredItem("pad thai", []float64{1, 0, 0}, []string{"spicy"}, []string{"grilled"}, "thai")
	out, err := node.Process(context.Background(), rctx, []*core.Item{low, high})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if out[0] != high || out[1] != low {
		t.Errorf("expected descending score order, got %q then %q", out[0].ID, out[1].ID)
	}
}

func TestHybridNodePureCosineFallback(t *testing.T) {
	user := core.NewUserPreferenceState("bob")
	user.SetVector([]float64{1, 0, 0})
	rctx := &core.RecommendContext{UserID: "bob", User: user}

	// 没有任何类别权重时应退化为纯余弦，不乘 w_cos
	it := scoredItem("pad thai", []float64{1, 0, 0}, []string{"spicy"}, []string{"grilled"}, "thai")
	out, err := (&HybridNode{}).Process(context.Background(), rctx, []*core.Item{it})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if math.Abs(out[0].Score-1.0) > 1e-9 {
		t.Errorf("pure cosine score = %v, want 1.0", out[0].Score)
	}
}

func TestHybridNodeMissingEmbedding(t *testing.T) {
	rctx := &core.RecommendContext{UserID: "alice", User: scoringUser(5)}

	// 无 embedding 的菜余弦项为 0，只剩类别信号
	it := scoredItem("mystery stew", nil, []string{"spicy", "savory"}, nil, "thai")
	out, err := (&HybridNode{}).Process(context.Background(), rctx, []*core.Item{it})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	want := 0.20*1.0 + 0.25
	if math.Abs(out[0].Score-want) > 1e-9 {
		t.Errorf("score = %v, want %v", out[0].Score, want)
	}

	noDish := core.NewItem("unknown")
	out, err = (&HybridNode{}).Process(context.Background(), rctx, []*core.Item{noDish})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if out[0].Score != 0 {
		t.Errorf("dish-less item score = %v, want 0", out[0].Score)
	}
}

func TestHybridNodeRejectsStaleVector(t *testing.T) {
	user := scoringUser(5)
	user.MarkStale()
	rctx := &core.RecommendContext{UserID: "alice", User: user}
	if _, err := (&HybridNode{}).Process(context.Background(), rctx, nil); err == nil {
		t.Fatal("expected error for stale preference vector")
	}
}

func TestHybridNodeWeightTiers(t *testing.T) {
	// 同一道菜在不同评分档位下的余弦项权重应不同
	it := func() *core.Item {
		return scoredItem("pad thai", []float64{1, 0, 0}, nil, nil, "other")
	}
	scores := make(map[int]float64)
	for _, n := range []int{0, 20, 50} {
		rctx := &core.RecommendContext{UserID: "alice", User: scoringUser(n)}
		out, err := (&HybridNode{}).Process(context.Background(), rctx, []*core.Item{it()})
		if err != nil {
			t.Fatalf("Process failed: %v", err)
		}
		scores[n] = out[0].Score
	}
	if !(scores[0] < scores[20] && scores[20] < scores[50]) {
		t.Errorf("cosine-only score should rise with rating count: %v", scores)
	}
}
