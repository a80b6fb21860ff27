package model

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/dinekit/core"
)

func testVectors() map[string][]float64 {
	return map[string][]float64{
		"chicken": {1, 0, 0},
		"rice":    {0, 1, 0},
		"garlic":  {0, 0, 1},
		"soy":     {0.5, 0.5, 0},
	}
}

func TestFood2VecEmbedIngredients(t *testing.T) {
	m := NewFood2Vec(testVectors(), 3)
	ctx := context.Background()

	vec, err := m.EmbedIngredients(ctx, []string{"chicken", "rice"})
	if err != nil {
		t.Fatalf("EmbedIngredients failed: %v", err)
	}
	want := []float64{0.5, 0.5, 0}
	for i := range want {
		if math.Abs(vec[i]-want[i]) > 1e-9 {
			t.Errorf("vec[%d] = %v, want %v", i, vec[i], want[i])
		}
	}
}

func TestFood2VecMultiWordIngredient(t *testing.T) {
	m := NewFood2Vec(testVectors(), 3)

	// "soy sauce"：soy 在词表内，sauce 是 OOV，只有 soy 参与平均
	vec, err := m.EmbedIngredients(context.Background(), []string{"Soy Sauce"})
	if err != nil {
		t.Fatalf("EmbedIngredients failed: %v", err)
	}
	if vec[0] != 0.5 || vec[1] != 0.5 {
		t.Errorf("unexpected vector: %v", vec)
	}
}

func TestFood2VecNoKnownTokens(t *testing.T) {
	m := NewFood2Vec(testVectors(), 3)

	_, err := m.EmbedIngredients(context.Background(), []string{"dragonfruit", "yuzu"})
	if !core.IsNotFound(err) {
		t.Fatalf("expected ErrNoEmbedding, got %v", err)
	}
	if _, err := m.EmbedIngredients(context.Background(), nil); !core.IsNotFound(err) {
		t.Fatalf("expected ErrNoEmbedding for empty list, got %v", err)
	}
}

func TestFood2VecSameIngredientsSameVector(t *testing.T) {
	m := NewFood2Vec(testVectors(), 3)
	ctx := context.Background()

	// 菜名不参与向量：配料相同就得到同一个向量
	a, err := m.EmbedIngredients(ctx, []string{"chicken", "garlic"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := m.EmbedIngredients(ctx, []string{"chicken", "garlic"})
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("vectors differ at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestLoadFood2VecFromMap(t *testing.T) {
	data := map[string]interface{}{
		"tofu":  []interface{}{1.0, 2.0},
		"kale":  []interface{}{0.0, 1.0},
		"junk":  "not a vector",
	}
	m, err := LoadFood2VecFromMap(data)
	if err != nil {
		t.Fatalf("LoadFood2VecFromMap failed: %v", err)
	}
	if m.Dimension != 2 {
		t.Errorf("dimension = %d, want 2", m.Dimension)
	}
	if len(m.WordVectors) != 2 {
		t.Errorf("expected 2 words, got %d", len(m.WordVectors))
	}

	data["bad"] = []interface{}{1.0, 2.0, 3.0}
	if _, err := LoadFood2VecFromMap(data); err == nil {
		t.Error("expected error on inconsistent dimensions")
	}
}
