package store

import (
	"context"
	"testing"

	"github.com/rushteam/dinekit/core"
)

func TestMemoryStoreGetSet(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if _, err := s.Get(ctx, "dish:miso-soup"); !core.IsStoreNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}

	if err := s.Set(ctx, "dish:miso-soup", []byte(`{"normalized_key":"miso soup"}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, err := s.Get(ctx, "dish:miso-soup")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != `{"normalized_key":"miso soup"}` {
		t.Errorf("unexpected value: %s", val)
	}

	if err := s.Delete(ctx, "dish:miso-soup"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, "dish:miso-soup"); !core.IsStoreNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestMemoryStoreBatch(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	kvs := map[string][]byte{
		"dish:pad thai":     []byte("a"),
		"dish:bibimbap":     []byte("b"),
		"dish:tomato salad": []byte("c"),
	}
	if err := s.BatchSet(ctx, kvs); err != nil {
		t.Fatalf("BatchSet failed: %v", err)
	}

	got, err := s.BatchGet(ctx, []string{"dish:pad thai", "dish:bibimbap", "dish:missing"})
	if err != nil {
		t.Fatalf("BatchGet failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(got))
	}
	if string(got["dish:pad thai"]) != "a" {
		t.Errorf("unexpected value for pad thai: %s", got["dish:pad thai"])
	}
	if _, ok := got["dish:missing"]; ok {
		t.Error("missing key should not appear in batch result")
	}
}

func TestMemoryStoreZSet(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	// 评分时间线：score 为评分时间戳，ZRevRange 返回降序（最近优先）
	ratings := map[string]float64{
		"r1": 100,
		"r2": 300,
		"r3": 200,
	}
	for member, score := range ratings {
		if err := s.ZAdd(ctx, "ratings:alice", score, member); err != nil {
			t.Fatalf("ZAdd failed: %v", err)
		}
	}

	members, err := s.ZRevRange(ctx, "ratings:alice", 0, -1)
	if err != nil {
		t.Fatalf("ZRevRange failed: %v", err)
	}
	want := []string{"r2", "r3", "r1"}
	if len(members) != len(want) {
		t.Fatalf("expected %d members, got %d", len(want), len(members))
	}
	for i := range want {
		if members[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], members[i])
		}
	}

	score, err := s.ZScore(ctx, "ratings:alice", "r3")
	if err != nil || score != 200 {
		t.Errorf("ZScore = %v, %v; want 200, nil", score, err)
	}
	if _, err := s.ZScore(ctx, "ratings:alice", "nope"); !core.IsStoreNotFound(err) {
		t.Errorf("expected not found for missing member, got %v", err)
	}
}

func TestMemoryStoreHash(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	// 当日菜单登记表：field 为 normalized_key
	if err := s.HSet(ctx, "menu:2025-03-10", "pad thai", []byte("East Hall")); err != nil {
		t.Fatalf("HSet failed: %v", err)
	}
	if err := s.HSet(ctx, "menu:2025-03-10", "bibimbap", []byte("North Commons")); err != nil {
		t.Fatalf("HSet failed: %v", err)
	}

	val, err := s.HGet(ctx, "menu:2025-03-10", "pad thai")
	if err != nil || string(val) != "East Hall" {
		t.Errorf("HGet = %s, %v; want East Hall, nil", val, err)
	}

	all, err := s.HGetAll(ctx, "menu:2025-03-10")
	if err != nil {
		t.Fatalf("HGetAll failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 fields, got %d", len(all))
	}
}
