package prefs

import (
	"context"
	"encoding/json"

	"github.com/rushteam/dinekit/core"
)

// KV 键空间约定见 store 包注释。
const (
	prefsKeyPrefix   = "prefs:"
	ratingsKeyPrefix = "ratings:"  // zset：member 为 "<dish_key>|<menu_date>"，score 为评分时间戳
	ratingKeyPrefix  = "rating:"   // hash：field 为 zset member，value 为 Rating JSON
)

// Store 基于 core.KeyValueStore 实现 core.PreferenceStore。
//
// 评分时间线用 zset 维护（score 为评分时间戳，读取天然按新近度降序），
// 评分内容放在配套 hash 里。同 (user, dish, day) 重评覆盖旧值。
type Store struct {
	kv core.KeyValueStore
}

// NewStore 创建偏好存储。
func NewStore(kv core.KeyValueStore) *Store {
	return &Store{kv: kv}
}

var _ core.PreferenceStore = (*Store)(nil)

// GetPreferences 读取用户偏好状态；不存在返回 ErrStoreNotFound。
func (s *Store) GetPreferences(ctx context.Context, userID string) (*core.UserPreferenceState, error) {
	raw, err := s.kv.Get(ctx, prefsKeyPrefix+userID)
	if err != nil {
		return nil, err
	}
	var state core.UserPreferenceState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, core.NewDomainError(core.ModulePrefs, core.ErrorCodeInvalidInput, "prefs: decode state: "+err.Error())
	}
	return &state, nil
}

// UpsertPreferences 写回偏好状态。向量与 VectorStale 在同一条 JSON 里落盘，
// 单 key 写入即保证两者的原子性。
func (s *Store) UpsertPreferences(ctx context.Context, state *core.UserPreferenceState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return core.NewDomainError(core.ModulePrefs, core.ErrorCodeInternalError, "prefs: encode state: "+err.Error())
	}
	return s.kv.Set(ctx, prefsKeyPrefix+state.UserID, raw)
}

// GetRatings 读取评分历史，按新近度降序（最新在前）。
func (s *Store) GetRatings(ctx context.Context, userID string) ([]core.Rating, error) {
	members, err := s.kv.ZRevRange(ctx, ratingsKeyPrefix+userID, 0, -1)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	ratings := make([]core.Rating, 0, len(members))
	for _, member := range members {
		raw, err := s.kv.HGet(ctx, ratingKeyPrefix+userID, member)
		if err != nil {
			continue
		}
		var r core.Rating
		if err := json.Unmarshal(raw, &r); err != nil {
			continue
		}
		ratings = append(ratings, r)
	}
	return ratings, nil
}

// AppendRating 写入一条评分并同步偏好状态：
// RatingCount 只在首评时增加（重评覆盖不计数），VectorStale 总是置位。
func (s *Store) AppendRating(ctx context.Context, rating core.Rating) error {
	member := rating.DishKey + "|" + rating.MenuDate

	// 首评判断要在 ZAdd 之前
	_, err := s.kv.ZScore(ctx, ratingsKeyPrefix+rating.UserID, member)
	isNew := core.IsStoreNotFound(err)
	if err != nil && !isNew {
		return err
	}

	raw, err := json.Marshal(rating)
	if err != nil {
		return core.NewDomainError(core.ModulePrefs, core.ErrorCodeInternalError, "prefs: encode rating: "+err.Error())
	}
	if err := s.kv.HSet(ctx, ratingKeyPrefix+rating.UserID, member, raw); err != nil {
		return err
	}
	if err := s.kv.ZAdd(ctx, ratingsKeyPrefix+rating.UserID, float64(rating.OccurredAt.Unix()), member); err != nil {
		return err
	}

	state, err := s.GetPreferences(ctx, rating.UserID)
	if core.IsStoreNotFound(err) {
		state = core.NewUserPreferenceState(rating.UserID)
	} else if err != nil {
		return err
	}
	if isNew {
		state.RatingCount++
	}
	state.MarkStale()
	return s.UpsertPreferences(ctx, state)
}
