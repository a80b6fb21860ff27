package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/rushteam/dinekit/core"
)

// Food2Vec 是基于预训练词向量表的配料向量化模型，实现 core.EmbeddingService。
//
// 核心思想：
//   - 每个配料 token（"chicken"、"garlic"）映射为一个稠密向量
//   - 菜品向量 = 配料 token 向量的平均
//   - OOV（词表外）token 直接跳过，不参与平均
//
// 语义约束：
//   - 向量是配料集合的函数，与菜名无关：配料相同的两道菜得到同一个向量
//   - 配料里没有任何词表内 token 时返回 core.ErrNoEmbedding，
//     由上层决定该菜是否参与向量相似度打分
//
// 工程特征：
//   - 实时性：好（预加载词向量表，O(1) 查找）
//   - 计算复杂度：低（向量平均）
type Food2Vec struct {
	// WordVectors 词向量表：token -> vector
	WordVectors map[string][]float64

	// Dimension 向量维度，默认 core.EmbeddingDim
	Dimension int
}

// NewFood2Vec 创建词向量模型。dimension <= 0 时从第一个向量推断，
// 词表为空时回落到 core.EmbeddingDim。
func NewFood2Vec(wordVectors map[string][]float64, dimension int) *Food2Vec {
	if dimension <= 0 {
		for _, vec := range wordVectors {
			dimension = len(vec)
			break
		}
	}
	if dimension <= 0 {
		dimension = core.EmbeddingDim
	}
	return &Food2Vec{
		WordVectors: wordVectors,
		Dimension:   dimension,
	}
}

var _ core.EmbeddingService = (*Food2Vec)(nil)

// Name 返回模型名称。
func (m *Food2Vec) Name() string { return "food2vec" }

// Close 释放资源（词向量表为纯内存，无需处理）。
func (m *Food2Vec) Close() error { return nil }

// EmbedIngredients 将配料列表编码为向量。
// 每个配料按空白切分为 token（"soy sauce" -> "soy","sauce"），
// 小写化后查词表取平均；没有任何命中时返回 core.ErrNoEmbedding。
func (m *Food2Vec) EmbedIngredients(ctx context.Context, ingredients []string) ([]float64, error) {
	aggregated := make([]float64, m.Dimension)
	hits := 0
	for _, ingredient := range ingredients {
		for _, token := range strings.Fields(strings.ToLower(ingredient)) {
			vec, ok := m.WordVectors[token]
			if !ok || len(vec) != m.Dimension {
				continue
			}
			hits++
			for i := range vec {
				aggregated[i] += vec[i]
			}
		}
	}
	if hits == 0 {
		return nil, core.ErrNoEmbedding
	}
	for i := range aggregated {
		aggregated[i] /= float64(hits)
	}
	return aggregated, nil
}

// LoadFood2VecFromMap 从 map 加载词向量（用于从 JSON/YAML 等格式加载）。
func LoadFood2VecFromMap(data map[string]interface{}) (*Food2Vec, error) {
	wordVectors := make(map[string][]float64)
	dimension := 0

	for word, vecInterface := range data {
		vec, ok := vecInterface.([]interface{})
		if !ok {
			continue
		}

		vector := make([]float64, 0, len(vec))
		for _, v := range vec {
			switch val := v.(type) {
			case float64:
				vector = append(vector, val)
			case int:
				vector = append(vector, float64(val))
			case int64:
				vector = append(vector, float64(val))
			}
		}

		if len(vector) > 0 {
			if dimension == 0 {
				dimension = len(vector)
			} else if len(vector) != dimension {
				return nil, fmt.Errorf("inconsistent vector dimension: word %s has dimension %d, expected %d", word, len(vector), dimension)
			}
			wordVectors[word] = vector
		}
	}

	if dimension == 0 {
		return nil, fmt.Errorf("no valid vectors found")
	}

	return NewFood2Vec(wordVectors, dimension), nil
}

// Food2VecLoader 是词向量表加载器接口。
// 支持从不同来源加载模型（文件、HTTP、S3 等）。
type Food2VecLoader interface {
	// Load 加载词向量模型
	Load(ctx context.Context, source string) (*Food2Vec, error)
}
