// Package vector 提供打分链路使用的向量与集合相似度原语。
// 约定：零向量与任何向量的余弦相似度为 0；两个空集的 Jaccard 相似度为 0。
package vector

import "math"

// Cosine 计算两个向量的余弦相似度。
// 任一向量为零向量、或长度不一致时返回 0。
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Jaccard 计算两个字符串集合的 Jaccard 相似度：|A∩B| / |A∪B|。
// 两个集合都为空时返回 0。输入按集合语义处理（重复元素只算一次）。
func Jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(a))
	for _, s := range a {
		setA[s] = true
	}
	union := make(map[string]bool, len(a)+len(b))
	for s := range setA {
		union[s] = true
	}
	intersection := 0
	seenB := make(map[string]bool, len(b))
	for _, s := range b {
		if seenB[s] {
			continue
		}
		seenB[s] = true
		union[s] = true
		if setA[s] {
			intersection++
		}
	}
	if len(union) == 0 {
		return 0
	}
	return float64(intersection) / float64(len(union))
}

// Mean 计算一组等长向量的均值向量。空输入返回 nil。
func Mean(vectors [][]float64) []float64 {
	if len(vectors) == 0 {
		return nil
	}
	dim := len(vectors[0])
	out := make([]float64, dim)
	count := 0
	for _, v := range vectors {
		if len(v) != dim {
			continue
		}
		for i := range v {
			out[i] += v[i]
		}
		count++
	}
	if count == 0 {
		return nil
	}
	for i := range out {
		out[i] /= float64(count)
	}
	return out
}

// AddScaled 就地计算 dst += scale * v。长度不一致时不做任何事。
func AddScaled(dst, v []float64, scale float64) {
	if len(dst) != len(v) {
		return
	}
	for i := range v {
		dst[i] += scale * v[i]
	}
}

// Norm 返回向量的 L2 范数。
func Norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Normalize 返回单位化后的新向量；零向量原样返回拷贝。
func Normalize(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	n := Norm(v)
	if n == 0 {
		return out
	}
	for i := range out {
		out[i] /= n
	}
	return out
}

// IsZero 判断向量是否全零（或为空）。
func IsZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
