package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rushteam/dinekit/core"
)

// LLMClient 是托管 LLM 协作方的客户端，走 OpenAI 兼容的 chat 接口。
//
// 同时实现两个领域接口：
//   - core.AttributeService：菜名批量 -> 结构化属性（配料/风味/做法/菜系/饮食/类型）
//   - core.ColdStartService：完整当日菜单 -> 推荐 JSON（无偏好信号用户）
//
// 工程特征：
//   - 输出不可信：维度/词表/食堂名的校验全部在调用方（resolver / coldstart）
//   - 单次调用失败直接上抛 UNAVAILABLE，由调用方决定重试与降级
type LLMClient struct {
	// Endpoint 服务端点，例如 "https://api.openai.com"
	Endpoint string

	// Model 模型名称
	Model string

	// APIKey Bearer 认证
	APIKey string

	// Timeout 单次请求超时时间
	Timeout time.Duration

	httpClient *http.Client
}

// NewLLMClient 创建一个新的 LLM 客户端。
func NewLLMClient(endpoint, model string, opts ...LLMOption) *LLMClient {
	client := &LLMClient{
		Endpoint: strings.TrimRight(endpoint, "/"),
		Model:    model,
		Timeout:  60 * time.Second,
	}
	for _, opt := range opts {
		opt(client)
	}
	client.httpClient = &http.Client{Timeout: client.Timeout}
	return client
}

// LLMOption LLM 客户端配置选项
type LLMOption func(*LLMClient)

// WithLLMAPIKey 设置 API Key
func WithLLMAPIKey(key string) LLMOption {
	return func(c *LLMClient) {
		c.APIKey = key
	}
}

// WithLLMTimeout 设置超时时间
func WithLLMTimeout(timeout time.Duration) LLMOption {
	return func(c *LLMClient) {
		c.Timeout = timeout
	}
}

var (
	_ core.AttributeService = (*LLMClient)(nil)
	_ core.ColdStartService = (*LLMClient)(nil)
)

// Name 返回服务名称。
func (c *LLMClient) Name() string { return "llm" }

// Close 关闭客户端。
func (c *LLMClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

const extractSystemPrompt = `You are a food attribute extraction service for a dining hall menu.
For each dish name, return its likely ingredients and attributes.
Respond with a single JSON object mapping each input dish name EXACTLY as given to an object:
{"ingredients": [lowercase ingredient words], "flavor_profiles": [...], "cooking_methods": [...],
"cuisine_type": "...", "dietary_attrs": [...], "dish_type": "..."}.
No prose, JSON only.`

// ExtractBatch 批量抽取菜品属性（实现 core.AttributeService）。
// 返回 map 以输入菜名为 key；模型没有产出的菜名不在结果里。
func (c *LLMClient) ExtractBatch(ctx context.Context, sourceNames []string) (map[string]core.DishAttributes, error) {
	if len(sourceNames) == 0 {
		return map[string]core.DishAttributes{}, nil
	}

	names, err := json.Marshal(sourceNames)
	if err != nil {
		return nil, err
	}
	content, err := c.chat(ctx, extractSystemPrompt, "Dishes: "+string(names))
	if err != nil {
		return nil, err
	}

	parsed := make(map[string]core.DishAttributes)
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &parsed); err != nil {
		return nil, core.NewDomainError(core.ModuleResolver, core.ErrorCodeInvalidInput, "llm: malformed extraction output: "+err.Error())
	}
	return parsed, nil
}

const coldStartSystemPrompt = `You are a dining recommendation service. Given today's full menu
grouped by meal (breakfast_brunch, lunch, dinner) and eatery, pick the best eateries for a new
student with unknown preferences. Favor variety and broadly liked dishes.
Respond with a single JSON object keyed by meal:
{"<meal>": {"picks": [{"eatery": "...", "dishes": ["...", ...]}]}}.
Use only eatery and dish names that appear in the menu. No prose, JSON only.`

// Recommend 基于完整当日菜单给出冷启动推荐（实现 core.ColdStartService）。
// 返回的是未清洗的原始结果，结构化校验在 coldstart 包。
func (c *LLMClient) Recommend(ctx context.Context, menu *core.Menu) (core.Recommendation, error) {
	payload, err := json.Marshal(menu)
	if err != nil {
		return nil, err
	}
	content, err := c.chat(ctx, coldStartSystemPrompt, "Menu: "+string(payload))
	if err != nil {
		return nil, err
	}

	var rec core.Recommendation
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &rec); err != nil {
		return nil, core.NewDomainError(core.ModuleColdStart, core.ErrorCodeInvalidInput, "llm: malformed recommendation output: "+err.Error())
	}
	return rec, nil
}

// chat 调用 OpenAI 兼容的 chat completions 接口，返回首个 choice 的内容。
func (c *LLMClient) chat(ctx context.Context, system, user string) (string, error) {
	body := map[string]interface{}{
		"model": c.Model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"temperature": 0,
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := c.Endpoint + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", core.NewDomainError(core.ModuleResolver, core.ErrorCodeUnavailable, "llm: request failed: "+err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", core.NewDomainError(core.ModuleResolver, core.ErrorCodeUnavailable,
			fmt.Sprintf("llm: status=%d, body=%s", resp.StatusCode, string(bodyBytes)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", core.NewDomainError(core.ModuleResolver, core.ErrorCodeInvalidInput, "llm: empty choices")
	}
	return result.Choices[0].Message.Content, nil
}

// stripCodeFence 去掉模型偶尔包裹输出的 markdown 代码围栏。
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
