package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 错误分类（与 run 级处理策略对应）：
//   - CollaboratorFailure（UNAVAILABLE）：抽取/embedding/LLM 调用失败；
//     本地重试后降级到默认属性，绝不让 run 失败
//   - ValidationFailure（INVALID_INPUT）：协作方输出非法
//     （向量维度不对、冷启动结果引用未知食堂）；丢弃该条目
//   - DataIntegrityFailure：目录写冲突；重试幂等 upsert 即可恢复
//   - ComputationImpossible（NO_SIGNAL）：用户没有任何偏好信号；
//     不是错误，路由到冷启动
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "NO_SIGNAL"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "prefs", "coldstart"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*DomainError)
	return ok
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 协作方/服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入或协作方输出非法
	ErrorCodeNoSignal      = "NO_SIGNAL"      // 用户无任何偏好信号
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleStore     = "store"     // 存储模块
	ModuleCatalog   = "catalog"   // 菜品目录模块
	ModuleResolver  = "resolver"  // 属性/向量解析模块
	ModulePrefs     = "prefs"     // 偏好向量模块
	ModuleRank      = "rank"      // 混合打分模块
	ModuleAggregate = "aggregate" // 食堂聚合模块
	ModuleColdStart = "coldstart" // 冷启动模块
	ModuleEngine    = "engine"    // run 编排模块
)

// 领域哨兵错误
var (
	// ErrNoPreferenceSignal 用户既没有评分也没有可匹配的初始配料：
	// 不产出向量，由冷启动路径接管（不是失败）
	ErrNoPreferenceSignal = NewDomainError(ModulePrefs, ErrorCodeNoSignal, "prefs: no derivable preference signal")

	// ErrNoEmbedding 配料列表里没有任何可识别 token，得不到向量
	ErrNoEmbedding = NewDomainError(ModuleResolver, ErrorCodeNotFound, "resolver: no embeddable ingredient tokens")

	// ErrInvalidEmbedding 协作方返回的向量维度不等于 EmbeddingDim
	ErrInvalidEmbedding = NewDomainError(ModuleResolver, ErrorCodeInvalidInput, "resolver: embedding has wrong dimension")
)

// 通用错误检查函数

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsNoSignal 检查错误是否为 NO_SIGNAL（冷启动路由条件）
func IsNoSignal(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNoSignal
	}
	return false
}

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnavailable
	}
	return false
}
