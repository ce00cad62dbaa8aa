package pulse

import (
	"encoding/json"
	"regexp"
	"strconv"
)

// MaxMessageLength 消息文本的最大长度（字符数）
// 超长文本在净化阶段截断而非拒绝，校验与净化有意解耦：
// 超长但结构合法的消息降级通过，由校验器独立决定是否另行标记。
const MaxMessageLength = 1000

// 需要无条件移除的凭证类字段
var secretFields = []string{"token", "password", "secret"}

// 需要强制转为整数的标识符字段
var identifierFields = []string{"chat_id", "task_id", "user_id"}

// markupPattern 匹配标记语言标签
var markupPattern = regexp.MustCompile(`<[^>]*>`)

// Sanitizer 事件负载净化器
// 产出输入的净化副本，从不修改输入，也从不失败。
type Sanitizer struct{}

// NewSanitizer 创建净化器
func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

// Sanitize 净化事件负载
//
// 非对象负载原样返回。对象负载做浅拷贝后：
//   - 移除凭证类字段（token / password / secret）
//   - message 字段剥离标记并截断到 MaxMessageLength
//   - 标识符字段强制转为 int64，非数字值转为 0
func (s *Sanitizer) Sanitize(event string, data any) any {
	obj, ok := data.(map[string]any)
	if !ok {
		return data
	}

	clean := make(map[string]any, len(obj))
	for k, v := range obj {
		clean[k] = v
	}

	for _, key := range secretFields {
		delete(clean, key)
	}

	if msg, ok := clean["message"].(string); ok {
		clean["message"] = sanitizeText(msg)
	}

	for _, key := range identifierFields {
		if v, present := clean[key]; present {
			clean[key] = coerceID(v)
		}
	}

	return clean
}

// sanitizeText 剥离标记标签并截断
func sanitizeText(s string) string {
	s = markupPattern.ReplaceAllString(s, "")
	runes := []rune(s)
	if len(runes) > MaxMessageLength {
		return string(runes[:MaxMessageLength])
	}
	return s
}

// coerceID 将标识符值转为 int64，无法解析时回退为 0
func coerceID(v any) int64 {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case int64:
		return val
	case uint:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return int64(val)
	case float32:
		return int64(val)
	case float64:
		return int64(val)
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n
		}
		return 0
	case string:
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
		return 0
	default:
		return 0
	}
}
