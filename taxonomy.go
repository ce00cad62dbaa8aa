package pulse

import "sync"

// 内置事件名称
const (
	// EventSendMessage 发送聊天消息
	EventSendMessage = "send_message"
	// EventJoinChatRoom 加入聊天室
	EventJoinChatRoom = "join_chat_room"
	// EventLeaveChatRoom 离开聊天室
	EventLeaveChatRoom = "leave_chat_room"
	// EventTaskSubmission 提交任务
	EventTaskSubmission = "task_submission"
)

// FieldKind 字段类别
type FieldKind int

const (
	// FieldID 标识符字段（数字或数字字符串）
	FieldID FieldKind = iota
	// FieldText 文本字段（非空字符串）
	FieldText
)

// FieldRule 字段校验规则
type FieldRule struct {
	// Key 负载中的字段名
	Key string
	// Kind 字段类别
	Kind FieldKind
}

// EventRule 单个事件的校验规则集
type EventRule struct {
	// Category 事件分类，用于诊断日志行
	Category string

	// Fields 必填字段列表
	Fields []FieldRule

	// Check 可选的自定义校验，返回违反规则的描述列表
	Check func(data map[string]any) []string
}

// Taxonomy 事件分类注册表
// 事件名 → 校验规则集，未注册的事件一律视为非法。
type Taxonomy struct {
	mu    sync.RWMutex
	rules map[string]*EventRule
}

// NewTaxonomy 创建空注册表
func NewTaxonomy() *Taxonomy {
	return &Taxonomy{
		rules: make(map[string]*EventRule),
	}
}

// DefaultTaxonomy 创建预置注册表
// 包含聊天 / 任务通道的最小事件集。
func DefaultTaxonomy() *Taxonomy {
	t := NewTaxonomy()

	// 注册内置规则不会失败，忽略错误
	_ = t.Register(EventSendMessage, &EventRule{
		Category: "chat",
		Fields: []FieldRule{
			{Key: "chat_id", Kind: FieldID},
			{Key: "message", Kind: FieldText},
		},
	})
	_ = t.Register(EventJoinChatRoom, &EventRule{
		Category: "chat",
		Fields: []FieldRule{
			{Key: "chat_id", Kind: FieldID},
		},
	})
	_ = t.Register(EventLeaveChatRoom, &EventRule{
		Category: "chat",
		Fields: []FieldRule{
			{Key: "chat_id", Kind: FieldID},
		},
	})
	_ = t.Register(EventTaskSubmission, &EventRule{
		Category: "task",
		Fields: []FieldRule{
			{Key: "chat_id", Kind: FieldID},
			{Key: "task_id", Kind: FieldID},
		},
	})

	return t
}

// Register 注册事件规则
// 事件名为空或规则已存在时返回错误。
func (t *Taxonomy) Register(event string, rule *EventRule) error {
	if event == "" {
		return ErrEventNameEmpty
	}
	if rule == nil {
		rule = &EventRule{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.rules[event]; exists {
		return ErrRuleExists
	}

	t.rules[event] = rule
	return nil
}

// Rule 获取事件规则
func (t *Taxonomy) Rule(event string) (*EventRule, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rule, ok := t.rules[event]
	return rule, ok
}

// Has 检查事件是否已注册
func (t *Taxonomy) Has(event string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.rules[event]
	return ok
}

// Category 获取事件分类，未注册或未设置时返回 "event"
func (t *Taxonomy) Category(event string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if rule, ok := t.rules[event]; ok && rule.Category != "" {
		return rule.Category
	}
	return "event"
}

// Events 返回所有已注册的事件名
func (t *Taxonomy) Events() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	events := make([]string, 0, len(t.rules))
	for name := range t.rules {
		events = append(events, name)
	}
	return events
}
