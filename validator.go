package pulse

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ValidationResult 校验结果
// 每次校验都会生成新实例，Errors 按规则检查顺序排列。
type ValidationResult struct {
	// Valid 是否通过全部规则
	Valid bool

	// Errors 所有违反规则的描述
	Errors []string
}

// Validator 事件校验器
// 依据 Taxonomy 对事件负载做结构校验，纯函数、无副作用。
type Validator struct {
	taxonomy *Taxonomy
}

// NewValidator 创建校验器，taxonomy 为 nil 时使用预置注册表
func NewValidator(taxonomy *Taxonomy) *Validator {
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy()
	}
	return &Validator{taxonomy: taxonomy}
}

// Validate 校验事件负载
// 汇总所有违反的规则而非遇错即停，便于调用方一次拿到完整诊断。
func (v *Validator) Validate(event string, data any) ValidationResult {
	var errs []string

	rule, known := v.taxonomy.Rule(event)
	if !known {
		errs = append(errs, fmt.Sprintf("unknown event %q", event))
	}

	// 事件必须携带负载，空结构体也算
	if data == nil {
		errs = append(errs, "event data is required")
	}

	if known && data != nil {
		errs = append(errs, checkRule(rule, data)...)
	}

	return ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

// checkRule 执行单事件规则集
func checkRule(rule *EventRule, data any) []string {
	if len(rule.Fields) == 0 && rule.Check == nil {
		return nil
	}

	obj, ok := data.(map[string]any)
	if !ok {
		return []string{"event data must be an object"}
	}

	var errs []string
	for _, f := range rule.Fields {
		val, present := obj[f.Key]
		if !present {
			errs = append(errs, fmt.Sprintf("missing field %q", f.Key))
			continue
		}

		switch f.Kind {
		case FieldID:
			if !isIdentifier(val) {
				errs = append(errs, fmt.Sprintf("field %q must be an identifier", f.Key))
			}
		case FieldText:
			s, isStr := val.(string)
			if !isStr || s == "" {
				errs = append(errs, fmt.Sprintf("field %q must be a non-empty string", f.Key))
			}
		}
	}

	if rule.Check != nil {
		errs = append(errs, rule.Check(obj)...)
	}

	return errs
}

// isIdentifier 判断是否为标识符值：数字类型或数字字符串
func isIdentifier(v any) bool {
	switch val := v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	case json.Number:
		_, err := val.Int64()
		return err == nil
	case string:
		if val == "" {
			return false
		}
		_, err := strconv.ParseInt(val, 10, 64)
		return err == nil
	default:
		return false
	}
}
