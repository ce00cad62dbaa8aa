package pulse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSendMessage(t *testing.T) {
	v := NewValidator(nil)

	res := v.Validate(EventSendMessage, map[string]any{
		"chat_id": 42,
		"message": "hello",
	})
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidateUnknownEvent(t *testing.T) {
	v := NewValidator(nil)

	res := v.Validate("bogus_event", map[string]any{"x": 1})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, `unknown event "bogus_event"`)
}

func TestValidateNilData(t *testing.T) {
	v := NewValidator(nil)

	res := v.Validate(EventSendMessage, nil)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "event data is required")
}

func TestValidateNonObjectData(t *testing.T) {
	v := NewValidator(nil)

	res := v.Validate(EventSendMessage, "just a string")
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "event data must be an object")
}

func TestValidateAggregatesErrors(t *testing.T) {
	v := NewValidator(nil)

	// chat_id 缺失且 message 为空，两条错误都要报告
	res := v.Validate(EventSendMessage, map[string]any{
		"message": "",
	})
	assert.False(t, res.Valid)
	assert.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors, `missing field "chat_id"`)
	assert.Contains(t, res.Errors, `field "message" must be a non-empty string`)
}

func TestValidateIdentifierForms(t *testing.T) {
	v := NewValidator(nil)

	tests := []struct {
		name    string
		chatID  any
		valid   bool
	}{
		{"int", 7, true},
		{"int64", int64(7), true},
		{"float64", float64(7), true},
		{"numeric string", "7", true},
		{"empty string", "", false},
		{"word string", "seven", false},
		{"bool", true, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Validate(EventJoinChatRoom, map[string]any{"chat_id": tt.chatID})
			assert.Equal(t, tt.valid, res.Valid, "errors: %v", res.Errors)
		})
	}
}

func TestValidateCustomCheck(t *testing.T) {
	tax := NewTaxonomy()
	_ = tax.Register("guarded", &EventRule{
		Check: func(data map[string]any) []string {
			if data["kind"] != "ok" {
				return []string{"kind must be ok"}
			}
			return nil
		},
	})
	v := NewValidator(tax)

	res := v.Validate("guarded", map[string]any{"kind": "bad"})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "kind must be ok")

	res = v.Validate("guarded", map[string]any{"kind": "ok"})
	assert.True(t, res.Valid)
}
