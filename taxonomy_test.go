package pulse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTaxonomy(t *testing.T) {
	tax := DefaultTaxonomy()

	assert.True(t, tax.Has(EventSendMessage))
	assert.True(t, tax.Has(EventJoinChatRoom))
	assert.True(t, tax.Has(EventLeaveChatRoom))
	assert.True(t, tax.Has(EventTaskSubmission))
	assert.False(t, tax.Has("unknown_event"))

	assert.Len(t, tax.Events(), 4)
}

func TestTaxonomyRegister(t *testing.T) {
	tax := NewTaxonomy()

	err := tax.Register("custom_event", &EventRule{
		Category: "custom",
		Fields:   []FieldRule{{Key: "id", Kind: FieldID}},
	})
	require.NoError(t, err)

	rule, ok := tax.Rule("custom_event")
	require.True(t, ok)
	assert.Equal(t, "custom", rule.Category)
	assert.Len(t, rule.Fields, 1)
}

func TestTaxonomyRegisterDuplicate(t *testing.T) {
	tax := NewTaxonomy()

	require.NoError(t, tax.Register("evt", nil))
	err := tax.Register("evt", nil)
	assert.ErrorIs(t, err, ErrRuleExists)
}

func TestTaxonomyRegisterEmptyName(t *testing.T) {
	tax := NewTaxonomy()
	err := tax.Register("", nil)
	assert.ErrorIs(t, err, ErrEventNameEmpty)
}

func TestTaxonomyCategory(t *testing.T) {
	tax := DefaultTaxonomy()

	assert.Equal(t, "chat", tax.Category(EventSendMessage))
	assert.Equal(t, "chat", tax.Category(EventJoinChatRoom))
	assert.Equal(t, "task", tax.Category(EventTaskSubmission))

	// 未注册事件回退到通用分类
	assert.Equal(t, "event", tax.Category("mystery"))
}
