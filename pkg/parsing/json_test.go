package parsing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONChatInvalidJSON(t *testing.T) {
	_, err := ParseJSONChat("not json at all")
	require.Error(t, err)

	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestParseJSONChatMissingMessages(t *testing.T) {
	_, err := ParseJSONChat(`{"title": "no conversation here"}`)
	require.Error(t, err)

	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestParseJSONChatEmptyMessages(t *testing.T) {
	_, err := ParseJSONChat(`{"messages": []}`)
	require.Error(t, err)

	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestParseJSONChatSingleMessage(t *testing.T) {
	doc, err := ParseJSONChat(`{"messages": [{"role": "user", "content": "hi"}]}`)
	require.NoError(t, err)

	require.Len(t, doc.Messages, 1)
	assert.Equal(t, Message{Role: RoleUser, Content: "hi"}, doc.Messages[0])
	assert.Equal(t, 1, doc.Metadata["message_count"])
	assert.Equal(t, "json_chat", doc.Metadata["source"])
	assert.Equal(t, "json_conversation", doc.Metadata["format"])
	assert.NotEmpty(t, doc.Metadata["parsed_at"])
}

func TestParseJSONChatSkipsUnusableEntries(t *testing.T) {
	content := `{"messages": [
		{"role": "user", "content": "   "},
		"not an object",
		42,
		{"role": "assistant"},
		{"role": "assistant", "content": "ok"}
	]}`

	doc, err := ParseJSONChat(content)
	require.NoError(t, err)

	require.Len(t, doc.Messages, 1)
	assert.Equal(t, Message{Role: RoleAssistant, Content: "ok"}, doc.Messages[0])
}

func TestParseJSONChatDefaultsMissingRoleToUser(t *testing.T) {
	doc, err := ParseJSONChat(`{"messages": [{"content": "hello"}]}`)
	require.NoError(t, err)

	require.Len(t, doc.Messages, 1)
	assert.Equal(t, RoleUser, doc.Messages[0].Role)
}

func TestParseJSONChatNormalizesRoles(t *testing.T) {
	content := `{"messages": [
		{"role": "ChatGPT", "content": "a"},
		{"role": "用户", "content": "b"},
		{"role": "moderator", "content": "c"}
	]}`

	doc, err := ParseJSONChat(content)
	require.NoError(t, err)

	require.Len(t, doc.Messages, 3)
	assert.Equal(t, RoleAssistant, doc.Messages[0].Role)
	assert.Equal(t, RoleUser, doc.Messages[1].Role)
	assert.Equal(t, RoleUser, doc.Messages[2].Role)

	assert.Equal(t, map[Role]int{RoleUser: 2, RoleAssistant: 1}, doc.Metadata["role_distribution"])
}

func TestParseJSONChatConversationMetadata(t *testing.T) {
	content := `{
		"id": "conv-1",
		"title": "Trip planning",
		"created": 1714521600000,
		"updated": "later",
		"messages": [{"role": "user", "content": "hi"}]
	}`

	doc, err := ParseJSONChat(content)
	require.NoError(t, err)

	assert.Equal(t, "conv-1", doc.Metadata["conversation_id"])
	assert.Equal(t, "Trip planning", doc.Metadata["conversation_title"])

	expected := time.UnixMilli(1714521600000).Format(time.RFC3339)
	assert.Equal(t, expected, doc.Metadata["conversation_created"])
	// Non-numeric timestamps degrade to their string form.
	assert.Equal(t, "later", doc.Metadata["conversation_updated"])
}

func TestParseJSONChatTrimsContent(t *testing.T) {
	doc, err := ParseJSONChat(`{"messages": [{"role": "user", "content": "  spaced out  "}]}`)
	require.NoError(t, err)

	assert.Equal(t, "spaced out", doc.Messages[0].Content)
}
