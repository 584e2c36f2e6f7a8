package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarkdownChatBoldLabels(t *testing.T) {
	doc := ParseMarkdownChat("**User:** hello\n**Assistant:** hi there")

	require.Len(t, doc.Messages, 2)
	assert.Equal(t, Message{Role: RoleUser, Content: "hello"}, doc.Messages[0])
	assert.Equal(t, Message{Role: RoleAssistant, Content: "hi there"}, doc.Messages[1])
	assert.Equal(t, "markdown_chat", doc.Metadata["source"])
	assert.Equal(t, "conversation", doc.Metadata["format"])
}

func TestParseMarkdownChatHeadings(t *testing.T) {
	doc := ParseMarkdownChat("## User\nhello there\n## Assistant\ngreetings\n")

	require.Len(t, doc.Messages, 2)
	assert.Equal(t, Message{Role: RoleUser, Content: "hello there"}, doc.Messages[0])
	assert.Equal(t, Message{Role: RoleAssistant, Content: "greetings"}, doc.Messages[1])
}

func TestParseMarkdownChatLinePrefix(t *testing.T) {
	doc := ParseMarkdownChat("User: hey\nAssistant: not much")

	require.Len(t, doc.Messages, 2)
	assert.Equal(t, Message{Role: RoleUser, Content: "hey"}, doc.Messages[0])
	assert.Equal(t, Message{Role: RoleAssistant, Content: "not much"}, doc.Messages[1])
}

func TestParseMarkdownChatBrackets(t *testing.T) {
	doc := ParseMarkdownChat("[User] first\n[Assistant] second")

	require.Len(t, doc.Messages, 2)
	assert.Equal(t, Message{Role: RoleUser, Content: "first"}, doc.Messages[0])
	assert.Equal(t, Message{Role: RoleAssistant, Content: "second"}, doc.Messages[1])
}

func TestParseMarkdownChatBareKeywords(t *testing.T) {
	doc := ParseMarkdownChat("user hello assistant hi")

	require.Len(t, doc.Messages, 2)
	assert.Equal(t, Message{Role: RoleUser, Content: "hello"}, doc.Messages[0])
	assert.Equal(t, Message{Role: RoleAssistant, Content: "hi"}, doc.Messages[1])
}

func TestParseMarkdownChatMultilineBodies(t *testing.T) {
	doc := ParseMarkdownChat("**User:** first line\nsecond line\n**Assistant:** reply")

	require.Len(t, doc.Messages, 2)
	assert.Equal(t, "first line\nsecond line", doc.Messages[0].Content)
	assert.Equal(t, "reply", doc.Messages[1].Content)
}

func TestParseMarkdownChatFirstPatternWins(t *testing.T) {
	// Bold labels outrank brackets, so the bracketed text stays inside the
	// first body instead of starting a new turn.
	doc := ParseMarkdownChat("**User:** alpha [note] beta\n**Assistant:** gamma")

	require.Len(t, doc.Messages, 2)
	assert.Equal(t, "alpha [note] beta", doc.Messages[0].Content)
	assert.Equal(t, "gamma", doc.Messages[1].Content)
}

func TestParseMarkdownChatDropsEmptyBodies(t *testing.T) {
	doc := ParseMarkdownChat("**User:**\n**Assistant:** hi")

	require.Len(t, doc.Messages, 1)
	assert.Equal(t, Message{Role: RoleAssistant, Content: "hi"}, doc.Messages[0])
}

func TestParseMarkdownChatSingleMessageFallback(t *testing.T) {
	doc := ParseMarkdownChat("no structured speakers in this note")

	require.Len(t, doc.Messages, 1)
	assert.Equal(t, RoleUser, doc.Messages[0].Role)
	assert.Equal(t, "no structured speakers in this note", doc.Messages[0].Content)
	assert.Equal(t, "single_message", doc.Metadata["format"])
}
