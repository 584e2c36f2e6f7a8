package parsing

import (
	"strings"
	"time"
)

// ParseMarkdownChat extracts speaker turns from markdown-delimited chat text.
// Patterns are tried in table order and the first one with any label match
// wins; later patterns are never consulted. Bodies are trimmed and empty
// bodies dropped. When nothing matches, the whole input is kept as a single
// user message and the metadata format is marked single_message; this parser
// never hard-fails.
func ParseMarkdownChat(content string) *ParsedDocument {
	metadata := map[string]any{
		"source":    string(FormatMarkdownChat),
		"format":    "conversation",
		"parsed_at": time.Now().Format(time.RFC3339),
	}

	var messages []Message
	for _, p := range speakerPatterns {
		turns := p.segment(content)
		if len(turns) == 0 {
			continue
		}
		for _, turn := range turns {
			body := strings.TrimSpace(turn.body)
			if body == "" {
				continue
			}
			messages = append(messages, Message{Role: NormalizeRole(turn.label), Content: body})
		}
		break
	}

	if len(messages) == 0 {
		messages = []Message{{Role: RoleUser, Content: strings.TrimSpace(content)}}
		metadata["format"] = "single_message"
	}

	return &ParsedDocument{Messages: messages, Metadata: metadata}
}
