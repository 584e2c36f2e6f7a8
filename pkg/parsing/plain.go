package parsing

import (
	"strings"
	"time"
)

// ParsePlainText wraps unstructured content as a single user message. The
// extract mode only lands in metadata; it signals whether the backend should
// run its own inference over the content or store it verbatim.
func ParsePlainText(content, extractMode string) *ParsedDocument {
	metadata := map[string]any{
		"source":       string(FormatPlainText),
		"extract_mode": extractMode,
		"parsed_at":    time.Now().Format(time.RFC3339),
	}
	if extractMode == ExtractModeRaw {
		metadata["format"] = "raw_content"
	} else {
		metadata["format"] = "ai_extract"
	}

	return &ParsedDocument{
		Messages: []Message{{Role: RoleUser, Content: strings.TrimSpace(content)}},
		Metadata: metadata,
	}
}
