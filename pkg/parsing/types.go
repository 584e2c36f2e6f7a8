// Package parsing normalizes chat exports and free-form text into ordered
// role/content message sequences ready for upload to the memory backend.
package parsing

// Role is the closed set of speaker roles a message can carry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Format tags the structural shape detected in raw content.
type Format string

const (
	FormatJSONChat     Format = "json_chat"
	FormatMarkdownChat Format = "markdown_chat"
	FormatPlainText    Format = "plain_text"
)

// Extract modes understood by the backend: auto lets it infer and summarize,
// raw stores content verbatim.
const (
	ExtractModeAuto = "auto"
	ExtractModeRaw  = "raw"
)

// Message is one normalized conversation turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ParsedDocument is the output of one parse call: ordered messages plus
// derived metadata. The metadata always carries "source", "format" and
// "parsed_at" keys. A document is built fresh per call and not mutated after
// it is returned; merging happens on copies downstream.
type ParsedDocument struct {
	Messages []Message
	Metadata map[string]any
}
