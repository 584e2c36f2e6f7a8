package parsing

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ParseJSONChat parses a JSON chat export of the shape
//
//	{"id": "...", "title": "...", "created": 1714000000000,
//	 "messages": [{"role": "user", "content": "..."}, ...]}
//
// into ordered messages plus conversation metadata. Entries that are not
// objects or have no usable content are skipped; an export with no surviving
// messages is rejected with a FormatError.
func ParseJSONChat(content string) (*ParsedDocument, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return nil, &FormatError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	metadata := map[string]any{
		"source":    string(FormatJSONChat),
		"format":    "json_conversation",
		"parsed_at": time.Now().Format(time.RFC3339),
	}
	if title, ok := data["title"]; ok {
		metadata["conversation_title"] = title
	}
	if id, ok := data["id"]; ok {
		metadata["conversation_id"] = id
	}
	if created, ok := data["created"]; ok {
		metadata["conversation_created"] = millisToISO(created)
	}
	if updated, ok := data["updated"]; ok {
		metadata["conversation_updated"] = millisToISO(updated)
	}

	rawMessages, ok := data["messages"].([]any)
	if !ok {
		return nil, &FormatError{Reason: "JSON must contain a 'messages' array"}
	}

	messages := make([]Message, 0, len(rawMessages))
	for _, raw := range rawMessages {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		text, ok := entry["content"].(string)
		if !ok || strings.TrimSpace(text) == "" {
			continue
		}
		role := RoleUser
		if label, ok := entry["role"].(string); ok {
			role = NormalizeRole(label)
		}
		messages = append(messages, Message{Role: role, Content: strings.TrimSpace(text)})
	}

	if len(messages) == 0 {
		return nil, &FormatError{Reason: "no valid messages found in JSON"}
	}

	distribution := map[Role]int{}
	for _, msg := range messages {
		distribution[msg.Role]++
	}
	metadata["message_count"] = len(messages)
	metadata["role_distribution"] = distribution

	return &ParsedDocument{Messages: messages, Metadata: metadata}, nil
}

// millisToISO converts a millisecond Unix timestamp to ISO-8601, degrading to
// the stringified raw value when the field is not numeric.
func millisToISO(raw any) string {
	if ms, ok := raw.(float64); ok {
		return time.UnixMilli(int64(ms)).Format(time.RFC3339)
	}
	return fmt.Sprintf("%v", raw)
}
