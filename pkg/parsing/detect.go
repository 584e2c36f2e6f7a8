package parsing

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// Long or tool-exported markdown documents are not reliable speaker-turn
// logs, so .md inputs past these bounds are kept as plain text.
const (
	maxMarkdownRunes    = 3000
	maxMarkdownNewlines = 50
)

var exportMarkers = []string{
	"Made with Echoes",
	"This conversation was exported",
}

// DetectFormat classifies raw content as a JSON chat export, a markdown chat
// log, or plain text, using the file extension as a hint. It never fails:
// anything unrecognized degrades to plain text.
func DetectFormat(content, ext string) Format {
	ext = strings.ToLower(ext)

	if ext == ".json" || strings.HasPrefix(strings.TrimSpace(content), "{") {
		var data map[string]any
		if err := json.Unmarshal([]byte(content), &data); err == nil {
			if _, ok := data["messages"]; ok {
				return FormatJSONChat
			}
		}
	}

	for _, p := range speakerPatterns {
		if p.matches(content) {
			if ext == ".md" && looksLikeExportedDocument(content) {
				return FormatPlainText
			}
			return FormatMarkdownChat
		}
	}

	return FormatPlainText
}

func looksLikeExportedDocument(content string) bool {
	for _, marker := range exportMarkers {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return utf8.RuneCountInString(content) > maxMarkdownRunes ||
		strings.Count(content, "\n") > maxMarkdownNewlines
}
