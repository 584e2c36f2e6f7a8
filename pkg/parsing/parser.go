package parsing

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Parser routes raw content through format detection to the matching parse
// strategy.
type Parser struct {
	logger *log.Logger
}

func NewParser(logger *log.Logger) *Parser {
	if logger == nil {
		logger = log.Default()
	}
	return &Parser{logger: logger}
}

// ParseContent detects the format of content and parses it. The extension is
// only a detection hint; extractMode is passed through to the plain-text
// strategy.
func (p *Parser) ParseContent(content, ext, extractMode string) (*ParsedDocument, error) {
	format := DetectFormat(content, ext)
	p.logger.Debug("Detected content format", "format", format, "ext", ext)

	switch format {
	case FormatJSONChat:
		return ParseJSONChat(content)
	case FormatMarkdownChat:
		return ParseMarkdownChat(content), nil
	default:
		return ParsePlainText(content, extractMode), nil
	}
}

// ParseFile reads and decodes a file, parses it, and overlays file-level
// metadata on the result.
func (p *Parser) ParseFile(path, extractMode string) (*ParsedDocument, error) {
	content, err := ReadFileText(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	doc, err := p.ParseContent(content, filepath.Ext(path), extractMode)
	if err != nil {
		return nil, err
	}

	doc.Metadata["file_name"] = filepath.Base(path)
	doc.Metadata["file_path"] = absPath
	doc.Metadata["file_size"] = info.Size()
	doc.Metadata["file_modified"] = info.ModTime().Format(time.RFC3339)

	p.logger.Debug("Parsed file",
		"path", path,
		"source", doc.Metadata["source"],
		"messages", len(doc.Messages))

	return doc, nil
}
