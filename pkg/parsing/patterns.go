package parsing

import "regexp"

// speakerPattern pairs a chat-log convention with the regexp that locates its
// speaker labels. The same table drives both format detection and markdown
// segmentation, so the order is load-bearing: the first matching pattern
// wins, and reordering changes how ambiguous inputs are split into turns.
type speakerPattern struct {
	name string
	re   *regexp.Regexp
}

var speakerPatterns = []speakerPattern{
	// **User:** hello
	{"bold_label", regexp.MustCompile(`\*\*([^*]+):\*\*\s*`)},
	// ## User
	{"heading", regexp.MustCompile(`(?m)^##\s+([^#\n]+)\n`)},
	// User: hello
	{"line_prefix", regexp.MustCompile(`(?m)^([^:\n]+):\s*`)},
	// [User] hello
	{"bracket", regexp.MustCompile(`\[([^\]]+)\]\s*`)},
	// bare role keyword followed by a delimiter, anywhere in the text
	{"role_keyword", regexp.MustCompile(`(?i)(user|assistant|human|ai|bot|gpt|claude)[\s:：]`)},
}

func (p speakerPattern) matches(content string) bool {
	return p.re.MatchString(content)
}

// speakerTurn is one (label, body) pair extracted during segmentation.
type speakerTurn struct {
	label string
	body  string
}

// segment splits content into turns: each body runs from the end of its
// label match to the start of the next label match, or to the end of input.
func (p speakerPattern) segment(content string) []speakerTurn {
	locs := p.re.FindAllStringSubmatchIndex(content, -1)
	turns := make([]speakerTurn, 0, len(locs))
	for i, loc := range locs {
		bodyEnd := len(content)
		if i+1 < len(locs) {
			bodyEnd = locs[i+1][0]
		}
		turns = append(turns, speakerTurn{
			label: content[loc[2]:loc[3]],
			body:  content[loc[1]:bodyEnd],
		})
	}
	return turns
}
