package textutil

import (
	"regexp"
	"strings"
)

var (
	multiNewlineRe = regexp.MustCompile(`\n{3,}`)
	spaceRunRe     = regexp.MustCompile(` +`)
	authorLineRe   = regexp.MustCompile(`(?i)author|^by\b`)
	sectionRe      = regexp.MustCompile(`(?:\n|^)([A-Z][A-Za-z0-9 ]{1,50}[:.?!]?)\n+`)
)

// CleanText normalizes extracted text: runs of three or more newlines
// collapse to exactly two, runs of spaces collapse to one, and leading
// and trailing whitespace is trimmed. Idempotent.
func CleanText(text string) string {
	text = multiNewlineRe.ReplaceAllString(text, "\n\n")
	text = spaceRunRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// ExtractMeta derives best-effort metadata from cleaned text. The
// title is the first non-blank line; the authors value is the first
// line mentioning "author" or starting with "by". Both heuristics can
// mis-extract on unusual layouts.
func ExtractMeta(text string) map[string]string {
	meta := make(map[string]string)
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > 0 {
		meta["title"] = lines[0]
	}
	for _, line := range lines {
		if authorLineRe.MatchString(line) {
			meta["authors"] = line
			break
		}
	}
	return meta
}

// Section is a heading plus the text that follows it.
type Section struct {
	Title   string
	Content string
}

// SplitSections splits text into sections on short capitalized heading
// lines. If no headings match, the whole text becomes one "Document"
// section.
func SplitSections(text string) []Section {
	matches := sectionRe.FindAllStringSubmatchIndex(text, -1)
	var sections []Section
	for i, m := range matches {
		title := strings.TrimSpace(text[m[2]:m[3]])
		start := m[1]
		end := len(text)
		if i < len(matches)-1 {
			end = matches[i+1][0]
		}
		sections = append(sections, Section{
			Title:   title,
			Content: strings.TrimSpace(text[start:end]),
		})
	}
	if len(sections) == 0 {
		sections = append(sections, Section{Title: "Document", Content: text})
	}
	return sections
}
