// Package textproc normalizes LLM-produced resume text before rendering.
package textproc

import (
	"regexp"
	"strings"
)

var knownHeaders = []string{
	"PROFESSIONAL SUMMARY", "SUMMARY", "OBJECTIVE", "SKILLS", "TECHNICAL SKILLS",
	"EXPERIENCE", "WORK EXPERIENCE", "PROFESSIONAL EXPERIENCE", "EDUCATION",
	"PROJECTS", "CERTIFICATIONS", "LANGUAGES", "AWARDS", "PUBLICATIONS",
}

var (
	fenceRe      = regexp.MustCompile("(?s)```[a-z]*\n?|```")
	mdHeaderRe   = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
	boldRe       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe     = regexp.MustCompile(`\*([^*\n]+)\*`)
	bulletRe     = regexp.MustCompile(`(?m)^[\s]*[•*+\-]\s+`)
	multiBlankRe = regexp.MustCompile(`\n{3,}`)
	trailingWsRe = regexp.MustCompile(`(?m)[ \t]+$`)
)

// Normalize cleans a tailored resume for display and file generation:
// markdown artifacts are removed, section headers become "HEADER:" lines
// with blank lines around them, and bullets use a single marker.
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	text = fenceRe.ReplaceAllString(text, "")

	// Markdown headers become plain uppercase section headers.
	text = mdHeaderRe.ReplaceAllStringFunc(text, func(line string) string {
		m := mdHeaderRe.FindStringSubmatch(line)
		header := strings.TrimSpace(strings.TrimSuffix(m[1], ":"))
		return strings.ToUpper(header) + ":"
	})

	text = StripInlineMarkdown(text)
	text = bulletRe.ReplaceAllString(text, "• ")

	lines := strings.Split(text, "\n")
	var out []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isSectionHeader(trimmed) {
			header := strings.ToUpper(strings.TrimSuffix(trimmed, ":")) + ":"
			// Blank line before and after each section header.
			if len(out) > 0 && out[len(out)-1] != "" {
				out = append(out, "")
			}
			out = append(out, header, "")
			continue
		}
		out = append(out, line)
	}

	result := strings.Join(out, "\n")
	result = trailingWsRe.ReplaceAllString(result, "")
	result = multiBlankRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// StripInlineMarkdown removes bold/italic markers while keeping the text.
func StripInlineMarkdown(text string) string {
	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	return text
}

// isSectionHeader matches short lines that are one of the known resume
// section names, with or without a trailing colon.
func isSectionHeader(line string) bool {
	if line == "" || len(line) > 40 {
		return false
	}
	upper := strings.ToUpper(strings.TrimSuffix(line, ":"))
	for _, h := range knownHeaders {
		if upper == h {
			return true
		}
	}
	return false
}

// IsSectionHeaderLine reports whether a line reads as an ALL-CAPS section
// header, known or not. Used by the file generator's section splitter.
func IsSectionHeaderLine(line string) bool {
	line = strings.TrimSpace(line)
	if isSectionHeader(line) {
		return true
	}
	if len(line) == 0 || len(line) > 40 || !strings.HasSuffix(line, ":") {
		return false
	}
	body := strings.TrimSuffix(line, ":")
	hasLetter := false
	for _, r := range body {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}
