package generator

import (
	"strings"

	"github.com/yourusername/smartresume-api/internal/textproc"
)

// Line is one renderable line of section content.
type Line struct {
	Text   string
	Bullet bool
}

// Section is a titled block of resume content.
type Section struct {
	Title string
	Lines []Line
}

// Document is the renderer-agnostic structure both the PDF and DOCX
// generators consume.
type Document struct {
	// Header holds the lines before the first section header, usually the
	// candidate's name and contact details.
	Header   []string
	Sections []Section
}

// ParseDocument splits tailored resume text into a header block and titled
// sections, using ALL-CAPS "HEADER:" lines as boundaries.
func ParseDocument(text string) *Document {
	doc := &Document{}
	var current *Section

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if textproc.IsSectionHeaderLine(line) {
			title := strings.TrimSuffix(strings.ToUpper(line), ":")
			doc.Sections = append(doc.Sections, Section{Title: title})
			current = &doc.Sections[len(doc.Sections)-1]
			continue
		}

		if current == nil {
			// Keep the header compact; overflow goes into a catch-all section.
			if len(doc.Header) < 6 {
				doc.Header = append(doc.Header, line)
				continue
			}
			doc.Sections = append(doc.Sections, Section{Title: "SUMMARY"})
			current = &doc.Sections[len(doc.Sections)-1]
		}

		bullet := false
		for _, marker := range []string{"• ", "- ", "* "} {
			if strings.HasPrefix(line, marker) {
				line = strings.TrimSpace(strings.TrimPrefix(line, marker))
				bullet = true
				break
			}
		}

		current.Lines = append(current.Lines, Line{Text: line, Bullet: bullet})
	}

	return doc
}
