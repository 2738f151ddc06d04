package generator

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// RenderDOCX writes the document as a styled Word file.
func RenderDOCX(doc *Document, style Style, path string) error {
	w := docx.New()

	headerHex := style.HeaderColor.hex()
	accentHex := style.AccentColor.hex()

	for i, line := range doc.Header {
		para := w.AddParagraph()
		para.Justification("center")
		if i == 0 {
			para.AddText(line).Size("32").Bold().Color(headerHex)
		} else {
			para.AddText(line).Size("20").Color("505050")
		}
	}
	if len(doc.Header) > 0 {
		w.AddParagraph()
	}

	for _, section := range doc.Sections {
		title := w.AddParagraph()
		title.AddText(section.Title).Size("24").Bold().Color(headerHex)

		for _, line := range section.Lines {
			para := w.AddParagraph()
			if line.Bullet {
				para.AddText("• " + line.Text).Size("20")
			} else if looksLikeEntryTitle(line.Text) {
				para.AddText(line.Text).Size("20").Bold().Color(accentHex)
			} else {
				para.AddText(line.Text).Size("20")
			}
		}
		w.AddParagraph()
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating DOCX file: %w", err)
	}
	defer f.Close()

	if _, err := w.WriteTo(f); err != nil {
		return fmt.Errorf("writing DOCX: %w", err)
	}
	return nil
}

// looksLikeEntryTitle catches job-title or degree lines so they can be
// emphasized: short, no bullet, and containing a pipe or " at " separator.
func looksLikeEntryTitle(text string) bool {
	if len(text) > 90 {
		return false
	}
	for _, sep := range []string{" | ", " at ", " - "} {
		if strings.Contains(text, sep) {
			return true
		}
	}
	return false
}
