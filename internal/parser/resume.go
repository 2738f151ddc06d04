package parser

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/smartresume-api/internal/model"
)

// SupportedExtensions lists the resume formats the parser accepts.
var SupportedExtensions = []string{".pdf", ".docx", ".txt"}

var (
	emailRe      = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe      = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	phoneAreaRe  = regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.]?\d{4}`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	xmlTagRe     = regexp.MustCompile(`<[^>]+>`)
)

// sectionKeywords maps each section to the header phrases that introduce it.
var sectionKeywords = map[string][]string{
	"summary":        {"summary", "objective", "profile"},
	"skills":         {"skills", "technical skills", "core competencies"},
	"experience":     {"experience", "work experience", "employment", "professional experience"},
	"education":      {"education", "academic background", "qualifications"},
	"projects":       {"projects", "personal projects"},
	"certifications": {"certifications", "certificates", "licenses"},
}

// sectionOrder fixes the match order for header detection.
var sectionOrder = []string{
	"summary", "skills", "experience", "education", "projects", "certifications",
}

// Supported reports whether the file extension can be parsed.
func Supported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// ExtractResume extracts and sections the text of an uploaded resume file.
func ExtractResume(filename string, data []byte) (*model.ParsedResume, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		text string
		err  error
	)
	switch ext {
	case ".pdf":
		text, err = extractPDFText(data)
	case ".docx":
		text, err = extractDocxText(data)
	case ".txt":
		text, err = extractPlainText(data)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	formatted := CleanText(text)

	return &model.ParsedResume{
		RawText:       text,
		FormattedText: formatted,
		Sections:      ParseSections(text),
		FileType:      ext,
		WordCount:     len(strings.Fields(text)),
		CharCount:     len(text),
	}, nil
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}

	var sb strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Warn().Int("page", i).Err(err).Msg("Failed to extract text from PDF page")
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening DOCX: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()

	// GetContent returns document.xml; turn paragraph boundaries into
	// newlines, then drop the remaining markup.
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = xmlTagRe.ReplaceAllString(content, "")
	return content, nil
}

func extractPlainText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	// Latin-1 fallback for legacy exports
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes), nil
}

// CleanText collapses whitespace and strips characters that confuse
// downstream keyword matching, keeping basic punctuation.
func CleanText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	var sb strings.Builder
	for _, r := range text {
		switch {
		case r == '.' || r == ',' || r == '-' || r == '(' || r == ')' ||
			r == '@' || r == '+' || r == '#' || r == ' ':
			sb.WriteRune(r)
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '_':
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}

// ParseSections splits resume text into common sections by header keywords.
// Blank lines inside a section are preserved so entry boundaries survive
// downstream chunking.
func ParseSections(text string) model.ResumeSections {
	bufs := splitSections(text)
	return model.ResumeSections{
		ContactInfo:    ExtractContactInfo(text),
		Summary:        joinSection(bufs["summary"]),
		Skills:         joinSection(bufs["skills"]),
		Experience:     joinSection(bufs["experience"]),
		Education:      joinSection(bufs["education"]),
		Projects:       joinSection(bufs["projects"]),
		Certifications: joinSection(bufs["certifications"]),
		Other:          joinSection(bufs["other"]),
	}
}

// ExtractContactInfo pulls emails and phone numbers out of the text.
func ExtractContactInfo(text string) string {
	var found []string
	found = append(found, emailRe.FindAllString(text, -1)...)
	found = append(found, phoneAreaRe.FindAllString(text, -1)...)
	for _, m := range phoneRe.FindAllString(text, -1) {
		if !contains(found, m) {
			found = append(found, m)
		}
	}
	return strings.Join(found, " | ")
}

// splitSections assigns each line to the section opened by the most recent
// header. Headers are short lines; long lines that merely mention a keyword
// are not headers. Unrecognized all-caps headers such as AWARDS or LANGUAGES
// open the catch-all section so their content is not dropped.
func splitSections(text string) map[string][]string {
	bufs := make(map[string][]string)
	current := ""

	for _, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		lower := strings.ToLower(trimmed)

		if name, ok := sectionForHeader(lower); ok {
			current = name
			continue
		}
		if current != "" && trimmed != "" && looksLikeHeader(trimmed) {
			current = "other"
			bufs[current] = append(bufs[current], trimmed)
			continue
		}
		if current == "" {
			continue
		}
		bufs[current] = append(bufs[current], trimmed)
	}
	return bufs
}

func sectionForHeader(lower string) (string, bool) {
	if lower == "" || len(lower) >= 50 {
		return "", false
	}
	for _, name := range sectionOrder {
		for _, kw := range sectionKeywords[name] {
			if strings.Contains(lower, kw) {
				return name, true
			}
		}
	}
	return "", false
}

// looksLikeHeader matches short lines with no lowercase letters.
func looksLikeHeader(line string) bool {
	if len(line) > 40 {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

// joinSection trims surrounding blanks and collapses runs of blank lines to
// a single entry separator.
func joinSection(lines []string) string {
	var out []string
	blank := true
	for _, line := range lines {
		if line == "" {
			if !blank {
				out = append(out, "")
				blank = true
			}
			continue
		}
		out = append(out, line)
		blank = false
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
