package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Output formats accepted by Generate.
const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
	FormatBoth = "both"
)

// ValidFormat reports whether the format name is recognized.
func ValidFormat(format string) bool {
	switch format {
	case FormatPDF, FormatDOCX, FormatBoth:
		return true
	}
	return false
}

// OutputFile describes one rendered document on disk.
type OutputFile struct {
	Format   string
	Filename string
	Path     string
	Size     int64
}

// Generator renders tailored resume text into downloadable documents.
type Generator struct {
	outputDir string
}

func NewGenerator(outputDir string) (*Generator, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Generator{outputDir: outputDir}, nil
}

// Generate renders the text in the requested format(s) and returns the files
// written. Format "both" produces a PDF and a DOCX.
func (g *Generator) Generate(sessionID uuid.UUID, text, format, styleName string) ([]OutputFile, error) {
	if !ValidFormat(format) {
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	doc := ParseDocument(text)
	style := StyleByName(styleName)

	formats := []string{format}
	if format == FormatBoth {
		formats = []string{FormatPDF, FormatDOCX}
	}

	var files []OutputFile
	for _, f := range formats {
		filename := fmt.Sprintf("tailored_resume_%s.%s", sessionID, f)
		path := filepath.Join(g.outputDir, filename)

		var err error
		switch f {
		case FormatPDF:
			err = RenderPDF(doc, style, path)
		case FormatDOCX:
			err = RenderDOCX(doc, style, path)
		}
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", f, err)
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat generated file: %w", err)
		}

		log.Info().
			Str("sessionId", sessionID.String()).
			Str("format", f).
			Str("style", style.Name).
			Int64("bytes", info.Size()).
			Msg("Generated resume file")

		files = append(files, OutputFile{
			Format:   f,
			Filename: filename,
			Path:     path,
			Size:     info.Size(),
		})
	}

	return files, nil
}

// Remove deletes rendered files from disk, ignoring already-missing paths.
func (g *Generator) Remove(paths []string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", p).Msg("Failed to remove generated file")
		}
	}
}
