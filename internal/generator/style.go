package generator

import "fmt"

// rgb is a renderer-independent color.
type rgb struct {
	R, G, B int
}

func (c rgb) hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Style controls fonts and colors for rendered documents.
type Style struct {
	Name        string
	PDFFont     string // fpdf core font family
	HeaderColor rgb
	AccentColor rgb
}

var styles = map[string]Style{
	"modern": {
		Name:        "modern",
		PDFFont:     "Helvetica",
		HeaderColor: rgb{0x2C, 0x3E, 0x50},
		AccentColor: rgb{0x34, 0x98, 0xDB},
	},
	"classic": {
		Name:        "classic",
		PDFFont:     "Times",
		HeaderColor: rgb{0x00, 0x00, 0x00},
		AccentColor: rgb{0x1F, 0x4E, 0x79},
	},
	"minimal": {
		Name:        "minimal",
		PDFFont:     "Helvetica",
		HeaderColor: rgb{0x34, 0x49, 0x5E},
		AccentColor: rgb{0x95, 0xA5, 0xA6},
	},
}

// StyleByName returns a named style, defaulting to modern.
func StyleByName(name string) Style {
	if s, ok := styles[name]; ok {
		return s
	}
	return styles["modern"]
}

// ValidStyle reports whether the style name is recognized.
func ValidStyle(name string) bool {
	_, ok := styles[name]
	return ok
}
