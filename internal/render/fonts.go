package render

import (
	"fmt"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"CollabCanvas/internal/state"
)

// DefaultFontSize is used when a text element carries no explicit size.
const DefaultFontSize = 16

// fontSet holds the four style variants of the bundled text face. Whatever
// family name an element asks for, rendering substitutes the bundled family;
// only the bold/italic flags and size select a variant. FontSources are
// heavyweight, so one set is shared per Renderer.
type fontSet struct {
	regular    *text.FontSource
	bold       *text.FontSource
	italic     *text.FontSource
	boldItalic *text.FontSource
}

func loadFonts() (*fontSet, error) {
	fs := &fontSet{}
	for _, v := range []struct {
		dst  **text.FontSource
		data []byte
		name string
	}{
		{&fs.regular, goregular.TTF, "regular"},
		{&fs.bold, gobold.TTF, "bold"},
		{&fs.italic, goitalic.TTF, "italic"},
		{&fs.boldItalic, gobolditalic.TTF, "bold italic"},
	} {
		src, err := text.NewFontSource(v.data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s font: %w", v.name, err)
		}
		*v.dst = src
	}
	return fs, nil
}

// face returns the font face matching the element's style flags and size.
func (fs *fontSet) face(el state.Element) text.Face {
	size := el.FontSize
	if size <= 0 {
		size = DefaultFontSize
	}
	switch {
	case el.Bold && el.Italic:
		return fs.boldItalic.Face(size)
	case el.Bold:
		return fs.bold.Face(size)
	case el.Italic:
		return fs.italic.Face(size)
	default:
		return fs.regular.Face(size)
	}
}
