// seehuhn.de/go/pagenum - add page numbers to PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package document

import (
	"bytes"
	"errors"
	"fmt"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/pagenum/font"
	"seehuhn.de/go/pagenum/graphics"
	"seehuhn.de/go/pagenum/pdf"
)

// Page represents a page of a Document.
type Page struct {
	doc   *Document
	index int
	ref   pdf.Reference
	dict  pdf.Dict

	// content drawn on top of the existing page content
	overlay *bytes.Buffer
	w       *graphics.Writer
}

// Color is an RGB colour with components in the range [0, 1].
type Color struct {
	R, G, B float64
}

// Black is the default text colour.
var Black = Color{}

// TextOptions describes how text is placed on a page.
type TextOptions struct {
	// X and Y give the start of the baseline, relative to the lower-left
	// corner of the media box.
	X, Y float64

	Size  float64
	Font  *Font
	Color Color
}

// MediaBox returns the media box of the page.  If the page has no valid
// media box, [DefaultMediaBox] is returned.
func (p *Page) MediaBox() pdf.Rectangle {
	box, err := pdf.GetRectangle(p.doc.u, p.dict["MediaBox"])
	if err != nil || box == nil || box.IsZero() {
		return *DefaultMediaBox
	}
	return *box
}

// Size returns the width and height of the page in PDF units.
func (p *Page) Size() (width, height float64) {
	box := p.MediaBox()
	return box.Dx(), box.Dy()
}

// DrawText draws a single line of text on the page.  The text is encoded
// using the font's WinAnsi encoding.  Characters which cannot be encoded
// cause a [font.MissingGlyphError].
func (p *Page) DrawText(text string, opt *TextOptions) error {
	if opt == nil || opt.Font == nil {
		return errors.New("DrawText: no font given")
	}
	if opt.Font.Ref.Number == 0 {
		return errors.New("DrawText: font not embedded")
	}
	s, err := font.Encode(opt.Font.Font, text)
	if err != nil {
		return err
	}

	if p.w == nil {
		fonts, err := p.fontDict()
		if err != nil {
			return err
		}
		p.overlay = &bytes.Buffer{}
		p.w = graphics.NewWriter(p.overlay, fonts)
	}

	box := p.MediaBox()
	w := p.w
	w.PushGraphicsState()
	w.TextStart()
	w.SetFillColorRGB(opt.Color.R, opt.Color.G, opt.Color.B)
	w.TextSetFont(opt.Font.Ref, opt.Size)
	w.TextSetMatrix(matrix.Translate(box.LLx+opt.X, box.LLy+opt.Y))
	w.TextShowRaw(s)
	w.TextEnd()
	w.PopGraphicsState()
	return w.Err
}

// fontDict returns a copy of the /Font resource dictionary of the page.
func (p *Page) fontDict() (pdf.Dict, error) {
	res, err := pdf.GetDict(p.doc.u, p.dict["Resources"])
	if err != nil {
		return nil, fmt.Errorf("page resources: %w", err)
	}
	fonts, err := pdf.GetDict(p.doc.u, res["Font"])
	if err != nil {
		return nil, fmt.Errorf("font resources: %w", err)
	}
	res = pdf.Dict{}
	for key, val := range fonts {
		res[key] = val
	}
	return res, nil
}

// flush writes the modified page object into the update.  Pages without
// new text are left unchanged.
func (p *Page) flush() error {
	if p.w == nil {
		return nil
	}
	err := p.w.Close()
	if err != nil {
		return err
	}
	if p.ref.Number == 0 {
		return errors.New("page object is not an indirect object")
	}

	u := p.doc.u
	orig, err := pdf.GetDict(u, p.ref)
	if err != nil {
		return err
	}
	dict := pdf.Dict{}
	for key, val := range orig {
		dict[key] = val
	}

	// Resources may be inherited, so we start from the copy in p.dict.
	res, err := pdf.GetDict(u, p.dict["Resources"])
	if err != nil {
		return fmt.Errorf("page resources: %w", err)
	}
	newRes := pdf.Dict{}
	for key, val := range res {
		newRes[key] = val
	}
	newRes["Font"] = p.w.Fonts
	dict["Resources"] = newRes

	contents, err := p.contentRefs()
	if err != nil {
		return err
	}
	overlay, err := pdf.FlateStream(pdf.Dict{}, p.overlay.Bytes())
	if err != nil {
		return err
	}
	push, pop := p.doc.graphicsStateRefs()
	newContents := pdf.Array{push}
	newContents = append(newContents, contents...)
	newContents = append(newContents, pop, u.Add(overlay))
	dict["Contents"] = newContents

	u.Put(p.ref, dict)

	inherited := pdf.Dict{}
	for key, val := range p.dict {
		inherited[key] = val
	}
	inherited["Resources"] = newRes
	inherited["Contents"] = newContents
	p.dict = inherited
	p.w = nil
	p.overlay = nil
	return nil
}

// contentRefs returns the references to the existing content streams of
// the page.
func (p *Page) contentRefs() (pdf.Array, error) {
	obj := p.dict["Contents"]
	switch obj := obj.(type) {
	case nil:
		return nil, nil
	case pdf.Array:
		return obj, nil
	case pdf.Reference:
		resolved, err := p.doc.u.Get(obj)
		if err != nil {
			return nil, err
		}
		if a, isArray := resolved.(pdf.Array); isArray {
			return a, nil
		}
		return pdf.Array{obj}, nil
	default:
		return nil, &pdf.MalformedFileError{
			Err: fmt.Errorf("invalid /Contents of type %T", obj),
		}
	}
}
