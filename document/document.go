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

// Package document provides a handle for adding text to the pages of an
// existing PDF file.
//
// A Document is loaded from the bytes of a PDF file.  Text drawn on the
// pages is kept in memory until [Document.Save] is called, which returns
// the original file followed by an incremental update.
package document

import (
	"fmt"

	"seehuhn.de/go/pagenum/font"
	"seehuhn.de/go/pagenum/pagetree"
	"seehuhn.de/go/pagenum/pdf"
)

// Document represents a PDF file which is being modified.
type Document struct {
	r     *pdf.Reader
	u     *pdf.Update
	pages []*Page
	fonts map[font.Font]*Font

	// references to the "q" and "Q" streams, shared between all pages
	pushRef, popRef pdf.Reference
}

// Load parses a PDF file and enumerates its pages.
func Load(data []byte) (*Document, error) {
	r, err := pdf.Load(data)
	if err != nil {
		return nil, err
	}
	catalog, err := r.Catalog()
	if err != nil {
		return nil, err
	}
	pp, err := pagetree.Pages(r, catalog)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		r:     r,
		u:     pdf.NewUpdate(r),
		fonts: make(map[font.Font]*Font),
	}
	doc.pages = make([]*Page, len(pp))
	for i, p := range pp {
		doc.pages[i] = &Page{
			doc:   doc,
			index: i,
			ref:   p.Ref,
			dict:  p.Dict,
		}
	}
	return doc, nil
}

// Pages returns the pages of the document, in order.
func (d *Document) Pages() []*Page {
	return d.pages
}

// Font is a font which has been embedded into a Document.
type Font struct {
	font.Font
	Ref pdf.Reference
}

// EmbedFont adds a font to the document.  Embedding the same font more than
// once returns the same *Font.
func (d *Document) EmbedFont(f font.Font) (*Font, error) {
	if F, ok := d.fonts[f]; ok {
		return F, nil
	}
	ref, err := f.Embed(d.u)
	if err != nil {
		return nil, fmt.Errorf("embed font %s: %w", f.PostScriptName(), err)
	}
	F := &Font{Font: f, Ref: ref}
	d.fonts[f] = F
	return F, nil
}

// Save returns the updated PDF file.
func (d *Document) Save() ([]byte, error) {
	for _, p := range d.pages {
		err := p.flush()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", p.index+1, err)
		}
	}
	return d.u.Bytes()
}

// graphicsStateRefs returns references to two content streams containing
// the "q" and "Q" operators.  These are used to isolate the original page
// content from the text we add.
func (d *Document) graphicsStateRefs() (push, pop pdf.Reference) {
	if d.pushRef.Number == 0 {
		d.pushRef = d.u.Add(&pdf.Stream{Dict: pdf.Dict{}, Data: []byte("q\n")})
		d.popRef = d.u.Add(&pdf.Stream{Dict: pdf.Dict{}, Data: []byte("\nQ\n")})
	}
	return d.pushRef, d.popRef
}
