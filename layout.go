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

package pagenum

import (
	"fmt"

	"seehuhn.de/go/pagenum/font"
)

// Distances from the page edges, in PDF units.
const (
	// SideMargin is the distance between a left or right aligned label
	// and the page edge.
	SideMargin = 50

	// BaselineOffset is the distance between the label baseline and the
	// top edge (header) or bottom edge (footer) of the page.
	BaselineOffset = 30
)

// PageSize gives the dimensions of a page in PDF units.
type PageSize struct {
	Width, Height float64
}

// Stamp describes a label placed on a page.
type Stamp struct {
	Text string

	// X and Y give the start of the baseline, relative to the lower left
	// corner of the page.
	X, Y float64

	// Width is the width of the text.
	Width float64
}

// Place returns the start of the baseline for a label of the given width.
func Place(pos Position, align Alignment, page PageSize, textWidth float64) (x, y float64) {
	switch align {
	case Left:
		x = SideMargin
	case Right:
		x = page.Width - textWidth - SideMargin
	default:
		x = (page.Width - textWidth) / 2
	}

	if pos == Header {
		y = page.Height - BaselineOffset
	} else {
		y = BaselineOffset
	}
	return x, y
}

// Layout computes the labels for a document.  The result has one entry per
// page; the entries for unnumbered pages are nil.
func Layout(opt *Options, pages []PageSize, F font.Font) ([]*Stamp, error) {
	numPages := len(pages)
	res := make([]*Stamp, numPages)
	for i, page := range pages {
		if !opt.Numbered(i) {
			continue
		}
		text := opt.Label(i, numPages)
		width, err := font.TextWidth(F, text, opt.FontSize)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		x, y := Place(opt.Position, opt.Alignment, page, width)
		res[i] = &Stamp{Text: text, X: x, Y: y, Width: width}
	}
	return res, nil
}
