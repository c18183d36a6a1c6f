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
	"strconv"

	"seehuhn.de/go/pagenum/font"
)

// Position selects the vertical band in which page numbers are placed.
type Position int

// These are the supported positions.
const (
	Footer Position = iota
	Header
)

func (p Position) String() string {
	switch p {
	case Footer:
		return "footer"
	case Header:
		return "header"
	}
	return fmt.Sprintf("Position(%d)", int(p))
}

// ParsePosition converts "header" or "footer" into a Position.
func ParsePosition(s string) (Position, error) {
	switch s {
	case "footer":
		return Footer, nil
	case "header":
		return Header, nil
	}
	return 0, fmt.Errorf("invalid position %q", s)
}

// Alignment selects the horizontal placement of page numbers.
type Alignment int

// These are the supported alignments.
const (
	Center Alignment = iota
	Left
	Right
)

func (a Alignment) String() string {
	switch a {
	case Center:
		return "center"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Alignment(%d)", int(a))
}

// ParseAlignment converts "left", "center" or "right" into an Alignment.
func ParseAlignment(s string) (Alignment, error) {
	switch s {
	case "center":
		return Center, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("invalid alignment %q", s)
}

// FontSizes lists the font sizes offered to the user.
// Options.FontSize is not restricted to these values.
var FontSizes = []float64{10, 12, 14, 16, 18}

// Options control how page numbers are formatted and placed.
type Options struct {
	Position  Position
	Alignment Alignment

	// IncludeTotalPages selects labels of the form "3 / 10" instead of "3".
	IncludeTotalPages bool

	// StartPage is the number shown on the first numbered page.
	StartPage int

	// FontSize is the size of the label text in PDF units.
	FontSize float64

	// If SkipCoverPages is set, the first CoverPagesToSkip pages are left
	// unnumbered and numbering starts on the page after them.
	SkipCoverPages   bool
	CoverPagesToSkip int

	// IncludeCoverInTotal controls whether skipped cover pages are counted
	// in the total shown in the labels.
	IncludeCoverInTotal bool

	// Font is used for the labels.  If this is nil, Helvetica is used.
	Font font.Font
}

// DefaultOptions returns the options used when the user changes nothing.
func DefaultOptions() *Options {
	return &Options{
		Position:            Footer,
		Alignment:           Center,
		IncludeTotalPages:   true,
		StartPage:           1,
		FontSize:            12,
		SkipCoverPages:      false,
		CoverPagesToSkip:    1,
		IncludeCoverInTotal: true,
	}
}

// Validate checks that the options can be used for numbering.
// CoverPagesToSkip may exceed the number of pages, in which case no page
// is numbered.
func (o *Options) Validate() error {
	if o.Position != Header && o.Position != Footer {
		return fmt.Errorf("invalid position %d", int(o.Position))
	}
	if o.Alignment != Left && o.Alignment != Center && o.Alignment != Right {
		return fmt.Errorf("invalid alignment %d", int(o.Alignment))
	}
	if !(o.FontSize > 0) {
		return fmt.Errorf("invalid font size %g", o.FontSize)
	}
	if o.CoverPagesToSkip < 0 {
		return fmt.Errorf("invalid number of cover pages %d", o.CoverPagesToSkip)
	}
	return nil
}

// skip returns the number of leading pages which are left unnumbered.
func (o *Options) skip() int {
	if o.SkipCoverPages {
		return o.CoverPagesToSkip
	}
	return 0
}

// Numbered reports whether the page with (0-based) index i gets a label.
func (o *Options) Numbered(i int) bool {
	return i >= o.skip()
}

// DisplayTotal returns the total shown in the labels of a document with
// numPages pages.
func (o *Options) DisplayTotal(numPages int) int {
	if o.SkipCoverPages && !o.IncludeCoverInTotal {
		return numPages - o.CoverPagesToSkip
	}
	return numPages
}

// PageNumber returns the number shown on the page with index i.
// The result is only meaningful if Numbered(i) is true.
func (o *Options) PageNumber(i int) int {
	return i - o.skip() + o.StartPage
}

// Label returns the text shown on the page with index i, in a document
// with numPages pages.
func (o *Options) Label(i, numPages int) string {
	label := strconv.Itoa(o.PageNumber(i))
	if o.IncludeTotalPages {
		label += " / " + strconv.Itoa(o.DisplayTotal(numPages))
	}
	return label
}
