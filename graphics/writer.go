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

// Package graphics writes PDF content streams.
//
// Errors are sticky: once an operator fails, Writer.Err is set and all
// further operators are ignored.
package graphics

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"seehuhn.de/go/pagenum/pdf"
)

// Writer writes a PDF content stream.
type Writer struct {
	Content io.Writer
	Err     error

	// Fonts is the /Font subdictionary of the resource dictionary.  Fonts
	// used by the content stream are added here.
	Fonts pdf.Dict

	currentObject objectType
	nesting       []pairType
	fontName      map[pdf.Reference]pdf.Name
}

type objectType byte

// The graphics object states, see figure 9 in section 8.2 of
// ISO 32000-2:2020.
const (
	objPage objectType = 1 << iota
	objText
)

func (s objectType) String() string {
	switch s {
	case objPage:
		return "page"
	case objText:
		return "text"
	}
	return fmt.Sprintf("objectType(%d)", s)
}

type pairType byte

const (
	pairTypeQ  pairType = iota + 1 // q ... Q
	pairTypeBT                     // BT ... ET
)

// NewWriter allocates a new Writer object.  The argument fonts is the
// existing /Font resource dictionary, or nil.  New font names are chosen so
// that they do not clash with the names in this dictionary.
func NewWriter(out io.Writer, fonts pdf.Dict) *Writer {
	if fonts == nil {
		fonts = pdf.Dict{}
	}
	return &Writer{
		Content:       out,
		Fonts:         fonts,
		currentObject: objPage,
		fontName:      make(map[pdf.Reference]pdf.Name),
	}
}

// Close checks that all q/Q and BT/ET pairs are balanced, and returns the
// first error encountered while writing the content stream.
func (w *Writer) Close() error {
	if w.Err != nil {
		return w.Err
	}
	if len(w.nesting) > 0 {
		w.Err = fmt.Errorf("%d unclosed graphics state or text object", len(w.nesting))
	}
	return w.Err
}

// isValid returns true, if the current graphics object is one of the given
// types and if w.Err is nil.  Otherwise it sets w.Err and returns false.
func (w *Writer) isValid(cmd string, ss objectType) bool {
	if w.Err != nil {
		return false
	}

	if w.currentObject&ss != 0 {
		return true
	}

	w.Err = fmt.Errorf("unexpected state %q for %q", w.currentObject, cmd)
	return false
}

// getFontName returns the resource name used for the font dictionary ref.
// Existing entries of the /Font dictionary are reused.
func (w *Writer) getFontName(ref pdf.Reference) pdf.Name {
	if name, ok := w.fontName[ref]; ok {
		return name
	}
	for name, val := range w.Fonts {
		if val == ref {
			w.fontName[ref] = name
			return name
		}
	}

	var name pdf.Name
	for k := len(w.Fonts) + 1; ; k++ {
		name = "F" + pdf.Name(strconv.Itoa(k))
		if _, isUsed := w.Fonts[name]; !isUsed {
			break
		}
	}
	w.Fonts[name] = ref
	w.fontName[ref] = name
	return name
}

// format formats a number for use in a content stream.  Numbers are rounded
// to three decimal places, which is well below the resolution of any output
// device.
func format(x float64) string {
	x = math.Round(x*1000) / 1000
	if x == 0 {
		// avoid "-0"
		return "0"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}
