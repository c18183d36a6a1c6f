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

package graphics

import (
	"errors"
	"fmt"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/pagenum/pdf"
)

// This file implements the text operators we need, see tables 103, 105,
// 106 and 107 of ISO 32000-2:2020.

// TextStart starts a new text object.
//
// This implements the PDF graphics operator "BT".
func (w *Writer) TextStart() {
	if !w.isValid("TextStart", objPage) {
		return
	}
	w.currentObject = objText
	w.nesting = append(w.nesting, pairTypeBT)
	_, w.Err = fmt.Fprintln(w.Content, "BT")
}

// TextEnd ends the current text object.
//
// This implements the PDF graphics operator "ET".
func (w *Writer) TextEnd() {
	if !w.isValid("TextEnd", objText) {
		return
	}
	if len(w.nesting) == 0 || w.nesting[len(w.nesting)-1] != pairTypeBT {
		w.Err = errors.New("TextEnd: no matching TextStart")
		return
	}
	w.nesting = w.nesting[:len(w.nesting)-1]
	w.currentObject = objPage
	_, w.Err = fmt.Fprintln(w.Content, "ET")
}

// TextSetFont sets the font and font size.  The argument font must be a
// reference to a font dictionary.
//
// This implements the PDF graphics operator "Tf".
func (w *Writer) TextSetFont(font pdf.Reference, size float64) {
	if !w.isValid("TextSetFont", objText|objPage) {
		return
	}
	if size <= 0 {
		w.Err = fmt.Errorf("TextSetFont: invalid font size %g", size)
		return
	}

	name := w.getFontName(font)
	w.Err = name.PDF(w.Content)
	if w.Err != nil {
		return
	}
	_, w.Err = fmt.Fprintln(w.Content, "", format(size), "Tf")
}

// TextSetMatrix replaces the current text matrix and line matrix.
//
// This implements the PDF graphics operator "Tm".
func (w *Writer) TextSetMatrix(M matrix.Matrix) {
	if !w.isValid("TextSetMatrix", objText) {
		return
	}
	_, w.Err = fmt.Fprintln(w.Content,
		format(M[0]), format(M[1]), format(M[2]),
		format(M[3]), format(M[4]), format(M[5]), "Tm")
}

// TextShowRaw shows an already encoded text.
//
// This implements the PDF graphics operator "Tj".
func (w *Writer) TextShowRaw(s pdf.String) {
	if !w.isValid("TextShowRaw", objText) {
		return
	}
	w.Err = s.PDF(w.Content)
	if w.Err != nil {
		return
	}
	_, w.Err = fmt.Fprintln(w.Content, " Tj")
}
