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
)

// This file implements the operators of the "Special graphics state" and
// "Colour" categories, see tables 56 and 73 of ISO 32000-2:2020.

// PushGraphicsState saves the current graphics state.
//
// This implements the PDF graphics operator "q".
func (w *Writer) PushGraphicsState() {
	if !w.isValid("PushGraphicsState", objPage) {
		return
	}
	w.nesting = append(w.nesting, pairTypeQ)
	_, w.Err = fmt.Fprintln(w.Content, "q")
}

// PopGraphicsState restores the previous graphics state.
//
// This implements the PDF graphics operator "Q".
func (w *Writer) PopGraphicsState() {
	if !w.isValid("PopGraphicsState", objPage) {
		return
	}
	if len(w.nesting) == 0 || w.nesting[len(w.nesting)-1] != pairTypeQ {
		w.Err = errors.New("PopGraphicsState: no matching PushGraphicsState")
		return
	}
	w.nesting = w.nesting[:len(w.nesting)-1]
	_, w.Err = fmt.Fprintln(w.Content, "Q")
}

// SetFillColorRGB sets the fill colour in the DeviceRGB colour space.
// The components must be in the range [0, 1].
//
// This implements the PDF graphics operator "rg".
func (w *Writer) SetFillColorRGB(r, g, b float64) {
	if !w.isValid("SetFillColorRGB", objPage|objText) {
		return
	}
	for _, x := range []float64{r, g, b} {
		if x < 0 || x > 1 {
			w.Err = fmt.Errorf("SetFillColorRGB: invalid colour component %g", x)
			return
		}
	}
	_, w.Err = fmt.Fprintln(w.Content, format(r), format(g), format(b), "rg")
}
