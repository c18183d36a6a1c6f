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

// Package font defines the interface for fonts used to draw labels.
//
// All fonts use the WinAnsiEncoding, so that every character is
// represented by a single byte in the content stream.
package font

import (
	"fmt"
	"math"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"seehuhn.de/go/pagenum/pdf"
)

// Font represents a simple PDF font.
type Font interface {
	// PostScriptName returns the PostScript name of the font.
	PostScriptName() string

	// CodeWidth returns the advance width of the glyph for the given
	// character code, in PDF glyph space units (1/1000 of the font size).
	// The second return value is false, if the font has no glyph for code.
	CodeWidth(code byte) (float64, bool)

	// Embed writes the font dictionary and any associated objects to u,
	// and returns a reference to the font dictionary.
	Embed(u *pdf.Update) (pdf.Reference, error)
}

// MissingGlyphError is returned when text contains a character which cannot
// be shown using a given font.
type MissingGlyphError struct {
	FontName string
	Char     rune
}

func (err *MissingGlyphError) Error() string {
	return fmt.Sprintf("font %s: no glyph for %q", err.FontName, err.Char)
}

// Encode converts text to the WinAnsiEncoding.  An error is returned if a
// character is not representable or if f has no glyph for it.
func Encode(f Font, text string) (pdf.String, error) {
	res := make(pdf.String, 0, len(text))
	for _, r := range text {
		code, ok := charmap.Windows1252.EncodeRune(r)
		if ok {
			_, ok = f.CodeWidth(code)
		}
		if !ok {
			return nil, &MissingGlyphError{FontName: f.PostScriptName(), Char: r}
		}
		res = append(res, code)
	}
	return res, nil
}

// Width returns the width of the encoded string s, set in font f at the
// given size.
func Width(f Font, s pdf.String, size float64) float64 {
	var w float64
	for _, code := range s {
		cw, _ := f.CodeWidth(code)
		w += cw
	}
	return w * size / 1000
}

// TextWidth returns the width of text, set in font f at the given size.
func TextWidth(f Font, text string, size float64) (float64, error) {
	s, err := Encode(f, text)
	if err != nil {
		return 0, err
	}
	return Width(f, s, size), nil
}

// WidthsArray returns the /FirstChar, /LastChar and /Widths entries of a
// simple font dictionary.  Unused codes at either end are omitted.
func WidthsArray(f Font) (firstChar, lastChar pdf.Integer, widths pdf.Array) {
	first, last := 0, 255
	for last > 0 {
		if _, ok := f.CodeWidth(byte(last)); ok {
			break
		}
		last--
	}
	for first < last {
		if _, ok := f.CodeWidth(byte(first)); ok {
			break
		}
		first++
	}

	widths = make(pdf.Array, last-first+1)
	for i := range widths {
		w, _ := f.CodeWidth(byte(first + i))
		widths[i] = number(w)
	}
	return pdf.Integer(first), pdf.Integer(last), widths
}

func number(x float64) pdf.Object {
	x = math.Round(x*10) / 10
	if x == math.Trunc(x) {
		return pdf.Integer(x)
	}
	return pdf.Real(x)
}

// WinAnsiRune returns the Unicode character for a code in the
// WinAnsiEncoding.  The second return value is false for unused codes.
func WinAnsiRune(code byte) (rune, bool) {
	if code < 32 {
		return 0, false
	}
	r := charmap.Windows1252.DecodeByte(code)
	if r == utf8.RuneError || r == 0x7F || r >= 0x80 && r < 0xA0 {
		return 0, false
	}
	return r, true
}
