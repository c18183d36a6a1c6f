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

// Package truetype implements TrueType fonts for use as simple PDF fonts.
//
// The font file is embedded as a whole; subsetting would gain little for
// the handful of glyphs used by page numbers.
package truetype

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"golang.org/x/image/font/gofont/goregular"

	"seehuhn.de/go/sfnt"

	"seehuhn.de/go/pagenum/font"
	"seehuhn.de/go/pagenum/pdf"
)

// Font is a TrueType font, used with the WinAnsiEncoding.
type Font struct {
	info   *sfnt.Font
	width  [256]float64
	exists [256]bool
}

// New wraps a TrueType font for use in PDF files.
// Fonts with CFF outlines are not supported.
func New(info *sfnt.Font) (*Font, error) {
	if info.IsCFF() {
		return nil, errCFF
	}

	subtable, err := info.CMapTable.GetBest()
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", info.PostScriptName(), err)
	}

	F := &Font{info: info}
	for code := 0; code < 256; code++ {
		r, ok := font.WinAnsiRune(byte(code))
		if !ok {
			continue
		}
		gid := subtable.Lookup(r)
		if gid == 0 {
			continue
		}
		F.width[code] = info.GlyphWidthPDF(gid)
		F.exists[code] = true
	}
	return F, nil
}

// Read reads a TrueType font from data.
func Read(data []byte) (*Font, error) {
	info, err := sfnt.Read(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return New(info)
}

// Open reads a TrueType font from a file.
func Open(fname string) (*Font, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	F, err := Read(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return F, nil
}

// GoRegular returns the Go Regular font.
func GoRegular() (*Font, error) {
	return Read(goregular.TTF)
}

// PostScriptName implements the [font.Font] interface.
func (F *Font) PostScriptName() string {
	return F.info.PostScriptName()
}

// CodeWidth implements the [font.Font] interface.
func (F *Font) CodeWidth(code byte) (float64, bool) {
	return F.width[code], F.exists[code]
}

// Embed implements the [font.Font] interface.
func (F *Font) Embed(u *pdf.Update) (pdf.Reference, error) {
	info := F.info
	postScriptName := info.PostScriptName()

	buf := &bytes.Buffer{}
	length1, err := info.WriteTrueTypePDF(buf)
	if err != nil {
		return pdf.Reference{}, fmt.Errorf("font %s: %w", postScriptName, err)
	}
	fontFile, err := pdf.FlateStream(pdf.Dict{
		"Length1": pdf.Integer(length1),
	}, buf.Bytes())
	if err != nil {
		return pdf.Reference{}, err
	}
	fontFileRef := u.Add(fontFile)

	qv := 1000 * info.FontMatrix[3]
	bbox := info.FontBBoxPDF()
	fd := &font.Descriptor{
		FontName:     postScriptName,
		FontFamily:   info.FamilyName,
		IsFixedPitch: info.IsFixedPitch(),
		IsSerif:      info.IsSerif,
		IsScript:     info.IsScript,
		IsItalic:     info.IsItalic,
		FontBBox: pdf.Rectangle{
			LLx: float64(bbox.LLx),
			LLy: float64(bbox.LLy),
			URx: float64(bbox.URx),
			URy: float64(bbox.URy),
		},
		ItalicAngle: math.Round(info.ItalicAngle*10) / 10,
		Ascent:      math.Round(float64(info.Ascent) * qv),
		Descent:     math.Round(float64(info.Descent) * qv),
		CapHeight:   math.Round(float64(info.CapHeight) * qv),
	}
	fdDict := fd.AsDict()
	fdDict["FontFile2"] = fontFileRef
	fdRef := u.Add(fdDict)

	firstChar, lastChar, widths := font.WidthsArray(F)
	dict := pdf.Dict{
		"Type":           pdf.Name("Font"),
		"Subtype":        pdf.Name("TrueType"),
		"BaseFont":       pdf.Name(postScriptName),
		"FirstChar":      firstChar,
		"LastChar":       lastChar,
		"Widths":         u.Add(widths),
		"Encoding":       pdf.Name("WinAnsiEncoding"),
		"FontDescriptor": fdRef,
	}
	return u.Add(dict), nil
}

var errCFF = errors.New("fonts with CFF outlines are not supported")

var _ font.Font = (*Font)(nil)
