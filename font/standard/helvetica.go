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

// Package standard implements the Helvetica font, one of the 14 standard
// PDF fonts.  Standard fonts are not embedded; only the metrics are needed
// to lay out text.
package standard

import (
	"bytes"
	"embed"
	"sync"

	"seehuhn.de/go/postscript/afm"
	"seehuhn.de/go/postscript/psenc"

	"seehuhn.de/go/pagenum/font"
	"seehuhn.de/go/pagenum/pdf"
)

//go:embed afm/*.afm
var afmData embed.FS

// Type1 is a standard Type 1 font, used with the WinAnsiEncoding.
type Type1 struct {
	name   string
	width  [256]float64
	exists [256]bool
}

var (
	helvetica    *Type1
	helveticaErr error
	helveticaMu  sync.Mutex
)

// Helvetica returns the Helvetica font.
func Helvetica() (*Type1, error) {
	helveticaMu.Lock()
	defer helveticaMu.Unlock()

	if helvetica == nil && helveticaErr == nil {
		helvetica, helveticaErr = load("Helvetica")
	}
	return helvetica, helveticaErr
}

func load(fontName string) (*Type1, error) {
	data, err := afmData.ReadFile("afm/" + fontName + ".afm")
	if err != nil {
		return nil, err
	}
	metrics, err := afm.Read(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	F := &Type1{name: metrics.FontName}
	if F.name == "" {
		F.name = fontName
	}
	for code := 32; code < 127; code++ {
		glyphName := winAnsiName(byte(code))
		if g, ok := metrics.Glyphs[glyphName]; ok {
			F.width[code] = float64(g.WidthX)
			F.exists[code] = true
		}
	}
	return F, nil
}

// winAnsiName returns the glyph name for an ASCII character code.  The
// WinAnsiEncoding agrees with the StandardEncoding in this range, except
// for the two quote characters.
func winAnsiName(code byte) string {
	switch code {
	case '\'':
		return "quotesingle"
	case '`':
		return "grave"
	}
	return psenc.StandardEncoding[code]
}

// PostScriptName implements the [font.Font] interface.
func (F *Type1) PostScriptName() string {
	return F.name
}

// CodeWidth implements the [font.Font] interface.
func (F *Type1) CodeWidth(code byte) (float64, bool) {
	return F.width[code], F.exists[code]
}

// Embed implements the [font.Font] interface.
func (F *Type1) Embed(u *pdf.Update) (pdf.Reference, error) {
	dict := pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("Type1"),
		"BaseFont": pdf.Name(F.name),
		"Encoding": pdf.Name("WinAnsiEncoding"),
	}
	return u.Add(dict), nil
}

var _ font.Font = (*Type1)(nil)
