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

package font

import (
	"math"

	"seehuhn.de/go/pagenum/pdf"
)

// Descriptor represents a PDF font descriptor.
// See section 9.8.1 of ISO 32000-2:2020.
type Descriptor struct {
	FontName   string
	FontFamily string

	IsFixedPitch bool
	IsSerif      bool
	IsSymbolic   bool
	IsScript     bool
	IsItalic     bool

	FontBBox    pdf.Rectangle
	ItalicAngle float64
	Ascent      float64
	Descent     float64 // negative
	CapHeight   float64
	StemV       float64
}

// Font descriptor flags, see section 9.8.2 of ISO 32000-2:2020.
const (
	flagFixedPitch  pdf.Integer = 1 << 0
	flagSerif       pdf.Integer = 1 << 1
	flagSymbolic    pdf.Integer = 1 << 2
	flagScript      pdf.Integer = 1 << 3
	flagNonsymbolic pdf.Integer = 1 << 5
	flagItalic      pdf.Integer = 1 << 6
)

// AsDict converts the font descriptor to a PDF dictionary.
// The font file entry must be added by the caller.
func (d *Descriptor) AsDict() pdf.Dict {
	var flags pdf.Integer
	if d.IsFixedPitch {
		flags |= flagFixedPitch
	}
	if d.IsSerif {
		flags |= flagSerif
	}
	if d.IsSymbolic {
		flags |= flagSymbolic
	} else {
		flags |= flagNonsymbolic
	}
	if d.IsScript {
		flags |= flagScript
	}
	if d.IsItalic {
		flags |= flagItalic
	}

	bbox := d.FontBBox
	bbox.LLx = math.Round(bbox.LLx)
	bbox.LLy = math.Round(bbox.LLy)
	bbox.URx = math.Round(bbox.URx)
	bbox.URy = math.Round(bbox.URy)

	dict := pdf.Dict{
		"Type":        pdf.Name("FontDescriptor"),
		"FontName":    pdf.Name(d.FontName),
		"Flags":       flags,
		"FontBBox":    bbox,
		"ItalicAngle": number(d.ItalicAngle),
		"Ascent":      number(d.Ascent),
		"Descent":     number(d.Descent),
		"CapHeight":   number(d.CapHeight),
		"StemV":       number(d.StemV),
	}
	if d.FontFamily != "" {
		dict["FontFamily"] = pdf.String(d.FontFamily)
	}
	return dict
}
