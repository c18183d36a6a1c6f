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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pagenum/pdf"
)

// digitFont has glyphs for the digits, the space and the euro sign only.
type digitFont struct{}

func (digitFont) PostScriptName() string { return "Digits" }

func (digitFont) CodeWidth(code byte) (float64, bool) {
	switch {
	case code >= '0' && code <= '9':
		return 500, true
	case code == ' ':
		return 250, true
	case code == 0x80:
		return 612.5, true
	}
	return 0, false
}

func (digitFont) Embed(*pdf.Update) (pdf.Reference, error) {
	return pdf.Reference{}, errors.New("not implemented")
}

func TestEncode(t *testing.T) {
	F := digitFont{}

	s, err := Encode(F, "12 €")
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(pdf.String("12 \x80"), s); d != "" {
		t.Errorf("wrong encoding (-want +got):\n%s", d)
	}
	if w := Width(F, s, 10); w != 18.625 {
		t.Errorf("wrong width %g", w)
	}

	for _, text := range []string{"1/2", "日本"} {
		_, err = Encode(F, text)
		var missing *MissingGlyphError
		if !errors.As(err, &missing) {
			t.Errorf("%q: expected MissingGlyphError, got %v", text, err)
		}
	}
}

func TestWidthsArray(t *testing.T) {
	first, last, widths := WidthsArray(digitFont{})
	if first != ' ' || last != 0x80 {
		t.Fatalf("wrong range %d-%d", first, last)
	}
	if len(widths) != 0x80-' '+1 {
		t.Fatalf("wrong number of widths %d", len(widths))
	}
	if widths[0] != pdf.Integer(250) || widths['5'-' '] != pdf.Integer(500) {
		t.Errorf("wrong widths %s", pdf.Format(widths))
	}
	if widths['A'-' '] != pdf.Integer(0) {
		t.Errorf("wrong width for unused code: %s", pdf.Format(widths['A'-' ']))
	}
	if widths[len(widths)-1] != pdf.Real(612.5) {
		t.Errorf("wrong width for euro sign: %s", pdf.Format(widths[len(widths)-1]))
	}
}

func TestWinAnsiRune(t *testing.T) {
	cases := []struct {
		code byte
		r    rune
		ok   bool
	}{
		{'A', 'A', true},
		{0x80, '€', true},
		{0xE9, 'é', true},
		{0x0A, 0, false},
		{0x81, 0, false},
		{0x7F, 0, false},
	}
	for _, test := range cases {
		r, ok := WinAnsiRune(test.code)
		if r != test.r || ok != test.ok {
			t.Errorf("%02x: expected %q %t, got %q %t", test.code, test.r, test.ok, r, ok)
		}
	}
}

func TestDescriptor(t *testing.T) {
	fd := &Descriptor{
		FontName:  "Test",
		IsItalic:  true,
		FontBBox:  pdf.Rectangle{LLx: -10.4, LLy: -200, URx: 1000.6, URy: 900},
		Ascent:    800,
		Descent:   -200,
		CapHeight: 700,
	}
	dict := fd.AsDict()
	if dict["Flags"] != pdf.Integer(32|64) {
		t.Errorf("wrong flags %s", pdf.Format(dict["Flags"]))
	}
	if got := pdf.Format(dict["FontBBox"]); got != "[-10 -200 1001 900]" {
		t.Errorf("wrong bbox %s", got)
	}
	if _, ok := dict["FontFamily"]; ok {
		t.Error("unexpected /FontFamily")
	}
}
