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
	"errors"
	"math"
	"testing"

	"seehuhn.de/go/pagenum/font"
	"seehuhn.de/go/pagenum/font/standard"
	"seehuhn.de/go/pagenum/pdf"
)

const eps = 1e-9

func TestPlace(t *testing.T) {
	sizes := []PageSize{
		{595, 842},
		{612, 792},
		{841.89, 595.276},
		{200.5, 100.25},
	}
	widths := []float64{0, 17.5, 30.024, 123.456}

	for _, page := range sizes {
		for _, w := range widths {
			x, y := Place(Footer, Left, page, w)
			if x != 50 || y != 30 {
				t.Errorf("left/footer: (%g, %g)", x, y)
			}

			x, y = Place(Header, Right, page, w)
			if math.Abs(x+w-(page.Width-50)) > eps {
				t.Errorf("right: right edge at %g, page width %g", x+w, page.Width)
			}
			if y != page.Height-30 {
				t.Errorf("header: baseline at %g, page height %g", y, page.Height)
			}

			x, _ = Place(Footer, Center, page, w)
			left := x
			right := page.Width - (x + w)
			if math.Abs(left-right) > eps {
				t.Errorf("center: margins %g and %g", left, right)
			}
		}
	}
}

func TestLayout(t *testing.T) {
	F, err := standard.Helvetica()
	if err != nil {
		t.Fatal(err)
	}

	pages := make([]PageSize, 10)
	for i := range pages {
		pages[i] = PageSize{595, 842}
	}

	opt := DefaultOptions()
	opt.SkipCoverPages = true
	opt.CoverPagesToSkip = 1
	opt.IncludeCoverInTotal = false
	stamps, err := Layout(opt, pages, F)
	if err != nil {
		t.Fatal(err)
	}
	if len(stamps) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(stamps))
	}
	if stamps[0] != nil {
		t.Errorf("cover page numbered: %q", stamps[0].Text)
	}
	for i := 1; i < 10; i++ {
		s := stamps[i]
		if s == nil {
			t.Fatalf("page %d not numbered", i)
		}
		if s.Y != 30 {
			t.Errorf("page %d: baseline at %g", i, s.Y)
		}
		width, err := font.TextWidth(F, s.Text, 12)
		if err != nil {
			t.Fatal(err)
		}
		if s.Width != width {
			t.Errorf("page %d: width %g != %g", i, s.Width, width)
		}
		if math.Abs(2*s.X+s.Width-595) > eps {
			t.Errorf("page %d: not centered", i)
		}
	}
	if stamps[1].Text != "1 / 9" || stamps[9].Text != "9 / 9" {
		t.Errorf("wrong labels %q, %q", stamps[1].Text, stamps[9].Text)
	}
}

func TestLayoutAllSkipped(t *testing.T) {
	F, err := standard.Helvetica()
	if err != nil {
		t.Fatal(err)
	}
	opt := DefaultOptions()
	opt.SkipCoverPages = true
	opt.CoverPagesToSkip = 5
	stamps, err := Layout(opt, []PageSize{{100, 100}, {100, 100}}, F)
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range stamps {
		if s != nil {
			t.Errorf("page %d numbered", i)
		}
	}
}

// A font without digits cannot be used for the labels.
type noDigits struct{}

func (noDigits) PostScriptName() string { return "NoDigits" }

func (noDigits) CodeWidth(code byte) (float64, bool) {
	if code >= '0' && code <= '9' {
		return 0, false
	}
	return 500, true
}

func (noDigits) Embed(*pdf.Update) (pdf.Reference, error) {
	return pdf.Reference{}, errors.New("not implemented")
}

func TestLayoutMissingGlyph(t *testing.T) {
	_, err := Layout(DefaultOptions(), []PageSize{{100, 100}}, noDigits{})
	var missing *font.MissingGlyphError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingGlyphError, got %v", err)
	}
	if missing.Char != '1' {
		t.Errorf("wrong character %q", missing.Char)
	}
}
