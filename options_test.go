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
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	for _, pos := range []Position{Header, Footer} {
		got, err := ParsePosition(pos.String())
		if err != nil || got != pos {
			t.Errorf("ParsePosition(%q) = %v, %v", pos, got, err)
		}
	}
	for _, align := range []Alignment{Left, Center, Right} {
		got, err := ParseAlignment(align.String())
		if err != nil || got != align {
			t.Errorf("ParseAlignment(%q) = %v, %v", align, got, err)
		}
	}
	if _, err := ParsePosition("middle"); err == nil {
		t.Error("invalid position accepted")
	}
	if _, err := ParseAlignment("justify"); err == nil {
		t.Error("invalid alignment accepted")
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Errorf("default options: %v", err)
	}

	cases := []func(o *Options){
		func(o *Options) { o.FontSize = 0 },
		func(o *Options) { o.FontSize = -12 },
		func(o *Options) { o.CoverPagesToSkip = -1 },
		func(o *Options) { o.Position = 7 },
		func(o *Options) { o.Alignment = -1 },
	}
	for i, modify := range cases {
		opt := DefaultOptions()
		modify(opt)
		if opt.Validate() == nil {
			t.Errorf("%d: invalid options accepted", i)
		}
	}

	// more cover pages than pages is allowed
	opt := DefaultOptions()
	opt.SkipCoverPages = true
	opt.CoverPagesToSkip = 1000
	if err := opt.Validate(); err != nil {
		t.Error(err)
	}
}

func TestBasicNumbering(t *testing.T) {
	for _, start := range []int{-3, 0, 1, 7} {
		for n := 1; n <= 12; n++ {
			opt := DefaultOptions()
			opt.StartPage = start
			for i := range n {
				if !opt.Numbered(i) {
					t.Fatalf("start=%d, n=%d: page %d not numbered", start, n, i)
				}
				if got := opt.PageNumber(i); got != i+start {
					t.Errorf("start=%d: page %d has number %d", start, i, got)
				}
			}
			if got := opt.DisplayTotal(n); got != n {
				t.Errorf("n=%d: display total %d", n, got)
			}
		}
	}
}

func TestCoverSkip(t *testing.T) {
	const n = 10
	for cover := range 4 {
		for _, inTotal := range []bool{false, true} {
			opt := DefaultOptions()
			opt.SkipCoverPages = true
			opt.CoverPagesToSkip = cover
			opt.IncludeCoverInTotal = inTotal
			opt.StartPage = 5

			for i := range n {
				if numbered := opt.Numbered(i); numbered != (i >= cover) {
					t.Errorf("cover=%d: Numbered(%d) = %t", cover, i, numbered)
				}
				if i >= cover {
					if got := opt.PageNumber(i); got != i-cover+5 {
						t.Errorf("cover=%d: page %d has number %d", cover, i, got)
					}
				}
			}

			want := n
			if !inTotal {
				want = n - cover
			}
			if got := opt.DisplayTotal(n); got != want {
				t.Errorf("cover=%d, inTotal=%t: total %d != %d", cover, inTotal, got, want)
			}
		}
	}
}

// Cover page settings have no effect unless SkipCoverPages is set.
func TestCoverSkipDisabled(t *testing.T) {
	opt := DefaultOptions()
	opt.CoverPagesToSkip = 3
	opt.IncludeCoverInTotal = false
	if !opt.Numbered(0) || opt.PageNumber(0) != 1 || opt.DisplayTotal(10) != 10 {
		t.Error("cover pages skipped although SkipCoverPages is false")
	}
}

func TestLabels(t *testing.T) {
	opt := DefaultOptions()
	var got []string
	for i := range 10 {
		got = append(got, opt.Label(i, 10))
	}
	want := []string{"1 / 10", "2 / 10", "3 / 10", "4 / 10", "5 / 10",
		"6 / 10", "7 / 10", "8 / 10", "9 / 10", "10 / 10"}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("wrong labels (-want +got):\n%s", d)
	}

	opt.IncludeTotalPages = false
	for i := range 10 {
		if label := opt.Label(i, 10); label != strconv.Itoa(i+1) {
			t.Errorf("page %d: wrong label %q", i, label)
		}
	}

	opt = DefaultOptions()
	opt.SkipCoverPages = true
	opt.CoverPagesToSkip = 1
	opt.IncludeCoverInTotal = false
	if label := opt.Label(1, 10); label != "1 / 9" {
		t.Errorf("wrong label %q for page 1", label)
	}
	if label := opt.Label(9, 10); label != "9 / 9" {
		t.Errorf("wrong label %q for page 9", label)
	}
}
