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

package pagetree

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pagenum/internal/testpdf"
	"seehuhn.de/go/pagenum/pdf"
)

// objects is an in-memory Getter.  Missing objects resolve to null.
type objects map[uint32]pdf.Object

func (o objects) Get(ref pdf.Reference) (pdf.Object, error) {
	return o[ref.Number], nil
}

func ref(n uint32) pdf.Reference {
	return pdf.Reference{Number: n}
}

func TestInheritance(t *testing.T) {
	box := pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(100), pdf.Integer(200)}
	own := pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(50), pdf.Integer(50)}
	r := objects{
		1: pdf.Dict{
			"Type":     pdf.Name("Pages"),
			"Kids":     pdf.Array{ref(2), ref(3)},
			"Count":    pdf.Integer(3),
			"MediaBox": box,
		},
		2: pdf.Dict{
			"Type":   pdf.Name("Pages"),
			"Kids":   pdf.Array{ref(4), ref(5)},
			"Count":  pdf.Integer(2),
			"Rotate": pdf.Integer(90),
		},
		3: pdf.Dict{"Type": pdf.Name("Page")},
		4: pdf.Dict{"Type": pdf.Name("Page"), "MediaBox": own},
		5: pdf.Dict{}, // no /Type
	}
	catalog := pdf.Dict{"Pages": ref(1)}

	pages, err := Pages(r, catalog)
	if err != nil {
		t.Fatal(err)
	}

	var refs []pdf.Reference
	for _, p := range pages {
		refs = append(refs, p.Ref)
	}
	if d := cmp.Diff([]pdf.Reference{ref(4), ref(5), ref(3)}, refs); d != "" {
		t.Fatalf("wrong page order (-want +got):\n%s", d)
	}

	if d := cmp.Diff(own, pages[0].Dict["MediaBox"]); d != "" {
		t.Errorf("page 1 MediaBox (-want +got):\n%s", d)
	}
	if pages[0].Dict["Rotate"] != pdf.Integer(90) {
		t.Errorf("page 1: Rotate not inherited")
	}
	if d := cmp.Diff(box, pages[1].Dict["MediaBox"]); d != "" {
		t.Errorf("page 2 MediaBox (-want +got):\n%s", d)
	}
	if _, ok := pages[2].Dict["Rotate"]; ok {
		t.Errorf("page 3: Rotate inherited from a sibling")
	}

	// the original dictionaries are not modified
	if _, ok := r[5].(pdf.Dict)["MediaBox"]; ok {
		t.Error("page dictionary was modified")
	}
}

func TestLoop(t *testing.T) {
	r := objects{
		1: pdf.Dict{"Type": pdf.Name("Pages"), "Kids": pdf.Array{ref(2)}},
		2: pdf.Dict{"Type": pdf.Name("Pages"), "Kids": pdf.Array{ref(1)}},
	}
	_, err := Pages(r, pdf.Dict{"Pages": ref(1)})
	if !errors.Is(err, errInvalidPageTree) {
		t.Errorf("loop not detected, got %v", err)
	}
}

func TestDangling(t *testing.T) {
	r := objects{
		1: pdf.Dict{"Type": pdf.Name("Pages"), "Kids": pdf.Array{ref(7), ref(2)}},
		2: pdf.Dict{"Type": pdf.Name("Page")},
	}
	pages, err := Pages(r, pdf.Dict{"Pages": ref(1)})
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 1 || pages[0].Ref != ref(2) {
		t.Errorf("dangling kid not skipped")
	}
}

func TestNoPages(t *testing.T) {
	_, err := Pages(objects{}, pdf.Dict{})
	if !errors.Is(err, errNoPages) {
		t.Errorf("expected errNoPages, got %v", err)
	}
}

func TestFile(t *testing.T) {
	for _, fanout := range []int{0, 2, 3} {
		data, err := testpdf.Make(&testpdf.Options{NumPages: 7, Fanout: fanout, ObjectStreams: true})
		if err != nil {
			t.Fatal(err)
		}
		r, err := pdf.Load(data)
		if err != nil {
			t.Fatal(err)
		}
		catalog, err := r.Catalog()
		if err != nil {
			t.Fatal(err)
		}
		pages, err := Pages(r, catalog)
		if err != nil {
			t.Fatal(err)
		}
		if len(pages) != 7 {
			t.Errorf("fanout %d: got %d pages", fanout, len(pages))
		}
		for i, p := range pages {
			box, err := pdf.GetRectangle(r, p.Dict["MediaBox"])
			if err != nil {
				t.Fatal(err)
			}
			if box == nil || *box != *testpdf.A4 {
				t.Errorf("fanout %d, page %d: wrong MediaBox %v", fanout, i+1, box)
			}
		}
	}
}
