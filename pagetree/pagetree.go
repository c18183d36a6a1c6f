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

// Package pagetree enumerates the pages of a PDF document.
package pagetree

import (
	"errors"
	"fmt"
	"math"

	"seehuhn.de/go/pagenum/pdf"
)

// Inheritable lists the page attributes which can be inherited from the
// page tree nodes above a page.
var Inheritable = []pdf.Name{"Resources", "MediaBox", "CropBox", "Rotate"}

// Page is a leaf of the page tree.
type Page struct {
	// Ref is the reference of the page object.  This is the zero
	// Reference if the page dictionary is stored as a direct object.
	Ref pdf.Reference

	// Dict is a copy of the page dictionary, with inherited attributes
	// filled in.  The original dictionary is not modified.
	Dict pdf.Dict
}

// Pages returns the pages of the document in order.
func Pages(r pdf.Getter, catalog pdf.Dict) ([]*Page, error) {
	root, ok := catalog["Pages"]
	if !ok {
		return nil, errNoPages
	}

	type frame struct {
		kids      pdf.Array
		inherited pdf.Dict
	}

	var res []*Page
	seen := map[pdf.Reference]bool{}
	stack := []*frame{{kids: pdf.Array{root}, inherited: pdf.Dict{}}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if len(top.kids) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		obj := top.kids[0]
		top.kids = top.kids[1:]

		ref, isRef := obj.(pdf.Reference)
		if isRef {
			if seen[ref] {
				return nil, errInvalidPageTree
			}
			seen[ref] = true
		}
		node, err := pdf.GetDict(r, obj)
		if err != nil {
			return nil, fmt.Errorf("page tree: %w", err)
		}
		if node == nil {
			// Dangling references in /Kids are ignored.
			continue
		}

		tp, err := pdf.GetName(r, node["Type"])
		if err != nil {
			return nil, fmt.Errorf("page tree: %w", err)
		}
		if tp == "" {
			// Some writers omit the /Type entry.
			if _, hasKids := node["Kids"]; hasKids {
				tp = "Pages"
			} else {
				tp = "Page"
			}
		}

		switch tp {
		case "Page":
			dict := make(pdf.Dict, len(node)+len(Inheritable))
			for key, val := range node {
				dict[key] = val
			}
			for _, name := range Inheritable {
				if _, ok := dict[name]; !ok {
					if val, ok := top.inherited[name]; ok {
						dict[name] = val
					}
				}
			}
			res = append(res, &Page{Ref: ref, Dict: dict})
			if len(res) > math.MaxInt32 {
				return nil, errInvalidPageTree
			}

		case "Pages":
			if len(stack) > maxDepth {
				return nil, errInvalidPageTree
			}
			kids, err := pdf.GetArray(r, node["Kids"])
			if err != nil {
				return nil, fmt.Errorf("page tree: %w", err)
			}
			inherited := make(pdf.Dict, len(Inheritable))
			for _, name := range Inheritable {
				if val, ok := node[name]; ok {
					inherited[name] = val
				} else if val, ok := top.inherited[name]; ok {
					inherited[name] = val
				}
			}
			stack = append(stack, &frame{kids: kids, inherited: inherited})

		default:
			return nil, errInvalidPageTree
		}
	}
	return res, nil
}

const maxDepth = 64

var (
	errInvalidPageTree = errors.New("invalid page tree")
	errNoPages         = errors.New("document has no page tree")
)
