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

// Package pagenum adds page numbers to PDF files.
//
// Labels like "3 / 10" are drawn in the header or footer of every page,
// left aligned, centered or right aligned.  Optionally a number of leading
// cover pages is left unnumbered.  Use [AddPageNumbers] to process a file:
//
//	out, err := pagenum.AddPageNumbers(data, pagenum.DefaultOptions())
//
// The output is the original file, followed by an incremental update which
// contains the modified pages.
package pagenum

import (
	"fmt"

	"seehuhn.de/go/pagenum/document"
	"seehuhn.de/go/pagenum/font/standard"
)

// AddPageNumbers adds page numbers to the PDF file data.  If opt is nil,
// the default options are used.
//
// If an error occurs, no output is returned.
func AddPageNumbers(data []byte, opt *Options) ([]byte, error) {
	if opt == nil {
		opt = DefaultOptions()
	}
	err := opt.Validate()
	if err != nil {
		return nil, err
	}

	doc, err := document.Load(data)
	if err != nil {
		return nil, fmt.Errorf("load PDF: %w", err)
	}

	F := opt.Font
	if F == nil {
		F, err = standard.Helvetica()
		if err != nil {
			return nil, err
		}
	}
	embedded, err := doc.EmbedFont(F)
	if err != nil {
		return nil, err
	}

	pages := doc.Pages()
	sizes := make([]PageSize, len(pages))
	for i, p := range pages {
		sizes[i].Width, sizes[i].Height = p.Size()
	}
	stamps, err := Layout(opt, sizes, F)
	if err != nil {
		return nil, err
	}

	for i, stamp := range stamps {
		if stamp == nil {
			continue
		}
		err = pages[i].DrawText(stamp.Text, &document.TextOptions{
			X:     stamp.X,
			Y:     stamp.Y,
			Size:  opt.FontSize,
			Font:  embedded,
			Color: document.Black,
		})
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
	}

	out, err := doc.Save()
	if err != nil {
		return nil, fmt.Errorf("save PDF: %w", err)
	}
	return out, nil
}
