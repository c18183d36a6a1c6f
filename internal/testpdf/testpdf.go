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

// Package testpdf generates small PDF files for use in unit tests.
package testpdf

import (
	"bytes"
	"fmt"
	"strconv"

	"seehuhn.de/go/pagenum/pdf"
)

// Options control the structure of the generated file.
type Options struct {
	// NumPages is the number of pages.
	NumPages int

	// MediaBox is set on the root of the page tree and inherited by all
	// pages.  The default is A4 paper.
	MediaBox *pdf.Rectangle

	// Fanout, if positive, groups the pages into intermediate page tree
	// nodes with at most Fanout kids each.
	Fanout int

	// XRefStream selects a cross-reference stream instead of a
	// cross-reference table.
	XRefStream bool

	// ObjectStreams stores all dictionaries in an object stream.  This
	// implies XRefStream.
	ObjectStreams bool

	// Content is the content stream of every page.  If this is empty, a
	// small filled rectangle is drawn.
	Content string

	// Encrypted adds an /Encrypt entry to the trailer.
	Encrypted bool
}

// A4 is the default media box.
var A4 = &pdf.Rectangle{LLx: 0, LLy: 0, URx: 595, URy: 842}

// ID is the file identifier written to the trailer.
var ID = pdf.Array{pdf.String("0123456789abcdef"), pdf.String("0123456789abcdef")}

// Make generates a PDF file.
func Make(opt *Options) ([]byte, error) {
	if opt == nil {
		opt = &Options{NumPages: 1}
	}
	if opt.NumPages < 1 {
		return nil, fmt.Errorf("invalid number of pages %d", opt.NumPages)
	}
	mediaBox := opt.MediaBox
	if mediaBox == nil {
		mediaBox = A4
	}
	content := opt.Content
	if content == "" {
		content = "0 0 1 rg\n100 100 50 50 re f\n"
	}

	b := &builder{}
	catalogRef := b.alloc()
	rootRef := b.alloc()
	b.objects[catalogRef.Number] = pdf.Dict{
		"Type":  pdf.Name("Catalog"),
		"Pages": rootRef,
	}

	pageRefs := make([]pdf.Reference, opt.NumPages)
	for i := range pageRefs {
		pageRefs[i] = b.alloc()
		contentRef := b.alloc()
		b.objects[contentRef.Number] = &pdf.Stream{
			Dict: pdf.Dict{},
			Data: []byte(content),
		}
		b.objects[pageRefs[i].Number] = pdf.Dict{
			"Type":     pdf.Name("Page"),
			"Contents": contentRef,
		}
	}

	var rootKids pdf.Array
	if opt.Fanout <= 0 || opt.Fanout >= opt.NumPages {
		for _, ref := range pageRefs {
			b.objects[ref.Number].(pdf.Dict)["Parent"] = rootRef
			rootKids = append(rootKids, ref)
		}
	} else {
		for start := 0; start < len(pageRefs); start += opt.Fanout {
			end := min(start+opt.Fanout, len(pageRefs))
			nodeRef := b.alloc()
			var kids pdf.Array
			for _, ref := range pageRefs[start:end] {
				b.objects[ref.Number].(pdf.Dict)["Parent"] = nodeRef
				kids = append(kids, ref)
			}
			b.objects[nodeRef.Number] = pdf.Dict{
				"Type":   pdf.Name("Pages"),
				"Parent": rootRef,
				"Kids":   kids,
				"Count":  pdf.Integer(len(kids)),
			}
			rootKids = append(rootKids, nodeRef)
		}
	}
	b.objects[rootRef.Number] = pdf.Dict{
		"Type":      pdf.Name("Pages"),
		"Kids":      rootKids,
		"Count":     pdf.Integer(opt.NumPages),
		"MediaBox":  mediaBox,
		"Resources": pdf.Dict{},
	}

	trailer := pdf.Dict{
		"Root": catalogRef,
		"ID":   ID,
	}
	if opt.Encrypted {
		trailer["Encrypt"] = pdf.Dict{
			"Filter": pdf.Name("Standard"),
			"V":      pdf.Integer(1),
			"R":      pdf.Integer(2),
		}
	}

	if opt.ObjectStreams || opt.XRefStream {
		return b.writeWithXRefStream(trailer, opt.ObjectStreams)
	}
	return b.writeWithXRefTable(trailer)
}

type builder struct {
	objects map[uint32]pdf.Object
	next    uint32
}

func (b *builder) alloc() pdf.Reference {
	if b.objects == nil {
		b.objects = make(map[uint32]pdf.Object)
		b.next = 1
	}
	ref := pdf.Reference{Number: b.next}
	b.next++
	return ref
}

func (b *builder) header(buf *bytes.Buffer) {
	buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
}

func (b *builder) writeObject(buf *bytes.Buffer, number uint32, obj pdf.Object) error {
	fmt.Fprintf(buf, "%d 0 obj\n", number)
	err := obj.PDF(buf)
	if err != nil {
		return err
	}
	buf.WriteString("\nendobj\n")
	return nil
}

func (b *builder) writeWithXRefTable(trailer pdf.Dict) ([]byte, error) {
	buf := &bytes.Buffer{}
	b.header(buf)

	offsets := make([]int, b.next)
	for number := uint32(1); number < b.next; number++ {
		offsets[number] = buf.Len()
		err := b.writeObject(buf, number, b.objects[number])
		if err != nil {
			return nil, err
		}
	}

	xrefPos := buf.Len()
	fmt.Fprintf(buf, "xref\n0 %d\n", b.next)
	buf.WriteString("0000000000 65535 f\r\n")
	for number := uint32(1); number < b.next; number++ {
		fmt.Fprintf(buf, "%010d 00000 n\r\n", offsets[number])
	}
	trailer["Size"] = pdf.Integer(b.next)
	buf.WriteString("trailer\n")
	err := trailer.PDF(buf)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(buf, "\nstartxref\n%d\n%%%%EOF\n", xrefPos)
	return buf.Bytes(), nil
}

func (b *builder) writeWithXRefStream(trailer pdf.Dict, useObjStm bool) ([]byte, error) {
	type entry struct {
		tp     byte
		field2 int
		field3 int
	}

	var inStream []uint32
	if useObjStm {
		for number := uint32(1); number < b.next; number++ {
			if _, isStream := b.objects[number].(*pdf.Stream); !isStream {
				inStream = append(inStream, number)
			}
		}
	}
	var objStmRef pdf.Reference
	if len(inStream) > 0 {
		objStmRef = b.alloc()
	}
	xrefRef := b.alloc()

	entries := make([]entry, b.next)
	entries[0] = entry{tp: 0, field3: 65535}

	buf := &bytes.Buffer{}
	b.header(buf)
	isInStream := make(map[uint32]bool, len(inStream))
	for _, number := range inStream {
		isInStream[number] = true
	}
	for number := uint32(1); number < b.next; number++ {
		obj, ok := b.objects[number]
		if !ok || isInStream[number] {
			continue
		}
		entries[number] = entry{tp: 1, field2: buf.Len()}
		err := b.writeObject(buf, number, obj)
		if err != nil {
			return nil, err
		}
	}

	if len(inStream) > 0 {
		head := &bytes.Buffer{}
		body := &bytes.Buffer{}
		for i, number := range inStream {
			fmt.Fprintf(head, "%d %d ", number, body.Len())
			err := b.objects[number].PDF(body)
			if err != nil {
				return nil, err
			}
			body.WriteString("\n")
			entries[number] = entry{tp: 2, field2: int(objStmRef.Number), field3: i}
		}
		head.WriteString("\n")
		stm, err := pdf.FlateStream(pdf.Dict{
			"Type":  pdf.Name("ObjStm"),
			"N":     pdf.Integer(len(inStream)),
			"First": pdf.Integer(head.Len()),
		}, append(head.Bytes(), body.Bytes()...))
		if err != nil {
			return nil, err
		}
		entries[objStmRef.Number] = entry{tp: 1, field2: buf.Len()}
		err = b.writeObject(buf, objStmRef.Number, stm)
		if err != nil {
			return nil, err
		}
	}

	xrefPos := buf.Len()
	entries[xrefRef.Number] = entry{tp: 1, field2: xrefPos}
	var data []byte
	for _, e := range entries {
		data = append(data, e.tp,
			byte(e.field2>>24), byte(e.field2>>16), byte(e.field2>>8), byte(e.field2),
			byte(e.field3>>8), byte(e.field3))
	}
	dict := pdf.Dict{
		"Type": pdf.Name("XRef"),
		"Size": pdf.Integer(b.next),
		"W":    pdf.Array{pdf.Integer(1), pdf.Integer(4), pdf.Integer(2)},
	}
	for key, val := range trailer {
		dict[key] = val
	}
	stm, err := pdf.FlateStream(dict, data)
	if err != nil {
		return nil, err
	}
	err = b.writeObject(buf, xrefRef.Number, stm)
	if err != nil {
		return nil, err
	}
	buf.WriteString("startxref\n" + strconv.Itoa(xrefPos) + "\n%%EOF\n")
	return buf.Bytes(), nil
}
