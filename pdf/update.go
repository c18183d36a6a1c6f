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

package pdf

import (
	"bytes"
	"fmt"
	"io"
	"sort"
)

// Update collects new and changed objects, which are then appended to the
// original file as an incremental update.  The original bytes are never
// modified.
type Update struct {
	r       *Reader
	objects map[Reference]Object
	next    uint32
}

// NewUpdate starts a new incremental update of the file read by r.
func NewUpdate(r *Reader) *Update {
	return &Update{
		r:       r,
		objects: make(map[Reference]Object),
		next:    r.Size(),
	}
}

// Get returns the current version of an indirect object: objects which have
// been changed in the update take precedence over the original file.
// This allows an Update to be used wherever a Getter is needed.
func (u *Update) Get(ref Reference) (Object, error) {
	if obj, ok := u.objects[ref]; ok {
		return obj, nil
	}
	return u.r.Get(ref)
}

// Alloc allocates a new object number.
func (u *Update) Alloc() Reference {
	ref := Reference{Number: u.next}
	u.next++
	return ref
}

// Put stores obj under the given reference.  If ref refers to an object in
// the original file, the object is replaced.
func (u *Update) Put(ref Reference, obj Object) {
	u.objects[ref] = obj
}

// Add allocates a new object number and stores obj under it.
func (u *Update) Add(obj Object) Reference {
	ref := u.Alloc()
	u.Put(ref, obj)
	return ref
}

// WriteTo writes the original file, followed by the update, to w.
func (u *Update) WriteTo(w io.Writer) (int64, error) {
	pw := &posWriter{w: w}

	orig := u.r.data
	_, err := pw.Write(orig)
	if err != nil {
		return pw.pos, err
	}
	if n := len(orig); n > 0 && orig[n-1] != '\n' && orig[n-1] != '\r' {
		_, err = io.WriteString(pw, "\n")
		if err != nil {
			return pw.pos, err
		}
	}

	refs := make([]Reference, 0, len(u.objects))
	for ref := range u.objects {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Number < refs[j].Number
	})

	xref := make(map[uint32]*xRefEntry, len(refs)+1)
	for _, ref := range refs {
		xref[ref.Number] = &xRefEntry{Pos: pw.pos, Generation: ref.Generation}
		_, err = fmt.Fprintf(pw, "%d %d obj\n", ref.Number, ref.Generation)
		if err != nil {
			return pw.pos, err
		}
		err = writeObject(pw, u.objects[ref])
		if err != nil {
			return pw.pos, err
		}
		_, err = io.WriteString(pw, "\nendobj\n")
		if err != nil {
			return pw.pos, err
		}
	}

	trailer := Dict{}
	for _, key := range []Name{"Root", "Info", "ID"} {
		if val, ok := u.r.trailer[key]; ok {
			trailer[key] = val
		}
	}
	if u.r.startXRef > 0 {
		trailer["Prev"] = Integer(u.r.startXRef)
	}

	if u.r.xRefIsStream {
		err = u.writeXRefStream(pw, xref, trailer)
	} else {
		err = u.writeXRefTable(pw, xref, trailer)
	}
	return pw.pos, err
}

// Bytes returns the updated file contents.
func (u *Update) Bytes() ([]byte, error) {
	buf := &bytes.Buffer{}
	_, err := u.WriteTo(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (u *Update) writeXRefTable(pw *posWriter, xref map[uint32]*xRefEntry, trailer Dict) error {
	if u.r.startXRef == 0 {
		// There is no usable previous section, so we need to list all
		// objects of the original file, too.
		for number, entry := range u.r.xref {
			if _, ok := xref[number]; !ok && entry.InStream == 0 {
				xref[number] = entry
			}
		}
	}

	xRefPos := pw.pos
	_, err := io.WriteString(pw, "xref\n")
	if err != nil {
		return err
	}
	for _, sec := range subSections(xref) {
		_, err = fmt.Fprintf(pw, "%d %d\n", sec.Start, sec.Size)
		if err != nil {
			return err
		}
		for i := sec.Start; i < sec.Start+sec.Size; i++ {
			entry := xref[i]
			if entry.Free {
				_, err = fmt.Fprintf(pw, "%010d %05d f\r\n", 0, entry.Generation)
			} else {
				_, err = fmt.Fprintf(pw, "%010d %05d n\r\n", entry.Pos, entry.Generation)
			}
			if err != nil {
				return err
			}
		}
	}

	trailer["Size"] = Integer(u.next)
	_, err = io.WriteString(pw, "trailer\n")
	if err != nil {
		return err
	}
	err = trailer.PDF(pw)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(pw, "\nstartxref\n%d\n%%%%EOF\n", xRefPos)
	return err
}

func (u *Update) writeXRefStream(pw *posWriter, xref map[uint32]*xRefEntry, trailer Dict) error {
	xRefPos := pw.pos
	// The stream needs an object number, but allocating it must not change
	// the Update, so that WriteTo can be called more than once.
	ref := Reference{Number: u.next}
	size := u.next + 1
	xref[ref.Number] = &xRefEntry{Pos: xRefPos}

	w1 := 1
	for _, entry := range xref {
		for entry.Pos >= 1<<(8*w1) {
			w1++
		}
	}

	var data []byte
	var index Array
	for _, sec := range subSections(xref) {
		index = append(index, Integer(sec.Start), Integer(sec.Size))
		for i := sec.Start; i < sec.Start+sec.Size; i++ {
			entry := xref[i]
			tp, pos := byte(1), entry.Pos
			if entry.Free {
				tp, pos = 0, 0
			}
			data = append(data, tp)
			for k := w1 - 1; k >= 0; k-- {
				data = append(data, byte(pos>>(8*k)))
			}
			data = append(data, byte(entry.Generation>>8), byte(entry.Generation))
		}
	}

	dict := Dict{
		"Type":  Name("XRef"),
		"Size":  Integer(size),
		"W":     Array{Integer(1), Integer(w1), Integer(2)},
		"Index": index,
	}
	for key, val := range trailer {
		dict[key] = val
	}
	stream, err := FlateStream(dict, data)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(pw, "%d %d obj\n", ref.Number, ref.Generation)
	if err != nil {
		return err
	}
	err = stream.PDF(pw)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(pw, "\nendobj\nstartxref\n%d\n%%%%EOF\n", xRefPos)
	return err
}

// subSections groups the object numbers in xref into runs of consecutive
// numbers.
func subSections(xref map[uint32]*xRefEntry) []xRefSubSection {
	numbers := make([]uint32, 0, len(xref))
	for number := range xref {
		numbers = append(numbers, number)
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })

	var res []xRefSubSection
	for _, number := range numbers {
		k := len(res) - 1
		if k >= 0 && res[k].Start+res[k].Size == number {
			res[k].Size++
		} else {
			res = append(res, xRefSubSection{Start: number, Size: 1})
		}
	}
	return res
}

type posWriter struct {
	w   io.Writer
	pos int64
}

func (w *posWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.pos += int64(n)
	return n, err
}
