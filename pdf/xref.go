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
	"errors"
	"fmt"
)

func (r *Reader) findXRef() (int64, error) {
	pos := bytes.LastIndex(r.data, []byte("startxref"))
	if pos < 0 {
		return 0, &MalformedFileError{Err: errors.New("startxref not found")}
	}

	s := newScanner(r.data, pos+len("startxref"), nil)
	s.SkipWhiteSpace()
	xRefPos, err := s.ReadInteger()
	if err != nil {
		return 0, err
	}
	if xRefPos <= 0 || int64(xRefPos) >= int64(len(r.data)) {
		return 0, &MalformedFileError{
			Pos: int64(s.pos),
			Err: errors.New("invalid xref position"),
		}
	}
	return int64(xRefPos), nil
}

// readXRef reads the chain of cross-reference sections, starting with the
// newest one.  Entries from newer sections take precedence.
func (r *Reader) readXRef() error {
	start, err := r.findXRef()
	if err != nil {
		return err
	}
	r.startXRef = start

	xref := make(map[uint32]*xRefEntry)
	trailer := Dict{}
	first := true
	seen := make(map[int64]bool)
	var size Integer
	for {
		// avoid xref loops
		if seen[start] {
			break
		}
		seen[start] = true

		s := newScanner(r.data, int(start), r.getIntDirect)
		s.SkipWhiteSpace()

		var dict Dict
		isStream := !s.hasPrefix("xref")
		if !isStream {
			dict, err = readXRefTable(xref, s)
			if err != nil {
				return err
			}
			if zStart, ok := dict["XRefStm"].(Integer); ok {
				if zStart <= 0 || int64(zStart) >= int64(len(r.data)) {
					return &MalformedFileError{
						Pos: start,
						Err: errors.New("invalid /XRefStm"),
					}
				}
				zs := newScanner(r.data, int(zStart), r.getIntDirect)
				_, err = readXRefStream(xref, zs)
				if err != nil {
					return err
				}
			}
		} else {
			dict, err = readXRefStream(xref, s)
			if err != nil {
				return err
			}
		}

		if first {
			for _, key := range []Name{"Root", "Encrypt", "Info", "ID"} {
				if val, ok := dict[key]; ok {
					trailer[key] = val
				}
			}
			r.xRefIsStream = isStream
			first = false
		}
		if n, ok := dict["Size"].(Integer); ok && n > size {
			size = n
		}

		prev := dict["Prev"]
		if prev == nil {
			break
		}
		prevStart, ok := prev.(Integer)
		if !ok || prevStart <= 0 || int64(prevStart) >= int64(len(r.data)) {
			return &MalformedFileError{
				Pos: start,
				Err: fmt.Errorf("invalid /Prev value %s", Format(prev)),
			}
		}
		start = int64(prevStart)
	}
	trailer["Size"] = size

	// Object 0 is always free.
	xref[0] = &xRefEntry{Free: true, Generation: 65535}

	r.xref = xref
	r.trailer = trailer
	return nil
}

// getIntDirect is used while the cross-reference table is being read.
// At this point, indirect stream lengths cannot be resolved yet.
func (r *Reader) getIntDirect(obj Object) (Integer, error) {
	if r.xref == nil {
		x, ok := obj.(Integer)
		if !ok {
			return 0, errors.New("indirect /Length in xref stream")
		}
		return x, nil
	}
	return r.getInt(obj)
}

func readXRefTable(xref map[uint32]*xRefEntry, s *scanner) (Dict, error) {
	err := s.SkipString("xref")
	if err != nil {
		return nil, err
	}

	for {
		s.SkipWhiteSpace()
		if s.hasPrefix("trailer") {
			break
		}

		start, err := s.ReadInteger()
		if err != nil {
			return nil, err
		}
		s.SkipWhiteSpace()
		count, err := s.ReadInteger()
		if err != nil {
			return nil, err
		}
		if start < 0 || count < 0 || start+count > 0xFFFFFFFF {
			return nil, s.errorf("invalid xref subsection %d %d", start, count)
		}

		for i := start; i < start+count; i++ {
			entry, err := readXRefTableEntry(s)
			if err != nil {
				return nil, err
			}
			number := uint32(i)
			if xref[number] == nil {
				xref[number] = entry
			}
		}
	}

	err = s.SkipString("trailer")
	if err != nil {
		return nil, err
	}
	s.SkipWhiteSpace()
	return s.ReadDict()
}

// readXRefTableEntry reads one line of a cross-reference table.  The
// standard requires fixed width, 20 byte entries, but since many writers get
// the line endings wrong we parse the entries token by token.
func readXRefTableEntry(s *scanner) (*xRefEntry, error) {
	s.SkipWhiteSpace()
	pos, err := s.ReadInteger()
	if err != nil {
		return nil, err
	}
	s.SkipWhiteSpace()
	gen, err := s.ReadInteger()
	if err != nil {
		return nil, err
	}
	if gen == 65536 && pos == 0 {
		// fix a common error in some PDF files
		gen = 65535
	}
	if gen < 0 || gen > 65535 {
		return nil, s.errorf("invalid generation number %d", gen)
	}
	s.SkipWhiteSpace()
	if s.pos >= len(s.data) {
		return nil, s.unexpectedEOF()
	}
	tp := s.data[s.pos]
	s.pos++

	switch tp {
	case 'n':
		return &xRefEntry{Pos: int64(pos), Generation: uint16(gen)}, nil
	case 'f':
		return &xRefEntry{Free: true, Generation: uint16(gen)}, nil
	}
	return nil, s.errorf("malformed xref table")
}

func readXRefStream(xref map[uint32]*xRefEntry, s *scanner) (Dict, error) {
	obj, _, err := s.ReadIndirectObject()
	if err != nil {
		return nil, err
	}
	stream, ok := obj.(*Stream)
	if !ok {
		return nil, s.errorf("invalid xref stream")
	}
	dict := stream.Dict

	w, ss, err := checkXRefStreamDict(dict)
	if err != nil {
		return nil, err
	}
	data, err := stream.Decode(nil)
	if err != nil {
		return nil, err
	}
	err = decodeXRefStream(xref, data, w, ss)
	if err != nil {
		return nil, err
	}
	return dict, nil
}

type xRefSubSection struct {
	Start uint32
	Size  uint32
}

func checkXRefStreamDict(dict Dict) ([]int, []xRefSubSection, error) {
	size, ok := dict["Size"].(Integer)
	if !ok || size < 0 || size > 0xFFFFFFFF {
		return nil, nil, &MalformedFileError{Err: errors.New("xref stream: invalid /Size")}
	}
	W, ok := dict["W"].(Array)
	if !ok || len(W) < 3 {
		return nil, nil, &MalformedFileError{Err: errors.New("xref stream: invalid /W")}
	}
	w := make([]int, len(W))
	for i, Wi := range W {
		wi, ok := Wi.(Integer)
		if !ok || wi < 0 || wi > 8 {
			return nil, nil, &MalformedFileError{Err: errors.New("xref stream: invalid /W")}
		}
		w[i] = int(wi)
	}

	var ss []xRefSubSection
	switch index := dict["Index"].(type) {
	case nil:
		ss = append(ss, xRefSubSection{0, uint32(size)})
	case Array:
		if len(index)%2 != 0 {
			return nil, nil, &MalformedFileError{Err: errors.New("xref stream: invalid /Index")}
		}
		for i := 0; i < len(index); i += 2 {
			start, ok1 := index[i].(Integer)
			n, ok2 := index[i+1].(Integer)
			if !ok1 || !ok2 || start < 0 || n < 0 || start+n > 0xFFFFFFFF {
				return nil, nil, &MalformedFileError{Err: errors.New("xref stream: invalid /Index")}
			}
			ss = append(ss, xRefSubSection{uint32(start), uint32(n)})
		}
	default:
		return nil, nil, &MalformedFileError{Err: errors.New("xref stream: invalid /Index")}
	}
	return w, ss, nil
}

func decodeXRefStream(xref map[uint32]*xRefEntry, data []byte, w []int, ss []xRefSubSection) error {
	wTotal := 0
	for _, wi := range w {
		wTotal += wi
	}
	if wTotal == 0 {
		return &MalformedFileError{Err: errors.New("xref stream: invalid /W")}
	}

	w0, w1, w2 := w[0], w[1], w[2]
	for _, sec := range ss {
		for k := uint32(0); k < sec.Size; k++ {
			if len(data) < wTotal {
				return &MalformedFileError{Err: errors.New("xref stream: truncated data")}
			}
			buf := data[:wTotal]
			data = data[wTotal:]

			i := sec.Start + k
			if xref[i] != nil {
				continue
			}

			tp := int64(1) // the default if w0 == 0
			if w0 > 0 {
				tp = decodeInt(buf[:w0])
			}
			a := decodeInt(buf[w0 : w0+w1])
			b := decodeInt(buf[w0+w1 : w0+w1+w2])
			switch tp {
			case 0:
				xref[i] = &xRefEntry{Free: true, Generation: uint16(b)}
			case 1:
				xref[i] = &xRefEntry{Pos: a, Generation: uint16(b)}
			case 2:
				if a <= 0 || a > 0xFFFFFFFF {
					return &MalformedFileError{Err: errors.New("xref stream: invalid object stream number")}
				}
				xref[i] = &xRefEntry{Pos: b, InStream: uint32(a)}
			default:
				// Unknown entry types are to be treated as references to
				// the null object.
			}
		}
	}
	return nil
}

func decodeInt(buf []byte) (res int64) {
	for _, x := range buf {
		res = res<<8 | int64(x)
	}
	return res
}

// rebuildXRef reconstructs the cross-reference information for a damaged
// file, by scanning the whole file for "n g obj" markers.
func (r *Reader) rebuildXRef() error {
	xref := make(map[uint32]*xRefEntry)
	r.xref = xref

	var root Object
	pat := []byte("obj")
	pos := 0
	for {
		idx := bytes.Index(r.data[pos:], pat)
		if idx < 0 {
			break
		}
		objPos := pos + idx
		pos = objPos + len(pat)

		start, ok := objectStart(r.data, objPos)
		if !ok {
			continue
		}
		s := newScanner(r.data, start, r.getInt)
		number, _ := s.ReadInteger()
		s.SkipWhiteSpace()
		gen, _ := s.ReadInteger()
		if number < 0 || number > 0xFFFFFFFF || gen < 0 || gen > 0xFFFF {
			continue
		}
		// later definitions override earlier ones
		xref[uint32(number)] = &xRefEntry{Pos: int64(start), Generation: uint16(gen)}
	}

	// Now that all objects are known, look for the catalog.
	for number, entry := range xref {
		ref := Reference{Number: number, Generation: entry.Generation}
		obj, err := r.Get(ref)
		if err != nil {
			continue
		}
		dict, ok := obj.(Dict)
		if ok && dict["Type"] == Name("Catalog") {
			root = ref
			break
		}
	}
	if root == nil {
		return &MalformedFileError{Err: errors.New("document catalog not found")}
	}

	xref[0] = &xRefEntry{Free: true, Generation: 65535}
	r.trailer = Dict{"Root": root}
	r.trailer["Size"] = Integer(r.Size())

	// The next update will need a complete cross-reference table.
	r.startXRef = 0
	r.xRefIsStream = false
	return nil
}

// objectStart checks whether the "obj" keyword at objPos is preceded by an
// object number and a generation number.  If so, the start of the object
// number is returned.
func objectStart(data []byte, objPos int) (int, bool) {
	if objPos+3 < len(data) && !isSpace[data[objPos+3]] && !isDelimiter[data[objPos+3]] {
		return 0, false
	}
	i := objPos
	skipBack := func(digits bool) bool {
		end := i
		for i > 0 {
			c := data[i-1]
			if digits && (c < '0' || c > '9') || !digits && !isSpace[c] {
				break
			}
			i--
		}
		return i < end
	}
	if !skipBack(false) || !skipBack(true) || !skipBack(false) || !skipBack(true) {
		return 0, false
	}
	if i > 0 && !isSpace[data[i-1]] && !isDelimiter[data[i-1]] {
		return 0, false
	}
	return i, true
}
