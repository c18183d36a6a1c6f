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

// Getter is implemented by types which can look up indirect objects.
type Getter interface {
	Get(ref Reference) (Object, error)
}

// Reader represents a PDF file held in memory.  Use Load to create a new
// Reader.
type Reader struct {
	// Version is the PDF version given in the file header, e.g. "1.7".
	// The /Version entry in the document catalog is not consulted.
	Version string

	data    []byte
	xref    map[uint32]*xRefEntry
	trailer Dict

	// startXRef is the offset of the newest cross-reference section,
	// xRefIsStream records whether this section is a stream.
	startXRef    int64
	xRefIsStream bool

	objStm map[uint32]*objStm
	inGet  map[Reference]bool
}

type xRefEntry struct {
	Pos        int64
	Generation uint16

	// InStream is the object number of the containing object stream.
	// If this is non-zero, Pos gives the index inside the stream.
	InStream uint32

	Free bool
}

// Load parses the PDF file contained in data.  The data must not be
// modified while the Reader is in use.
func Load(data []byte) (*Reader, error) {
	r := &Reader{
		data:   data,
		objStm: make(map[uint32]*objStm),
		inGet:  make(map[Reference]bool),
	}

	version, err := readHeaderVersion(data)
	if err != nil {
		return nil, err
	}
	r.Version = version

	err = r.readXRef()
	if err != nil {
		// Try to recover by scanning the file for objects.  The original
		// error is more informative if this fails, too.
		if rebuildErr := r.rebuildXRef(); rebuildErr != nil {
			return nil, err
		}
	}

	if _, isEncrypted := r.trailer["Encrypt"]; isEncrypted {
		return nil, ErrEncrypted
	}

	catalog, err := r.Catalog()
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, &MalformedFileError{Err: errors.New("missing document catalog")}
	}

	return r, nil
}

func readHeaderVersion(data []byte) (string, error) {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	idx := bytes.Index(head, []byte("%PDF-"))
	if idx < 0 {
		return "", &MalformedFileError{Err: errors.New("PDF header not found")}
	}
	s := newScanner(data, idx+5, nil)
	ver, err := s.ReadNumber()
	if err != nil {
		return "", err
	}
	switch ver := ver.(type) {
	case Real:
		return Format(ver), nil
	case Integer:
		return Format(ver) + ".0", nil
	}
	return "", &MalformedFileError{Err: errors.New("invalid PDF version")}
}

// Trailer returns the trailer dictionary of the newest cross-reference
// section.  The returned dictionary must not be modified.
func (r *Reader) Trailer() Dict {
	return r.trailer
}

// Size returns the number of object numbers in use, i.e. one more than the
// highest object number in the file.
func (r *Reader) Size() uint32 {
	var size uint32
	if s, ok := r.trailer["Size"].(Integer); ok && s > 0 && s <= 0xFFFFFFFF {
		size = uint32(s)
	}
	for number := range r.xref {
		if number >= size {
			size = number + 1
		}
	}
	return size
}

// Catalog returns the document catalog.
func (r *Reader) Catalog() (Dict, error) {
	return GetDict(r, r.trailer["Root"])
}

// Get returns the indirect object identified by ref.  References to
// missing or free objects resolve to nil (the PDF null object).
func (r *Reader) Get(ref Reference) (Object, error) {
	entry := r.xref[ref.Number]
	if entry == nil || entry.Free || entry.Generation != ref.Generation {
		return nil, nil
	}

	if r.inGet[ref] {
		return nil, &MalformedFileError{
			Err: fmt.Errorf("object %s references itself", ref),
		}
	}
	r.inGet[ref] = true
	defer delete(r.inGet, ref)

	if entry.InStream != 0 {
		return r.getFromObjStm(entry.InStream, int(entry.Pos), ref)
	}

	if entry.Pos < 0 || entry.Pos >= int64(len(r.data)) {
		return nil, &MalformedFileError{
			Pos: entry.Pos,
			Err: fmt.Errorf("object %s: invalid file offset", ref),
		}
	}
	s := newScanner(r.data, int(entry.Pos), r.getInt)
	obj, found, err := s.ReadIndirectObject()
	if err != nil {
		return nil, err
	}
	if found != ref {
		return nil, &MalformedFileError{
			Pos: entry.Pos,
			Err: fmt.Errorf("expected object %s but found %s", ref, found),
		}
	}
	return obj, nil
}

// Resolve is a shorthand for the package level Resolve function.
func (r *Reader) Resolve(obj Object) (Object, error) {
	return Resolve(r, obj)
}

func (r *Reader) getInt(obj Object) (Integer, error) {
	obj, err := r.Resolve(obj)
	if err != nil {
		return 0, err
	}
	x, ok := obj.(Integer)
	if !ok {
		return 0, fmt.Errorf("expected Integer but got %s", Format(obj))
	}
	return x, nil
}

// Resolve follows references to indirect objects until a direct object is
// reached.
func Resolve(r Getter, obj Object) (Object, error) {
	for range 16 {
		ref, ok := obj.(Reference)
		if !ok {
			return obj, nil
		}
		var err error
		obj, err = r.Get(ref)
		if err != nil {
			return nil, err
		}
	}
	return nil, &MalformedFileError{Err: errors.New("too many levels of indirection")}
}

// GetDict resolves references to indirect objects and makes sure the
// resulting object is a dictionary.  Null objects are returned as nil.
func GetDict(r Getter, obj Object) (Dict, error) {
	obj, err := Resolve(r, obj)
	if err != nil {
		return nil, err
	}
	switch x := obj.(type) {
	case nil:
		return nil, nil
	case Dict:
		return x, nil
	case *Stream:
		// Some writers store page objects as streams.
		return x.Dict, nil
	}
	return nil, fmt.Errorf("expected Dict but got %s", typeName(obj))
}

// GetArray resolves references to indirect objects and makes sure the
// resulting object is an array.  Null objects are returned as nil.
func GetArray(r Getter, obj Object) (Array, error) {
	obj, err := Resolve(r, obj)
	if err != nil {
		return nil, err
	}
	switch x := obj.(type) {
	case nil:
		return nil, nil
	case Array:
		return x, nil
	}
	return nil, fmt.Errorf("expected Array but got %s", typeName(obj))
}

// GetInteger resolves references to indirect objects and makes sure the
// resulting object is an integer.
func GetInteger(r Getter, obj Object) (Integer, error) {
	obj, err := Resolve(r, obj)
	if err != nil {
		return 0, err
	}
	switch x := obj.(type) {
	case Integer:
		return x, nil
	case Real:
		// some writers use reals for integer values
		if x == Real(Integer(x)) {
			return Integer(x), nil
		}
	}
	return 0, fmt.Errorf("expected Integer but got %s", typeName(obj))
}

// GetNumber resolves references to indirect objects and makes sure the
// resulting object is a number.
func GetNumber(r Getter, obj Object) (float64, error) {
	obj, err := Resolve(r, obj)
	if err != nil {
		return 0, err
	}
	switch x := obj.(type) {
	case Integer:
		return float64(x), nil
	case Real:
		return float64(x), nil
	}
	return 0, fmt.Errorf("expected number but got %s", typeName(obj))
}

// GetName resolves references to indirect objects and makes sure the
// resulting object is a name.  Null objects are returned as "".
func GetName(r Getter, obj Object) (Name, error) {
	obj, err := Resolve(r, obj)
	if err != nil {
		return "", err
	}
	switch x := obj.(type) {
	case nil:
		return "", nil
	case Name:
		return x, nil
	}
	return "", fmt.Errorf("expected Name but got %s", typeName(obj))
}

func typeName(obj Object) string {
	switch obj.(type) {
	case nil:
		return "null"
	case Bool:
		return "Bool"
	case Integer:
		return "Integer"
	case Real:
		return "Real"
	case String:
		return "String"
	case Name:
		return "Name"
	case Array:
		return "Array"
	case Dict:
		return "Dict"
	case *Stream:
		return "Stream"
	case Reference:
		return "Reference"
	}
	return fmt.Sprintf("%T", obj)
}

// objStm holds a decoded object stream.
type objStm struct {
	data   []byte
	first  int
	number []uint32
	offset []int
}

func (r *Reader) getFromObjStm(stmNumber uint32, idx int, ref Reference) (Object, error) {
	stm, err := r.loadObjStm(stmNumber)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(stm.number) || stm.number[idx] != ref.Number {
		// Fall back to a linear search, some writers get the index wrong.
		idx = -1
		for i, number := range stm.number {
			if number == ref.Number {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("object %s: %w", ref, errNoObject)
		}
	}

	pos := stm.first + stm.offset[idx]
	if pos < 0 || pos >= len(stm.data) {
		return nil, &MalformedFileError{
			Err: fmt.Errorf("object %s: invalid offset in object stream", ref),
		}
	}
	s := newScanner(stm.data, pos, nil)
	return s.ReadObject()
}

func (r *Reader) loadObjStm(number uint32) (*objStm, error) {
	if stm, ok := r.objStm[number]; ok {
		return stm, nil
	}

	entry := r.xref[number]
	if entry == nil || entry.Free || entry.InStream != 0 {
		return nil, &MalformedFileError{
			Err: fmt.Errorf("object stream %d not found", number),
		}
	}
	obj, err := r.Get(Reference{Number: number, Generation: entry.Generation})
	if err != nil {
		return nil, err
	}
	stream, ok := obj.(*Stream)
	if !ok {
		return nil, &MalformedFileError{
			Err: fmt.Errorf("object %d is not an object stream", number),
		}
	}
	n, err := GetInteger(r, stream.Dict["N"])
	if err != nil {
		return nil, err
	}
	first, err := GetInteger(r, stream.Dict["First"])
	if err != nil {
		return nil, err
	}
	data, err := stream.Decode(r)
	if err != nil {
		return nil, err
	}
	if n < 0 || first < 0 || int(first) > len(data) {
		return nil, &MalformedFileError{
			Err: fmt.Errorf("object stream %d: invalid header", number),
		}
	}

	stm := &objStm{
		data:  data,
		first: int(first),
	}
	s := newScanner(data[:first], 0, nil)
	for i := 0; i < int(n); i++ {
		s.SkipWhiteSpace()
		objNumber, err := s.ReadInteger()
		if err != nil {
			return nil, err
		}
		s.SkipWhiteSpace()
		offset, err := s.ReadInteger()
		if err != nil {
			return nil, err
		}
		if objNumber < 0 || objNumber > 0xFFFFFFFF || offset < 0 {
			return nil, &MalformedFileError{
				Err: fmt.Errorf("object stream %d: invalid header", number),
			}
		}
		stm.number = append(stm.number, uint32(objNumber))
		stm.offset = append(stm.offset, int(offset))
	}

	r.objStm[number] = stm
	return stm, nil
}
