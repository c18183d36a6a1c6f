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
	"strconv"
	"strings"
)

// Object represents an object in a PDF file.  There are nine native types of
// PDF objects, which implement this interface: Array, Bool, Dict, Integer,
// Name, Real, Reference, *Stream, and String.  The PDF null object is
// represented by nil.
type Object interface {
	// PDF writes the PDF file representation of the object to w.
	PDF(w io.Writer) error
}

// Bool represents a boolean value in a PDF file.
type Bool bool

// PDF implements the Object interface.
func (x Bool) PDF(w io.Writer) error {
	s := "false"
	if x {
		s = "true"
	}
	_, err := io.WriteString(w, s)
	return err
}

// Integer represents an integer constant in a PDF file.
type Integer int64

// PDF implements the Object interface.
func (x Integer) PDF(w io.Writer) error {
	_, err := io.WriteString(w, strconv.FormatInt(int64(x), 10))
	return err
}

// Real represents a real number in a PDF file.
type Real float64

// PDF implements the Object interface.
func (x Real) PDF(w io.Writer) error {
	s := strconv.FormatFloat(float64(x), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += "."
	}
	_, err := io.WriteString(w, s)
	return err
}

// String represents a raw string in a PDF file.  The character set encoding,
// if any, is determined by the context.
type String []byte

// PDF implements the Object interface.
func (x String) PDF(w io.Writer) error {
	_, err := w.Write(x.encode())
	return err
}

// encode returns the file representation of the string.  Literal strings
// are used unless more than a third of the bytes would need escaping, in
// which case hex encoding is shorter.
func (x String) encode() []byte {
	depth := 0
	balanced := true
	for _, c := range x {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				balanced = false
			}
		}
	}
	if depth != 0 {
		balanced = false
	}

	needsEscape := func(c byte) bool {
		switch {
		case c == '\r' || c == '\n' || c == '\t':
			return false
		case c < 32 || c >= 127 || c == '\\':
			return true
		case c == '(' || c == ')':
			return !balanced
		}
		return false
	}

	numEscapes := 0
	for _, c := range x {
		if needsEscape(c) {
			numEscapes++
		}
	}
	if 3*numEscapes > len(x) {
		return []byte(fmt.Sprintf("<%x>", []byte(x)))
	}

	buf := make([]byte, 0, len(x)+2+3*numEscapes)
	buf = append(buf, '(')
	for _, c := range x {
		if !needsEscape(c) {
			buf = append(buf, c)
			continue
		}
		switch c {
		case '\b':
			buf = append(buf, `\b`...)
		case '\f':
			buf = append(buf, `\f`...)
		case '(':
			buf = append(buf, `\(`...)
		case ')':
			buf = append(buf, `\)`...)
		case '\\':
			buf = append(buf, `\\`...)
		default:
			buf = append(buf, fmt.Sprintf(`\%03o`, c)...)
		}
	}
	buf = append(buf, ')')
	return buf
}

// Name represents a name in a PDF file.
type Name string

// PDF implements the Object interface.
func (x Name) PDF(w io.Writer) error {
	buf := &bytes.Buffer{}
	buf.WriteByte('/')
	for i := 0; i < len(x); i++ {
		c := x[i]
		if isSpace[c] || isDelimiter[c] || c < 0x21 || c > 0x7e || c == '#' {
			fmt.Fprintf(buf, "#%02x", c)
		} else {
			buf.WriteByte(c)
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Array represent an array of objects in a PDF file.
type Array []Object

// PDF implements the Object interface.
func (x Array) PDF(w io.Writer) error {
	_, err := io.WriteString(w, "[")
	if err != nil {
		return err
	}
	for i, val := range x {
		if i > 0 {
			_, err = io.WriteString(w, " ")
			if err != nil {
				return err
			}
		}
		err = writeObject(w, val)
		if err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, "]")
	return err
}

// Dict represent a Dictionary object in a PDF file.
type Dict map[Name]Object

func (x Dict) String() string {
	tp, _ := x["Type"].(Name)
	if tp != "" {
		return fmt.Sprintf("<%s Dict, %d entries>", tp, len(x))
	}
	return fmt.Sprintf("<Dict, %d entries>", len(x))
}

// PDF implements the Object interface.
// Keys are written in sorted order and entries with value null are omitted.
func (x Dict) PDF(w io.Writer) error {
	if x == nil {
		_, err := io.WriteString(w, "null")
		return err
	}

	keys := make([]Name, 0, len(x))
	for key, val := range x {
		if val != nil {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	_, err := io.WriteString(w, "<<")
	if err != nil {
		return err
	}
	for _, key := range keys {
		_, err = io.WriteString(w, "\n")
		if err != nil {
			return err
		}
		err = key.PDF(w)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, " ")
		if err != nil {
			return err
		}
		err = x[key].PDF(w)
		if err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, "\n>>")
	return err
}

// Stream represent a stream object in a PDF file.  Data holds the stream
// data as stored in the file, i.e. with all filters still applied.
type Stream struct {
	Dict
	Data []byte
}

func (x *Stream) String() string {
	tp, _ := x.Dict["Type"].(Name)
	if tp != "" {
		return fmt.Sprintf("<%s Stream, %d bytes>", tp, len(x.Data))
	}
	return fmt.Sprintf("<Stream, %d bytes>", len(x.Data))
}

// PDF implements the Object interface.
// The /Length entry is always set from the length of Data.
func (x *Stream) PDF(w io.Writer) error {
	dict := make(Dict, len(x.Dict)+1)
	for key, val := range x.Dict {
		dict[key] = val
	}
	dict["Length"] = Integer(len(x.Data))
	err := dict.PDF(w)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, "\nstream\n")
	if err != nil {
		return err
	}
	_, err = w.Write(x.Data)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, "\nendstream")
	return err
}

// Reference represents a reference to an indirect object in a PDF file.
type Reference struct {
	Number     uint32
	Generation uint16
}

// PDF implements the Object interface.
func (x Reference) PDF(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%d %d R", x.Number, x.Generation)
	return err
}

func (x Reference) String() string {
	return fmt.Sprintf("%d %d R", x.Number, x.Generation)
}

func writeObject(w io.Writer, obj Object) error {
	if obj == nil {
		_, err := io.WriteString(w, "null")
		return err
	}
	return obj.PDF(w)
}

// Format returns the PDF file representation of obj, for use in error
// messages and tests.
func Format(obj Object) string {
	buf := &bytes.Buffer{}
	err := writeObject(buf, obj)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return buf.String()
}
