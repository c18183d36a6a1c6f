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
	"io"
	"strconv"
)

// maxNesting limits the depth of nested arrays and dictionaries.
const maxNesting = 256

// scanner reads PDF objects from an in-memory byte slice.
type scanner struct {
	data []byte
	pos  int

	// getInt resolves the /Length of streams, which may be given
	// as a reference to an indirect object.
	getInt func(Object) (Integer, error)

	level int
}

func newScanner(data []byte, pos int, getInt func(Object) (Integer, error)) *scanner {
	return &scanner{
		data:   data,
		pos:    pos,
		getInt: getInt,
	}
}

func (s *scanner) errorf(format string, args ...any) error {
	return &MalformedFileError{
		Pos: int64(s.pos),
		Err: fmt.Errorf(format, args...),
	}
}

func (s *scanner) unexpectedEOF() error {
	return &MalformedFileError{
		Pos: int64(s.pos),
		Err: io.ErrUnexpectedEOF,
	}
}

func (s *scanner) hasPrefix(pat string) bool {
	return bytes.HasPrefix(s.data[s.pos:], []byte(pat))
}

// SkipWhiteSpace skips white space and comments.
func (s *scanner) SkipWhiteSpace() {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if c == '%' {
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
			continue
		}
		if !isSpace[c] {
			return
		}
		s.pos++
	}
}

// SkipString skips the given keyword, or returns an error if the input
// does not start with pat.
func (s *scanner) SkipString(pat string) error {
	if !s.hasPrefix(pat) {
		if s.pos >= len(s.data) {
			return s.unexpectedEOF()
		}
		return s.errorf("expected %q", pat)
	}
	s.pos += len(pat)
	return nil
}

// ReadIndirectObject reads an object of the form "n g obj ... endobj".
func (s *scanner) ReadIndirectObject() (Object, Reference, error) {
	// Some files point the xref entries at the end of the previous line.
	s.SkipWhiteSpace()

	number, err := s.ReadInteger()
	if err != nil {
		return nil, Reference{}, err
	}
	s.SkipWhiteSpace()
	generation, err := s.ReadInteger()
	if err != nil {
		return nil, Reference{}, err
	}
	if number < 0 || number > 0xFFFFFFFF || generation < 0 || generation > 0xFFFF {
		return nil, Reference{}, s.errorf("invalid object id %d %d", number, generation)
	}
	ref := Reference{Number: uint32(number), Generation: uint16(generation)}

	s.SkipWhiteSpace()
	err = s.SkipString("obj")
	if err != nil {
		return nil, Reference{}, err
	}
	s.SkipWhiteSpace()

	obj, err := s.ReadObject()
	if err != nil {
		return nil, Reference{}, err
	}

	// Some writers omit "endobj".  We accept this.
	s.SkipWhiteSpace()
	if s.hasPrefix("endobj") {
		s.pos += len("endobj")
	}

	return obj, ref, nil
}

// ReadObject reads a direct object, or a reference to an indirect object.
func (s *scanner) ReadObject() (Object, error) {
	s.SkipWhiteSpace()
	if s.pos >= len(s.data) {
		return nil, s.unexpectedEOF()
	}

	c := s.data[s.pos]
	switch {
	case s.hasPrefix("null"):
		s.pos += 4
		return nil, nil
	case s.hasPrefix("true"):
		s.pos += 4
		return Bool(true), nil
	case s.hasPrefix("false"):
		s.pos += 5
		return Bool(false), nil
	case c == '/':
		return s.ReadName()
	case c >= '0' && c <= '9':
		if ref, ok := s.tryReference(); ok {
			return ref, nil
		}
		return s.ReadNumber()
	case c == '+' || c == '-' || c == '.':
		return s.ReadNumber()
	case s.hasPrefix("<<"):
		dict, err := s.ReadDict()
		if err != nil {
			return nil, err
		}
		pos := s.pos
		s.SkipWhiteSpace()
		if !s.hasPrefix("stream") {
			s.pos = pos
			return dict, nil
		}
		return s.ReadStreamData(dict)
	case c == '(':
		return s.ReadQuotedString()
	case c == '<':
		return s.ReadHexString()
	case c == '[':
		return s.ReadArray()
	}
	return nil, s.errorf("unexpected character %q", c)
}

// tryReference checks whether the input starts with "n g R".  If so, the
// reference is consumed and returned.
func (s *scanner) tryReference() (Reference, bool) {
	start := s.pos

	number, err := s.ReadInteger()
	if err != nil || number < 0 || number > 0xFFFFFFFF {
		s.pos = start
		return Reference{}, false
	}
	s.SkipWhiteSpace()
	if s.pos >= len(s.data) || s.data[s.pos] < '0' || s.data[s.pos] > '9' {
		s.pos = start
		return Reference{}, false
	}
	generation, err := s.ReadInteger()
	if err != nil || generation > 0xFFFF {
		s.pos = start
		return Reference{}, false
	}
	s.SkipWhiteSpace()
	if s.pos >= len(s.data) || s.data[s.pos] != 'R' {
		s.pos = start
		return Reference{}, false
	}
	s.pos++
	if s.pos < len(s.data) && !isSpace[s.data[s.pos]] && !isDelimiter[s.data[s.pos]] {
		s.pos = start
		return Reference{}, false
	}
	return Reference{Number: uint32(number), Generation: uint16(generation)}, true
}

// ReadInteger reads an integer.
func (s *scanner) ReadInteger() (Integer, error) {
	start := s.pos
	if s.pos < len(s.data) && (s.data[s.pos] == '+' || s.data[s.pos] == '-') {
		s.pos++
	}
	for s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '9' {
		s.pos++
	}
	x, err := strconv.ParseInt(string(s.data[start:s.pos]), 10, 64)
	if err != nil {
		s.pos = start
		return 0, &MalformedFileError{Pos: int64(start), Err: err}
	}
	return Integer(x), nil
}

// ReadNumber reads an integer or real number.
func (s *scanner) ReadNumber() (Object, error) {
	start := s.pos
	hasDot := false
	if s.pos < len(s.data) && (s.data[s.pos] == '+' || s.data[s.pos] == '-') {
		s.pos++
	}
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if c == '.' && !hasDot {
			hasDot = true
		} else if c < '0' || c > '9' {
			break
		}
		s.pos++
	}
	text := string(s.data[start:s.pos])

	if hasDot {
		if text == "." || text == "-." || text == "+." {
			return Real(0), nil
		}
		x, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, &MalformedFileError{Pos: int64(start), Err: err}
		}
		return Real(x), nil
	}
	x, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		// out-of-range integers are stored as reals
		y, err2 := strconv.ParseFloat(text, 64)
		if err2 != nil {
			return nil, &MalformedFileError{Pos: int64(start), Err: err}
		}
		return Real(y), nil
	}
	return Integer(x), nil
}

// ReadQuotedString reads a ()-delimited string.
func (s *scanner) ReadQuotedString() (String, error) {
	err := s.SkipString("(")
	if err != nil {
		return nil, err
	}

	var res []byte
	depth := 0
	for {
		if s.pos >= len(s.data) {
			return nil, s.unexpectedEOF()
		}
		c := s.data[s.pos]
		s.pos++

		switch c {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return String(res), nil
			}
			depth--
		case '\r':
			// end-of-line markers inside strings are read as '\n'
			if s.pos < len(s.data) && s.data[s.pos] == '\n' {
				s.pos++
			}
			c = '\n'
		case '\\':
			if s.pos >= len(s.data) {
				return nil, s.unexpectedEOF()
			}
			c = s.data[s.pos]
			s.pos++
			switch c {
			case 'n':
				c = '\n'
			case 'r':
				c = '\r'
			case 't':
				c = '\t'
			case 'b':
				c = '\b'
			case 'f':
				c = '\f'
			case '\r':
				if s.pos < len(s.data) && s.data[s.pos] == '\n' {
					s.pos++
				}
				continue
			case '\n':
				continue
			case '0', '1', '2', '3', '4', '5', '6', '7':
				val := c - '0'
				for k := 0; k < 2 && s.pos < len(s.data); k++ {
					d := s.data[s.pos]
					if d < '0' || d > '7' {
						break
					}
					val = val*8 + (d - '0')
					s.pos++
				}
				c = val
			}
		}
		res = append(res, c)
	}
}

// ReadHexString reads a <>-delimited string.
func (s *scanner) ReadHexString() (String, error) {
	err := s.SkipString("<")
	if err != nil {
		return nil, err
	}

	var res []byte
	var hi byte
	first := true
loop:
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++

		var d byte
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c == '>':
			break loop
		case isSpace[c]:
			continue
		default:
			return nil, s.errorf("invalid character %q in hex string", c)
		}
		if first {
			hi = d
		} else {
			res = append(res, hi<<4|d)
		}
		first = !first
	}
	// a missing ">" at the end of the file is tolerated
	if !first {
		res = append(res, hi<<4)
	}
	return String(res), nil
}

// ReadName reads a PDF name object.
func (s *scanner) ReadName() (Name, error) {
	err := s.SkipString("/")
	if err != nil {
		return "", err
	}

	var res []byte
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if isSpace[c] || isDelimiter[c] {
			break
		}
		s.pos++
		if c == '#' && s.pos+1 < len(s.data) {
			hi, ok1 := hexDigit(s.data[s.pos])
			lo, ok2 := hexDigit(s.data[s.pos+1])
			if ok1 && ok2 {
				c = hi<<4 | lo
				s.pos += 2
			}
		}
		res = append(res, c)
	}
	return Name(res), nil
}

// ReadArray reads an array.
func (s *scanner) ReadArray() (Array, error) {
	err := s.SkipString("[")
	if err != nil {
		return nil, err
	}
	s.level++
	defer func() { s.level-- }()
	if s.level > maxNesting {
		return nil, s.errorf("too many nested objects")
	}

	array := Array{}
	for {
		s.SkipWhiteSpace()
		if s.pos >= len(s.data) {
			return nil, s.unexpectedEOF()
		}
		if s.data[s.pos] == ']' {
			s.pos++
			return array, nil
		}
		obj, err := s.ReadObject()
		if err != nil {
			return nil, err
		}
		array = append(array, obj)
	}
}

// ReadDict reads a PDF dictionary.
func (s *scanner) ReadDict() (Dict, error) {
	err := s.SkipString("<<")
	if err != nil {
		return nil, err
	}
	s.level++
	defer func() { s.level-- }()
	if s.level > maxNesting {
		return nil, s.errorf("too many nested objects")
	}

	dict := Dict{}
	for {
		s.SkipWhiteSpace()
		if s.hasPrefix(">>") {
			s.pos += 2
			return dict, nil
		}
		if s.pos >= len(s.data) {
			return nil, s.unexpectedEOF()
		}

		key, err := s.ReadName()
		if err != nil {
			return nil, err
		}
		val, err := s.ReadObject()
		if err != nil {
			return nil, err
		}
		if val != nil {
			dict[key] = val
		}
	}
}

// ReadStreamData reads the data of a PDF Stream, starting after the Dict.
func (s *scanner) ReadStreamData(dict Dict) (*Stream, error) {
	s.SkipWhiteSpace()
	err := s.SkipString("stream")
	if err != nil {
		return nil, err
	}
	if s.hasPrefix("\r\n") {
		s.pos += 2
	} else if s.hasPrefix("\n") || s.hasPrefix("\r") {
		s.pos++
	}
	start := s.pos

	end := -1
	if s.getInt != nil {
		length, err := s.getInt(dict["Length"])
		if err == nil && length >= 0 && start+int(length) <= len(s.data) {
			end = start + int(length)
			tail := s.data[end:]
			tail = bytes.TrimLeft(tail, "\x00\t\n\f\r ")
			if !bytes.HasPrefix(tail, []byte("endstream")) {
				end = -1
			}
		}
	}
	if end < 0 {
		// The /Length is missing or wrong.  Look for the end marker instead.
		idx := bytes.Index(s.data[start:], []byte("endstream"))
		if idx < 0 {
			return nil, &MalformedFileError{
				Pos: int64(start),
				Err: errors.New("unterminated stream"),
			}
		}
		end = start + idx
		for end > start && (s.data[end-1] == '\n' || s.data[end-1] == '\r') {
			end--
		}
	}

	s.pos = end
	s.SkipWhiteSpace()
	err = s.SkipString("endstream")
	if err != nil {
		return nil, err
	}

	return &Stream{
		Dict: dict,
		Data: s.data[start:end],
	}, nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

var isSpace = map[byte]bool{
	0:  true,
	9:  true,
	10: true,
	12: true,
	13: true,
	32: true,
}

var isDelimiter = map[byte]bool{
	'(': true,
	')': true,
	'<': true,
	'>': true,
	'[': true,
	']': true,
	'{': true,
	'}': true,
	'/': true,
	'%': true,
}
