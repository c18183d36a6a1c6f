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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadObject(t *testing.T) {
	cases := []struct {
		in  string
		val Object
		ok  bool
	}{
		{"", nil, false},
		{"null", nil, true},

		{"true", Bool(true), true},
		{"false", Bool(false), true},
		{"TRUE", nil, false},

		{"0", Integer(0), true},
		{"+0", Integer(0), true},
		{"-0", Integer(0), true},
		{"+12", Integer(12), true},
		{"-4567", Integer(-4567), true},
		{"999999999999999999", Integer(999999999999999999), true},

		{".5", Real(.5), true},
		{"-.5", Real(-.5), true},
		{"+0.5", Real(.5), true},
		{"12.", Real(12), true},

		{"/a", Name("a"), true},
		{"/A;Name_With-Various***Characters?", Name("A;Name_With-Various***Characters?"), true},
		{"/1.2", Name("1.2"), true},
		{"/A#42", Name("AB"), true},
		{"/F#23#20minor", Name("F# minor"), true},
		{"/", Name(""), true},

		{`()`, String(nil), true},
		{"(test string)", String("test string"), true},
		{`(he(ll)o)`, String("he(ll)o"), true},
		{`(he\)ll\(o)`, String("he)ll(o"), true},
		{"(hello\r\n)", String("hello\n"), true},
		{"(hell\\\r\no)", String("hello"), true},
		{`(h\145llo)`, String("hello"), true},
		{`(\0612)`, String("12"), true},
		{"(unterminated", nil, false},

		{"<>", String(nil), true},
		{"<68656c6c6f>", String("hello"), true},
		{"<68 65 6C 6C 6F>", String("hello"), true},
		{"<68656C7>", String("help"), true},
		{"<6x>", nil, false},

		{"[1 2 3]", Array{Integer(1), Integer(2), Integer(3)}, true},
		{"[1 2 3 R 4]", Array{Integer(1), Reference{2, 3}, Integer(4)}, true},
		{"[1 2 R3]", Array{Integer(1), Integer(2), nil}, false},
		{"[/a%comment\n/b]", Array{Name("a"), Name("b")}, true},
		{"[", nil, false},

		{"<< /key 12 /val /23 >>", Dict{"key": Integer(12), "val": Name("23")}, true},
		{"<</a null/b 1>>", Dict{"b": Integer(1)}, true},
		{"<</Kids[4 0 R 5 0 R]>>", Dict{"Kids": Array{Reference{4, 0}, Reference{5, 0}}}, true},
	}
	for _, test := range cases {
		s := newScanner([]byte(test.in), 0, nil)
		val, err := s.ReadObject()
		if (err == nil) != test.ok {
			t.Errorf("%q: unexpected error %v", test.in, err)
			continue
		}
		if !test.ok {
			continue
		}
		if d := cmp.Diff(test.val, val); d != "" {
			t.Errorf("%q: wrong value (-want +got):\n%s", test.in, d)
		}
	}
}

func TestReadIndirectObject(t *testing.T) {
	in := "  7 0 obj\n<</Length 5>>\nstream\nhello\nendstream\nendobj\n"
	s := newScanner([]byte(in), 0, func(obj Object) (Integer, error) {
		return obj.(Integer), nil
	})
	obj, ref, err := s.ReadIndirectObject()
	if err != nil {
		t.Fatal(err)
	}
	if ref != (Reference{7, 0}) {
		t.Errorf("wrong reference %s", ref)
	}
	stream, ok := obj.(*Stream)
	if !ok {
		t.Fatalf("expected stream, got %T", obj)
	}
	if string(stream.Data) != "hello" {
		t.Errorf("wrong stream data %q", stream.Data)
	}
}

func TestStreamWrongLength(t *testing.T) {
	for _, length := range []string{"3", "100", "1 0 R"} {
		in := "<</Length " + length + ">>\nstream\r\nhello world\r\nendstream"
		getInt := func(obj Object) (Integer, error) {
			if x, ok := obj.(Integer); ok {
				return x, nil
			}
			return 0, errNoObject
		}
		s := newScanner([]byte(in), 0, getInt)
		obj, err := s.ReadObject()
		if err != nil {
			t.Errorf("length %s: %s", length, err)
			continue
		}
		stream := obj.(*Stream)
		if string(stream.Data) != "hello world" {
			t.Errorf("length %s: wrong data %q", length, stream.Data)
		}
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in  Object
		out string
	}{
		{nil, "null"},
		{Bool(true), "true"},
		{Integer(-7), "-7"},
		{Real(1.5), "1.5"},
		{Real(2), "2."},
		{String("a"), "(a)"},
		{String("a (test version)"), "(a (test version))"},
		{String("a (test version"), "(a \\(test version)"},
		{String(""), "()"},
		{String("\000"), "<00>"},
		{Name("F# minor"), "/F#23#20minor"},
		{Array{Integer(1), nil, Integer(3)}, "[1 null 3]"},
		{Dict{"b": Integer(2), "a": Integer(1), "c": nil}, "<<\n/a 1\n/b 2\n>>"},
		{Reference{12, 0}, "12 0 R"},
		{Rectangle{0, 0, 595.5, 842}, "[0 0 595.5 842]"},
	}
	for _, test := range cases {
		out := Format(test.in)
		if out != test.out {
			t.Errorf("string wrongly formatted, expected %q but got %q",
				test.out, out)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	objects := []Object{
		String("hello (world)\n"),
		String{0, 1, 2, 255},
		Name("with space"),
		Array{Real(0.25), Integer(-1), Bool(false), Name("x")},
		Dict{"Kids": Array{Reference{1, 0}}, "Count": Integer(1)},
	}
	for _, obj := range objects {
		s := newScanner([]byte(Format(obj)), 0, nil)
		out, err := s.ReadObject()
		if err != nil {
			t.Errorf("%s: %s", Format(obj), err)
			continue
		}
		if d := cmp.Diff(obj, out); d != "" {
			t.Errorf("round trip failed (-want +got):\n%s", d)
		}
	}
}

func TestPNGUnpredict(t *testing.T) {
	// two rows of three bytes, using the "Up" and "Sub" predictors
	in := []byte{
		2, 1, 2, 3,
		1, 4, 1, 1,
	}
	out, err := pngUnpredict(in, 1, 8, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{1, 2, 3, 4, 5, 6}
	if d := cmp.Diff(want, out); d != "" {
		t.Errorf("wrong output (-want +got):\n%s", d)
	}

	_, err = pngUnpredict(in[:5], 1, 8, 3)
	if err == nil {
		t.Error("incomplete row not detected")
	}
}
