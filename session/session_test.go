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

package session

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	"seehuhn.de/go/pagenum"
	"seehuhn.de/go/pagenum/internal/testpdf"
)

func pdfFile(t *testing.T, name string) *File {
	t.Helper()
	data, err := testpdf.Make(&testpdf.Options{NumPages: 3})
	if err != nil {
		t.Fatal(err)
	}
	return &File{Name: name, Data: data}
}

type recorder struct {
	names []string
	data  [][]byte
}

func (r *recorder) Save(name string, data []byte) error {
	r.names = append(r.names, name)
	r.data = append(r.data, data)
	return nil
}

func TestDetectType(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{"a.pdf", "", PDFType},
		{"A.PDF", "", PDFType},
		{"noext", "%PDF-1.7\n", PDFType},
		{"noext", "hello world", "text/plain"},
		{"image.png", "%PDF-1.7\n", "image/png"},
	}
	for _, test := range cases {
		got := DetectType(test.name, []byte(test.data))
		if got != test.want {
			t.Errorf("DetectType(%q) = %q, want %q", test.name, got, test.want)
		}
	}
}

func TestProcess(t *testing.T) {
	s := New(language.English)
	f := pdfFile(t, "report.pdf")
	if err := s.Select(f); err != nil {
		t.Fatal(err)
	}
	if s.Status() != "" {
		t.Errorf("unexpected status %q", s.Status())
	}

	out := &recorder{}
	if err := s.Process(out); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]string{"numbered_report.pdf"}, out.names); d != "" {
		t.Errorf("wrong output names (-want +got):\n%s", d)
	}
	if !bytes.HasPrefix(out.data[0], f.Data) || len(out.data[0]) <= len(f.Data) {
		t.Error("output is not an update of the input")
	}
	if s.Status() != msgDone {
		t.Errorf("wrong status %q", s.Status())
	}
	if s.Processing() {
		t.Error("processing flag not cleared")
	}
}

func TestRejectNonPDF(t *testing.T) {
	s := New(language.Japanese)
	txt := &File{Name: "notes.txt", Data: []byte("hello")}

	if err := s.Select(txt); !errors.Is(err, ErrNotPDF) {
		t.Errorf("expected ErrNotPDF, got %v", err)
	}
	if s.Status() != "PDFファイルを選択してください" {
		t.Errorf("wrong status %q", s.Status())
	}

	if err := s.Drop(txt); !errors.Is(err, ErrNotPDF) {
		t.Errorf("expected ErrNotPDF, got %v", err)
	}
	if s.Status() != "PDFファイルをドロップしてください" {
		t.Errorf("wrong status %q", s.Status())
	}
	if s.File() != nil {
		t.Error("non-PDF file was accepted")
	}

	// a rejected file does not replace a valid selection
	f := pdfFile(t, "a.pdf")
	if err := s.Drop(f); err != nil {
		t.Fatal(err)
	}
	_ = s.Select(txt)
	if s.File() != f {
		t.Error("selection was lost")
	}

	// an explicit media type takes precedence over the name
	if err := s.Select(&File{Name: "x.pdf", Type: "text/plain"}); !errors.Is(err, ErrNotPDF) {
		t.Errorf("expected ErrNotPDF, got %v", err)
	}
}

func TestNoFile(t *testing.T) {
	s := New(language.Japanese)
	out := &recorder{}
	if err := s.Process(out); !errors.Is(err, ErrNoFile) {
		t.Errorf("expected ErrNoFile, got %v", err)
	}
	if s.Status() != "ファイルを選択してください" {
		t.Errorf("wrong status %q", s.Status())
	}
	if len(out.names) != 0 {
		t.Error("output written without input")
	}
}

func TestProcessingError(t *testing.T) {
	s := New(language.English)
	if err := s.Select(&File{Name: "broken.pdf", Data: []byte("garbage")}); err != nil {
		t.Fatal(err)
	}
	out := &recorder{}
	if err := s.Process(out); err == nil {
		t.Fatal("invalid file processed")
	}
	if len(out.names) != 0 {
		t.Error("output written after error")
	}
	if !strings.HasPrefix(s.Status(), "An error occurred: ") {
		t.Errorf("wrong status %q", s.Status())
	}
	if s.Processing() {
		t.Error("processing flag not cleared")
	}

	// the session can be used again
	if err := s.Select(pdfFile(t, "good.pdf")); err != nil {
		t.Fatal(err)
	}
	if err := s.Process(out); err != nil {
		t.Fatal(err)
	}
}

func TestBusy(t *testing.T) {
	s := New(language.English)
	if err := s.Select(pdfFile(t, "a.pdf")); err != nil {
		t.Fatal(err)
	}

	var inner error
	out := SaverFunc(func(name string, data []byte) error {
		if !s.Processing() {
			t.Error("processing flag not set")
		}
		if s.Status() != msgProcessing {
			t.Errorf("wrong status %q", s.Status())
		}
		inner = s.Process(&recorder{})
		return nil
	})
	if err := s.Process(out); err != nil {
		t.Fatal(err)
	}
	if !errors.Is(inner, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", inner)
	}
}

func TestOptions(t *testing.T) {
	s := New(language.English)
	if d := cmp.Diff(pagenum.DefaultOptions(), s.Options()); d != "" {
		t.Errorf("wrong initial options (-want +got):\n%s", d)
	}

	opt := pagenum.DefaultOptions()
	opt.Alignment = pagenum.Right
	opt.SkipCoverPages = true
	s.SetOptions(opt)
	opt.Alignment = pagenum.Left // must not affect the session
	if got := s.Options(); got.Alignment != pagenum.Right || !got.SkipCoverPages {
		t.Errorf("options not stored: %+v", got)
	}
}

func TestSaveError(t *testing.T) {
	s := New(language.English)
	if err := s.Select(pdfFile(t, "a.pdf")); err != nil {
		t.Fatal(err)
	}
	diskFull := errors.New("disk full")
	err := s.Process(SaverFunc(func(string, []byte) error { return diskFull }))
	if !errors.Is(err, diskFull) {
		t.Errorf("expected disk full error, got %v", err)
	}
	if s.Status() != "An error occurred: disk full" {
		t.Errorf("wrong status %q", s.Status())
	}
}
