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

// Package session holds the state of an interactive page numbering form:
// the selected file, the options, a processing flag and a status message
// for the user.
package session

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"seehuhn.de/go/pagenum"
)

// PDFType is the media type of PDF files.
const PDFType = "application/pdf"

// OutputPrefix is prepended to the file name of the input to get the name
// of the output file.
const OutputPrefix = "numbered_"

var (
	// ErrNoFile is returned by Process if no file has been selected.
	ErrNoFile = errors.New("no file selected")

	// ErrNotPDF is returned by Select and Drop for files which are not
	// PDF files.
	ErrNotPDF = errors.New("not a PDF file")

	// ErrBusy is returned by Process while another call is running.
	ErrBusy = errors.New("processing already in progress")
)

// File is a file chosen by the user.
type File struct {
	Name string

	// Type is the media type of the file.  If this is empty, the type is
	// determined using DetectType.
	Type string

	Data []byte
}

// DetectType returns the media type of a file.  The file name extension is
// used if it is known, otherwise the type is guessed from the contents.
func DetectType(name string, data []byte) string {
	if tp := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); tp != "" {
		if mediaType, _, err := mime.ParseMediaType(tp); err == nil {
			return mediaType
		}
		return tp
	}
	tp := http.DetectContentType(data)
	if mediaType, _, err := mime.ParseMediaType(tp); err == nil {
		return mediaType
	}
	return tp
}

// A Saver delivers the output file to the user.
type Saver interface {
	Save(name string, data []byte) error
}

// SaverFunc allows to use an ordinary function as a Saver.
type SaverFunc func(name string, data []byte) error

// Save implements the Saver interface.
func (f SaverFunc) Save(name string, data []byte) error {
	return f(name, data)
}

// Session is the state of the page numbering form.
// A Session can be used concurrently from several goroutines.
type Session struct {
	mu         sync.Mutex
	file       *File
	opt        pagenum.Options
	processing bool
	status     string

	p *message.Printer
}

// New creates a new session with default options.  Status messages are
// given in the best match for lang among [Languages].
func New(lang language.Tag) *Session {
	return &Session{
		opt: *pagenum.DefaultOptions(),
		p:   newPrinter(lang),
	}
}

// Select sets the file chosen with a file picker.  Files which are not
// PDF files are rejected, and the previously selected file is kept.
func (s *Session) Select(f *File) error {
	return s.setFile(f, msgSelectPDF)
}

// Drop sets a file which was dropped onto the form.  This is the same as
// Select, except for the status message used when rejecting a file.
func (s *Session) Drop(f *File) error {
	return s.setFile(f, msgDropPDF)
}

func (s *Session) setFile(f *File, rejectMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f == nil || fileType(f) != PDFType {
		s.status = s.p.Sprintf(rejectMsg)
		return ErrNotPDF
	}
	s.file = f
	s.status = ""
	return nil
}

func fileType(f *File) string {
	if f.Type != "" {
		return f.Type
	}
	return DetectType(f.Name, f.Data)
}

// File returns the selected file, or nil if no file has been selected.
func (s *Session) File() *File {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file
}

// SetOptions replaces the numbering options.
func (s *Session) SetOptions(opt *pagenum.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opt = *opt
}

// Options returns a copy of the current numbering options.
func (s *Session) Options() *pagenum.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	opt := s.opt
	return &opt
}

// Processing reports whether a call to Process is running.
func (s *Session) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

// Status returns the message to show to the user.
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Process adds page numbers to the selected file and passes the result to
// out, using the name [OutputPrefix] + the original file name.
//
// If an error occurs, nothing is passed to out and the status message
// describes the error.  The session can then be used for another attempt.
func (s *Session) Process(out Saver) error {
	s.mu.Lock()
	if s.processing {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.file == nil {
		s.status = s.p.Sprintf(msgSelectFile)
		s.mu.Unlock()
		return ErrNoFile
	}
	file := s.file
	opt := s.opt
	s.processing = true
	s.status = s.p.Sprintf(msgProcessing)
	s.mu.Unlock()

	err := process(file, &opt, out)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.processing = false
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = s.p.Sprintf(msgUnknown)
		}
		s.status = s.p.Sprintf(msgFailed, msg)
		return err
	}
	s.status = s.p.Sprintf(msgDone)
	return nil
}

func process(file *File, opt *pagenum.Options, out Saver) error {
	data, err := pagenum.AddPageNumbers(file.Data, opt)
	if err != nil {
		return err
	}
	return out.Save(OutputName(file.Name), data)
}

// OutputName returns the name of the output file for the given input file.
func OutputName(name string) string {
	return OutputPrefix + filepath.Base(name)
}
