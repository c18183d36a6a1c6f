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

// Pdf-pagenum adds page numbers to a PDF file.
//
// Usage:
//
//	pdf-pagenum [options] input.pdf
//
// The output is written to numbered_input.pdf.  If the input file is "-",
// the PDF file is read from stdin and written to stdout.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/term"
	"golang.org/x/text/language"

	"seehuhn.de/go/pagenum"
	"seehuhn.de/go/pagenum/font"
	"seehuhn.de/go/pagenum/font/standard"
	"seehuhn.de/go/pagenum/font/truetype"
	"seehuhn.de/go/pagenum/session"
)

func main() {
	position := flag.String("position", "footer", "place page numbers in the `header` or footer")
	align := flag.String("align", "center", "alignment: left, center or right")
	total := flag.Bool("total", true, "include the total number of pages")
	start := flag.Int("start", 1, "number of the first numbered page")
	size := flag.Float64("size", 12, "font size, one of 10, 12, 14, 16, 18")
	skip := flag.Int("skip", 0, "number of cover pages to leave unnumbered")
	coverInTotal := flag.Bool("cover-in-total", true, "count skipped cover pages in the total")
	fontName := flag.String("font", "helvetica", "label font: helvetica, go, or a TrueType file")
	outDir := flag.String("o", ".", "output `directory`")
	force := flag.Bool("f", false, "overwrite existing output files")
	lang := flag.String("lang", "", "language for status messages (en or ja)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options] input.pdf\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	opt := pagenum.DefaultOptions()
	var err error
	opt.Position, err = pagenum.ParsePosition(*position)
	if err != nil {
		fatal(err)
	}
	opt.Alignment, err = pagenum.ParseAlignment(*align)
	if err != nil {
		fatal(err)
	}
	if !slices.Contains(pagenum.FontSizes, *size) {
		fatal(fmt.Errorf("unsupported font size %g", *size))
	}
	if *skip < 0 {
		fatal(fmt.Errorf("invalid number of cover pages %d", *skip))
	}
	opt.IncludeTotalPages = *total
	opt.StartPage = *start
	opt.FontSize = *size
	if *skip > 0 {
		opt.SkipCoverPages = true
		opt.CoverPagesToSkip = *skip
	}
	opt.IncludeCoverInTotal = *coverInTotal
	opt.Font, err = loadFont(*fontName)
	if err != nil {
		fatal(err)
	}

	s := session.New(userLanguage(*lang))
	s.SetOptions(opt)

	input := flag.Arg(0)
	var out session.Saver
	if input == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fatal(err)
		}
		err = s.Drop(&session.File{Name: "stdin.pdf", Type: session.DetectType("", data), Data: data})
		if err != nil {
			fatal(s.Status())
		}
		out = session.SaverFunc(writeStdout)
	} else {
		data, err := os.ReadFile(input)
		if err != nil {
			fatal(err)
		}
		err = s.Select(&session.File{Name: filepath.Base(input), Data: data})
		if err != nil {
			fatal(s.Status())
		}
		out = &fileSaver{dir: *outDir, force: *force}
	}

	err = s.Process(out)
	fmt.Fprintln(os.Stderr, s.Status())
	if err != nil {
		os.Exit(1)
	}
}

func fatal(msg any) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

// loadFont returns the label font selected on the command line.
func loadFont(name string) (font.Font, error) {
	switch strings.ToLower(name) {
	case "", "helvetica":
		return standard.Helvetica()
	case "go":
		return truetype.GoRegular()
	default:
		return truetype.Open(name)
	}
}

// userLanguage chooses the language for status messages.  If no language
// is given, the locale environment variables are consulted.
func userLanguage(lang string) language.Tag {
	if lang == "" {
		for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
			if lang = os.Getenv(env); lang != "" {
				break
			}
		}
	}
	// "ja_JP.UTF-8" -> "ja-JP"
	lang, _, _ = strings.Cut(lang, ".")
	lang = strings.ReplaceAll(lang, "_", "-")
	tag, err := language.Parse(lang)
	if err != nil {
		return language.English
	}
	return tag
}

// fileSaver writes output files into a directory.
type fileSaver struct {
	dir   string
	force bool
}

func (fs *fileSaver) Save(name string, data []byte) error {
	return writeFile(fs.dir, name, fs.force, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// writeFile stores the output of write as dir/name.  The data is first
// written to a temporary file in the same directory, so that on error no
// partial output is left behind and an existing file is not modified.
// Unless force is set, an existing file causes an error wrapping
// fs.ErrExist.
func writeFile(dir, name string, force bool, write func(io.Writer) error) error {
	fname := filepath.Join(dir, name)
	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	err = write(tmp)
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	err = os.Chmod(tmpName, 0o644)
	if err != nil {
		return err
	}

	if force {
		return os.Rename(tmpName, fname)
	}
	// os.Link fails if fname exists.
	return os.Link(tmpName, fname)
}

func writeStdout(_ string, data []byte) error {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("refusing to write PDF data to a terminal")
	}
	_, err := os.Stdout.Write(data)
	return err
}
