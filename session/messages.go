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
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.  The keys double as the English text.
const (
	msgSelectPDF  = "Please select a PDF file."
	msgDropPDF    = "Please drop a PDF file."
	msgSelectFile = "Please select a file."
	msgProcessing = "Processing..."
	msgDone       = "Done! The download will start now."
	msgFailed     = "An error occurred: %s"
	msgUnknown    = "unknown error"
)

var japanese = map[string]string{
	msgSelectPDF:  "PDFファイルを選択してください",
	msgDropPDF:    "PDFファイルをドロップしてください",
	msgSelectFile: "ファイルを選択してください",
	msgProcessing: "処理中...",
	msgDone:       "完了しました！ダウンロードが開始されます。",
	msgFailed:     "エラーが発生しました: %s",
	msgUnknown:    "不明なエラー",
}

// Languages lists the languages for which status messages are available.
var Languages = []language.Tag{language.English, language.Japanese}

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range japanese {
		// Errors only occur for malformed messages, which we don't have.
		_ = b.SetString(language.English, key, key)
		_ = b.SetString(language.Japanese, key, msg)
	}
	return b
}

var messages = newCatalog()

// newPrinter returns a printer for the best match of lang among the
// supported languages.
func newPrinter(lang language.Tag) *message.Printer {
	matcher := language.NewMatcher(Languages)
	_, idx, _ := matcher.Match(lang)
	return message.NewPrinter(Languages[idx], message.Catalog(messages))
}
