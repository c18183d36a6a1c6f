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
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// Decode returns the stream data with all filters removed.  Only the
// FlateDecode filter is supported; this covers cross-reference streams and
// object streams, which are the only streams we need to read.
//
// The argument r is used to resolve indirect /Filter and /DecodeParms
// entries; it may be nil.
func (x *Stream) Decode(r *Reader) ([]byte, error) {
	filters, err := x.filters(r)
	if err != nil {
		return nil, err
	}

	data := x.Data
	for _, f := range filters {
		switch f.name {
		case "FlateDecode", "Fl":
			data, err = flateDecode(data, f.parms)
		default:
			err = fmt.Errorf("unsupported filter %q", f.name)
		}
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

type filterInfo struct {
	name  Name
	parms Dict
}

func (x *Stream) filters(r *Reader) ([]filterInfo, error) {
	resolve := func(obj Object) (Object, error) {
		if r == nil {
			return obj, nil
		}
		return r.Resolve(obj)
	}

	filterObj, err := resolve(x.Dict["Filter"])
	if err != nil {
		return nil, err
	}
	parmsObj, err := resolve(x.Dict["DecodeParms"])
	if err != nil {
		return nil, err
	}

	var names Array
	var parms Array
	switch f := filterObj.(type) {
	case nil:
		return nil, nil
	case Name:
		names = Array{f}
		parms = Array{parmsObj}
	case Array:
		names = f
		parms, _ = parmsObj.(Array)
	default:
		return nil, fmt.Errorf("invalid /Filter %s", Format(filterObj))
	}

	res := make([]filterInfo, len(names))
	for i, obj := range names {
		obj, err := resolve(obj)
		if err != nil {
			return nil, err
		}
		name, ok := obj.(Name)
		if !ok {
			return nil, fmt.Errorf("invalid filter name %s", Format(obj))
		}
		res[i].name = name
		if i < len(parms) {
			p, err := resolve(parms[i])
			if err != nil {
				return nil, err
			}
			res[i].parms, _ = p.(Dict)
		}
	}
	return res, nil
}

func flateDecode(data []byte, parms Dict) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	out, err := io.ReadAll(zr)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		// Truncated streams are common; we keep what we could decode.
		return nil, err
	}

	predictor := getIntDefault(parms, "Predictor", 1)
	switch {
	case predictor == 1:
		return out, nil
	case predictor >= 10:
		colors := getIntDefault(parms, "Colors", 1)
		bpc := getIntDefault(parms, "BitsPerComponent", 8)
		columns := getIntDefault(parms, "Columns", 1)
		return pngUnpredict(out, colors, bpc, columns)
	default:
		return nil, fmt.Errorf("unsupported predictor %d", predictor)
	}
}

// pngUnpredict reverses the PNG predictors, see section 7.4.4.4 of
// ISO 32000-2:2020.
func pngUnpredict(data []byte, colors, bpc, columns int) ([]byte, error) {
	if colors < 1 || bpc < 1 || columns < 1 {
		return nil, errors.New("invalid predictor parameters")
	}
	bpp := (colors*bpc + 7) / 8
	rowLen := (colors*bpc*columns + 7) / 8
	if len(data)%(rowLen+1) != 0 {
		return nil, errors.New("PNG predictor: incomplete row")
	}

	numRows := len(data) / (rowLen + 1)
	out := make([]byte, 0, numRows*rowLen)
	prev := make([]byte, rowLen)
	for row := 0; row < numRows; row++ {
		tp := data[row*(rowLen+1)]
		cur := data[row*(rowLen+1)+1 : (row+1)*(rowLen+1)]
		line := make([]byte, rowLen)
		for i := range cur {
			var left, upLeft byte
			if i >= bpp {
				left = line[i-bpp]
				upLeft = prev[i-bpp]
			}
			up := prev[i]
			switch tp {
			case 0:
				line[i] = cur[i]
			case 1:
				line[i] = cur[i] + left
			case 2:
				line[i] = cur[i] + up
			case 3:
				line[i] = cur[i] + byte((int(left)+int(up))/2)
			case 4:
				line[i] = cur[i] + paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("PNG predictor: invalid row type %d", tp)
			}
		}
		out = append(out, line...)
		prev = line
	}
	return out, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	} else if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func getIntDefault(dict Dict, key Name, def int) int {
	if x, ok := dict[key].(Integer); ok {
		return int(x)
	}
	return def
}

// FlateStream creates a new stream with the given data, compressed using
// the FlateDecode filter.
func FlateStream(dict Dict, data []byte) (*Stream, error) {
	buf := &bytes.Buffer{}
	zw, err := zlib.NewWriterLevel(buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	_, err = zw.Write(data)
	if err != nil {
		return nil, err
	}
	err = zw.Close()
	if err != nil {
		return nil, err
	}

	streamDict := Dict{}
	for key, val := range dict {
		streamDict[key] = val
	}
	streamDict["Filter"] = Name("FlateDecode")
	return &Stream{Dict: streamDict, Data: buf.Bytes()}, nil
}
