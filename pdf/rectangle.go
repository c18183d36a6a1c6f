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
	"errors"
	"fmt"
	"io"
	"math"
)

// Rectangle represents a PDF rectangle, given by the coordinates of two
// diagonally opposite corners.
type Rectangle struct {
	LLx, LLy, URx, URy float64
}

func (r Rectangle) String() string {
	return fmt.Sprintf("[%g %g %g %g]", r.LLx, r.LLy, r.URx, r.URy)
}

// Dx returns the width of the rectangle.
func (r Rectangle) Dx() float64 {
	return r.URx - r.LLx
}

// Dy returns the height of the rectangle.
func (r Rectangle) Dy() float64 {
	return r.URy - r.LLy
}

// IsZero checks whether the rectangle has zero area.
func (r Rectangle) IsZero() bool {
	return r.Dx() == 0 || r.Dy() == 0
}

// PDF implements the Object interface.
func (r Rectangle) PDF(w io.Writer) error {
	return r.asArray().PDF(w)
}

func (r Rectangle) asArray() Array {
	res := make(Array, 4)
	for i, x := range []float64{r.LLx, r.LLy, r.URx, r.URy} {
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			res[i] = Integer(x)
		} else {
			res[i] = Real(x)
		}
	}
	return res
}

// GetRectangle resolves references to indirect objects and converts the
// resulting array into a Rectangle.  The corners are normalized, so that
// LLx <= URx and LLy <= URy.
func GetRectangle(r Getter, obj Object) (*Rectangle, error) {
	a, err := GetArray(r, obj)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}
	if len(a) != 4 {
		return nil, errors.New("rectangle: expected 4 numbers")
	}
	var x [4]float64
	for i, obj := range a {
		x[i], err = GetNumber(r, obj)
		if err != nil {
			return nil, fmt.Errorf("rectangle: %w", err)
		}
	}
	return &Rectangle{
		LLx: math.Min(x[0], x[2]),
		LLy: math.Min(x[1], x[3]),
		URx: math.Max(x[0], x[2]),
		URy: math.Max(x[1], x[3]),
	}, nil
}
