package source

import (
	"fmt"

	"github.com/neurokit/spikekit/errs"
)

// Kind identifies the element type of an Array.
type Kind uint8

const (
	KindInt64 Kind = iota + 1
	KindFloat64
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Array is the typed-array value handed back by source readers.
//
// Data is stored flat in row-major order with an explicit 2-D shape;
// vectors are either Rows×1 or 1×Cols depending on how the producing tool
// wrote them. Accessors flatten vectors regardless of orientation, so
// adapters always hand one canonical shape to the assembler and no
// post-hoc shape sniffing is needed downstream.
type Array struct {
	Rows int
	Cols int

	Ints    []int64
	Floats  []float64
	Strings []string
}

// IntVector creates a Rows×1 int64 array.
func IntVector(v []int64) *Array {
	return &Array{Rows: len(v), Cols: 1, Ints: v}
}

// FloatVector creates a Rows×1 float64 array.
func FloatVector(v []float64) *Array {
	return &Array{Rows: len(v), Cols: 1, Floats: v}
}

// FloatMatrix creates a rows×cols float64 array from flat row-major data.
func FloatMatrix(rows, cols int, data []float64) *Array {
	return &Array{Rows: rows, Cols: cols, Floats: data}
}

// Kind returns the element kind of the array.
func (a *Array) Kind() Kind {
	switch {
	case a.Ints != nil:
		return KindInt64
	case a.Floats != nil:
		return KindFloat64
	default:
		return KindString
	}
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return a.Rows * a.Cols
}

// IsVector reports whether the array is one-dimensional in either
// orientation.
func (a *Array) IsVector() bool {
	return a.Rows <= 1 || a.Cols <= 1
}

// Int64s returns the array flattened to an int64 vector.
//
// Fails with ErrArrayShape for matrices and ErrArrayKind for non-integer
// arrays.
func (a *Array) Int64s() ([]int64, error) {
	if !a.IsVector() {
		return nil, fmt.Errorf("%w: %dx%d, want vector", errs.ErrArrayShape, a.Rows, a.Cols)
	}

	if a.Ints == nil {
		return nil, fmt.Errorf("%w: have %s, want int64", errs.ErrArrayKind, a.Kind())
	}

	return a.Ints, nil
}

// Float64s returns the array flattened to a float64 vector.
//
// Integer arrays are widened; string arrays fail with ErrArrayKind.
func (a *Array) Float64s() ([]float64, error) {
	if !a.IsVector() {
		return nil, fmt.Errorf("%w: %dx%d, want vector", errs.ErrArrayShape, a.Rows, a.Cols)
	}

	if a.Floats != nil {
		return a.Floats, nil
	}

	if a.Ints != nil {
		out := make([]float64, len(a.Ints))
		for i, v := range a.Ints {
			out[i] = float64(v)
		}

		return out, nil
	}

	return nil, fmt.Errorf("%w: have %s, want float64", errs.ErrArrayKind, a.Kind())
}

// Column returns column j of a float64 matrix as a vector.
func (a *Array) Column(j int) ([]float64, error) {
	if a.Floats == nil {
		return nil, fmt.Errorf("%w: have %s, want float64", errs.ErrArrayKind, a.Kind())
	}

	if j < 0 || j >= a.Cols {
		return nil, fmt.Errorf("%w: column %d of %dx%d", errs.ErrArrayShape, j, a.Rows, a.Cols)
	}

	out := make([]float64, a.Rows)
	for i := 0; i < a.Rows; i++ {
		out[i] = a.Floats[i*a.Cols+j]
	}

	return out, nil
}

// Row returns row i of a float64 matrix as a vector.
func (a *Array) Row(i int) ([]float64, error) {
	if a.Floats == nil {
		return nil, fmt.Errorf("%w: have %s, want float64", errs.ErrArrayKind, a.Kind())
	}

	if i < 0 || i >= a.Rows {
		return nil, fmt.Errorf("%w: row %d of %dx%d", errs.ErrArrayShape, i, a.Rows, a.Cols)
	}

	return a.Floats[i*a.Cols : (i+1)*a.Cols], nil
}
