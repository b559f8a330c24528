// Package linear implements the dense complex-valued substrate Formula
// samples into and SimulationEngine assembles its Hamiltonian from:
// fixed-length Vector and fixed-shape, row-major Matrix over
// complexnum.Complex.
package linear

import (
	"errors"

	"github.com/lucidwave/qsim-backend/core/complexnum"
)

// Sentinel errors, checked via errors.Is, in the pack's convention of
// one package-prefixed var per failure kind rather than ad hoc strings.
var (
	// ErrDimensionMismatch is returned by InnerProduct when the two
	// vectors have different lengths.
	ErrDimensionMismatch = errors.New("linear: dimension mismatch")
	// ErrIncompatibleSize is returned by Matrix.MulVector when the
	// matrix's column count doesn't match the vector's length.
	ErrIncompatibleSize = errors.New("linear: incompatible size")
)

// Vector is an ordered, fixed-length sequence of Complex. Length is
// immutable after construction; entries are mutable in place.
type Vector struct {
	entries []complexnum.Complex
}

// NewVector returns a zero-filled vector of the given length.
func NewVector(length int) *Vector {
	return &Vector{entries: make([]complexnum.Complex, length)}
}

// VectorFrom wraps an existing slice as a Vector without copying.
func VectorFrom(values []complexnum.Complex) *Vector {
	return &Vector{entries: values}
}

// Len returns the vector's fixed length.
func (v *Vector) Len() int {
	return len(v.entries)
}

// At returns the entry at index i.
func (v *Vector) At(i int) complexnum.Complex {
	return v.entries[i]
}

// Set overwrites the entry at index i.
func (v *Vector) Set(i int, value complexnum.Complex) {
	v.entries[i] = value
}

// Slice exposes the underlying entries for read-only iteration.
func (v *Vector) Slice() []complexnum.Complex {
	return v.entries
}

// Clone returns a deep copy.
func (v *Vector) Clone() *Vector {
	out := make([]complexnum.Complex, len(v.entries))
	copy(out, v.entries)
	return &Vector{entries: out}
}

// InnerProduct computes Σᵢ conj(selfᵢ)·otherᵢ — conjugate-linear in the
// receiver, linear in other. Fails with ErrDimensionMismatch if lengths
// differ.
func (v *Vector) InnerProduct(other *Vector) (complexnum.Complex, error) {
	if v.Len() != other.Len() {
		return complexnum.Zero, ErrDimensionMismatch
	}
	terms := make([]complexnum.Complex, v.Len())
	for i, value := range v.entries {
		terms[i] = value.Conjugate().Mul(other.entries[i])
	}
	return complexnum.Sum(terms), nil
}

// Scale multiplies every entry by s in place.
func (v *Vector) Scale(s complexnum.Complex) {
	for i, value := range v.entries {
		v.entries[i] = value.Mul(s)
	}
}

// ScaledBy returns a new Vector with every entry multiplied by s.
func (v *Vector) ScaledBy(s complexnum.Complex) *Vector {
	out := make([]complexnum.Complex, v.Len())
	for i, value := range v.entries {
		out[i] = value.Mul(s)
	}
	return &Vector{entries: out}
}

// Normalize divides by √⟨v,v⟩ in place. If that square root is zero the
// vector is left unchanged.
func (v *Vector) Normalize() {
	norm, _ := v.InnerProduct(v)
	length := norm.Sqrt()
	if length.IsZero() {
		return
	}
	v.Scale(length.Inverse())
}

// Add performs entry-wise addition in place. Panics on length
// mismatch — this is a programming error inside the engine, since both
// operands are always constructed at matching, internally-known sizes.
func (v *Vector) Add(other *Vector) {
	if v.Len() != other.Len() {
		panic("linear: Add on mismatched vector lengths")
	}
	for i, value := range v.entries {
		v.entries[i] = value.Add(other.entries[i])
	}
}

// Matrix is a fixed-shape, row-major dense buffer of Complex. Entry
// (i,j) lives at index i*columns+j.
type Matrix struct {
	rows, columns int
	entries       []complexnum.Complex
}

// NewMatrix returns a zero-filled rows×columns matrix.
func NewMatrix(rows, columns int) *Matrix {
	return &Matrix{rows: rows, columns: columns, entries: make([]complexnum.Complex, rows*columns)}
}

// Rows returns the row count.
func (m *Matrix) Rows() int { return m.rows }

// Columns returns the column count.
func (m *Matrix) Columns() int { return m.columns }

func (m *Matrix) index(i, j int) (int, bool) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.columns {
		return 0, false
	}
	return i*m.columns + j, true
}

// Get returns the entry at (i,j), or false if out of range.
func (m *Matrix) Get(i, j int) (complexnum.Complex, bool) {
	idx, ok := m.index(i, j)
	if !ok {
		return complexnum.Zero, false
	}
	return m.entries[idx], true
}

// Set writes the entry at (i,j) and reports whether it succeeded.
func (m *Matrix) Set(i, j int, value complexnum.Complex) bool {
	idx, ok := m.index(i, j)
	if !ok {
		return false
	}
	m.entries[idx] = value
	return true
}

// RowSlices returns each row as an independent slice view.
func (m *Matrix) RowSlices() [][]complexnum.Complex {
	rows := make([][]complexnum.Complex, m.rows)
	for i := 0; i < m.rows; i++ {
		rows[i] = m.entries[i*m.columns : (i+1)*m.columns]
	}
	return rows
}

// MulVector computes the matrix-vector product, yielding a Vector of
// length m.rows. Fails with ErrIncompatibleSize if m.columns != v.Len().
func (m *Matrix) MulVector(v *Vector) (*Vector, error) {
	if m.columns != v.Len() {
		return nil, ErrIncompatibleSize
	}
	product := NewVector(m.rows)
	for row := 0; row < m.rows; row++ {
		terms := make([]complexnum.Complex, m.columns)
		for column := 0; column < m.columns; column++ {
			entry, _ := m.Get(row, column)
			terms[column] = entry.Mul(v.At(column))
		}
		product.Set(row, complexnum.Sum(terms))
	}
	return product, nil
}

// Identity returns the n×n identity matrix.
func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, complexnum.FromReal(1))
	}
	return m
}
