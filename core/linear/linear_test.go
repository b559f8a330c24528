package linear

import (
	"errors"
	"math"
	"testing"

	"github.com/lucidwave/qsim-backend/core/complexnum"
)

func approxEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestNormalizeUnitNorm(t *testing.T) {
	v := VectorFrom([]complexnum.Complex{
		complexnum.New(3, 0),
		complexnum.New(4, 0),
	})
	v.Normalize()
	norm, _ := v.InnerProduct(v)
	if !approxEqual(norm.Real, 1) || !approxEqual(norm.Imag, 0) {
		t.Fatalf("normalized inner product = %v, want 1", norm)
	}
}

func TestNormalizeZeroVectorUnchanged(t *testing.T) {
	v := NewVector(3)
	v.Normalize()
	for i := 0; i < v.Len(); i++ {
		if !v.At(i).IsZero() {
			t.Fatalf("zero vector changed after normalize: %v", v.Slice())
		}
	}
}

func TestInnerProductConjugateSymmetry(t *testing.T) {
	v := VectorFrom([]complexnum.Complex{complexnum.New(1, 2), complexnum.New(-1, 3)})
	w := VectorFrom([]complexnum.Complex{complexnum.New(2, -1), complexnum.New(0, 1)})

	vw, err := v.InnerProduct(w)
	if err != nil {
		t.Fatal(err)
	}
	wv, err := w.InnerProduct(v)
	if err != nil {
		t.Fatal(err)
	}
	conjWV := wv.Conjugate()
	if !approxEqual(vw.Real, conjWV.Real) || !approxEqual(vw.Imag, conjWV.Imag) {
		t.Fatalf("<v,w> = %v, want conj(<w,v>) = %v", vw, conjWV)
	}
}

func TestInnerProductDimensionMismatch(t *testing.T) {
	v := NewVector(2)
	w := NewVector(3)
	if _, err := v.InnerProduct(w); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestMatrixVectorIdentity(t *testing.T) {
	id := Identity(3)
	v := VectorFrom([]complexnum.Complex{complexnum.New(1, 1), complexnum.New(2, -2), complexnum.New(0, 3)})
	product, err := id.MulVector(v)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < v.Len(); i++ {
		if product.At(i) != v.At(i) {
			t.Fatalf("identity*v differs at %d: got %v, want %v", i, product.At(i), v.At(i))
		}
	}
}

func TestMatrixVectorIncompatibleSize(t *testing.T) {
	m := NewMatrix(2, 3)
	v := NewVector(2)
	if _, err := m.MulVector(v); !errors.Is(err, ErrIncompatibleSize) {
		t.Fatalf("got %v, want ErrIncompatibleSize", err)
	}
}

func TestMatrixGetSetOutOfRange(t *testing.T) {
	m := NewMatrix(2, 2)
	if _, ok := m.Get(5, 0); ok {
		t.Fatal("Get out of range should fail")
	}
	if m.Set(5, 0, complexnum.FromReal(1)) {
		t.Fatal("Set out of range should fail")
	}
}

func TestAddEntrywise(t *testing.T) {
	v := VectorFrom([]complexnum.Complex{complexnum.New(1, 0), complexnum.New(2, 0)})
	w := VectorFrom([]complexnum.Complex{complexnum.New(1, 1), complexnum.New(1, -1)})
	v.Add(w)
	if v.At(0) != complexnum.New(2, 1) || v.At(1) != complexnum.New(3, -1) {
		t.Fatalf("Add produced %v", v.Slice())
	}
}
