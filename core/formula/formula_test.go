package formula

import (
	"errors"
	"math"
	"testing"

	"github.com/lucidwave/qsim-backend/core/complexnum"
)

func approxEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func evalAt(t *testing.T, expr string, input float32) complexnum.Complex {
	t.Helper()
	f, err := Parse(expr)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", expr, err)
	}
	value, err := f.Evaluate(complexnum.FromReal(input))
	if err != nil {
		t.Fatalf("Evaluate(%q) failed: %v", expr, err)
	}
	return value
}

func TestVariableIdentity(t *testing.T) {
	for _, x := range []float32{-3, 0, 2.5, 100} {
		got := evalAt(t, "x", x)
		if !approxEqual(got.Real, x) || !approxEqual(got.Imag, 0) {
			t.Fatalf("x @ %v = %v, want %v+0i", x, got, x)
		}
	}
}

func TestSumBeforeProduct(t *testing.T) {
	got := evalAt(t, "2+3*4", 0)
	if !approxEqual(got.Real, 14) {
		t.Fatalf("2+3*4 = %v, want 14", got)
	}
}

func TestExponentRightAssociative(t *testing.T) {
	got := evalAt(t, "2^3^2", 0)
	if !approxEqual(got.Real, 512) {
		t.Fatalf("2^3^2 = %v, want 512", got)
	}
}

func TestSubtractionLeftAssociative(t *testing.T) {
	got := evalAt(t, "10-3-2", 0)
	if !approxEqual(got.Real, 5) {
		t.Fatalf("10-3-2 = %v, want 5", got)
	}
}

func TestImplicitMultiplicationWithBrackets(t *testing.T) {
	got := evalAt(t, "2(3+4)", 0)
	if !approxEqual(got.Real, 14) {
		t.Fatalf("2(3+4) = %v, want 14", got)
	}
}

func TestImplicitMultiplicationVariable(t *testing.T) {
	got := evalAt(t, "2x", 5)
	if !approxEqual(got.Real, 10) {
		t.Fatalf("2x @ x=5 = %v, want 10", got)
	}
}

func TestImplicitMultiplicationBeforeExponent(t *testing.T) {
	got := evalAt(t, "2x^3", 2)
	if !approxEqual(got.Real, 16) {
		t.Fatalf("2x^3 @ x=2 = %v, want 16", got)
	}
}

func TestLeadingUnaryMinus(t *testing.T) {
	got := evalAt(t, "-x", 7)
	if !approxEqual(got.Real, -7) {
		t.Fatalf("-x @ x=7 = %v, want -7", got)
	}
}

func TestUnmatchedClosingBracket(t *testing.T) {
	_, err := Parse("(2+3))")
	if !errors.Is(err, ErrUnmatchedBrackets) {
		t.Fatalf("got %v, want ErrUnmatchedBrackets", err)
	}
}

func TestUnmatchedOpeningBracket(t *testing.T) {
	_, err := Parse("(2+3")
	if !errors.Is(err, ErrUnmatchedBrackets) {
		t.Fatalf("got %v, want ErrUnmatchedBrackets", err)
	}
}

func TestTrailingOperator(t *testing.T) {
	_, err := Parse("2+")
	if !errors.Is(err, ErrTrailingOperator) {
		t.Fatalf("got %v, want ErrTrailingOperator", err)
	}
}

func TestDivisionByZero(t *testing.T) {
	f, err := Parse("1/0")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	_, err = f.Evaluate(complexnum.Zero)
	if !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("got %v, want ErrDivisionByZero", err)
	}
}

func TestSinCosAtZero(t *testing.T) {
	got := evalAt(t, "sin(x)+cos(x)", 0)
	if !approxEqual(got.Real, 1) || !approxEqual(got.Imag, 0) {
		t.Fatalf("sin(x)+cos(x) @ 0 = %v, want 1+0i", got)
	}
}

func TestImaginaryUnitSquared(t *testing.T) {
	f, err := Parse("i^2")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	got, err := f.EvaluateMultivariable(map[rune]complexnum.Complex{'i': complexnum.IUnit})
	if err != nil {
		t.Fatalf("EvaluateMultivariable failed: %v", err)
	}
	if !approxEqual(got.Real, -1) || !approxEqual(got.Imag, 0) {
		t.Fatalf("i^2 = %v, want -1+0i", got)
	}
}

func TestMissingVariableInEnvironment(t *testing.T) {
	f, err := Parse("y")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	_, err = f.EvaluateMultivariable(map[rune]complexnum.Complex{'x': complexnum.Zero})
	if !errors.Is(err, ErrMissingVariable) {
		t.Fatalf("got %v, want ErrMissingVariable", err)
	}
}

func TestInvalidCharacter(t *testing.T) {
	_, err := Parse("2@3")
	if !errors.Is(err, ErrInvalidCharacter) {
		t.Fatalf("got %v, want ErrInvalidCharacter", err)
	}
}

func TestComplexPhaseAtMomentumZero(t *testing.T) {
	phase := ComplexPhase(0)
	got, err := phase.EvaluateMultivariable(map[rune]complexnum.Complex{
		'x': complexnum.FromReal(3),
		'i': complexnum.IUnit,
	})
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if !approxEqual(got.Real, 1) || !approxEqual(got.Imag, 0) {
		t.Fatalf("complex_phase(0) @ x=3 = %v, want 1+0i", got)
	}
}

func TestAdjoinCombinesRoots(t *testing.T) {
	a, err := Parse("x")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse("1")
	if err != nil {
		t.Fatal(err)
	}
	combined := a.Adjoin(b, '+')
	got, err := combined.Evaluate(complexnum.FromReal(4))
	if err != nil {
		t.Fatal(err)
	}
	if !approxEqual(got.Real, 5) {
		t.Fatalf("adjoin(x,1,+) @ x=4 = %v, want 5", got)
	}
}

func TestGetVectorSwallowsPerSampleErrors(t *testing.T) {
	f, err := Parse("1/x")
	if err != nil {
		t.Fatal(err)
	}
	vector := f.GetVector(-1, 1, 8)
	if vector.Len() != 8 {
		t.Fatalf("GetVector length = %d, want 8", vector.Len())
	}
	for i := 0; i < vector.Len(); i++ {
		v := vector.At(i)
		if math.IsNaN(float64(v.Real)) || math.IsInf(float64(v.Real), 0) {
			t.Fatalf("entry %d not swallowed to a finite value: %v", i, v)
		}
	}
}

func TestParseCachedReturnsSameTree(t *testing.T) {
	a, err := ParseCached("x+1")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseCached("x+1")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("ParseCached returned different trees for the same input: %p vs %p", a, b)
	}
	va, _ := a.Evaluate(complexnum.FromReal(2))
	vb, _ := b.Evaluate(complexnum.FromReal(2))
	if va != vb {
		t.Fatalf("cached parses diverged: %v vs %v", va, vb)
	}
}
