package simulation

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNotSymmetric is returned when the input matrix fails the
// symmetry check within tolerance.
var ErrNotSymmetric = errors.New("simulation: matrix is not symmetric")

// ErrEigenFailed is returned if a Jacobi sweep does not converge
// within the configured iteration budget.
var ErrEigenFailed = errors.New("simulation: eigen decomposition did not converge")

// Eigensolver is the abstract dense real-symmetric eigensolver
// collaborator: it accepts a real symmetric dense N×N matrix and
// returns N real eigenvalues together with an orthonormal basis of N
// real eigenvectors, ascending-sorted by eigenvalue. The engine
// depends only on this interface, never on a concrete algorithm.
type Eigensolver interface {
	Solve(h [][]float64) (eigenvalues []float64, eigenvectors [][]float64, err error)
}

// JacobiEigensolver is the engine's default Eigensolver, implementing
// the classical (largest-pivot) Jacobi rotation method: repeatedly
// zeroing the largest off-diagonal entry until all off-diagonal mass
// falls below Tolerance, then reading eigenvalues off the diagonal
// and eigenvectors off the accumulated rotation matrix.
type JacobiEigensolver struct {
	Tolerance     float64
	MaxIterations int
}

// NewJacobiEigensolver returns a JacobiEigensolver configured with
// defaults suited to the grid sizes this engine works with (N in the
// low hundreds): a tight convergence tolerance and a generous sweep
// budget.
func NewJacobiEigensolver() *JacobiEigensolver {
	return &JacobiEigensolver{Tolerance: 1e-9, MaxIterations: 10000}
}

// Solve runs the Jacobi sweep to convergence and returns eigenpairs
// sorted ascending by eigenvalue — the one contract addition the core
// makes beyond the raw algorithm, since the diagonal of the converged
// working matrix comes out in whatever order the rotations left it.
func (s *JacobiEigensolver) Solve(h [][]float64) ([]float64, [][]float64, error) {
	n := len(h)
	for _, row := range h {
		if len(row) != n {
			return nil, nil, fmt.Errorf("simulation: non-square %dx%d matrix", n, len(row))
		}
	}

	a := make([][]float64, n)
	for i := range h {
		a[i] = append([]float64(nil), h[i]...)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if math.Abs(a[i][j]-a[j][i]) > s.Tolerance {
				return nil, nil, ErrNotSymmetric
			}
		}
	}

	q := make([][]float64, n)
	for i := range q {
		q[i] = make([]float64, n)
		q[i][i] = 1
	}

	converged := false
	for iter := 0; iter < s.MaxIterations; iter++ {
		p, qi, maxOff := 0, 0, 0.0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if off := math.Abs(a[i][j]); off > maxOff {
					maxOff = off
					p, qi = i, j
				}
			}
		}
		if maxOff < s.Tolerance {
			converged = true
			break
		}

		app, aqq, apq := a[p][p], a[qi][qi], a[p][qi]
		theta := (aqq - app) / (2 * apq)
		t := math.Copysign(1.0/(math.Abs(theta)+math.Sqrt(theta*theta+1)), theta)
		c := 1.0 / math.Sqrt(t*t+1)
		sn := t * c

		for i := 0; i < n; i++ {
			if i != p && i != qi {
				aip, aiq := a[i][p], a[i][qi]
				a[i][p], a[p][i] = c*aip-sn*aiq, c*aip-sn*aiq
				a[i][qi], a[qi][i] = sn*aip+c*aiq, sn*aip+c*aiq
			}
		}
		a[p][p] = c*c*app - 2*c*sn*apq + sn*sn*aqq
		a[qi][qi] = sn*sn*app + 2*c*sn*apq + c*c*aqq
		a[p][qi] = 0
		a[qi][p] = 0

		for i := 0; i < n; i++ {
			qip, qiq := q[i][p], q[i][qi]
			q[i][p] = c*qip - sn*qiq
			q[i][qi] = sn*qip + c*qiq
		}
	}
	if !converged {
		return nil, nil, ErrEigenFailed
	}

	eigenvalues := make([]float64, n)
	for i := 0; i < n; i++ {
		eigenvalues[i] = a[i][i]
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return eigenvalues[order[i]] < eigenvalues[order[j]] })

	sortedValues := make([]float64, n)
	sortedVectors := make([][]float64, n)
	for rank, idx := range order {
		sortedValues[rank] = eigenvalues[idx]
		vector := make([]float64, n)
		for row := 0; row < n; row++ {
			vector[row] = q[row][idx]
		}
		sortedVectors[rank] = vector
	}
	return sortedValues, sortedVectors, nil
}
