package simulation

import "github.com/lucidwave/qsim-backend/core/linear"

// BuildHamiltonian assembles the discretized Hamiltonian for a
// potential sampled at N grid points: Hᵢᵢ = 2 + Re(Vᵢ),
// Hᵢ,ᵢ₋₁ = Hᵢ,ᵢ₊₁ = −1, zero elsewhere. Units are ħ=1, m=1/2, with
// the lattice spacing absorbed into the kinetic constant, so the
// tridiagonal structure is independent of grid spacing.
func BuildHamiltonian(potential *linear.Vector) [][]float64 {
	n := potential.Len()
	h := make([][]float64, n)
	for i := range h {
		h[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		h[i][i] = 2 + float64(potential.At(i).Real)
		if i > 0 {
			h[i][i-1] = -1
		}
		if i < n-1 {
			h[i][i+1] = -1
		}
	}
	return h
}
