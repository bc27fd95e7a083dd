// Package pauli implements the single-qubit Pauli group with phases and
// Pauli strings over a register.
//
// # Model
//
// A Pauli carries a phase quadrant (0:+1, 1:+i, 2:-1, 3:-i) and an (x, z)
// bit pair selecting I, X, Y or Z. The sixteen values are closed under Mul,
// and Mul is exact, so it is associative with phases included.
//
// A String is one Pauli per qubit. Stabilizer generators, error patterns and
// accumulated corrections are all Strings.
//
// # Conjugation
//
// The By* methods conjugate a String in place. Phases stay on their
// position and a two-qubit sign lands on the first operand, so callers that
// compare strings should Normalize first.
//
// # Failure model
//
// The algebra is total. A combination the product table does not cover is an
// internal error and panics.
package pauli
