package pauli

import "fmt"

// Pauli is a single-qubit Pauli operator with one of four phases.
//
// The zero value is the identity with phase +1.
type Pauli struct {
	phase uint8 // quadrant: 0:+1, 1:+i, 2:-1, 3:-i
	x     bool
	z     bool
}

var (
	I = Pauli{}
	X = Pauli{x: true}
	Y = Pauli{x: true, z: true}
	Z = Pauli{z: true}
)

// New builds a Pauli from a phase quadrant and its x/z bits.
func New(phase uint8, x, z bool) Pauli {
	return Pauli{phase: phase % 4, x: x, z: z}
}

// Phase returns the phase quadrant (0:+1, 1:+i, 2:-1, 3:-i).
func (p Pauli) Phase() uint8 { return p.phase }

// HasX reports whether the operator carries an X component (X or Y).
func (p Pauli) HasX() bool { return p.x }

// HasZ reports whether the operator carries a Z component (Z or Y).
func (p Pauli) HasZ() bool { return p.z }

// IsIdentity reports whether p is I up to phase.
func (p Pauli) IsIdentity() bool { return !p.x && !p.z }

// Negative reports whether the phase is -1 or -i.
func (p Pauli) Negative() bool { return p.phase >= 2 }

// WithPhase returns p with its phase quadrant replaced.
func (p Pauli) WithPhase(phase uint8) Pauli {
	p.phase = phase % 4
	return p
}

// Abs strips the phase, leaving the bare operator.
func Abs(p Pauli) Pauli {
	p.phase = 0
	return p
}

// axis returns 0..3 for I, X, Y, Z.
func (p Pauli) axis() int {
	switch {
	case !p.x && !p.z:
		return 0
	case p.x && !p.z:
		return 1
	case p.x && p.z:
		return 2
	default:
		return 3
	}
}

// Mul returns the product a·b.
//
// Equal bare axes collapse to I and identities pass the other operand
// through; phases add mod 4 in both cases. Distinct axes give the third
// axis with an extra +i for the cyclic order X→Y→Z→X and -i for the
// reverse order.
func Mul(a, b Pauli) Pauli {
	phase := a.phase + b.phase
	switch {
	case a.IsIdentity():
		return New(phase, b.x, b.z)
	case b.IsIdentity():
		return New(phase, a.x, a.z)
	case a.x == b.x && a.z == b.z:
		return New(phase, false, false)
	}
	switch [2]int{a.axis(), b.axis()} {
	case [2]int{1, 2}: // XY = iZ
		return New(phase+1, false, true)
	case [2]int{2, 3}: // YZ = iX
		return New(phase+1, true, false)
	case [2]int{3, 1}: // ZX = iY
		return New(phase+1, true, true)
	case [2]int{2, 1}: // YX = -iZ
		return New(phase+3, false, true)
	case [2]int{3, 2}: // ZY = -iX
		return New(phase+3, true, false)
	case [2]int{1, 3}: // XZ = -iY
		return New(phase+3, true, true)
	}
	panic(fmt.Sprintf("pauli: missing product case %v * %v", a, b))
}

// Commutes reports whether a and b commute.
func Commutes(a, b Pauli) bool {
	return a == b || a.IsIdentity() || b.IsIdentity() || Abs(a) == Abs(b)
}

var phasePrefix = [4]string{"", "i", "-", "-i"}

// Letter returns the bare operator letter.
func (p Pauli) Letter() byte {
	return "IXYZ"[p.axis()]
}

func (p Pauli) String() string {
	return phasePrefix[p.phase] + string(p.Letter())
}

// FromLetter maps an operator letter to the bare operator. Lowercase x/y/z
// and '_' for the identity are accepted; lowercase i is reserved for phases.
func FromLetter(c byte) (Pauli, bool) {
	switch c {
	case 'I', '_':
		return I, true
	case 'X', 'x':
		return X, true
	case 'Y', 'y':
		return Y, true
	case 'Z', 'z':
		return Z, true
	}
	return I, false
}
