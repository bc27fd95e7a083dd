package sim

import (
	"fmt"
	"math/rand/v2"
)

// Tableau is an Aaronson-Gottesman stabilizer state over n qubits.
//
// Rows 0..n-1 are destabilizers, rows n..2n-1 stabilizers, row 2n is
// scratch for deterministic measurements. Each row packs its X and Z bits
// into words.
type Tableau struct {
	n     int
	words int
	x     [][]uint64
	z     [][]uint64
	r     []uint8
	rng   *rand.Rand
}

// NewTableau returns |0...0⟩ on n qubits. rng drives measurement outcomes.
func NewTableau(n int, rng *rand.Rand) *Tableau {
	words := (n + 63) / 64
	t := &Tableau{
		n:     n,
		words: words,
		x:     make([][]uint64, 2*n+1),
		z:     make([][]uint64, 2*n+1),
		r:     make([]uint8, 2*n+1),
		rng:   rng,
	}
	for i := range t.x {
		t.x[i] = make([]uint64, words)
		t.z[i] = make([]uint64, words)
	}
	for i := 0; i < n; i++ {
		setBit(t.x[i], i, true)
		setBit(t.z[n+i], i, true)
	}
	return t
}

// Qubits is the register width.
func (t *Tableau) Qubits() int { return t.n }

func bit(row []uint64, q int) bool { return row[q>>6]>>(q&63)&1 == 1 }

func setBit(row []uint64, q int, v bool) {
	mask := uint64(1) << (q & 63)
	if v {
		row[q>>6] |= mask
	} else {
		row[q>>6] &^= mask
	}
}

func b2u(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}

func (t *Tableau) check(qs ...int) {
	for _, q := range qs {
		if q < 0 || q >= t.n {
			panic(fmt.Sprintf("sim: qubit %d outside register of %d", q, t.n))
		}
	}
}

// H applies a Hadamard.
func (t *Tableau) H(a int) {
	t.check(a)
	for i := 0; i < 2*t.n; i++ {
		xa, za := bit(t.x[i], a), bit(t.z[i], a)
		t.r[i] ^= b2u(xa && za)
		setBit(t.x[i], a, za)
		setBit(t.z[i], a, xa)
	}
}

// S applies the phase gate.
func (t *Tableau) S(a int) {
	t.check(a)
	for i := 0; i < 2*t.n; i++ {
		xa, za := bit(t.x[i], a), bit(t.z[i], a)
		t.r[i] ^= b2u(xa && za)
		setBit(t.z[i], a, za != xa)
	}
}

// Sdg applies S†.
func (t *Tableau) Sdg(a int) {
	t.S(a)
	t.S(a)
	t.S(a)
}

// X applies a Pauli X: stabilizers with a Z component flip sign.
func (t *Tableau) X(a int) {
	t.check(a)
	for i := 0; i < 2*t.n; i++ {
		t.r[i] ^= b2u(bit(t.z[i], a))
	}
}

// Z applies a Pauli Z.
func (t *Tableau) Z(a int) {
	t.check(a)
	for i := 0; i < 2*t.n; i++ {
		t.r[i] ^= b2u(bit(t.x[i], a))
	}
}

// Y applies a Pauli Y.
func (t *Tableau) Y(a int) {
	t.check(a)
	for i := 0; i < 2*t.n; i++ {
		t.r[i] ^= b2u(bit(t.x[i], a) != bit(t.z[i], a))
	}
}

// CX applies a controlled X from a to b.
func (t *Tableau) CX(a, b int) {
	t.check(a, b)
	if a == b {
		panic(fmt.Sprintf("sim: cx on qubit %d twice", a))
	}
	for i := 0; i < 2*t.n; i++ {
		xa, za := bit(t.x[i], a), bit(t.z[i], a)
		xb, zb := bit(t.x[i], b), bit(t.z[i], b)
		t.r[i] ^= b2u(xa && zb && (xb == za))
		setBit(t.x[i], b, xb != xa)
		setBit(t.z[i], a, za != zb)
	}
}

// CZ applies a controlled Z.
func (t *Tableau) CZ(a, b int) {
	t.H(b)
	t.CX(a, b)
	t.H(b)
}

// CY applies a controlled Y from a to b.
func (t *Tableau) CY(a, b int) {
	t.Sdg(b)
	t.CX(a, b)
	t.S(b)
}

// g is the exponent of i picked up when multiplying Pauli (x1,z1) into
// (x2,z2).
func g(x1, z1, x2, z2 bool) int {
	switch {
	case !x1 && !z1:
		return 0
	case x1 && z1:
		return int(b2u(z2)) - int(b2u(x2))
	case x1:
		if !z2 {
			return 0
		}
		if x2 {
			return 1
		}
		return -1
	default:
		if !x2 {
			return 0
		}
		if z2 {
			return -1
		}
		return 1
	}
}

// rowsum multiplies row i into row h.
func (t *Tableau) rowsum(h, i int) {
	sum := 2*int(t.r[h]) + 2*int(t.r[i])
	for j := 0; j < t.n; j++ {
		sum += g(bit(t.x[i], j), bit(t.z[i], j), bit(t.x[h], j), bit(t.z[h], j))
	}
	sum %= 4
	if sum < 0 {
		sum += 4
	}
	t.r[h] = b2u(sum != 0)
	for w := 0; w < t.words; w++ {
		t.x[h][w] ^= t.x[i][w]
		t.z[h][w] ^= t.z[i][w]
	}
}

func (t *Tableau) copyRow(dst, src int) {
	copy(t.x[dst], t.x[src])
	copy(t.z[dst], t.z[src])
	t.r[dst] = t.r[src]
}

func (t *Tableau) clearRow(i int) {
	clear(t.x[i])
	clear(t.z[i])
	t.r[i] = 0
}

// Measure measures a in the Z basis and collapses the state.
func (t *Tableau) Measure(a int) uint8 {
	t.check(a)
	n := t.n
	p := -1
	for i := n; i < 2*n; i++ {
		if bit(t.x[i], a) {
			p = i
			break
		}
	}
	if p >= 0 {
		for i := 0; i < 2*n; i++ {
			if i != p && bit(t.x[i], a) {
				t.rowsum(i, p)
			}
		}
		t.copyRow(p-n, p)
		t.clearRow(p)
		setBit(t.z[p], a, true)
		t.r[p] = uint8(t.rng.Uint32() & 1)
		return t.r[p]
	}
	scratch := 2 * n
	t.clearRow(scratch)
	for i := 0; i < n; i++ {
		if bit(t.x[i], a) {
			t.rowsum(scratch, i+n)
		}
	}
	return t.r[scratch]
}

// Deterministic reports whether measuring a would give a fixed result.
func (t *Tableau) Deterministic(a int) bool {
	t.check(a)
	for i := t.n; i < 2*t.n; i++ {
		if bit(t.x[i], a) {
			return false
		}
	}
	return true
}

// Reset measures a and flips it back to |0⟩.
func (t *Tableau) Reset(a int) {
	if t.Measure(a) == 1 {
		t.X(a)
	}
}
