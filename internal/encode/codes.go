package encode

import (
	"fmt"
	"sort"
	"strings"

	"qstack/internal/circuit"
	"qstack/internal/pauli"
)

// Code describes one code family: its generators over block positions, the
// physical circuits that implement each logical gate, and the classical
// readout of a measured block.
type Code interface {
	Name() string
	// Size is the number of physical qubits per logical qubit.
	Size() int
	// Generators lists the stabilizers of a freshly prepared |0⟩ block.
	Generators() []pauli.String
	// Prepare is the encoding circuit run on a block of fresh |0⟩ qubits.
	Prepare(block []circuit.Qubit) []circuit.Instruction
	LogicalX(block []circuit.Qubit) []circuit.Instruction
	// Hadamard returns the logical H circuit. transversal is false when the
	// circuit spreads a single fault into an uncorrectable pattern.
	Hadamard(block []circuit.Qubit) (gates []circuit.Instruction, transversal bool)
	CX(ctl, tgt []circuit.Qubit) []circuit.Instruction
	// ReadoutBasis rotates a block so that a Z measurement of every qubit
	// reads the logical value.
	ReadoutBasis(block []circuit.Qubit) []circuit.Instruction
	// Readout maps frame-corrected block bits to the logical bit.
	Readout(bits []uint8) uint8
	// MaxWeight is the error weight the code corrects.
	MaxWeight() int
}

var codes = map[string]Code{}

func register(c Code) { codes[c.Name()] = c }

func init() {
	register(repetition{})
	register(phase{})
	register(steane{})
}

// Lookup finds a code family by name.
func Lookup(name string) (Code, error) {
	c, ok := codes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown code %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return c, nil
}

// Names lists registered codes in sorted order.
func Names() []string {
	out := make([]string, 0, len(codes))
	for name := range codes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func each(block []circuit.Qubit, gate func(circuit.Qubit) circuit.Instruction) []circuit.Instruction {
	out := make([]circuit.Instruction, len(block))
	for i, q := range block {
		out[i] = gate(q)
	}
	return out
}

func pairwise(a, b []circuit.Qubit, gate func(x, y circuit.Qubit) circuit.Instruction) []circuit.Instruction {
	out := make([]circuit.Instruction, len(a))
	for i := range a {
		out[i] = gate(a[i], b[i])
	}
	return out
}

func gens(ss ...string) []pauli.String {
	out := make([]pauli.String, len(ss))
	for i, s := range ss {
		out[i] = pauli.MustParse(s)
	}
	return out
}

func majority(bits []uint8) uint8 {
	ones := 0
	for _, b := range bits {
		ones += int(b & 1)
	}
	if 2*ones > len(bits) {
		return 1
	}
	return 0
}

// repetition is the three-qubit bit-flip code: |0⟩ → |000⟩, |1⟩ → |111⟩.
type repetition struct{}

func (repetition) Name() string               { return "repetition" }
func (repetition) Size() int                  { return 3 }
func (repetition) Generators() []pauli.String { return gens("ZZI", "ZIZ") }
func (repetition) MaxWeight() int             { return 1 }

func (repetition) Prepare([]circuit.Qubit) []circuit.Instruction { return nil }

func (repetition) LogicalX(b []circuit.Qubit) []circuit.Instruction {
	return each(b, circuit.X)
}

// Hadamard decodes onto the first qubit, rotates it and re-encodes.
func (repetition) Hadamard(b []circuit.Qubit) ([]circuit.Instruction, bool) {
	return []circuit.Instruction{
		circuit.CX(b[0], b[1]), circuit.CX(b[0], b[2]),
		circuit.H(b[0]),
		circuit.CX(b[0], b[1]), circuit.CX(b[0], b[2]),
	}, false
}

func (repetition) CX(c, t []circuit.Qubit) []circuit.Instruction {
	return pairwise(c, t, circuit.CX)
}

func (repetition) ReadoutBasis([]circuit.Qubit) []circuit.Instruction { return nil }

func (repetition) Readout(bits []uint8) uint8 { return majority(bits) }

// phase is the three-qubit phase-flip code: |0⟩ → |+++⟩, |1⟩ → |−−−⟩.
type phase struct{}

func (phase) Name() string               { return "phase" }
func (phase) Size() int                  { return 3 }
func (phase) Generators() []pauli.String { return gens("XXI", "XIX") }
func (phase) MaxWeight() int             { return 1 }

func (phase) Prepare(b []circuit.Qubit) []circuit.Instruction {
	return each(b, circuit.H)
}

func (phase) LogicalX(b []circuit.Qubit) []circuit.Instruction {
	return each(b, circuit.Z)
}

func (phase) Hadamard(b []circuit.Qubit) ([]circuit.Instruction, bool) {
	inner, _ := repetition{}.Hadamard(b)
	out := each(b, circuit.H)
	out = append(out, inner...)
	return append(out, each(b, circuit.H)...), false
}

// CX runs target to control on every pair: in the X basis a physical CX
// acts with its roles swapped.
func (phase) CX(c, t []circuit.Qubit) []circuit.Instruction {
	return pairwise(t, c, circuit.CX)
}

func (phase) ReadoutBasis(b []circuit.Qubit) []circuit.Instruction {
	return each(b, circuit.H)
}

func (phase) Readout(bits []uint8) uint8 { return majority(bits) }

// steane is the [[7,1,3]] CSS code built on the Hamming(7,4) code.
type steane struct{}

// hammingColumns[q] is the syndrome q flips under the three Z checks.
var hammingColumns = [7]uint8{0b100, 0b010, 0b001, 0b110, 0b101, 0b111, 0b011}

// steaneLogicalZ is the support of the logical Z operator.
var steaneLogicalZ = []int{1, 2, 6}

func (steane) Name() string { return "steane" }
func (steane) Size() int    { return 7 }
func (steane) Generators() []pauli.String {
	return gens(
		"XIIXXXI", "IXIXIXX", "IIXIXXX",
		"ZIIZZZI", "IZIZIZZ", "IIZIZZZ",
	)
}
func (steane) MaxWeight() int { return 1 }

func (steane) Prepare(b []circuit.Qubit) []circuit.Instruction {
	return []circuit.Instruction{
		circuit.H(b[0]), circuit.H(b[1]), circuit.H(b[2]),
		circuit.CX(b[6], b[3]), circuit.CX(b[6], b[4]),
		circuit.CX(b[0], b[3]), circuit.CX(b[0], b[4]), circuit.CX(b[0], b[5]),
		circuit.CX(b[1], b[3]), circuit.CX(b[1], b[5]), circuit.CX(b[1], b[6]),
		circuit.CX(b[2], b[4]), circuit.CX(b[2], b[5]), circuit.CX(b[2], b[6]),
	}
}

func (steane) LogicalX(b []circuit.Qubit) []circuit.Instruction {
	return []circuit.Instruction{circuit.X(b[3]), circuit.X(b[4]), circuit.X(b[6])}
}

func (steane) Hadamard(b []circuit.Qubit) ([]circuit.Instruction, bool) {
	return each(b, circuit.H), true
}

func (steane) CX(c, t []circuit.Qubit) []circuit.Instruction {
	return pairwise(c, t, circuit.CX)
}

func (steane) ReadoutBasis([]circuit.Qubit) []circuit.Instruction { return nil }

// Readout fixes at most one flipped bit with the Hamming checks, then takes
// the logical Z parity.
func (steane) Readout(bits []uint8) uint8 {
	var syn uint8
	for q, b := range bits {
		if b&1 == 1 {
			syn ^= hammingColumns[q]
		}
	}
	fixed := append([]uint8(nil), bits...)
	if syn != 0 {
		for q, col := range hammingColumns {
			if col == syn {
				fixed[q] ^= 1
				break
			}
		}
	}
	var out uint8
	for _, q := range steaneLogicalZ {
		out ^= fixed[q] & 1
	}
	return out
}
