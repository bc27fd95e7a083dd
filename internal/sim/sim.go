package sim

import (
	"context"
	"fmt"
	"math/rand/v2"

	"fortio.org/safecast"

	"qstack/internal/circuit"
	"qstack/internal/pauli"
)

// Noise is a depolarizing error model. Each probability is per operation.
type Noise struct {
	// Gate1 applies a uniform X, Y or Z after a single-qubit gate.
	Gate1 float64 `toml:"gate1"`
	// Gate2 applies a uniform non-identity two-qubit Pauli after a
	// two-qubit gate.
	Gate2 float64 `toml:"gate2"`
	// Measure flips a classical readout.
	Measure float64 `toml:"measure"`
	// Prepare flips a freshly prepared qubit.
	Prepare float64 `toml:"prepare"`
}

// Zero reports whether the model never fires.
func (n Noise) Zero() bool {
	return n.Gate1 == 0 && n.Gate2 == 0 && n.Measure == 0 && n.Prepare == 0
}

// Validate checks that every probability lies in [0, 1].
func (n Noise) Validate() error {
	for name, p := range map[string]float64{"gate1": n.Gate1, "gate2": n.Gate2, "measure": n.Measure, "prepare": n.Prepare} {
		if p < 0 || p > 1 {
			return fmt.Errorf("noise %s = %v outside [0, 1]", name, p)
		}
	}
	return nil
}

// Injection applies a fixed Pauli after instruction After has executed.
// After = -1 injects before the first instruction.
type Injection struct {
	After int
	Qubit circuit.Qubit
	Pauli pauli.Pauli
}

// Simulator executes instruction lists on a fresh tableau per shot.
type Simulator struct {
	Noise  Noise
	Inject []Injection
	// Seed is combined with the shot number so each shot has its own
	// reproducible stream.
	Seed uint64
}

// Run executes list on qubits fresh qubits and returns one bit per
// register.
func (s *Simulator) Run(ctx context.Context, list []circuit.Instruction, qubits, registers int, shot uint64) ([]uint8, error) {
	rng := rand.New(rand.NewPCG(s.Seed, shot))
	t := NewTableau(qubits, rng)
	out := make([]uint8, registers)
	written := make([]bool, registers)

	inject := func(after int) {
		for _, inj := range s.Inject {
			if inj.After == after {
				t.applyPauli(int(inj.Qubit), inj.Pauli)
			}
		}
	}
	inject(-1)
	for i, in := range list {
		if i&1023 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if err := s.step(t, rng, in, out, written); err != nil {
			return nil, fmt.Errorf("instruction %d (%s): %w", i, in, err)
		}
		inject(i)
	}
	for r, ok := range written {
		if !ok {
			return nil, fmt.Errorf("register %d never written", r)
		}
	}
	return out, nil
}

func (s *Simulator) step(t *Tableau, rng *rand.Rand, in circuit.Instruction, out []uint8, written []bool) error {
	if err := in.Validate(); err != nil {
		return err
	}
	qs := make([]int, len(in.Targets))
	for i, q := range in.Targets {
		v, err := safecast.Conv[int](q)
		if err != nil {
			return err
		}
		if v >= t.Qubits() {
			return fmt.Errorf("qubit %d outside register of %d", v, t.Qubits())
		}
		qs[i] = v
	}

	switch in.Kind {
	case circuit.KindPrepare:
		t.Reset(qs[0])
		if hit(rng, s.Noise.Prepare) {
			t.X(qs[0])
		}
	case circuit.KindMeasure:
		r, err := safecast.Conv[int](in.Register)
		if err != nil {
			return err
		}
		if r >= len(out) {
			return fmt.Errorf("register %s outside %d registers", in.Register, len(out))
		}
		b := t.Measure(qs[0])
		if hit(rng, s.Noise.Measure) {
			b ^= 1
		}
		out[r] = b
		written[r] = true
	case circuit.KindGate1:
		if err := gate1(t, in.Name, qs[0]); err != nil {
			return err
		}
		if hit(rng, s.Noise.Gate1) {
			t.applyPauli(qs[0], randomPauli(rng))
		}
	case circuit.KindGate2:
		if err := gate2(t, in.Name, qs[0], qs[1]); err != nil {
			return err
		}
		if hit(rng, s.Noise.Gate2) {
			// 15 non-identity pairs: pick 1..15 and split into two letters.
			k := 1 + rng.IntN(15)
			t.applyPauli(qs[0], paulis[k/4])
			t.applyPauli(qs[1], paulis[k%4])
		}
	default:
		return fmt.Errorf("unknown instruction kind %s", in.Kind)
	}
	return nil
}

var paulis = [4]pauli.Pauli{pauli.I, pauli.X, pauli.Y, pauli.Z}

func hit(rng *rand.Rand, p float64) bool {
	return p > 0 && rng.Float64() < p
}

func randomPauli(rng *rand.Rand) pauli.Pauli {
	return paulis[1+rng.IntN(3)]
}

func gate1(t *Tableau, name string, q int) error {
	switch name {
	case circuit.GateH:
		t.H(q)
	case circuit.GateX:
		t.X(q)
	case circuit.GateY:
		t.Y(q)
	case circuit.GateZ:
		t.Z(q)
	case circuit.GateS:
		t.S(q)
	default:
		return fmt.Errorf("unsupported gate %q", name)
	}
	return nil
}

func gate2(t *Tableau, name string, a, b int) error {
	switch name {
	case circuit.GateCX:
		t.CX(a, b)
	case circuit.GateCY:
		t.CY(a, b)
	case circuit.GateCZ:
		t.CZ(a, b)
	default:
		return fmt.Errorf("unsupported gate %q", name)
	}
	return nil
}

func (t *Tableau) applyPauli(q int, p pauli.Pauli) {
	switch {
	case p.HasX() && p.HasZ():
		t.Y(q)
	case p.HasX():
		t.X(q)
	case p.HasZ():
		t.Z(q)
	}
}
