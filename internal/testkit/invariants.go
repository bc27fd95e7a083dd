package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"qstack/internal/circuit"
	"qstack/internal/gadget"
)

// CheckGadgetInvariants runs structural checks on a composed gadget over a
// register of qubits:
//   - every instruction is well formed and inside the register
//   - every qubit is prepared at most once, in the Prepare phase
//   - no instruction touches a qubit after it was measured
//   - registers are written once each and numbered densely
//   - the decoder width matches the measured bits
func CheckGadgetInvariants(g gadget.Gadget, qubits int) error {
	limit, err := safecast.Conv[uint32](qubits)
	if err != nil {
		return fmt.Errorf("register width: %w", err)
	}
	if err := g.Validate(); err != nil {
		return err
	}

	prepared := make(map[circuit.Qubit]bool)
	measured := make(map[circuit.Qubit]bool)
	registers := make(map[circuit.Register]bool)
	check := func(phase string, i int, in circuit.Instruction) error {
		if err := in.Validate(); err != nil {
			return fmt.Errorf("%s[%d]: %w", phase, i, err)
		}
		for _, q := range in.Targets {
			if uint32(q) >= limit {
				return fmt.Errorf("%s[%d] %s: qubit %d outside register of %d", phase, i, in, q, qubits)
			}
			if measured[q] {
				return fmt.Errorf("%s[%d] %s: qubit %d used after measurement", phase, i, in, q)
			}
		}
		return nil
	}

	for i, in := range g.Prepare {
		if err := check("prepare", i, in); err != nil {
			return err
		}
		if in.Kind != circuit.KindPrepare {
			return fmt.Errorf("prepare[%d] %s: not a prepare", i, in)
		}
		if prepared[in.Targets[0]] {
			return fmt.Errorf("prepare[%d]: qubit %d prepared twice", i, in.Targets[0])
		}
		prepared[in.Targets[0]] = true
	}
	for i, in := range g.Compute {
		if err := check("compute", i, in); err != nil {
			return err
		}
		if in.Kind != circuit.KindGate1 && in.Kind != circuit.KindGate2 {
			return fmt.Errorf("compute[%d] %s: not a gate", i, in)
		}
		for _, q := range in.Targets {
			if !prepared[q] {
				return fmt.Errorf("compute[%d] %s: qubit %d never prepared", i, in, q)
			}
		}
	}
	for i, in := range g.Measure {
		if err := check("measure", i, in); err != nil {
			return err
		}
		if in.Kind != circuit.KindMeasure {
			return fmt.Errorf("measure[%d] %s: not a measurement", i, in)
		}
		if registers[in.Register] {
			return fmt.Errorf("measure[%d]: register %s written twice", i, in.Register)
		}
		registers[in.Register] = true
		measured[in.Targets[0]] = true
	}
	for r := range registers {
		if int(r) >= len(g.Measure) {
			return fmt.Errorf("register %s beyond %d measurements", r, len(g.Measure))
		}
	}
	return nil
}
