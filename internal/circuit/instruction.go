package circuit

import (
	"fmt"
	"strings"
)

// Qubit identifies a physical qubit.
type Qubit uint32

// Register identifies a classical register slot.
type Register uint32

func (r Register) String() string { return fmt.Sprintf("$%d", uint32(r)) }

// Kind is the closed set of instruction shapes.
type Kind uint8

const (
	// KindPrepare resets one qubit to |0⟩.
	KindPrepare Kind = iota + 1
	// KindGate1 is a single-qubit Clifford gate.
	KindGate1
	// KindGate2 is a two-qubit Clifford gate (first target is the control).
	KindGate2
	// KindMeasure measures one qubit in Z into a register.
	KindMeasure
)

func (k Kind) String() string {
	switch k {
	case KindPrepare:
		return "prepare"
	case KindGate1:
		return "gate1"
	case KindGate2:
		return "gate2"
	case KindMeasure:
		return "measure"
	default:
		return "unknown"
	}
}

// Gate names carried by KindGate1 / KindGate2 instructions.
const (
	GateH  = "h"
	GateX  = "x"
	GateY  = "y"
	GateZ  = "z"
	GateS  = "s"
	GateCX = "cx"
	GateCY = "cy"
	GateCZ = "cz"
)

// Instruction is one physical operation.
type Instruction struct {
	Kind     Kind
	Name     string
	Targets  []Qubit
	Register Register // KindMeasure only
}

// Prepare resets q to |0⟩.
func Prepare(q Qubit) Instruction {
	return Instruction{Kind: KindPrepare, Name: "prepare", Targets: []Qubit{q}}
}

// Gate1 builds a single-qubit gate.
func Gate1(name string, q Qubit) Instruction {
	return Instruction{Kind: KindGate1, Name: name, Targets: []Qubit{q}}
}

// Gate2 builds a two-qubit gate; a is the control for cx/cy.
func Gate2(name string, a, b Qubit) Instruction {
	return Instruction{Kind: KindGate2, Name: name, Targets: []Qubit{a, b}}
}

// Measure measures q in the Z basis into r.
func Measure(q Qubit, r Register) Instruction {
	return Instruction{Kind: KindMeasure, Name: "measure", Targets: []Qubit{q}, Register: r}
}

func H(q Qubit) Instruction { return Gate1(GateH, q) }
func X(q Qubit) Instruction { return Gate1(GateX, q) }
func Y(q Qubit) Instruction { return Gate1(GateY, q) }
func Z(q Qubit) Instruction { return Gate1(GateZ, q) }
func CX(c, t Qubit) Instruction { return Gate2(GateCX, c, t) }
func CY(c, t Qubit) Instruction { return Gate2(GateCY, c, t) }
func CZ(a, b Qubit) Instruction { return Gate2(GateCZ, a, b) }

// Validate checks the target arity against the kind.
func (in Instruction) Validate() error {
	want := 1
	switch in.Kind {
	case KindPrepare, KindGate1, KindMeasure:
	case KindGate2:
		want = 2
	default:
		return fmt.Errorf("instruction %q: unknown kind %d", in.Name, in.Kind)
	}
	if len(in.Targets) != want {
		return fmt.Errorf("instruction %q: expected %d targets, got %d", in.Name, want, len(in.Targets))
	}
	if want == 2 && in.Targets[0] == in.Targets[1] {
		return fmt.Errorf("instruction %q: control and target must differ", in.Name)
	}
	return nil
}

func (in Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(in.Name)
	for _, q := range in.Targets {
		fmt.Fprintf(&sb, " %d", q)
	}
	if in.Kind == KindMeasure {
		sb.WriteString(" -> ")
		sb.WriteString(in.Register.String())
	}
	return sb.String()
}

// Format renders a list one instruction per line.
func Format(list []Instruction) string {
	var sb strings.Builder
	for _, in := range list {
		sb.WriteString(in.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
