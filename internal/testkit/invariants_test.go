package testkit

import (
	"strings"
	"testing"

	"qstack/internal/circuit"
	"qstack/internal/gadget"
)

func TestCheckGadgetInvariants(t *testing.T) {
	ok := gadget.Gadget{
		Name:    "ok",
		Prepare: []circuit.Instruction{circuit.Prepare(0), circuit.Prepare(1)},
		Compute: []circuit.Instruction{circuit.H(0), circuit.CX(0, 1)},
		Measure: []circuit.Instruction{circuit.Measure(0, 0), circuit.Measure(1, 1)},
	}
	if err := CheckGadgetInvariants(ok, 2); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func(g *gadget.Gadget)
		qubits int
		want   string
	}{
		{"outside", func(*gadget.Gadget) {}, 1, "outside register"},
		{"twice", func(g *gadget.Gadget) { g.Prepare = append(g.Prepare, circuit.Prepare(0)) }, 2, "prepared twice"},
		{"unprepared", func(g *gadget.Gadget) { g.Prepare = g.Prepare[:1] }, 2, "never prepared"},
		{"reused register", func(g *gadget.Gadget) { g.Measure[1] = circuit.Measure(1, 0) }, 2, "written twice"},
		{"after measure", func(g *gadget.Gadget) { g.Measure = append(g.Measure, circuit.Measure(0, 2)) }, 2, "after measurement"},
		{"sparse register", func(g *gadget.Gadget) { g.Measure[1] = circuit.Measure(1, 5) }, 2, "beyond"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := ok
			g.Prepare = append([]circuit.Instruction(nil), ok.Prepare...)
			g.Measure = append([]circuit.Instruction(nil), ok.Measure...)
			tt.mutate(&g)
			err := CheckGadgetInvariants(g, tt.qubits)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}
