package program

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"qstack/internal/diag"
)

// Logical gate names.
const (
	GatePrepare = "prepare"
	GateX       = "x"
	GateH       = "h"
	GateCX      = "cx"
	GateMeasure = "measure"
)

var arity = map[string]int{
	GatePrepare: 1,
	GateX:       1,
	GateH:       1,
	GateCX:      2,
	GateMeasure: 1,
}

// Arity returns the operand count of a logical gate.
func Arity(gate string) (int, bool) {
	n, ok := arity[gate]
	return n, ok
}

// Op is one logical instruction.
type Op struct {
	Gate    string `toml:"gate"`
	Targets []int  `toml:"targets"`
}

func (o Op) String() string {
	parts := make([]string, len(o.Targets))
	for i, t := range o.Targets {
		parts[i] = fmt.Sprintf("q%d", t)
	}
	return o.Gate + " " + strings.Join(parts, ", ")
}

// Program is a list of logical ops over Qubits logical qubits.
type Program struct {
	Name   string `toml:"name"`
	Qubits int    `toml:"qubits"`
	// Code optionally pins the code family; the CLI flag and config win
	// when this is empty.
	Code string `toml:"code"`
	Ops  []Op   `toml:"op"`
}

// Load decodes a program file:
//
//	name = "bell"
//	qubits = 2
//
//	[[op]]
//	gate = "prepare"
//	targets = [0]
func Load(path string) (*Program, error) {
	var p Program
	meta, err := toml.DecodeFile(path, &p)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := p.check(meta); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &p, nil
}

// Parse decodes a program from TOML text with the same checks as Load.
func Parse(text string) (*Program, error) {
	var p Program
	meta, err := toml.Decode(text, &p)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if err := p.check(meta); err != nil {
		return nil, err
	}
	return &p, nil
}

// check rejects unknown keys and a missing qubit count, and fills the
// default name.
func (p *Program) check(meta toml.MetaData) error {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if !meta.IsDefined("qubits") {
		return fmt.Errorf("missing qubits")
	}
	if strings.TrimSpace(p.Name) == "" {
		p.Name = "program"
	}
	return nil
}

// Validate checks gate names, arity and qubit ranges. It reports every
// problem and returns false if any was an error. Use-before-prepare and
// similar ordering checks happen during compilation.
func (p *Program) Validate(r diag.Reporter) bool {
	ok := true
	if len(p.Ops) == 0 {
		diag.ReportError(r, diag.PrgEmpty, diag.NoSite, "program has no operations").Emit()
		ok = false
	}
	if p.Qubits <= 0 {
		diag.ReportError(r, diag.PrgBadQubit, diag.NoSite, fmt.Sprintf("qubits must be positive, got %d", p.Qubits)).Emit()
		return false
	}
	for i, op := range p.Ops {
		site := diag.AtOp(i, op.Gate)
		n, known := Arity(op.Gate)
		if !known {
			diag.ReportError(r, diag.PrgUnknownGate, site, fmt.Sprintf("unknown gate %q", op.Gate)).
				WithNote(site, "expected one of prepare, x, h, cx, measure").Emit()
			ok = false
			continue
		}
		if len(op.Targets) != n {
			diag.ReportError(r, diag.PrgBadArity, site, fmt.Sprintf("%s takes %d operand(s), got %d", op.Gate, n, len(op.Targets))).Emit()
			ok = false
			continue
		}
		for _, q := range op.Targets {
			if q < 0 || q >= p.Qubits {
				diag.ReportError(r, diag.PrgBadQubit, site, fmt.Sprintf("q%d outside 0..%d", q, p.Qubits-1)).Emit()
				ok = false
			}
		}
		if n == 2 && op.Targets[0] == op.Targets[1] {
			diag.ReportError(r, diag.PrgSameQubitPair, site, fmt.Sprintf("%s on q%d twice", op.Gate, op.Targets[0])).Emit()
			ok = false
		}
	}
	return ok
}

// Measurements counts measure ops.
func (p *Program) Measurements() int {
	n := 0
	for _, op := range p.Ops {
		if op.Gate == GateMeasure {
			n++
		}
	}
	return n
}
