package gadget

import (
	"fmt"

	"qstack/internal/circuit"
	"qstack/internal/diag"
	"qstack/internal/pauli"
	"qstack/internal/stabilizer"
)

// Outcome is a decoded logical measurement result.
type Outcome uint8

const (
	Zero Outcome = iota
	One
	// Undefined marks a readout whose block correction was lost.
	Undefined
)

// FromBit maps a classical bit to Zero or One.
func FromBit(b uint8) Outcome {
	if b&1 == 1 {
		return One
	}
	return Zero
}

func (o Outcome) String() string {
	switch o {
	case Zero:
		return "0"
	case One:
		return "1"
	default:
		return "?"
	}
}

// Context is the mutable state threaded through decoders of one shot.
//
// It carries the Pauli frame: per physical qubit, the best estimate of the
// accumulated error. A qubit can be marked lost, meaning its error is
// unknown; a lost qubit ignores every later update and stays lost until the
// qubit is prepared again. Phases of the frame are dropped.
type Context struct {
	frame    pauli.String
	lost     []bool
	reporter diag.Reporter
	warnings int
}

// NewContext starts with an all-identity frame. r may be nil.
func NewContext(r diag.Reporter) *Context {
	return &Context{reporter: r}
}

func (c *Context) grow(q circuit.Qubit) int {
	i := int(q)
	for len(c.frame) <= i {
		c.frame = append(c.frame, pauli.I)
		c.lost = append(c.lost, false)
	}
	return i
}

// Correction returns the frame entry for q. ok is false when q is lost.
func (c *Context) Correction(q circuit.Qubit) (p pauli.Pauli, ok bool) {
	i := int(q)
	if i >= len(c.frame) {
		return pauli.I, true
	}
	if c.lost[i] {
		return pauli.I, false
	}
	return c.frame[i], true
}

// Lost reports whether q's correction is unknown.
func (c *Context) Lost(q circuit.Qubit) bool {
	i := int(q)
	return i < len(c.lost) && c.lost[i]
}

// Block returns the frame over qubits, in order. ok is false when any of
// them is lost.
func (c *Context) Block(qubits []circuit.Qubit) (pauli.String, bool) {
	out := pauli.Identity(len(qubits))
	for i, q := range qubits {
		p, ok := c.Correction(q)
		if !ok {
			return nil, false
		}
		out[i] = p
	}
	return out, true
}

// Apply multiplies p into q's correction. Lost qubits are left alone.
func (c *Context) Apply(q circuit.Qubit, p pauli.Pauli) {
	i := c.grow(q)
	if c.lost[i] {
		return
	}
	c.frame[i] = pauli.Abs(pauli.Mul(c.frame[i], p))
}

// MarkLost makes every listed qubit unknown.
func (c *Context) MarkLost(qubits ...circuit.Qubit) {
	for _, q := range qubits {
		i := c.grow(q)
		c.lost[i] = true
		c.frame[i] = pauli.I
	}
}

// Reset clears the frame of freshly prepared qubits.
func (c *Context) Reset(qubits ...circuit.Qubit) {
	for _, q := range qubits {
		i := c.grow(q)
		c.lost[i] = false
		c.frame[i] = pauli.I
	}
}

// Conjugate pushes the frame through one physical gate. A two-qubit gate
// touching a lost qubit loses the other one too.
func (c *Context) Conjugate(in circuit.Instruction) {
	if in.Kind != circuit.KindGate1 && in.Kind != circuit.KindGate2 {
		return
	}
	hi := 0
	for _, q := range in.Targets {
		hi = max(hi, c.grow(q))
	}
	if in.Kind == circuit.KindGate2 {
		a, b := int(in.Targets[0]), int(in.Targets[1])
		if c.lost[a] || c.lost[b] {
			c.MarkLost(in.Targets...)
			return
		}
	} else if c.lost[int(in.Targets[0])] {
		return
	}
	stabilizer.Apply(c.frame[:hi+1], in)
	for _, q := range in.Targets {
		c.frame[q] = pauli.Abs(c.frame[q])
	}
}

// Warn records a decode warning and forwards it to the reporter.
func (c *Context) Warn(code diag.Code, site diag.Site, format string, args ...any) {
	c.warnings++
	if c.reporter != nil {
		diag.ReportWarning(c.reporter, code, site, fmt.Sprintf(format, args...)).Emit()
	}
}

// Warnings counts warnings raised so far.
func (c *Context) Warnings() int { return c.warnings }

// Frame returns a copy of the frame over the first n qubits; lost qubits
// are reported through the second result.
func (c *Context) Frame(n int) (pauli.String, []bool) {
	frame := pauli.Identity(n)
	lost := make([]bool, n)
	copy(frame, c.frame)
	copy(lost, c.lost)
	return frame, lost
}
