package gadget

import (
	"fmt"

	"qstack/internal/circuit"
	"qstack/internal/diag"
)

// DecodeFunc turns a gadget's measured bits into logical outcomes, updating
// the shared context.
type DecodeFunc func(bits []uint8, ctx *Context) ([]Outcome, error)

// Decoder pairs a decode function with the number of bits it consumes.
type Decoder struct {
	Width int
	Fn    DecodeFunc
}

// Gadget is a named circuit fragment in three phases plus an optional
// decoder for the bits its Measure phase produces.
//
// Composition runs every Prepare first, then every Compute, then every
// Measure, so a Measure list only reads qubits nothing later touches.
type Gadget struct {
	Name    string
	Prepare []circuit.Instruction
	Compute []circuit.Instruction
	Measure []circuit.Instruction
	Decoder *Decoder
}

// Instructions returns the full physical schedule.
func (g Gadget) Instructions() []circuit.Instruction {
	out := make([]circuit.Instruction, 0, len(g.Prepare)+len(g.Compute)+len(g.Measure))
	out = append(out, g.Prepare...)
	out = append(out, g.Compute...)
	return append(out, g.Measure...)
}

// Validate checks that the decoder width matches the measured bits.
func (g Gadget) Validate() error {
	if g.Decoder != nil && g.Decoder.Width != len(g.Measure) {
		return &CompositionError{Gadget: g.Name, Code: diag.CmpWidthMismatch, Want: len(g.Measure), Got: g.Decoder.Width}
	}
	return nil
}

// Decode runs the decoder on bits, which must match len(g.Measure).
func (g Gadget) Decode(bits []uint8, ctx *Context) ([]Outcome, error) {
	if len(bits) != len(g.Measure) {
		return nil, &CompositionError{Gadget: g.Name, Code: diag.CmpBitCount, Want: len(g.Measure), Got: len(bits)}
	}
	if g.Decoder == nil || g.Decoder.Fn == nil {
		return nil, nil
	}
	return g.Decoder.Fn(bits, ctx)
}

// Compose concatenates a then b phase by phase. The combined decoder hands
// a the first len(a.Measure) bits and b the rest, runs both against the
// same context and concatenates their outcomes.
func Compose(a, b Gadget) (Gadget, error) {
	if err := a.Validate(); err != nil {
		return Gadget{}, err
	}
	if err := b.Validate(); err != nil {
		return Gadget{}, err
	}
	out := Gadget{
		Name:    joinName(a.Name, b.Name),
		Prepare: concat(a.Prepare, b.Prepare),
		Compute: concat(a.Compute, b.Compute),
		Measure: concat(a.Measure, b.Measure),
	}
	if a.Decoder == nil && b.Decoder == nil {
		return out, nil
	}
	split := len(a.Measure)
	out.Decoder = &Decoder{
		Width: len(out.Measure),
		Fn: func(bits []uint8, ctx *Context) ([]Outcome, error) {
			first, err := a.Decode(bits[:split], ctx)
			if err != nil {
				return nil, err
			}
			second, err := b.Decode(bits[split:], ctx)
			if err != nil {
				return nil, err
			}
			return append(first, second...), nil
		},
	}
	return out, nil
}

// Sequence folds gadgets left to right under name.
func Sequence(name string, gs ...Gadget) (Gadget, error) {
	var out Gadget
	for i, g := range gs {
		if i == 0 {
			if err := g.Validate(); err != nil {
				return Gadget{}, err
			}
			out = g
			continue
		}
		var err error
		if out, err = Compose(out, g); err != nil {
			return Gadget{}, err
		}
	}
	out.Name = name
	return out, nil
}

// Track builds a gadget that runs gates and moves the frame through them.
func Track(name string, gates []circuit.Instruction) Gadget {
	return Gadget{
		Name:    name,
		Compute: gates,
		Decoder: &Decoder{Fn: func(_ []uint8, ctx *Context) ([]Outcome, error) {
			for _, in := range gates {
				ctx.Conjugate(in)
			}
			return nil, nil
		}},
	}
}

// Run decodes a full bit vector with a fresh context.
func Run(g Gadget, bits []uint8, r diag.Reporter) ([]Outcome, *Context, error) {
	if err := g.Validate(); err != nil {
		return nil, nil, err
	}
	ctx := NewContext(r)
	outs, err := g.Decode(bits, ctx)
	if err != nil {
		return nil, ctx, err
	}
	return outs, ctx, nil
}

// CompositionError reports a decoder that cannot be fed by its gadget.
type CompositionError struct {
	Gadget string
	Code   diag.Code
	Want   int
	Got    int
}

func (e *CompositionError) Error() string {
	if e.Code == diag.CmpBitCount {
		return fmt.Sprintf("gadget %q: got %d bits, measures %d", e.Gadget, e.Got, e.Want)
	}
	return fmt.Sprintf("gadget %q: decoder width %d, measures %d", e.Gadget, e.Got, e.Want)
}

// Diagnostic renders the error for a diag.Bag.
func (e *CompositionError) Diagnostic(site diag.Site) diag.Diagnostic {
	if site.Gadget == "" {
		site.Gadget = e.Gadget
	}
	return diag.NewError(e.Code, site, e.Error())
}

func concat(a, b []circuit.Instruction) []circuit.Instruction {
	out := make([]circuit.Instruction, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func joinName(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + ";" + b
}
