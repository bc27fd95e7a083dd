package gadget

import (
	"qstack/internal/circuit"
	"qstack/internal/diag"
	"qstack/internal/pauli"
	"qstack/internal/stabilizer"
	"qstack/internal/syndrome"
)

// ExtractOptions tunes a syndrome-extraction gadget.
type ExtractOptions struct {
	Name      string
	MaxWeight int
	// Abort marks the whole block lost on any non-trivial syndrome instead
	// of correcting.
	Abort bool
	Site  diag.Site
}

// Extract measures every generator of group with one ancilla each and
// decodes the result against a lookup table from cache.
//
// group holds full-length tracker strings. The gadget acts on the union of
// their supports.
func Extract(alloc *circuit.Allocator, group []pauli.String, cache *syndrome.Cache, opts ExtractOptions) (Gadget, error) {
	support := stabilizer.Support(group)
	restricted := make([]pauli.String, len(group))
	for i, g := range group {
		restricted[i] = stabilizer.Restrict(g, support)
	}
	view, err := cache.View(restricted, opts.MaxWeight)
	if err != nil {
		return Gadget{}, err
	}

	name := opts.Name
	if name == "" {
		name = "extract"
	}
	g := Gadget{Name: name}
	for _, gen := range group {
		anc := alloc.Qubit()
		reg := alloc.Register()
		g.Prepare = append(g.Prepare, circuit.Prepare(anc))
		g.Compute = append(g.Compute, circuit.H(anc))
		for _, i := range gen.Support() {
			q := circuit.Qubit(i)
			p := gen[i]
			switch {
			case p.HasX() && p.HasZ():
				g.Compute = append(g.Compute, circuit.CY(anc, q))
			case p.HasX():
				g.Compute = append(g.Compute, circuit.CX(anc, q))
			default:
				g.Compute = append(g.Compute, circuit.CZ(anc, q))
			}
		}
		g.Compute = append(g.Compute, circuit.H(anc))
		g.Measure = append(g.Measure, circuit.Measure(anc, reg))
	}

	site := opts.Site
	if site.Gadget == "" {
		site.Gadget = name
	}
	site.Qubits = make([]uint32, len(support))
	for i, q := range support {
		site.Qubits[i] = uint32(q)
	}

	g.Decoder = &Decoder{
		Width: len(group),
		Fn: func(bits []uint8, ctx *Context) ([]Outcome, error) {
			corr, ok := ctx.Block(support)
			if !ok {
				return nil, nil
			}
			syn := make(syndrome.Syndrome, len(group))
			for i := range group {
				b := bits[i] & 1
				if !restricted[i].Commutes(corr) {
					b ^= 1
				}
				if group[i].Negative() {
					b ^= 1
				}
				syn[i] = b
			}
			if syn.Trivial() {
				return nil, nil
			}
			if opts.Abort {
				ctx.MarkLost(support...)
				ctx.Warn(diag.DecBlockLost, site, "syndrome %s after a non-fault-tolerant gate", syn)
				return nil, nil
			}
			pattern, found := view.Lookup(syn)
			if !found {
				ctx.Warn(diag.DecUnknownSyndrome, site, "syndrome %s not in table", syn)
				return nil, nil
			}
			for i, q := range support {
				ctx.Apply(q, pattern[i])
			}
			return nil, nil
		},
	}
	return g, nil
}
