package stabilizer

import (
	"fmt"
	"sort"

	"qstack/internal/circuit"
	"qstack/internal/pauli"
)

// Tracker holds the stabilizer generators of the data register.
//
// Every generator is a full-length, normalized string. Order is insertion
// order; a generator rewritten by a gate keeps its slot. Members are assumed
// to commute pairwise; the tracker does not check it.
type Tracker struct {
	width int
	gens  []pauli.String
}

// New creates an empty tracker over width data qubits.
func New(width int) *Tracker {
	return &Tracker{width: width}
}

// Width is the number of tracked qubits.
func (t *Tracker) Width() int { return t.width }

// Len is the number of generators.
func (t *Tracker) Len() int { return len(t.gens) }

// Generators returns copies of every generator in tracker order.
func (t *Tracker) Generators() []pauli.String {
	out := make([]pauli.String, len(t.gens))
	for i, g := range t.gens {
		out[i] = g.Clone()
	}
	return out
}

// Expand lays a short generator over qubits into a full-length string.
func (t *Tracker) Expand(gen pauli.String, qubits []circuit.Qubit) pauli.String {
	if len(gen) != len(qubits) {
		panic(fmt.Sprintf("stabilizer: generator %v has %d positions for %d qubits", gen, len(gen), len(qubits)))
	}
	full := pauli.Identity(t.width)
	for i, q := range qubits {
		full[t.index(q)] = gen[i]
	}
	return full.Normalize()
}

// Add inserts gen laid over qubits. Adding a generator already present is a
// no-op.
func (t *Tracker) Add(gen pauli.String, qubits []circuit.Qubit) {
	t.AddFull(t.Expand(gen, qubits))
}

// AddFull inserts a full-length generator.
func (t *Tracker) AddFull(s pauli.String) {
	if len(s) != t.width {
		panic(fmt.Sprintf("stabilizer: generator %v has length %d, tracker width %d", s, len(s), t.width))
	}
	s = s.Clone().Normalize()
	if t.find(s) >= 0 {
		return
	}
	t.gens = append(t.gens, s)
}

// Remove deletes gen laid over qubits. A missing generator is a programming
// error and panics.
func (t *Tracker) Remove(gen pauli.String, qubits []circuit.Qubit) {
	t.RemoveFull(t.Expand(gen, qubits))
}

// RemoveFull deletes a full-length generator.
func (t *Tracker) RemoveFull(s pauli.String) {
	i := t.find(s.Clone().Normalize())
	if i < 0 {
		panic(fmt.Sprintf("stabilizer: remove of untracked generator %v", s))
	}
	t.gens = append(t.gens[:i], t.gens[i+1:]...)
}

func (t *Tracker) find(s pauli.String) int {
	for i, g := range t.gens {
		if g.Equal(s) {
			return i
		}
	}
	return -1
}

func (t *Tracker) index(q circuit.Qubit) int {
	i := int(q)
	if i >= t.width {
		panic(fmt.Sprintf("stabilizer: qubit %d outside tracked width %d", q, t.width))
	}
	return i
}

func (t *Tracker) touches(s pauli.String, qubits []circuit.Qubit) bool {
	for _, q := range qubits {
		if !s[t.index(q)].IsIdentity() {
			return true
		}
	}
	return false
}

// FindGroup returns copies of every generator acting non-trivially on at
// least one of qubits, in tracker order.
func (t *Tracker) FindGroup(qubits []circuit.Qubit) []pauli.String {
	var out []pauli.String
	for _, g := range t.gens {
		if t.touches(g, qubits) {
			out = append(out, g.Clone())
		}
	}
	return out
}

// Conjugate pushes every generator touching the instruction's qubits
// through the gate. Prepare and measure instructions are ignored; the
// encoder manages generators around them explicitly.
func (t *Tracker) Conjugate(in circuit.Instruction) {
	if in.Kind != circuit.KindGate1 && in.Kind != circuit.KindGate2 {
		return
	}
	for i, g := range t.gens {
		if !t.touches(g, in.Targets) {
			continue
		}
		t.gens[i] = Apply(g, in).Normalize()
	}
}

// Apply conjugates s in place through one gate and returns it.
func Apply(s pauli.String, in circuit.Instruction) pauli.String {
	tg := in.Targets
	switch in.Name {
	case circuit.GateH:
		return s.ByH(int(tg[0]))
	case circuit.GateX:
		return s.ByX(int(tg[0]))
	case circuit.GateY:
		return s.ByY(int(tg[0]))
	case circuit.GateZ:
		return s.ByZ(int(tg[0]))
	case circuit.GateS:
		return s.ByS(int(tg[0]))
	case circuit.GateCX:
		return s.ByCX(int(tg[0]), int(tg[1]))
	case circuit.GateCY:
		return s.ByCY(int(tg[0]), int(tg[1]))
	case circuit.GateCZ:
		return s.ByCZ(int(tg[0]), int(tg[1]))
	}
	panic(fmt.Sprintf("stabilizer: no conjugation rule for %q", in.Name))
}

// Localize rewrites generators that straddle block and the rest of the
// register so that, where possible, they no longer touch block. Each
// straddling generator is multiplied by generators living entirely inside
// block until its block part cancels. Straddlers that cannot be cleared are
// left as they are.
func (t *Tracker) Localize(block []circuit.Qubit) {
	inside := make(map[circuit.Qubit]bool, len(block))
	for _, q := range block {
		inside[q] = true
	}
	local := func(s pauli.String) bool {
		for i, p := range s {
			if !p.IsIdentity() && !inside[circuit.Qubit(i)] {
				return false
			}
		}
		return true
	}

	var basis []reducer
	for _, g := range t.gens {
		if !t.touches(g, block) || !local(g) {
			continue
		}
		r := reducer{gen: g.Clone()}
		for _, b := range basis {
			if r.bit(block, b.pivot) {
				r.gen = r.gen.Mul(b.gen)
			}
		}
		if r.pivot = r.first(block); r.pivot >= 0 {
			basis = append(basis, r)
		}
	}

	for i, g := range t.gens {
		if !t.touches(g, block) || local(g) {
			continue
		}
		r := reducer{gen: g.Clone()}
		for _, b := range basis {
			if r.bit(block, b.pivot) {
				r.gen = r.gen.Mul(b.gen)
			}
		}
		if r.first(block) < 0 {
			t.gens[i] = r.gen.Normalize()
		}
	}
}

// reducer is one row of the elimination over a block: bit 2k is the X
// component of block[k], bit 2k+1 its Z component.
type reducer struct {
	gen   pauli.String
	pivot int
}

func (r reducer) bit(block []circuit.Qubit, b int) bool {
	p := r.gen[block[b/2]]
	if b%2 == 0 {
		return p.HasX()
	}
	return p.HasZ()
}

func (r reducer) first(block []circuit.Qubit) int {
	for b := 0; b < 2*len(block); b++ {
		if r.bit(block, b) {
			return b
		}
	}
	return -1
}

// RemoveTouching deletes every generator acting on qubits and returns them
// in tracker order.
func (t *Tracker) RemoveTouching(qubits []circuit.Qubit) []pauli.String {
	var removed []pauli.String
	kept := t.gens[:0]
	for _, g := range t.gens {
		if t.touches(g, qubits) {
			removed = append(removed, g)
			continue
		}
		kept = append(kept, g)
	}
	t.gens = kept
	return removed
}

// Restrict projects a full-length string onto qubits, in the given order.
func Restrict(s pauli.String, qubits []circuit.Qubit) pauli.String {
	idx := make([]int, len(qubits))
	for i, q := range qubits {
		idx[i] = int(q)
	}
	return s.Restrict(idx)
}

// Support returns the sorted union of qubits the group acts on.
func Support(group []pauli.String) []circuit.Qubit {
	seen := make(map[int]struct{})
	for _, g := range group {
		for _, i := range g.Support() {
			seen[i] = struct{}{}
		}
	}
	out := make([]circuit.Qubit, 0, len(seen))
	for i := range seen {
		out = append(out, circuit.Qubit(i))
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}
