package syndrome

import (
	"sort"
	"strconv"
	"strings"

	"qstack/internal/pauli"
)

// Syndrome is one bit per generator, in the generator order it was
// measured against.
type Syndrome []uint8

// Key is a compact map key: one '0' or '1' byte per bit.
func (s Syndrome) Key() string {
	buf := make([]byte, len(s))
	for i, b := range s {
		buf[i] = '0' + b&1
	}
	return string(buf)
}

func (s Syndrome) String() string { return s.Key() }

// Trivial reports whether every bit is zero.
func (s Syndrome) Trivial() bool {
	for _, b := range s {
		if b != 0 {
			return false
		}
	}
	return true
}

// Measure computes the syndrome of error e: bit i is 1 iff gens[i] and e
// anticommute.
func Measure(gens []pauli.String, e pauli.String) Syndrome {
	out := make(Syndrome, len(gens))
	for i, g := range gens {
		if !g.Commutes(e) {
			out[i] = 1
		}
	}
	return out
}

// Table maps syndromes to minimum-weight error patterns over a fixed
// generator list.
type Table struct {
	Key        string
	Generators []pauli.String
	Width      int
	MaxWeight  int

	entries map[string]pauli.String
}

// Lookup returns the pattern recorded for s.
func (t *Table) Lookup(s Syndrome) (pauli.String, bool) {
	p, ok := t.entries[s.Key()]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Len is the number of recorded syndromes.
func (t *Table) Len() int { return len(t.entries) }

// Syndromes lists recorded syndrome keys in ascending order.
func (t *Table) Syndromes() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var tryOrder = [...]pauli.Pauli{pauli.X, pauli.Z, pauli.Y}

type candidate struct {
	pattern pauli.String
	weight  int
	next    int
}

// Build enumerates error patterns over the generators' qubits from weight 0
// up to maxWeight and records the first pattern producing each syndrome.
//
// Patterns are visited lowest weight first; within a weight, positions
// ascend and each position tries X, then Z, then Y. The all-I pattern owns
// the trivial syndrome. Enumeration stops early once every syndrome is
// claimed.
func Build(group []pauli.String, maxWeight int) *Table {
	width := 0
	if len(group) > 0 {
		width = len(group[0])
	}
	gens := make([]pauli.String, len(group))
	for i, g := range group {
		gens[i] = bare(g)
	}
	t := &Table{
		Key:        tableKey(gens, maxWeight),
		Generators: gens,
		Width:      width,
		MaxWeight:  maxWeight,
		entries:    make(map[string]pauli.String),
	}
	t.entries[make(Syndrome, len(gens)).Key()] = pauli.Identity(width)

	limit := -1
	if len(gens) < 62 {
		limit = 1 << len(gens)
	}
	queue := []candidate{{pattern: pauli.Identity(width)}}
	for head := 0; head < len(queue); head++ {
		if len(t.entries) == limit {
			break
		}
		c := queue[head]
		if c.weight >= maxWeight {
			continue
		}
		for pos := c.next; pos < width; pos++ {
			for _, op := range tryOrder {
				e := c.pattern.Clone()
				e[pos] = op
				k := Measure(gens, e).Key()
				if _, taken := t.entries[k]; !taken {
					t.entries[k] = e
				}
				queue = append(queue, candidate{pattern: e, weight: c.weight + 1, next: pos + 1})
			}
		}
	}
	return t
}

// bare drops every phase; syndromes only depend on the operators.
func bare(s pauli.String) pauli.String {
	out := make(pauli.String, len(s))
	for i, p := range s {
		out[i] = pauli.Abs(p)
	}
	return out
}

func tableKey(gens []pauli.String, maxWeight int) string {
	var sb strings.Builder
	sb.WriteByte('w')
	sb.WriteString(strconv.Itoa(maxWeight))
	for _, g := range gens {
		sb.WriteByte('|')
		sb.WriteString(g.String())
	}
	return sb.String()
}
