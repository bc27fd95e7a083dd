package pauli

import (
	"fmt"
	"strings"
)

// String is a Pauli string: one operator per qubit position.
//
// Conjugation methods rewrite the receiver in place and return it so calls
// can be chained.
type String []Pauli

// Identity returns the all-I string of length n.
func Identity(n int) String {
	return make(String, n)
}

// Parse reads a string such as "ZZI", "-XIX" or "iY". A leading sign applies
// to the first position.
func Parse(s string) (String, error) {
	phase := uint8(0)
	switch {
	case strings.HasPrefix(s, "-i"):
		phase, s = 3, s[2:]
	case strings.HasPrefix(s, "+i"):
		phase, s = 1, s[2:]
	case strings.HasPrefix(s, "-"):
		phase, s = 2, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case len(s) > 1 && s[0] == 'i':
		phase, s = 1, s[1:]
	}
	if s == "" {
		return nil, fmt.Errorf("pauli: empty string")
	}
	out := make(String, len(s))
	for i := 0; i < len(s); i++ {
		p, ok := FromLetter(s[i])
		if !ok {
			return nil, fmt.Errorf("pauli: invalid operator %q at %d", s[i], i)
		}
		out[i] = p
	}
	out[0] = out[0].WithPhase(phase)
	return out, nil
}

// MustParse is Parse for constants.
func MustParse(s string) String {
	out, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return out
}

// Clone returns an independent copy.
func (s String) Clone() String {
	out := make(String, len(s))
	copy(out, s)
	return out
}

// Weight counts non-identity positions.
func (s String) Weight() int {
	w := 0
	for _, p := range s {
		if !p.IsIdentity() {
			w++
		}
	}
	return w
}

// Support lists the non-identity positions in ascending order.
func (s String) Support() []int {
	out := make([]int, 0, len(s))
	for i, p := range s {
		if !p.IsIdentity() {
			out = append(out, i)
		}
	}
	return out
}

// Phase returns the total phase quadrant of the string.
func (s String) Phase() uint8 {
	var q uint8
	for _, p := range s {
		q += p.phase
	}
	return q % 4
}

// Negative reports whether the overall sign is -1 (or -i).
func (s String) Negative() bool {
	return s.Phase() >= 2
}

// Normalize moves the total phase onto the first non-identity position
// (position 0 for an all-identity string) and clears the others, so equal
// operators compare equal.
func (s String) Normalize() String {
	q := s.Phase()
	first := -1
	for i := range s {
		s[i] = Abs(s[i])
		if first < 0 && !s[i].IsIdentity() {
			first = i
		}
	}
	if len(s) == 0 {
		return s
	}
	if first < 0 {
		first = 0
	}
	s[first] = s[first].WithPhase(q)
	return s
}

// Equal compares position by position, phases included.
func (s String) Equal(o String) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Commutes reports whether two strings commute: an even number of
// anticommuting positions.
func (s String) Commutes(o String) bool {
	return s.Anticommutations(o)%2 == 0
}

// Anticommutations counts positions where the operators anticommute.
func (s String) Anticommutations(o String) int {
	n := len(s)
	if len(o) < n {
		n = len(o)
	}
	count := 0
	for i := 0; i < n; i++ {
		if !Commutes(s[i], o[i]) {
			count++
		}
	}
	return count
}

// Mul returns the position-wise product s·o as a new string.
func (s String) Mul(o String) String {
	if len(s) != len(o) {
		panic(fmt.Sprintf("pauli: length mismatch %d != %d", len(s), len(o)))
	}
	out := make(String, len(s))
	for i := range s {
		out[i] = Mul(s[i], o[i])
	}
	return out
}

// Restrict picks the given positions in order.
func (s String) Restrict(idx []int) String {
	out := make(String, len(idx))
	for i, j := range idx {
		out[i] = s[j]
	}
	return out
}

// ByH conjugates position i by a Hadamard.
func (s String) ByH(i int) String {
	s[i] = ConjH(s[i])
	return s
}

// ByX conjugates position i by X.
func (s String) ByX(i int) String {
	s[i] = ConjX(s[i])
	return s
}

// ByY conjugates position i by Y.
func (s String) ByY(i int) String {
	s[i] = ConjY(s[i])
	return s
}

// ByZ conjugates position i by Z.
func (s String) ByZ(i int) String {
	s[i] = ConjZ(s[i])
	return s
}

// ByS conjugates position i by the phase gate.
func (s String) ByS(i int) String {
	s[i] = ConjS(s[i])
	return s
}

// ByCX conjugates by a CNOT with control ctl and target tgt.
func (s String) ByCX(ctl, tgt int) String {
	if ctl >= len(s) || tgt >= len(s) || ctl == tgt {
		panic(fmt.Sprintf("pauli: invalid cx(%d, %d) on string of length %d", ctl, tgt, len(s)))
	}
	s[ctl], s[tgt] = ConjCX(s[ctl], s[tgt])
	return s
}

// ByCZ conjugates by a CZ between positions a and b.
func (s String) ByCZ(a, b int) String {
	if a >= len(s) || b >= len(s) || a == b {
		panic(fmt.Sprintf("pauli: invalid cz(%d, %d) on string of length %d", a, b, len(s)))
	}
	s[a], s[b] = ConjCZ(s[a], s[b])
	return s
}

// ByCY conjugates by a controlled-Y with control ctl and target tgt.
func (s String) ByCY(ctl, tgt int) String {
	if ctl >= len(s) || tgt >= len(s) || ctl == tgt {
		panic(fmt.Sprintf("pauli: invalid cy(%d, %d) on string of length %d", ctl, tgt, len(s)))
	}
	s[ctl], s[tgt] = ConjCY(s[ctl], s[tgt])
	return s
}

// String renders every position; per-position phases are printed in front
// of their operator.
func (s String) String() string {
	var sb strings.Builder
	for _, p := range s {
		sb.WriteString(p.String())
	}
	return sb.String()
}

// Key is a canonical map key. Two strings share a key iff Equal.
func (s String) Key() string {
	buf := make([]byte, len(s))
	for i, p := range s {
		b := byte(p.phase) << 2
		if p.x {
			b |= 1
		}
		if p.z {
			b |= 2
		}
		buf[i] = 'a' + b
	}
	return string(buf)
}
