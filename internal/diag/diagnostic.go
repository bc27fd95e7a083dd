package diag

import (
	"fmt"
	"strings"
)

// Site locates a finding: the logical op it came from and the gadget that
// produced it. Op is -1 when the finding is not tied to one op.
type Site struct {
	Op     int
	Gadget string
	Qubits []uint32
}

// NoSite is the zero location.
var NoSite = Site{Op: -1}

// AtOp is a site for op index i.
func AtOp(i int, gadget string) Site {
	return Site{Op: i, Gadget: gadget}
}

func (s Site) String() string {
	var parts []string
	if s.Op >= 0 {
		parts = append(parts, fmt.Sprintf("op %d", s.Op))
	}
	if s.Gadget != "" {
		parts = append(parts, s.Gadget)
	}
	if len(s.Qubits) > 0 {
		qs := make([]string, len(s.Qubits))
		for i, q := range s.Qubits {
			qs[i] = fmt.Sprint(q)
		}
		parts = append(parts, "q["+strings.Join(qs, ",")+"]")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

type Note struct {
	Site Site
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Site
	Notes    []Note
}
