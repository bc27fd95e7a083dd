package trace

import (
	"fmt"
	"strings"
	"time"
)

// Kind is what an event marks.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindMark
	KindPulse
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindMark:
		return "mark"
	case KindPulse:
		return "pulse"
	}
	return "unknown"
}

// Scope orders events from coarse to fine.
type Scope uint8

const (
	// ScopeDriver is one CLI command.
	ScopeDriver Scope = iota + 1
	// ScopePass is a pipeline stage: load, encode, run.
	ScopePass
	// ScopeGadget is one encoded gadget.
	ScopeGadget
	// ScopeShot is one simulated shot.
	ScopeShot
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeGadget:
		return "gadget"
	case ScopeShot:
		return "shot"
	}
	return "unknown"
}

// Level is the finest scope a tracer keeps.
type Level uint8

const (
	LevelOff Level = iota
	LevelPhase
	LevelDetail
	LevelDebug
)

var levelNames = [...]string{"off", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel reads a --trace-level value.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level %q (expected off|phase|detail|debug)", s)
}

// Keeps reports whether events of scope pass this level.
func (l Level) Keeps(s Scope) bool {
	return l != LevelOff && int(s) <= int(l)+1
}

// Attr is one key/value pair on an end event.
type Attr struct {
	Key, Value string
}

// Event is one trace record. At is measured from process start.
type Event struct {
	Seq    uint64
	At     time.Duration
	Kind   Kind
	Scope  Scope
	Span   uint64
	Parent uint64
	Name   string
	Detail string
	Attrs  []Attr
}
