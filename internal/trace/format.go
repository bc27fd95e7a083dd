package trace

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Format selects how sinks render events.
type Format uint8

const (
	FormatText Format = iota
	FormatNDJSON
)

type jsonEvent struct {
	Seq    uint64            `json:"seq"`
	AtMS   float64           `json:"at_ms"`
	Kind   string            `json:"kind"`
	Scope  string            `json:"scope"`
	Span   uint64            `json:"span,omitempty"`
	Parent uint64            `json:"parent,omitempty"`
	Name   string            `json:"name"`
	Detail string            `json:"detail,omitempty"`
	Attrs  map[string]string `json:"attrs,omitempty"`
}

// Render formats ev as one line.
func Render(ev Event, f Format) []byte {
	if f == FormatNDJSON {
		j := jsonEvent{
			Seq:    ev.Seq,
			AtMS:   float64(ev.At.Microseconds()) / 1000,
			Kind:   ev.Kind.String(),
			Scope:  ev.Scope.String(),
			Span:   ev.Span,
			Parent: ev.Parent,
			Name:   ev.Name,
			Detail: ev.Detail,
		}
		if len(ev.Attrs) > 0 {
			j.Attrs = make(map[string]string, len(ev.Attrs))
			for _, a := range ev.Attrs {
				j.Attrs[a.Key] = a.Value
			}
		}
		data, err := json.Marshal(j)
		if err != nil {
			return []byte(fmt.Sprintf("{\"error\":%q}\n", err.Error()))
		}
		return append(data, '\n')
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%9.3fms] %s", float64(ev.At.Microseconds())/1000, strings.Repeat("  ", int(ev.Scope)-1))
	switch ev.Kind {
	case KindBegin:
		sb.WriteString("> ")
	case KindEnd:
		sb.WriteString("< ")
	case KindMark:
		sb.WriteString("* ")
	case KindPulse:
		sb.WriteString("~ ")
	}
	sb.WriteString(ev.Name)
	if ev.Detail != "" {
		fmt.Fprintf(&sb, " (%s)", ev.Detail)
	}
	for i, a := range ev.Attrs {
		if i == 0 {
			sb.WriteString(" {")
		} else {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%s", a.Key, a.Value)
		if i == len(ev.Attrs)-1 {
			sb.WriteString("}")
		}
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}
