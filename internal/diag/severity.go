package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for notes such as a non-fault-tolerant gate choice.
	SevInfo Severity = iota
	// SevWarning is for findings that still produce a best-effort result.
	SevWarning
	// SevError stops compilation.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label is the lowercase form used in short output.
func (s Severity) Label() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}
