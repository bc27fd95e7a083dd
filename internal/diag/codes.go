package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Logical program findings
	PrgInfo          Code = 1000
	PrgSyntax        Code = 1001
	PrgUnknownGate   Code = 1002
	PrgBadArity      Code = 1003
	PrgBadQubit      Code = 1004
	PrgUnprepared    Code = 1005
	PrgRemeasured    Code = 1006
	PrgReprepared    Code = 1007
	PrgEmpty         Code = 1008
	PrgUnusedQubit   Code = 1009
	PrgSameQubitPair Code = 1010

	// Encoding
	EncInfo             Code = 2000
	EncUnknownCode      Code = 2001
	EncUnsupportedGate  Code = 2002
	EncNotFaultTolerant Code = 2003
	EncBadWeight        Code = 2004

	// Composition
	CmpInfo          Code = 3000
	CmpWidthMismatch Code = 3001
	CmpBitCount      Code = 3002

	// Decoding
	DecInfo            Code = 4000
	DecUnknownSyndrome Code = 4001
	DecBlockLost       Code = 4002

	// I/O
	IOLoadFileError Code = 5001
	IOCacheError    Code = 5002

	// Execution
	RunInfo         Code = 6000
	RunBackendError Code = 6001
	RunUndefined    Code = 6002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:         "Unknown error",
		PrgInfo:             "Program information",
		PrgSyntax:           "Malformed program file",
		PrgUnknownGate:      "Unknown logical gate",
		PrgBadArity:         "Wrong number of operands",
		PrgBadQubit:         "Logical qubit out of range",
		PrgUnprepared:       "Logical qubit used before prepare",
		PrgRemeasured:       "Logical qubit used after measurement",
		PrgReprepared:       "Logical qubit prepared twice",
		PrgEmpty:            "Program has no operations",
		PrgUnusedQubit:      "Logical qubit never measured",
		PrgSameQubitPair:    "Two-qubit gate on a single qubit",
		EncInfo:             "Encoding information",
		EncUnknownCode:      "Unknown code family",
		EncUnsupportedGate:  "Gate not available on this code",
		EncNotFaultTolerant: "Gate lowered without fault tolerance",
		EncBadWeight:        "Invalid table weight bound",
		CmpInfo:             "Composition information",
		CmpWidthMismatch:    "Decoder width differs from measured bits",
		CmpBitCount:         "Bit vector length differs from gadget measurements",
		DecInfo:             "Decoding information",
		DecUnknownSyndrome:  "Syndrome not in lookup table",
		DecBlockLost:        "Block correction unknown",
		IOLoadFileError:     "I/O load file error",
		IOCacheError:        "Table cache error",
		RunInfo:             "Run information",
		RunBackendError:     "Execution backend failed",
		RunUndefined:        "Logical outcome undefined",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("PRG%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("ENC%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("CMP%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("DEC%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("RUN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
