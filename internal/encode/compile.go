package encode

import (
	"context"
	"errors"
	"fmt"

	"qstack/internal/diag"
	"qstack/internal/gadget"
	"qstack/internal/program"
	"qstack/internal/trace"
)

// ErrInvalidProgram is returned when validation reported errors.
var ErrInvalidProgram = errors.New("invalid program")

// Compiled is a lowered program.
type Compiled struct {
	Program *program.Program
	Code    Code
	Gadget  gadget.Gadget
	// Qubits is the physical register width, data and ancillas.
	Qubits int
	// Data is the number of data qubits.
	Data int
	// Outcomes[i] is the logical qubit the i-th decoded outcome belongs to.
	Outcomes []int
	Tables   int
}

// Compile lowers prog onto code. Findings go to opts.Reporter; the first
// refused operation stops compilation with an *OpError.
func Compile(ctx context.Context, prog *program.Program, code Code, opts Options) (*Compiled, error) {
	span, ctx := trace.Start(ctx, trace.ScopePass, "encode")
	defer span.End(code.Name())

	if !prog.Validate(reporterOrNop(opts.Reporter)) {
		return nil, ErrInvalidProgram
	}

	s := NewSession(ctx, code, prog.Qubits, opts)
	out := &Compiled{Program: prog, Code: code}
	parts := make([]gadget.Gadget, 0, len(prog.Ops))
	for i, op := range prog.Ops {
		s.At(i)
		var (
			g   gadget.Gadget
			err error
		)
		switch op.Gate {
		case program.GatePrepare:
			g, err = s.Prepare(op.Targets[0])
		case program.GateX:
			g, err = s.X(op.Targets[0])
		case program.GateH:
			g, err = s.H(op.Targets[0])
		case program.GateCX:
			g, err = s.CX(op.Targets[0], op.Targets[1])
		case program.GateMeasure:
			g, err = s.Measure(op.Targets[0])
			out.Outcomes = append(out.Outcomes, op.Targets[0])
		default:
			err = s.fail(op.Gate, diag.EncUnsupportedGate, "gate %q has no encoding on %s", op.Gate, code.Name())
		}
		if err != nil {
			var oe *OpError
			if errors.As(err, &oe) && opts.Reporter != nil {
				d := oe.Diagnostic()
				opts.Reporter.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
			}
			return nil, fmt.Errorf("compile %s: %w", prog.Name, err)
		}
		parts = append(parts, g)
	}
	for _, l := range s.Unmeasured() {
		diag.ReportWarning(reporterOrNop(opts.Reporter), diag.PrgUnusedQubit, diag.NoSite,
			fmt.Sprintf("logical qubit %d is never measured", l)).Emit()
	}

	g, err := gadget.Sequence(prog.Name, parts...)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", prog.Name, err)
	}
	out.Gadget = g
	out.Qubits = s.Allocator().Qubits()
	out.Data = s.Tracker().Width()
	out.Tables = s.Cache().Len()
	span.Set("qubits", fmt.Sprint(out.Qubits))
	return out, nil
}

// Decode runs the decoder over one shot's bits and pairs outcomes with
// their logical qubits.
func (c *Compiled) Decode(bits []uint8, r diag.Reporter) ([]gadget.Outcome, *gadget.Context, error) {
	outs, dctx, err := gadget.Run(c.Gadget, bits, r)
	if err != nil {
		return nil, dctx, err
	}
	if len(outs) != len(c.Outcomes) {
		return nil, dctx, fmt.Errorf("decoded %d outcomes, program measures %d", len(outs), len(c.Outcomes))
	}
	return outs, dctx, nil
}

func reporterOrNop(r diag.Reporter) diag.Reporter {
	if r == nil {
		return diag.NopReporter{}
	}
	return r
}
