package runner

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"qstack/internal/circuit"
	"qstack/internal/diag"
	"qstack/internal/encode"
	"qstack/internal/gadget"
	"qstack/internal/trace"
)

// Backend executes a physical instruction list for one shot and returns
// one bit per register.
type Backend interface {
	Run(ctx context.Context, list []circuit.Instruction, qubits, registers int, shot uint64) ([]uint8, error)
}

// Options controls a run.
type Options struct {
	Shots int
	// Workers caps concurrent shots; zero means GOMAXPROCS.
	Workers int
	// Reporter receives decode warnings, deduplicated across shots.
	Reporter diag.Reporter
	// Events receives progress; it is closed when the run ends.
	Events chan<- Event
}

// Result aggregates decoded outcomes over all shots.
type Result struct {
	Shots int
	// Counts maps an outcome string such as "01" or "?1" to its frequency.
	Counts map[string]int
	// Undefined counts shots with at least one undefined outcome.
	Undefined int
	// Warnings is the total number of decode warnings raised.
	Warnings int
	// Qubits lists the logical qubit behind each outcome column.
	Qubits []int
}

// Keys returns outcome strings in lexical order.
func (r *Result) Keys() []string {
	keys := make([]string, 0, len(r.Counts))
	for k := range r.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type shotResult struct {
	outcome   string
	undefined bool
	warnings  int
}

// Run executes c for opts.Shots shots on b. Shot i uses seed stream i, so
// results do not depend on the worker count.
func Run(ctx context.Context, c *encode.Compiled, b Backend, opts Options) (*Result, error) {
	if opts.Events != nil {
		defer close(opts.Events)
	}
	if opts.Shots <= 0 {
		return nil, fmt.Errorf("shots must be positive, got %d", opts.Shots)
	}
	span, ctx := trace.Start(ctx, trace.ScopePass, "run")
	defer span.End(fmt.Sprintf("shots=%d", opts.Shots))

	jobs := opts.Workers
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	var reporter diag.Reporter = diag.NopReporter{}
	var dedup *diag.DedupReporter
	if opts.Reporter != nil {
		dedup = diag.NewDedupReporter(opts.Reporter)
		reporter = dedup
	}

	list := c.Gadget.Instructions()
	registers := len(c.Gadget.Measure)
	results := make([]shotResult, opts.Shots)
	var done atomic.Int64

	emit(ctx, opts.Events, Event{Status: StatusStarted, Total: opts.Shots})
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, opts.Shots))
	for i := range results {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := runShot(gctx, c, b, list, registers, uint64(i), reporter)
			if err != nil {
				return fmt.Errorf("shot %d: %w", i, err)
			}
			results[i] = res
			n := int(done.Add(1))
			trace.Mark(gctx, trace.ScopeShot, fmt.Sprintf("shot %d", i), res.outcome)
			emit(gctx, opts.Events, Event{Status: StatusProgress, Done: n, Total: opts.Shots})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		emit(ctx, opts.Events, Event{Status: StatusFailed, Done: int(done.Load()), Total: opts.Shots, Err: err})
		return nil, err
	}

	out := &Result{Shots: opts.Shots, Counts: map[string]int{}, Qubits: c.Outcomes}
	for _, r := range results {
		out.Counts[r.outcome]++
		out.Warnings += r.warnings
		if r.undefined {
			out.Undefined++
		}
	}
	if out.Undefined > 0 && opts.Reporter != nil {
		diag.ReportWarning(opts.Reporter, diag.RunUndefined, diag.NoSite,
			fmt.Sprintf("%d of %d shots lost a block correction", out.Undefined, out.Shots)).Emit()
	}
	if dedup != nil && dedup.Suppressed() > 0 {
		diag.ReportInfo(opts.Reporter, diag.DecInfo, diag.NoSite,
			fmt.Sprintf("%d repeated decode warnings suppressed", dedup.Suppressed())).Emit()
	}
	emit(ctx, opts.Events, Event{Status: StatusDone, Done: opts.Shots, Total: opts.Shots})
	return out, nil
}

func runShot(ctx context.Context, c *encode.Compiled, b Backend, list []circuit.Instruction, registers int, shot uint64, r diag.Reporter) (shotResult, error) {
	regs, err := b.Run(ctx, list, c.Qubits, registers, shot)
	if err != nil {
		return shotResult{}, err
	}
	if len(regs) != registers {
		return shotResult{}, fmt.Errorf("backend returned %d registers, want %d", len(regs), registers)
	}
	bits := make([]uint8, len(c.Gadget.Measure))
	for i, m := range c.Gadget.Measure {
		bits[i] = regs[m.Register]
	}
	outs, dctx, err := c.Decode(bits, r)
	if err != nil {
		return shotResult{}, err
	}
	return shotResult{
		outcome:   render(outs),
		undefined: hasUndefined(outs),
		warnings:  dctx.Warnings(),
	}, nil
}

func render(outs []gadget.Outcome) string {
	var b strings.Builder
	for _, o := range outs {
		b.WriteString(o.String())
	}
	return b.String()
}

func hasUndefined(outs []gadget.Outcome) bool {
	for _, o := range outs {
		if o == gadget.Undefined {
			return true
		}
	}
	return false
}
