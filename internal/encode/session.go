package encode

import (
	"context"
	"fmt"
	"strings"

	"qstack/internal/circuit"
	"qstack/internal/diag"
	"qstack/internal/gadget"
	"qstack/internal/pauli"
	"qstack/internal/stabilizer"
	"qstack/internal/syndrome"
	"qstack/internal/trace"
)

type qubitState uint8

const (
	stateFresh qubitState = iota
	stateLive
	stateMeasured
)

// Options configures a Session.
type Options struct {
	// MaxWeight overrides the code's own correction weight when positive.
	MaxWeight int
	// Cache is shared across sessions; a private one is created when nil.
	Cache    *syndrome.Cache
	Reporter diag.Reporter
}

// Session lowers logical operations on a fixed set of logical qubits onto
// one code. It owns the tracker and the allocator; neither is safe for
// concurrent use.
type Session struct {
	code      Code
	maxWeight int
	tracker   *stabilizer.Tracker
	alloc     *circuit.Allocator
	cache     *syndrome.Cache
	reporter  diag.Reporter
	blocks    [][]circuit.Qubit
	state     []qubitState
	ctx       context.Context
	op        int
}

// NewSession lays out logical qubits 0..logical-1 on consecutive blocks of
// data qubits. Ancillas are allocated after the data register.
func NewSession(ctx context.Context, code Code, logical int, opts Options) *Session {
	d := code.Size()
	data := logical * d
	cache := opts.Cache
	if cache == nil {
		cache = syndrome.NewCache(nil)
	}
	w := opts.MaxWeight
	if w <= 0 {
		w = code.MaxWeight()
	}
	s := &Session{
		code:      code,
		maxWeight: w,
		tracker:   stabilizer.New(data),
		alloc:     circuit.NewAllocator(uint32(data), 0),
		cache:     cache,
		reporter:  opts.Reporter,
		blocks:    make([][]circuit.Qubit, logical),
		state:     make([]qubitState, logical),
		ctx:       ctx,
		op:        -1,
	}
	for l := range s.blocks {
		b := make([]circuit.Qubit, d)
		for i := range b {
			b[i] = circuit.Qubit(l*d + i)
		}
		s.blocks[l] = b
	}
	return s
}

// Code is the session's code family.
func (s *Session) Code() Code { return s.code }

// Block returns the physical qubits of logical qubit l.
func (s *Session) Block(l int) []circuit.Qubit { return s.blocks[l] }

// Tracker exposes the stabilizer state for inspection.
func (s *Session) Tracker() *stabilizer.Tracker { return s.tracker }

// Allocator exposes qubit and register counts.
func (s *Session) Allocator() *circuit.Allocator { return s.alloc }

// Cache is the table cache the session draws from.
func (s *Session) Cache() *syndrome.Cache { return s.cache }

// At sets the op index attached to later diagnostics.
func (s *Session) At(op int) { s.op = op }

// Unmeasured lists logical qubits that were prepared but never measured.
func (s *Session) Unmeasured() []int {
	var out []int
	for l, st := range s.state {
		if st == stateLive {
			out = append(out, l)
		}
	}
	return out
}

// OpError is a logical operation the session refused.
type OpError struct {
	Op   int
	Gate string
	Code diag.Code
	Msg  string
}

func (e *OpError) Error() string {
	return fmt.Sprintf("op %d (%s): %s", e.Op, e.Gate, e.Msg)
}

// Diagnostic renders the error for a diag.Bag.
func (e *OpError) Diagnostic() diag.Diagnostic {
	return diag.NewError(e.Code, diag.AtOp(e.Op, e.Gate), e.Msg)
}

func (s *Session) fail(gate string, code diag.Code, format string, args ...any) error {
	return &OpError{Op: s.op, Gate: gate, Code: code, Msg: fmt.Sprintf(format, args...)}
}

func (s *Session) require(gate string, ls ...int) error {
	for _, l := range ls {
		if l < 0 || l >= len(s.blocks) {
			return s.fail(gate, diag.PrgBadQubit, "logical qubit %d out of range", l)
		}
		switch s.state[l] {
		case stateFresh:
			return s.fail(gate, diag.PrgUnprepared, "logical qubit %d used before prepare", l)
		case stateMeasured:
			return s.fail(gate, diag.PrgRemeasured, "logical qubit %d used after measurement", l)
		}
	}
	return nil
}

func (s *Session) site(gadgetName string) diag.Site {
	return diag.AtOp(s.op, gadgetName)
}

func (s *Session) point(name string, g gadget.Gadget) {
	if !trace.Enabled(s.ctx, trace.ScopeGadget) {
		return
	}
	trace.Mark(s.ctx, trace.ScopeGadget, name,
		fmt.Sprintf("op %d: prepare=%d compute=%d measure=%d", s.op, len(g.Prepare), len(g.Compute), len(g.Measure)))
}

// apply pushes the tracker through gates and returns the frame-tracking
// gadget that runs them.
func (s *Session) apply(name string, gates []circuit.Instruction) gadget.Gadget {
	for _, in := range gates {
		s.tracker.Conjugate(in)
	}
	return gadget.Track(name, gates)
}

// correct builds extraction gadgets for every generator on blocks. The
// generators are split into independent groups first so each group decodes
// against its own table.
func (s *Session) correct(name string, abort bool, blocks ...[]circuit.Qubit) (gadget.Gadget, error) {
	var touched []circuit.Qubit
	for _, b := range blocks {
		s.tracker.Localize(b)
		touched = append(touched, b...)
	}
	var parts []gadget.Gadget
	for i, group := range components(s.tracker.FindGroup(touched)) {
		ex, err := gadget.Extract(s.alloc, group, s.cache, gadget.ExtractOptions{
			Name:      fmt.Sprintf("%s.extract%d", name, i),
			MaxWeight: s.maxWeight,
			Abort:     abort,
			Site:      s.site(name),
		})
		if err != nil {
			return gadget.Gadget{}, err
		}
		parts = append(parts, ex)
	}
	return gadget.Sequence(name+".extract", parts...)
}

// Prepare encodes |0⟩ into logical qubit l.
func (s *Session) Prepare(l int) (gadget.Gadget, error) {
	if l < 0 || l >= len(s.blocks) {
		return gadget.Gadget{}, s.fail("prepare", diag.PrgBadQubit, "logical qubit %d out of range", l)
	}
	if s.state[l] != stateFresh {
		return gadget.Gadget{}, s.fail("prepare", diag.PrgReprepared, "logical qubit %d prepared twice", l)
	}
	block := s.blocks[l]
	name := fmt.Sprintf("prepare(q%d)", l)

	enc := gadget.Gadget{Name: name}
	for _, q := range block {
		enc.Prepare = append(enc.Prepare, circuit.Prepare(q))
	}
	enc.Compute = s.code.Prepare(block)
	enc.Decoder = &gadget.Decoder{Fn: func(_ []uint8, ctx *gadget.Context) ([]gadget.Outcome, error) {
		ctx.Reset(block...)
		return nil, nil
	}}
	for _, g := range s.code.Generators() {
		s.tracker.Add(g, block)
	}
	s.state[l] = stateLive

	return s.finish(name, false, enc, block)
}

// X applies logical X to l.
func (s *Session) X(l int) (gadget.Gadget, error) {
	if err := s.require("x", l); err != nil {
		return gadget.Gadget{}, err
	}
	name := fmt.Sprintf("x(q%d)", l)
	return s.finish(name, false, s.apply(name, s.code.LogicalX(s.blocks[l])), s.blocks[l])
}

// H applies logical H to l. Codes without a transversal H get an
// abort-mode extraction: any syndrome afterwards loses the block.
func (s *Session) H(l int) (gadget.Gadget, error) {
	if err := s.require("h", l); err != nil {
		return gadget.Gadget{}, err
	}
	name := fmt.Sprintf("h(q%d)", l)
	gates, transversal := s.code.Hadamard(s.blocks[l])
	if !transversal {
		diag.ReportInfo(s.reporter, diag.EncNotFaultTolerant, s.site(name),
			fmt.Sprintf("%s has no transversal H; a fault here loses the block", s.code.Name())).Emit()
	}
	return s.finish(name, !transversal, s.apply(name, gates), s.blocks[l])
}

// CX applies logical CX from c to t.
func (s *Session) CX(c, t int) (gadget.Gadget, error) {
	if err := s.require("cx", c, t); err != nil {
		return gadget.Gadget{}, err
	}
	if c == t {
		return gadget.Gadget{}, s.fail("cx", diag.PrgSameQubitPair, "cx on q%d twice", c)
	}
	name := fmt.Sprintf("cx(q%d,q%d)", c, t)
	gates := s.code.CX(s.blocks[c], s.blocks[t])
	return s.finish(name, false, s.apply(name, gates), s.blocks[c], s.blocks[t])
}

// Measure reads l out. The gadget yields one outcome: the logical bit, or
// Undefined when the block's correction is unknown.
func (s *Session) Measure(l int) (gadget.Gadget, error) {
	if err := s.require("measure", l); err != nil {
		return gadget.Gadget{}, err
	}
	block := s.blocks[l]
	name := fmt.Sprintf("measure(q%d)", l)

	basis := s.apply(name+".basis", s.code.ReadoutBasis(block))
	s.tracker.Localize(block)
	s.tracker.RemoveTouching(block)
	s.state[l] = stateMeasured

	read := gadget.Gadget{Name: name}
	for _, q := range block {
		read.Measure = append(read.Measure, circuit.Measure(q, s.alloc.Register()))
	}
	code := s.code
	read.Decoder = &gadget.Decoder{
		Width: len(block),
		Fn: func(bits []uint8, ctx *gadget.Context) ([]gadget.Outcome, error) {
			frame, ok := ctx.Block(block)
			if !ok {
				return []gadget.Outcome{gadget.Undefined}, nil
			}
			fixed := make([]uint8, len(bits))
			for i, b := range bits {
				fixed[i] = b & 1
				if frame[i].HasX() {
					fixed[i] ^= 1
				}
			}
			return []gadget.Outcome{gadget.FromBit(code.Readout(fixed))}, nil
		},
	}
	g, err := gadget.Sequence(name, basis, read)
	if err != nil {
		return gadget.Gadget{}, err
	}
	s.point(name, g)
	return g, nil
}

func (s *Session) finish(name string, abort bool, body gadget.Gadget, blocks ...[]circuit.Qubit) (gadget.Gadget, error) {
	ex, err := s.correct(name, abort, blocks...)
	if err != nil {
		return gadget.Gadget{}, err
	}
	g, err := gadget.Sequence(name, body, ex)
	if err != nil {
		return gadget.Gadget{}, err
	}
	s.point(name, g)
	return g, nil
}

// components splits a group into classes of generators connected through
// shared qubits, keeping tracker order inside each class.
func components(group []pauli.String) [][]pauli.String {
	parent := make([]int, len(group))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	owner := map[int]int{}
	for i, g := range group {
		for _, q := range g.Support() {
			if j, ok := owner[q]; ok {
				parent[find(i)] = find(j)
				continue
			}
			owner[q] = i
		}
	}
	index := map[int]int{}
	var out [][]pauli.String
	for i, g := range group {
		root := find(i)
		k, ok := index[root]
		if !ok {
			k = len(out)
			index[root] = k
			out = append(out, nil)
		}
		out[k] = append(out[k], g)
	}
	return out
}

// Describe renders the tracked generators, one per line.
func (s *Session) Describe() string {
	var b strings.Builder
	for _, g := range s.tracker.Generators() {
		b.WriteString(g.String())
		b.WriteByte('\n')
	}
	return b.String()
}
