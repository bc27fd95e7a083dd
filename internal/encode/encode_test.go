package encode

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"qstack/internal/circuit"
	"qstack/internal/diag"
	"qstack/internal/gadget"
	"qstack/internal/pauli"
	"qstack/internal/program"
	"qstack/internal/sim"
	"qstack/internal/syndrome"
	"qstack/internal/testkit"
)

// prog builds a program from lines like "prepare 0" or "cx 0 1".
func prog(qubits int, lines ...string) *program.Program {
	p := &program.Program{Name: "test", Qubits: qubits}
	for _, line := range lines {
		f := strings.Fields(line)
		op := program.Op{Gate: f[0]}
		for _, a := range f[1:] {
			var q int
			fmt.Sscan(a, &q)
			op.Targets = append(op.Targets, q)
		}
		p.Ops = append(p.Ops, op)
	}
	return p
}

func compile(t *testing.T, code string, p *program.Program, r diag.Reporter) *Compiled {
	t.Helper()
	c, err := Lookup(code)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Compile(context.Background(), p, c, Options{Reporter: r})
	if err != nil {
		t.Fatal(err)
	}
	if err := testkit.CheckGadgetInvariants(out.Gadget, out.Qubits); err != nil {
		t.Fatal(err)
	}
	return out
}

// shot runs one simulated shot and decodes it.
func shot(c *Compiled, s *sim.Simulator, n uint64, r diag.Reporter) ([]gadget.Outcome, *gadget.Context) {
	list := c.Gadget.Instructions()
	regs, err := s.Run(context.Background(), list, c.Qubits, len(c.Gadget.Measure), n)
	So(err, ShouldBeNil)
	bits := make([]uint8, len(c.Gadget.Measure))
	for i, m := range c.Gadget.Measure {
		bits[i] = regs[m.Register]
	}
	outs, ctx, err := c.Decode(bits, r)
	So(err, ShouldBeNil)
	return outs, ctx
}

func sortedLines(s string) []string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	sort.Strings(lines)
	return lines
}

func outcomes(outs []gadget.Outcome) string {
	var b strings.Builder
	for _, o := range outs {
		b.WriteString(o.String())
	}
	return b.String()
}

// afterPrepare is the index of the last encoding gate of the first op.
func afterPrepare(c *Compiled) int {
	return len(c.Gadget.Prepare) + len(c.Code.Prepare(make([]circuit.Qubit, c.Code.Size()))) - 1
}

func afterCompute(c *Compiled) int {
	return len(c.Gadget.Prepare) + len(c.Gadget.Compute) - 1
}

func TestCodes_Noiseless(t *testing.T) {
	cases := []struct {
		name  string
		lines []string
		want  string
	}{
		{"zero", []string{"prepare 0", "measure 0"}, "0"},
		{"x", []string{"prepare 0", "x 0", "measure 0"}, "1"},
		{"xx", []string{"prepare 0", "x 0", "x 0", "measure 0"}, "0"},
		{"hh", []string{"prepare 0", "h 0", "h 0", "measure 0"}, "0"},
		{"hxh", []string{"prepare 0", "h 0", "x 0", "h 0", "measure 0"}, "0"},
		{"cx 10", []string{"prepare 0", "prepare 1", "x 0", "cx 0 1", "measure 0", "measure 1"}, "11"},
		{"cx 00", []string{"prepare 0", "prepare 1", "cx 0 1", "measure 0", "measure 1"}, "00"},
		{"cx 01", []string{"prepare 0", "prepare 1", "x 1", "cx 0 1", "measure 0", "measure 1"}, "01"},
		{"cx 11", []string{"prepare 0", "prepare 1", "x 0", "x 1", "cx 0 1", "measure 0", "measure 1"}, "10"},
	}
	for _, code := range Names() {
		for _, tc := range cases {
			Convey(fmt.Sprintf("%s: %s", code, tc.name), t, func() {
				c := compile(t, code, prog(2, tc.lines...), nil)
				s := &sim.Simulator{Seed: 3}
				for n := uint64(0); n < 4; n++ {
					outs, ctx := shot(c, s, n, nil)
					So(outcomes(outs), ShouldEqual, tc.want)
					So(ctx.Warnings(), ShouldEqual, 0)
				}
			})
		}
	}
}

func TestCodes_BellPairsAgree(t *testing.T) {
	for _, code := range Names() {
		Convey(code+" bell pair", t, func() {
			c := compile(t, code, prog(2, "prepare 0", "prepare 1", "h 0", "cx 0 1", "measure 0", "measure 1"), nil)
			s := &sim.Simulator{Seed: 11}
			seen := map[string]int{}
			for n := uint64(0); n < 24; n++ {
				outs, _ := shot(c, s, n, nil)
				seen[outcomes(outs)]++
			}
			So(seen["01"]+seen["10"], ShouldEqual, 0)
			So(seen["00"], ShouldBeGreaterThan, 0)
			So(seen["11"], ShouldBeGreaterThan, 0)
		})
	}
}

func TestRepetition_SingleErrorCorrected(t *testing.T) {
	Convey("an X on qubit 1 after preparation", t, func() {
		c := compile(t, "repetition", prog(1, "prepare 0", "measure 0"), nil)
		s := &sim.Simulator{Inject: []sim.Injection{{After: afterPrepare(c), Qubit: 1, Pauli: pauli.X}}}
		outs, ctx := shot(c, s, 0, nil)

		Convey("is located and read out as 0", func() {
			So(outcomes(outs), ShouldEqual, "0")
			frame, _ := ctx.Frame(3)
			So(frame.String(), ShouldEqual, "IXI")
		})
	})

	Convey("a flip after the last extraction is absorbed by majority", t, func() {
		c := compile(t, "repetition", prog(1, "prepare 0", "x 0", "measure 0"), nil)
		s := &sim.Simulator{Inject: []sim.Injection{{After: afterCompute(c), Qubit: 2, Pauli: pauli.X}}}
		outs, _ := shot(c, s, 0, nil)
		So(outcomes(outs), ShouldEqual, "1")
	})
}

func TestSteane_SingleErrorsCorrected(t *testing.T) {
	Convey("every single-qubit error after encoding is corrected", t, func() {
		c := compile(t, "steane", prog(1, "prepare 0", "x 0", "measure 0"), nil)
		for q := 0; q < 7; q++ {
			for _, p := range []pauli.Pauli{pauli.X, pauli.Y, pauli.Z} {
				s := &sim.Simulator{Inject: []sim.Injection{{After: afterPrepare(c), Qubit: circuit.Qubit(q), Pauli: p}}}
				outs, ctx := shot(c, s, 0, nil)
				So(outcomes(outs), ShouldEqual, "1")
				So(ctx.Warnings(), ShouldEqual, 0)
			}
		}
	})

	Convey("a noiseless |0⟩ has a trivial syndrome on all six generators", t, func() {
		c := compile(t, "steane", prog(1, "prepare 0", "measure 0"), nil)
		regs, err := (&sim.Simulator{}).Run(context.Background(), c.Gadget.Instructions(), c.Qubits, len(c.Gadget.Measure), 0)
		So(err, ShouldBeNil)
		var syndromeBits []uint8
		for _, m := range c.Gadget.Measure {
			if int(m.Targets[0]) >= c.Data {
				syndromeBits = append(syndromeBits, regs[m.Register])
			}
		}
		So(syndromeBits, ShouldResemble, []uint8{0, 0, 0, 0, 0, 0})

		_, ctx := shot(c, &sim.Simulator{}, 0, nil)
		So(ctx.Warnings(), ShouldEqual, 0)
		frame, lost := ctx.Frame(7)
		So(frame.Weight(), ShouldEqual, 0)
		So(lost, ShouldNotContain, true)
	})
}

func TestRepetition_HadamardAborts(t *testing.T) {
	Convey("a fault inside the repetition H", t, func() {
		bag := diag.NewBag(16)
		r := &diag.BagReporter{Bag: bag}
		c := compile(t, "repetition", prog(1, "prepare 0", "h 0", "measure 0"), r)
		So(bag.Items()[0].Code, ShouldEqual, diag.EncNotFaultTolerant)

		// The H circuit follows the prepare extraction in the compute list.
		hStart := len(c.Gadget.Prepare) + 2*4 // two generators, four gates each
		s := &sim.Simulator{Inject: []sim.Injection{{After: hStart + 2, Qubit: 1, Pauli: pauli.X}}}
		outs, ctx := shot(c, s, 0, r)

		Convey("loses the block and reads out undefined", func() {
			So(outcomes(outs), ShouldEqual, "?")
			So(ctx.Lost(0), ShouldBeTrue)
			So(ctx.Warnings(), ShouldEqual, 1)
		})
	})
}

func TestSession_Tracking(t *testing.T) {
	Convey("generators follow logical gates", t, func() {
		code, _ := Lookup("repetition")
		s := NewSession(context.Background(), code, 2, Options{})
		_, err := s.Prepare(0)
		So(err, ShouldBeNil)
		_, err = s.Prepare(1)
		So(err, ShouldBeNil)
		So(s.Describe(), ShouldEqual, "ZZIIII\nZIZIII\nIIIZZI\nIIIZIZ\n")

		Convey("a transversal CX is localized back onto each block", func() {
			_, err := s.CX(0, 1)
			So(err, ShouldBeNil)
			for _, g := range s.Tracker().Generators() {
				sup := g.Support()
				So(sup[0]/3, ShouldEqual, sup[len(sup)-1]/3)
			}
			So(s.Tracker().Len(), ShouldEqual, 4)
		})

		Convey("measure drops the block's generators", func() {
			_, err := s.Measure(0)
			So(err, ShouldBeNil)
			So(s.Describe(), ShouldEqual, "IIIZZI\nIIIZIZ\n")
			So(s.Unmeasured(), ShouldResemble, []int{1})
		})
	})

	Convey("steane H maps the generator set onto itself", t, func() {
		code, _ := Lookup("steane")
		s := NewSession(context.Background(), code, 1, Options{})
		_, _ = s.Prepare(0)
		before := s.Describe()
		_, err := s.H(0)
		So(err, ShouldBeNil)
		So(sortedLines(s.Describe()), ShouldResemble, sortedLines(before))
	})
}

func TestSession_RejectsMisuse(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  diag.Code
	}{
		{"unprepared", []string{"x 0"}, diag.PrgUnprepared},
		{"twice", []string{"prepare 0", "prepare 0"}, diag.PrgReprepared},
		{"after measure", []string{"prepare 0", "measure 0", "h 0"}, diag.PrgRemeasured},
		{"cx unprepared", []string{"prepare 0", "cx 0 1"}, diag.PrgUnprepared},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := Lookup("repetition")
			bag := diag.NewBag(8)
			_, err := Compile(context.Background(), prog(2, tt.lines...), code, Options{Reporter: &diag.BagReporter{Bag: bag}})
			var oe *OpError
			if !errors.As(err, &oe) || oe.Code != tt.want {
				t.Fatalf("err = %v", err)
			}
			if oe.Op != len(tt.lines)-1 {
				t.Errorf("op = %d, want %d", oe.Op, len(tt.lines)-1)
			}
			if !bag.HasErrors() {
				t.Error("error not reported")
			}
		})
	}
}

func TestCompile_InvalidProgram(t *testing.T) {
	code, _ := Lookup("steane")
	_, err := Compile(context.Background(), prog(1, "t 0"), code, Options{})
	if !errors.Is(err, ErrInvalidProgram) {
		t.Fatalf("err = %v", err)
	}
}

func TestCompile_SharesTables(t *testing.T) {
	cache := syndrome.NewCache(nil)
	code, _ := Lookup("steane")
	p := prog(2, "prepare 0", "prepare 1", "h 0", "cx 0 1", "measure 0", "measure 1")
	for i := 0; i < 2; i++ {
		if _, err := Compile(context.Background(), p, code, Options{Cache: cache}); err != nil {
			t.Fatal(err)
		}
	}
	if s := cache.Stats(); s.Builds != 1 {
		t.Errorf("stats = %+v, want a single table build", s)
	}
}

func TestLookup(t *testing.T) {
	if _, err := Lookup("Steane"); err != nil {
		t.Error(err)
	}
	if _, err := Lookup("surface"); err == nil {
		t.Error("unknown code must fail")
	}
	if got := strings.Join(Names(), ","); got != "phase,repetition,steane" {
		t.Errorf("names = %s", got)
	}
}

func TestSteane_Readout(t *testing.T) {
	var code steane
	tests := []struct {
		bits []uint8
		want uint8
	}{
		{[]uint8{0, 0, 0, 0, 0, 0, 0}, 0},
		{[]uint8{1, 0, 0, 1, 1, 1, 0}, 0},
		{[]uint8{0, 0, 0, 1, 1, 0, 1}, 1},
		{[]uint8{0, 1, 0, 0, 0, 0, 0}, 0},
		{[]uint8{0, 0, 0, 1, 1, 0, 0}, 1},
	}
	for _, tt := range tests {
		if got := code.Readout(tt.bits); got != tt.want {
			t.Errorf("Readout(%v) = %d, want %d", tt.bits, got, tt.want)
		}
	}
}
