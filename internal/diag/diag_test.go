package diag

import "testing"

func TestFormatShort(t *testing.T) {
	diags := []Diagnostic{
		NewWarning(DecUnknownSyndrome, AtOp(3, "extract"), "syndrome 101\nnot found").
			WithNote(Site{Op: 3, Gadget: "extract", Qubits: []uint32{0, 1, 2}}, "block left unchanged"),
		NewError(PrgUnprepared, AtOp(1, "x"), "q1 used before prepare"),
	}

	expected := "error PRG1005 op 1 x: q1 used before prepare\n" +
		"warning DEC4001 op 3 extract: syndrome 101 not found\n" +
		"note DEC4001 op 3 extract q[0,1,2]: block left unchanged"

	if got := FormatShort(diags, true); got != expected {
		t.Fatalf("unexpected diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestBag_LimitAndErrors(t *testing.T) {
	b := NewBag(2)
	r := &BagReporter{Bag: b}
	ReportWarning(r, DecUnknownSyndrome, NoSite, "a").Emit()
	if b.HasErrors() || !b.HasWarnings() {
		t.Fatal("expected only a warning")
	}
	ReportError(r, PrgEmpty, NoSite, "b").Emit()
	ReportError(r, PrgEmpty, NoSite, "c").Emit()
	if b.Len() != 2 || !b.HasErrors() {
		t.Fatalf("bag len %d, errors %v", b.Len(), b.HasErrors())
	}
	if NewBag(-1).Cap() != 0 || NewBag(1<<20).Cap() != 65535 {
		t.Error("bag limit must clamp to uint16")
	}
}

func TestReportBuilder_EmitOnce(t *testing.T) {
	b := NewBag(8)
	rb := ReportInfo(&BagReporter{Bag: b}, EncNotFaultTolerant, AtOp(0, "h"), "decode-H-re-encode")
	rb.Emit()
	rb.Emit()
	if b.Len() != 1 {
		t.Fatalf("emitted %d times", b.Len())
	}
}

func TestDedupReporter(t *testing.T) {
	b := NewBag(8)
	d := NewDedupReporter(&BagReporter{Bag: b})
	for i := 0; i < 5; i++ {
		d.Report(DecUnknownSyndrome, SevWarning, AtOp(2, "extract"), "syndrome 11", nil)
	}
	d.Report(DecUnknownSyndrome, SevWarning, AtOp(4, "extract"), "syndrome 11", nil)
	if b.Len() != 2 {
		t.Fatalf("forwarded %d, want 2", b.Len())
	}
	if d.Suppressed() != 4 {
		t.Errorf("suppressed %d, want 4", d.Suppressed())
	}
}

func TestCode_ID(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{PrgUnknownGate, "PRG1002"},
		{CmpWidthMismatch, "CMP3001"},
		{DecBlockLost, "DEC4002"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d.ID() = %s, want %s", tt.code, got, tt.want)
		}
	}
}
