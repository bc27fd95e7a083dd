package syndrome

import (
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"qstack/internal/pauli"
)

func group(ss ...string) []pauli.String {
	out := make([]pauli.String, len(ss))
	for i, s := range ss {
		out[i] = pauli.MustParse(s)
	}
	return out
}

var steane = group("XIIXXXI", "IXIXIXX", "IIXIXXX", "ZIIZZZI", "IZIZIZZ", "IIZIZZZ")

func TestBuild_WeightZero(t *testing.T) {
	tbl := Build(group("ZZI", "ZIZ"), 0)
	if tbl.Len() != 1 {
		t.Fatalf("weight-0 table has %d entries:\n%s", tbl.Len(), spew.Sdump(tbl.Syndromes()))
	}
	p, ok := tbl.Lookup(Syndrome{0, 0})
	if !ok || !p.Equal(pauli.Identity(3)) {
		t.Errorf("trivial syndrome -> %v, %v", p, ok)
	}
}

func TestBuild_Repetition(t *testing.T) {
	tbl := Build(group("ZZI", "ZIZ"), 1)
	tests := []struct {
		syn  Syndrome
		want string
	}{
		{Syndrome{0, 0}, "III"},
		{Syndrome{1, 1}, "XII"},
		{Syndrome{1, 0}, "IXI"},
		{Syndrome{0, 1}, "IIX"},
	}
	for _, tt := range tests {
		got, ok := tbl.Lookup(tt.syn)
		if !ok || got.String() != tt.want {
			t.Errorf("Lookup(%s) = %v, %v; want %s", tt.syn, got, ok, tt.want)
		}
	}
	if tbl.Len() != 4 {
		t.Errorf("table has %d entries, want 4", tbl.Len())
	}
}

func TestBuild_SteaneCoversEverySingleError(t *testing.T) {
	tbl := Build(steane, 1)
	// The trivial syndrome plus 21 distinct single-qubit syndromes.
	if tbl.Len() != 22 {
		t.Fatalf("steane table has %d entries, want 22", tbl.Len())
	}
	for pos := 0; pos < 7; pos++ {
		for _, op := range []pauli.Pauli{pauli.X, pauli.Y, pauli.Z} {
			e := pauli.Identity(7)
			e[pos] = op
			got, ok := tbl.Lookup(Measure(steane, e))
			if !ok || !got.Equal(e) {
				t.Errorf("error %v decoded as %v", e, got)
			}
		}
	}
}

func TestBuild_SteaneWeightTwoFillsEverySyndrome(t *testing.T) {
	tbl := Build(steane, 2)
	if tbl.Len() != 64 {
		t.Fatalf("weight-2 steane table has %d entries, want 64", tbl.Len())
	}
	// Weight-1 entries survive: lower weights are enumerated first.
	e := pauli.MustParse("IIIYIII")
	if got, ok := tbl.Lookup(Measure(steane, e)); !ok || !got.Equal(e) {
		t.Errorf("IIIYIII decoded as %v", got)
	}
}

func TestBuild_FirstWriterWins(t *testing.T) {
	// Z errors are invisible to a Z-only group; the trivial entry must stay I.
	tbl := Build(group("ZZI", "ZIZ"), 1)
	got, _ := tbl.Lookup(Syndrome{0, 0})
	if got.Weight() != 0 {
		t.Errorf("trivial syndrome overwritten by %v", got)
	}
	// X and Y on qubit 0 share a syndrome; X is tried first.
	got, _ = tbl.Lookup(Syndrome{1, 1})
	if got.String() != "XII" {
		t.Errorf("(1,1) -> %v, want XII", got)
	}
}

func TestView_PermutesCallerOrder(t *testing.T) {
	c := NewCache(nil)
	fwd, err := c.View(group("ZZI", "ZIZ"), 1)
	if err != nil {
		t.Fatal(err)
	}
	rev, err := c.View(group("ZIZ", "ZZI"), 1)
	if err != nil {
		t.Fatal(err)
	}
	if fwd.Table != rev.Table {
		t.Fatal("same generator set must share one table")
	}
	a, _ := fwd.Lookup(Syndrome{1, 0})
	b, _ := rev.Lookup(Syndrome{0, 1})
	if a.String() != "IXI" || b.String() != "IXI" {
		t.Errorf("forward %v, reversed %v; want IXI for both", a, b)
	}
	if _, ok := fwd.Lookup(Syndrome{1}); ok {
		t.Error("short syndrome must miss")
	}
}

func TestCache_SignsShareTables(t *testing.T) {
	c := NewCache(nil)
	if _, err := c.View(group("ZZI", "ZIZ"), 1); err != nil {
		t.Fatal(err)
	}
	if _, err := c.View(group("-ZZI", "ZIZ"), 1); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 {
		t.Errorf("cache has %d tables, want 1", c.Len())
	}
	if _, err := c.View(group("ZZI", "ZIZ"), 2); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Errorf("weight bound must be part of the key, got %d tables", c.Len())
	}
}

func TestCache_BuildOnceConcurrently(t *testing.T) {
	c := NewCache(nil)
	var wg sync.WaitGroup
	views := make([]View, 32)
	for i := range views {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.View(steane, 1)
			if err != nil {
				t.Error(err)
				return
			}
			views[i] = v
		}(i)
	}
	wg.Wait()
	if got := c.Stats().Builds; got != 1 {
		t.Errorf("built %d times, want 1", got)
	}
	for i := range views {
		if views[i].Table != views[0].Table {
			t.Fatalf("view %d got a different table", i)
		}
	}
}

func TestDiskStore_RoundTrip(t *testing.T) {
	store, err := OpenDiskStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	tbl := Build(steane, 1)
	if err := store.Put(tbl); err != nil {
		t.Fatal(err)
	}
	got, found, err := store.Get(tbl.Key)
	if err != nil || !found {
		t.Fatalf("Get = %v, %v", found, err)
	}
	if got.Len() != tbl.Len() || got.Width != tbl.Width || got.MaxWeight != tbl.MaxWeight {
		t.Fatalf("round trip mismatch:\n%s", spew.Sdump(got.Syndromes()))
	}
	for _, k := range tbl.Syndromes() {
		if !got.entries[k].Equal(tbl.entries[k]) {
			t.Errorf("syndrome %s: %v != %v", k, got.entries[k], tbl.entries[k])
		}
	}
	if _, found, _ := store.Get("w1|missing"); found {
		t.Error("unexpected hit for unknown key")
	}
}

func TestCache_UsesDiskStore(t *testing.T) {
	store, err := OpenDiskStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	first := NewCache(store)
	if _, err := first.View(steane, 1); err != nil {
		t.Fatal(err)
	}
	second := NewCache(store)
	if _, err := second.View(steane, 1); err != nil {
		t.Fatal(err)
	}
	if s := second.Stats(); s.Builds != 0 || s.DiskHits != 1 {
		t.Errorf("second session stats = %+v, want one disk hit and no build", s)
	}
}
