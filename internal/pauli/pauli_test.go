package pauli

import "testing"

func all16() []Pauli {
	out := make([]Pauli, 0, 16)
	for phase := uint8(0); phase < 4; phase++ {
		for _, p := range []Pauli{I, X, Y, Z} {
			out = append(out, p.WithPhase(phase))
		}
	}
	return out
}

func inSet(p Pauli) bool {
	for _, q := range all16() {
		if p == q {
			return true
		}
	}
	return false
}

func TestMul_Closure(t *testing.T) {
	for _, a := range all16() {
		for _, b := range all16() {
			if got := Mul(a, b); !inSet(got) {
				t.Fatalf("%v * %v = %#v, outside the group", a, b, got)
			}
		}
	}
}

func TestMul_Associative(t *testing.T) {
	for _, a := range all16() {
		for _, b := range all16() {
			for _, c := range all16() {
				left := Mul(Mul(a, b), c)
				right := Mul(a, Mul(b, c))
				if left != right {
					t.Fatalf("(%v*%v)*%v = %v, %v*(%v*%v) = %v", a, b, c, left, a, b, c, right)
				}
			}
		}
	}
}

func TestMul_SelfInverse(t *testing.T) {
	for _, p := range []Pauli{X, Y, Z} {
		if got := Mul(p, p); got != I {
			t.Errorf("%v*%v = %v, want I", p, p, got)
		}
	}
}

func TestMul_Table(t *testing.T) {
	tests := []struct {
		a, b Pauli
		want string
	}{
		{X, Y, "iZ"},
		{Y, X, "-iZ"},
		{Y, Z, "iX"},
		{Z, Y, "-iX"},
		{Z, X, "iY"},
		{X, Z, "-iY"},
		{X.WithPhase(2), X, "-I"},
		{I.WithPhase(1), Z.WithPhase(1), "-Z"},
		{Y.WithPhase(3), I, "-iY"},
	}
	for _, tt := range tests {
		if got := Mul(tt.a, tt.b).String(); got != tt.want {
			t.Errorf("%v * %v = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCommutes_Symmetric(t *testing.T) {
	for _, a := range all16() {
		for _, b := range all16() {
			if Commutes(a, b) != Commutes(b, a) {
				t.Fatalf("commutes(%v, %v) is not symmetric", a, b)
			}
		}
	}
	if Commutes(X, Z) || Commutes(Y, Z) || Commutes(X, Y) {
		t.Error("distinct axes must anticommute")
	}
	if !Commutes(X.WithPhase(2), X) || !Commutes(I.WithPhase(3), Y) {
		t.Error("phase must not affect commutation")
	}
}

func TestAbs(t *testing.T) {
	if Abs(Y.WithPhase(3)) != Y {
		t.Error("Abs must strip the phase")
	}
}

func TestConj_HTwice(t *testing.T) {
	s := MustParse("XYZI")
	s[1] = s[1].WithPhase(1)
	orig := s.Clone()
	for i := range s {
		s.ByH(i).ByH(i)
	}
	if !s.Equal(orig) {
		t.Fatalf("H·H round trip: got %v, want %v", s, orig)
	}
}

func TestConj_CXTwice(t *testing.T) {
	for _, a := range all16() {
		for _, b := range all16() {
			s := String{a, b, Y}
			orig := s.Clone()
			s.ByCX(0, 1).ByCX(0, 1)
			if !s.Equal(orig) {
				t.Fatalf("CX·CX round trip on %v: got %v", orig, s)
			}
		}
	}
}

func TestConj_CX(t *testing.T) {
	tests := []struct{ in, want string }{
		{"XI", "XX"},
		{"IZ", "ZZ"},
		{"ZI", "ZI"},
		{"IX", "IX"},
		{"ZZ", "IZ"},
		{"XZ", "-YY"},
		{"YY", "-XZ"},
		{"YI", "YX"},
	}
	for _, tt := range tests {
		s := MustParse(tt.in).ByCX(0, 1)
		if got := s.String(); got != tt.want {
			t.Errorf("cx %s = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestConj_CZ(t *testing.T) {
	tests := []struct{ in, want string }{
		{"XI", "XZ"},
		{"IX", "ZX"},
		{"ZZ", "ZZ"},
		{"XX", "YY"},
		{"XY", "-YX"},
	}
	for _, tt := range tests {
		s := MustParse(tt.in).ByCZ(0, 1)
		if got := s.String(); got != tt.want {
			t.Errorf("cz %s = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestConj_SingleQubitSigns(t *testing.T) {
	if got := MustParse("Y").ByH(0).String(); got != "-Y" {
		t.Errorf("HYH = %s, want -Y", got)
	}
	if got := MustParse("Z").ByX(0).String(); got != "-Z" {
		t.Errorf("XZX = %s, want -Z", got)
	}
	if got := MustParse("X").ByZ(0).String(); got != "-X" {
		t.Errorf("ZXZ = %s, want -X", got)
	}
	if got := MustParse("Y").ByY(0).String(); got != "Y" {
		t.Errorf("YYY = %s, want Y", got)
	}
}

func TestConj_S(t *testing.T) {
	tests := []struct{ in, want string }{
		{"X", "Y"},
		{"Y", "-X"},
		{"Z", "Z"},
	}
	for _, tt := range tests {
		if got := MustParse(tt.in).ByS(0).String(); got != tt.want {
			t.Errorf("S %s S† = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestConj_CY(t *testing.T) {
	tests := []struct{ in, want string }{
		{"XI", "XY"},
		{"IZ", "ZZ"},
		{"IX", "ZX"},
		{"IY", "IY"},
	}
	for _, tt := range tests {
		if got := MustParse(tt.in).ByCY(0, 1).Normalize().String(); got != tt.want {
			t.Errorf("cy %s = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestString_Normalize(t *testing.T) {
	s := MustParse("ZZI").ByX(0).ByX(1)
	if s.String() != "-Z-ZI" {
		t.Fatalf("unexpected intermediate %v", s)
	}
	if got := s.Normalize(); !got.Equal(MustParse("ZZI")) {
		t.Errorf("normalize = %v, want ZZI", got)
	}
	neg := MustParse("XIX").ByZ(0).Normalize()
	if neg.String() != "-XIX" || !neg.Negative() {
		t.Errorf("normalize = %v, want -XIX", neg)
	}
}

func TestString_ParseErrors(t *testing.T) {
	for _, in := range []string{"", "-", "ZQZ"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) should fail", in)
		}
	}
	s, err := Parse("-iYZ")
	if err != nil {
		t.Fatal(err)
	}
	if s.String() != "-iYZ" || s.Phase() != 3 {
		t.Errorf("Parse(-iYZ) = %v (phase %d)", s, s.Phase())
	}
}

func TestString_Anticommutations(t *testing.T) {
	zz := MustParse("ZZI")
	if zz.Commutes(MustParse("XII")) {
		t.Error("ZZI must anticommute with XII")
	}
	if !zz.Commutes(MustParse("XXI")) {
		t.Error("ZZI must commute with XXI")
	}
	if zz.Key() == MustParse("-ZZI").Key() {
		t.Error("keys must distinguish signs")
	}
}
