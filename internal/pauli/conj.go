package pauli

// Single-operator Clifford conjugation rules. Phases stay on their
// position; the sign picked up by a two-qubit rule lands on the first one.

// ConjH maps X↔Z; Y picks up a sign.
func ConjH(p Pauli) Pauli {
	phase := p.phase
	if p.x && p.z {
		phase += 2
	}
	return New(phase, p.z, p.x)
}

// ConjX flips the sign of anything with a Z component.
func ConjX(p Pauli) Pauli {
	if p.z {
		return p.WithPhase(p.phase + 2)
	}
	return p
}

// ConjY flips the sign of X and Z.
func ConjY(p Pauli) Pauli {
	if p.x != p.z {
		return p.WithPhase(p.phase + 2)
	}
	return p
}

// ConjZ flips the sign of anything with an X component.
func ConjZ(p Pauli) Pauli {
	if p.x {
		return p.WithPhase(p.phase + 2)
	}
	return p
}

// ConjS maps X→Y and Y→-X.
func ConjS(p Pauli) Pauli {
	phase := p.phase
	if p.x && p.z {
		phase += 2
	}
	return New(phase, p.x, p.z != p.x)
}

// ConjSdg maps X→-Y and Y→X.
func ConjSdg(p Pauli) Pauli {
	phase := p.phase
	if p.x && !p.z {
		phase += 2
	}
	return New(phase, p.x, p.z != p.x)
}

// ConjCX propagates a control/target pair through a CNOT:
// Z on the target spreads to the control, X on the control spreads to the
// target. X⊗Z and Y⊗Y swap with a sign.
func ConjCX(ctl, tgt Pauli) (Pauli, Pauli) {
	phase := ctl.phase
	if ctl.x && tgt.z && tgt.x == ctl.z {
		phase += 2
	}
	return New(phase, ctl.x, ctl.z != tgt.z), New(tgt.phase, tgt.x != ctl.x, tgt.z)
}

// ConjCZ propagates a pair through a CZ: X on either side drops a Z on the
// other. X⊗Y and Y⊗X pick up a sign.
func ConjCZ(a, b Pauli) (Pauli, Pauli) {
	phase := a.phase
	if a.x && b.x && a.z != b.z {
		phase += 2
	}
	return New(phase, a.x, a.z != b.x), New(b.phase, b.x, b.z != a.x)
}

// ConjCY propagates a pair through a controlled-Y, built as S·CX·S† on the
// target.
func ConjCY(ctl, tgt Pauli) (Pauli, Pauli) {
	ctl, tgt = ConjCX(ctl, ConjSdg(tgt))
	return ctl, ConjS(tgt)
}
