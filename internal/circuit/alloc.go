package circuit

// Allocator hands out fresh qubit and register ids.
//
// Counters only grow. An Allocator belongs to one compilation and is not
// safe for concurrent use.
type Allocator struct {
	nextQubit    uint32
	nextRegister uint32
	reserved     uint32
}

// NewAllocator starts allocation after the first qubits data qubits and the
// first registers registers.
func NewAllocator(qubits, registers uint32) *Allocator {
	return &Allocator{nextQubit: qubits, nextRegister: registers, reserved: qubits}
}

// Qubit returns a fresh qubit id.
func (a *Allocator) Qubit() Qubit {
	q := Qubit(a.nextQubit)
	a.nextQubit++
	return q
}

// Register returns a fresh register id.
func (a *Allocator) Register() Register {
	r := Register(a.nextRegister)
	a.nextRegister++
	return r
}

// Qubits is the number of qubit ids in use, reserved ones included.
func (a *Allocator) Qubits() int { return int(a.nextQubit) }

// Registers is the number of register ids in use.
func (a *Allocator) Registers() int { return int(a.nextRegister) }

// Ancillas counts qubits allocated past the reserved range.
func (a *Allocator) Ancillas() int { return int(a.nextQubit - a.reserved) }
