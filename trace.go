package qugo

import (
	"strings"

	"github.com/google/uuid"
)

// Trace is the recording context for one top-level program evaluation. It
// owns every qubit allocated through it, keeps the global instruction
// order, and carries the scoped-control and subroutine stacks. A trace is
// used from a single goroutine and never shared between program calls.
type Trace struct {
	id       uuid.UUID
	qubits   []*Qubit
	instrs   []*Instruction
	controls []Condition // active WithControl stack
	scopes   []string    // active subroutine names
	err      error       // first usage error recorded
}

func newTrace() *Trace {
	return &Trace{id: uuid.New()}
}

// ID returns the trace's unique identity.
func (t *Trace) ID() string {
	return t.id.String()
}

// NewQubit allocates a qubit owned by the trace, in state |0>.
func (t *Trace) NewQubit() *Qubit {
	q := &Qubit{trace: t, index: len(t.qubits)}
	t.qubits = append(t.qubits, q)
	return q
}

// NewQubits allocates n qubits at once.
func (t *Trace) NewQubits(n int) []*Qubit {
	qs := make([]*Qubit, n)
	for i := range qs {
		qs[i] = t.NewQubit()
	}
	return qs
}

// WithControl records every instruction inside body with cond as an extra
// condition. Calls nest; the innermost body sees all enclosing controls.
//
//	tr.WithControl(ctrl, func() {
//		target.X() // compiles to a controlled X
//	})
func (t *Trace) WithControl(cond Condition, body func()) {
	t.controls = append(t.controls, cond)
	defer func() { t.controls = t.controls[:len(t.controls)-1] }()
	body()
}

// Subroutine runs fn under a named scope. The trace is shared, so qubits
// allocated inside participate in the caller's circuit; the name shows up
// in diagnostics.
func (t *Trace) Subroutine(name string, fn func(*Trace) error) error {
	t.scopes = append(t.scopes, name)
	defer func() { t.scopes = t.scopes[:len(t.scopes)-1] }()
	return fn(t)
}

// record assigns the instruction its global position and appends it to
// every participating qubit.
func (t *Trace) record(in *Instruction) {
	in.seq = len(t.instrs)
	in.scope = strings.Join(t.scopes, "/")
	t.instrs = append(t.instrs, in)
	for _, q := range in.Qubits {
		q.ops = append(q.ops, in)
	}
}

// fail keeps the first usage error; compilation reports it.
func (t *Trace) fail(err error) {
	if t.err == nil {
		t.err = err
	}
}

func traceName(t *Trace) string {
	if t == nil {
		return "detached"
	}
	return t.id.String()[:8]
}
