package qugo

import "fmt"

// Qubit is a stateful handle on one unit of quantum state, starting in
// state |0>. Gate methods mutate the qubit and return it, so calls stack:
//
//	q := tr.NewQubit().X().H()
//
// Qubits are identity objects; two qubits are the same only if they are the
// same pointer. A qubit allocated from a Trace belongs to that trace and
// must not appear in another trace's instructions or output.
type Qubit struct {
	trace *Trace
	index int // allocation order within the trace, -1 when detached
	ops   []*Instruction
}

// NewQubit creates a qubit with no owning trace. It records instructions
// like any other qubit and is handy for poking at the API interactively,
// but it can never be compiled into a circuit.
func NewQubit() *Qubit {
	return &Qubit{index: -1}
}

func (*Qubit) condition() {}

// Instructions returns the operations recorded against the qubit so far.
func (q *Qubit) Instructions() []*Instruction {
	return append([]*Instruction(nil), q.ops...)
}

// X applies the Pauli-X gate.
func (q *Qubit) X(conds ...Condition) *Qubit { return q.apply(KindX, nil, conds) }

// Y applies the Pauli-Y gate.
func (q *Qubit) Y(conds ...Condition) *Qubit { return q.apply(KindY, nil, conds) }

// Z applies the Pauli-Z gate.
func (q *Qubit) Z(conds ...Condition) *Qubit { return q.apply(KindZ, nil, conds) }

// H applies the Hadamard gate.
func (q *Qubit) H(conds ...Condition) *Qubit { return q.apply(KindH, nil, conds) }

// S applies the phase gate.
func (q *Qubit) S(conds ...Condition) *Qubit { return q.apply(KindS, nil, conds) }

// Sdg applies the inverse phase gate.
func (q *Qubit) Sdg(conds ...Condition) *Qubit { return q.apply(KindSdg, nil, conds) }

// T applies the T gate.
func (q *Qubit) T(conds ...Condition) *Qubit { return q.apply(KindT, nil, conds) }

// Tdg applies the inverse T gate.
func (q *Qubit) Tdg(conds ...Condition) *Qubit { return q.apply(KindTdg, nil, conds) }

// P applies a phase rotation of theta radians.
func (q *Qubit) P(theta float64, conds ...Condition) *Qubit {
	return q.apply(KindP, []float64{theta}, conds)
}

// RX rotates theta radians around the X axis.
func (q *Qubit) RX(theta float64, conds ...Condition) *Qubit {
	return q.apply(KindRX, []float64{theta}, conds)
}

// RY rotates theta radians around the Y axis.
func (q *Qubit) RY(theta float64, conds ...Condition) *Qubit {
	return q.apply(KindRY, []float64{theta}, conds)
}

// RZ rotates theta radians around the Z axis.
func (q *Qubit) RZ(theta float64, conds ...Condition) *Qubit {
	return q.apply(KindRZ, []float64{theta}, conds)
}

// U applies the generic single-qubit rotation with Euler angles theta, phi
// and lam.
func (q *Qubit) U(theta, phi, lam float64, conds ...Condition) *Qubit {
	return q.apply(KindU, []float64{theta, phi, lam}, conds)
}

// Measure records a measurement of the qubit and returns the promise for
// its outcome. Measurements accept only build-time conditions; a false one
// drops the measurement, leaving the promise permanently unresolvable.
func (q *Qubit) Measure(conds ...Condition) *Promise {
	ctrls, promConds, live, err := splitConditions(q.mergeScoped(conds))
	p := &Promise{trace: q.trace}
	in := &Instruction{Kind: KindMeasure, Qubits: []*Qubit{q}, Promise: p}
	p.inst = in
	if err != nil {
		q.fail(err)
		p.dropped = true
		return p
	}
	if len(ctrls) > 0 || len(promConds) > 0 {
		q.fail(ErrConditionedMeasurement)
		p.dropped = true
		return p
	}
	if !live {
		p.dropped = true
		return p
	}
	q.record(in)
	return p
}

// apply is the single path every gate method goes through: classify the
// conditions, validate scopes, and record the instruction against all
// participating qubits.
func (q *Qubit) apply(kind string, params []float64, conds []Condition) *Qubit {
	ctrls, promConds, live, err := splitConditions(q.mergeScoped(conds))
	if err != nil {
		q.fail(err)
		return q
	}
	if !live {
		return q
	}
	for _, c := range ctrls {
		if c == q {
			q.fail(&CyclicDependencyError{Stuck: []string{
				fmt.Sprintf("%s on %s conditioned on its own target", kind, q.describe()),
			}})
			return q
		}
		if c.trace != q.trace {
			q.fail(&ScopeError{Subject: c.describe(), Owner: traceName(c.trace), User: traceName(q.trace)})
			return q
		}
	}
	for _, p := range promConds {
		if p.trace != q.trace {
			q.fail(&ScopeError{Subject: p.describe(), Owner: traceName(p.trace), User: traceName(q.trace)})
			return q
		}
	}
	in := &Instruction{
		Kind:   kind,
		Params: params,
		Qubits: append([]*Qubit{q}, ctrls...),
		Conds:  promConds,
	}
	q.record(in)
	return q
}

// mergeScoped appends the trace's active WithControl conditions.
func (q *Qubit) mergeScoped(conds []Condition) []Condition {
	if q.trace == nil || len(q.trace.controls) == 0 {
		return conds
	}
	merged := make([]Condition, 0, len(conds)+len(q.trace.controls))
	merged = append(merged, conds...)
	merged = append(merged, q.trace.controls...)
	return merged
}

// record appends the instruction to the trace order and to every
// participating qubit's own list. Detached qubits keep only the per-qubit
// lists.
func (q *Qubit) record(in *Instruction) {
	if q.trace != nil {
		q.trace.record(in)
		return
	}
	for _, p := range in.Qubits {
		p.ops = append(p.ops, in)
	}
}

// fail reports a recording error to the owning trace. Errors on detached
// qubits have nowhere to go; the instruction is simply not recorded.
func (q *Qubit) fail(err error) {
	if q.trace != nil {
		q.trace.fail(err)
	}
}

func (q *Qubit) describe() string {
	if q.index < 0 {
		return "detached qubit"
	}
	return fmt.Sprintf("qubit %d", q.index)
}

func (p *Promise) describe() string {
	if p.composite() {
		return "composite promise"
	}
	if p.inst != nil {
		return fmt.Sprintf("measurement promise of %s", p.inst.Target().describe())
	}
	return "promise"
}
