package qugo

import "strconv"

// Promise stands in for a measured bit that has no value until the compiled
// circuit runs. Promises come out of Qubit.Measure; Not, And, Or and Xor
// derive new promises from existing ones. A promise is resolved exactly
// once, by result interpretation, and keeps that value afterwards.
type Promise struct {
	trace   *Trace
	inst    *Instruction // producing measurement, nil for composites
	inverse bool         // negate the measured bit
	dropped bool         // measurement never recorded, can never resolve

	subs []*Promise         // composite inputs
	eval func([]bool) bool  // composite evaluation over resolved inputs

	resolved bool
	value    bool
}

func (*Promise) condition() {}

func (p *Promise) composite() bool { return p.eval != nil }

// Value returns the resolved bit. Before the owning program has run it
// returns an UnresolvedPromiseError.
func (p *Promise) Value() (bool, error) {
	if !p.resolved {
		return false, &UnresolvedPromiseError{Reason: "value read before the program ran"}
	}
	return p.value, nil
}

// Resolved reports whether the promise has been given its value.
func (p *Promise) Resolved() bool { return p.resolved }

// String renders the resolved value, or a pending marker, so promises embed
// naturally in printed output.
func (p *Promise) String() string {
	if !p.resolved {
		return "<pending>"
	}
	return strconv.FormatBool(p.value)
}

// resolve assigns the promise its value. Single assignment: a second call
// is an error.
func (p *Promise) resolve(bit bool) error {
	if p.resolved {
		return &UnresolvedPromiseError{Reason: "promise resolved twice"}
	}
	p.resolved = true
	p.value = bit
	return nil
}

// leaves appends the measurement promises p ultimately depends on.
func (p *Promise) leaves(out []*Promise) []*Promise {
	if !p.composite() {
		return append(out, p)
	}
	for _, s := range p.subs {
		out = s.leaves(out)
	}
	return out
}

// Not returns a promise for the opposite bit. Inverting a measurement
// promise keeps the same underlying measurement, so the result is still
// usable as a gate condition (it compiles to a guard on the bit being
// zero). Inverting a composite stays a composite.
func (p *Promise) Not() *Promise {
	if p.composite() {
		return derive(func(v []bool) bool { return !v[0] }, p)
	}
	return &Promise{
		trace:   p.trace,
		inst:    p.inst,
		inverse: !p.inverse,
		dropped: p.dropped,
	}
}

// And returns a promise that resolves true when p and q both do. The
// result cannot condition gates; pass the inputs as separate conditions
// instead, which means the same thing.
func (p *Promise) And(q *Promise) *Promise {
	return derive(func(v []bool) bool { return v[0] && v[1] }, p, q)
}

// Or returns a promise that resolves true when p or q does.
func (p *Promise) Or(q *Promise) *Promise {
	return derive(func(v []bool) bool { return v[0] || v[1] }, p, q)
}

// Xor returns a promise for the parity of p and q.
func (p *Promise) Xor(q *Promise) *Promise {
	return derive(func(v []bool) bool { return v[0] != v[1] }, p, q)
}

func derive(eval func([]bool) bool, subs ...*Promise) *Promise {
	p := &Promise{subs: subs, eval: eval}
	for _, s := range subs {
		if s.trace != nil {
			p.trace = s.trace
			break
		}
	}
	return p
}

// PromiseHolder lets user-defined types participate in output
// reconstruction. A program may return any value; slices, arrays and maps
// are walked structurally, and any other type is searched for promises only
// if it implements PromiseHolder. Values that do neither are passed through
// untouched.
type PromiseHolder interface {
	// Promises enumerates the promises the value holds, directly or through
	// nested values.
	Promises() []*Promise
}
