package qugo

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Program wraps a function whose body describes a quantum computation.
// Each Compile or Run evaluates the body once on a fresh trace; programs
// themselves are stateless and safe to run any number of times.
type Program struct {
	Name string
	Body func(*Trace) (any, error)
}

// New wraps body as a named program.
func New(name string, body func(*Trace) (any, error)) *Program {
	return &Program{Name: name, Body: body}
}

// Run compiles the program against the executor and executes it for one
// shot, returning the body's output with every promise resolved.
func (p *Program) Run(ctx context.Context, exec Executor) (any, error) {
	e, err := p.Compile(exec)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx)
}

// Compile evaluates the body, collects the promises from its output, and
// builds the minimal circuit that fulfils them through the executor. The
// returned Execution runs the circuit and interprets its results.
func (p *Program) Compile(exec Executor) (*Execution, error) {
	if p.Body == nil {
		return nil, ErrNilBody
	}
	t := newTrace()
	out, err := p.Body(t)
	if err != nil {
		return nil, errors.Wrapf(err, "program %s", p.Name)
	}

	pl, proms, err := compileTrace(t, out)
	if err != nil {
		return nil, errors.Wrapf(err, "compile %s", p.Name)
	}

	e := &Execution{output: out, promises: proms}
	if pl == nil {
		return e, nil
	}

	b, err := exec.NewCircuit(len(pl.qubits))
	if err != nil {
		return nil, errors.Wrapf(err, "compile %s", p.Name)
	}
	bits, err := emitPlan(b, pl)
	if err != nil {
		return nil, errors.Wrapf(err, "compile %s", p.Name)
	}

	e.Builder = b
	e.bits = bits
	e.ids = make(map[int]bool, len(bits))
	for _, id := range bits {
		e.ids[id] = true
	}
	return e, nil
}

// Call runs the body inside an existing trace as a named subroutine, so
// one program can build on another. Qubits allocated inside share the
// caller's circuit.
func (p *Program) Call(t *Trace) (any, error) {
	if p.Body == nil {
		return nil, ErrNilBody
	}
	var out any
	err := t.Subroutine(p.Name, func(t *Trace) error {
		var bodyErr error
		out, bodyErr = p.Body(t)
		return bodyErr
	})
	return out, err
}

// Execution is one compiled program invocation: the built circuit, the
// output shape, and the promise bindings needed to interpret results.
type Execution struct {
	// Builder holds the circuit built through the executor, ready to run.
	// It is nil when nothing quantum reaches the program's output.
	Builder Builder

	output   any
	promises []*Promise
	bits     map[*Instruction]int
	ids      map[int]bool
	done     bool
}

// Run executes the circuit for a single shot and interprets the result. A
// program with no reachable measurements skips execution entirely.
func (e *Execution) Run(ctx context.Context) (any, error) {
	if e.Builder == nil {
		return e.Interpret(nil)
	}
	raw, err := e.Builder.Run(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "execute circuit")
	}
	return e.Interpret(raw)
}

// Interpret resolves the output's promises from raw per-measurement
// outcomes, keyed by the ids the builder assigned. The raw id set must
// match the compiled measurement set exactly. The output structure is the
// very value the body returned; only promises change state.
func (e *Execution) Interpret(raw map[int]bool) (any, error) {
	if e.done {
		return nil, &UnresolvedPromiseError{Reason: "promises resolve once; this execution was already interpreted"}
	}

	var missing, extra []int
	for id := range e.ids {
		if _, ok := raw[id]; !ok {
			missing = append(missing, id)
		}
	}
	for id := range raw {
		if !e.ids[id] {
			extra = append(extra, id)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		return nil, &ExecutionResultMismatchError{Missing: sortedInts(missing), Extra: sortedInts(extra)}
	}

	for _, p := range e.promises {
		if err := e.resolve(p, raw); err != nil {
			return nil, err
		}
	}
	e.done = true
	return e.output, nil
}

// resolve fills in one promise, recursing into composite inputs first. A
// promise already resolved in this pass (shared between composites) is
// left alone.
func (e *Execution) resolve(p *Promise, raw map[int]bool) error {
	if p.resolved {
		return nil
	}
	if p.composite() {
		vals := make([]bool, len(p.subs))
		for i, s := range p.subs {
			if err := e.resolve(s, raw); err != nil {
				return err
			}
			v, err := s.Value()
			if err != nil {
				return err
			}
			vals[i] = v
		}
		return p.resolve(p.eval(vals))
	}
	id, ok := e.bits[p.inst]
	if !ok {
		return &UnresolvedPromiseError{Reason: fmt.Sprintf("%s was not compiled into the circuit", p.describe())}
	}
	v := raw[id]
	if p.inverse {
		v = !v
	}
	return p.resolve(v)
}
