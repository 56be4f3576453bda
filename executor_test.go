package qugo

import (
	"context"
	"fmt"
	"strings"
)

// fakeExec is an in-memory Executor for tests: it records every builder
// call and plays back scripted measurement outcomes.
type fakeExec struct {
	outcomes map[int]bool // Run result per measurement id, absent ids read false
	runErr   error
	circ     *fakeCircuit // last circuit opened, nil if never asked
}

type fakeCircuit struct {
	numQubits int
	nextID    int
	outcomes  map[int]bool
	runErr    error
	ops       []fakeOp
	runs      int
}

// fakeOp is one recorded builder call. Blocks carry their conditions and
// body; measurements carry the id they were handed.
type fakeOp struct {
	kind     string
	target   int
	controls []int
	params   []float64
	id       int
	conds    []BlockCond
	inner    []fakeOp
}

func (f *fakeExec) NewCircuit(n int) (Builder, error) {
	f.circ = &fakeCircuit{numQubits: n, outcomes: f.outcomes, runErr: f.runErr}
	return &fakeBuilder{circ: f.circ, ops: &f.circ.ops}, nil
}

type fakeBuilder struct {
	circ *fakeCircuit
	ops  *[]fakeOp
}

func (b *fakeBuilder) AppendGate(kind string, target int, controls []int, params []float64) error {
	*b.ops = append(*b.ops, fakeOp{kind: kind, target: target, controls: controls, params: params})
	return nil
}

func (b *fakeBuilder) AppendMeasurement(target int) (int, error) {
	id := b.circ.nextID
	b.circ.nextID++
	*b.ops = append(*b.ops, fakeOp{kind: KindMeasure, target: target, id: id})
	return id, nil
}

func (b *fakeBuilder) AppendClassicalBlock(conds []BlockCond, body func(Builder) error) error {
	op := fakeOp{kind: "BLOCK", conds: conds}
	if err := body(&fakeBuilder{circ: b.circ, ops: &op.inner}); err != nil {
		return err
	}
	*b.ops = append(*b.ops, op)
	return nil
}

func (b *fakeBuilder) Run(ctx context.Context) (map[int]bool, error) {
	b.circ.runs++
	if b.circ.runErr != nil {
		return nil, b.circ.runErr
	}
	out := make(map[int]bool, b.circ.nextID)
	for id := range b.circ.nextID {
		out[id] = b.circ.outcomes[id]
	}
	return out, nil
}

// flatten expands blocks depth first, so tests can count emitted operations
// without caring where the block boundaries fell.
func flatten(ops []fakeOp) []fakeOp {
	var out []fakeOp
	for _, op := range ops {
		if op.kind == "BLOCK" {
			out = append(out, flatten(op.inner)...)
			continue
		}
		out = append(out, op)
	}
	return out
}

// script renders recorded ops one line each, nested blocks indented, for
// structural comparison between compilations.
func script(ops []fakeOp) string {
	var lines []string
	scriptInto(ops, "", &lines)
	return strings.Join(lines, "\n")
}

func scriptInto(ops []fakeOp, indent string, lines *[]string) {
	for _, op := range ops {
		switch op.kind {
		case "BLOCK":
			*lines = append(*lines, fmt.Sprintf("%sblock %v", indent, op.conds))
			scriptInto(op.inner, indent+"  ", lines)
		case KindMeasure:
			*lines = append(*lines, fmt.Sprintf("%smeasure q%d -> %d", indent, op.target, op.id))
		default:
			*lines = append(*lines, fmt.Sprintf("%s%s q%d ctrl %v %v", indent, op.kind, op.target, op.controls, op.params))
		}
	}
}
