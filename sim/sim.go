// Package sim provides a statevector executor: circuits built through it
// run on an in-process simulator, one shot per Run, with measurement
// outcomes drawn from a seeded random stream.
package sim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync/atomic"

	"qugo"
	"qugo/circuit"
)

// Executor builds and runs circuits on the in-process simulator. Each
// circuit gets its own random stream derived from the seed, so concurrent
// jobs never contend and a fixed seed reproduces every outcome.
type Executor struct {
	seed    uint64
	counter atomic.Uint64
}

// New returns an executor whose measurement outcomes derive from seed.
func New(seed uint64) *Executor {
	return &Executor{seed: seed}
}

// NewCircuit starts an empty circuit over numQubits qubits.
func (e *Executor) NewCircuit(numQubits int) (qugo.Builder, error) {
	if numQubits < 0 {
		return nil, fmt.Errorf("negative qubit count %d", numQubits)
	}
	return &Job{
		circ: circuit.New(numQubits),
		rng:  rand.New(rand.NewPCG(e.seed, e.counter.Add(1))),
	}, nil
}

// Job is one circuit under construction and execution. Classical blocks
// share the underlying circuit with their parent job, carrying the extra
// conditions into every append.
type Job struct {
	circ  *circuit.Circuit
	rng   *rand.Rand
	conds []circuit.Cond
}

// Circuit exposes the underlying artifact for rendering and export.
func (j *Job) Circuit() *circuit.Circuit { return j.circ }

func (j *Job) AppendGate(kind string, target int, controls []int, params []float64) error {
	return j.circ.AddGate(j.conds, kind, target, controls, params)
}

func (j *Job) AppendMeasurement(target int) (int, error) {
	return j.circ.AddMeasurement(j.conds, target)
}

func (j *Job) AppendClassicalBlock(conds []qugo.BlockCond, body func(qugo.Builder) error) error {
	inner := &Job{circ: j.circ, rng: j.rng, conds: slices.Clone(j.conds)}
	for _, bc := range conds {
		inner.conds = append(inner.conds, circuit.Cond{Bit: bc.Measurement, Value: bc.Value})
	}
	return body(inner)
}

// Run executes the whole circuit for one shot and returns the outcome of
// every measurement keyed by its bit. Bits start false, so a condition on
// a bit no measurement reached compares against zero.
func (j *Job) Run(ctx context.Context) (map[int]bool, error) {
	state := NewStateVector(j.circ.NumQubits)
	bits := make(map[int]bool, j.circ.NumBits)
	for b := range j.circ.NumBits {
		bits[b] = false
	}

	for _, seg := range j.circ.Segments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !condsHold(seg.Conds, bits) {
			continue
		}
		for _, g := range seg.Gates {
			if g.IsMeasurement() {
				p1 := state.Prob1(g.Target)
				one := j.rng.Float64() < p1
				prob := p1
				if !one {
					prob = 1 - p1
				}
				state.Collapse(g.Target, one, prob)
				bits[g.Bit] = one
				continue
			}
			m, err := gateMatrix(g.Kind, g.Params)
			if err != nil {
				return nil, err
			}
			state.Apply(m, g.Target, g.Controls)
		}
	}
	return bits, nil
}

func condsHold(conds []circuit.Cond, bits map[int]bool) bool {
	for _, cd := range conds {
		if bits[cd.Bit] != cd.Value {
			return false
		}
	}
	return true
}
