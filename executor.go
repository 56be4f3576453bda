package qugo

import "context"

// Executor is the narrow boundary to whatever runs compiled circuits, be it
// the in-process simulator in the sim package or a remote backend. The
// compiler only ever drives the capability set below; it never sees the
// backend's circuit representation.
type Executor interface {
	// NewCircuit opens a builder for a circuit over numQubits qubits.
	NewCircuit(numQubits int) (Builder, error)
}

// Builder accumulates one circuit and runs it once.
type Builder interface {
	// AppendGate adds a gate of the given kind acting on target, controlled
	// on the control qubits, with any rotation parameters.
	AppendGate(kind string, target int, controls []int, params []float64) error

	// AppendMeasurement adds a measurement of target and returns the id its
	// outcome will be keyed by in Run's result.
	AppendMeasurement(target int) (int, error)

	// AppendClassicalBlock adds a group of instructions applied only when
	// every condition holds against the earlier measurement outcomes. The
	// body receives a builder scoped to the block; blocks may nest.
	AppendClassicalBlock(conds []BlockCond, body func(Builder) error) error

	// Run executes the circuit for a single shot and returns one boolean
	// per measurement id handed out by AppendMeasurement.
	Run(ctx context.Context) (map[int]bool, error)
}

// BlockCond requires a measured bit to have come out a particular way.
type BlockCond struct {
	Measurement int
	Value       bool
}
