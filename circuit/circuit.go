// Package circuit holds the flat gate program a compiled trace lowers to:
// an ordered list of segments, each a run of gates guarded by the same
// classical conditions. Circuits render as wire diagrams and round-trip
// through OPENQASM 2.0.
package circuit

import (
	"fmt"
	"slices"
)

// KindMeasure marks a measurement. Every other kind is an upper-case gate
// name (X, H, CX-style controls live in Gate.Controls, not the kind).
const KindMeasure = "MEASURE"

// Gate is a single operation placed on the circuit. Bit is the classical
// bit a measurement writes, -1 for everything else.
type Gate struct {
	Kind     string
	Target   int
	Controls []int
	Params   []float64
	Bit      int
}

// IsMeasurement reports whether the gate writes a classical bit.
func (g Gate) IsMeasurement() bool { return g.Kind == KindMeasure }

// Cond requires classical bit Bit to hold Value before a segment runs.
type Cond struct {
	Bit   int
	Value bool
}

// Segment is a maximal run of consecutive gates sharing one condition set.
// An empty Conds means the gates run unconditionally.
type Segment struct {
	Conds []Cond
	Gates []Gate
}

// Circuit is an ordered gate program over NumQubits qubits writing NumBits
// classical bits.
type Circuit struct {
	NumQubits int
	NumBits   int
	Segments  []Segment
}

// New returns an empty circuit over the given number of qubits.
func New(numQubits int) *Circuit {
	return &Circuit{NumQubits: numQubits}
}

// AddGate places a gate under the given conditions. Condition bits must
// already have been written by an earlier measurement.
func (c *Circuit) AddGate(conds []Cond, kind string, target int, controls []int, params []float64) error {
	g := Gate{Kind: kind, Target: target, Controls: slices.Clone(controls), Params: slices.Clone(params), Bit: -1}
	if err := c.check(conds, g); err != nil {
		return err
	}
	c.place(conds, g)
	return nil
}

// AddMeasurement places a measurement of target under the given conditions
// and returns the fresh classical bit it writes. Bits number from zero in
// placement order.
func (c *Circuit) AddMeasurement(conds []Cond, target int) (int, error) {
	g := Gate{Kind: KindMeasure, Target: target, Controls: nil, Params: nil, Bit: c.NumBits}
	if err := c.check(conds, g); err != nil {
		return 0, err
	}
	c.NumBits++
	c.place(conds, g)
	return g.Bit, nil
}

// NumGates returns the total gate count across all segments.
func (c *Circuit) NumGates() int {
	n := 0
	for _, s := range c.Segments {
		n += len(s.Gates)
	}
	return n
}

func (c *Circuit) check(conds []Cond, g Gate) error {
	if g.Target < 0 || g.Target >= c.NumQubits {
		return fmt.Errorf("target q[%d] out of range, circuit has %d qubits", g.Target, c.NumQubits)
	}
	for i, ctrl := range g.Controls {
		if ctrl < 0 || ctrl >= c.NumQubits {
			return fmt.Errorf("control q[%d] out of range, circuit has %d qubits", ctrl, c.NumQubits)
		}
		if ctrl == g.Target {
			return fmt.Errorf("%s controls on its own target q[%d]", g.Kind, g.Target)
		}
		if slices.Contains(g.Controls[:i], ctrl) {
			return fmt.Errorf("duplicate control q[%d] on %s", ctrl, g.Kind)
		}
	}
	for _, cd := range conds {
		if cd.Bit < 0 || cd.Bit >= c.NumBits {
			return fmt.Errorf("condition reads bit m%d before any measurement writes it", cd.Bit)
		}
	}
	return nil
}

// place appends the gate, extending the last segment when its condition set
// matches and opening a new one otherwise.
func (c *Circuit) place(conds []Cond, g Gate) {
	conds = canonical(conds)
	if n := len(c.Segments); n > 0 && slices.Equal(c.Segments[n-1].Conds, conds) {
		c.Segments[n-1].Gates = append(c.Segments[n-1].Gates, g)
		return
	}
	c.Segments = append(c.Segments, Segment{Conds: conds, Gates: []Gate{g}})
}

// canonical sorts conditions by bit then value and drops exact duplicates,
// so equal condition sets compare equal regardless of the order given.
func canonical(conds []Cond) []Cond {
	if len(conds) == 0 {
		return nil
	}
	out := slices.Clone(conds)
	slices.SortFunc(out, func(a, b Cond) int {
		if a.Bit != b.Bit {
			return a.Bit - b.Bit
		}
		switch {
		case a.Value == b.Value:
			return 0
		case !a.Value:
			return -1
		default:
			return 1
		}
	})
	return slices.Compact(out)
}
