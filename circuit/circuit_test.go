package circuit

import (
	"strings"
	"testing"
)

func TestAddMeasurementNumbersBits(t *testing.T) {
	c := New(2)
	b0, err := c.AddMeasurement(nil, 0)
	if err != nil {
		t.Fatalf("AddMeasurement: %v", err)
	}
	b1, err := c.AddMeasurement(nil, 1)
	if err != nil {
		t.Fatalf("AddMeasurement: %v", err)
	}
	if b0 != 0 || b1 != 1 {
		t.Errorf("bits = %d, %d, want 0, 1", b0, b1)
	}
	if c.NumBits != 2 {
		t.Errorf("NumBits = %d, want 2", c.NumBits)
	}
}

func TestSegmentsMergeOnEqualConds(t *testing.T) {
	c := New(2)
	if _, err := c.AddMeasurement(nil, 0); err != nil {
		t.Fatal(err)
	}
	conds := []Cond{{Bit: 0, Value: true}}
	if err := c.AddGate(conds, "X", 1, nil, nil); err != nil {
		t.Fatal(err)
	}
	if err := c.AddGate(conds, "Y", 1, nil, nil); err != nil {
		t.Fatal(err)
	}
	if err := c.AddGate(nil, "Z", 1, nil, nil); err != nil {
		t.Fatal(err)
	}

	if len(c.Segments) != 3 {
		t.Fatalf("%d segments, want measurement, guarded pair, unguarded tail", len(c.Segments))
	}
	if len(c.Segments[1].Gates) != 2 {
		t.Errorf("guarded segment holds %d gates, want 2", len(c.Segments[1].Gates))
	}
	if c.NumGates() != 4 {
		t.Errorf("NumGates = %d, want 4", c.NumGates())
	}
}

func TestCondOrderDoesNotSplitSegments(t *testing.T) {
	c := New(1)
	if _, err := c.AddMeasurement(nil, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := c.AddMeasurement(nil, 0); err != nil {
		t.Fatal(err)
	}
	ab := []Cond{{Bit: 0, Value: true}, {Bit: 1, Value: false}}
	ba := []Cond{{Bit: 1, Value: false}, {Bit: 0, Value: true}}
	if err := c.AddGate(ab, "X", 0, nil, nil); err != nil {
		t.Fatal(err)
	}
	if err := c.AddGate(ba, "Y", 0, nil, nil); err != nil {
		t.Fatal(err)
	}

	if len(c.Segments) != 2 {
		t.Fatalf("%d segments, want the reordered conds to land together", len(c.Segments))
	}
	if len(c.Segments[1].Gates) != 2 {
		t.Errorf("guarded segment holds %d gates, want 2", len(c.Segments[1].Gates))
	}
}

func TestAddGateValidation(t *testing.T) {
	c := New(2)

	if err := c.AddGate(nil, "X", 2, nil, nil); err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Errorf("out-of-range target: %v", err)
	}
	if err := c.AddGate(nil, "X", 0, []int{5}, nil); err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Errorf("out-of-range control: %v", err)
	}
	if err := c.AddGate(nil, "X", 0, []int{0}, nil); err == nil || !strings.Contains(err.Error(), "own target") {
		t.Errorf("self control: %v", err)
	}
	if err := c.AddGate(nil, "X", 0, []int{1, 1}, nil); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("duplicate control: %v", err)
	}
	if err := c.AddGate([]Cond{{Bit: 0, Value: true}}, "X", 0, nil, nil); err == nil || !strings.Contains(err.Error(), "before any measurement") {
		t.Errorf("unwritten condition bit: %v", err)
	}
	if c.NumGates() != 0 {
		t.Errorf("rejected gates still placed, NumGates = %d", c.NumGates())
	}
}

func TestAddGateClonesOperands(t *testing.T) {
	c := New(3)
	controls := []int{1, 2}
	params := []float64{0.5}
	if err := c.AddGate(nil, "RX", 0, controls, params); err != nil {
		t.Fatal(err)
	}
	controls[0] = 99
	params[0] = 99

	g := c.Segments[0].Gates[0]
	if g.Controls[0] != 1 || g.Params[0] != 0.5 {
		t.Error("gate must not alias the caller's slices")
	}
}
