package circuit

import (
	"regexp"
	"strings"
	"testing"
)

var ansiSeqRegex = regexp.MustCompile("\x1b\\[[0-9;]*m")

func stripANSI(s string) string {
	return ansiSeqRegex.ReplaceAllString(s, "")
}

func TestDrawBellCircuit(t *testing.T) {
	c := New(2)
	if err := c.AddGate(nil, "H", 0, nil, nil); err != nil {
		t.Fatal(err)
	}
	if err := c.AddGate(nil, "X", 1, []int{0}, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := c.AddMeasurement(nil, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := c.AddMeasurement(nil, 1); err != nil {
		t.Fatal(err)
	}

	out := stripANSI(c.Draw())
	wants := []string{"q[0]", "q[1]", "H", "M", "c2", "m0", "m1"}
	// The controlled X draws as control dot and target cross; the rail hooks
	// in with doubled lines, crossing q[1]'s wire under the first measure.
	wants = append(wants, "●", "⊕", "╩", "║", "╫")
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("diagram missing %q:\n%s", want, out)
		}
	}
}

func TestDrawConditionTag(t *testing.T) {
	c := New(2)
	bit, err := c.AddMeasurement(nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.AddGate([]Cond{{Bit: bit, Value: false}}, "X", 1, nil, nil); err != nil {
		t.Fatal(err)
	}

	out := stripANSI(c.Draw())
	if !strings.Contains(out, "m0=0") {
		t.Errorf("rail misses the condition tag:\n%s", out)
	}
}

func TestDrawWithoutMeasurementsHasNoRail(t *testing.T) {
	c := New(1)
	if err := c.AddGate(nil, "H", 0, nil, nil); err != nil {
		t.Fatal(err)
	}
	out := stripANSI(c.Draw())
	if strings.Contains(out, "═") {
		t.Errorf("rail drawn with no classical bits:\n%s", out)
	}
	if !strings.Contains(out, "q[0]") {
		t.Errorf("wire label missing:\n%s", out)
	}
}

func TestDrawColumnHeaders(t *testing.T) {
	c := New(1)
	for range 3 {
		if err := c.AddGate(nil, "H", 0, nil, nil); err != nil {
			t.Fatal(err)
		}
	}
	header := strings.SplitN(stripANSI(c.Draw()), "\n", 2)[0]
	for _, idx := range []string{"0", "1", "2"} {
		if !strings.Contains(header, idx) {
			t.Errorf("header %q misses column %s", header, idx)
		}
	}
}
