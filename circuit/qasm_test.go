package circuit

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

// placedGate pairs a gate with the conditions of the segment holding it.
type placedGate struct {
	g     Gate
	conds []Cond
}

func allGates(c *Circuit) []placedGate {
	var out []placedGate
	for _, seg := range c.Segments {
		for _, g := range seg.Gates {
			out = append(out, placedGate{g: g, conds: seg.Conds})
		}
	}
	return out
}

func TestToQASMBasic(t *testing.T) {
	c := New(2)
	if err := c.AddGate(nil, "H", 0, nil, nil); err != nil {
		t.Fatal(err)
	}
	bit, err := c.AddMeasurement(nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.AddGate([]Cond{{Bit: bit, Value: true}}, "X", 1, nil, nil); err != nil {
		t.Fatal(err)
	}

	qasm, err := c.ToQASM()
	if err != nil {
		t.Fatalf("ToQASM: %v", err)
	}
	fmt.Printf("basic QASM:\n%s\n", qasm)

	for _, want := range []string{
		"OPENQASM 2.0;",
		`include "qelib1.inc";`,
		"qreg q[2];",
		"creg m0[1];",
		"h q[0];",
		"measure q[0] -> m0[0];",
		"if(m0==1) x q[1];",
	} {
		if !strings.Contains(qasm, want) {
			t.Errorf("missing %q in:\n%s", want, qasm)
		}
	}
}

func TestToQASMGateForms(t *testing.T) {
	c := New(4)
	if err := c.AddGate(nil, "X", 1, []int{0}, nil); err != nil {
		t.Fatal(err)
	}
	if err := c.AddGate(nil, "X", 2, []int{0, 1}, nil); err != nil {
		t.Fatal(err)
	}
	if err := c.AddGate(nil, "X", 3, []int{0, 1, 2}, nil); err != nil {
		t.Fatal(err)
	}
	if err := c.AddGate(nil, "RX", 1, []int{0}, []float64{math.Pi / 4}); err != nil {
		t.Fatal(err)
	}
	if err := c.AddGate(nil, "U", 0, nil, []float64{math.Pi / 2, 0, math.Pi}); err != nil {
		t.Fatal(err)
	}

	qasm, err := c.ToQASM()
	if err != nil {
		t.Fatalf("ToQASM: %v", err)
	}
	for _, want := range []string{
		"cx q[0], q[1];",
		"ccx q[0], q[1], q[2];",
		"c3x q[0], q[1], q[2], q[3];",
		"crx(pi/4) q[0], q[1];",
		"u3(pi/2, 0, pi) q[0];",
	} {
		if !strings.Contains(qasm, want) {
			t.Errorf("missing %q in:\n%s", want, qasm)
		}
	}
}

func TestToQASMUnrepresentableGates(t *testing.T) {
	c := New(3)
	if err := c.AddGate(nil, "S", 1, []int{0}, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ToQASM(); err == nil || !strings.Contains(err.Error(), "controlled S") {
		t.Errorf("controlled S: %v", err)
	}

	c = New(3)
	if err := c.AddGate(nil, "Y", 2, []int{0, 1}, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ToQASM(); err == nil || !strings.Contains(err.Error(), "2 controls") {
		t.Errorf("doubly controlled Y: %v", err)
	}

	c = New(1)
	if err := c.AddGate(nil, "FOO", 0, nil, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ToQASM(); err == nil || !strings.Contains(err.Error(), "unknown gate kind") {
		t.Errorf("unknown kind: %v", err)
	}
}

func TestToQASMEmptyCircuitKeepsRegister(t *testing.T) {
	qasm, err := New(0).ToQASM()
	if err != nil {
		t.Fatalf("ToQASM: %v", err)
	}
	if !strings.Contains(qasm, "qreg q[1];") {
		t.Errorf("empty circuit must still declare a register:\n%s", qasm)
	}
}

func TestQASMRoundTrip(t *testing.T) {
	c := New(3)
	if err := c.AddGate(nil, "H", 0, nil, nil); err != nil {
		t.Fatal(err)
	}
	if err := c.AddGate(nil, "X", 1, []int{0}, nil); err != nil {
		t.Fatal(err)
	}
	if err := c.AddGate(nil, "RX", 2, nil, []float64{math.Pi / 5}); err != nil {
		t.Fatal(err)
	}
	m0, err := c.AddMeasurement(nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	m1, err := c.AddMeasurement(nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	conds := []Cond{{Bit: m0, Value: true}, {Bit: m1, Value: false}}
	if err := c.AddGate(conds, "Z", 2, nil, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := c.AddMeasurement(nil, 2); err != nil {
		t.Fatal(err)
	}

	first, err := c.ToQASM()
	if err != nil {
		t.Fatalf("ToQASM: %v", err)
	}
	if !strings.Contains(first, "if(m0==1) if(m1==0) z q[2];") {
		t.Fatalf("chained condition prefix missing:\n%s", first)
	}

	parsed, err := Parse(first)
	if err != nil {
		t.Fatalf("Parse: %v\n%s", err, first)
	}
	second, err := parsed.ToQASM()
	if err != nil {
		t.Fatalf("ToQASM after Parse: %v", err)
	}
	if first != second {
		t.Errorf("round trip drifted:\n%s\n-- versus --\n%s", first, second)
	}
}

func TestParseNamedCregs(t *testing.T) {
	qasm := `OPENQASM 2.0;
include "qelib1.inc";

qreg q[3];
creg c0[1];
creg c1[1];

h q[1];
cx q[1], q[2];
cx q[0], q[1];
h q[0];
measure q[0] -> c0[0];
measure q[1] -> c1[0];

if(c1==1) x q[2];
if(c0==1) z q[2];`

	c, err := Parse(qasm)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.NumQubits != 3 || c.NumBits != 2 {
		t.Fatalf("NumQubits=%d NumBits=%d, want 3 and 2", c.NumQubits, c.NumBits)
	}

	gates := allGates(c)
	if len(gates) != 8 {
		t.Fatalf("parsed %d gates, want 8", len(gates))
	}

	g6 := gates[6]
	if g6.g.Kind != "X" || g6.g.Target != 2 {
		t.Errorf("gate 6: %s on q[%d], want X on q[2]", g6.g.Kind, g6.g.Target)
	}
	if len(g6.conds) != 1 || g6.conds[0] != (Cond{Bit: 1, Value: true}) {
		t.Errorf("gate 6 conds = %v, want c1's bit", g6.conds)
	}

	g7 := gates[7]
	if g7.g.Kind != "Z" || g7.g.Target != 2 {
		t.Errorf("gate 7: %s on q[%d], want Z on q[2]", g7.g.Kind, g7.g.Target)
	}
	if len(g7.conds) != 1 || g7.conds[0] != (Cond{Bit: 0, Value: true}) {
		t.Errorf("gate 7 conds = %v, want c0's bit", g7.conds)
	}
}

func TestParseMultiBitRegisterCondition(t *testing.T) {
	qasm := `OPENQASM 2.0;
include "qelib1.inc";
qreg q[2];
creg c[2];
measure q[0] -> c[0];
measure q[1] -> c[1];
if(c==2) x q[0];`

	c, err := Parse(qasm)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	gates := allGates(c)
	last := gates[len(gates)-1]
	want := []Cond{{Bit: 0, Value: false}, {Bit: 1, Value: true}}
	if len(last.conds) != 2 || last.conds[0] != want[0] || last.conds[1] != want[1] {
		t.Errorf("conds = %v, want one per register bit %v", last.conds, want)
	}
}

func TestParseConditionOverflow(t *testing.T) {
	qasm := `OPENQASM 2.0;
qreg q[1];
creg c[1];
measure q[0] -> c[0];
if(c==2) x q[0];`

	_, err := Parse(qasm)
	if err == nil || !strings.Contains(err.Error(), "does not fit") {
		t.Fatalf("error = %v, want overflow rejection", err)
	}
}

func TestParseU2Translation(t *testing.T) {
	qasm := `OPENQASM 2.0;
qreg q[1];
u2(0, pi) q[0];`

	c, err := Parse(qasm)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	g := allGates(c)[0].g
	if g.Kind != "U" || len(g.Params) != 3 {
		t.Fatalf("u2 parsed as %s with params %v", g.Kind, g.Params)
	}
	want := []float64{math.Pi / 2, 0, math.Pi}
	for i, p := range g.Params {
		if math.Abs(p-want[i]) > 1e-10 {
			t.Errorf("param %d = %g, want %g", i, p, want[i])
		}
	}
}

func TestParseSkipsBarrierAndIdentity(t *testing.T) {
	qasm := `OPENQASM 2.0;
qreg q[2];
barrier q[0], q[1];
id q[0];
h q[0];`

	c, err := Parse(qasm)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.NumGates() != 1 {
		t.Errorf("NumGates = %d, want only the h", c.NumGates())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		qasm string
		want string
	}{
		{"version", "OPENQASM 3.0;", "only OPENQASM 2.0"},
		{"register name", "OPENQASM 2.0;\nqreg r[2];", "must be named q"},
		{"two qregs", "OPENQASM 2.0;\nqreg q[1];\nqreg q[2];", "multiple qreg"},
		{"duplicate creg", "OPENQASM 2.0;\nqreg q[1];\ncreg c[1];\ncreg c[1];", "duplicate creg"},
		{"junk", "OPENQASM 2.0;\nqreg q[1];\nwibble wobble;", "cannot parse"},
		{"unsupported gate", "OPENQASM 2.0;\nqreg q[1];\nfoo q[0];", "unsupported gate"},
		{"operand count", "OPENQASM 2.0;\nqreg q[2];\ncx q[0];", "acts on 2 qubits"},
		{"param count", "OPENQASM 2.0;\nqreg q[1];\nrx q[0];", "takes 1 parameters"},
		{"undeclared creg measure", "OPENQASM 2.0;\nqreg q[1];\nmeasure q[0] -> c[0];", "undeclared creg"},
		{"undeclared creg cond", "OPENQASM 2.0;\nqreg q[1];\nif(c==1) x q[0];", "undeclared creg"},
		{"measure index", "OPENQASM 2.0;\nqreg q[1];\ncreg c[1];\nmeasure q[0] -> c[1];", "out of range"},
	}

	for _, tt := range tests {
		_, err := Parse(tt.qasm)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: error = %v, want %q", tt.name, err, tt.want)
		}
	}
}

func TestParseErrorsCarryLineNumbers(t *testing.T) {
	qasm := "OPENQASM 2.0;\nqreg q[1];\nh q[0];\nwibble;"
	_, err := Parse(qasm)
	if err == nil || !strings.Contains(err.Error(), "line 4") {
		t.Fatalf("error = %v, want line 4", err)
	}
}
