package circuit

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Regexps for QASM parsing, compiled once.
var (
	qregRegex    = regexp.MustCompile(`^qreg\s+(\w+)\s*\[(\d+)\]\s*;?$`)
	cregRegex    = regexp.MustCompile(`^creg\s+(\w+)\s*\[(\d+)\]\s*;?$`)
	measureRegex = regexp.MustCompile(`^measure\s+q\[(\d+)\]\s*->\s*(\w+)\[(\d+)\]\s*;?$`)
	ifRegex      = regexp.MustCompile(`^if\s*\(\s*(\w+)\s*==\s*(\d+)\s*\)\s*(.+)$`)
	gateRegex    = regexp.MustCompile(`^(\w+)\s*(?:\(\s*(` + paramPattern + `(?:\s*,\s*` + paramPattern + `)*)\s*\))?\s+(q\[\d+\](?:\s*,\s*q\[\d+\])*)\s*;?$`)
	operandRegex = regexp.MustCompile(`q\[(\d+)\]`)
)

// plainNames maps gate kinds to their uncontrolled qelib1 spellings.
var plainNames = map[string]string{
	"X": "x", "Y": "y", "Z": "z", "H": "h",
	"S": "s", "SDG": "sdg", "T": "t", "TDG": "tdg",
	"P": "p", "RX": "rx", "RY": "ry", "RZ": "rz", "U": "u3",
}

// controlledNames maps gate kinds to their singly-controlled spellings.
// Kinds missing here have no qelib1 controlled form.
var controlledNames = map[string]string{
	"X": "cx", "Y": "cy", "Z": "cz", "H": "ch",
	"RX": "crx", "RY": "cry", "RZ": "crz", "P": "cu1", "U": "cu3",
}

// multiXNames maps control counts to the multi-controlled X spellings.
var multiXNames = map[int]string{2: "ccx", 3: "c3x", 4: "c4x"}

// ToQASM renders the circuit as OPENQASM 2.0 against qelib1. Every
// classical bit gets its own one-bit register named m<bit>, so a condition
// on bit 3 reads if(m3==1). A segment guarded by several conditions emits
// chained if prefixes on each line; Parse round-trips that form, though
// the base QASM 2.0 grammar allows only a single if per statement.
func (c *Circuit) ToQASM() (string, error) {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", max(c.NumQubits, 1))
	for bit := range c.NumBits {
		fmt.Fprintf(&sb, "creg m%d[1];\n", bit)
	}
	sb.WriteString("\n")

	for _, seg := range c.Segments {
		prefix := condPrefix(seg.Conds)
		for _, g := range seg.Gates {
			line, err := qasmLine(g)
			if err != nil {
				return "", err
			}
			sb.WriteString(prefix + line + "\n")
		}
	}
	return sb.String(), nil
}

func condPrefix(conds []Cond) string {
	var sb strings.Builder
	for _, cd := range conds {
		v := 0
		if cd.Value {
			v = 1
		}
		fmt.Fprintf(&sb, "if(m%d==%d) ", cd.Bit, v)
	}
	return sb.String()
}

func qasmLine(g Gate) (string, error) {
	if g.IsMeasurement() {
		return fmt.Sprintf("measure q[%d] -> m%d[0];", g.Target, g.Bit), nil
	}
	switch len(g.Controls) {
	case 0:
		name, ok := plainNames[g.Kind]
		if !ok {
			return "", fmt.Errorf("unknown gate kind %q", g.Kind)
		}
		return gateCall(name, g.Params, []int{g.Target}), nil
	case 1:
		name, ok := controlledNames[g.Kind]
		if !ok {
			return "", fmt.Errorf("no qelib1 form for controlled %s", g.Kind)
		}
		return gateCall(name, g.Params, []int{g.Controls[0], g.Target}), nil
	default:
		name, ok := multiXNames[len(g.Controls)]
		if g.Kind != "X" || !ok {
			return "", fmt.Errorf("no qelib1 form for %s with %d controls", g.Kind, len(g.Controls))
		}
		return gateCall(name, nil, append(slices.Clone(g.Controls), g.Target)), nil
	}
}

// gateCall prints one gate statement with operands in QASM order, controls
// before target.
func gateCall(name string, params []float64, operands []int) string {
	var sb strings.Builder
	sb.WriteString(name)
	if len(params) > 0 {
		fmt.Fprintf(&sb, "(%s)", formatParams(params))
	}
	for i, q := range operands {
		if i == 0 {
			sb.WriteString(" ")
		} else {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "q[%d]", q)
	}
	sb.WriteString(";")
	return sb.String()
}

// gateForm describes how one qelib1 gate name maps onto the kind
// vocabulary: the kind it becomes, its control count, and its parameter
// count.
type gateForm struct {
	kind     string
	controls int
	params   int
}

var gateForms = map[string]gateForm{
	"x": {"X", 0, 0}, "y": {"Y", 0, 0}, "z": {"Z", 0, 0}, "h": {"H", 0, 0},
	"s": {"S", 0, 0}, "sdg": {"SDG", 0, 0}, "t": {"T", 0, 0}, "tdg": {"TDG", 0, 0},
	"p": {"P", 0, 1}, "u1": {"P", 0, 1}, "u2": {"U", 0, 2}, "u3": {"U", 0, 3}, "u": {"U", 0, 3},
	"rx": {"RX", 0, 1}, "ry": {"RY", 0, 1}, "rz": {"RZ", 0, 1},
	"cx": {"X", 1, 0}, "cy": {"Y", 1, 0}, "cz": {"Z", 1, 0}, "ch": {"H", 1, 0},
	"crx": {"RX", 1, 1}, "cry": {"RY", 1, 1}, "crz": {"RZ", 1, 1},
	"cp": {"P", 1, 1}, "cu1": {"P", 1, 1}, "cu3": {"U", 1, 3},
	"ccx": {"X", 2, 0}, "toffoli": {"X", 2, 0}, "c3x": {"X", 3, 0}, "c4x": {"X", 4, 0},
}

// cregInfo tracks one declared classical register: its first global bit
// and its width.
type cregInfo struct {
	base int
	size int
}

// Parse rebuilds a circuit from OPENQASM 2.0 text. It accepts everything
// ToQASM emits plus the common qelib1 vocabulary, reading a comparison
// against a multi-bit register as one condition per bit. Barriers and
// identity gates are parsed and dropped.
func Parse(text string) (*Circuit, error) {
	c := New(0)
	cregs := map[string]cregInfo{}
	sawQreg := false

	for lineNo, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		n := lineNo + 1
		switch {
		case line == "" || strings.HasPrefix(line, "//"):
			continue
		case strings.HasPrefix(line, "OPENQASM"):
			if !strings.HasPrefix(line, "OPENQASM 2") {
				return nil, fmt.Errorf("line %d: only OPENQASM 2.0 input is supported", n)
			}
			continue
		case strings.HasPrefix(line, "include"):
			continue
		case strings.HasPrefix(line, "barrier"):
			continue
		}

		if m := qregRegex.FindStringSubmatch(line); m != nil {
			if sawQreg {
				return nil, fmt.Errorf("line %d: multiple qreg declarations", n)
			}
			if m[1] != "q" {
				return nil, fmt.Errorf("line %d: quantum register must be named q, got %q", n, m[1])
			}
			c.NumQubits, _ = strconv.Atoi(m[2])
			sawQreg = true
			continue
		}
		if m := cregRegex.FindStringSubmatch(line); m != nil {
			if _, dup := cregs[m[1]]; dup {
				return nil, fmt.Errorf("line %d: duplicate creg %s", n, m[1])
			}
			size, _ := strconv.Atoi(m[2])
			cregs[m[1]] = cregInfo{base: c.NumBits, size: size}
			c.NumBits += size
			continue
		}

		var conds []Cond
		for {
			m := ifRegex.FindStringSubmatch(line)
			if m == nil {
				break
			}
			reg, ok := cregs[m[1]]
			if !ok {
				return nil, fmt.Errorf("line %d: condition on undeclared creg %s", n, m[1])
			}
			val, _ := strconv.Atoi(m[2])
			if val>>reg.size != 0 {
				return nil, fmt.Errorf("line %d: %d does not fit in %s[%d]", n, val, m[1], reg.size)
			}
			for k := range reg.size {
				conds = append(conds, Cond{Bit: reg.base + k, Value: val>>k&1 == 1})
			}
			line = m[3]
		}

		if m := measureRegex.FindStringSubmatch(line); m != nil {
			target, _ := strconv.Atoi(m[1])
			reg, ok := cregs[m[2]]
			if !ok {
				return nil, fmt.Errorf("line %d: measure into undeclared creg %s", n, m[2])
			}
			idx, _ := strconv.Atoi(m[3])
			if idx >= reg.size {
				return nil, fmt.Errorf("line %d: index %d out of range for %s[%d]", n, idx, m[2], reg.size)
			}
			g := Gate{Kind: KindMeasure, Target: target, Bit: reg.base + idx}
			if err := c.check(conds, g); err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
			c.place(conds, g)
			continue
		}

		m := gateRegex.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("line %d: cannot parse %q", n, line)
		}
		name := strings.ToLower(m[1])
		if name == "id" {
			continue
		}
		form, ok := gateForms[name]
		if !ok {
			return nil, fmt.Errorf("line %d: unsupported gate %q", n, m[1])
		}

		var params []float64
		if m[2] != "" {
			if params, ok = parseParamList(m[2]); !ok {
				return nil, fmt.Errorf("line %d: bad parameters %q", n, m[2])
			}
		}
		if len(params) != form.params {
			return nil, fmt.Errorf("line %d: %s takes %d parameters, got %d", n, name, form.params, len(params))
		}
		if name == "u2" {
			params = append([]float64{math.Pi / 2}, params...)
		}

		var operands []int
		for _, om := range operandRegex.FindAllStringSubmatch(m[3], -1) {
			q, _ := strconv.Atoi(om[1])
			operands = append(operands, q)
		}
		if len(operands) != form.controls+1 {
			return nil, fmt.Errorf("line %d: %s acts on %d qubits, got %d", n, name, form.controls+1, len(operands))
		}

		target := operands[len(operands)-1]
		if err := c.AddGate(conds, form.kind, target, operands[:len(operands)-1], params); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
	}
	return c, nil
}
