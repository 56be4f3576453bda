package circuit

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// paramPattern matches one parameter value in QASM text: a plain number, a
// pi expression, or a scaled pi fraction like "3*pi/4" or "-2pi/3".
const paramPattern = `-?(?:\d*\.?\d*\*?pi(?:/\d+\.?\d*)?|\d+\.?\d*(?:[eE][+\-]?\d+)?)`

var piExprRegex = regexp.MustCompile(`^(-?)(\d*\.?\d*)\s*\*?\s*pi(?:\s*/\s*(\d+\.?\d*))?$`)

// parseParam parses a single parameter, accepting plain floats ("1.5707",
// "-0.5", "3e-2") and pi expressions ("pi", "pi/2", "3*pi/4", "-2pi/3").
func parseParam(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}

	m := piExprRegex.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return 0, false
	}
	coeff := 1.0
	if m[2] != "" {
		var err error
		if coeff, err = strconv.ParseFloat(m[2], 64); err != nil {
			return 0, false
		}
	}
	v := coeff * math.Pi
	if m[3] != "" {
		denom, err := strconv.ParseFloat(m[3], 64)
		if err != nil || denom == 0 {
			return 0, false
		}
		v /= denom
	}
	if m[1] == "-" {
		v = -v
	}
	return v, true
}

// parseParamList parses a comma-separated parameter list, rejecting the
// whole list when any entry fails.
func parseParamList(s string) ([]float64, bool) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		v, ok := parseParam(part)
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

// piForms holds the pi fractions formatParam prints symbolically. Larger
// values come first so multiples match before their fractions.
var piForms = []struct {
	val  float64
	text string
}{
	{2 * math.Pi, "2*pi"},
	{3 * math.Pi / 2, "3*pi/2"},
	{math.Pi, "pi"},
	{3 * math.Pi / 4, "3*pi/4"},
	{2 * math.Pi / 3, "2*pi/3"},
	{math.Pi / 2, "pi/2"},
	{math.Pi / 3, "pi/3"},
	{math.Pi / 4, "pi/4"},
	{math.Pi / 5, "pi/5"},
	{math.Pi / 6, "pi/6"},
	{math.Pi / 8, "pi/8"},
}

// formatParam prints a parameter, preferring pi notation when the value is
// within rounding distance of a known fraction.
func formatParam(v float64) string {
	for _, pf := range piForms {
		if math.Abs(v-pf.val) < 1e-10 {
			return pf.text
		}
		if math.Abs(v+pf.val) < 1e-10 {
			return "-" + pf.text
		}
	}
	return fmt.Sprintf("%g", v)
}

// formatParams prints a parameter list the way it appears inside a QASM
// gate call.
func formatParams(ps []float64) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = formatParam(p)
	}
	return strings.Join(parts, ", ")
}
