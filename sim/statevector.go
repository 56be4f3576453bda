package sim

import (
	"fmt"
	"math"
	"math/cmplx"
)

type Complex = complex128

// StateVector tracks the full amplitude vector of a qubit register, with
// qubit 0 as the least significant bit of the basis index.
type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

// NewStateVector returns a register initialized to the all-zero state.
func NewStateVector(numQubits int) *StateVector {
	amps := make([]Complex, 1<<numQubits)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// Apply applies a single-qubit matrix to target, restricted to basis
// states where every control bit is set.
func (s *StateVector) Apply(m [2][2]Complex, target int, controls []int) {
	tBit := 1 << target
	ctrlMask := 0
	for _, c := range controls {
		ctrlMask |= 1 << c
	}
	for i := range s.Amplitudes {
		if i&tBit == 0 && i&ctrlMask == ctrlMask {
			j := i | tBit
			a0, a1 := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = m[0][0]*a0 + m[0][1]*a1
			s.Amplitudes[j] = m[1][0]*a0 + m[1][1]*a1
		}
	}
}

// Prob1 returns the probability of reading qubit q as 1.
func (s *StateVector) Prob1(q int) float64 {
	bit := 1 << q
	p := 0.0
	for i, a := range s.Amplitudes {
		if i&bit != 0 {
			p += real(a * cmplx.Conj(a))
		}
	}
	return p
}

// Collapse projects qubit q onto the given outcome and renormalizes. prob
// is the probability of that outcome before the projection.
func (s *StateVector) Collapse(q int, one bool, prob float64) {
	bit := 1 << q
	norm := complex(1, 0)
	if prob > 0 {
		norm = complex(math.Sqrt(prob), 0)
	}
	for i, a := range s.Amplitudes {
		if (i&bit != 0) == one {
			s.Amplitudes[i] = a / norm
		} else {
			s.Amplitudes[i] = 0
		}
	}
}

// gateMatrix builds the 2x2 unitary for a gate kind. Controls never change
// the matrix, only where Apply uses it.
func gateMatrix(kind string, params []float64) ([2][2]Complex, error) {
	need := 0
	switch kind {
	case "P", "RX", "RY", "RZ":
		need = 1
	case "U":
		need = 3
	}
	if len(params) != need {
		return [2][2]Complex{}, fmt.Errorf("%s takes %d parameters, got %d", kind, need, len(params))
	}

	switch kind {
	case "X":
		return [2][2]Complex{{0, 1}, {1, 0}}, nil
	case "Y":
		return [2][2]Complex{{0, -1i}, {1i, 0}}, nil
	case "Z":
		return [2][2]Complex{{1, 0}, {0, -1}}, nil
	case "H":
		h := complex(1/math.Sqrt2, 0)
		return [2][2]Complex{{h, h}, {h, -h}}, nil
	case "S":
		return [2][2]Complex{{1, 0}, {0, 1i}}, nil
	case "SDG":
		return [2][2]Complex{{1, 0}, {0, -1i}}, nil
	case "T":
		return [2][2]Complex{{1, 0}, {0, cmplx.Exp(complex(0, math.Pi/4))}}, nil
	case "TDG":
		return [2][2]Complex{{1, 0}, {0, cmplx.Exp(complex(0, -math.Pi/4))}}, nil
	case "P":
		return [2][2]Complex{{1, 0}, {0, cmplx.Exp(complex(0, params[0]))}}, nil
	case "RX":
		c := complex(math.Cos(params[0]/2), 0)
		js := complex(0, -math.Sin(params[0]/2))
		return [2][2]Complex{{c, js}, {js, c}}, nil
	case "RY":
		c := complex(math.Cos(params[0]/2), 0)
		sn := complex(math.Sin(params[0]/2), 0)
		return [2][2]Complex{{c, -sn}, {sn, c}}, nil
	case "RZ":
		ph := cmplx.Exp(complex(0, params[0]/2))
		return [2][2]Complex{{cmplx.Conj(ph), 0}, {0, ph}}, nil
	case "U":
		theta, phi, lam := params[0], params[1], params[2]
		c := complex(math.Cos(theta/2), 0)
		sn := complex(math.Sin(theta/2), 0)
		return [2][2]Complex{
			{c, -cmplx.Exp(complex(0, lam)) * sn},
			{cmplx.Exp(complex(0, phi)) * sn, cmplx.Exp(complex(0, phi+lam)) * c},
		}, nil
	}
	return [2][2]Complex{}, fmt.Errorf("unknown gate kind %q", kind)
}
