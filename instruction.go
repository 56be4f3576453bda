package qugo

// Gate kinds recorded on instructions. The names double as the vocabulary
// handed to Builder.AppendGate.
const (
	KindX       = "X"
	KindY       = "Y"
	KindZ       = "Z"
	KindH       = "H"
	KindS       = "S"
	KindSdg     = "SDG"
	KindT       = "T"
	KindTdg     = "TDG"
	KindP       = "P"
	KindRX      = "RX"
	KindRY      = "RY"
	KindRZ      = "RZ"
	KindU       = "U"
	KindMeasure = "MEASURE"
)

// Instruction is one recorded operation: a gate kind, its parameters, the
// qubits it acts on with the target first and any controlling qubits after
// it, and the classical conditions guarding it. Measurements additionally
// carry the promise they produced.
type Instruction struct {
	Kind    string
	Params  []float64
	Qubits  []*Qubit   // target first, then controls in the order supplied
	Conds   []*Promise // classical conditions; all must hold
	Promise *Promise   // measurement result, nil for gates

	seq   int    // position in the trace's global order
	scope string // subroutine path at record time, "" at top level
}

// Target returns the qubit the instruction acts on.
func (in *Instruction) Target() *Qubit { return in.Qubits[0] }

// Controls returns the qubits the instruction is quantum-controlled on.
func (in *Instruction) Controls() []*Qubit { return in.Qubits[1:] }

// IsMeasurement reports whether the instruction produces a classical bit.
func (in *Instruction) IsMeasurement() bool { return in.Kind == KindMeasure }

// Condition gates an instruction. Three things satisfy it: a *Qubit
// (compiles to a quantum control), a *Promise (compiles to a classical
// control on the measured bit), and When(b) (evaluated while recording).
type Condition interface {
	condition()
}

type buildCond bool

func (buildCond) condition() {}

// When lifts a build-time boolean into a Condition. A false condition drops
// the instruction while recording; a true one has no effect.
func When(ok bool) Condition { return buildCond(ok) }

// splitConditions classifies conditions by how they compile. live is false
// when a build-time condition failed, meaning the instruction must not be
// recorded at all. A promise condition whose measurement was dropped also
// kills the instruction, since its guard can never be satisfied.
func splitConditions(conds []Condition) (qubits []*Qubit, promises []*Promise, live bool, err error) {
	live = true
	for _, c := range conds {
		switch v := c.(type) {
		case *Qubit:
			qubits = append(qubits, v)
		case *Promise:
			if v.composite() {
				return nil, nil, false, ErrCompositeCondition
			}
			if v.dropped {
				live = false
				continue
			}
			promises = append(promises, v)
		case buildCond:
			if !bool(v) {
				live = false
			}
		}
	}
	return qubits, promises, live, nil
}
