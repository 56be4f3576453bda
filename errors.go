package qugo

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Usage violations detected while recording or collecting a trace.
var (
	// ErrNilBody is returned when a Program has no body function.
	ErrNilBody = errors.New("program body is nil")

	// ErrQubitInOutput is returned when a program's return value contains a
	// qubit. Qubits hold quantum state that is discarded after execution;
	// return the result of Measure instead.
	ErrQubitInOutput = errors.New("program output contains a qubit; measure it and return the promise")

	// ErrConditionedMeasurement is returned when Measure is given a qubit or
	// a pending promise as a condition. Conditioned measurement has no
	// counterpart in the executor's primitive set.
	ErrConditionedMeasurement = errors.New("measurements cannot be conditioned on qubits or pending measurements")

	// ErrCompositeCondition is returned when a promise built by And, Or or
	// Xor is used as a gate condition. Only measurement promises and their
	// inverses compile to classical controls.
	ErrCompositeCondition = errors.New("composite promises cannot condition gates; condition on the measurement promises directly")
)

// ScopeError reports a qubit or promise that was used by a trace other than
// the one that owns it, for example a handle smuggled between two program
// calls through a shared variable.
type ScopeError struct {
	Subject string // what leaked, e.g. "qubit 2"
	Owner   string // trace that owns it, "detached" for trace-less handles
	User    string // trace that tried to use it
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("%s belongs to trace %s and cannot be used by trace %s", e.Subject, e.Owner, e.User)
}

// CyclicDependencyError reports instructions whose conditions cannot be
// ordered, such as a gate conditioned on its own target.
type CyclicDependencyError struct {
	Stuck []string // descriptions of the unschedulable instructions
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency between instructions: %s", strings.Join(e.Stuck, "; "))
}

// UnresolvedPromiseError reports a promise read before the program ran,
// resolved more than once, or impossible to resolve at all because its
// measurement was dropped at trace time.
type UnresolvedPromiseError struct {
	Reason string
}

func (e *UnresolvedPromiseError) Error() string {
	return "unresolved promise: " + e.Reason
}

// ExecutionResultMismatchError reports an executor result whose measurement
// ids do not match the set the compiled circuit asked for.
type ExecutionResultMismatchError struct {
	Missing []int // requested ids absent from the result
	Extra   []int // result ids that were never requested
}

func (e *ExecutionResultMismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing measurements %v", sortedInts(e.Missing)))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("unexpected measurements %v", sortedInts(e.Extra)))
	}
	return "execution result mismatch: " + strings.Join(parts, ", ")
}

func sortedInts(in []int) []int {
	out := append([]int(nil), in...)
	sort.Ints(out)
	return out
}
