// Package qugo compiles ordinary imperative Go functions into quantum
// circuits.
//
// A program body receives a *Trace, allocates Qubit handles from it, and
// calls gate methods on them as if the quantum state were computed on the
// spot. Nothing is executed during the body: every gate call records an
// instruction against the trace, and Measure returns a *Promise standing in
// for the bit that will only exist once a circuit has run. After the body
// returns, qugo walks the returned value for promises, compiles the minimal
// circuit that can fulfil them (operations on qubits that never reach the
// output are dropped), hands it to an Executor, and resolves the promises
// in place from the raw measurement results.
//
//	coin := qugo.New("coin", func(tr *qugo.Trace) (any, error) {
//		return tr.NewQubit().H().Measure(), nil
//	})
//	out, err := coin.Run(ctx, sim.New(1))
//	// out is the *Promise, now resolved to true or false.
//
// Gates can be conditioned. Passing a *Qubit as a condition compiles to a
// controlled gate; passing a *Promise compiles to a classically-controlled
// block that the executor applies only when the earlier measurement came
// out accordingly; When(b) evaluates at trace time and simply drops the
// instruction when false. Trace.WithControl applies one condition to every
// instruction recorded inside a function literal.
//
// The compiled artifact never leaves the Executor abstraction: qugo only
// asks it to open a circuit, append gates, measurements and
// classically-controlled blocks, and run the result once. The sim package
// provides a statevector-based Executor; the circuit package holds the
// concrete artifact it builds, along with QASM export and a terminal
// renderer.
package qugo
