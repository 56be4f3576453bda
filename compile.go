package qugo

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// plan is the scheduled form of a trace: the compact set of qubits the
// output depends on, and the reachable instructions ordered into segments
// of equal classical-condition sets.
type plan struct {
	qubits   []*Qubit
	index    map[*Qubit]int // qubit -> circuit index
	segments []*planSegment
}

type planSegment struct {
	key    string
	conds  []*Promise // canonical: deduplicated, sorted by producing measurement
	instrs []*Instruction
}

// compileTrace turns a finished trace and its output value into an
// executable plan plus the promises interpretation must resolve. A nil
// plan means nothing quantum reaches the output.
func compileTrace(t *Trace, output any) (*plan, []*Promise, error) {
	if t.err != nil {
		return nil, nil, t.err
	}
	proms, err := collectPromises(output)
	if err != nil {
		return nil, nil, err
	}

	var leafInstrs []*Instruction
	seen := make(map[*Instruction]bool)
	for _, p := range proms {
		for _, leaf := range p.leaves(nil) {
			if leaf.dropped {
				return nil, nil, &UnresolvedPromiseError{
					Reason: fmt.Sprintf("%s was dropped by a build-time condition and can never resolve", leaf.describe()),
				}
			}
			if leaf.trace != t {
				return nil, nil, &ScopeError{Subject: leaf.describe(), Owner: traceName(leaf.trace), User: traceName(t)}
			}
			if !seen[leaf.inst] {
				seen[leaf.inst] = true
				leafInstrs = append(leafInstrs, leaf.inst)
			}
		}
	}
	if len(leafInstrs) == 0 {
		return nil, proms, nil
	}

	qubits := reach(leafInstrs)
	segments, err := schedule(qubits)
	if err != nil {
		return nil, nil, err
	}

	index := make(map[*Qubit]int, len(qubits))
	for i, q := range qubits {
		index[q] = i
	}
	return &plan{qubits: qubits, index: index, segments: segments}, proms, nil
}

// reach computes the transitive closure of qubits needed to realize the
// given measurements: each qubit pulls in every qubit it shares an
// instruction with, plus the measured qubit behind every classical
// condition. Qubits outside the closure are dead code and never compiled.
func reach(leaves []*Instruction) []*Qubit {
	var work []*Qubit
	seen := make(map[*Qubit]bool)
	push := func(q *Qubit) {
		if !seen[q] {
			seen[q] = true
			work = append(work, q)
		}
	}
	for _, in := range leaves {
		push(in.Target())
	}
	for i := 0; i < len(work); i++ {
		for _, in := range work[i].ops {
			for _, q := range in.Qubits {
				push(q)
			}
			for _, p := range in.Conds {
				push(p.inst.Target())
			}
		}
	}
	sort.Slice(work, func(i, j int) bool { return work[i].index < work[j].index })
	return work
}

// schedule orders the closure's instructions. An instruction is ready when
// it is at the front of every participating qubit's remaining list and all
// its condition measurements are already placed; among ready instructions
// the scheduler first prefers ones that extend the currently open
// condition segment, then the earliest recorded. Per-qubit order and
// producer-before-consumer order are preserved by construction, and the
// choice is deterministic, so recompiling a trace yields the same circuit.
func schedule(qubits []*Qubit) ([]*planSegment, error) {
	fronts := make(map[*Qubit]int, len(qubits))
	emitted := make(map[*Instruction]bool)

	total := 0
	counted := make(map[*Instruction]bool)
	for _, q := range qubits {
		for _, in := range q.ops {
			if !counted[in] {
				counted[in] = true
				total++
			}
		}
	}

	ready := func(in *Instruction) bool {
		for _, q := range in.Qubits {
			f := fronts[q]
			if f >= len(q.ops) || q.ops[f] != in {
				return false
			}
		}
		for _, p := range in.Conds {
			if !emitted[p.inst] {
				return false
			}
		}
		return true
	}

	var segments []*planSegment
	var cur *planSegment
	for done := 0; done < total; done++ {
		var candidates []*Instruction
		dup := make(map[*Instruction]bool)
		for _, q := range qubits {
			if f := fronts[q]; f < len(q.ops) {
				in := q.ops[f]
				if !dup[in] && ready(in) {
					dup[in] = true
					candidates = append(candidates, in)
				}
			}
		}
		if len(candidates) == 0 {
			return nil, &CyclicDependencyError{Stuck: stuckInstrs(qubits, fronts)}
		}

		var pick *Instruction
		if cur != nil {
			for _, in := range candidates {
				if condKey(in.Conds) == cur.key && (pick == nil || in.seq < pick.seq) {
					pick = in
				}
			}
		}
		if pick == nil {
			for _, in := range candidates {
				if pick == nil || in.seq < pick.seq {
					pick = in
				}
			}
		}

		if key := condKey(pick.Conds); cur == nil || cur.key != key {
			cur = &planSegment{key: key, conds: canonicalConds(pick.Conds)}
			segments = append(segments, cur)
		}
		cur.instrs = append(cur.instrs, pick)
		emitted[pick] = true
		for _, q := range pick.Qubits {
			fronts[q]++
		}
	}
	return segments, nil
}

// canonicalConds deduplicates conditions by (measurement, polarity) and
// sorts them by recording order, so equal condition sets compare equal.
func canonicalConds(conds []*Promise) []*Promise {
	type ck struct {
		inst    *Instruction
		inverse bool
	}
	out := make([]*Promise, 0, len(conds))
	seen := make(map[ck]bool)
	for _, p := range conds {
		k := ck{p.inst, p.inverse}
		if !seen[k] {
			seen[k] = true
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].inst.seq != out[j].inst.seq {
			return out[i].inst.seq < out[j].inst.seq
		}
		return !out[i].inverse && out[j].inverse
	})
	return out
}

func condKey(conds []*Promise) string {
	canon := canonicalConds(conds)
	parts := make([]string, len(canon))
	for i, p := range canon {
		v := "1"
		if p.inverse {
			v = "0"
		}
		parts[i] = strconv.Itoa(p.inst.seq) + "=" + v
	}
	return strings.Join(parts, ",")
}

func stuckInstrs(qubits []*Qubit, fronts map[*Qubit]int) []string {
	var out []string
	dup := make(map[*Instruction]bool)
	for _, q := range qubits {
		if f := fronts[q]; f < len(q.ops) {
			in := q.ops[f]
			if !dup[in] {
				dup[in] = true
				out = append(out, fmt.Sprintf("%s on %s", in.Kind, in.Target().describe()))
			}
		}
	}
	return out
}

// emitPlan drives the builder through the plan and returns the measurement
// id assigned to each measurement instruction.
func emitPlan(b Builder, pl *plan) (map[*Instruction]int, error) {
	bits := make(map[*Instruction]int)
	for _, seg := range pl.segments {
		if len(seg.conds) == 0 {
			if err := emitInstrs(b, pl, seg.instrs, bits); err != nil {
				return nil, err
			}
			continue
		}
		bc := make([]BlockCond, len(seg.conds))
		for i, p := range seg.conds {
			id, ok := bits[p.inst]
			if !ok {
				return nil, fmt.Errorf("internal: condition measurement emitted after its consumer")
			}
			bc[i] = BlockCond{Measurement: id, Value: !p.inverse}
		}
		sort.Slice(bc, func(i, j int) bool {
			if bc[i].Measurement != bc[j].Measurement {
				return bc[i].Measurement < bc[j].Measurement
			}
			return bc[i].Value && !bc[j].Value
		})
		err := b.AppendClassicalBlock(bc, func(inner Builder) error {
			return emitInstrs(inner, pl, seg.instrs, bits)
		})
		if err != nil {
			return nil, err
		}
	}
	return bits, nil
}

func emitInstrs(b Builder, pl *plan, instrs []*Instruction, bits map[*Instruction]int) error {
	for _, in := range instrs {
		if in.IsMeasurement() {
			id, err := b.AppendMeasurement(pl.index[in.Target()])
			if err != nil {
				return err
			}
			bits[in] = id
			continue
		}
		controls := make([]int, len(in.Controls()))
		for i, c := range in.Controls() {
			controls[i] = pl.index[c]
		}
		if err := b.AppendGate(in.Kind, pl.index[in.Target()], controls, in.Params); err != nil {
			return err
		}
	}
	return nil
}
