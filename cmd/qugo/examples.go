package main

import (
	"math"

	"qugo"
)

// demo is one built-in example program, shown by list and tui.
type demo struct {
	name  string
	blurb string
	prog  *qugo.Program
}

var demos = []demo{
	{
		name:  "bit",
		blurb: "one fair coin from a Hadamard and a measurement",
		prog: qugo.New("bit", func(t *qugo.Trace) (any, error) {
			return t.NewQubit().H().Measure(), nil
		}),
	},
	{
		name:  "bell",
		blurb: "entangled pair whose measurements always match",
		prog: qugo.New("bell", func(t *qugo.Trace) (any, error) {
			a := t.NewQubit().H()
			b := t.NewQubit().X(a)
			pa, pb := a.Measure(), b.Measure()
			return map[string]*qugo.Promise{
				"a":     pa,
				"b":     pb,
				"match": pa.Xor(pb).Not(),
			}, nil
		}),
	},
	{
		name:  "ghz",
		blurb: "three-qubit GHZ state, every bit agrees",
		prog: qugo.New("ghz", func(t *qugo.Trace) (any, error) {
			qs := t.NewQubits(3)
			qs[0].H()
			qs[1].X(qs[0])
			qs[2].X(qs[1])
			out := make([]*qugo.Promise, len(qs))
			for i, q := range qs {
				out[i] = q.Measure()
			}
			return out, nil
		}),
	},
	{
		name:  "teleport",
		blurb: "teleports an RX(pi/5) state through an entangled pair",
		prog: qugo.New("teleport", func(t *qugo.Trace) (any, error) {
			msg := t.NewQubit().RX(math.Pi / 5)
			a := t.NewQubit().H()
			b := t.NewQubit().X(a)

			a.X(msg)
			msg.H()
			m1 := msg.Measure()
			m2 := a.Measure()

			b.X(m2).Z(m1)
			return b.Measure(), nil
		}),
	},
	{
		name:  "vote",
		blurb: "majority vote over three quantum coins",
		prog: qugo.New("vote", func(t *qugo.Trace) (any, error) {
			a := t.NewQubit().H().Measure()
			b := t.NewQubit().H().Measure()
			c := t.NewQubit().H().Measure()
			return map[string]*qugo.Promise{
				"a":        a,
				"b":        b,
				"c":        c,
				"majority": a.And(b).Or(a.And(c)).Or(b.And(c)),
			}, nil
		}),
	},
}

func findDemo(name string) (demo, bool) {
	for _, d := range demos {
		if d.name == name {
			return d, true
		}
	}
	return demo{}, false
}
