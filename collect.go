package qugo

import (
	"fmt"
	"reflect"
	"sort"
)

// collector gathers the distinct promises reachable from a program's
// return value, in first-encounter order so compilation is deterministic.
type collector struct {
	promises []*Promise
	seen     map[*Promise]bool
	visited  map[uintptr]bool // pointers, maps and slices already walked
}

// collectPromises walks the returned value. Slices, arrays and maps are
// recursed into (map keys in sorted render order); other types take part
// only through the PromiseHolder capability. Qubits anywhere in the output
// are an error.
func collectPromises(v any) ([]*Promise, error) {
	c := &collector{
		seen:    make(map[*Promise]bool),
		visited: make(map[uintptr]bool),
	}
	if err := c.walk(v); err != nil {
		return nil, err
	}
	return c.promises, nil
}

func (c *collector) add(p *Promise) {
	if p == nil || c.seen[p] {
		return
	}
	c.seen[p] = true
	c.promises = append(c.promises, p)
}

func (c *collector) walk(v any) error {
	if v == nil {
		return nil
	}
	switch x := v.(type) {
	case *Promise:
		c.add(x)
		return nil
	case *Qubit:
		return ErrQubitInOutput
	case PromiseHolder:
		for _, p := range x.Promises() {
			c.add(p)
		}
		return nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() || c.mark(rv.Pointer()) {
			return nil
		}
		return c.walk(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() || c.mark(rv.Pointer()) {
			return nil
		}
		return c.walkSeq(rv)
	case reflect.Array:
		return c.walkSeq(rv)
	case reflect.Map:
		if rv.IsNil() || c.mark(rv.Pointer()) {
			return nil
		}
		return c.walkMap(rv)
	}
	// Scalars, structs without the PromiseHolder capability, channels and
	// the rest are opaque: they pass through interpretation untouched.
	return nil
}

func (c *collector) walkSeq(rv reflect.Value) error {
	for i := 0; i < rv.Len(); i++ {
		if err := c.walk(rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

// walkMap visits entries in sorted key order, since map iteration order
// would otherwise leak into measurement numbering.
func (c *collector) walkMap(rv reflect.Value) error {
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})
	for _, k := range keys {
		if err := c.walk(k.Interface()); err != nil {
			return err
		}
		if err := c.walk(rv.MapIndex(k).Interface()); err != nil {
			return err
		}
	}
	return nil
}

// mark reports whether ptr was walked before, remembering it if not.
func (c *collector) mark(ptr uintptr) bool {
	if c.visited[ptr] {
		return true
	}
	c.visited[ptr] = true
	return false
}
