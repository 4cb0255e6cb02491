package level

import (
	"errors"
	"fmt"
)

// Graph is the memory graph: each level and the levels a frame can open onto.
type Graph struct {
	levels map[string]*Manifest
	order  []string
}

func NewGraph(manifests ...*Manifest) *Graph {
	g := &Graph{levels: make(map[string]*Manifest)}
	for _, m := range manifests {
		g.Put(m)
	}
	return g
}

// Put adds or replaces a level, keeping its original position in Names.
func (g *Graph) Put(m *Manifest) {
	if _, exists := g.levels[m.Name]; !exists {
		g.order = append(g.order, m.Name)
	}
	g.levels[m.Name] = m
}

func (g *Graph) Get(name string) (*Manifest, bool) {
	m, ok := g.levels[name]
	return m, ok
}

func (g *Graph) Names() []string {
	return append([]string(nil), g.order...)
}

func (g *Graph) Len() int { return len(g.order) }

// Neighbors returns the levels reachable from name, or nil for unknown levels.
func (g *Graph) Neighbors(name string) []string {
	m, ok := g.levels[name]
	if !ok {
		return nil
	}
	return append([]string(nil), m.Neighbors...)
}

// Validate reports every broken edge at once.
func (g *Graph) Validate() error {
	var errs []error
	for _, name := range g.order {
		m := g.levels[name]
		for _, n := range m.Neighbors {
			if n == name {
				errs = append(errs, fmt.Errorf("level %s: lists itself as a neighbor", name))
				continue
			}
			target, ok := g.levels[n]
			if !ok {
				errs = append(errs, fmt.Errorf("level %s: unknown neighbor %q", name, n))
				continue
			}
			if target.Arrival == nil {
				errs = append(errs, fmt.Errorf("level %s: neighbor %q has no arrival anchor", name, n))
			}
		}
		for dest := range m.Portals {
			if !m.HasNeighbor(dest) {
				errs = append(errs, fmt.Errorf("level %s: portal anchor for %q which is not a neighbor", name, dest))
			}
		}
	}
	return errors.Join(errs...)
}
