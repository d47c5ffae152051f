package pathfind

import (
	"math"

	"mapforge/pkg/engine/geom"
)

// node is one search slot. Slots live for the whole session and are lazily
// reset: a slot whose gen differs from the pool's current generation is
// treated as untouched.
type node struct {
	pos    geom.Point
	g      float64
	h      float64
	f      float64
	parent *node
	seq    int
	gen    uint32
	open   bool
	closed bool
}

type nodePool struct {
	width, height int
	nodes         []node
	gen           uint32
}

// begin starts a new search on a width×height grid. It reports whether the
// existing slots were reused.
func (p *nodePool) begin(width, height int) bool {
	if p.nodes != nil && p.width == width && p.height == height {
		p.gen++
		if p.gen == 0 {
			for i := range p.nodes {
				p.nodes[i].gen = 0
			}
			p.gen = 1
		}
		return true
	}
	p.width, p.height = width, height
	p.nodes = make([]node, width*height)
	p.gen = 1
	return false
}

func (p *nodePool) get(pt geom.Point) *node {
	n := &p.nodes[pt.Y*p.width+pt.X]
	if n.gen != p.gen {
		*n = node{pos: pt, gen: p.gen, g: math.Inf(1)}
	}
	return n
}

func lessNode(a, b *node) bool {
	if a.f != b.f {
		return a.f < b.f
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.seq < b.seq
}
