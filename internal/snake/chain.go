// Package snake implements the snake body as an arena of segments linked by
// index, with head/tail tracking and a queued direction change.
package snake

import "github.com/vovakirdan/snake3d/internal/core"

// Segment is one unit cube of the body.
type Segment struct {
	Pos core.Vec3
	Dir core.Direction
}

// none marks a missing link.
const none = -1

type node struct {
	Segment
	ahead  int // segment closer to the head, none for the head
	behind int // segment closer to the tail, none for the tail
}

// Chain is the snake body. Segments live in a flat slice and reference each
// other by index; moving recycles the tail slot as the new head.
type Chain struct {
	nodes   []node
	head    int
	tail    int
	nextDir core.Direction
	queued  bool
}

// New lays out a straight chain of length segments starting at tail and
// extending in dir. The last segment is the head.
func New(tail core.Vec3, dir core.Direction, length int) *Chain {
	if length < 1 {
		length = 1
	}
	if !dir.Valid() {
		dir = core.DirPosX
	}

	c := &Chain{nodes: make([]node, length)}
	pos := tail
	for i := range c.nodes {
		c.nodes[i] = node{
			Segment: Segment{Pos: pos, Dir: dir},
			ahead:   i + 1,
			behind:  i - 1,
		}
		pos = pos.Step(dir)
	}
	c.nodes[length-1].ahead = none
	c.tail = 0
	c.head = length - 1
	return c
}

// Len returns the number of segments.
func (c *Chain) Len() int {
	return len(c.nodes)
}

// Head returns the head coordinate.
func (c *Chain) Head() core.Vec3 {
	return c.nodes[c.head].Pos
}

// HeadDirection returns the direction the head is currently moving.
func (c *Chain) HeadDirection() core.Direction {
	return c.nodes[c.head].Dir
}

// Tail returns the tail coordinate.
func (c *Chain) Tail() core.Vec3 {
	return c.nodes[c.tail].Pos
}

// SetNextDirection queues a direction for the next turn. Reversals are not
// rejected here; NextHeadCell drops them when it applies the queue.
func (c *Chain) SetNextDirection(d core.Direction) {
	if !d.Valid() {
		return
	}
	c.nextDir = d
	c.queued = true
}

// QueuedDirection returns the pending direction change, if any.
func (c *Chain) QueuedDirection() (core.Direction, bool) {
	return c.nextDir, c.queued
}

// NextHeadCell applies the queued direction unless it reverses the head,
// clears the queue and returns the cell one step ahead of the head.
func (c *Chain) NextHeadCell() core.Vec3 {
	h := &c.nodes[c.head]
	if c.queued && c.nextDir != h.Dir.Opposite() {
		h.Dir = c.nextDir
	}
	c.queued = false
	return h.Pos.Step(h.Dir)
}

// Advance moves the chain one cell in the head direction by recycling the
// tail segment as the new head. It returns the vacated tail coordinate.
func (c *Chain) Advance() core.Vec3 {
	h := c.nodes[c.head]
	target := h.Pos.Step(h.Dir)

	if c.head == c.tail {
		vacated := h.Pos
		c.nodes[c.head].Pos = target
		return vacated
	}

	t := c.tail
	vacated := c.nodes[t].Pos
	newTail := c.nodes[t].ahead
	c.nodes[newTail].behind = none

	c.nodes[t] = node{
		Segment: Segment{Pos: target, Dir: h.Dir},
		ahead:   none,
		behind:  c.head,
	}
	c.nodes[c.head].ahead = t
	c.head = t
	c.tail = newTail
	return vacated
}

// Grow adds a new head segment one cell ahead. Nothing is vacated.
func (c *Chain) Grow() {
	h := c.nodes[c.head]
	c.nodes = append(c.nodes, node{
		Segment: Segment{Pos: h.Pos.Step(h.Dir), Dir: h.Dir},
		ahead:   none,
		behind:  c.head,
	})
	idx := len(c.nodes) - 1
	c.nodes[c.head].ahead = idx
	c.head = idx
}

// Segments returns a copy of the body ordered from head to tail.
func (c *Chain) Segments() []Segment {
	out := make([]Segment, 0, len(c.nodes))
	for i := c.head; i != none; i = c.nodes[i].behind {
		out = append(out, c.nodes[i].Segment)
	}
	return out
}

// Contains reports whether any segment occupies p.
func (c *Chain) Contains(p core.Vec3) bool {
	for i := range c.nodes {
		if c.nodes[i].Pos == p {
			return true
		}
	}
	return false
}
