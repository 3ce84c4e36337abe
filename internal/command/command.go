// Package command defines the orders a queen hands to her ants.
package command

import (
	"github.com/google/uuid"

	"github.com/talgya/antcolony/internal/world"
)

// Type enumerates command kinds.
type Type string

const (
	Move   Type = "MOVE"
	Gather Type = "GATHER"
	Build  Type = "BUILD"
	Defend Type = "DEFEND"
)

// Valid reports whether t is a known command type.
func (t Type) Valid() bool {
	switch t {
	case Move, Gather, Build, Defend:
		return true
	}
	return false
}

// Command is a single order. X and Y carry the move destination; Target is
// the point to hold for DEFEND, or an optional work site for GATHER/BUILD.
type Command struct {
	ID     string       `json:"id"`
	Type   Type         `json:"type"`
	X      float64      `json:"x,omitempty"`
	Y      float64      `json:"y,omitempty"`
	Target *world.Point `json:"target,omitempty"`
}

// NewMove orders a move to (x, y).
func NewMove(x, y float64) Command {
	return Command{ID: uuid.NewString(), Type: Move, X: x, Y: y}
}

// NewGather orders ants to start foraging.
func NewGather() Command {
	return Command{ID: uuid.NewString(), Type: Gather}
}

// NewBuild orders ants to start building.
func NewBuild() Command {
	return Command{ID: uuid.NewString(), Type: Build}
}

// NewDefend orders ants to hold the given point.
func NewDefend(target world.Point) Command {
	t := target
	return Command{ID: uuid.NewString(), Type: Defend, Target: &t}
}

// Queue is a FIFO of pending commands.
type Queue struct {
	items []Command
}

// Push appends a command.
func (q *Queue) Push(c Command) {
	q.items = append(q.items, c)
}

// Pop removes and returns the oldest command.
func (q *Queue) Pop() (Command, bool) {
	if len(q.items) == 0 {
		return Command{}, false
	}
	c := q.items[0]
	q.items = q.items[1:]
	return c, true
}

// Len returns the number of pending commands.
func (q *Queue) Len() int {
	return len(q.items)
}

// Pending returns a copy of the queued commands, oldest first.
func (q *Queue) Pending() []Command {
	out := make([]Command, len(q.items))
	copy(out, q.items)
	return out
}
