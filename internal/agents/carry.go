package agents

import "github.com/talgya/antcolony/internal/world"

// DefaultCapacity is the number of items an ant carries when unset.
const DefaultCapacity = 5

// Carry holds the resources an ant is hauling.
type Carry struct {
	Capacity int              `json:"capacity"`
	Carried  []world.Resource `json:"carried,omitempty"`
}

// Len returns the number of carried items.
func (c *Carry) Len() int { return len(c.Carried) }

// Full reports whether no more items fit. A non-positive capacity falls
// back to DefaultCapacity.
func (c *Carry) Full() bool { return len(c.Carried) >= c.limit() }

func (c *Carry) limit() int {
	if c.Capacity <= 0 {
		return DefaultCapacity
	}
	return c.Capacity
}

// Put adds an item. Returns false when full.
func (c *Carry) Put(res world.Resource) bool {
	if c.Full() {
		return false
	}
	c.Carried = append(c.Carried, res)
	return true
}

// Items returns a copy of the load.
func (c *Carry) Items() []world.Resource {
	out := make([]world.Resource, len(c.Carried))
	copy(out, c.Carried)
	return out
}

// Unload empties the load and returns what was carried.
func (c *Carry) Unload() []world.Resource {
	out := c.Carried
	c.Carried = nil
	return out
}

// Has reports whether any carried item is of type t.
func (c *Carry) Has(t world.ResourceType) bool {
	for _, it := range c.Carried {
		if it.Type == t {
			return true
		}
	}
	return false
}
