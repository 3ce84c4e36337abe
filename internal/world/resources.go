package world

import (
	"sort"
	"sync"
)

// ResourceID is a stable handle into a Registry.
type ResourceID uint64

// ResourceType enumerates collectible items lying in the world.
type ResourceType uint8

const (
	ResourceFood  ResourceType = iota // Seeds, crumbs, dead insects
	ResourceLeaf                      // Fungus-farm substrate
	ResourceTwig                      // Building material
	ResourceStone                     // Building material
)

// ResourceTypeName returns a human-readable name for a resource type.
func ResourceTypeName(t ResourceType) string {
	switch t {
	case ResourceFood:
		return "food"
	case ResourceLeaf:
		return "leaf"
	case ResourceTwig:
		return "twig"
	case ResourceStone:
		return "stone"
	default:
		return "unknown"
	}
}

// Resource is a collectible item lying in the world.
type Resource struct {
	ID   ResourceID   `json:"id"`
	Type ResourceType `json:"type"`
	Pos  Point        `json:"pos"`
}

// Registry is the shared arena of world resources. Resources are addressed
// by ID, so a handle held after removal simply fails to resolve.
type Registry struct {
	mu     sync.RWMutex
	items  map[ResourceID]Resource
	nextID ResourceID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		items:  make(map[ResourceID]Resource),
		nextID: 1,
	}
}

// Add places a new resource and returns its handle.
func (r *Registry) Add(t ResourceType, pos Point) ResourceID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.items[id] = Resource{ID: id, Type: t, Pos: pos}
	return id
}

// Restore inserts a resource with a known ID (used when loading from disk).
func (r *Registry) Restore(res Resource) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[res.ID] = res
	if res.ID >= r.nextID {
		r.nextID = res.ID + 1
	}
}

// Get resolves a handle.
func (r *Registry) Get(id ResourceID) (Resource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.items[id]
	return res, ok
}

// Remove deletes a resource. Removing an absent ID is a no-op; the return
// value reports whether anything was removed.
func (r *Registry) Remove(id ResourceID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false
	}
	delete(r.items, id)
	return true
}

// List returns a copy of all resources ordered by ascending ID.
func (r *Registry) List() []Resource {
	r.mu.RLock()
	out := make([]Resource, 0, len(r.items))
	for _, res := range r.items {
		out = append(out, res)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of resources in the registry.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
