package registry

import (
	"fmt"
	"sync"

	"github.com/signalsfoundry/rqz-planner/model"
)

// EventType indicates what kind of change happened in the registry.
type EventType int

const (
	EventZoneAdded EventType = iota
	EventRingComputed
)

// Event is emitted to subscribers when a zone is added or its ring is
// (re)computed.
type Event struct {
	Type   EventType
	ZoneID string
}

// Registry is an in-memory, thread-safe store of zone definitions and the
// point rings computed for them.
type Registry struct {
	mu sync.RWMutex

	zones map[string]*model.Zone
	order []string
	rings map[string]model.PointRing

	subs []func(Event)
}

// New constructs an empty registry.
func New() *Registry {
	return &Registry{
		zones: make(map[string]*model.Zone),
		rings: make(map[string]model.PointRing),
	}
}

// AddZone adds a new zone definition. It returns an error if the ID is empty
// or already exists.
func (r *Registry) AddZone(z *model.Zone) error {
	if z == nil || z.ID == "" {
		return fmt.Errorf("zone must have a non-empty ID")
	}

	r.mu.Lock()
	if _, exists := r.zones[z.ID]; exists {
		r.mu.Unlock()
		return fmt.Errorf("zone with ID %q already exists", z.ID)
	}
	r.zones[z.ID] = z
	r.order = append(r.order, z.ID)
	subs := r.subs
	r.mu.Unlock()

	notify(subs, Event{Type: EventZoneAdded, ZoneID: z.ID})
	return nil
}

// Zone returns the zone with the given ID, or false if absent.
func (r *Registry) Zone(id string) (*model.Zone, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	z, ok := r.zones[id]
	return z, ok
}

// Zones returns all zones in insertion order.
func (r *Registry) Zones() []*model.Zone {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Zone, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.zones[id])
	}
	return out
}

// Len returns the number of registered zones.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.zones)
}

// SetRing stores the computed ring for a zone. The zone must exist.
func (r *Registry) SetRing(id string, ring model.PointRing) error {
	r.mu.Lock()
	if _, ok := r.zones[id]; !ok {
		r.mu.Unlock()
		return fmt.Errorf("zone with ID %q not found", id)
	}
	r.rings[id] = ring
	subs := r.subs
	r.mu.Unlock()

	notify(subs, Event{Type: EventRingComputed, ZoneID: id})
	return nil
}

// Ring returns the computed ring for a zone, or false if it has not been
// computed yet.
func (r *Registry) Ring(id string) (model.PointRing, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ring, ok := r.rings[id]
	return ring, ok
}

// Subscribe registers a callback invoked after every registry change.
// Callbacks run outside the registry lock.
func (r *Registry) Subscribe(fn func(Event)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, fn)
}

func notify(subs []func(Event), ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}
