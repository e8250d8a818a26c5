package core

import (
	"sync"

	"github.com/huangsam/casewatch/schema"
)

// Observer receives every view published by a store. The view must be treated as read-only.
type Observer func(view *schema.DerivedView)

// Unsubscribe removes a registration. Calling it more than once is a no-op.
type Unsubscribe func()

type registration struct {
	id  uint64
	obs Observer
}

// observerRegistry keeps registrations in subscription order.
type observerRegistry struct {
	mu     sync.Mutex
	nextID uint64
	regs   []registration
}

func (r *observerRegistry) add(obs Observer) Unsubscribe {
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.regs = append(r.regs, registration{id: id, obs: obs})
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(id) })
	}
}

func (r *observerRegistry) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, reg := range r.regs {
		if reg.id == id {
			r.regs = append(r.regs[:i:i], r.regs[i+1:]...)
			return
		}
	}
}

func (r *observerRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.regs)
}

// notify delivers view to a snapshot of the registrations so observers may
// subscribe or unsubscribe while being notified.
func (r *observerRegistry) notify(view *schema.DerivedView) {
	r.mu.Lock()
	snapshot := make([]registration, len(r.regs))
	copy(snapshot, r.regs)
	r.mu.Unlock()
	for _, reg := range snapshot {
		reg.obs(view)
	}
}
