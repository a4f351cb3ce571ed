// Package ident tracks the element identifiers assigned during one document run and
// resolves collisions for generated identifiers.
package ident

import "strconv"

// DefaultMaxProbes bounds the suffix search in Reserve.
const DefaultMaxProbes = 10

// Reservation is the outcome of Reserve.
type Reservation struct {
	ID string
	// Probes is the number of suffixed candidates tried; zero when the candidate was free.
	Probes int
	// Exhausted reports that every probe within the bound was taken. ID is then the last
	// probed value and duplicates an identifier already in the document.
	Exhausted bool
}

// Collided reports whether the original candidate was already taken.
func (r Reservation) Collided() bool { return r.Probes > 0 }

// Registry is the set of identifiers known within one document run. Nothing is ever
// removed. A Registry is not safe for concurrent use; a run processes elements one at
// a time.
type Registry struct {
	seen      map[string]struct{}
	maxProbes int
}

// NewRegistry returns an empty registry. maxProbes <= 0 selects DefaultMaxProbes.
func NewRegistry(maxProbes int) *Registry {
	if maxProbes <= 0 {
		maxProbes = DefaultMaxProbes
	}
	return &Registry{seen: make(map[string]struct{}), maxProbes: maxProbes}
}

// Harvest records an identifier found on an ordinary element. Empty is a no-op.
func (r *Registry) Harvest(id string) {
	if id == "" {
		return
	}
	r.seen[id] = struct{}{}
}

// Register records an author-chosen identifier without collision probing.
func (r *Registry) Register(id string) {
	r.Harvest(id)
}

// Contains reports whether id has been recorded.
func (r *Registry) Contains(id string) bool {
	_, ok := r.seen[id]
	return ok
}

// Len returns the number of recorded identifiers.
func (r *Registry) Len() int { return len(r.seen) }

// Reserve registers and returns candidate if it is free. Otherwise it probes
// candidate-1 .. candidate-N and takes the first free one. When all N are taken the
// last probe is returned anyway with Exhausted set. An empty candidate is returned
// unregistered: elements without identifiers never collide.
func (r *Registry) Reserve(candidate string) Reservation {
	if candidate == "" {
		return Reservation{}
	}
	if !r.Contains(candidate) {
		r.seen[candidate] = struct{}{}
		return Reservation{ID: candidate}
	}

	var probe string
	for n := 1; n <= r.maxProbes; n++ {
		probe = candidate + "-" + strconv.Itoa(n)
		if !r.Contains(probe) {
			r.seen[probe] = struct{}{}
			return Reservation{ID: probe, Probes: n}
		}
	}
	return Reservation{ID: probe, Probes: r.maxProbes, Exhausted: true}
}
