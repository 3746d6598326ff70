package numdawg

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// registry maps the structural fingerprint of a state to the one state kept
// for that shape. Two states whose fingerprints collide are treated as
// equivalent; with a 64 bit hash this is accepted rather than checked.
type registry struct {
	states map[uint64]StateID
	buf    []byte
}

func newRegistry() *registry {
	return &registry{
		states: make(map[uint64]StateID),
	}
}

// fingerprint hashes the finality and the ordered transitions of st. The id
// of the state is not part of it, so identical shapes hash identically.
func (r *registry) fingerprint(st *State) uint64 {
	buf := r.buf[:0]
	if st.Final {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	for _, t := range st.Transitions {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(t.Label))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(t.Target))
	}
	r.buf = buf
	return xxhash.Sum64(buf)
}

func (r *registry) lookup(hash uint64) (StateID, bool) {
	id, ok := r.states[hash]
	return id, ok
}

// register keeps the first state seen for a fingerprint.
func (r *registry) register(hash uint64, id StateID) {
	if _, ok := r.states[hash]; !ok {
		r.states[hash] = id
	}
}

func (r *registry) ids() []StateID {
	ids := make([]StateID, 0, len(r.states))
	for _, id := range r.states {
		ids = append(ids, id)
	}
	return ids
}

// replaceOrRegister canonicalizes the last child of parent and, before that,
// everything below it along the last-child chain. Only the right frontier of
// the automaton is ever visited.
func (r *registry) replaceOrRegister(s *stateSet, parent StateID) {
	child := s.lastChild(parent)
	if s.hasChildren(child) {
		r.replaceOrRegister(s, child)
	}

	// everything reachable from child is canonical now
	hash := r.fingerprint(s.at(child))
	if eq, ok := r.lookup(hash); ok {
		if eq != child {
			s.replaceLastChild(parent, eq)
			s.reclaim(child)
		}
		return
	}
	r.register(hash, child)
}
