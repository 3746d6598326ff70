package numdawg

import "fmt"

// StateID is the index of a state. The start state is always 0.
type StateID int

const startState StateID = 0

// Transition is a labelled edge between two states. Increment is the rank
// contribution of taking the edge and is only set in a numbered automaton.
type Transition struct {
	Label     rune
	Target    StateID
	Increment int
}

func (t Transition) String() string {
	return fmt.Sprintf("'%c' -> %d (%d)", t.Label, t.Target, t.Increment)
}

// State is a node of the automaton. Transitions are kept in the order they
// were added, which for sorted input is label order.
type State struct {
	Final       bool
	Transitions []Transition
}

// stateSet owns every state of a builder. Ids that were merged away go on a
// freelist and are handed out again, most recent first.
//
// A stateSet is never empty: it always holds the start state.
type stateSet struct {
	states []State
	free   []StateID
}

func newStateSet() *stateSet {
	return &stateSet{
		states: []State{{}},
	}
}

func (s *stateSet) at(id StateID) *State {
	return &s.states[id]
}

func (s *stateSet) allocate() StateID {
	if n := len(s.free); n > 0 {
		id := s.free[n-1]
		s.free = s.free[:n-1]
		// keep the backing array of the old transitions
		s.states[id] = State{Transitions: s.states[id].Transitions[:0]}
		return id
	}

	s.states = append(s.states, State{})
	return StateID(len(s.states) - 1)
}

// reclaim marks id as reusable. The caller must already have dropped the only
// reference to it.
func (s *stateSet) reclaim(id StateID) {
	s.free = append(s.free, id)
}

func (s *stateSet) addTransition(id StateID, label rune, target StateID) {
	st := &s.states[id]
	st.Transitions = append(st.Transitions, Transition{Label: label, Target: target})
}

func (s *stateSet) setFinal(id StateID, final bool) {
	s.states[id].Final = final
}

func (s *stateSet) hasChildren(id StateID) bool {
	return len(s.states[id].Transitions) > 0
}

func (s *stateSet) lastChild(id StateID) StateID {
	ts := s.states[id].Transitions
	return ts[len(ts)-1].Target
}

func (s *stateSet) replaceLastChild(id, target StateID) {
	ts := s.states[id].Transitions
	ts[len(ts)-1].Target = target
}

// next follows the transition of id labelled ch. With sorted input only the
// last transition can match, so the search runs backwards.
func (s *stateSet) next(id StateID, ch rune) (StateID, bool) {
	ts := s.states[id].Transitions
	for i := len(ts) - 1; i >= 0; i-- {
		if ts[i].Label == ch {
			return ts[i].Target, true
		}
	}
	return 0, false
}

func (s *stateSet) numLive() int {
	return len(s.states) - len(s.free)
}
