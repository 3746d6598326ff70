package numdawg

import (
	"errors"
	"sort"
	"unicode/utf8"
)

// Builder creates an Automaton from words added in sorted order.
//
// Words must be added in non-decreasing lexicographic order (by code point).
// AddWord does not check this: out-of-order words silently produce an
// automaton with wrong answers for them. Use CanAdd to validate input.
type Builder struct {
	states   *stateSet
	registry *registry

	lastWord string
	numAdded int
	finished bool
}

// HashBuilder finishes a Builder into a numbered automaton, which can also
// compute the rank of every accepted word.
type HashBuilder struct {
	builder *Builder
}

// New creates a builder holding only the start state, which is not final and
// has no transitions.
func New() *Builder {
	return &Builder{
		states:   newStateSet(),
		registry: newRegistry(),
	}
}

// CanAdd will return true if the word is valid UTF-8 and can be added to the
// builder without breaking the sort order.
func (b *Builder) CanAdd(word string) bool {
	return !b.finished && utf8.ValidString(word) &&
		(b.numAdded == 0 || word >= b.lastWord)
}

// NumAdded returns the number of distinct words added so far.
func (b *Builder) NumAdded() int {
	return b.numAdded
}

// AddWord adds a word and returns the builder so calls can be chained.
// Adding to a finished builder will panic.
//
// The word must be valid UTF-8. Every invalid byte is stored as U+FFFD, so
// the automaton would accept a different word than the one given.
func (b *Builder) AddWord(word string) *Builder {
	b.checkOpen("AddWord")

	prefixLen, q := b.commonPrefix(word)

	// Nothing inserted from now on can pass through the subtree hanging off
	// q, so it can be minimized.
	if b.states.hasChildren(q) {
		b.registry.replaceOrRegister(b.states, q)
	}

	for _, ch := range word[prefixLen:] {
		next := b.states.allocate()
		b.states.addTransition(q, ch, next)
		q = next
	}
	b.states.setFinal(q, true)

	if b.numAdded == 0 || word != b.lastWord {
		b.numAdded++
		b.lastWord = word
	}

	return b
}

// commonPrefix follows word from the start state as far as the existing
// transitions allow. It returns the length in bytes of the matched prefix and
// the state where the match stopped.
func (b *Builder) commonPrefix(word string) (int, StateID) {
	q := startState
	for pos, ch := range word {
		next, ok := b.states.next(q, ch)
		if !ok {
			return pos, q
		}
		q = next
	}
	return len(word), q
}

// Build finishes the builder and returns a plain automaton, without rank
// support. The builder cannot be used afterwards.
func (b *Builder) Build() *Automaton {
	b.checkOpen("Build")
	b.finished = true

	if b.states.hasChildren(startState) {
		b.registry.replaceOrRegister(b.states, startState)
	}
	// the start state is never a merge candidate, so it is registered by hand
	b.registry.register(b.registry.fingerprint(b.states.at(startState)), startState)

	a := newAutomaton(b.compact(), b.numAdded)

	b.states = nil
	b.registry = nil
	b.lastWord = ""

	return a
}

// ToHashBuilder switches to the numbered finish path.
func (b *Builder) ToHashBuilder() *HashBuilder {
	b.checkOpen("ToHashBuilder")
	return &HashBuilder{builder: b}
}

// Build finishes the underlying builder and numbers the result.
func (h *HashBuilder) Build() *Automaton {
	a := h.builder.Build()
	number(a)
	return a
}

// compact copies the surviving states into a dense slice. Ids freed by merges
// and never handed out again leave holes, so targets are remapped. Surviving
// ids keep their relative order, which keeps the start state at 0.
func (b *Builder) compact() []State {
	live := b.registry.ids()
	live = append(live, startState)
	sort.Slice(live, func(i, j int) bool {
		return live[i] < live[j]
	})

	remap := make(map[StateID]StateID, len(live))
	dense := make([]State, 0, len(live))
	for _, id := range live {
		if _, ok := remap[id]; ok {
			continue
		}
		remap[id] = StateID(len(dense))
		dense = append(dense, *b.states.at(id))
	}

	for i := range dense {
		ts := make([]Transition, len(dense[i].Transitions))
		for j, t := range dense[i].Transitions {
			ts[j] = Transition{Label: t.Label, Target: remap[t.Target]}
		}
		dense[i].Transitions = ts
	}

	return dense
}

func (b *Builder) checkOpen(op string) {
	if b.finished {
		panic(errors.New("Builder." + op + "(): builder already finished"))
	}
}
