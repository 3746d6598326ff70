package numdawg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	r := newRegistry()

	base := &State{
		Final:       true,
		Transitions: []Transition{{Label: 'a', Target: 3}, {Label: 'b', Target: 4}},
	}
	same := &State{
		Final:       true,
		Transitions: []Transition{{Label: 'a', Target: 3}, {Label: 'b', Target: 4}},
	}
	h := r.fingerprint(base)

	assert.Equal(t, h, r.fingerprint(same), "identical shapes must hash identically")

	notFinal := &State{Transitions: base.Transitions}
	assert.NotEqual(t, h, r.fingerprint(notFinal))

	otherLabel := &State{
		Final:       true,
		Transitions: []Transition{{Label: 'a', Target: 3}, {Label: 'c', Target: 4}},
	}
	assert.NotEqual(t, h, r.fingerprint(otherLabel))

	otherTarget := &State{
		Final:       true,
		Transitions: []Transition{{Label: 'a', Target: 3}, {Label: 'b', Target: 5}},
	}
	assert.NotEqual(t, h, r.fingerprint(otherTarget))

	swapped := &State{
		Final:       true,
		Transitions: []Transition{{Label: 'b', Target: 4}, {Label: 'a', Target: 3}},
	}
	assert.NotEqual(t, h, r.fingerprint(swapped), "transition order is part of the shape")

	assert.NotEqual(t, r.fingerprint(&State{}), r.fingerprint(&State{Final: true}))
}

func TestRegistryFirstWriterWins(t *testing.T) {
	r := newRegistry()

	_, ok := r.lookup(42)
	assert.False(t, ok)

	r.register(42, 7)
	r.register(42, 9)

	id, ok := r.lookup(42)
	assert.True(t, ok)
	assert.Equal(t, StateID(7), id)
	assert.Equal(t, []StateID{7}, r.ids())
}

func TestReplaceOrRegister(t *testing.T) {
	// start -a-> x -s-> leaf1
	//       -b-> y -s-> leaf2
	s := newStateSet()
	r := newRegistry()

	x, leaf1 := s.allocate(), s.allocate()
	s.addTransition(startState, 'a', x)
	s.addTransition(x, 's', leaf1)
	s.setFinal(leaf1, true)
	r.replaceOrRegister(s, startState)
	assert.Len(t, r.ids(), 2)

	y, leaf2 := s.allocate(), s.allocate()
	s.addTransition(startState, 'b', y)
	s.addTransition(y, 's', leaf2)
	s.setFinal(leaf2, true)
	r.replaceOrRegister(s, startState)

	// y duplicates x and leaf2 duplicates leaf1
	assert.Equal(t, x, s.lastChild(startState))
	assert.Len(t, r.ids(), 2)
	assert.Equal(t, 3, s.numLive())
	assert.ElementsMatch(t, []StateID{leaf2, y}, s.free)
}

func TestReplaceOrRegisterKeepsRepresentative(t *testing.T) {
	s := newStateSet()
	r := newRegistry()

	leaf := s.allocate()
	s.addTransition(startState, 'a', leaf)
	s.setFinal(leaf, true)

	r.replaceOrRegister(s, startState)
	r.replaceOrRegister(s, startState)

	assert.Equal(t, leaf, s.lastChild(startState))
	assert.Empty(t, s.free)
}
