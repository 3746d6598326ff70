package numdawg

import (
	"bufio"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/bits-and-blooms/bitset"
)

// FindResult is a word found in the automaton together with its rank. The
// rank is 0 unless the automaton is numbered.
type FindResult struct {
	Word string
	Rank int
}

// EnumFn is called by Enumerate for every prefix of the accepted words.
// rank is the rank of word when final is set and the automaton is numbered.
type EnumFn = func(rank int, word []rune, final bool) EnumerationResult

// EnumerationResult is returned by the enumeration function to indicate whether
// enumeration should continue below this depth or stop altogether
type EnumerationResult = int

const (
	// Continue enumerating all words with this prefix
	Continue EnumerationResult = iota

	// Skip will skip all words with this prefix
	Skip

	// Stop will immediately stop enumerating words
	Stop
)

// Automaton is a finished, read-only DAWG. States are numbered densely from
// 0, and 0 is the start state. It has no mutators, so any number of goroutines
// may query it at once.
type Automaton struct {
	// state i owns edges[offsets[i]:offsets[i+1]]
	offsets  []int
	edges    []Transition
	final    *bitset.BitSet
	numbered bool
	numWords int
}

// newAutomaton flattens dense states into the frozen layout. Every transition
// target must already be an index into states.
func newAutomaton(states []State, numWords int) *Automaton {
	numEdges := 0
	for i := range states {
		numEdges += len(states[i].Transitions)
	}

	a := &Automaton{
		offsets:  make([]int, 0, len(states)+1),
		edges:    make([]Transition, 0, numEdges),
		final:    bitset.New(uint(len(states))),
		numWords: numWords,
	}

	for i := range states {
		a.offsets = append(a.offsets, len(a.edges))
		a.edges = append(a.edges, states[i].Transitions...)
		if states[i].Final {
			a.final.Set(uint(i))
		}
	}
	a.offsets = append(a.offsets, len(a.edges))

	return a
}

// NumStates returns the number of states, including the start state.
func (a *Automaton) NumStates() int {
	return len(a.offsets) - 1
}

// NumTransitions returns the number of transitions.
func (a *Automaton) NumTransitions() int {
	return len(a.edges)
}

// NumWords returns the number of distinct words accepted.
func (a *Automaton) NumWords() int {
	return a.numWords
}

// Numbered reports whether the automaton carries rank increments.
func (a *Automaton) Numbered() bool {
	return a.numbered
}

// IsFinal reports whether q is an accepting state.
func (a *Automaton) IsFinal(q StateID) bool {
	return a.final.Test(uint(q))
}

// Transitions returns a copy of the transitions leaving q, in label order.
func (a *Automaton) Transitions(q StateID) []Transition {
	out := a.edges[a.offsets[q]:a.offsets[q+1]]
	return append([]Transition(nil), out...)
}

// Next follows the transition of q labelled ch.
func (a *Automaton) Next(q StateID, ch rune) (StateID, bool) {
	t, ok := a.transition(q, ch)
	return t.Target, ok
}

func (a *Automaton) transition(q StateID, ch rune) (Transition, bool) {
	edges := a.edges[a.offsets[q]:a.offsets[q+1]]
	i := sort.Search(len(edges), func(i int) bool {
		return edges[i].Label >= ch
	})
	if i < len(edges) && edges[i].Label == ch {
		return edges[i], true
	}
	return Transition{}, false
}

// walk follows word from the start state and returns the state reached and
// the rank accumulated on the way. Invalid UTF-8 never matches.
func (a *Automaton) walk(word string) (StateID, int, bool) {
	if !utf8.ValidString(word) {
		return 0, 0, false
	}
	q := startState
	rank := a.rankBias()
	for _, ch := range word {
		t, ok := a.transition(q, ch)
		if !ok {
			return 0, 0, false
		}
		rank += t.Increment
		q = t.Target
	}
	return q, rank, true
}

// rankBias counts the empty word, which precedes every other word but is not
// reached through any transition.
func (a *Automaton) rankBias() int {
	if a.numbered && a.IsFinal(startState) {
		return 1
	}
	return 0
}

// Contains reports whether word is accepted.
func (a *Automaton) Contains(word string) bool {
	q, _, ok := a.walk(word)
	return ok && a.IsFinal(q)
}

// Rank returns the 1-based position of word among all accepted words in
// sorted order. It panics if the automaton was not built with a HashBuilder
// or if word is not accepted.
func (a *Automaton) Rank(word string) int {
	if !a.numbered {
		log.Panicf("Automaton.Rank(%q): automaton is not numbered", word)
	}
	rank, ok := a.TryRank(word)
	if !ok {
		log.Panicf("Automaton.Rank(%q): word not recognized", word)
	}
	return rank
}

// TryRank is like Rank but reports failure instead of panicking.
func (a *Automaton) TryRank(word string) (int, bool) {
	if !a.numbered {
		return 0, false
	}
	q, rank, ok := a.walk(word)
	if !ok || !a.IsFinal(q) {
		return 0, false
	}
	return rank, true
}

// FindAllPrefixesOf returns all accepted words that are a prefix of input,
// shortest first. Matching stops at the first invalid UTF-8 sequence.
func (a *Automaton) FindAllPrefixesOf(input string) []FindResult {
	var results []FindResult
	q := startState
	rank := a.rankBias()

	for pos := 0; pos < len(input); {
		if a.IsFinal(q) {
			results = append(results, FindResult{Word: input[:pos], Rank: rank})
		}

		ch, size := utf8.DecodeRuneInString(input[pos:])
		if ch == utf8.RuneError && size == 1 {
			return results
		}
		t, ok := a.transition(q, ch)
		if !ok {
			return results
		}
		q = t.Target
		rank += t.Increment
		pos += size
	}

	if a.IsFinal(q) {
		results = append(results, FindResult{Word: input, Rank: rank})
	}

	return results
}

// Enumerate calls fn with every prefix of the accepted words, in sorted
// order. fn returns Continue to go on, Skip to leave out the words below the
// current prefix, or Stop to end the enumeration.
func (a *Automaton) Enumerate(fn EnumFn) {
	a.enumerate(a.rankBias(), startState, nil, fn)
}

func (a *Automaton) enumerate(rank int, q StateID, runes []rune, fn EnumFn) EnumerationResult {
	result := fn(rank, runes, a.IsFinal(q))
	if result != Continue {
		return result
	}

	l := len(runes)
	runes = append(runes, 0)

	for _, t := range a.edges[a.offsets[q]:a.offsets[q+1]] {
		runes[l] = t.Label
		result = a.enumerate(rank+t.Increment, t.Target, runes, fn)
		if result == Stop {
			break
		}
	}

	return result
}

// Words returns every accepted word in sorted order.
func (a *Automaton) Words() []string {
	words := make([]string, 0, a.numWords)
	a.Enumerate(func(_ int, word []rune, final bool) EnumerationResult {
		if final {
			words = append(words, string(word))
		}
		return Continue
	})
	return words
}

// Dump writes a listing of every state and its transitions to w. The format
// is meant for people, not for parsing.
func (a *Automaton) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for q := 0; q < a.NumStates(); q++ {
		if a.IsFinal(StateID(q)) {
			bw.WriteString("state " + strconv.Itoa(q) + " final\n")
		} else {
			bw.WriteString("state " + strconv.Itoa(q) + "\n")
		}
		for _, t := range a.edges[a.offsets[q]:a.offsets[q+1]] {
			bw.WriteString("  " + t.String() + "\n")
		}
	}
	return bw.Flush()
}

// Print dumps the automaton to the standard output.
func (a *Automaton) Print() {
	if err := a.Dump(os.Stdout); err != nil {
		log.Printf("Automaton.Print(): %v", err)
	}
}
