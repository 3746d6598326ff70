package numdawg

import "github.com/bits-and-blooms/bitset"

// numberer computes the size of the right language of every state, the
// number of words accepted starting from it. Values are memoized; the
// automaton is acyclic and frozen, so they never change.
type numberer struct {
	a    *Automaton
	size []int
	done *bitset.BitSet
}

func newNumberer(a *Automaton) *numberer {
	return &numberer{
		a:    a,
		size: make([]int, a.NumStates()),
		done: bitset.New(uint(a.NumStates())),
	}
}

func (n *numberer) rightLanguageSize(q StateID) int {
	if n.done.Test(uint(q)) {
		return n.size[q]
	}

	count := 0
	if n.a.IsFinal(q) {
		count++
	}
	for _, t := range n.a.edges[n.a.offsets[q]:n.a.offsets[q+1]] {
		count += n.rightLanguageSize(t.Target)
	}

	n.size[q] = count
	n.done.Set(uint(q))
	return count
}

// number stores on each transition the number of accepted words ranked
// before any word continuing through it, counted from the transition's
// source. A word ending right at a final target is one more than the words
// already skipped, hence the +1.
func number(a *Automaton) {
	n := newNumberer(a)

	for q := 0; q < a.NumStates(); q++ {
		skipped := 0
		edges := a.edges[a.offsets[q]:a.offsets[q+1]]
		for i := range edges {
			target := edges[i].Target
			if a.IsFinal(target) {
				edges[i].Increment = skipped + 1
			} else {
				edges[i].Increment = skipped
			}
			skipped += n.rightLanguageSize(target)
		}
	}

	a.numWords = n.rightLanguageSize(startState)
	a.numbered = true
}
