package numdawg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pokemon() *Builder {
	return New().
		AddWord("abra").
		AddWord("absol").
		AddWord("crobat").
		AddWord("golbat").
		AddWord("kadabra").
		AddWord("mew").
		AddWord("mewtwo").
		AddWord("zubat")
}

func TestRightLanguageSize(t *testing.T) {
	a := New().
		AddWord("tap").
		AddWord("taps").
		AddWord("top").
		AddWord("tops").
		Build()
	n := newNumberer(a)

	assert.Equal(t, 4, n.rightLanguageSize(startState))

	q, ok := a.Next(startState, 't')
	require.True(t, ok)
	assert.Equal(t, 4, n.rightLanguageSize(q))

	// "ap", "aps", "op", "ops" all pass through the same "p" state
	qa, _ := a.Next(q, 'a')
	qo, _ := a.Next(q, 'o')
	assert.Equal(t, qa, qo)
	assert.Equal(t, 2, n.rightLanguageSize(qa))

	qp, _ := a.Next(qa, 'p')
	assert.Equal(t, 2, n.rightLanguageSize(qp))
	qs, _ := a.Next(qp, 's')
	assert.Equal(t, 1, n.rightLanguageSize(qs))
}

func TestNumberIncrements(t *testing.T) {
	a := pokemon().ToHashBuilder().Build()
	require.True(t, a.Numbered())
	assert.Equal(t, 8, a.NumWords())

	var labels []rune
	var incs []int
	for _, tr := range a.Transitions(startState) {
		labels = append(labels, tr.Label)
		incs = append(incs, tr.Increment)
	}
	assert.Equal(t, []rune("acgkmz"), labels)
	// a: 2 words below, c g k: 1 each, m: 2 ("mew" and "mewtwo")
	assert.Equal(t, []int{0, 2, 3, 4, 5, 7}, incs)

	// "mew" is final, so stepping onto it counts the word itself
	q, _ := a.Next(startState, 'm')
	q, _ = a.Next(q, 'e')
	ts := a.Transitions(q)
	require.Len(t, ts, 1)
	assert.Equal(t, 'w', ts[0].Label)
	assert.Equal(t, 1, ts[0].Increment)
}

func TestNumberWithEmptyWord(t *testing.T) {
	a := New().AddWord("").AddWord("a").AddWord("b").ToHashBuilder().Build()

	assert.Equal(t, 3, a.NumWords())
	assert.Equal(t, 1, a.Rank(""))
	assert.Equal(t, 2, a.Rank("a"))
	assert.Equal(t, 3, a.Rank("b"))
}
