/*
Package numdawg builds a Directed Acyclic Word Graph: the minimal acyclic automaton
accepting a finite set of strings. Common prefixes and common suffixes are both shared,
so the result is strictly smaller than a trie over the same words.

The automaton is built incrementally. Create a builder with New(), then add words with
AddWord. Words must arrive in non-decreasing lexicographic order; this is not checked
(use CanAdd if you need to verify your input). Words must also be valid UTF-8: the
automaton works on code points, and lookups of invalid UTF-8 never match. Adding the
same word twice in a row is harmless.

	a := numdawg.New().
		AddWord("abra").
		AddWord("absol").
		AddWord("crobat").
		Build()

Build() returns a read-only Automaton answering membership queries. To also get a
perfect hash, finish with ToHashBuilder().Build() instead. Every accepted word then has
a rank: its 1-based position among all accepted words in sorted order. Ranks are computed
in O(len(word)) from per-transition increments, without storing any word.

A finished Automaton can be written to disk with Save() and opened again with Load().
The format is bit packed; see disk.go. Load decodes the whole file into memory, so the
file is not needed after it returns.
*/
package numdawg
