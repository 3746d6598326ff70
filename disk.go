package numdawg

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"math/bits"
	"os"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/exp/mmap"
)

/* FILE FORMAT
All fields are bit packed, most significant bit first.

- 32 bits: total size of the file in bytes
- 8 bits: format version
- 8 bits: flags. Bit 0 is set when the automaton is numbered.
- 8 bits: cbits, the width of a label
- 8 bits: abits, the width of a state id
- 8 bits: hbits, the width of an increment (0 when not numbered)
- 7code: number of words
- 7code: number of states
- 7code: number of transitions
- for each state, in id order:
	- 1 bit: is state final?
	- 7code: number of transitions
	- for each transition:
		cbits: label
		abits: target state
		hbits: increment

We define 7code to be an unsigned that can be read the following way:

result = 0
for {
	data = next 8 bits
	result = result << 7 | data & 0x7f
	if data & 0x80 == 0 break
}
*/

// ErrBadFormat is returned when reading data that is not a saved automaton.
var ErrBadFormat = errors.New("numdawg: bad file format")

const (
	formatVersion = 1
	flagNumbered  = 1
	headerBits    = 32 + 8*5
)

// widths returns the number of bits needed for labels, state ids and
// increments.
func (a *Automaton) widths() (cbits, abits, hbits int64) {
	var maxLabel rune
	maxInc := 0
	for _, t := range a.edges {
		if t.Label > maxLabel {
			maxLabel = t.Label
		}
		if t.Increment > maxInc {
			maxInc = t.Increment
		}
	}

	cbits = int64(bits.Len32(uint32(maxLabel)))
	abits = int64(bits.Len(uint(a.NumStates() - 1)))
	if a.numbered {
		hbits = int64(bits.Len(uint(maxInc)))
	}
	return cbits, abits, hbits
}

func (a *Automaton) encodedBits(cbits, abits, hbits int64) int64 {
	pos := int64(headerBits)
	pos += unsignedLength(uint64(a.numWords)) * 8
	pos += unsignedLength(uint64(a.NumStates())) * 8
	pos += unsignedLength(uint64(a.NumTransitions())) * 8

	for q := 0; q < a.NumStates(); q++ {
		n := a.offsets[q+1] - a.offsets[q]
		pos += 1 + unsignedLength(uint64(n))*8
	}
	pos += int64(a.NumTransitions()) * (cbits + abits + hbits)

	return pos
}

// Write writes the automaton to an io.Writer. Returns the number of bytes written
func (a *Automaton) Write(w io.Writer) (int64, error) {
	cbits, abits, hbits := a.widths()
	size := (a.encodedBits(cbits, abits, hbits) + 7) / 8
	if size > math.MaxUint32 {
		return 0, fmt.Errorf("numdawg: automaton too large to save (%d bytes)", size)
	}

	var flags uint64
	if a.numbered {
		flags |= flagNumbered
	}

	bw := newBitWriter(w)
	var err error
	put := func(v uint64, n int64) {
		if err == nil {
			err = bw.WriteBits(v, int(n))
		}
	}
	putUnsigned := func(v uint64) {
		if err == nil {
			err = writeUnsigned(bw, v)
		}
	}

	put(uint64(size), 32)
	put(formatVersion, 8)
	put(flags, 8)
	put(uint64(cbits), 8)
	put(uint64(abits), 8)
	put(uint64(hbits), 8)
	putUnsigned(uint64(a.numWords))
	putUnsigned(uint64(a.NumStates()))
	putUnsigned(uint64(a.NumTransitions()))

	for q := 0; q < a.NumStates(); q++ {
		if a.IsFinal(StateID(q)) {
			put(1, 1)
		} else {
			put(0, 1)
		}

		edges := a.edges[a.offsets[q]:a.offsets[q+1]]
		putUnsigned(uint64(len(edges)))
		for _, t := range edges {
			put(uint64(t.Label), cbits)
			put(uint64(t.Target), abits)
			put(uint64(t.Increment), hbits)
		}
	}

	if err == nil {
		err = bw.Flush()
	}
	return bw.written, err
}

// Save writes the automaton to disk. Returns the number of bytes written
func (a *Automaton) Save(filename string) (n int64, err error) {
	f, err := os.Create(filename)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return a.Write(f)
}

// Load memory-maps a file written by Save and decodes it. The whole automaton
// is decoded into memory and the mapping is released before Load returns.
func Load(filename string) (*Automaton, error) {
	r, err := mmap.Open(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return Read(r, 0)
}

// Read decodes an automaton stored at the given offset of f.
func Read(f io.ReaderAt, offset int64) (*Automaton, error) {
	var header [4]byte
	if n, err := f.ReadAt(header[:], offset); n < len(header) {
		return nil, fmt.Errorf("%w: reading size: %w", ErrBadFormat, err)
	}
	size := int64(binary.BigEndian.Uint32(header[:]))

	r := newBitReader(io.NewSectionReader(f, offset, size))
	r.SeekBit(32)

	if version := r.ReadBits(8); version != formatVersion {
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadFormat, err)
		}
		return nil, fmt.Errorf("%w: unknown version %d", ErrBadFormat, version)
	}
	flags := r.ReadBits(8)
	cbits := int64(r.ReadBits(8))
	abits := int64(r.ReadBits(8))
	hbits := int64(r.ReadBits(8))
	numWords := readUnsigned(r)
	numStates := readUnsigned(r)
	numEdges := readUnsigned(r)

	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadFormat, err)
	}
	if cbits > 32 || abits > 63 || hbits > 63 {
		return nil, fmt.Errorf("%w: field widths %d/%d/%d", ErrBadFormat, cbits, abits, hbits)
	}
	// every state takes at least 9 bits
	if numStates == 0 || numStates > uint64(size)*8/9 {
		return nil, fmt.Errorf("%w: %d states in %d bytes", ErrBadFormat, numStates, size)
	}

	// the counts are not trusted for allocation, the slices grow as states are
	// actually decoded
	a := &Automaton{
		final:    bitset.New(0),
		numbered: flags&flagNumbered != 0,
		numWords: int(numWords),
	}

	for q := uint64(0); q < numStates; q++ {
		a.offsets = append(a.offsets, len(a.edges))
		if r.ReadBits(1) == 1 {
			a.final.Set(uint(q))
		}

		n := readUnsigned(r)
		if uint64(len(a.edges))+n > numEdges {
			return nil, fmt.Errorf("%w: more than %d transitions", ErrBadFormat, numEdges)
		}
		for i := uint64(0); i < n; i++ {
			t := Transition{
				Label:     rune(r.ReadBits(cbits)),
				Target:    StateID(r.ReadBits(abits)),
				Increment: int(r.ReadBits(hbits)),
			}
			if uint64(t.Target) >= numStates {
				return nil, fmt.Errorf("%w: state %d has target %d out of range", ErrBadFormat, q, t.Target)
			}
			if i > 0 && t.Label <= a.edges[len(a.edges)-1].Label {
				return nil, fmt.Errorf("%w: state %d has labels out of order", ErrBadFormat, q)
			}
			a.edges = append(a.edges, t)
		}

		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadFormat, err)
		}
	}
	a.offsets = append(a.offsets, len(a.edges))

	if uint64(len(a.edges)) != numEdges {
		return nil, fmt.Errorf("%w: expected %d transitions, found %d", ErrBadFormat, numEdges, len(a.edges))
	}
	if a.hasCycle() {
		return nil, fmt.Errorf("%w: transitions form a cycle", ErrBadFormat)
	}

	return a, nil
}

// hasCycle removes states in topological order. States that are never
// removed are on a cycle or reachable from one.
func (a *Automaton) hasCycle() bool {
	indegree := make([]int, a.NumStates())
	for _, t := range a.edges {
		indegree[t.Target]++
	}

	var queue []StateID
	for q, d := range indegree {
		if d == 0 {
			queue = append(queue, StateID(q))
		}
	}

	removed := 0
	for len(queue) > 0 {
		q := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		removed++
		for _, t := range a.edges[a.offsets[q]:a.offsets[q+1]] {
			if indegree[t.Target]--; indegree[t.Target] == 0 {
				queue = append(queue, t.Target)
			}
		}
	}
	return removed < a.NumStates()
}
