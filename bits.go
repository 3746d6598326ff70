package numdawg

import "io"

// bitWriter packs values of arbitrary bit width, most significant bit first.
type bitWriter struct {
	w       io.Writer
	cache   uint8
	used    int
	written int64 // bytes passed to w
}

func newBitWriter(w io.Writer) *bitWriter {
	return &bitWriter{w: w}
}

// WriteBits writes the low n bits of data.
func (w *bitWriter) WriteBits(data uint64, n int) error {
	for n > 0 {
		chunk := n
		if chunk+w.used > 8 {
			chunk = 8 - w.used
		}

		mask := uint8(uint16(1<<chunk) - 1)
		w.used += chunk
		w.cache = (w.cache << chunk) | byte(data>>(n-chunk))&mask

		if w.used == 8 {
			if err := w.emit(); err != nil {
				return err
			}
		}

		n -= chunk
	}
	return nil
}

func (w *bitWriter) emit() error {
	_, err := w.w.Write([]byte{w.cache})
	w.cache = 0
	w.used = 0
	if err == nil {
		w.written++
	}
	return err
}

// Flush pads the last partial byte with zeros and writes it.
func (w *bitWriter) Flush() error {
	if w.used == 0 {
		return nil
	}
	w.cache <<= 8 - w.used
	return w.emit()
}

var maskTop = [...]byte{0xff, 0x7f, 0x3f, 0x1f, 0x0f, 0x07, 0x03, 0x01, 0x00}

// bitReader reads values of arbitrary bit width from an io.ReaderAt,
// starting at any bit offset. The first read error sticks: later reads
// return zero and Err reports it.
type bitReader struct {
	r   io.ReaderAt
	p   int64 // position in bits
	buf [1]byte
	err error
}

func newBitReader(r io.ReaderAt) *bitReader {
	return &bitReader{r: r}
}

func (r *bitReader) byteAt() byte {
	if r.err != nil {
		return 0
	}
	// a ReaderAt may report io.EOF along with the last byte
	if n, err := r.r.ReadAt(r.buf[:], r.p>>3); n < len(r.buf) {
		r.err = err
		return 0
	}
	return r.buf[0]
}

// ReadBits reads n bits, n <= 64.
func (r *bitReader) ReadBits(n int64) uint64 {
	if n == 0 {
		return 0
	}

	off := r.p & 7
	if off+n <= 8 {
		ret := uint64((r.byteAt() & maskTop[off]) >> (8 - off - n))
		r.p += n
		return ret
	}

	// the bits span more than one byte
	result := uint64(r.byteAt() & maskTop[off])
	l := 8 - off
	r.p += l
	n -= l

	for n >= 8 {
		result = (result << 8) | uint64(r.byteAt())
		r.p += 8
		n -= 8
	}

	if n > 0 {
		result = (result << n) | uint64(r.byteAt()>>(8-n))
		r.p += n
	}

	return result
}

// SeekBit moves to an absolute bit position.
func (r *bitReader) SeekBit(bit int64) {
	r.p = bit
}

// Tell returns the current bit position.
func (r *bitReader) Tell() int64 {
	return r.p
}

// Err returns the first error met while reading.
func (r *bitReader) Err() error {
	return r.err
}

// Unsigned values are stored in groups of 7 bits, most significant group
// first, with the high bit of each byte set when more groups follow.

func writeUnsigned(w *bitWriter, n uint64) error {
	var groups [10]byte
	i := len(groups) - 1
	groups[i] = byte(n & 0x7f)
	for n >>= 7; n > 0; n >>= 7 {
		i--
		groups[i] = byte(n&0x7f) | 0x80
	}

	for _, g := range groups[i:] {
		if err := w.WriteBits(uint64(g), 8); err != nil {
			return err
		}
	}
	return nil
}

func readUnsigned(r *bitReader) uint64 {
	var result uint64
	for i := 0; i < 10; i++ {
		d := r.ReadBits(8)
		result = (result << 7) | d&0x7f
		if d&0x80 == 0 {
			break
		}
	}
	return result
}

// unsignedLength returns the number of bytes writeUnsigned uses for n.
func unsignedLength(n uint64) int64 {
	l := int64(1)
	for n >>= 7; n > 0; n >>= 7 {
		l++
	}
	return l
}
