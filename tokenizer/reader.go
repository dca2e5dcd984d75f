package tokenizer

import (
	"errors"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EOF is the reserved scalar value marking stream exhaustion (spec.md §3).
// It is negative so it can never collide with a decoded rune, including a
// literal NUL byte in the input (which decodes to rune 0).
const EOF rune = -1

const readerBufSize = 4096

// ErrBadPushback is returned by Reader.PushBack when called twice without
// an intervening Next: the reader keeps only a single lookahead slot.
var ErrBadPushback = errors.New("reader: push_back called without an intervening next")

// Position locates a scalar in the source: a 1-based line/column pair plus
// a 0-based decoded-byte offset.
type Position struct {
	Line   int
	Col    int
	Offset int
}

// Scalar is one decoded Unicode code point plus its source position.
type Scalar struct {
	Rune rune
	Pos  Position
}

// Reader is the Input Reader of spec.md §4.1: a pull-based, pushback-of-one
// decoder over a byte stream, normalizing CRLF to LF and invalid UTF-8 to
// the replacement character.
//
// It buffers reads directly (buf/bufPos/bufSize, refilled on exhaustion)
// rather than wrapping bufio.Reader, so that decoding a multi-byte rune
// never straddles two separate Read calls without the buffer already
// holding enough bytes.
type Reader struct {
	src transform.Reader

	buf     []byte
	bufPos  int
	bufSize int
	atEOF   bool

	line, col, offset int
	sawCR             bool

	pending      Scalar
	pendingValid bool

	onBadEncoding func(Position)
}

// NewReader constructs a Reader over r, declared to be encoded as utf-8
// (spec.md §6 "Input surface"). A leading BOM, if present, is consumed.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		src:  transform.NewReader(r, unicode.BOMOverride(transform.Nop)),
		buf:  make([]byte, readerBufSize),
		line: 1,
		col:  1,
	}
}

// OnBadEncoding registers a callback invoked once per invalid UTF-8 byte
// sequence encountered, before the replacement-character scalar is
// returned from Next. The tokenizer core wires this to emit a
// BAD_ENCODING parse error to the sink (spec.md §4.1).
func (r *Reader) OnBadEncoding(f func(Position)) {
	r.onBadEncoding = f
}

// Position returns the position that the next call to Next will report.
func (r *Reader) Position() Position {
	return Position{Line: r.line, Col: r.col, Offset: r.offset}
}

func (r *Reader) fill() {
	if r.bufPos < r.bufSize || r.atEOF {
		return
	}
	n, err := r.src.Read(r.buf)
	r.bufPos = 0
	r.bufSize = n
	if err != nil {
		r.atEOF = true
	}
}

// rawNext decodes and returns the next rune from the underlying byte
// stream, or (EOF, false) at exhaustion. Invalid byte sequences decode to
// utf8.RuneError/size-1, which this reader reports as the replacement
// character via onBadEncoding.
func (r *Reader) rawNext() (rune, bool) {
	r.fill()
	if r.bufPos >= r.bufSize {
		return EOF, false
	}
	chunk := r.buf[r.bufPos:r.bufSize]
	if !utf8.FullRune(chunk) && !r.atEOF {
		// Might be a rune split across the buffer boundary: try to grow.
		r.compact()
		r.fill()
		chunk = r.buf[r.bufPos:r.bufSize]
	}
	ru, size := utf8.DecodeRune(chunk)
	wasInvalid := ru == utf8.RuneError && size <= 1
	r.bufPos += max(size, 1)
	if wasInvalid {
		if r.onBadEncoding != nil {
			r.onBadEncoding(r.Position())
		}
		ru = utf8.RuneError
	}
	return ru, true
}

// compact slides unread bytes to the front of buf and grows it if a rune
// could straddle the end of a full buffer (practically unreachable since
// UTF-8 runes are at most 4 bytes and readerBufSize is far larger, but kept
// for streaming correctness under adversarial chunking).
func (r *Reader) compact() {
	rest := r.buf[r.bufPos:r.bufSize]
	if len(r.buf)-len(rest) < utf8.UTFMax {
		grown := make([]byte, len(r.buf)*2)
		copy(grown, rest)
		r.buf = grown
	} else {
		copy(r.buf, rest)
	}
	r.bufSize = len(rest)
	r.bufPos = 0
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// advancePosition updates line/col/offset for one consumed scalar,
// folding CRLF into a single LF per spec.md §4.1.
func (r *Reader) advancePosition(ru rune) (emit bool) {
	switch {
	case ru == '\n' && r.sawCR:
		r.sawCR = false
		return false // already counted as a line break by the CR
	case ru == '\r':
		r.sawCR = true
		r.line++
		r.col = 1
		r.offset++
		return true
	case ru == '\n':
		r.line++
		r.col = 1
		r.offset++
		return true
	default:
		r.sawCR = false
		r.col++
		r.offset += utf8.RuneLen(ru)
		return true
	}
}

// Next advances and returns the next scalar. At exhaustion it returns EOF
// indefinitely, as spec.md §4.1 requires.
func (r *Reader) Next() Scalar {
	if r.pendingValid {
		r.pendingValid = false
		return r.pending
	}
	pos := r.Position()
	ru, ok := r.rawNext()
	if !ok {
		return Scalar{Rune: EOF, Pos: pos}
	}
	if ru == '\r' {
		// Fold CRLF: peek the following byte without a second pushback
		// slot by consuming it here directly.
		r.advancePosition('\r')
		save := r.bufPos
		next, ok2 := r.rawNext()
		if ok2 && next == '\n' {
			r.sawCR = false // fold resolved: the LF was this CR's pair
			return Scalar{Rune: '\n', Pos: pos}
		}
		if ok2 {
			r.bufPos = save // not a following LF; put the byte back
		}
		r.sawCR = false // fold resolved: a lone CR, nothing to pair with
		return Scalar{Rune: '\n', Pos: pos}
	}
	r.advancePosition(ru)
	return Scalar{Rune: ru, Pos: pos}
}

// PushBack restores exactly one previously returned scalar. Calling it
// twice without an intervening Next is a programmer error in the state
// machine and returns ErrBadPushback (spec.md §4.1).
func (r *Reader) PushBack(s Scalar) error {
	if r.pendingValid {
		return ErrBadPushback
	}
	r.pending = s
	r.pendingValid = true
	return nil
}
