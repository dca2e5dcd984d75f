// Package tokenizer implements the HVML tokenizer: a single, unified state
// machine that turns a byte stream into a sequence of Tokens, switching
// between markup (tag) syntax, eJSON data, and interpolated strings
// without look-behind (spec.md §1).
package tokenizer

import (
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/hvml-lang/tokenizer/vcm"
)

const characterFlushThreshold = 1024

// Tokenizer is the state machine described by spec.md §3-§4. It owns its
// buffers and partially-built token exclusively (spec.md §5 "Shared
// state") and is driven purely by Run — it never performs I/O
// itself and never yields internally.
type Tokenizer struct {
	sink   Sink
	reader *Reader
	logger Logger

	// RunID correlates this instance's parse errors across a batch of
	// files.
	RunID string

	// flushThreshold overrides characterFlushThreshold when positive; set
	// via SetFlushThreshold, normally driven by config.Options.
	flushThreshold int

	// extraNamedReferences supplements namedCharacterReferences without
	// mutating the shared package-level table; set via
	// SetExtraNamedReferences.
	extraNamedReferences map[string]string

	// defaultCharset is recorded only (set via SetDefaultCharset, normally
	// from config.Options); nothing in the tokenizer reads it.
	defaultCharset string

	state       State
	returnState State
	haveReturn  bool

	buf *TempBuffer

	// partial token under construction
	tokStart Position
	name     strings.Builder
	attrs    []Attribute
	curAttr  Attribute
	curAttrOpKind rune // pending compound-assignment lead char, or 0
	selfClosing bool
	endTagPending bool

	doctypeName, publicID, systemID string
	hasPublicID, hasSystemID        bool
	forceQuirks                     bool

	// character-reference scratch
	charRefCode   int64
	charRefDigits int
	charRefStart  Position
	refText       []rune

	// eJSON
	frames      []frame
	builder     *vcm.Builder
	numFlags    numberFlags
	strDelim    rune
	strReturn   State // state a string-escape sequence returns to
	segments    []ValueSegment
	attrValueDelim rune // never set; attributeValueTerminator derives the closing delimiter from the state
	root        *vcm.Node
	ejsonStart  Position
	ejsonAttrMode bool // completed expression becomes a SegmentExpression rather than a VCM_TREE token
	templateTagName string // opening tag name of a template value in progress

	// after the eJSON sub-machine reaches EJSON_FINISHED with an empty
	// frame stack, control returns to this saved outer state.
	outerState State
	inEJSON    bool

	fatal bool
	done  bool
}

// numberFlags tracks the flags record spec.md §3 requires while scanning
// a numeric literal.
type numberFlags struct {
	negative    bool
	hasDot      bool
	hasExponent bool
	hex         bool
	width       vcm.NumberWidth
}

// New constructs a Tokenizer reading from r and delivering tokens and
// parse errors to sink.
func New(r io.Reader, sink Sink) *Tokenizer {
	t := &Tokenizer{
		sink:   sink,
		reader: NewReader(r),
		logger: NullLogger{},
		buf:    NewTempBuffer(),
		builder: vcm.NewBuilder(),
		state:  StateData,
		RunID:  uuid.New().String(),
	}
	t.reader.OnBadEncoding(func(pos Position) {
		t.reportError(ErrBadEncoding, pos)
	})
	return t
}

// SetLogger installs a diagnostic logger (default NullLogger); reportError
// writes one line per parse error to it, in addition to the sink call.
func (t *Tokenizer) SetLogger(l Logger) { t.logger = l }

// SetFlushThreshold overrides the byte count at which a run of pending
// CHARACTER text is flushed to the sink early; n <= 0 restores the
// built-in default.
func (t *Tokenizer) SetFlushThreshold(n int) { t.flushThreshold = n }

func (t *Tokenizer) flushThresholdOrDefault() int {
	if t.flushThreshold > 0 {
		return t.flushThreshold
	}
	return characterFlushThreshold
}

// SetExtraNamedReferences registers additional name -> replacement-text
// entries consulted alongside namedCharacterReferences; entries here take
// precedence over the built-in table on a name collision.
func (t *Tokenizer) SetExtraNamedReferences(extra map[string]string) {
	t.extraNamedReferences = extra
}

// SetDefaultCharset records a default charset name on this Tokenizer. It
// changes neither decoding (input is always read as UTF-8, or UTF-16 after a
// UTF-16 byte-order mark) nor any parse-error report.
func (t *Tokenizer) SetDefaultCharset(charset string) { t.defaultCharset = charset }

// lookupNamedReference checks the per-instance extra table before falling
// back to the shared longest-match table.
func (t *Tokenizer) lookupNamedReference(name string) (matched string, value string, ok bool) {
	for n := len(name); n > 0; n-- {
		candidate := name[:n]
		if v, found := t.extraNamedReferences[candidate]; found {
			return candidate, v, true
		}
	}
	return longestNamedReferenceMatch(name)
}

func (t *Tokenizer) reportError(kind ErrorKind, pos Position) {
	t.sink.OnParseError(kind, pos)
	t.logger.Printf("parse error: %s at %d:%d\n", kind, pos.Line, pos.Col)
}

// Run drives the tokenizer to completion, feeding scalars one at a time
// until EOF is emitted (spec.md §5 "Scheduling model": pull-driven,
// push-out, no suspension points).
func (t *Tokenizer) Run() {
	for {
		if t.fatal {
			t.emitEOF()
			return
		}
		s := t.reader.Next()
		t.step(s)
		if t.done {
			return
		}
	}
}

func (t *Tokenizer) emit(tok Token) {
	t.sink.OnToken(tok)
}

func (t *Tokenizer) emitEOF() {
	pos := t.reader.Position()
	t.emit(Token{Kind: KindEOF, Start: pos, End: pos})
}

// step processes one scalar, including EOF, by dispatching it through the
// current sub-machine exactly like any other scalar: each state decides for
// itself what an end-of-stream means (a DOCTYPE forces quirks mode, a
// comment closes early, an eJSON string is a parse error), the same way it
// decides what '>' or '"' means. t.done is set once some state has emitted
// the terminal EOF token and Run should stop.
func (t *Tokenizer) step(s Scalar) {
	if s.Rune == 0 {
		// A literal NUL byte in input: report and substitute the
		// replacement character before it ever reaches a state
		// (spec.md §3 "Scalar"). EOF itself never collides with this
		// check since EOF is negative.
		t.reportError(ErrUnexpectedNullCharacter, s.Pos)
		s.Rune = replacementChar
	}

	switch {
	case t.inEJSON:
		t.stepEJSON(s)
	default:
		t.stepMarkup(s)
	}
}

// finishAtEOF flushes any pending CHARACTER text, emits the terminal EOF
// token, and signals Run to stop. Used by states reached while scanning
// plain text, where the pending buffer genuinely holds CHARACTER data.
func (t *Tokenizer) finishAtEOF(pos Position) {
	t.flushCharacterBuffer(pos)
	t.emitEOF()
	t.done = true
}

// abortAtEOF discards an in-progress tag or attribute that end-of-stream
// interrupted before it could close, reports it, and emits the terminal EOF
// token. Unlike finishAtEOF, the pending buffer here holds tag/attribute
// scratch text rather than CHARACTER data, so it is discarded rather than
// flushed as a token.
func (t *Tokenizer) abortAtEOF(pos Position) {
	t.reportError(ErrUnexpectedCharacter, pos)
	t.buf.Reset()
	t.emitEOF()
	t.done = true
}

func (t *Tokenizer) flushCharacterBuffer(end Position) {
	if t.buf.IsEmpty() {
		return
	}
	tok := Token{Kind: KindCharacter, Start: t.tokStart, End: end, Text: t.buf.Bytes()}
	t.emit(tok)
	t.buf.Reset()
}

// reconsume re-feeds s through step again in the new state without
// consuming another scalar from the reader, implementing the "Reconsume"
// semantics of spec.md's GLOSSARY.
func (t *Tokenizer) reconsume(s Scalar, newState State) {
	t.state = newState
	t.step(s)
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\f'
}

func isAsciiAlpha(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func isAsciiDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func toLowerAscii(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
