package tokenizer

// Character reference states (spec.md §4.3, §4.4). Decoded output is
// appended directly to the return-state's own TempBuffer (t.buf), never a
// separate scratch buffer, as spec.md §4.3 requires; only the raw
// reference text itself (refText) is scratch, held just long enough to
// resolve or reject the reference.

func (t *Tokenizer) enterCharacterReference(returnState State, ampPos Position) {
	t.returnState = returnState
	t.haveReturn = true
	t.charRefStart = ampPos
	t.refText = t.refText[:0]
	t.state = StateCharacterReference
}

// leaveCharacterReference returns control to the saved return-state,
// reconsuming s there (spec.md §3 "return-state is valid only while one of
// the character-reference ... states is active; otherwise it is the null
// state").
func (t *Tokenizer) leaveCharacterReference(s Scalar) {
	rs := t.returnState
	t.haveReturn = false
	t.reconsume(s, rs)
}

func (t *Tokenizer) stateCharacterReference(s Scalar) {
	switch {
	case s.Rune == '#':
		t.charRefCode = 0
		t.charRefDigits = 0
		t.state = StateNumericCharacterReference
	case isNamedReferenceChar(s.Rune):
		t.refText = append(t.refText, s.Rune)
		t.state = StateNamedCharacterReference
	default:
		t.buf.AppendRune('&')
		t.leaveCharacterReference(s)
	}
}

const maxNamedReferenceLookahead = 32

func (t *Tokenizer) stateNamedCharacterReference(s Scalar) {
	if isNamedReferenceChar(s.Rune) && len(t.refText) < maxNamedReferenceLookahead {
		t.refText = append(t.refText, s.Rune)
		return
	}
	if s.Rune == ';' {
		t.refText = append(t.refText, ';')
		t.resolveNamedReference(true, s)
		return
	}
	t.resolveNamedReference(false, s)
}

func (t *Tokenizer) resolveNamedReference(hadSemicolon bool, next Scalar) {
	if hadSemicolon {
		// The ';' is already part of refText; resume on the scalar after it.
		next = t.reader.Next()
	}
	name := string(t.refText)
	matched, value, ok := t.lookupNamedReference(name)
	if !ok {
		t.reportError(ErrUnknownNamedCharacterReference, t.charRefStart)
		t.buf.AppendRune('&')
		for _, r := range t.refText {
			t.buf.AppendRune(r)
		}
		t.state = StateAmbiguousAmpersand
		t.stateAmbiguousAmpersand(next)
		return
	}
	if _, hadTrailingSemi := trimSemicolon(matched); !hadTrailingSemi {
		t.reportError(ErrMissingSemicolonAfterCharacterReference, t.charRefStart)
	}
	for _, r := range value {
		t.buf.AppendRune(r)
	}
	// Any unmatched tail of refText beyond the matched prefix is literal.
	tail := t.refText[len(matched):]
	for _, r := range tail {
		t.buf.AppendRune(r)
	}
	t.leaveCharacterReference(next)
}

// stateAmbiguousAmpersand is reached once a named-reference lookup fails
// outright; any further word characters are literal text, consumed here
// without further reference interpretation (spec.md §4.4 roster
// "AMPERSAND" family; named AMBIGUOUS_AMPERSAND in §4.4's character
// reference states).
func (t *Tokenizer) stateAmbiguousAmpersand(s Scalar) {
	if isNamedReferenceChar(s.Rune) {
		t.buf.AppendRune(s.Rune)
		return
	}
	if s.Rune == ';' {
		t.reportError(ErrUnknownNamedCharacterReference, t.charRefStart)
	}
	t.leaveCharacterReference(s)
}

func (t *Tokenizer) stateNumericCharacterReference(s Scalar) {
	switch s.Rune {
	case 'x', 'X':
		t.state = StateHexadecimalCharacterReferenceStart
	default:
		t.reconsume(s, StateDecimalCharacterReferenceStart)
	}
}

func isHexDigit(r rune) bool {
	return isAsciiDigit(r) || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F'
}

func hexValue(r rune) int64 {
	switch {
	case r >= '0' && r <= '9':
		return int64(r - '0')
	case r >= 'a' && r <= 'f':
		return int64(r-'a') + 10
	default:
		return int64(r-'A') + 10
	}
}

func (t *Tokenizer) stateHexadecimalCharacterReferenceStart(s Scalar) {
	if !isHexDigit(s.Rune) {
		t.reportError(ErrBadNumber, t.charRefStart)
		t.buf.AppendRune('&')
		t.buf.AppendRune('#')
		t.buf.AppendRune('x')
		t.leaveCharacterReference(s)
		return
	}
	t.reconsume(s, StateHexadecimalCharacterReference)
}

func (t *Tokenizer) stateDecimalCharacterReferenceStart(s Scalar) {
	if !isAsciiDigit(s.Rune) {
		t.reportError(ErrBadNumber, t.charRefStart)
		t.buf.AppendRune('&')
		t.buf.AppendRune('#')
		t.leaveCharacterReference(s)
		return
	}
	t.reconsume(s, StateDecimalCharacterReference)
}

const maxHexDigits = 6
const maxDecimalDigits = 7

func (t *Tokenizer) stateHexadecimalCharacterReference(s Scalar) {
	switch {
	case isHexDigit(s.Rune):
		if t.charRefDigits < maxHexDigits {
			t.charRefCode = t.charRefCode*16 + hexValue(s.Rune)
			t.charRefDigits++
		} else {
			t.charRefCode = 0x110000 // force out-of-range on overflow
		}
	case s.Rune == ';':
		t.finishNumericReference(true, s)
	default:
		t.reportError(ErrMissingSemicolonAfterCharacterReference, t.charRefStart)
		t.finishNumericReference(false, s)
	}
}

func (t *Tokenizer) stateDecimalCharacterReference(s Scalar) {
	switch {
	case isAsciiDigit(s.Rune):
		if t.charRefDigits < maxDecimalDigits {
			t.charRefCode = t.charRefCode*10 + int64(s.Rune-'0')
			t.charRefDigits++
		} else {
			t.charRefCode = 0x110000
		}
	case s.Rune == ';':
		t.finishNumericReference(true, s)
	default:
		t.reportError(ErrMissingSemicolonAfterCharacterReference, t.charRefStart)
		t.finishNumericReference(false, s)
	}
}

// finishNumericReference resolves the accumulated code point and returns
// control to the return-state. When consumedSemicolon is true, the ';'
// scalar itself has already been consumed and the following scalar drives
// the return-state directly; otherwise the terminating scalar still needs
// to be reconsumed there.
func (t *Tokenizer) finishNumericReference(consumedSemicolon bool, terminator Scalar) {
	ru, kind, ok := resolveNumericReference(t.charRefCode)
	if !ok {
		t.reportError(kind, t.charRefStart)
	}
	t.buf.AppendRune(ru)
	if consumedSemicolon {
		next := t.reader.Next()
		t.leaveCharacterReference(next)
		return
	}
	t.leaveCharacterReference(terminator)
}

func (t *Tokenizer) stateNumericCharacterReferenceEnd(s Scalar) {
	// No transition assigns StateNumericCharacterReferenceEnd:
	// finishNumericReference returns to the return-state directly, so this
	// is only a defensive landing pad.
	t.leaveCharacterReference(s)
}
