package tokenizer

// DOCTYPE states (spec.md §4.4 "DOCTYPE"). The shape follows the HTML5
// tokenizer's DOCTYPE states, scoped down to what HVML markup actually
// uses: a name and optional PUBLIC/SYSTEM identifiers.

func (t *Tokenizer) resetDoctype() {
	t.doctypeName = ""
	t.publicID = ""
	t.systemID = ""
	t.hasPublicID = false
	t.hasSystemID = false
	t.forceQuirks = false
	t.buf.Reset()
}

func (t *Tokenizer) stateDoctype(s Scalar) {
	t.resetDoctype()
	switch {
	case isWhitespace(s.Rune):
		t.state = StateBeforeDoctypeName
	case s.Rune == '>':
		t.reconsume(s, StateBeforeDoctypeName)
	default:
		t.reconsume(s, StateBeforeDoctypeName)
	}
}

func (t *Tokenizer) stateBeforeDoctypeName(s Scalar) {
	switch {
	case isWhitespace(s.Rune):
		// skip
	case s.Rune == '>':
		t.forceQuirks = true
		t.emitDoctype(s.Pos)
	case s.Rune == EOF:
		t.forceQuirks = true
		t.emitDoctype(s.Pos)
	default:
		t.buf.AppendRune(toLowerAscii(s.Rune))
		t.state = StateDoctypeName
	}
}

func (t *Tokenizer) stateDoctypeName(s Scalar) {
	switch {
	case isWhitespace(s.Rune):
		t.doctypeName = t.buf.String()
		t.buf.Reset()
		t.state = StateAfterDoctypeName
	case s.Rune == '>':
		t.doctypeName = t.buf.String()
		t.emitDoctype(s.Pos)
	case s.Rune == EOF:
		t.forceQuirks = true
		t.doctypeName = t.buf.String()
		t.emitDoctype(s.Pos)
	default:
		t.buf.AppendRune(toLowerAscii(s.Rune))
	}
}

func (t *Tokenizer) stateAfterDoctypeName(s Scalar) {
	switch {
	case isWhitespace(s.Rune):
		// skip
	case s.Rune == '>':
		t.emitDoctype(s.Pos)
	case s.Rune == EOF:
		t.forceQuirks = true
		t.emitDoctype(s.Pos)
	case toLowerAscii(s.Rune) == 'p':
		if ok, _ := t.matchKeyword(s.Rune, "ublic"); ok {
			t.state = StateAfterDoctypePublicKeyword
			return
		}
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.forceQuirks = true
		t.state = StateBogusDoctype
	case toLowerAscii(s.Rune) == 's':
		if ok, _ := t.matchKeyword(s.Rune, "ystem"); ok {
			t.state = StateAfterDoctypeSystemKeyword
			return
		}
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.forceQuirks = true
		t.state = StateBogusDoctype
	default:
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.forceQuirks = true
		t.state = StateBogusDoctype
	}
}

func (t *Tokenizer) stateAfterDoctypePublicKeyword(s Scalar) {
	switch {
	case isWhitespace(s.Rune):
		t.state = StateBeforeDoctypePublicIdentifier
	case s.Rune == '"':
		t.buf.Reset()
		t.hasPublicID = true
		t.state = StateDoctypePublicIdentifierDoubleQuoted
	case s.Rune == '\'':
		t.buf.Reset()
		t.hasPublicID = true
		t.state = StateDoctypePublicIdentifierSingleQuoted
	case s.Rune == '>':
		t.forceQuirks = true
		t.emitDoctype(s.Pos)
	default:
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.forceQuirks = true
		t.state = StateBogusDoctype
	}
}

func (t *Tokenizer) stateBeforeDoctypePublicIdentifier(s Scalar) {
	switch {
	case isWhitespace(s.Rune):
		// skip
	case s.Rune == '"':
		t.buf.Reset()
		t.hasPublicID = true
		t.state = StateDoctypePublicIdentifierDoubleQuoted
	case s.Rune == '\'':
		t.buf.Reset()
		t.hasPublicID = true
		t.state = StateDoctypePublicIdentifierSingleQuoted
	case s.Rune == '>':
		t.forceQuirks = true
		t.emitDoctype(s.Pos)
	default:
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.forceQuirks = true
		t.state = StateBogusDoctype
	}
}

func (t *Tokenizer) stateDoctypePublicIdentifier(s Scalar) {
	delim := byte('"')
	if t.state == StateDoctypePublicIdentifierSingleQuoted {
		delim = '\''
	}
	switch {
	case s.Rune == rune(delim):
		t.publicID = t.buf.String()
		t.buf.Reset()
		t.state = StateAfterDoctypePublicIdentifier
	case s.Rune == '>':
		t.forceQuirks = true
		t.publicID = t.buf.String()
		t.emitDoctype(s.Pos)
	case s.Rune == EOF:
		t.forceQuirks = true
		t.publicID = t.buf.String()
		t.emitDoctype(s.Pos)
	default:
		t.buf.AppendRune(s.Rune)
	}
}

func (t *Tokenizer) stateAfterDoctypePublicIdentifier(s Scalar) {
	switch {
	case isWhitespace(s.Rune):
		t.state = StateBetweenDoctypePublicAndSystemIdentifiers
	case s.Rune == '>':
		t.emitDoctype(s.Pos)
	case s.Rune == '"':
		t.buf.Reset()
		t.hasSystemID = true
		t.state = StateDoctypeSystemIdentifierDoubleQuoted
	case s.Rune == '\'':
		t.buf.Reset()
		t.hasSystemID = true
		t.state = StateDoctypeSystemIdentifierSingleQuoted
	default:
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.forceQuirks = true
		t.state = StateBogusDoctype
	}
}

func (t *Tokenizer) stateBetweenDoctypePublicAndSystemIdentifiers(s Scalar) {
	switch {
	case isWhitespace(s.Rune):
		// skip
	case s.Rune == '>':
		t.emitDoctype(s.Pos)
	case s.Rune == '"':
		t.buf.Reset()
		t.hasSystemID = true
		t.state = StateDoctypeSystemIdentifierDoubleQuoted
	case s.Rune == '\'':
		t.buf.Reset()
		t.hasSystemID = true
		t.state = StateDoctypeSystemIdentifierSingleQuoted
	default:
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.forceQuirks = true
		t.state = StateBogusDoctype
	}
}

func (t *Tokenizer) stateAfterDoctypeSystemKeyword(s Scalar) {
	switch {
	case isWhitespace(s.Rune):
		t.state = StateBeforeDoctypeSystemIdentifier
	case s.Rune == '"':
		t.buf.Reset()
		t.hasSystemID = true
		t.state = StateDoctypeSystemIdentifierDoubleQuoted
	case s.Rune == '\'':
		t.buf.Reset()
		t.hasSystemID = true
		t.state = StateDoctypeSystemIdentifierSingleQuoted
	case s.Rune == '>':
		t.forceQuirks = true
		t.emitDoctype(s.Pos)
	default:
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.forceQuirks = true
		t.state = StateBogusDoctype
	}
}

func (t *Tokenizer) stateBeforeDoctypeSystemIdentifier(s Scalar) {
	switch {
	case isWhitespace(s.Rune):
		// skip
	case s.Rune == '"':
		t.buf.Reset()
		t.hasSystemID = true
		t.state = StateDoctypeSystemIdentifierDoubleQuoted
	case s.Rune == '\'':
		t.buf.Reset()
		t.hasSystemID = true
		t.state = StateDoctypeSystemIdentifierSingleQuoted
	case s.Rune == '>':
		t.forceQuirks = true
		t.emitDoctype(s.Pos)
	default:
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.forceQuirks = true
		t.state = StateBogusDoctype
	}
}

func (t *Tokenizer) stateDoctypeSystemIdentifier(s Scalar) {
	delim := byte('"')
	if t.state == StateDoctypeSystemIdentifierSingleQuoted {
		delim = '\''
	}
	switch {
	case s.Rune == rune(delim):
		t.systemID = t.buf.String()
		t.buf.Reset()
		t.state = StateAfterDoctypeSystemIdentifier
	case s.Rune == '>':
		t.forceQuirks = true
		t.systemID = t.buf.String()
		t.emitDoctype(s.Pos)
	case s.Rune == EOF:
		t.forceQuirks = true
		t.systemID = t.buf.String()
		t.emitDoctype(s.Pos)
	default:
		t.buf.AppendRune(s.Rune)
	}
}

func (t *Tokenizer) stateAfterDoctypeSystemIdentifier(s Scalar) {
	switch {
	case isWhitespace(s.Rune):
		// skip
	case s.Rune == '>':
		t.emitDoctype(s.Pos)
	case s.Rune == EOF:
		t.forceQuirks = true
		t.emitDoctype(s.Pos)
	default:
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.state = StateBogusDoctype
	}
}

func (t *Tokenizer) stateBogusDoctype(s Scalar) {
	switch s.Rune {
	case '>':
		t.emitDoctype(s.Pos)
	case EOF:
		t.emitDoctype(s.Pos)
	default:
		// ignore
	}
}

func (t *Tokenizer) emitDoctype(end Position) {
	tok := Token{
		Kind: KindDOCTYPE, Start: t.tokStart, End: end,
		DoctypeName: t.doctypeName, PublicID: t.publicID, HasPublicID: t.hasPublicID,
		SystemID: t.systemID, HasSystemID: t.hasSystemID, ForceQuirks: t.forceQuirks,
	}
	t.emit(tok)
	t.buf.Reset()
	t.state = StateData
	t.tokStart = end
}
