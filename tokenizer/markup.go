package tokenizer

// stepMarkup dispatches one scalar through the markup sublanguage states
// (spec.md §4.4 "Markup", "Markup declarations & comments", "DOCTYPE",
// "CDATA", character references, and plain text content).
func (t *Tokenizer) stepMarkup(s Scalar) {
	switch t.state {
	case StateData:
		t.stateData(s)
	case StateTagOpen:
		t.stateTagOpen(s)
	case StateEndTagOpen:
		t.stateEndTagOpen(s)
	case StateTagName:
		t.stateTagName(s)
	case StateBeforeAttributeName:
		t.stateBeforeAttributeName(s)
	case StateAttributeName:
		t.stateAttributeName(s)
	case StateSpecialAttributeOperatorInAttributeName:
		t.stateSpecialAttributeOperatorInAttributeName(s)
	case StateAfterAttributeName:
		t.stateAfterAttributeName(s)
	case StateSpecialAttributeOperatorAfterAttributeName:
		t.stateSpecialAttributeOperatorAfterAttributeName(s)
	case StateBeforeAttributeValue:
		t.stateBeforeAttributeValue(s)
	case StateJSONEEAttributeValueDoubleQuoted, StateJSONEEAttributeValueSingleQuoted, StateJSONEEAttributeValueUnquoted:
		t.stateAttributeValue(s)
	case StateAfterAttributeValue:
		t.stateAfterAttributeValue(s)
	case StateSelfClosingStartTag:
		t.stateSelfClosingStartTag(s)
	case StateMarkupDeclarationOpen:
		t.stateMarkupDeclarationOpen(s)
	case StateCommentStart:
		t.stateCommentStart(s)
	case StateCommentStartDash:
		t.stateCommentStartDash(s)
	case StateComment:
		t.stateComment(s)
	case StateCommentLessThanSign:
		t.stateCommentLessThanSign(s)
	case StateCommentLessThanSignBang:
		t.stateCommentLessThanSignBang(s)
	case StateCommentLessThanSignBangDash:
		t.stateCommentLessThanSignBangDash(s)
	case StateCommentLessThanSignBangDashDash:
		t.stateCommentLessThanSignBangDashDash(s)
	case StateCommentEndDash:
		t.stateCommentEndDash(s)
	case StateCommentEnd:
		t.stateCommentEnd(s)
	case StateCommentEndBang:
		t.stateCommentEndBang(s)
	case StateBogusComment:
		t.stateBogusComment(s)
	case StateDoctype:
		t.stateDoctype(s)
	case StateBeforeDoctypeName:
		t.stateBeforeDoctypeName(s)
	case StateDoctypeName:
		t.stateDoctypeName(s)
	case StateAfterDoctypeName:
		t.stateAfterDoctypeName(s)
	case StateAfterDoctypePublicKeyword:
		t.stateAfterDoctypePublicKeyword(s)
	case StateBeforeDoctypePublicIdentifier:
		t.stateBeforeDoctypePublicIdentifier(s)
	case StateDoctypePublicIdentifierDoubleQuoted, StateDoctypePublicIdentifierSingleQuoted:
		t.stateDoctypePublicIdentifier(s)
	case StateAfterDoctypePublicIdentifier:
		t.stateAfterDoctypePublicIdentifier(s)
	case StateBetweenDoctypePublicAndSystemIdentifiers:
		t.stateBetweenDoctypePublicAndSystemIdentifiers(s)
	case StateAfterDoctypeSystemKeyword:
		t.stateAfterDoctypeSystemKeyword(s)
	case StateBeforeDoctypeSystemIdentifier:
		t.stateBeforeDoctypeSystemIdentifier(s)
	case StateDoctypeSystemIdentifierDoubleQuoted, StateDoctypeSystemIdentifierSingleQuoted:
		t.stateDoctypeSystemIdentifier(s)
	case StateAfterDoctypeSystemIdentifier:
		t.stateAfterDoctypeSystemIdentifier(s)
	case StateBogusDoctype:
		t.stateBogusDoctype(s)
	case StateCDATASection:
		t.stateCDATASection(s)
	case StateCDATASectionBracket:
		t.stateCDATASectionBracket(s)
	case StateCDATASectionEnd:
		t.stateCDATASectionEnd(s)
	case StateCharacterReference:
		t.stateCharacterReference(s)
	case StateNamedCharacterReference:
		t.stateNamedCharacterReference(s)
	case StateAmbiguousAmpersand:
		t.stateAmbiguousAmpersand(s)
	case StateNumericCharacterReference:
		t.stateNumericCharacterReference(s)
	case StateHexadecimalCharacterReferenceStart:
		t.stateHexadecimalCharacterReferenceStart(s)
	case StateDecimalCharacterReferenceStart:
		t.stateDecimalCharacterReferenceStart(s)
	case StateHexadecimalCharacterReference:
		t.stateHexadecimalCharacterReference(s)
	case StateDecimalCharacterReference:
		t.stateDecimalCharacterReference(s)
	case StateNumericCharacterReferenceEnd:
		t.stateNumericCharacterReferenceEnd(s)
	case StateTextContent:
		t.stateData(s) // raw-text elements share DATA's flush/char-ref shape
	case StateJSONTextContent:
		t.stateJSONTextContent(s)
	default:
		// Reached only for a State with no handler in either dispatcher
		// (StateTagContent, which no transition assigns).
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.state = StateData
	}
}

func (t *Tokenizer) stateData(s Scalar) {
	if t.buf.IsEmpty() {
		t.tokStart = s.Pos
	}
	switch s.Rune {
	case '<':
		t.flushCharacterBuffer(s.Pos)
		t.tokStart = s.Pos
		t.state = StateTagOpen
	case '&':
		t.flushCharacterBuffer(s.Pos)
		t.tokStart = s.Pos
		t.enterCharacterReference(StateData, s.Pos)
	case EOF:
		t.finishAtEOF(s.Pos)
	default:
		t.buf.AppendRune(s.Rune)
		if t.buf.ByteSize() >= t.flushThresholdOrDefault() {
			t.flushCharacterBuffer(s.Pos)
		}
	}
}

func (t *Tokenizer) stateTagOpen(s Scalar) {
	switch {
	case s.Rune == '!':
		t.state = StateMarkupDeclarationOpen
	case s.Rune == '/':
		t.state = StateEndTagOpen
	case isAsciiAlpha(s.Rune):
		t.startTag(t.tokStart)
		t.name.WriteRune(toLowerAscii(s.Rune))
		t.state = StateTagName
	default:
		t.buf.AppendRune('<')
		t.reconsume(s, StateData)
	}
}

func (t *Tokenizer) startTag(pos Position) {
	t.tokStart = pos
	t.name.Reset()
	t.attrs = nil
	t.selfClosing = false
}

func (t *Tokenizer) stateEndTagOpen(s Scalar) {
	switch {
	case isAsciiAlpha(s.Rune):
		t.startTag(t.tokStart)
		t.name.WriteRune(toLowerAscii(s.Rune))
		t.state = StateTagName
		t.endTagPending = true
	case s.Rune == '>':
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.state = StateData
	default:
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.state = StateBogusComment
		t.buf.Reset()
	}
}

func (t *Tokenizer) stateTagName(s Scalar) {
	switch {
	case isWhitespace(s.Rune):
		t.state = StateBeforeAttributeName
	case s.Rune == '/':
		t.state = StateSelfClosingStartTag
	case s.Rune == '>':
		t.finishTag(s.Pos)
	case s.Rune == EOF:
		t.abortAtEOF(s.Pos)
	default:
		t.name.WriteRune(toLowerAscii(s.Rune))
	}
}

func (t *Tokenizer) finishTag(end Position) {
	name := t.name.String()
	if t.endTagPending {
		t.emit(Token{Kind: KindEndTag, Start: t.tokStart, End: end, Name: name})
	} else {
		if dup := findDuplicateAttribute(t.attrs); dup != "" {
			t.reportError(ErrDuplicateAttribute, end)
		}
		t.emit(Token{
			Kind: KindStartTag, Start: t.tokStart, End: end,
			Name: name, Attributes: dedupeAttributes(t.attrs), SelfClosing: t.selfClosing,
		})
	}
	t.endTagPending = false
	t.state = StateData
	t.buf.Reset()
	t.tokStart = end
}

func findDuplicateAttribute(attrs []Attribute) string {
	seen := map[string]bool{}
	for _, a := range attrs {
		if seen[a.Name] {
			return a.Name
		}
		seen[a.Name] = true
	}
	return ""
}

// dedupeAttributes keeps the first occurrence of each attribute name and
// discards later duplicates, per spec.md §3's attribute-uniqueness
// invariant.
func dedupeAttributes(attrs []Attribute) []Attribute {
	seen := map[string]bool{}
	out := make([]Attribute, 0, len(attrs))
	for _, a := range attrs {
		if seen[a.Name] {
			continue
		}
		seen[a.Name] = true
		out = append(out, a)
	}
	return out
}

func (t *Tokenizer) stateBeforeAttributeName(s Scalar) {
	switch {
	case isWhitespace(s.Rune):
		// skip
	case s.Rune == '/' || s.Rune == '>':
		t.reconsume(s, StateAfterAttributeName)
	default:
		t.curAttr = Attribute{Start: s.Pos}
		t.buf.Reset()
		t.reconsume(s, StateAttributeName)
	}
}

func (t *Tokenizer) stateAttributeName(s Scalar) {
	switch {
	case isWhitespace(s.Rune) || s.Rune == '/' || s.Rune == '>':
		t.finishAttributeName(s.Pos)
		t.reconsume(s, StateAfterAttributeName)
	case s.Rune == '=':
		t.finishAttributeName(s.Pos)
		t.curAttr.Op = OpAssign
		t.state = StateBeforeAttributeValue
	case isSpecialOpLead(s.Rune):
		t.curAttrOpKind = s.Rune
		t.state = StateSpecialAttributeOperatorInAttributeName
	case s.Rune == EOF:
		t.abortAtEOF(s.Pos)
	default:
		t.buf.AppendRune(toLowerAscii(s.Rune))
	}
}

func isSpecialOpLead(r rune) bool {
	_, ok := assignOpForLeadChar[r]
	return ok
}

func (t *Tokenizer) finishAttributeName(pos Position) {
	t.curAttr.Name = t.buf.String()
	t.curAttr.End = pos
	t.buf.Reset()
}

// stateSpecialAttributeOperatorInAttributeName implements the two-
// character-lookahead tie-break of spec.md §4.4: a compound-assignment
// lead character followed by '=' wins over treating the lead character as
// an ordinary attribute-name continuation character.
func (t *Tokenizer) stateSpecialAttributeOperatorInAttributeName(s Scalar) {
	if s.Rune == '=' {
		t.finishAttributeName(s.Pos)
		t.curAttr.Op = assignOpForLeadChar[t.curAttrOpKind]
		t.curAttrOpKind = 0
		t.state = StateBeforeAttributeValue
		return
	}
	// Not a compound operator after all: the lead char was ordinary text.
	t.buf.AppendRune(t.curAttrOpKind)
	t.curAttrOpKind = 0
	t.reconsume(s, StateAttributeName)
}

func (t *Tokenizer) stateAfterAttributeName(s Scalar) {
	switch {
	case isWhitespace(s.Rune):
		// skip
	case isSpecialOpLead(s.Rune):
		t.curAttrOpKind = s.Rune
		t.state = StateSpecialAttributeOperatorAfterAttributeName
	case s.Rune == '=':
		t.curAttr.Op = OpAssign
		t.state = StateBeforeAttributeValue
	case s.Rune == '/':
		t.attrs = append(t.attrs, t.curAttr)
		t.state = StateSelfClosingStartTag
	case s.Rune == '>':
		t.attrs = append(t.attrs, t.curAttr)
		t.finishTag(s.Pos)
	default:
		t.attrs = append(t.attrs, t.curAttr)
		t.curAttr = Attribute{Start: s.Pos}
		t.buf.Reset()
		t.reconsume(s, StateAttributeName)
	}
}

func (t *Tokenizer) stateSpecialAttributeOperatorAfterAttributeName(s Scalar) {
	if s.Rune == '=' {
		t.curAttr.Op = assignOpForLeadChar[t.curAttrOpKind]
		t.curAttrOpKind = 0
		t.state = StateBeforeAttributeValue
		return
	}
	t.attrs = append(t.attrs, t.curAttr)
	t.curAttr = Attribute{Start: s.Pos}
	t.buf.Reset()
	t.buf.AppendRune(t.curAttrOpKind)
	t.curAttrOpKind = 0
	t.reconsume(s, StateAttributeName)
}

func (t *Tokenizer) stateBeforeAttributeValue(s Scalar) {
	switch {
	case isWhitespace(s.Rune):
		// skip
	case s.Rune == '"':
		t.segments = nil
		t.state = StateJSONEEAttributeValueDoubleQuoted
	case s.Rune == '\'':
		t.segments = nil
		t.state = StateJSONEEAttributeValueSingleQuoted
	case s.Rune == '>':
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.attrs = append(t.attrs, t.curAttr)
		t.finishTag(s.Pos)
	default:
		t.segments = nil
		t.buf.Reset()
		t.reconsume(s, StateJSONEEAttributeValueUnquoted)
	}
}

func (t *Tokenizer) attributeValueTerminator() rune {
	switch t.state {
	case StateJSONEEAttributeValueDoubleQuoted:
		return '"'
	case StateJSONEEAttributeValueSingleQuoted:
		return '\''
	default:
		return 0
	}
}

// stateAttributeValue scans literal text of an attribute value, entering
// the eJSON sub-machine on '$' and the character-reference sub-machine on
// '&', then recombining literal/expression segments into one value
// (spec.md §4.4 "Attribute values may contain $-prefixed interpolations").
func (t *Tokenizer) stateAttributeValue(s Scalar) {
	delim := t.attributeValueTerminator()
	switch {
	case delim != 0 && s.Rune == delim:
		t.flushLiteralSegment()
		t.curAttr.Segments = t.segments
		t.state = StateAfterAttributeValue
	case delim == 0 && isWhitespace(s.Rune):
		t.flushLiteralSegment()
		t.curAttr.Segments = t.segments
		t.attrs = append(t.attrs, t.curAttr)
		t.state = StateBeforeAttributeName
	case delim == 0 && s.Rune == '>':
		t.flushLiteralSegment()
		t.curAttr.Segments = t.segments
		t.attrs = append(t.attrs, t.curAttr)
		t.finishTag(s.Pos)
	case s.Rune == '&':
		t.enterCharacterReference(t.state, s.Pos)
	case s.Rune == '$':
		t.flushLiteralSegment()
		t.enterEJSON(s.Pos, t.state)
	case s.Rune == EOF:
		t.abortAtEOF(s.Pos)
	default:
		t.buf.AppendRune(s.Rune)
	}
}

func (t *Tokenizer) flushLiteralSegment() {
	if t.buf.IsEmpty() {
		return
	}
	t.segments = append(t.segments, ValueSegment{Kind: SegmentLiteral, Literal: t.buf.String()})
	t.buf.Reset()
}

func (t *Tokenizer) stateAfterAttributeValue(s Scalar) {
	t.attrs = append(t.attrs, t.curAttr)
	switch {
	case isWhitespace(s.Rune):
		t.state = StateBeforeAttributeName
	case s.Rune == '/':
		t.state = StateSelfClosingStartTag
	case s.Rune == '>':
		t.finishTag(s.Pos)
	default:
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.reconsume(s, StateBeforeAttributeName)
	}
}

func (t *Tokenizer) stateSelfClosingStartTag(s Scalar) {
	if s.Rune == '>' {
		t.selfClosing = true
		t.finishTag(s.Pos)
		return
	}
	t.reportError(ErrUnexpectedCharacter, s.Pos)
	t.reconsume(s, StateBeforeAttributeName)
}

// --- Markup declarations & comments ---

// stateMarkupDeclarationOpen implements spec.md §4.4's dispatch out of
// "<!": exactly two dashes opens a comment, a case-insensitive "DOCTYPE"
// opens the DOCTYPE states, and "[CDATA[" opens CDATA when allowCDATA
// permits it; anything else is a bogus comment (spec.md §4.4 "Edge
// cases"). Matching a fixed keyword can consume several characters, more
// than the reader's single pushback slot can restore, so on mismatch the
// partially-matched text is folded into the bogus comment's data instead
// of being "unread".
func (t *Tokenizer) stateMarkupDeclarationOpen(s Scalar) {
	t.buf.Reset()
	switch {
	case s.Rune == '-':
		s2 := t.reader.Next()
		if s2.Rune == '-' {
			t.state = StateCommentStart
			return
		}
		t.buf.AppendRune('-')
		t.appendBogus(s2)
	case s.Rune == 'D' || s.Rune == 'd':
		if ok, leftover := t.matchKeyword(s.Rune, "octype"); ok {
			t.state = StateDoctype
			return
		} else {
			t.buf.AppendRune(s.Rune)
			for _, r := range leftover {
				t.appendBogus(r)
			}
		}
	case s.Rune == '[' && t.allowCDATA():
		if ok, leftover := t.matchKeyword('[', "CDATA["); ok {
			t.state = StateCDATASection
			return
		} else {
			for _, r := range leftover {
				t.appendBogus(r)
			}
		}
	default:
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.appendBogus(s)
	}
	t.state = StateBogusComment
}

// allowCDATA reports whether CDATA sections are recognized at the
// current point; spec.md §4.4 restricts this to foreign-content/raw-text
// contexts. The core markup tokenizer here has no foreign-content tree
// builder (that lives in the external vDOM layer, spec.md §1 Non-goals),
// so this conservatively always allows it — a real integration wires this
// to the tree builder's foreign-content flag.
func (t *Tokenizer) allowCDATA() bool { return true }

// matchKeyword consumes scalars from the reader attempting to match rest
// case-insensitively (first has already been consumed by the caller). On
// success it returns (true, nil) with the tokenizer positioned right
// after the keyword. On failure it returns (false, consumed) with every
// scalar it had to read in order to discover the mismatch, in order, so
// the caller can fold them into bogus-comment text.
func (t *Tokenizer) matchKeyword(first rune, rest string) (bool, []Scalar) {
	var consumed []Scalar
	for _, want := range rest {
		sc := t.reader.Next()
		consumed = append(consumed, sc)
		if sc.Rune == EOF || toLowerAscii(sc.Rune) != toLowerAscii(want) {
			return false, consumed
		}
	}
	return true, nil
}

func (t *Tokenizer) appendBogus(s Scalar) {
	if s.Rune == EOF {
		return
	}
	t.buf.AppendRune(s.Rune)
}

func (t *Tokenizer) stateCommentStart(s Scalar) {
	switch s.Rune {
	case '-':
		t.state = StateCommentStartDash
	case '>':
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.emitComment(s.Pos)
	default:
		t.reconsume(s, StateComment)
	}
}

func (t *Tokenizer) stateCommentStartDash(s Scalar) {
	switch s.Rune {
	case '-':
		t.state = StateCommentEnd
	case EOF:
		t.emitComment(s.Pos)
	default:
		t.buf.AppendRune('-')
		t.reconsume(s, StateComment)
	}
}

func (t *Tokenizer) stateComment(s Scalar) {
	switch s.Rune {
	case '<':
		t.buf.AppendRune(s.Rune)
		t.state = StateCommentLessThanSign
	case '-':
		t.state = StateCommentEndDash
	case EOF:
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.emitComment(s.Pos)
	default:
		t.buf.AppendRune(s.Rune)
	}
}

func (t *Tokenizer) stateCommentLessThanSign(s Scalar) {
	switch s.Rune {
	case '!':
		t.buf.AppendRune(s.Rune)
		t.state = StateCommentLessThanSignBang
	case '<':
		t.buf.AppendRune(s.Rune)
	default:
		t.reconsume(s, StateComment)
	}
}

func (t *Tokenizer) stateCommentLessThanSignBang(s Scalar) {
	if s.Rune == '-' {
		t.state = StateCommentLessThanSignBangDash
		return
	}
	t.reconsume(s, StateComment)
}

func (t *Tokenizer) stateCommentLessThanSignBangDash(s Scalar) {
	if s.Rune == '-' {
		t.state = StateCommentLessThanSignBangDashDash
		return
	}
	t.reconsume(s, StateCommentEndDash)
}

func (t *Tokenizer) stateCommentLessThanSignBangDashDash(s Scalar) {
	t.reconsume(s, StateCommentEnd)
}

func (t *Tokenizer) stateCommentEndDash(s Scalar) {
	if s.Rune == '-' {
		t.state = StateCommentEnd
		return
	}
	t.buf.AppendRune('-')
	t.reconsume(s, StateComment)
}

func (t *Tokenizer) stateCommentEnd(s Scalar) {
	switch s.Rune {
	case '>':
		t.emitComment(s.Pos)
	case '!':
		t.state = StateCommentEndBang
	case '-':
		t.buf.AppendRune('-')
	default:
		t.buf.Append([]byte("--"), '-')
		t.reconsume(s, StateComment)
	}
}

func (t *Tokenizer) stateCommentEndBang(s Scalar) {
	switch s.Rune {
	case '-':
		t.buf.Append([]byte("--!"), '!')
		t.state = StateCommentEndDash
	case '>':
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.emitComment(s.Pos)
	default:
		t.buf.Append([]byte("--!"), '!')
		t.reconsume(s, StateComment)
	}
}

func (t *Tokenizer) emitComment(end Position) {
	t.emit(Token{Kind: KindComment, Start: t.tokStart, End: end, CommentData: t.buf.String()})
	t.buf.Reset()
	t.state = StateData
	t.tokStart = end
}

func (t *Tokenizer) stateBogusComment(s Scalar) {
	switch s.Rune {
	case '>':
		t.emitComment(s.Pos)
	case EOF:
		t.emitComment(s.Pos)
	default:
		t.buf.AppendRune(s.Rune)
	}
}
