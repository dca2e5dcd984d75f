package tokenizer

import (
	"encoding/base64"
	"encoding/hex"
	"math"
	"strconv"

	"github.com/hvml-lang/tokenizer/vcm"
)

// stepEJSON dispatches one scalar through the eJSON sub-machine (spec.md
// §4.4 "eJSON core", "eJSON strings", "eJSON keywords / bytes", "eJSON
// numbers", "eJSON escapes", "eJSON interpolation", "Composite/cjsonee").
// It is entered from stepMarkup via enterEJSON and runs until the frame
// stack empties and StateEJSONFinished hands control back to the saved
// outer state.
func (t *Tokenizer) stepEJSON(s Scalar) {
	switch t.state {
	case StateDollar:
		t.stateDollar(s)
	case StateEJSONData:
		t.stateEJSONData(s)
	case StateEJSONFinished:
		t.stateEJSONFinished(s)
	case StateEJSONControl, StateAfterValue:
		t.stateEJSONControl(s)
	case StateLeftBrace:
		t.stateLeftBrace(s)
	case StateRightBrace:
		t.stateRightBrace(s)
	case StateLeftBracket:
		t.stateLeftBracket(s)
	case StateRightBracket:
		t.stateRightBracket(s)
	case StateLeftParenthesis:
		t.stateLeftParenthesis(s)
	case StateRightParenthesis:
		t.stateRightParenthesis(s)
	case StateBeforeName:
		t.stateBeforeName(s)
	case StateAfterName:
		t.stateAfterName(s)
	case StateNameUnquoted:
		t.stateNameUnquoted(s)
	case StateNameSingleQuoted:
		t.stateNameSingleQuoted(s)
	case StateNameDoubleQuoted:
		t.stateNameDoubleQuoted(s)
	case StateValueSingleQuoted:
		t.stateValueSingleQuoted(s)
	case StateValueDoubleQuoted:
		t.stateValueDoubleQuoted(s)
	case StateValueTwoDoubleQuoted:
		t.stateValueTwoDoubleQuoted(s)
	case StateValueThreeDoubleQuoted:
		t.stateValueThreeDoubleQuoted(s)
	case StateAfterValueDoubleQuoted:
		t.stateAfterValueDoubleQuoted(s)
	case StateKeyword:
		t.stateKeyword(s)
	case StateAfterKeyword:
		t.stateAfterKeyword(s)
	case StateByteSequence:
		t.stateByteSequence(s)
	case StateAfterByteSequence:
		t.stateAfterByteSequence(s)
	case StateHexByteSequence:
		t.stateHexByteSequence(s)
	case StateBinaryByteSequence:
		t.stateBinaryByteSequence(s)
	case StateBase64ByteSequence:
		t.stateBase64ByteSequence(s)
	case StateValueNumber:
		t.stateValueNumber(s)
	case StateAfterValueNumber:
		t.stateAfterValueNumber(s)
	case StateValueNumberInteger:
		t.stateValueNumberInteger(s)
	case StateValueNumberFraction:
		t.stateValueNumberFraction(s)
	case StateValueNumberExponent:
		t.stateValueNumberExponent(s)
	case StateValueNumberExponentInteger:
		t.stateValueNumberExponentInteger(s)
	case StateValueNumberSuffixInteger:
		t.stateValueNumberSuffixInteger(s)
	case StateValueNumberHex:
		t.stateValueNumberHex(s)
	case StateValueNumberHexSuffix:
		t.stateValueNumberHexSuffix(s)
	case StateAfterValueNumberHex:
		t.stateAfterValueNumberHex(s)
	case StateValueNumberInfinity:
		t.stateValueNumberInfinity(s)
	case StateValueNaN:
		t.stateValueNaN(s)
	case StateStringEscape:
		t.stateStringEscape(s)
	case StateStringEscapeFourHexadecimalDigits:
		t.stateStringEscapeFourHexadecimalDigits(s)
	case StateJSONEEVariable:
		t.stateJSONEEVariable(s)
	case StateJSONEEFullStopSign:
		t.stateJSONEEFullStopSign(s)
	case StateJSONEEKeyword:
		t.stateJSONEEKeyword(s)
	case StateJSONEEString:
		t.stateJSONEEString(s)
	case StateAfterJSONEEString:
		t.stateAfterJSONEEString(s)
	case StateAmpersand:
		t.stateAmpersand(s)
	case StateOrSign:
		t.stateOrSign(s)
	case StateSemicolon:
		t.stateSemicolon(s)
	case StateCJSONEEFinished:
		t.stateCJSONEEFinished(s)
	case StateTemplateData:
		t.stateTemplateData(s)
	case StateTemplateDataLessThanSign:
		t.stateTemplateDataLessThanSign(s)
	case StateTemplateDataEndTagOpen:
		t.stateTemplateDataEndTagOpen(s)
	case StateTemplateDataEndTagName:
		t.stateTemplateDataEndTagName(s)
	case StateTemplateFinished:
		t.stateTemplateFinished(s)
	default:
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.abortEJSON(s.Pos)
	}
}

// enterEJSON switches the tokenizer into the eJSON sub-machine. Called the
// scalar immediately after a '$' sigil has been consumed by the markup
// layer (spec.md §4.4 "Attribute values may contain $-prefixed
// interpolations"); startPos is the position of the '$' itself.
func (t *Tokenizer) enterEJSON(startPos Position, returnState State) {
	t.outerState = returnState
	t.ejsonAttrMode = returnState == StateJSONEEAttributeValueDoubleQuoted ||
		returnState == StateJSONEEAttributeValueSingleQuoted ||
		returnState == StateJSONEEAttributeValueUnquoted
	t.ejsonStart = startPos
	t.frames = t.frames[:0]
	t.root = nil
	t.buf.Reset()
	t.inEJSON = true
	t.state = StateDollar
}

func (t *Tokenizer) stateDollar(s Scalar) {
	t.reconsume(s, StateEJSONData)
}

// stateJSONTextContent enters the eJSON sub-machine directly at the first
// scalar of an element whose content model is pure eJSON data rather than
// markup, without requiring a '$' sigil. No part of this module decides
// which elements have that content model (that lives in the external tree
// builder, spec.md §1 Non-goals) — same stand-in shape as allowCDATA.
func (t *Tokenizer) stateJSONTextContent(s Scalar) {
	t.outerState = StateData
	t.ejsonAttrMode = false
	t.ejsonStart = s.Pos
	t.frames = t.frames[:0]
	t.root = nil
	t.buf.Reset()
	t.inEJSON = true
	t.reconsume(s, StateEJSONData)
}

// stateEJSONData is the value-start dispatcher: every value position
// (the top-level expression, an array element, an object value, a group
// member) re-enters here.
func (t *Tokenizer) stateEJSONData(s Scalar) {
	switch {
	case isWhitespace(s.Rune):
	case s.Rune == '{':
		t.reconsume(s, StateLeftBrace)
	case s.Rune == '[':
		t.reconsume(s, StateLeftBracket)
	case s.Rune == '(':
		t.reconsume(s, StateLeftParenthesis)
	case s.Rune == '}':
		t.reconsume(s, StateRightBrace)
	case s.Rune == ']':
		t.reconsume(s, StateRightBracket)
	case s.Rune == ')':
		t.reconsume(s, StateRightParenthesis)
	case s.Rune == '"':
		t.buf.Reset()
		t.state = StateValueDoubleQuoted
	case s.Rune == '\'':
		t.buf.Reset()
		t.state = StateValueSingleQuoted
	case s.Rune == '$':
		t.buf.Reset()
		t.state = StateJSONEEVariable
	case s.Rune == '<':
		t.enterTemplate(s)
	case s.Rune == 'b':
		t.state = StateByteSequence
	case s.Rune == 't', s.Rune == 'f', s.Rune == 'n', s.Rune == 'u':
		t.reconsume(s, StateKeyword)
	case s.Rune == 'I':
		t.reconsume(s, StateValueNumberInfinity)
	case s.Rune == 'N':
		t.reconsume(s, StateValueNaN)
	case isAsciiDigit(s.Rune) || s.Rune == '-':
		t.buf.Reset()
		t.numFlags = numberFlags{}
		if s.Rune == '-' {
			t.numFlags.negative = true
		} else {
			t.buf.AppendRune(s.Rune)
		}
		t.state = StateValueNumber
	case s.Rune == EOF:
		t.reportError(ErrBadJSON, t.ejsonStart)
		t.abortEJSON(s.Pos)
	default:
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.abortEJSON(s.Pos)
	}
}

// stateEJSONFinished hands control back to the state that called
// enterEJSON, re-dispatching s there.
func (t *Tokenizer) stateEJSONFinished(s Scalar) {
	t.inEJSON = false
	t.reconsume(s, t.outerState)
}

func (t *Tokenizer) finishEJSON() {
	root := t.root
	if t.ejsonAttrMode {
		t.segments = append(t.segments, ValueSegment{Kind: SegmentExpression, Expr: root})
	} else {
		t.emit(Token{Kind: KindVCMTree, Start: t.ejsonStart, End: t.reader.Position(), Root: root})
	}
	t.frames = t.frames[:0]
	t.state = StateEJSONFinished
}

// abortEJSON recovers from a malformed expression by discarding it as
// Undefined and returning control to the outer state immediately; the
// scalar that triggered the abort is dropped rather than reprocessed; this
// is an error-recovery path only, not a general reconsume site.
func (t *Tokenizer) abortEJSON(pos Position) {
	t.frames = t.frames[:0]
	t.buf.Reset()
	v := t.builder.Undefined()
	t.root = v
	if t.ejsonAttrMode {
		t.segments = append(t.segments, ValueSegment{Kind: SegmentExpression, Expr: v})
	} else {
		t.emit(Token{Kind: KindVCMTree, Start: t.ejsonStart, End: pos, Root: v})
	}
	t.inEJSON = false
	t.state = t.outerState
}

// placeValue attaches a completed value to the frame it belongs to, or —
// if the frame stack is empty — finishes the whole expression.
func (t *Tokenizer) placeValue(v *vcm.Node) {
	if len(t.frames) == 0 {
		t.root = v
		t.finishEJSON()
		return
	}
	top := &t.frames[len(t.frames)-1]
	switch top.kind {
	case FrameObject:
		top.node.Put(top.pendingKey, v)
	case FrameArray, FrameParen, FrameCJSONEE:
		top.node.Append(v)
	}
	t.state = StateEJSONControl
}

func (t *Tokenizer) pushFrame(kind FrameKind, closer rune) {
	var node *vcm.Node
	switch kind {
	case FrameObject:
		node = t.builder.Object()
	case FrameArray:
		node = t.builder.Array()
	case FrameParen:
		node = t.builder.Group(vcm.SepComma)
	}
	t.frames = append(t.frames, frame{kind: kind, node: node, closer: closer})
}

func (t *Tokenizer) reduceFrame(end Position) {
	top := t.frames[len(t.frames)-1]
	t.frames = t.frames[:len(t.frames)-1]
	t.placeValue(top.node)
}

func (t *Tokenizer) stateLeftBrace(s Scalar) {
	t.pushFrame(FrameObject, '}')
	t.state = StateBeforeName
}

func (t *Tokenizer) stateRightBrace(s Scalar) {
	if len(t.frames) > 0 && t.frames[len(t.frames)-1].closer == '}' {
		t.reduceFrame(s.Pos)
		return
	}
	t.reportError(ErrUnexpectedRightBrace, s.Pos)
	t.abortEJSON(s.Pos)
}

func (t *Tokenizer) stateLeftBracket(s Scalar) {
	t.pushFrame(FrameArray, ']')
	t.state = StateEJSONData
}

func (t *Tokenizer) stateRightBracket(s Scalar) {
	if len(t.frames) > 0 && t.frames[len(t.frames)-1].closer == ']' {
		t.reduceFrame(s.Pos)
		return
	}
	t.reportError(ErrUnexpectedRightBracket, s.Pos)
	t.abortEJSON(s.Pos)
}

func (t *Tokenizer) stateLeftParenthesis(s Scalar) {
	t.pushFrame(FrameParen, ')')
	t.state = StateEJSONData
}

func (t *Tokenizer) stateRightParenthesis(s Scalar) {
	if len(t.frames) == 0 || t.frames[len(t.frames)-1].closer != ')' {
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.abortEJSON(s.Pos)
		return
	}
	if t.frames[len(t.frames)-1].kind == FrameCJSONEE {
		t.stateCJSONEEFinished(s)
		return
	}
	t.reduceFrame(s.Pos)
}

// stateEJSONControl is the post-value dispatch point: a separator
// continues the current container, a closer reduces it, anything else is
// an error (spec.md §4.4 "EJSON_CONTROL").
func (t *Tokenizer) stateEJSONControl(s Scalar) {
	if len(t.frames) == 0 {
		return
	}
	top := &t.frames[len(t.frames)-1]
	switch {
	case isWhitespace(s.Rune):
	case s.Rune == ',':
		switch top.kind {
		case FrameObject:
			t.state = StateBeforeName
		case FrameArray, FrameParen:
			top.kind = FrameArray
			t.state = StateEJSONData
		case FrameCJSONEE:
			t.reportError(ErrUnexpectedComma, s.Pos)
			t.state = StateEJSONData
		}
	case s.Rune == '&':
		t.reconsume(s, StateAmpersand)
	case s.Rune == '|':
		t.reconsume(s, StateOrSign)
	case s.Rune == ';':
		t.reconsume(s, StateSemicolon)
	case s.Rune == '}':
		t.reconsume(s, StateRightBrace)
	case s.Rune == ']':
		t.reconsume(s, StateRightBracket)
	case s.Rune == ')':
		t.reconsume(s, StateRightParenthesis)
	case s.Rune == EOF:
		t.reportError(ErrBadJSON, t.ejsonStart)
		t.abortEJSON(s.Pos)
	default:
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.abortEJSON(s.Pos)
	}
}

// stateAfterValue is a defensive landing pad: placeValue always routes
// through StateEJSONControl instead, but the name stays addressable from
// the roster.
func (t *Tokenizer) stateAfterValue(s Scalar) {
	t.stateEJSONControl(s)
}

func (t *Tokenizer) joinCJSONEE(pos Position) {
	if len(t.frames) == 0 {
		t.reportError(ErrUnexpectedCharacter, pos)
		t.abortEJSON(pos)
		return
	}
	top := &t.frames[len(t.frames)-1]
	switch top.kind {
	case FrameParen, FrameArray, FrameCJSONEE:
		top.kind = FrameCJSONEE
		top.node.Kind = vcm.KindCJSONEE
		top.node.Separator = vcm.SepSemicolon
		t.state = StateEJSONData
	default:
		t.reportError(ErrUnexpectedCharacter, pos)
		t.abortEJSON(pos)
	}
}

// stateAmpersand and stateOrSign expect the two-character "&&"/"||"
// sequence-join operators; a lone '&' or '|' is a syntax error.
func (t *Tokenizer) stateAmpersand(s Scalar) {
	s2 := t.reader.Next()
	if s2.Rune != '&' {
		t.reportError(ErrUnexpectedCharacter, s2.Pos)
		t.abortEJSON(s2.Pos)
		return
	}
	t.joinCJSONEE(s.Pos)
}

func (t *Tokenizer) stateOrSign(s Scalar) {
	s2 := t.reader.Next()
	if s2.Rune != '|' {
		t.reportError(ErrUnexpectedCharacter, s2.Pos)
		t.abortEJSON(s2.Pos)
		return
	}
	t.joinCJSONEE(s.Pos)
}

func (t *Tokenizer) stateSemicolon(s Scalar) {
	t.joinCJSONEE(s.Pos)
}

func (t *Tokenizer) stateCJSONEEFinished(s Scalar) {
	t.reduceFrame(s.Pos)
}

// --- object keys ---

func (t *Tokenizer) stateBeforeName(s Scalar) {
	switch {
	case isWhitespace(s.Rune):
	case s.Rune == '}':
		t.reconsume(s, StateRightBrace)
	case s.Rune == '"':
		t.buf.Reset()
		t.state = StateNameDoubleQuoted
	case s.Rune == '\'':
		t.buf.Reset()
		t.state = StateNameSingleQuoted
	case isAsciiAlpha(s.Rune) || s.Rune == '_':
		t.buf.Reset()
		t.buf.AppendRune(s.Rune)
		t.state = StateNameUnquoted
	default:
		t.reportError(ErrUnexpectedKeyName, s.Pos)
		t.abortEJSON(s.Pos)
	}
}

func (t *Tokenizer) stateNameUnquoted(s Scalar) {
	if isAsciiAlpha(s.Rune) || isAsciiDigit(s.Rune) || s.Rune == '_' || s.Rune == '-' {
		t.buf.AppendRune(s.Rune)
		return
	}
	t.finishName(s)
}

func (t *Tokenizer) finishName(term Scalar) {
	top := &t.frames[len(t.frames)-1]
	top.pendingKey = t.buf.String()
	t.buf.Reset()
	t.reconsume(term, StateAfterName)
}

func (t *Tokenizer) stateNameDoubleQuoted(s Scalar) {
	switch {
	case s.Rune == '"':
		top := &t.frames[len(t.frames)-1]
		top.pendingKey = t.buf.String()
		t.buf.Reset()
		t.state = StateAfterName
	case s.Rune == '\\':
		t.strReturn = StateNameDoubleQuoted
		t.state = StateStringEscape
	case s.Rune == EOF:
		t.reportError(ErrEOFInString, t.ejsonStart)
		t.abortEJSON(s.Pos)
	default:
		t.buf.AppendRune(s.Rune)
	}
}

func (t *Tokenizer) stateNameSingleQuoted(s Scalar) {
	switch {
	case s.Rune == '\'':
		top := &t.frames[len(t.frames)-1]
		top.pendingKey = t.buf.String()
		t.buf.Reset()
		t.state = StateAfterName
	case s.Rune == '\\':
		t.strReturn = StateNameSingleQuoted
		t.state = StateStringEscape
	case s.Rune == EOF:
		t.reportError(ErrEOFInString, t.ejsonStart)
		t.abortEJSON(s.Pos)
	default:
		t.buf.AppendRune(s.Rune)
	}
}

func (t *Tokenizer) stateAfterName(s Scalar) {
	switch {
	case isWhitespace(s.Rune):
	case s.Rune == ':':
		t.state = StateEJSONData
	default:
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.abortEJSON(s.Pos)
	}
}

// --- strings ---

func (t *Tokenizer) finishStringValue() {
	v := t.builder.String(t.buf.String())
	t.buf.Reset()
	t.placeValue(v)
}

func (t *Tokenizer) stateValueSingleQuoted(s Scalar) {
	switch {
	case s.Rune == '\\':
		t.strReturn = StateValueSingleQuoted
		t.state = StateStringEscape
	case s.Rune == '\'':
		t.finishStringValue()
	case s.Rune == EOF:
		t.reportError(ErrEOFInString, t.ejsonStart)
		t.abortEJSON(s.Pos)
	default:
		t.buf.AppendRune(s.Rune)
	}
}

func (t *Tokenizer) stateValueDoubleQuoted(s Scalar) {
	switch {
	case s.Rune == '\\':
		t.strReturn = StateValueDoubleQuoted
		t.state = StateStringEscape
	case s.Rune == '"':
		if t.buf.IsEmpty() {
			t.state = StateValueTwoDoubleQuoted
			return
		}
		t.finishStringValue()
	case s.Rune == EOF:
		t.reportError(ErrEOFInString, t.ejsonStart)
		t.abortEJSON(s.Pos)
	default:
		t.buf.AppendRune(s.Rune)
	}
}

// stateValueTwoDoubleQuoted follows two consecutive '"' with nothing
// between them: a third '"' opens a raw triple-quoted string, anything
// else means the value was an empty string.
func (t *Tokenizer) stateValueTwoDoubleQuoted(s Scalar) {
	if s.Rune == '"' {
		t.state = StateValueThreeDoubleQuoted
		return
	}
	t.finishStringValue()
	t.reconsume(s, t.state)
}

func (t *Tokenizer) stateValueThreeDoubleQuoted(s Scalar) {
	switch s.Rune {
	case '"':
		t.state = StateAfterValueDoubleQuoted
	case EOF:
		t.reportError(ErrEOFInString, t.ejsonStart)
		t.abortEJSON(s.Pos)
	default:
		t.buf.AppendRune(s.Rune)
	}
}

func (t *Tokenizer) stateAfterValueDoubleQuoted(s Scalar) {
	if s.Rune != '"' {
		t.buf.AppendRune('"')
		t.reconsume(s, StateValueThreeDoubleQuoted)
		return
	}
	s2 := t.reader.Next()
	if s2.Rune == '"' {
		t.finishStringValue()
		return
	}
	t.buf.AppendRune('"')
	t.buf.AppendRune('"')
	t.state = StateValueThreeDoubleQuoted
	t.stepEJSON(s2)
}

func (t *Tokenizer) stateStringEscape(s Scalar) {
	switch s.Rune {
	case 'n':
		t.buf.AppendRune('\n')
	case 't':
		t.buf.AppendRune('\t')
	case 'r':
		t.buf.AppendRune('\r')
	case 'b':
		t.buf.AppendRune('\b')
	case 'f':
		t.buf.AppendRune('\f')
	case '\\', '"', '\'', '/':
		t.buf.AppendRune(s.Rune)
	case 'u':
		t.charRefCode = 0
		t.charRefDigits = 0
		t.state = StateStringEscapeFourHexadecimalDigits
		return
	case EOF:
		t.reportError(ErrEOFInString, t.ejsonStart)
		t.abortEJSON(s.Pos)
		return
	default:
		t.reportError(ErrBadStringEscape, s.Pos)
		t.buf.AppendRune(s.Rune)
	}
	t.state = t.strReturn
}

func (t *Tokenizer) stateStringEscapeFourHexadecimalDigits(s Scalar) {
	if !isHexDigit(s.Rune) {
		t.reportError(ErrBadStringEscape, s.Pos)
		t.buf.AppendRune(replacementChar)
		t.reconsume(s, t.strReturn)
		return
	}
	t.charRefCode = t.charRefCode*16 + hexValue(s.Rune)
	t.charRefDigits++
	if t.charRefDigits < 4 {
		return
	}
	t.buf.AppendRune(rune(t.charRefCode))
	t.charRefCode = 0
	t.charRefDigits = 0
	t.state = t.strReturn
}

// --- keywords ---

func (t *Tokenizer) stateKeyword(s Scalar) {
	var rest, word string
	switch s.Rune {
	case 't':
		rest, word = "rue", "true"
	case 'f':
		rest, word = "alse", "false"
	case 'n':
		rest, word = "ull", "null"
	case 'u':
		rest, word = "ndefined", "undefined"
	default:
		t.reportError(ErrUnexpectedKeyword, s.Pos)
		t.abortEJSON(s.Pos)
		return
	}
	ok, leftover := t.matchKeyword(s.Rune, rest)
	if !ok {
		t.reportError(ErrUnexpectedKeyword, t.ejsonStart)
		t.abortEJSON(s.Pos)
		return
	}
	var v *vcm.Node
	switch word {
	case "true":
		v = t.builder.Boolean(true)
	case "false":
		v = t.builder.Boolean(false)
	case "null":
		v = t.builder.Null()
	case "undefined":
		v = t.builder.Undefined()
	}
	_ = leftover
	t.placeValue(v)
}

func (t *Tokenizer) stateAfterKeyword(s Scalar) {
	t.reconsume(s, t.state)
}

// --- byte sequences ---

func (t *Tokenizer) stateByteSequence(s Scalar) {
	switch s.Rune {
	case 'x':
		t.buf.Reset()
		t.state = StateHexByteSequence
	case 'b':
		t.buf.Reset()
		t.state = StateBinaryByteSequence
	case '6':
		s2 := t.reader.Next()
		if s2.Rune != '4' {
			t.reportError(ErrUnexpectedBase64, s2.Pos)
			t.abortEJSON(s2.Pos)
			return
		}
		t.buf.Reset()
		t.state = StateBase64ByteSequence
	default:
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.abortEJSON(s.Pos)
	}
}

func (t *Tokenizer) stateHexByteSequence(s Scalar) {
	if isHexDigit(s.Rune) {
		t.buf.AppendRune(s.Rune)
		return
	}
	t.finishByteSequence(s, 16)
}

func (t *Tokenizer) stateBinaryByteSequence(s Scalar) {
	if s.Rune == '0' || s.Rune == '1' {
		t.buf.AppendRune(s.Rune)
		return
	}
	t.finishByteSequence(s, 2)
}

func (t *Tokenizer) stateBase64ByteSequence(s Scalar) {
	if isBase64Char(s.Rune) {
		t.buf.AppendRune(s.Rune)
		return
	}
	t.finishByteSequence(s, 64)
}

func isBase64Char(r rune) bool {
	return isAsciiAlpha(r) || isAsciiDigit(r) || r == '+' || r == '/' || r == '='
}

func (t *Tokenizer) finishByteSequence(term Scalar, base int) {
	text := t.buf.String()
	t.buf.Reset()
	var data []byte
	var err error
	switch base {
	case 16:
		if len(text)%2 != 0 {
			t.reportError(ErrBadNumber, t.ejsonStart)
			text = text[:len(text)-1]
		}
		data, err = hex.DecodeString(text)
	case 2:
		data = decodeBinaryByteSequence(text)
	case 64:
		data, err = base64.StdEncoding.DecodeString(text)
	}
	if err != nil {
		t.reportError(ErrBadNumber, t.ejsonStart)
		data = nil
	}
	v := t.builder.ByteSequence(data)
	t.placeValue(v)
	t.reconsume(term, t.state)
}

func decodeBinaryByteSequence(text string) []byte {
	for len(text)%8 != 0 {
		text = "0" + text
	}
	out := make([]byte, len(text)/8)
	for i := range out {
		var b byte
		for j := 0; j < 8; j++ {
			b <<= 1
			if text[i*8+j] == '1' {
				b |= 1
			}
		}
		out[i] = b
	}
	return out
}

func (t *Tokenizer) stateAfterByteSequence(s Scalar) {
	t.reconsume(s, t.state)
}

// --- numbers ---

func isNumberSuffixLead(r rune) bool {
	return r == 'U' || r == 'u' || r == 'L' || r == 'l' || r == 'F' || r == 'f' || r == 'D' || r == 'd'
}

func (t *Tokenizer) stateValueNumber(s Scalar) {
	t.stateValueNumberInteger(s)
}

func (t *Tokenizer) stateValueNumberInteger(s Scalar) {
	switch {
	case isAsciiDigit(s.Rune):
		t.buf.AppendRune(s.Rune)
	case s.Rune == 'x' && t.buf.String() == "0":
		t.numFlags.hex = true
		t.buf.Reset()
		t.state = StateValueNumberHex
	case s.Rune == '.':
		t.numFlags.hasDot = true
		t.buf.AppendRune('.')
		t.state = StateValueNumberFraction
	case s.Rune == 'e' || s.Rune == 'E':
		t.numFlags.hasExponent = true
		t.buf.AppendRune('e')
		t.state = StateValueNumberExponent
	case isNumberSuffixLead(s.Rune):
		t.reconsume(s, StateValueNumberSuffixInteger)
	default:
		t.finishNumber(s)
	}
}

func (t *Tokenizer) stateValueNumberFraction(s Scalar) {
	switch {
	case isAsciiDigit(s.Rune):
		t.buf.AppendRune(s.Rune)
	case s.Rune == 'e' || s.Rune == 'E':
		t.numFlags.hasExponent = true
		t.buf.AppendRune('e')
		t.state = StateValueNumberExponent
	case isNumberSuffixLead(s.Rune):
		t.reconsume(s, StateValueNumberSuffixInteger)
	default:
		t.finishNumber(s)
	}
}

func (t *Tokenizer) stateValueNumberExponent(s Scalar) {
	switch {
	case s.Rune == '+' || s.Rune == '-':
		t.buf.AppendRune(s.Rune)
		t.state = StateValueNumberExponentInteger
	case isAsciiDigit(s.Rune):
		t.buf.AppendRune(s.Rune)
		t.state = StateValueNumberExponentInteger
	default:
		t.reportError(ErrUnexpectedNumberExponent, s.Pos)
		t.finishNumber(s)
	}
}

func (t *Tokenizer) stateValueNumberExponentInteger(s Scalar) {
	switch {
	case isAsciiDigit(s.Rune):
		t.buf.AppendRune(s.Rune)
	case isNumberSuffixLead(s.Rune):
		t.reconsume(s, StateValueNumberSuffixInteger)
	default:
		t.finishNumber(s)
	}
}

func (t *Tokenizer) stateValueNumberSuffixInteger(s Scalar) {
	switch s.Rune {
	case 'U', 'u':
		t.numFlags.width = vcm.WidthU64
	case 'L', 'l':
		if t.numFlags.width != vcm.WidthU64 {
			t.numFlags.width = vcm.WidthI64
		}
	case 'F', 'f', 'D', 'd':
		t.numFlags.width = vcm.WidthLongDouble
	default:
		t.finishNumber(s)
		return
	}
}

func (t *Tokenizer) stateValueNumberHex(s Scalar) {
	switch {
	case isHexDigit(s.Rune):
		t.buf.AppendRune(s.Rune)
	case isNumberSuffixLead(s.Rune):
		t.reconsume(s, StateValueNumberHexSuffix)
	default:
		t.finishHexNumber(s)
	}
}

func (t *Tokenizer) stateValueNumberHexSuffix(s Scalar) {
	switch s.Rune {
	case 'U', 'u':
		t.numFlags.width = vcm.WidthU64
	case 'L', 'l':
		if t.numFlags.width != vcm.WidthU64 {
			t.numFlags.width = vcm.WidthI64
		}
	default:
		t.finishHexNumber(s)
	}
}

func (t *Tokenizer) stateAfterValueNumberHex(s Scalar) {
	t.reconsume(s, t.state)
}

func (t *Tokenizer) stateAfterValueNumber(s Scalar) {
	t.reconsume(s, t.state)
}

func (t *Tokenizer) finishNumber(term Scalar) {
	text := t.buf.String()
	t.buf.Reset()
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		t.reportError(ErrBadNumber, t.ejsonStart)
		f = 0
	}
	if t.numFlags.negative {
		f = -f
	}
	var v *vcm.Node
	if t.numFlags.width == vcm.WidthLongDouble {
		v = t.builder.LongDouble(f)
	} else {
		v = t.builder.Number(f, t.numFlags.width)
	}
	t.placeValue(v)
	t.reconsume(term, t.state)
}

func (t *Tokenizer) finishHexNumber(term Scalar) {
	text := t.buf.String()
	t.buf.Reset()
	n, err := strconv.ParseUint(text, 16, 64)
	if err != nil {
		t.reportError(ErrBadNumber, t.ejsonStart)
	}
	f := float64(n)
	if t.numFlags.negative {
		f = -f
	}
	v := t.builder.Number(f, t.numFlags.width)
	t.placeValue(v)
	t.reconsume(term, t.state)
}

func (t *Tokenizer) stateValueNumberInfinity(s Scalar) {
	ok, leftover := t.matchKeyword(s.Rune, "nfinity")
	if !ok {
		t.reportError(ErrBadNumber, t.ejsonStart)
	}
	v := t.builder.Number(math.Inf(1), vcm.WidthLongDouble)
	t.placeValue(v)
	if len(leftover) > 0 {
		t.reconsume(leftover[len(leftover)-1], t.state)
	}
}

func (t *Tokenizer) stateValueNaN(s Scalar) {
	ok, leftover := t.matchKeyword(s.Rune, "aN")
	if !ok {
		t.reportError(ErrBadNumber, t.ejsonStart)
	}
	v := t.builder.Number(math.NaN(), vcm.WidthLongDouble)
	t.placeValue(v)
	if len(leftover) > 0 {
		t.reconsume(leftover[len(leftover)-1], t.state)
	}
}

// --- $-interpolated variable paths ---

func (t *Tokenizer) finishVariable(term Scalar) {
	path := t.buf.String()
	t.buf.Reset()
	v := t.builder.Variable(path)
	t.placeValue(v)
	t.reconsume(term, t.state)
}

func (t *Tokenizer) stateJSONEEVariable(s Scalar) {
	if t.buf.IsEmpty() && s.Rune >= 'A' && s.Rune <= 'Z' {
		t.buf.AppendRune(s.Rune)
		t.state = StateJSONEEKeyword
		return
	}
	switch {
	case isAsciiAlpha(s.Rune) || isAsciiDigit(s.Rune) || s.Rune == '_':
		t.buf.AppendRune(s.Rune)
	case s.Rune == '.':
		t.buf.AppendRune('.')
		t.state = StateJSONEEFullStopSign
	default:
		t.finishVariable(s)
	}
}

// stateJSONEEKeyword continues an identifier that began with an uppercase
// letter (a reserved path segment like $SYSTEM to the external runtime);
// tokenization treats it identically to an ordinary path segment.
func (t *Tokenizer) stateJSONEEKeyword(s Scalar) {
	switch {
	case isAsciiAlpha(s.Rune) || isAsciiDigit(s.Rune) || s.Rune == '_':
		t.buf.AppendRune(s.Rune)
	case s.Rune == '.':
		t.buf.AppendRune('.')
		t.state = StateJSONEEFullStopSign
	default:
		t.finishVariable(s)
	}
}

func (t *Tokenizer) stateJSONEEFullStopSign(s Scalar) {
	switch {
	case isAsciiAlpha(s.Rune) || isAsciiDigit(s.Rune) || s.Rune == '_':
		t.buf.AppendRune(s.Rune)
		t.state = StateJSONEEVariable
	case s.Rune == '"':
		t.strDelim = '"'
		t.state = StateJSONEEString
	case s.Rune == '\'':
		t.strDelim = '\''
		t.state = StateJSONEEString
	default:
		t.reportError(ErrUnexpectedCharacter, s.Pos)
		t.finishVariable(s)
	}
}

func (t *Tokenizer) stateJSONEEString(s Scalar) {
	switch {
	case s.Rune == t.strDelim:
		t.state = StateAfterJSONEEString
	case s.Rune == EOF:
		t.reportError(ErrEOFInString, t.ejsonStart)
		t.abortEJSON(s.Pos)
	default:
		t.buf.AppendRune(s.Rune)
	}
}

func (t *Tokenizer) stateAfterJSONEEString(s Scalar) {
	if s.Rune == '.' {
		t.buf.AppendRune('.')
		t.state = StateJSONEEFullStopSign
		return
	}
	t.finishVariable(s)
}
