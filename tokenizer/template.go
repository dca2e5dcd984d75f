package tokenizer

// Template states (spec.md §4.4 "Template"). A template value is a value
// position in the eJSON sub-machine spelled as raw markup rather than a
// quoted string: `<tag>...anything...</tag>` captures everything between
// the opening and the matching closing tag as one literal string value,
// letting a template carry markup that would otherwise need pervasive
// escaping. It is reduced to a VCM string node exactly like a quoted
// string value (spec.md §4.5 "value := ... | string | ...").

// enterTemplate reads the opening tag name directly (this tokenizer has
// no attribute support inside a template's opening tag; the original
// source's EJSON_TEMPLATE states likewise carry no attribute states) and
// switches to raw-text capture once the tag is closed by '>'.
func (t *Tokenizer) enterTemplate(s Scalar) {
	t.name.Reset()
	for {
		sc := t.reader.Next()
		if sc.Rune == EOF {
			t.reportError(ErrBadJSON, t.ejsonStart)
			t.abortEJSON(sc.Pos)
			return
		}
		if sc.Rune == '>' {
			break
		}
		t.name.WriteRune(toLowerAscii(sc.Rune))
	}
	t.templateTagName = t.name.String()
	t.name.Reset()
	t.buf.Reset()
	t.state = StateTemplateData
}

func (t *Tokenizer) stateTemplateData(s Scalar) {
	switch s.Rune {
	case '<':
		t.state = StateTemplateDataLessThanSign
	case EOF:
		t.reportError(ErrEOFInString, t.ejsonStart)
		t.abortEJSON(s.Pos)
	default:
		t.buf.AppendRune(s.Rune)
	}
}

func (t *Tokenizer) stateTemplateDataLessThanSign(s Scalar) {
	if s.Rune == '/' {
		t.name.Reset()
		t.state = StateTemplateDataEndTagOpen
		return
	}
	t.buf.AppendRune('<')
	t.reconsume(s, StateTemplateData)
}

func (t *Tokenizer) stateTemplateDataEndTagOpen(s Scalar) {
	if isAsciiAlpha(s.Rune) {
		t.name.WriteRune(toLowerAscii(s.Rune))
		t.state = StateTemplateDataEndTagName
		return
	}
	t.buf.Append([]byte("</"), '/')
	t.reconsume(s, StateTemplateData)
}

// stateTemplateDataEndTagName closes template capture the moment the
// accumulated end-tag name matches the opening tag, followed by '>'; any
// other end tag is just more template text.
func (t *Tokenizer) stateTemplateDataEndTagName(s Scalar) {
	switch {
	case isAsciiAlpha(s.Rune) || isAsciiDigit(s.Rune) || s.Rune == '-':
		t.name.WriteRune(toLowerAscii(s.Rune))
	case s.Rune == '>' && t.name.String() == t.templateTagName:
		t.state = StateTemplateFinished
		t.finishTemplateValue(s)
	default:
		t.buf.Append([]byte("</"), '/')
		for _, r := range t.name.String() {
			t.buf.AppendRune(r)
		}
		t.name.Reset()
		t.reconsume(s, StateTemplateData)
	}
}

func (t *Tokenizer) finishTemplateValue(term Scalar) {
	v := t.builder.String(t.buf.String())
	t.buf.Reset()
	t.name.Reset()
	t.templateTagName = ""
	t.placeValue(v)
}

// stateTemplateFinished is a defensive landing pad: finishTemplateValue
// already transitions state via placeValue, so this is never actually
// reached with the current control flow.
func (t *Tokenizer) stateTemplateFinished(s Scalar) {
	t.reconsume(s, t.state)
}
