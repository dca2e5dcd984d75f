package tokenizer

import (
	"strings"
	"testing"
)

func characterText(sink *collectSink) string {
	var out []byte
	for _, tok := range sink.tokens {
		if tok.Kind == KindCharacter {
			out = append(out, tok.Text...)
		}
	}
	return string(out)
}

func TestNamedCharacterReference(t *testing.T) {
	sink := runSource("a&amp;b")
	if got := characterText(sink); got != "a&b" {
		t.Errorf("got %q, want %q", got, "a&b")
	}
	if len(sink.errors) != 0 {
		t.Errorf("unexpected parse errors: %v", sink.errors)
	}
}

func TestNamedCharacterReferenceWithoutSemicolon(t *testing.T) {
	sink := runSource("a&ltb")
	if got := characterText(sink); got != "a<b" {
		t.Errorf("got %q, want %q", got, "a<b")
	}
	if len(sink.errors) != 1 || sink.errors[0].Kind != ErrMissingSemicolonAfterCharacterReference {
		t.Errorf("got errors %v, want one ErrMissingSemicolonAfterCharacterReference", sink.errors)
	}
}

func TestUnknownNamedReferenceFallsBackToLiteralText(t *testing.T) {
	sink := runSource("a&notarealname;b")
	if got := characterText(sink); got != "a&notarealname;b" {
		t.Errorf("got %q, want literal text preserved: %q", got, "a&notarealname;b")
	}
	if len(sink.errors) == 0 {
		t.Errorf("expected an unknown-named-character-reference error")
	}
}

func TestDecimalCharacterReference(t *testing.T) {
	sink := runSource("&#65;")
	if got := characterText(sink); got != "A" {
		t.Errorf("got %q, want %q", got, "A")
	}
}

func TestHexCharacterReference(t *testing.T) {
	sink := runSource("&#x41;")
	if got := characterText(sink); got != "A" {
		t.Errorf("got %q, want %q", got, "A")
	}
}

func TestNumericCharacterReferenceOutOfRange(t *testing.T) {
	sink := runSource("&#x110000;")
	if got := characterText(sink); got != string(replacementChar) {
		t.Errorf("got %q, want replacement character", got)
	}
	if len(sink.errors) != 1 || sink.errors[0].Kind != ErrBadNumber {
		t.Errorf("got errors %v, want one ErrBadNumber", sink.errors)
	}
}

func TestExtraNamedReferenceTakesPrecedence(t *testing.T) {
	sink := &collectSink{}
	tk := New(strings.NewReader("&amp;&custom;"), sink)
	tk.SetExtraNamedReferences(map[string]string{"custom;": "CUSTOM"})
	tk.Run()
	if got := characterText(sink); got != "&CUSTOM" {
		t.Errorf("got %q, want %q", got, "&CUSTOM")
	}
}
