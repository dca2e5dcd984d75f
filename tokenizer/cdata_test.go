package tokenizer

import "testing"

func TestCDATASectionEmitsCharacterText(t *testing.T) {
	sink := runSource("<![CDATA[a<b>c]]>")
	if len(sink.errors) != 0 {
		t.Errorf("unexpected parse errors: %v", sink.errors)
	}
	if got := characterText(sink); got != "a<b>c" {
		t.Errorf("got %q, want %q", got, "a<b>c")
	}
}

func TestCDATASectionWithEmbeddedBrackets(t *testing.T) {
	sink := runSource("<![CDATA[x]y]]>")
	if got := characterText(sink); got != "x]y" {
		t.Errorf("got %q, want %q", got, "x]y")
	}
}

func TestCDATASectionWithRunOfBrackets(t *testing.T) {
	sink := runSource("<![CDATA[a]]]>")
	if got := characterText(sink); got != "a]" {
		t.Errorf("got %q, want %q", got, "a]")
	}
}

func TestCDATASectionFollowedByMoreText(t *testing.T) {
	sink := runSource("<![CDATA[hi]]>after")
	if got := characterText(sink); got != "hiafter" {
		t.Errorf("got %q, want %q", got, "hiafter")
	}
}
