package tokenizer

import (
	"strings"
	"testing"
)

func TestStartAndEndTag(t *testing.T) {
	sink := runSource("<div>text</div>")
	kinds := sink.kinds()
	want := []Kind{KindStartTag, KindCharacter, KindEndTag, KindEOF}
	if len(kinds) != len(want) {
		t.Fatalf("got kinds %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, kinds[i], want[i])
		}
	}
	if sink.tokens[0].Name != "div" {
		t.Errorf("got start tag name %q, want %q", sink.tokens[0].Name, "div")
	}
	if string(sink.tokens[1].Text) != "text" {
		t.Errorf("got character text %q, want %q", sink.tokens[1].Text, "text")
	}
	if sink.tokens[2].Name != "div" {
		t.Errorf("got end tag name %q, want %q", sink.tokens[2].Name, "div")
	}
}

func TestSelfClosingTag(t *testing.T) {
	sink := runSource("<br/>")
	if len(sink.tokens) != 2 {
		t.Fatalf("got %d tokens, want 2 (START_TAG, EOF)", len(sink.tokens))
	}
	tok := sink.tokens[0]
	if !tok.SelfClosing {
		t.Errorf("expected self-closing flag to be set")
	}
	if tok.Name != "br" {
		t.Errorf("got name %q, want %q", tok.Name, "br")
	}
}

func TestAttributesWithOperators(t *testing.T) {
	sink := runSource(`<div id="x" count+=5>`)
	tok := sink.tokens[0]
	if len(tok.Attributes) != 2 {
		t.Fatalf("got %d attributes, want 2", len(tok.Attributes))
	}
	id := tok.Attributes[0]
	if id.Name != "id" || id.Op != OpAssign {
		t.Errorf("got first attribute %+v, want name=id op=OpAssign", id)
	}
	if v, ok := id.Literal(); !ok || v != "x" {
		t.Errorf("got id literal %q (ok=%v), want \"x\"", v, ok)
	}
	count := tok.Attributes[1]
	if count.Name != "count" || count.Op != OpAdd {
		t.Errorf("got second attribute %+v, want name=count op=OpAdd", count)
	}
	if v, ok := count.Literal(); !ok || v != "5" {
		t.Errorf("got count literal %q (ok=%v), want \"5\"", v, ok)
	}
}

func TestDuplicateAttributeReportsErrorAndKeepsFirst(t *testing.T) {
	sink := runSource(`<div a="1" a="2">`)
	if len(sink.errors) != 1 || sink.errors[0].Kind != ErrDuplicateAttribute {
		t.Fatalf("got errors %v, want one ErrDuplicateAttribute", sink.errors)
	}
	tok := sink.tokens[0]
	if len(tok.Attributes) != 1 {
		t.Fatalf("got %d attributes, want 1 (first wins)", len(tok.Attributes))
	}
	if v, _ := tok.Attributes[0].Literal(); v != "1" {
		t.Errorf("got attribute value %q, want %q (first occurrence kept)", v, "1")
	}
}

func TestComment(t *testing.T) {
	sink := runSource("<!-- hello -->")
	if len(sink.tokens) != 2 || sink.tokens[0].Kind != KindComment {
		t.Fatalf("got tokens %v, want [COMMENT EOF]", sink.kinds())
	}
	if sink.tokens[0].CommentData != " hello " {
		t.Errorf("got comment data %q, want %q", sink.tokens[0].CommentData, " hello ")
	}
}

func TestBogusCommentOnMalformedDeclaration(t *testing.T) {
	sink := runSource("<!weird>after")
	if len(sink.errors) == 0 {
		t.Errorf("expected a parse error for the malformed declaration")
	}
	if sink.tokens[0].Kind != KindComment {
		t.Fatalf("got first token kind %s, want COMMENT (bogus comment)", sink.tokens[0].Kind)
	}
}

func TestFlushThresholdOverride(t *testing.T) {
	sink := &collectSink{}
	tk := New(strings.NewReader("abcde"), sink)
	tk.SetFlushThreshold(2)
	tk.Run()
	var charTokens int
	for _, tok := range sink.tokens {
		if tok.Kind == KindCharacter {
			charTokens++
		}
	}
	if charTokens < 2 {
		t.Errorf("expected the low flush threshold to split output into multiple CHARACTER tokens, got %d", charTokens)
	}
}
