package tokenizer

import (
	"github.com/hvml-lang/tokenizer/vcm"
	"testing"
)

func TestTemplateValueCapturesRawMarkup(t *testing.T) {
	root := vcmTree(t, runEJSON(`<pre><b>bold</b></pre>`))
	if root.Kind != vcm.KindString {
		t.Fatalf("got kind %v, want string", root.Kind)
	}
	if root.Text != "<b>bold</b>" {
		t.Errorf("got %q, want %q", root.Text, "<b>bold</b>")
	}
}

func TestTemplateValueIgnoresMismatchedEndTag(t *testing.T) {
	root := vcmTree(t, runEJSON(`<a>x</b>y</a>`))
	if root.Kind != vcm.KindString || root.Text != "x</b>y" {
		t.Errorf("got %+v, want string %q", root, "x</b>y")
	}
}

func TestTemplateValueAsArrayElement(t *testing.T) {
	root := vcmTree(t, runEJSON(`[<t>hi</t>, 1]`))
	if root.Kind != vcm.KindArray || len(root.Elements) != 2 {
		t.Fatalf("got %+v, want a 2-element array", root)
	}
	if root.Elements[0].Kind != vcm.KindString || root.Elements[0].Text != "hi" {
		t.Errorf("got first element %+v, want string \"hi\"", root.Elements[0])
	}
}
