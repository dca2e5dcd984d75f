package vcm

import "testing"

func TestBuilderScalars(t *testing.T) {
	b := NewBuilder()

	if n := b.Undefined(); n.Kind != KindUndefined {
		t.Errorf("got %+v, want KindUndefined", n)
	}
	if n := b.Null(); n.Kind != KindNull {
		t.Errorf("got %+v, want KindNull", n)
	}
	if n := b.Boolean(true); n.Kind != KindBoolean || !n.Bool {
		t.Errorf("got %+v, want true boolean", n)
	}
	if n := b.Number(3, WidthI64); n.Kind != KindNumber || n.Number != 3 || n.Width != WidthI64 {
		t.Errorf("got %+v, want number 3 width I64", n)
	}
	if n := b.LongDouble(1.5); n.Kind != KindLongDouble || n.Width != WidthLongDouble {
		t.Errorf("got %+v, want long double 1.5", n)
	}
	if n := b.String("hi"); n.Kind != KindString || n.Text != "hi" {
		t.Errorf("got %+v, want string \"hi\"", n)
	}
	if n := b.ByteSequence([]byte{1, 2}); n.Kind != KindByteSequence || len(n.Bytes) != 2 {
		t.Errorf("got %+v, want a 2-byte sequence", n)
	}
	if n := b.Variable("a.b"); n.Kind != KindVariable || n.Text != "a.b" {
		t.Errorf("got %+v, want variable \"a.b\"", n)
	}
}

func TestObjectPutPreservesInsertionOrder(t *testing.T) {
	b := NewBuilder()
	obj := b.Object()
	obj.Put("z", b.Number(1, WidthDefault))
	obj.Put("a", b.Number(2, WidthDefault))

	if len(obj.Keys) != 2 || obj.Keys[0] != "z" || obj.Keys[1] != "a" {
		t.Errorf("got keys %v, want [z a] (insertion order, not sorted)", obj.Keys)
	}
	if obj.Values[0].Number != 1 || obj.Values[1].Number != 2 {
		t.Errorf("got values %v %v, want 1 and 2", obj.Values[0], obj.Values[1])
	}
}

func TestArrayAppend(t *testing.T) {
	b := NewBuilder()
	arr := b.Array()
	if arr.Kind != KindArray || arr.Separator != SepComma {
		t.Fatalf("got %+v, want a comma-separated array", arr)
	}
	arr.Append(b.Number(1, WidthDefault))
	arr.Append(b.Number(2, WidthDefault))
	if len(arr.Elements) != 2 {
		t.Errorf("got %d elements, want 2", len(arr.Elements))
	}
}

func TestGroupSeparatorSelectsKind(t *testing.T) {
	b := NewBuilder()
	comma := b.Group(SepComma)
	if comma.Kind != KindArray {
		t.Errorf("got kind %v, want KindArray for a comma group", comma.Kind)
	}
	semi := b.Group(SepSemicolon)
	if semi.Kind != KindCJSONEE {
		t.Errorf("got kind %v, want KindCJSONEE for a semicolon group", semi.Kind)
	}
}
