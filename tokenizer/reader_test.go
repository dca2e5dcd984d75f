package tokenizer

import (
	"strings"
	"testing"
)

func collectScalars(src string) []Scalar {
	r := NewReader(strings.NewReader(src))
	var out []Scalar
	for {
		sc := r.Next()
		out = append(out, sc)
		if sc.Rune == EOF {
			return out
		}
	}
}

func TestReaderBasicASCII(t *testing.T) {
	scalars := collectScalars("ab")
	if len(scalars) != 3 {
		t.Fatalf("got %d scalars, want 3 (a, b, EOF)", len(scalars))
	}
	if scalars[0].Rune != 'a' || scalars[1].Rune != 'b' || scalars[2].Rune != EOF {
		t.Errorf("got %v, want [a b EOF]", scalars)
	}
	if scalars[0].Pos.Line != 1 || scalars[0].Pos.Col != 1 {
		t.Errorf("got start position %+v, want line 1 col 1", scalars[0].Pos)
	}
	if scalars[1].Pos.Col != 2 {
		t.Errorf("got second scalar column %d, want 2", scalars[1].Pos.Col)
	}
}

func TestReaderEOFIsSticky(t *testing.T) {
	r := NewReader(strings.NewReader("a"))
	r.Next()
	first := r.Next()
	second := r.Next()
	if first.Rune != EOF || second.Rune != EOF {
		t.Errorf("expected EOF to repeat, got %v then %v", first, second)
	}
}

func TestReaderFoldsCRLF(t *testing.T) {
	scalars := collectScalars("a\r\nb")
	var runes []rune
	for _, sc := range scalars {
		if sc.Rune != EOF {
			runes = append(runes, sc.Rune)
		}
	}
	if string(runes) != "a\nb" {
		t.Errorf("got %q, want %q (CRLF folded to LF)", string(runes), "a\nb")
	}
}

func TestReaderFoldsLoneCR(t *testing.T) {
	scalars := collectScalars("a\rb")
	var runes []rune
	for _, sc := range scalars {
		if sc.Rune != EOF {
			runes = append(runes, sc.Rune)
		}
	}
	if string(runes) != "a\nb" {
		t.Errorf("got %q, want %q (lone CR folded to LF)", string(runes), "a\nb")
	}
}

func TestReaderLineAdvancesOnNewline(t *testing.T) {
	scalars := collectScalars("a\nb")
	// scalars: a(line1,col1) \n(line1,col2... reported before increment) b(line2,col1) EOF
	b := scalars[2]
	if b.Rune != 'b' {
		t.Fatalf("unexpected scalar at index 2: %v", b)
	}
	if b.Pos.Line != 2 || b.Pos.Col != 1 {
		t.Errorf("got position %+v for 'b', want line 2 col 1", b.Pos)
	}
}

func TestReaderBadEncodingReportsReplacementChar(t *testing.T) {
	var badPositions []Position
	r := NewReader(strings.NewReader("a\xffb"))
	r.OnBadEncoding(func(pos Position) { badPositions = append(badPositions, pos) })

	var runes []rune
	for {
		sc := r.Next()
		if sc.Rune == EOF {
			break
		}
		runes = append(runes, sc.Rune)
	}
	if len(badPositions) != 1 {
		t.Fatalf("got %d bad-encoding callbacks, want 1", len(badPositions))
	}
	if len(runes) != 3 || runes[1] != replacementChar {
		t.Errorf("got runes %v, want [a, RuneError, b]", runes)
	}
}

func TestReaderPushBackTwiceErrors(t *testing.T) {
	r := NewReader(strings.NewReader("ab"))
	sc := r.Next()
	if err := r.PushBack(sc); err != nil {
		t.Fatalf("unexpected error on first push back: %s", err)
	}
	if err := r.PushBack(sc); err != ErrBadPushback {
		t.Errorf("got %v, want ErrBadPushback", err)
	}
}
