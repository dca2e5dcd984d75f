package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hvml-lang/tokenizer/tokenizer"
)

func TestTokenSummary(t *testing.T) {
	tests := []struct {
		name string
		tok  tokenizer.Token
		want string
	}{
		{
			name: "start tag",
			tok:  tokenizer.Token{Kind: tokenizer.KindStartTag, Name: "hvml"},
			want: "hvml",
		},
		{
			name: "comment",
			tok:  tokenizer.Token{Kind: tokenizer.KindComment, CommentData: "note"},
			want: "note",
		},
		{
			name: "character",
			tok:  tokenizer.Token{Kind: tokenizer.KindCharacter, Text: []byte("hi")},
			want: "hi",
		},
		{
			name: "eof has no summary",
			tok:  tokenizer.Token{Kind: tokenizer.KindEOF},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tokenSummary(tt.tok); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDumpSinkCountsParseErrors(t *testing.T) {
	var buf bytes.Buffer
	sink := &dumpSink{out: &buf, path: "in.hvml", runID: "run-1"}

	sink.OnParseError(tokenizer.ErrBadNumber, tokenizer.Position{Line: 1, Col: 2})
	sink.OnParseError(tokenizer.ErrBadJSON, tokenizer.Position{Line: 3, Col: 4})

	if sink.errorCount != 2 {
		t.Errorf("got error count %d, want 2", sink.errorCount)
	}
	out := buf.String()
	if !strings.Contains(out, "in.hvml") || !strings.Contains(out, "bad-number") {
		t.Errorf("expected output to mention path and error kind, got %q", out)
	}
}

func TestDumpSinkOnTokenWritesLine(t *testing.T) {
	var buf bytes.Buffer
	sink := &dumpSink{out: &buf}

	sink.OnToken(tokenizer.Token{
		Kind:  tokenizer.KindStartTag,
		Name:  "div",
		Start: tokenizer.Position{Line: 1, Col: 1},
		End:   tokenizer.Position{Line: 1, Col: 5},
	})

	if !strings.Contains(buf.String(), "div") {
		t.Errorf("expected output to mention tag name, got %q", buf.String())
	}
}

func TestParseOptionsReturnsFlagsAndFiles(t *testing.T) {
	// parseOptions calls os.Exit on missing files; only the flag-parsing
	// path that returns normally is exercised directly here.
	opts, rest := parseOptions([]string{"--dump-vcm", "a.hvml", "b.hvml"})
	if !opts.DumpVCM {
		t.Errorf("expected DumpVCM to be set")
	}
	if len(rest) != 2 || rest[0] != "a.hvml" || rest[1] != "b.hvml" {
		t.Errorf("got positional args %v, want [a.hvml b.hvml]", rest)
	}
}
