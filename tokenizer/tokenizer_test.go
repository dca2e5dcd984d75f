package tokenizer

import "strings"

// collectSink gathers every token and parse error emitted during a test
// run, so assertions can compare the whole captured sequence at once
// rather than call-by-call.
type collectSink struct {
	tokens []Token
	errors []ParseError
}

func (s *collectSink) OnToken(tok Token) { s.tokens = append(s.tokens, tok) }
func (s *collectSink) OnParseError(kind ErrorKind, pos Position) {
	s.errors = append(s.errors, ParseError{Kind: kind, Pos: pos})
}

func (s *collectSink) kinds() []Kind {
	out := make([]Kind, len(s.tokens))
	for i, tok := range s.tokens {
		out[i] = tok.Kind
	}
	return out
}

func runSource(src string) *collectSink {
	sink := &collectSink{}
	tk := New(strings.NewReader(src), sink)
	tk.Run()
	return sink
}
