package rush

// RegexLiteralPool lexes text and returns the pattern text of every regex
// literal it contains, in source order. It performs no parsing beyond
// lexing, so it succeeds (and returns an empty slice) for expression text
// that has no regex literals at all, and fails only when the text doesn't
// even lex (e.g. an unterminated regex literal).
//
// This exists for drivers that want to validate or cache the "regex
// literal pool" of an expression -- the set of patterns that must compile
// -- without paying for a full parse, e.g. to warm a pattern cache across
// repeated invocations over the same expression text.
func RegexLiteralPool(text string) ([]string, error) {
	toks, err := newLexer(text).Tokenize()
	if err != nil {
		return nil, err
	}
	var pool []string
	for _, t := range toks {
		if t.Kind == TokRegex {
			pool = append(pool, t.StringVal)
		}
	}
	return pool, nil
}
