package rush

import "fmt"

// TokenKind identifies the lexical category of a Token.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokInt
	TokFloat
	TokString
	TokRegex
	TokIdent
	TokTrue
	TokFalse
	TokNil
	TokInf
	TokNaN

	// operators and punctuation
	TokPlus
	TokMinus
	TokStar
	TokSlash
	TokPercent
	TokPow
	TokAmp
	TokDollar
	TokAndAnd
	TokOrOr
	TokBang
	TokQuestion
	TokColon
	TokEq
	TokNe
	TokLt
	TokLe
	TokGt
	TokGe
	TokAt
	TokAssign
	TokLParen
	TokRParen
	TokLBracket
	TokRBracket
	TokLBrace
	TokRBrace
	TokComma
	TokPipe
)

// reservedWords may not be used as identifiers, per the grammar. "true" and
// "false" lex as boolean literals before this check is reached; the rest
// are set aside for possible future constructs and are not otherwise
// recognized by this grammar.
var reservedWords = map[string]bool{
	"const": true, "do": true, "else": true, "false": true,
	"for": true, "if": true, "let": true, "true": true, "while": true,
}

// Token is a single lexical unit together with its source position (a byte
// offset into the original input) and, for literal tokens, its decoded
// value.
type Token struct {
	Kind TokenKind
	Pos  int
	Text string // original source text of the token

	// decoded literal payloads, valid only for the matching Kind
	IntVal    int64
	FloatVal  float64
	StringVal string
}

func (t Token) String() string {
	if t.Text != "" {
		return fmt.Sprintf("%s(%q)@%d", t.kindName(), t.Text, t.Pos)
	}
	return fmt.Sprintf("%s@%d", t.kindName(), t.Pos)
}

func (t Token) kindName() string {
	switch t.Kind {
	case TokEOF:
		return "EOF"
	case TokInt:
		return "INT"
	case TokFloat:
		return "FLOAT"
	case TokString:
		return "STRING"
	case TokRegex:
		return "REGEX"
	case TokIdent:
		return "IDENT"
	default:
		return "TOKEN"
	}
}
