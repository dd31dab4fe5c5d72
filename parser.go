package rush

import (
	"math"

	"github.com/dekarrin/rush/internal/rsherr"
)

// parser walks a flat token stream with a cursor, implementing the
// precedence-climbing grammar described by the lexer/syntax component:
// assignment > functional > joint (conditional|lambda|curried_op) >
// logical > comparison (non-chained) > additive > multiplic > power >
// unary > trailered > atom.
type parser struct {
	toks []Token
}

// Parse turns expression text into an evaluable AST, or a parse error.
func Parse(text string) (Node, error) {
	toks, err := newLexer(text).Tokenize()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.at(TokEOF) {
		return nil, rsherr.Newf(rsherr.Parse, "excess input after expression at position %d: %q", p.peek().Pos, p.peek().Text)
	}
	return node, nil
}

func (p *parser) peek() Token { return p.toks[0] }

func (p *parser) at(k TokenKind) bool { return p.toks[0].Kind == k }

func (p *parser) advance() Token {
	t := p.toks[0]
	if len(p.toks) > 1 {
		p.toks = p.toks[1:]
	}
	return t
}

func (p *parser) expect(k TokenKind, what string) (Token, error) {
	if !p.at(k) {
		return Token{}, p.unexpected(what)
	}
	return p.advance(), nil
}

func (p *parser) unexpected(what string) error {
	tok := p.peek()
	if tok.Kind == TokEOF {
		return rsherr.Newf(rsherr.Parse, "unexpected end of input: expected %s", what)
	}
	return rsherr.Newf(rsherr.Parse, "invalid syntax at position %d: expected %s, found %q", tok.Pos, what, tok.Text)
}

// checkpoint/restore let the joint production try the curried_op pattern
// and fall back to a normal parenthesized expression without a separate
// lookahead scanner.
type checkpoint []Token

func (p *parser) mark() checkpoint    { return checkpoint(p.toks) }
func (p *parser) restore(c checkpoint) { p.toks = []Token(c) }

func (p *parser) parseExpression() (Node, error) {
	return p.parseAssignment()
}

func (p *parser) parseAssignment() (Node, error) {
	first, err := p.parseFunctional()
	if err != nil {
		return nil, err
	}
	if !p.at(TokAssign) {
		return first, nil
	}
	var rest []opStep
	for p.at(TokAssign) {
		p.advance()
		rhs, err := p.parseFunctional()
		if err != nil {
			return nil, err
		}
		rest = append(rest, opStep{Op: OpAssign, Right: rhs})
	}
	return BinaryOpNode{Assoc: RightAssoc, First: first, Rest: rest}, nil
}

func (p *parser) parseFunctional() (Node, error) {
	first, err := p.parseJoint()
	if err != nil {
		return nil, err
	}
	var rest []opStep
	for p.at(TokAmp) || p.at(TokDollar) {
		op := OpCompose
		if p.at(TokDollar) {
			op = OpApply
		}
		p.advance()
		rhs, err := p.parseJoint()
		if err != nil {
			return nil, err
		}
		rest = append(rest, opStep{Op: op, Right: rhs})
	}
	if len(rest) == 0 {
		return first, nil
	}
	return BinaryOpNode{Assoc: LeftAssoc, First: first, Rest: rest}, nil
}

func (p *parser) parseJoint() (Node, error) {
	if p.at(TokPipe) {
		return p.parseLambda()
	}
	if p.at(TokLParen) {
		if node, ok := p.tryParseCurriedOp(); ok {
			return node, nil
		}
	}
	return p.parseConditional()
}

func (p *parser) parseLambda() (Node, error) {
	if _, err := p.expect(TokPipe, "'|'"); err != nil {
		return nil, err
	}
	var params []string
	first, err := p.expect(TokIdent, "parameter name")
	if err != nil {
		return nil, err
	}
	params = append(params, first.Text)
	for p.at(TokComma) {
		p.advance()
		tok, err := p.expect(TokIdent, "parameter name")
		if err != nil {
			return nil, err
		}
		params = append(params, tok.Text)
	}
	if _, err := p.expect(TokPipe, "closing '|'"); err != nil {
		return nil, err
	}
	body, err := p.parseJoint()
	if err != nil {
		return nil, err
	}
	return LambdaNode{Params: params, Body: body}, nil
}

// tryParseCurriedOp attempts '(' (atom binop | binop atom | binop) ')'.
// On any mismatch it restores the cursor and reports no match, rather than
// an error: the caller re-parses the same text as an ordinary parenthesized
// expression.
func (p *parser) tryParseCurriedOp() (Node, bool) {
	save := p.mark()

	p.advance() // consume '('
	if op, ok := binOpFromToken(p.peek().Kind); ok {
		p.advance()
		if p.at(TokRParen) {
			p.advance()
			return CurriedBinaryOpNode{Op: op}, true
		}
		if atomNode, aerr := p.parseAtom(); aerr == nil && p.at(TokRParen) {
			p.advance()
			return CurriedBinaryOpNode{Op: op, Right: atomNode}, true
		}
	}

	p.restore(save)
	p.advance() // consume '(' again
	if atomNode, aerr := p.parseAtom(); aerr == nil {
		if op, ok := binOpFromToken(p.peek().Kind); ok {
			afterAtom := p.mark()
			p.advance()
			if p.at(TokRParen) {
				p.advance()
				return CurriedBinaryOpNode{Op: op, Left: atomNode}, true
			}
			p.restore(afterAtom)
		}
	}

	p.restore(save)
	return nil, false
}

func binOpFromToken(k TokenKind) (BinaryOp, bool) {
	switch k {
	case TokPlus:
		return OpAdd, true
	case TokMinus:
		return OpSub, true
	case TokStar:
		return OpMul, true
	case TokSlash:
		return OpDiv, true
	case TokPercent:
		return OpMod, true
	case TokPow:
		return OpPow, true
	case TokLt:
		return OpLt, true
	case TokLe:
		return OpLe, true
	case TokGt:
		return OpGt, true
	case TokGe:
		return OpGe, true
	case TokEq:
		return OpEq, true
	case TokNe:
		return OpNe, true
	case TokAt:
		return OpIn, true
	case TokAndAnd:
		return OpAnd, true
	case TokOrOr:
		return OpOr, true
	default:
		return 0, false
	}
}

func (p *parser) parseConditional() (Node, error) {
	cond, err := p.parseLogical()
	if err != nil {
		return nil, err
	}
	if !p.at(TokQuestion) {
		return cond, nil
	}
	p.advance()
	then, err := p.parseLogical()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokColon, "':'"); err != nil {
		return nil, err
	}
	elseBranch, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	return ConditionalNode{Cond: cond, Then: then, Else: elseBranch}, nil
}

func (p *parser) parseLogical() (Node, error) {
	first, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	var rest []opStep
	for p.at(TokAndAnd) || p.at(TokOrOr) {
		op := OpAnd
		if p.at(TokOrOr) {
			op = OpOr
		}
		p.advance()
		rhs, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		rest = append(rest, opStep{Op: op, Right: rhs})
	}
	if len(rest) == 0 {
		return first, nil
	}
	return BinaryOpNode{Assoc: LeftAssoc, First: first, Rest: rest}, nil
}

var comparisonTokens = map[TokenKind]BinaryOp{
	TokLt: OpLt, TokLe: OpLe, TokGt: OpGt, TokGe: OpGe,
	TokEq: OpEq, TokNe: OpNe, TokAt: OpIn,
}

func (p *parser) parseComparison() (Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	op, ok := comparisonTokens[p.peek().Kind]
	if !ok {
		return left, nil
	}
	p.advance()
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return BinaryOpNode{Assoc: LeftAssoc, First: left, Rest: []opStep{{Op: op, Right: right}}}, nil
}

func (p *parser) parseAdditive() (Node, error) {
	first, err := p.parseMultiplic()
	if err != nil {
		return nil, err
	}
	var rest []opStep
	for p.at(TokPlus) || p.at(TokMinus) {
		op := OpAdd
		if p.at(TokMinus) {
			op = OpSub
		}
		p.advance()
		rhs, err := p.parseMultiplic()
		if err != nil {
			return nil, err
		}
		rest = append(rest, opStep{Op: op, Right: rhs})
	}
	if len(rest) == 0 {
		return first, nil
	}
	return BinaryOpNode{Assoc: LeftAssoc, First: first, Rest: rest}, nil
}

func (p *parser) parseMultiplic() (Node, error) {
	first, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	var rest []opStep
	for p.at(TokStar) || p.at(TokSlash) || p.at(TokPercent) {
		var op BinaryOp
		switch {
		case p.at(TokStar):
			op = OpMul
		case p.at(TokSlash):
			op = OpDiv
		default:
			op = OpMod
		}
		p.advance()
		rhs, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		rest = append(rest, opStep{Op: op, Right: rhs})
	}
	if len(rest) == 0 {
		return first, nil
	}
	return BinaryOpNode{Assoc: LeftAssoc, First: first, Rest: rest}, nil
}

func (p *parser) parsePower() (Node, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	var rest []opStep
	for p.at(TokPow) {
		p.advance()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		rest = append(rest, opStep{Op: OpPow, Right: rhs})
	}
	if len(rest) == 0 {
		return first, nil
	}
	return BinaryOpNode{Assoc: LeftAssoc, First: first, Rest: rest}, nil
}

func (p *parser) parseUnary() (Node, error) {
	var op UnaryOp
	switch {
	case p.at(TokPlus):
		op = OpPos
	case p.at(TokMinus):
		op = OpNeg
	case p.at(TokBang):
		op = OpNot
	default:
		return p.parseTrailered()
	}
	p.advance()
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return UnaryOpNode{Op: op, Operand: operand}, nil
}

func (p *parser) parseTrailered() (Node, error) {
	node, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at(TokLBracket):
			p.advance()
			idx, err := p.parseIndex()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokRBracket, "']'"); err != nil {
				return nil, err
			}
			node = SubscriptNode{Target: node, Index: idx}
		case p.at(TokLParen):
			p.advance()
			var args []Node
			if !p.at(TokRParen) {
				for {
					arg, err := p.parseExpression()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if !p.at(TokComma) {
						break
					}
					p.advance()
				}
			}
			if _, err := p.expect(TokRParen, "')'"); err != nil {
				return nil, err
			}
			node = FunctionCallNode{Callee: node, Args: args}
		default:
			return node, nil
		}
	}
}

func (p *parser) parseIndex() (IndexExpr, error) {
	if p.at(TokColon) {
		p.advance()
		if p.at(TokRBracket) {
			return IndexExpr{IsRange: true}, nil
		}
		high, err := p.parseExpression()
		if err != nil {
			return IndexExpr{}, err
		}
		return IndexExpr{IsRange: true, RangeHigh: high}, nil
	}
	first, err := p.parseExpression()
	if err != nil {
		return IndexExpr{}, err
	}
	if !p.at(TokColon) {
		return IndexExpr{Point: first}, nil
	}
	p.advance()
	if p.at(TokRBracket) {
		return IndexExpr{IsRange: true, RangeLow: first}, nil
	}
	high, err := p.parseExpression()
	if err != nil {
		return IndexExpr{}, err
	}
	return IndexExpr{IsRange: true, RangeLow: first, RangeHigh: high}, nil
}

func (p *parser) parseAtom() (Node, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokNil:
		p.advance()
		return ScalarNode{Value: EmptyValue}, nil
	case TokTrue:
		p.advance()
		return ScalarNode{Value: BoolValue(true)}, nil
	case TokFalse:
		p.advance()
		return ScalarNode{Value: BoolValue(false)}, nil
	case TokInf:
		p.advance()
		return ScalarNode{Value: FloatValue(math.Inf(1))}, nil
	case TokNaN:
		p.advance()
		return ScalarNode{Value: FloatValue(math.NaN())}, nil
	case TokInt:
		p.advance()
		return ScalarNode{Value: IntValue(tok.IntVal)}, nil
	case TokFloat:
		p.advance()
		return ScalarNode{Value: FloatValue(tok.FloatVal)}, nil
	case TokString:
		p.advance()
		return ScalarNode{Value: StringValue(tok.StringVal)}, nil
	case TokRegex:
		p.advance()
		re, err := compileRegex(tok.StringVal)
		if err != nil {
			return nil, err
		}
		return ScalarNode{Value: RegexValue(re, tok.StringVal)}, nil
	case TokIdent:
		p.advance()
		return SymbolNode{Name: tok.Text}, nil
	case TokLBracket:
		return p.parseArrayLiteral()
	case TokLBrace:
		return p.parseObjectLiteral()
	case TokLParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, p.unexpected("an expression")
	}
}

func (p *parser) parseArrayLiteral() (Node, error) {
	p.advance() // consume '['
	var elems []Node
	if !p.at(TokRBracket) {
		for {
			el, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, el)
			if !p.at(TokComma) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(TokRBracket, "']'"); err != nil {
		return nil, err
	}
	return ArrayNode{Elems: elems}, nil
}

// parseObjectLiteral implements '{' key ':' expression (',' key ':'
// expression)* '}', where key is a bare identifier or a string literal,
// always taken as a literal key name rather than a symbol lookup.
func (p *parser) parseObjectLiteral() (Node, error) {
	p.advance() // consume '{'
	var entries []ObjectEntry
	if !p.at(TokRBrace) {
		for {
			var key Node
			switch {
			case p.at(TokIdent):
				key = ScalarNode{Value: StringValue(p.advance().Text)}
			case p.at(TokString):
				key = ScalarNode{Value: StringValue(p.advance().StringVal)}
			default:
				return nil, p.unexpected("an object key")
			}
			if _, err := p.expect(TokColon, "':'"); err != nil {
				return nil, err
			}
			val, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			entries = append(entries, ObjectEntry{Key: key, Value: val})
			if !p.at(TokComma) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(TokRBrace, "'}'"); err != nil {
		return nil, err
	}
	return ObjectNode{Entries: entries}, nil
}
