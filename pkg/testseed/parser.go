package testseed

import (
	"fmt"

	"seshade/pkg/ast"
)

// Parse lexes and parses src into a single root ast.Node, following
// the program-shape convention: a sequence of statements (assignments,
// each terminated by ';', or if/else statements, which take no ';')
// optionally followed by one trailing value expression with no
// terminating ';'. A program
// with no preceding statements is just that expression; one with no
// trailing expression is a bare statement list.
func Parse(src string) (ast.Node, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	root, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, fmt.Errorf("testseed: unexpected trailing input at offset %d", p.cur().pos)
	}
	return root, nil
}

func tokenize(src string) ([]token, error) {
	l := newLexer(src)
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			break
		}
	}
	return toks, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) atEOF() bool { return p.cur().kind == tokEOF }

func (p *parser) advance() token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	if p.cur().kind != k {
		return token{}, fmt.Errorf("testseed: expected %s at offset %d", what, p.cur().pos)
	}
	return p.advance(), nil
}

// parseProgram parses a statement list, returning:
//   - the trailing expression directly, if there are no preceding statements;
//   - ast.NewBlock(effects, trailing), if there is a trailing expression
//     and one or more preceding statements;
//   - ast.NewDefault(stmts...), if there is no trailing expression.
func (p *parser) parseProgram() (ast.Node, error) {
	var stmts []ast.Node
	for !p.atEOF() && p.cur().kind != tokRBrace {
		if p.isStatementStart() {
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
			continue
		}
		// What remains must be the trailing value expression.
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return p.wrapProgram(stmts, value), nil
	}
	return p.wrapProgram(stmts, nil), nil
}

func (p *parser) wrapProgram(stmts []ast.Node, trailing ast.Node) ast.Node {
	if trailing == nil {
		return ast.NewDefault(stmts...)
	}
	if len(stmts) == 0 {
		return trailing
	}
	var effects ast.Node
	if len(stmts) == 1 {
		effects = stmts[0]
	} else {
		effects = ast.NewDefault(stmts...)
	}
	return ast.NewBlock(effects, trailing)
}

// isStatementStart reports whether the parser is positioned at the
// start of an assignment or an if/else statement, as opposed to the
// start of the program's trailing value expression.
func (p *parser) isStatementStart() bool {
	switch p.cur().kind {
	case tokIf:
		return true
	case tokVar:
		return p.pos+1 < len(p.toks) && p.toks[p.pos+1].kind == tokAssign
	default:
		return false
	}
}

func (p *parser) parseStatement() (ast.Node, error) {
	switch p.cur().kind {
	case tokIf:
		return p.parseIf()
	case tokVar:
		return p.parseAssign()
	default:
		return nil, fmt.Errorf("testseed: expected statement at offset %d", p.cur().pos)
	}
}

func (p *parser) parseAssign() (ast.Node, error) {
	name := p.advance().text // tokVar
	if _, err := p.expect(tokAssign, "'='"); err != nil {
		return nil, err
	}
	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSemi, "';'"); err != nil {
		return nil, err
	}
	return ast.NewAssign(name, rhs), nil
}

func (p *parser) parseIf() (ast.Node, error) {
	p.advance() // 'if'
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	then, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokElse, "'else'"); err != nil {
		return nil, err
	}
	els, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	return ast.NewIf(cond, then, els), nil
}

func (p *parser) parseBlockBody() (ast.Node, error) {
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}
	body, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return nil, err
	}
	return body, nil
}

// Operator precedence, loosest to tightest:
//
//	ternary  ?:
//	||
//	&&
//	== !=
//	< > <= >=
//	+ -
//	* / %
//	unary - ! ~
//	^         (right-associative)
//	postfix   [index]  call(...)
//	primary   number, string, $var, (expr), [a,b,c], ident(...)
func (p *parser) parseExpr() (ast.Node, error) {
	return p.parseTernary()
}

func (p *parser) parseTernary() (ast.Node, error) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.cur().kind != tokQuestion {
		return cond, nil
	}
	p.advance()
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon, "':'"); err != nil {
		return nil, err
	}
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewTernary(cond, then, els), nil
}

func (p *parser) parseOr() (ast.Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokOrOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.NewOr(left, right)
	}
	return left, nil
}

func (p *parser) parseAnd() (ast.Node, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokAndAnd {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = ast.NewAnd(left, right)
	}
	return left, nil
}

func (p *parser) parseEquality() (ast.Node, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.CompareOp
		switch p.cur().kind {
		case tokEq:
			op = ast.Eq
		case tokNe:
			op = ast.Ne
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = ast.NewCompare(op, left, right)
	}
}

func (p *parser) parseRelational() (ast.Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.CompareOp
		switch p.cur().kind {
		case tokLt:
			op = ast.Lt
		case tokGt:
			op = ast.Gt
		case tokLe:
			op = ast.Le
		case tokGe:
			op = ast.Ge
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = ast.NewCompare(op, left, right)
	}
}

func (p *parser) parseAdditive() (ast.Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.ArithOp
		switch p.cur().kind {
		case tokPlus:
			op = ast.Add
		case tokMinus:
			op = ast.Sub
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = ast.NewArith(op, left, right)
	}
}

func (p *parser) parseMultiplicative() (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.ArithOp
		switch p.cur().kind {
		case tokStar:
			op = ast.Mul
		case tokSlash:
			op = ast.Div
		case tokPercent:
			op = ast.Mod
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.NewArith(op, left, right)
	}
}

func (p *parser) parseUnary() (ast.Node, error) {
	switch p.cur().kind {
	case tokMinus:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(ast.Negate, operand), nil
	case tokBang:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(ast.Not, operand), nil
	case tokTilde:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(ast.Invert, operand), nil
	default:
		return p.parsePow()
	}
}

func (p *parser) parsePow() (ast.Node, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if p.cur().kind == tokCaret {
		p.advance()
		right, err := p.parseUnary() // right-associative
		if err != nil {
			return nil, err
		}
		return ast.NewArith(ast.Pow, left, right), nil
	}
	return left, nil
}

func (p *parser) parsePostfix() (ast.Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokLBracket {
		p.advance()
		idx, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRBracket, "']'"); err != nil {
			return nil, err
		}
		node = ast.NewSubscript(node, idx)
	}
	return node, nil
}

func (p *parser) parsePrimary() (ast.Node, error) {
	tok := p.cur()
	switch tok.kind {
	case tokNumber:
		p.advance()
		return ast.NewNumberLiteral(tok.num), nil
	case tokString:
		p.advance()
		return ast.NewStringLiteral(tok.text), nil
	case tokVar:
		p.advance()
		return ast.NewVarRef(tok.text), nil
	case tokLParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	case tokLBracket:
		return p.parseVectorLiteral()
	case tokIdent:
		return p.parseCall()
	default:
		return nil, fmt.Errorf("testseed: unexpected token at offset %d", tok.pos)
	}
}

func (p *parser) parseVectorLiteral() (ast.Node, error) {
	p.advance() // '['
	var elems []ast.Node
	for p.cur().kind != tokRBracket {
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		if p.cur().kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(tokRBracket, "']'"); err != nil {
		return nil, err
	}
	return ast.NewVector(elems...), nil
}

func (p *parser) parseCall() (ast.Node, error) {
	name := p.advance().text // identifier
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	var args []ast.Node
	for p.cur().kind != tokRParen {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur().kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return ast.NewCall(name, args...), nil
}
