package parser

import (
	"github.com/v0rts/openvas-scanner/internal/ast"
	"github.com/v0rts/openvas-scanner/internal/nerrors"
	"github.com/v0rts/openvas-scanner/internal/token"
)

// parseExpression is the Pratt climbing loop: parse a prefix expression,
// then keep folding in infix/postfix operators as long as the next one
// binds tighter than minPrecedence.
func (p *Parser) parseExpression(minPrecedence Precedence) ast.Statement {
	left := p.parsePrefix()
	if left == nil {
		return ast.NewNoOp(p.cur.Span, nil)
	}
	for !p.atEnd() && p.precedenceOf(p.cur.Category) > minPrecedence {
		cat := p.cur.Category
		switch {
		case cat == token.PLUSPLUS || cat == token.MINUSMINUS:
			left = p.parsePostfix(left)
		case isAssignOp(cat):
			left = p.parseAssignInfix(left)
		default:
			left = p.parseInfix(left)
		}
	}
	return left
}

func (p *Parser) parsePrefix() ast.Statement {
	t := p.cur
	switch token.Classify(t) {
	case token.OpOperator:
		switch t.Category {
		case token.PLUS, token.MINUS, token.TILDE, token.BANG:
			p.advance()
			operand := p.parseExpression(UNARY)
			return ast.NewOperator(spanBetween(t.Span, operand.Span()), t.Category, []ast.Statement{operand})
		}
		p.addError(nerrors.NewUnexpectedToken(t.Span, t.Category))
		p.advance()
		return nil
	case token.OpAssign:
		switch t.Category {
		case token.PLUSPLUS, token.MINUSMINUS:
			p.advance()
			target := p.parsePrefix()
			return ast.NewAssign(spanBetween(t.Span, target.Span()), t.Category, ast.AssignReturn, target, ast.NewNoOp(t.Span, nil))
		}
		p.addError(nerrors.NewUnexpectedToken(t.Span, t.Category))
		p.advance()
		return nil
	case token.OpPrimitive:
		p.advance()
		return ast.NewPrimitive(t)
	case token.OpVariable:
		return p.parseVariableOrCall()
	case token.OpGrouping:
		switch t.Category {
		case token.LEFTPAREN:
			p.advance()
			inner := p.parseExpression(LOWEST)
			p.expect(token.RIGHTPAREN)
			return inner
		case token.LEFTCURLY:
			return p.parseBlock()
		default:
			// A terminator (`;`, `,`, `)`, `]`, `}`) in expression position
			// ends the expression; the enclosing construct consumes it.
			return ast.NewNoOp(t.Span, &t)
		}
	case token.OpKeyword:
		return p.parseStatement()
	case token.OpNoOp:
		return ast.NewNoOp(t.Span, &t)
	default:
		p.addError(nerrors.NewUnexpectedToken(t.Span, t.Category))
		p.advance()
		return nil
	}
}

// parseVariableOrCall handles the three Variable-class forms an
// identifier can take: `name`, `name[idx]`, and `name(args)`.
func (p *Parser) parseVariableOrCall() ast.Statement {
	nameTok := p.cur
	p.advance()
	switch p.cur.Category {
	case token.LEFTBRACE:
		p.advance()
		idx := p.parseExpression(LOWEST)
		end := p.cur.Span
		p.expect(token.RIGHTBRACE)
		return ast.NewArray(spanBetween(nameTok.Span, end), nameTok, idx)
	case token.LEFTPAREN:
		args := p.parseCallArguments()
		return ast.NewCall(spanBetween(nameTok.Span, args.Span()), nameTok, args)
	default:
		return ast.NewVariable(nameTok)
	}
}

// parseCallArguments parses `(a, b, name: c)` into a Parameter statement
// whose elements are plain expressions or NamedParameter nodes.
func (p *Parser) parseCallArguments() ast.Statement {
	start := p.cur.Span
	p.advance() // '('
	var elems []ast.Statement
	for p.cur.Category != token.RIGHTPAREN && !p.atEnd() {
		before := p.cur
		if p.cur.Category == token.IDENTIFIER && p.peek.Category == token.DOUBLEPOINT {
			nameTok := p.cur
			p.advance() // name
			p.advance() // ':'
			val := p.parseExpression(ASSIGN)
			elems = append(elems, ast.NewNamedParameter(spanBetween(nameTok.Span, val.Span()), nameTok, val))
		} else {
			elems = append(elems, p.parseExpression(ASSIGN))
		}
		if p.cur.Category == token.COMMA {
			p.advance()
		}
		if p.cur == before {
			p.addError(nerrors.NewUnexpectedToken(p.cur.Span, p.cur.Category))
			p.advance()
		}
	}
	end := p.cur.Span
	p.expect(token.RIGHTPAREN)
	return ast.NewParameter(spanBetween(start, end), elems)
}

func (p *Parser) parsePostfix(left ast.Statement) ast.Statement {
	op := p.cur
	p.advance()
	return ast.NewAssign(spanBetween(left.Span(), op.Span), op.Category, ast.ReturnAssign, left, ast.NewNoOp(op.Span, nil))
}

// parseAssignInfix handles `=` and the compound `OP=` forms. These are
// right-associative, so the right operand is parsed at the same
// precedence rather than one tighter, letting `a = b = c` chain.
func (p *Parser) parseAssignInfix(left ast.Statement) ast.Statement {
	op := p.cur
	p.advance()
	right := p.parseExpression(ASSIGN - 1)
	return ast.NewAssign(spanBetween(left.Span(), right.Span()), op.Category, ast.AssignReturn, left, right)
}

func (p *Parser) parseInfix(left ast.Statement) ast.Statement {
	op := p.cur
	prec := p.precedenceOf(op.Category)
	p.advance()
	right := p.parseExpression(prec)
	return ast.NewOperator(spanBetween(left.Span(), right.Span()), op.Category, []ast.Statement{left, right})
}
