package parser

import (
	"github.com/v0rts/openvas-scanner/internal/ast"
	"github.com/v0rts/openvas-scanner/internal/nerrors"
	"github.com/v0rts/openvas-scanner/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	if p.cur.Category == token.LEFTCURLY {
		return p.parseBlock()
	}
	if p.cur.Category == token.SEMICOLON {
		t := p.cur
		return ast.NewNoOp(t.Span, &t)
	}
	if p.cur.Category == token.IDENTIFIER {
		switch {
		case p.cur.Ident.Is(token.If):
			return p.parseIf()
		case p.cur.Ident.Is(token.For):
			return p.parseFor()
		case p.cur.Ident.Is(token.ForEach):
			return p.parseForEach()
		case p.cur.Ident.Is(token.While):
			return p.parseWhile()
		case p.cur.Ident.Is(token.Repeat):
			return p.parseRepeat()
		case p.cur.Ident.Is(token.Function):
			return p.parseFunctionDeclaration()
		case p.cur.Ident.Is(token.Return):
			return p.parseReturn()
		case p.cur.Ident.Is(token.Include):
			return p.parseInclude()
		case p.cur.Ident.Is(token.ExitKeyword):
			return p.parseExit()
		case p.cur.Ident.Is(token.LocalVar):
			return p.parseDeclare(ast.ScopeLocal)
		case p.cur.Ident.Is(token.GlobalVar):
			return p.parseDeclare(ast.ScopeGlobal)
		case p.cur.Ident.Is(token.BreakKeyword):
			span := p.cur.Span
			p.advance()
			return ast.NewBreak(span)
		case p.cur.Ident.Is(token.Continue):
			span := p.cur.Span
			p.advance()
			return ast.NewContinue(span)
		case p.cur.Ident.Is(token.Else), p.cur.Ident.Is(token.Until):
			// A dangling else/until has no statement of its own.
			p.addError(nerrors.NewUnexpectedToken(p.cur.Span, p.cur.Category))
			span := p.cur.Span
			p.advance()
			return ast.NewNoOp(span, nil)
		}
	}
	return p.parseExpression(LOWEST)
}

func (p *Parser) expect(cat token.Category) bool {
	if p.cur.Category == cat {
		p.advance()
		return true
	}
	p.addError(nerrors.NewUnexpectedToken(p.cur.Span, p.cur.Category))
	p.synchronize()
	return false
}

func (p *Parser) parseBlock() ast.Statement {
	start := p.cur.Span
	p.advance() // consume '{'
	var stmts []ast.Statement
	for p.cur.Category != token.RIGHTCURLY && !p.atEnd() {
		before := p.cur
		stmt := p.parseStatement()
		if p.cur == before && p.cur.Category != token.SEMICOLON {
			p.addError(nerrors.NewUnexpectedToken(p.cur.Span, p.cur.Category))
			p.advance()
			continue
		}
		if p.cur.Category == token.SEMICOLON {
			p.advance()
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	end := p.cur.Span
	if p.cur.Category == token.RIGHTCURLY {
		p.advance()
	}
	return ast.NewBlock(spanBetween(start, end), stmts)
}

func (p *Parser) parseParenCondition() ast.Statement {
	p.expect(token.LEFTPAREN)
	cond := p.parseExpression(LOWEST)
	p.expect(token.RIGHTPAREN)
	return cond
}

func (p *Parser) parseIf() ast.Statement {
	start := p.cur.Span
	p.advance() // 'if'
	cond := p.parseParenCondition()
	then := p.parseStatement()
	var els ast.Statement
	if p.cur.Category == token.SEMICOLON {
		p.advance()
	}
	if p.cur.Category == token.IDENTIFIER && p.cur.Ident.Is(token.Else) {
		p.advance()
		els = p.parseStatement()
	}
	return ast.NewIf(spanBetween(start, lastSpan(then, els)), cond, then, els)
}

func (p *Parser) parseFor() ast.Statement {
	start := p.cur.Span
	p.advance() // 'for'
	p.expect(token.LEFTPAREN)
	init := p.parseStatement()
	p.expect(token.SEMICOLON)
	cond := p.parseExpression(LOWEST)
	p.expect(token.SEMICOLON)
	update := p.parseStatement()
	p.expect(token.RIGHTPAREN)
	body := p.parseStatement()
	return ast.NewFor(spanBetween(start, body.Span()), init, cond, update, body)
}

func (p *Parser) parseWhile() ast.Statement {
	start := p.cur.Span
	p.advance() // 'while'
	cond := p.parseParenCondition()
	body := p.parseStatement()
	return ast.NewWhile(spanBetween(start, body.Span()), cond, body)
}

func (p *Parser) parseRepeat() ast.Statement {
	start := p.cur.Span
	p.advance() // 'repeat'
	body := p.parseStatement()
	if p.cur.Category == token.SEMICOLON {
		p.advance()
	}
	if !(p.cur.Category == token.IDENTIFIER && p.cur.Ident.Is(token.Until)) {
		p.addError(nerrors.NewUnexpectedToken(p.cur.Span, p.cur.Category))
		return ast.NewRepeat(spanBetween(start, body.Span()), body, nil)
	}
	p.advance() // 'until'
	cond := p.parseParenCondition()
	return ast.NewRepeat(spanBetween(start, cond.Span()), body, cond)
}

func (p *Parser) parseForEach() ast.Statement {
	start := p.cur.Span
	p.advance() // 'foreach'
	nameTok := p.cur
	p.expect(token.IDENTIFIER)
	p.expect(token.LEFTPAREN)
	iter := p.parseExpression(LOWEST)
	p.expect(token.RIGHTPAREN)
	body := p.parseStatement()
	return ast.NewForEach(spanBetween(start, body.Span()), nameTok, iter, body)
}

func (p *Parser) parseFunctionDeclaration() ast.Statement {
	start := p.cur.Span
	p.advance() // 'function'
	nameTok := p.cur
	p.expect(token.IDENTIFIER)
	p.expect(token.LEFTPAREN)
	var params []token.Token
	for p.cur.Category != token.RIGHTPAREN && !p.atEnd() {
		params = append(params, p.cur)
		if !p.expect(token.IDENTIFIER) {
			break
		}
		if p.cur.Category == token.COMMA {
			p.advance()
		}
	}
	p.expect(token.RIGHTPAREN)
	body := p.parseStatement()
	return ast.NewFunctionDeclaration(spanBetween(start, body.Span()), nameTok, params, body)
}

func (p *Parser) parseReturn() ast.Statement {
	start := p.cur.Span
	p.advance() // 'return'
	if p.cur.Category == token.SEMICOLON || p.atEnd() {
		return ast.NewReturn(start, nil)
	}
	val := p.parseExpression(LOWEST)
	return ast.NewReturn(spanBetween(start, val.Span()), val)
}

func (p *Parser) parseInclude() ast.Statement {
	start := p.cur.Span
	p.advance() // 'include'
	p.expect(token.LEFTPAREN)
	path := p.parseExpression(LOWEST)
	p.expect(token.RIGHTPAREN)
	return ast.NewInclude(spanBetween(start, path.Span()), path)
}

func (p *Parser) parseExit() ast.Statement {
	start := p.cur.Span
	p.advance() // 'exit'
	p.expect(token.LEFTPAREN)
	code := p.parseExpression(LOWEST)
	p.expect(token.RIGHTPAREN)
	return ast.NewExit(spanBetween(start, code.Span()), code)
}

func (p *Parser) parseDeclare(scope ast.DeclareScope) ast.Statement {
	start := p.cur.Span
	p.advance() // 'local_var' / 'global_var'
	var names []token.Token
	end := start
	for {
		names = append(names, p.cur)
		end = p.cur.Span
		if !p.expect(token.IDENTIFIER) {
			break
		}
		if p.cur.Category == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	return ast.NewDeclare(spanBetween(start, end), scope, names)
}

func spanBetween(a, b token.Span) token.Span {
	return token.Span{Start: a.Start, End: b.End}
}

func lastSpan(stmts ...ast.Statement) token.Span {
	var last token.Span
	for _, s := range stmts {
		if s != nil {
			last = s.Span()
		}
	}
	return last
}
