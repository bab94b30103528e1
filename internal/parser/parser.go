// Package parser implements the Pratt (top-down operator precedence)
// parser that turns a token stream into the ast.Statement tree: prefix,
// infix, and postfix dispatch tables keyed by token category, plus
// keyword handlers for the statement forms that aren't expressions.
package parser

import (
	"github.com/v0rts/openvas-scanner/internal/ast"
	"github.com/v0rts/openvas-scanner/internal/lexer"
	"github.com/v0rts/openvas-scanner/internal/nerrors"
	"github.com/v0rts/openvas-scanner/internal/token"
)

// Binding powers, highest binds tightest. Named Precedence rather than a
// bare int so the table below reads the same as the specification's.
type Precedence int

const (
	LOWEST     Precedence = 0
	ASSIGN     Precedence = 1
	LOGICALOR  Precedence = 3
	LOGICALAND Precedence = 5
	COMPARE    Precedence = 7
	BITOR      Precedence = 9
	BITXOR     Precedence = 10
	BITAND     Precedence = 11
	SHIFT      Precedence = 13
	ADDITIVE   Precedence = 15
	MULT       Precedence = 17
	POWER      Precedence = 19
	UNARY      Precedence = 21
	REPEAT     Precedence = 23
	POSTFIX    Precedence = 25
)

var precedences = map[token.Category]Precedence{
	token.PIPEPIPE:                      LOGICALOR,
	token.AMPERSANDAMPERSAND:             LOGICALAND,
	token.EQUALEQUAL:                     COMPARE,
	token.BANGEQUAL:                      COMPARE,
	token.LESS:                           COMPARE,
	token.LESSEQUAL:                      COMPARE,
	token.GREATER:                        COMPARE,
	token.GREATEREQUAL:                   COMPARE,
	token.EQUALTILDE:                     COMPARE,
	token.BANGTILDE:                      COMPARE,
	token.GREATERLESS:                    COMPARE,
	token.GREATERBANGLESS:                COMPARE,
	token.PIPE:                           BITOR,
	token.CARET:                          BITXOR,
	token.AMPERSAND:                      BITAND,
	token.LESSLESS:                       SHIFT,
	token.GREATERGREATER:                 SHIFT,
	token.GREATERGREATERGREATER:          SHIFT,
	token.PLUS:                           ADDITIVE,
	token.MINUS:                          ADDITIVE,
	token.STAR:                           MULT,
	token.SLASH:                          MULT,
	token.PERCENT:                        MULT,
	token.STARSTAR:                       POWER,
	token.X:                              REPEAT,
	token.EQUAL:                          ASSIGN,
	token.PLUSEQUAL:                      ASSIGN,
	token.MINUSEQUAL:                     ASSIGN,
	token.STAREQUAL:                      ASSIGN,
	token.SLASHEQUAL:                     ASSIGN,
	token.PERCENTEQUAL:                   ASSIGN,
	token.LESSLESSEQUAL:                  ASSIGN,
	token.GREATERGREATEREQUAL:            ASSIGN,
	token.GREATERGREATERGREATEREQUAL:     ASSIGN,
	token.PLUSPLUS:                       POSTFIX,
	token.MINUSMINUS:                     POSTFIX,
}

func isAssignOp(cat token.Category) bool {
	switch cat {
	case token.EQUAL, token.PLUSEQUAL, token.MINUSEQUAL, token.STAREQUAL, token.SLASHEQUAL,
		token.PERCENTEQUAL, token.LESSLESSEQUAL, token.GREATERGREATEREQUAL, token.GREATERGREATERGREATEREQUAL:
		return true
	default:
		return false
	}
}

// Parser consumes tokens from a lexer two at a time (current + lookahead)
// and builds Statement nodes, recovering from a bad statement by skipping
// to the next `;` or `}` rather than aborting the whole parse.
type Parser struct {
	lex *lexer.Lexer

	cur  token.Token
	peek token.Token

	errors []*nerrors.SyntaxError
}

// New returns a Parser reading from lex.
func New(lex *lexer.Lexer) *Parser {
	p := &Parser{lex: lex}
	p.advance()
	p.advance()
	return p
}

// Errors returns every syntax error accumulated so far, in source order.
func (p *Parser) Errors() []*nerrors.SyntaxError { return p.errors }

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

func (p *Parser) addError(err *nerrors.SyntaxError) {
	p.errors = append(p.errors, err)
}

func (p *Parser) lookup(t token.Token) string {
	return p.lex.Lookup(t.Span)
}

func (p *Parser) precedenceOf(cat token.Category) Precedence {
	if pr, ok := precedences[cat]; ok {
		return pr
	}
	return LOWEST
}

// atEnd reports whether the parser has reached the end of input.
func (p *Parser) atEnd() bool {
	return p.cur.Category == token.EOF
}

// Next returns the next top-level Statement, or ast.EoF once the token
// stream is exhausted. Errors in a malformed statement are recorded via
// Errors; the statement comes back with NoOp in place of the parts that
// failed (or as a NoOp when nothing parsed). A missing expected token
// resynchronizes at the next `;` or `}`; a statement that consumed
// nothing has its offending token skipped.
func (p *Parser) Next() ast.Statement {
	if p.atEnd() {
		return ast.NewEoF(p.cur.Span)
	}
	start := p.cur
	stmt := p.parseStatement()
	if p.cur == start && p.cur.Category != token.SEMICOLON && !p.atEnd() {
		// The statement consumed nothing (a stray terminator); skip the
		// offending token so the stream keeps moving.
		p.addError(nerrors.NewUnexpectedToken(p.cur.Span, p.cur.Category))
		p.advance()
	}
	if p.cur.Category == token.SEMICOLON {
		p.advance()
	}
	if stmt == nil {
		return ast.NewNoOp(start.Span, nil)
	}
	return stmt
}

// All drains the parser into a slice, for callers (tests, the CLI) that
// would rather have the whole program than pull statements one at a time.
func (p *Parser) All() []ast.Statement {
	var out []ast.Statement
	for {
		stmt := p.Next()
		if _, ok := stmt.(ast.EoF); ok {
			return out
		}
		out = append(out, stmt)
	}
}

// synchronize discards tokens until a statement boundary, so one bad
// statement doesn't prevent parsing the rest of the script.
func (p *Parser) synchronize() {
	for !p.atEnd() {
		if p.cur.Category == token.SEMICOLON {
			p.advance()
			return
		}
		if p.cur.Category == token.RIGHTCURLY {
			return
		}
		p.advance()
	}
}
