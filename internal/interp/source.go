package interp

import (
	"github.com/v0rts/openvas-scanner/internal/ast"
	"github.com/v0rts/openvas-scanner/internal/lexer"
	"github.com/v0rts/openvas-scanner/internal/nerrors"
	"github.com/v0rts/openvas-scanner/internal/parser"
)

// parseAll tokenizes and parses src in one go, as `include` needs the
// whole file before merging it into the running register.
func parseAll(src string) ([]ast.Statement, []*nerrors.SyntaxError) {
	p := parser.New(lexer.New(src))
	stmts := p.All()
	return stmts, p.Errors()
}

// newDecodeLexer returns a lexer positioned for span lookups over src;
// the interpreter only ever uses it to decode token payloads, never to
// scan.
func newDecodeLexer(src string) *lexer.Lexer {
	return lexer.New(src)
}
