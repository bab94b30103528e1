package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/v0rts/openvas-scanner/internal/lexer"
	"github.com/v0rts/openvas-scanner/internal/token"
)

var (
	evalExpr   string
	showSpan   bool
	onlyErrors bool
	comments   bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a NASL file or expression",
	Long: `Tokenize (lex) a NASL script and print the resulting tokens.

Malformed literals surface as error tokens in the stream rather than
aborting the scan.

Examples:
  # Tokenize a script file
  nasl lex script.nasl

  # Tokenize an inline expression
  nasl lex -e "a = 0x2A;"

  # Show only error tokens
  nasl lex --only-errors script.nasl`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showSpan, "show-span", false, "show token byte spans")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only error tokens")
	lexCmd.Flags().BoolVar(&comments, "comments", false, "keep comment tokens in the stream")
}

func lexScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readInput(evalExpr, args)
	if err != nil {
		return err
	}
	log.WithField("file", filename).Debugf("tokenizing %d bytes", len(input))

	var opts []lexer.Option
	if comments {
		opts = append(opts, lexer.WithPreserveComments(true))
	}
	l := lexer.New(input, opts...)

	errorCount := 0
	for {
		tok := l.Next()
		if tok.Category == token.EOF {
			break
		}
		if tok.Category.IsFaulty() {
			errorCount++
		} else if onlyErrors {
			continue
		}
		printToken(l, tok)
	}

	if errorCount > 0 {
		return fmt.Errorf("found %d error token(s)", errorCount)
	}
	return nil
}

func printToken(l *lexer.Lexer, tok token.Token) {
	output := fmt.Sprintf("[%-14s] %q", tok.Category, l.Lookup(tok.Span))
	if showSpan {
		output += fmt.Sprintf(" @%s", tok.Span)
	}
	fmt.Println(output)
}
