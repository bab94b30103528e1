package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/v0rts/openvas-scanner/internal/lexer"
	"github.com/v0rts/openvas-scanner/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a NASL file or expression into its statement tree",
	Long: `Parse a NASL script and print one line per top-level statement.

Syntax errors are reported but do not stop the parse; the parser resumes
at the next statement boundary.

Examples:
  # Parse a script file
  nasl parse script.nasl

  # Parse an inline expression
  nasl parse -e "if (a > 2) b = 1; else b = 2;"`,
	Args: cobra.MaximumNArgs(1),
	RunE: parseScript,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "parse inline code instead of reading from file")
}

func parseScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readInput(evalExpr, args)
	if err != nil {
		return err
	}
	log.WithField("file", filename).Debug("parsing")

	p := parser.New(lexer.New(input))
	for _, stmt := range p.All() {
		fmt.Printf("%T %s\n", stmt, stmt.Span())
	}
	for _, perr := range p.Errors() {
		fmt.Println(perr.Error())
	}
	if len(p.Errors()) > 0 {
		return fmt.Errorf("found %d syntax error(s)", len(p.Errors()))
	}
	return nil
}
