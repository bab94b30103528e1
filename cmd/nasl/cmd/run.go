package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/v0rts/openvas-scanner/internal/builtin"
	"github.com/v0rts/openvas-scanner/internal/interp"
	"github.com/v0rts/openvas-scanner/internal/lexer"
	"github.com/v0rts/openvas-scanner/internal/loader"
	"github.com/v0rts/openvas-scanner/internal/parser"
	"github.com/v0rts/openvas-scanner/internal/register"
	"github.com/v0rts/openvas-scanner/internal/sink"
	"github.com/v0rts/openvas-scanner/internal/value"
)

var (
	runDescription bool
	includeRoot    string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Evaluate a NASL file or expression",
	Long: `Evaluate a NASL script and print the value each top-level statement
yields.

Only the description-block built-ins (script_oid, script_tag, display and
friends) are available; the scan built-in packs are external.

Examples:
  # Run a script
  nasl run script.nasl

  # Run inline code
  nasl run -e "a = 1 + 2; a;"

  # Run the description block the way the feed transpiler would
  nasl run --description script.nasl`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "run inline code instead of reading from file")
	runCmd.Flags().BoolVar(&runDescription, "description", false, "run with description=1 set, as the feed transpiler does")
	runCmd.Flags().StringVar(&includeRoot, "include-root", "", "directory include() keys resolve against (defaults to the script's directory)")
}

func runScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readInput(evalExpr, args)
	if err != nil {
		return err
	}

	root := includeRoot
	if root == "" && filename != "<eval>" {
		root = filepath.Dir(filename)
	}
	var ld loader.Loader = loader.NoOp{}
	if root != "" {
		ld = loader.NewFilesystem(root)
	}
	log.WithField("file", filename).WithField("include_root", root).Debug("running")

	initial := map[string]value.Value{}
	if runDescription {
		initial["description"] = value.Num(1)
	}

	mem := sink.NewMemory()
	key := mem.ResolveKey(filename)
	reg := register.New(initial)
	disp := builtin.DescriptionBuiltins(key, mem)

	p := parser.New(lexer.New(input))
	stmts := p.All()
	for _, perr := range p.Errors() {
		log.Warn(perr.Error())
	}

	it := interp.New(input, key, reg, mem, ld, disp)
	results, err := it.RunAll(cmd.Context(), stmts)
	for _, v := range results {
		fmt.Println(v.String())
	}
	if err != nil {
		return fmt.Errorf("interpretation failed: %w", err)
	}
	return nil
}
