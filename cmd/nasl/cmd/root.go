// Package cmd wires the nasl CLI: lex, parse, run, feed and scan-config
// subcommands over the language front-end.
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "nasl",
	Short: "NASL tokenizer, parser and interpreter",
	Long: `nasl is a toolchain for the NASL vulnerability-test scripting language.

It covers the full path from source text to evaluated values:
  - a tokenizer with in-band error tokens
  - a Pratt parser producing a statement tree
  - a tree-walking interpreter with the dynamic NASL value model
  - a feed transpiler collecting description-block metadata`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

// readInput resolves the shared file-or-inline-code convention used by
// lex, parse and run.
func readInput(inline string, args []string) (code, filename string, err error) {
	if inline != "" {
		return inline, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e flag for inline code")
}
