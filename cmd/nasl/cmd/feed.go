package cmd

import (
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/v0rts/openvas-scanner/internal/feed"
)

var feedWorkers int

var feedCmd = &cobra.Command{
	Use:   "feed [dir]",
	Short: "Transpile a feed directory into a YAML manifest",
	Long: `Run the description block of every .nasl script under a feed
directory and emit a YAML manifest of the collected metadata (oid, name,
category, family, dependencies, tags, references) on stdout.

Scripts are evaluated in parallel, one interpreter per script.

Examples:
  nasl feed /var/lib/openvas/plugins > manifest.yaml
  nasl feed --workers 4 ./feed`,
	Args: cobra.ExactArgs(1),
	RunE: transpileFeed,
}

func init() {
	rootCmd.AddCommand(feedCmd)

	feedCmd.Flags().IntVar(&feedWorkers, "workers", runtime.NumCPU(), "number of scripts to evaluate concurrently")
}

func transpileFeed(cmd *cobra.Command, args []string) error {
	t := feed.New(args[0], feedWorkers)
	log.WithField("root", args[0]).WithField("workers", feedWorkers).Debug("transpiling feed")

	manifest, err := t.Run(cmd.Context())
	if err != nil {
		return err
	}
	for _, entry := range manifest.Scripts {
		if entry.Error != "" {
			log.WithField("script", entry.Filename).Warn(entry.Error)
		}
	}
	return manifest.WriteYAML(os.Stdout)
}
