package cmd

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

// scanConfig mirrors the legacy scan-config XML layout far enough to
// carry the script selection and preferences over to YAML.
type scanConfig struct {
	XMLName     xml.Name `xml:"config" yaml:"-"`
	Name        string   `xml:"name" yaml:"name"`
	Comment     string   `xml:"comment" yaml:"comment,omitempty"`
	NVTs        []struct {
		OID string `xml:"oid,attr" yaml:"oid"`
	} `xml:"nvt_selectors>nvt_selector>nvt" yaml:"scripts,omitempty"`
	Preferences []struct {
		Name  string `xml:"name" yaml:"name"`
		Value string `xml:"value" yaml:"value"`
	} `xml:"preferences>preference" yaml:"preferences,omitempty"`
}

var scanConfigCmd = &cobra.Command{
	Use:   "scan-config [file]",
	Short: "Convert a scan-config XML file to YAML",
	Long: `Convert a legacy scan-config XML document into the YAML shape the
feed tooling consumes.

Examples:
  nasl scan-config config.xml > config.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: convertScanConfig,
}

func init() {
	rootCmd.AddCommand(scanConfigCmd)
}

func convertScanConfig(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", args[0], err)
	}
	var cfg scanConfig
	if err := xml.Unmarshal(content, &cfg); err != nil {
		return fmt.Errorf("failed to parse scan config: %w", err)
	}
	log.WithField("name", cfg.Name).WithField("scripts", len(cfg.NVTs)).Debug("converted scan config")

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}
