package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"steamdocs/internal/openapi"
)

type exportFlags struct {
	output string
	format string
	title  string
}

func newExportCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog in other formats",
	}
	cmd.AddCommand(newExportOpenAPICmd(root))
	return cmd
}

func newExportOpenAPICmd(root *rootFlags) *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Write the catalog as an OpenAPI 3 document",
		Long: `Describe every catalog method as an OpenAPI 3 operation. Paths are
/<Interface>/<Method>/v<N>/ and every parameter is a query parameter.
Publisher-only methods keep their visibility in an extension field.`,
		Example: `  steamdocs export openapi --catalog ./api.json -o steam.openapi.yaml
  steamdocs export openapi --catalog ./api.json --format json > steam.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExportOpenAPI(cmd, root, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&flags.format, "format", "", "json or yaml (default: from the output extension, else yaml)")
	cmd.Flags().StringVar(&flags.title, "title", "", "Document title (default: product_title)")
	return cmd
}

func runExportOpenAPI(cmd *cobra.Command, root *rootFlags, flags *exportFlags) error {
	format, err := exportFormat(flags.format, flags.output)
	if err != nil {
		return err
	}

	e, err := openEnv(cmd, root, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	title := flags.title
	if title == "" {
		title = e.cfg.ProductTitle
	}
	doc := openapi.FromCatalog(e.sess.Catalog(), title, openapi.Hosts{
		Public:  e.cfg.PublicHost,
		Partner: e.cfg.PartnerHost,
	})
	if err := doc.Validate(commandContext(cmd)); err != nil {
		e.logger.Warn().Err(err).Msg("exported document does not validate")
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode openapi document: %w", err)
	}
	if format == "yaml" {
		if data, err = jsonToYAML(data); err != nil {
			return fmt.Errorf("encode openapi document: %w", err)
		}
	} else {
		data = append(data, '\n')
	}

	if flags.output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(flags.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", flags.output, err)
	}
	e.logger.Info().
		Str("file", flags.output).
		Int("paths", doc.Paths.Len()).
		Msg("openapi document written")
	return nil
}

func exportFormat(explicit, output string) (string, error) {
	switch strings.ToLower(explicit) {
	case "json", "yaml":
		return strings.ToLower(explicit), nil
	case "yml":
		return "yaml", nil
	case "":
	default:
		return "", fmt.Errorf("unknown export format %q (want json or yaml)", explicit)
	}
	if strings.EqualFold(filepath.Ext(output), ".json") {
		return "json", nil
	}
	return "yaml", nil
}

// jsonToYAML re-encodes data as block-style YAML with key order intact.
func jsonToYAML(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	blockStyle(&node)
	return yaml.Marshal(&node)
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
