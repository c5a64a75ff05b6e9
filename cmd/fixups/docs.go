package fixups

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Manu343726/escarabajo/pkg/hw/avr/mc/fixups"
	"github.com/Manu343726/escarabajo/pkg/utils"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Show the fixup kind catalog",
	Long: `Dumps the catalog of implemented fixup kinds with the bit layout of each one.
By default the tool dumps the documentation to stdout, but it can be redirected to a file using the --output flag.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			file, err := os.Create(outputFile)
			if err != nil {
				return err
			}
			defer file.Close()
			out = file
		}

		format, _ := cmd.Flags().GetString("format")

		switch format {
		case "text":
			return writeCatalogText(out)
		case "yaml":
			return writeCatalogYaml(out)
		default:
			return fmt.Errorf("unknown format '%v' (supported formats: text, yaml)", format)
		}
	},
}

func writeCatalogText(out io.Writer) error {
	for _, kind := range fixups.Kinds.AllKinds() {
		descriptor := fixups.Kinds.Descriptor(kind)

		header := descriptor.Name
		if descriptor.PCRelative {
			header += " (pc relative)"
		}

		frame, err := utils.AsciiFrame(
			[]utils.AsciiFrameField{
				{Name: "value", Begin: int(descriptor.BitOffset), Width: int(descriptor.BitWidth)},
			},
			utils.Bits(int(descriptor.TotalBytes())),
			"bits",
			utils.AsciiFrameUnitLayout_RightToLeft,
			2,
		)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintf(out, "%v\n%v\n%v\n", header, strings.Repeat("=", len(header)), frame); err != nil {
			return err
		}
	}

	return nil
}

func writeCatalogYaml(out io.Writer) error {
	catalog := utils.Map(fixups.Kinds.AllKinds(), func(kind fixups.Kind) *fixups.Descriptor {
		return fixups.Kinds.Descriptor(kind)
	})

	encoder := yaml.NewEncoder(out)
	defer encoder.Close()

	return encoder.Encode(catalog)
}

func init() {
	FixupsCmd.AddCommand(docsCmd)
	docsCmd.Flags().StringP("output", "o", "", "Output file. If not specified, the documentation is dumped to stdout.")
	docsCmd.Flags().StringP("format", "f", "text", "Output format (text, yaml)")
}
