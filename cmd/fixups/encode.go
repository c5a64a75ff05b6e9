package fixups

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/Manu343726/escarabajo/pkg/hw/avr/mc/fixups"
	"github.com/Manu343726/escarabajo/pkg/utils"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	colorKind     = color.New(color.FgYellow)
	colorValue    = color.New(color.FgWhite, color.Bold)
	colorHex      = color.New(color.FgMagenta)
	colorDeferred = color.New(color.FgCyan, color.Bold)
)

var encodeCmd = &cobra.Command{
	Use:   "encode kind value",
	Short: "Resolve a fixup and show the patched instruction bytes",
	Long: `Runs one fixup through the full resolution pipeline: range validation, value
adjustment and in-place patching of a zeroed instruction buffer.

The value may be decimal, hex (0x...) or octal (0...). Branch and call fixups
are always deferred to the object writer, so for those the tool reports the
relocation instead of patched bytes.

Supported kinds:
` + strings.Join(utils.Map(fixups.Kinds.AllKinds(), func(kind fixups.Kind) string { return "  " + fixups.Kinds.Name(kind) }), "\n"),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := fixups.Kinds.ParseKind(args[0])
		if err != nil {
			return err
		}

		value, err := strconv.ParseInt(args[1], 0, 64)
		if err != nil {
			return fmt.Errorf("invalid fixup value '%v': %w", args[1], err)
		}

		offsetFlag, _ := cmd.Flags().GetInt("offset")
		offset, err := safecast.Convert[uint](offsetFlag)
		if err != nil {
			return fmt.Errorf("invalid --offset: %w", err)
		}

		temporary, _ := cmd.Flags().GetBool("temporary")
		bufferSize, _ := cmd.Flags().GetInt("buffer-size")

		descriptor := fixups.Kinds.Descriptor(kind)

		slog.Debug("resolving fixup",
			"kind", descriptor.Name,
			"value", value,
			"offset", offset,
			"temporary", temporary)

		resolution, err := fixups.Resolve(fixups.Request{
			Kind:            kind,
			ByteOffset:      offset,
			Value:           value,
			TemporaryTarget: temporary,
			Loc:             fixups.SourceLocation{File: "<command line>"},
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		colorKind.Fprintf(out, "%v\n", descriptor.Name)

		if resolution.Deferred {
			colorDeferred.Fprint(out, "deferred")
			fmt.Fprintf(out, ": the value depends on final layout, a relocation with addend %v is emitted at byte offset %v instead\n", value, offset)
			return nil
		}

		if minSize := int(offset + descriptor.TotalBytes()); bufferSize < minSize {
			bufferSize = minSize
		}

		data := make([]byte, bufferSize)
		if err := fixups.Apply(descriptor, uint64(resolution.Value), data, offset); err != nil {
			return err
		}

		totalBits := utils.Bits(int(descriptor.TotalBytes()))

		fmt.Fprint(out, "adjusted value: ")
		colorValue.Fprint(out, utils.FormatUintBinary(uint64(resolution.Value), totalBits))
		fmt.Fprintf(out, " (%v)\n", utils.FormatUintHex(uint64(resolution.Value), totalBits/4))

		fmt.Fprint(out, "patched bytes:  ")
		for i, b := range data {
			if i > 0 {
				fmt.Fprint(out, " ")
			}
			colorHex.Fprintf(out, "%02x", b)
		}
		fmt.Fprintln(out)

		return nil
	},
}

func init() {
	FixupsCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().Int("offset", 0, "Byte offset of the patched instruction within the buffer")
	encodeCmd.Flags().Int("buffer-size", 0, "Size of the instruction buffer. Grown automatically if the fixup does not fit.")
	encodeCmd.Flags().Bool("temporary", false, "Treat the target as a compiler generated temporary label")
}
