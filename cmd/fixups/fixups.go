package fixups

import (
	"github.com/spf13/cobra"
)

// fixupsCmd represents the fixups command
var FixupsCmd = &cobra.Command{
	Use:   "fixups",
	Short: "Inspect and exercise the AVR fixup encoders",
}

func init() {
}
