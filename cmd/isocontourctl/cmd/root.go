package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "isocontourctl",
	Short: "extract isolines from scalar grids",
	Long: `isocontourctl reads a scalar grid, extracts contour segments at a
set of levels, assembles them into polylines, and writes the result as
GeoJSON. It can run as a single full-grid pass or tile by tile through
the tiled builder; in both modes the whole grid is read into memory first.`,
}

// Execute adds all child commands to the root command and runs it. This
// is called by main.main; it only needs to happen once.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
