// Command isocontourctl is a demo CLI around this module: extract and
// assemble isolines from a CSV-encoded scalar grid and write them out as
// GeoJSON, either in one full-grid pass or tile by tile.
package main

import "github.com/arl/isocontour/cmd/isocontourctl/cmd"

func main() {
	cmd.Execute()
}
