package cmd

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/arl/isocontour/grid"
)

// readGridCSV reads a rectangular grid of float64 samples from a CSV
// file, one row per line. A cell holding the literal string "NaN" (case
// insensitive) becomes a no-data sample, per spec §2's grid contract.
func readGridCSV(path string) (grid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return grid.Grid{}, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return grid.Grid{}, err
	}

	values := make([][]float64, len(records))
	for i, row := range records {
		values[i] = make([]float64, len(row))
		for j, cell := range row {
			cell = strings.TrimSpace(cell)
			if strings.EqualFold(cell, "nan") {
				values[i][j] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return grid.Grid{}, fmt.Errorf("row %d, col %d: %w", i, j, err)
			}
			values[i][j] = v
		}
	}
	return grid.NewChecked(values)
}

func parseLevels(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid level %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func check(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
