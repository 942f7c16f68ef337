package main

import (
	"os"

	"github.com/olekukonko/tablewriter"

	parquet "github.com/columnhouse/parquet-lite"
)

// maxCatRows bounds the output of the cat command.
const maxCatRows = 1000

type catFlags struct {
	_ struct{} `help:"Dump the rows of the provided parquet file to stdout"`
}

func catCommand(flags catFlags, path string) {
	f, closeFile, err := openFile(path)
	if err != nil {
		perrorf("could not open file: %s", err)
		return
	}
	defer closeFile()

	columns := f.Columns()
	header := make([]string, len(columns))
	cells := make([][]parquet.Value, len(columns))

	for i, col := range columns {
		header[i] = col.Name()
		for rg := 0; rg < f.NumRowGroups(); rg++ {
			cr, err := f.NewColumnReader(rg, col)
			if err != nil {
				perrorf("could not read column %q: %s", col.Name(), err)
				return
			}
			values, err := cr.ReadAll()
			if err != nil {
				perrorf("could not read column %q: %s", col.Name(), err)
				return
			}
			cells[i] = append(cells[i], values...)
			if len(cells[i]) >= maxCatRows {
				cells[i] = cells[i][:maxCatRows]
				break
			}
		}
	}

	numRows := 0
	for _, c := range cells {
		if len(c) > numRows {
			numRows = len(c)
		}
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	row := make([]string, len(columns))
	for r := 0; r < numRows; r++ {
		for i := range columns {
			if r < len(cells[i]) {
				row[i] = cells[i][r].String()
			} else {
				row[i] = ""
			}
		}
		table.Append(row)
	}
	table.Render()
}
