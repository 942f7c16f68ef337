package main

import (
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

type pagesFlags struct {
	_ struct{} `help:"List the data pages indexed in the provided parquet file"`
}

func pagesCommand(flags pagesFlags, path string) {
	f, closeFile, err := openFile(path)
	if err != nil {
		perrorf("could not open file: %s", err)
		return
	}
	defer closeFile()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"page", "row group", "column", "offset", "size"})
	for i, e := range f.PageIndex() {
		table.Append([]string{
			strconv.Itoa(i),
			strconv.Itoa(e.RowGroup),
			f.Columns()[e.Column].Name(),
			strconv.FormatInt(e.Offset, 10),
			strconv.FormatInt(e.Size, 10),
		})
	}
	table.Render()
}
