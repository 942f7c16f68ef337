package main

import (
	"fmt"
	"os"
)

type schemaFlags struct {
	_ struct{} `help:"Print the schema of the provided parquet file"`
}

func schemaCommand(flags schemaFlags, path string) {
	f, closeFile, err := openFile(path)
	if err != nil {
		perrorf("could not open file: %s", err)
		return
	}
	defer closeFile()

	fmt.Fprint(os.Stdout, f.SchemaString())
}
