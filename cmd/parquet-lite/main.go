// Command parquet-lite inspects parquet files: schema, page index, and row
// content for the supported subset of the format.
package main

import (
	"fmt"
	"os"
	"strings"

	color "github.com/logrusorgru/aurora/v3"
	"github.com/segmentio/cli"

	parquet "github.com/columnhouse/parquet-lite"
)

func main() {
	cli.Exec(cli.CommandSet{
		"schema": cli.Command(schemaCommand),
		"pages":  cli.Command(pagesCommand),
		"cat":    cli.Command(catCommand),
	})
}

func perrorf(format string, args ...interface{}) {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	_, _ = fmt.Fprintf(os.Stderr, color.Red(format).String(), args...)
}

func openFile(path string) (*parquet.File, func(), error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	f, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	return f, func() { _ = file.Close() }, nil
}
