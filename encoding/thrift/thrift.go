// Package thrift implements the subset of the thrift compact protocol used
// by parquet file metadata and page headers.
package thrift

import "errors"

// Compact protocol type tags carried in field and list headers.
const (
	Stop         = 0x00
	BooleanTrue  = 0x01
	BooleanFalse = 0x02
	I8           = 0x03
	I16          = 0x04
	I32          = 0x05
	I64          = 0x06
	Double       = 0x07
	Binary       = 0x08
	List         = 0x09
	Set          = 0x0A
	Map          = 0x0B
	Struct       = 0x0C
)

// maxSkipDepth bounds the nesting of skipped values so a corrupted input
// cannot drive unbounded recursion.
const maxSkipDepth = 128

var (
	ErrSkipDepth   = errors.New("thrift: value nesting exceeds depth limit")
	ErrUnknownType = errors.New("thrift: unknown compact type")
)
