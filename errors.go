package parquet

import "errors"

var (
	// ErrIO reports a failure of the underlying reader or writer.
	ErrIO = errors.New("parquet: io error")

	// ErrEnvelope reports a file that does not carry the parquet
	// magic/footer envelope, or whose footer length is inconsistent
	// with the file size.
	ErrEnvelope = errors.New("parquet: invalid file envelope")

	// ErrMalformedTagged reports metadata that could not be decoded
	// from the thrift compact protocol.
	ErrMalformedTagged = errors.New("parquet: malformed metadata")

	// ErrMalformedPayload reports page payload bytes that do not match
	// what their headers and the schema announce.
	ErrMalformedPayload = errors.New("parquet: malformed page payload")

	// ErrUnsupported reports a file feature outside the supported
	// subset, such as a compression codec or physical type this
	// package does not handle.
	ErrUnsupported = errors.New("parquet: unsupported feature")

	// ErrUsage reports an invalid call made by the application, such
	// as writing to a closed writer or iterating an invalid page range.
	ErrUsage = errors.New("parquet: invalid use")
)
