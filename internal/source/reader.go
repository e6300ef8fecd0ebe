package source

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// countingReader wraps an io.Reader to track bytes read.
// Used to report how much of a file was consumed.
type countingReader struct {
	reader    io.Reader
	BytesRead int64
}

// Read implements io.Reader.
func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}

// newTextReader strips a leading UTF-8 BOM, replaces invalid UTF-8
// sequences with U+FFFD and counts the bytes consumed from r.
//
// The order matters: counting sits beneath the decoder so BytesRead
// reflects the file size, not the decoded size.
func newTextReader(r io.Reader) (io.Reader, *countingReader) {
	counter := &countingReader{reader: r}
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return transform.NewReader(counter, decoder), counter
}
