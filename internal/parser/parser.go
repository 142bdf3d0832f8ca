// Package parser turns uploaded employee tables into model input.
package parser

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	"github.com/salary-predictor/backend/internal/models"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrNoRows          = errors.New("file has a header but no data rows")
	ErrMissingColumns  = errors.New("missing required columns")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrExtraColumns    = errors.New("unexpected columns")
	ErrTooManyRows     = errors.New("too many rows")
	ErrInvalidNumber   = errors.New("invalid number")
	ErrMalformed       = errors.New("malformed csv")
	ErrInvalidEncoding = errors.New("file is not valid UTF-8")
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// BatchParser reads a table of employee records.
type BatchParser interface {
	Parse(r io.Reader) (*models.BatchTable, error)
}

// Options control how strictly an upload is checked against the schema.
type Options struct {
	Schema models.Schema
	// RejectExtraColumns fails uploads that carry columns outside the schema.
	// When false they are kept in the output and ignored by the model.
	RejectExtraColumns bool
	// MaxRows caps the number of data rows. Zero means unlimited.
	MaxRows int
}

// DefaultOptions returns lenient options over the employee schema.
func DefaultOptions() Options {
	return Options{Schema: models.EmployeeSchema()}
}

// input wraps an upload after decompression and BOM stripping.
type input struct {
	io.Reader
	gz *gzip.Reader
}

func (in *input) Close() error {
	if in.gz != nil {
		return in.gz.Close()
	}
	return nil
}

// OpenInput prepares a raw upload for CSV reading. Gzip streams are detected by
// their magic bytes and decompressed; a leading UTF-8 or UTF-16 BOM is consumed.
// Bytes that are not valid UTF-8 make reads fail with encoding.ErrInvalidUTF8
// instead of being replaced, so the download always matches the upload.
func OpenInput(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	in := &input{}

	src := io.Reader(br)
	magic, _ := br.Peek(2)
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		in.gz = gz
		src = gz
	}

	// The UTF-8 BOM is dropped here because BOMOverride would decode what follows
	// it leniently.
	text := bufio.NewReader(src)
	if bom, _ := text.Peek(len(utf8BOM)); bytes.Equal(bom, utf8BOM) {
		_, _ = text.Discard(len(utf8BOM))
	}

	in.Reader = transform.NewReader(text, transform.Chain(unicode.BOMOverride(transform.Nop), encoding.UTF8Validator))
	return in, nil
}
