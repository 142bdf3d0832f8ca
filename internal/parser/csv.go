package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/salary-predictor/backend/internal/models"
	"golang.org/x/text/encoding"
)

// CSVBatchParser reads employee tables from CSV.
// Columns are matched by header name, so their order in the file is free.
type CSVBatchParser struct {
	opts Options
}

func NewCSVBatchParser(opts Options) *CSVBatchParser {
	if len(opts.Schema) == 0 {
		opts.Schema = models.EmployeeSchema()
	}
	return &CSVBatchParser{opts: opts}
}

// layout maps schema columns to their position in the uploaded header.
type layout struct {
	header    []string
	positions map[string]int
	drop      int
}

func (p *CSVBatchParser) readHeader(raw []string) (*layout, error) {
	l := &layout{positions: make(map[string]int, len(p.opts.Schema)), drop: -1}

	seen := make(map[string]struct{}, len(raw))
	var extras []string
	for i, cell := range raw {
		name := strings.TrimSpace(cell)
		if name == models.PredictionColumn {
			// A previous result uploaded again; its labels are recomputed.
			if l.drop >= 0 {
				return nil, fmt.Errorf("%w %q", ErrDuplicateColumn, name)
			}
			l.drop = i
			continue
		}
		key := name
		if canon, ok := p.opts.Schema.Canonical(name); ok {
			key = canon
			l.positions[canon] = i
		} else {
			extras = append(extras, name)
		}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w %q", ErrDuplicateColumn, name)
		}
		seen[key] = struct{}{}
		l.header = append(l.header, name)
	}

	var missing []string
	for _, f := range p.opts.Schema {
		if _, ok := l.positions[f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	if p.opts.RejectExtraColumns && len(extras) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrExtraColumns, strings.Join(extras, ", "))
	}
	return l, nil
}

// Parse reads the whole upload. Any bad row fails the upload as a whole.
func (p *CSVBatchParser) Parse(r io.Reader) (*models.BatchTable, error) {
	in, err := OpenInput(r)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	reader := csv.NewReader(in)
	reader.TrimLeadingSpace = true

	raw, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, readError(reader, err)
	}

	l, err := p.readHeader(raw)
	if err != nil {
		return nil, err
	}

	table := &models.BatchTable{Header: l.header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, readError(reader, err)
		}
		if p.opts.MaxRows > 0 && table.Len() >= p.opts.MaxRows {
			return nil, fmt.Errorf("%w: limit is %d", ErrTooManyRows, p.opts.MaxRows)
		}

		features, err := p.features(reader, record, l)
		if err != nil {
			return nil, err
		}

		row := make([]string, 0, len(l.header))
		for i, cell := range record {
			if i != l.drop {
				row = append(row, cell)
			}
		}
		table.Rows = append(table.Rows, row)
		table.Features = append(table.Features, features)
	}

	if table.Len() == 0 {
		return nil, ErrNoRows
	}
	return table, nil
}

func readError(reader *csv.Reader, err error) error {
	if errors.Is(err, encoding.ErrInvalidUTF8) {
		return fmt.Errorf("%w: invalid byte sequence near offset %d", ErrInvalidEncoding, reader.InputOffset())
	}
	return fmt.Errorf("%w: %v", ErrMalformed, err)
}

func (p *CSVBatchParser) features(reader *csv.Reader, record []string, l *layout) (models.FeatureRow, error) {
	row := models.NewFeatureRow()
	for _, f := range p.opts.Schema {
		pos := l.positions[f.Name]
		cell := strings.TrimSpace(record[pos])
		if f.Kind == models.FieldKindCategorical {
			row.Categorical[f.Name] = cell
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			line, _ := reader.FieldPos(pos)
			return row, fmt.Errorf("line %d: %w %q in column %q", line, ErrInvalidNumber, cell, f.Name)
		}
		row.Numeric[f.Name] = v
	}
	return row, nil
}

// WriteCSV writes the table, including the prediction column once predicted.
func WriteCSV(w io.Writer, t *models.BatchTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return err
	}
	for i := 0; i < t.Len(); i++ {
		if err := cw.Write(t.Row(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeCSV renders the table to an in-memory CSV document.
func EncodeCSV(t *models.BatchTable) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
