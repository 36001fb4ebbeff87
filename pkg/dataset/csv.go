package dataset

import (
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Default column names of the product dataset the benchmark was built for.
const (
	DefaultIDColumn    = "Product_ID"
	DefaultValueColumn = "Product_Title"
)

// ErrMissingColumn indicates a required column is absent from the header.
var ErrMissingColumn = errors.New("missing column")

// CSVConfig configures how records are extracted from CSV rows.
type CSVConfig struct {
	// IDColumn is the header name of the identifier column.
	IDColumn string

	// ValueColumn is the header name of the payload column.
	ValueColumn string

	// NoHeader disables header resolution. IDCol and ValueCol are used instead.
	NoHeader bool

	// IDCol is the identifier column index when NoHeader is set.
	IDCol int

	// ValueCol is the payload column index when NoHeader is set.
	ValueCol int
}

// DefaultCSVConfig returns the configuration for the product dataset.
func DefaultCSVConfig() CSVConfig {
	return CSVConfig{
		IDColumn:    DefaultIDColumn,
		ValueColumn: DefaultValueColumn,
		ValueCol:    1,
	}
}

// csvReader reads records from CSV streams.
type csvReader struct {
	csvReader *csv.Reader
	cfg       CSVConfig
	idCol     int
	valueCol  int
	resolved  bool
	closers   []io.Closer
}

// NewCSVReader creates a CSV record reader from an io.Reader.
// The reader should provide the raw CSV data (already decompressed if needed).
func NewCSVReader(r io.Reader, cfg CSVConfig) Reader {
	return &csvReader{
		csvReader: newCSV(r),
		cfg:       cfg,
		idCol:     cfg.IDCol,
		valueCol:  cfg.ValueCol,
		resolved:  cfg.NoHeader,
	}
}

// NewCSVReaderFromStream creates a CSV record reader that owns rc.
// It handles gzip decompression based on the name's extension.
func NewCSVReaderFromStream(rc io.ReadCloser, name string, cfg CSVConfig) (Reader, error) {
	var reader io.Reader = rc
	closers := []io.Closer{rc}

	if strings.HasSuffix(strings.ToLower(name), ".gz") {
		gzr, err := gzip.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		closers = append(closers, gzr)
		reader = gzr
	}

	r := NewCSVReader(reader, cfg).(*csvReader)
	r.closers = closers
	return r, nil
}

func newCSV(r io.Reader) *csv.Reader {
	csvr := csv.NewReader(r)
	csvr.ReuseRecord = true
	csvr.FieldsPerRecord = -1
	csvr.LazyQuotes = true
	return csvr
}

// NormalizeColumn trims a header name and replaces inner spaces with
// underscores, so " Product ID" matches "Product_ID".
func NormalizeColumn(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}

func (r *csvReader) resolveHeader() error {
	header, err := r.csvReader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("read CSV header: %w", err)
	}

	// ID and value may name the same column.
	idName, valueName := NormalizeColumn(r.cfg.IDColumn), NormalizeColumn(r.cfg.ValueColumn)
	r.idCol, r.valueCol = -1, -1
	for i, name := range header {
		name = NormalizeColumn(name)
		if name == idName {
			r.idCol = i
		}
		if name == valueName {
			r.valueCol = i
		}
	}

	if r.idCol < 0 {
		return fmt.Errorf("%w: %q", ErrMissingColumn, r.cfg.IDColumn)
	}
	if r.valueCol < 0 {
		return fmt.Errorf("%w: %q", ErrMissingColumn, r.cfg.ValueColumn)
	}
	r.resolved = true
	return nil
}

// Next returns the next record.
func (r *csvReader) Next() (Record[string, string], error) {
	if !r.resolved {
		if err := r.resolveHeader(); err != nil {
			return Record[string, string]{}, err
		}
	}

	for {
		fields, err := r.csvReader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Record[string, string]{}, io.EOF
			}
			return Record[string, string]{}, fmt.Errorf("read CSV row: %w", err)
		}

		// Skip rows with insufficient columns
		if len(fields) <= r.idCol || len(fields) <= r.valueCol {
			continue
		}

		id := strings.TrimSpace(fields[r.idCol])
		if id == "" {
			continue
		}

		return Record[string, string]{ID: id, Value: fields[r.valueCol]}, nil
	}
}

// Close releases resources.
func (r *csvReader) Close() error {
	var firstErr error
	// Close in reverse order (gzip reader before underlying stream)
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
