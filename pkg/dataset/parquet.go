package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/parquet-go/parquet-go"
)

// parquetReader reads records from Parquet files.
// It streams by iterating through row groups.
type parquetReader struct {
	file     *parquet.File
	tempFile *os.File // Temp file for buffering (only if created by us)
	idCol    int
	valueCol int

	// Row group iteration state
	rowGroups    []parquet.RowGroup
	currentRGIdx int
	currentRows  parquet.Rows
	rowBuf       []parquet.Row
	bufIdx       int
	bufLen       int
}

// ParquetConfig names the columns holding identifiers and payloads.
type ParquetConfig struct {
	IDColumn    string
	ValueColumn string
}

// DefaultParquetConfig returns the configuration for the product dataset.
func DefaultParquetConfig() ParquetConfig {
	return ParquetConfig{IDColumn: DefaultIDColumn, ValueColumn: DefaultValueColumn}
}

// NewParquetReader creates a Parquet record reader from an io.ReaderAt.
func NewParquetReader(r io.ReaderAt, size int64, cfg ParquetConfig) (Reader, error) {
	file, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}
	return newParquetReader(file, nil, cfg)
}

// NewParquetReaderFromStream creates a Parquet record reader from a stream.
// Since Parquet requires random access, this buffers the entire stream to a temp file.
func NewParquetReaderFromStream(rc io.ReadCloser, cfg ParquetConfig) (Reader, error) {
	tempFile, err := os.CreateTemp("", "hashbench-dataset-*.parquet")
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	written, err := io.Copy(tempFile, rc)
	rc.Close()
	if err != nil {
		tempFile.Close()
		os.Remove(tempFile.Name())
		return nil, fmt.Errorf("buffer parquet data: %w", err)
	}

	file, err := parquet.OpenFile(tempFile, written)
	if err != nil {
		tempFile.Close()
		os.Remove(tempFile.Name())
		return nil, fmt.Errorf("open parquet file: %w", err)
	}

	r, err := newParquetReader(file, tempFile, cfg)
	if err != nil {
		tempFile.Close()
		os.Remove(tempFile.Name())
		return nil, err
	}
	return r, nil
}

// detectColumns resolves leaf column indices from the Parquet schema.
// Row values are tagged with leaf indices, which differ from field
// positions once the schema has nested groups.
func detectColumns(schema *parquet.Schema, cfg ParquetConfig) (idCol, valueCol int, err error) {
	idName, valueName := NormalizeColumn(cfg.IDColumn), NormalizeColumn(cfg.ValueColumn)
	idCol, valueCol = -1, -1
	for _, field := range schema.Fields() {
		name := NormalizeColumn(field.Name())
		if name != idName && name != valueName {
			continue
		}
		leaf, ok := schema.Lookup(field.Name())
		if !ok {
			return -1, -1, fmt.Errorf("%w: parquet column %q is not a leaf", ErrMissingColumn, field.Name())
		}
		if name == idName {
			idCol = leaf.ColumnIndex
		}
		if name == valueName {
			valueCol = leaf.ColumnIndex
		}
	}

	if idCol < 0 {
		return idCol, valueCol, fmt.Errorf("%w: parquet schema has no %q", ErrMissingColumn, cfg.IDColumn)
	}
	if valueCol < 0 {
		return idCol, valueCol, fmt.Errorf("%w: parquet schema has no %q", ErrMissingColumn, cfg.ValueColumn)
	}
	return idCol, valueCol, nil
}

func newParquetReader(file *parquet.File, tempFile *os.File, cfg ParquetConfig) (*parquetReader, error) {
	idCol, valueCol, err := detectColumns(file.Schema(), cfg)
	if err != nil {
		return nil, err
	}

	return &parquetReader{
		file:         file,
		tempFile:     tempFile,
		idCol:        idCol,
		valueCol:     valueCol,
		rowGroups:    file.RowGroups(),
		currentRGIdx: -1,
		rowBuf:       make([]parquet.Row, 1024),
	}, nil
}

// Next returns the next record.
func (r *parquetReader) Next() (Record[string, string], error) {
	for {
		if r.bufIdx < r.bufLen {
			row := r.rowBuf[r.bufIdx]
			r.bufIdx++
			rec := r.rowToRecord(row)
			if rec.ID == "" {
				continue
			}
			return rec, nil
		}

		if r.currentRows != nil {
			n, err := r.currentRows.ReadRows(r.rowBuf)
			if n > 0 {
				r.bufIdx = 0
				r.bufLen = n
				continue
			}
			if err != nil && !errors.Is(err, io.EOF) {
				return Record[string, string]{}, fmt.Errorf("read parquet rows: %w", err)
			}
			// Current row group exhausted
			r.currentRows.Close()
			r.currentRows = nil
		}

		r.currentRGIdx++
		if r.currentRGIdx >= len(r.rowGroups) {
			return Record[string, string]{}, io.EOF
		}
		r.currentRows = r.rowGroups[r.currentRGIdx].Rows()
	}
}

func (r *parquetReader) rowToRecord(row parquet.Row) Record[string, string] {
	var rec Record[string, string]
	for _, val := range row {
		if val.IsNull() {
			continue
		}
		col := val.Column()
		if col == r.idCol {
			rec.ID = valueString(val)
		}
		if col == r.valueCol {
			rec.Value = valueString(val)
		}
	}
	return rec
}

// valueString renders numeric identifiers in decimal so integer and string
// id columns produce the same keys.
func valueString(val parquet.Value) string {
	switch val.Kind() {
	case parquet.Int32:
		return strconv.FormatInt(int64(val.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(val.Int64(), 10)
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(val.ByteArray())
	default:
		return val.String()
	}
}

// Close releases resources.
func (r *parquetReader) Close() error {
	if r.currentRows != nil {
		r.currentRows.Close()
	}

	if r.tempFile != nil {
		name := r.tempFile.Name()
		r.tempFile.Close()
		os.Remove(name)
	}
	return nil
}
