package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/eunmann/hashbench/pkg/s3fetch"
)

// ObjectStreamer streams objects from a remote store.
type ObjectStreamer interface {
	StreamObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Source describes where and how to read a dataset.
type Source struct {
	// Path is a local file path or an s3://bucket/key URI.
	Path string

	CSV     CSVConfig
	Parquet ParquetConfig
}

// Open returns a reader for src. Parquet is selected by a ".parquet"
// extension, anything else is read as CSV (gzip if it ends in ".gz").
// remote is only used for s3:// paths and may be nil otherwise.
func Open(ctx context.Context, src Source, remote ObjectStreamer) (Reader, error) {
	if strings.HasPrefix(src.Path, "s3://") {
		return openRemote(ctx, src, remote)
	}

	f, err := os.Open(src.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}

	if !isParquet(src.Path) {
		return NewCSVReaderFromStream(f, src.Path, src.CSV)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat dataset: %w", err)
	}
	r, err := NewParquetReader(f, info.Size(), src.Parquet)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileReader{Reader: r, file: f}, nil
}

// Load opens src and reads all of its records.
func Load(ctx context.Context, src Source, remote ObjectStreamer) ([]Record[string, string], error) {
	r, err := Open(ctx, src, remote)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return ReadAll(r)
}

func openRemote(ctx context.Context, src Source, remote ObjectStreamer) (Reader, error) {
	if remote == nil {
		return nil, errors.New("s3 dataset requires an object streamer")
	}
	bucket, key, err := s3fetch.ParseS3URI(src.Path)
	if err != nil {
		return nil, fmt.Errorf("parse dataset URI: %w", err)
	}
	if key == "" {
		return nil, fmt.Errorf("dataset URI %q has no object key", src.Path)
	}

	body, err := remote.StreamObject(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	if isParquet(key) {
		return NewParquetReaderFromStream(body, src.Parquet)
	}
	return NewCSVReaderFromStream(body, key, src.CSV)
}

func isParquet(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".parquet")
}

// fileReader closes the backing file along with the wrapped reader.
type fileReader struct {
	Reader
	file *os.File
}

func (r *fileReader) Close() error {
	err := r.Reader.Close()
	if cerr := r.file.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
