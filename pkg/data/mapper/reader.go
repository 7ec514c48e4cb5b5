package mapper

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/exp/mmap"
)

var ErrEof = errors.New("EOF")

// Reader reads fixed size little endian records of type T from a memory mapped file.
type Reader[T any] struct {
	dataSourceName string
	reader         *mmap.ReaderAt
	entrySize      int
	bufferPool     *sync.Pool
}

func NewReader[T any](dataSourceName string) *Reader[T] {
	entrySize := binary.Size(new(T))
	return &Reader[T]{
		dataSourceName: dataSourceName,
		entrySize:      entrySize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buffer := make([]byte, max(entrySize, 0))
				return &buffer
			},
		},
	}
}

func (r *Reader[T]) Open() error {
	if r.entrySize <= 0 {
		return fmt.Errorf("record type of %q has no fixed size", r.dataSourceName)
	}

	var err error
	r.reader, err = mmap.Open(r.dataSourceName)
	if err != nil {
		return fmt.Errorf("unable to open data source %q: %w", r.dataSourceName, err)
	}
	return nil
}

func (r *Reader[T]) Close() {
	if r.reader != nil {
		_ = r.reader.Close()
	}
}

func (r *Reader[T]) Read(index int64, data *T) error {
	buffer := r.bufferPool.Get().(*[]byte)
	defer r.bufferPool.Put(buffer)

	offset := index * int64(r.entrySize)

	n, err := r.reader.ReadAt(*buffer, offset)
	if err != nil && err != io.EOF {
		return fmt.Errorf("unable to read: %w", err)
	}
	if n < len(*buffer) {
		return ErrEof
	}

	if err := binary.Read(bytes.NewReader(*buffer), binary.LittleEndian, data); err != nil {
		return fmt.Errorf("unable to decode entry %d: %w", index, err)
	}
	return nil
}

func (r *Reader[T]) EntryCount() (int64, error) {
	if r.entrySize <= 0 {
		return 0, fmt.Errorf("record type has no fixed size")
	}
	entrySize := int64(r.entrySize)

	fileInfo, err := os.Stat(r.dataSourceName)
	if err != nil {
		return 0, fmt.Errorf("unable to get data source %q stats: %w", r.dataSourceName, err)
	}

	totalSize := fileInfo.Size()
	if totalSize%entrySize != 0 {
		return 0, fmt.Errorf("file size is not a multiple of entry size")
	}

	return totalSize / entrySize, nil
}
