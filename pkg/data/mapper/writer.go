package mapper

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
)

// Writer appends fixed size little endian records of type T to a file.
type Writer[T any] struct {
	dataSourceName string
	file           *os.File
	buffer         *bufio.Writer
	count          int64
}

func NewWriter[T any](dataSourceName string) *Writer[T] {
	return &Writer[T]{dataSourceName: dataSourceName}
}

func (w *Writer[T]) Create() error {
	file, err := os.Create(w.dataSourceName)
	if err != nil {
		return fmt.Errorf("unable to create data source %q: %w", w.dataSourceName, err)
	}
	w.file = file
	w.buffer = bufio.NewWriter(file)
	return nil
}

func (w *Writer[T]) Write(data T) error {
	if err := binary.Write(w.buffer, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("unable to write entry %d: %w", w.count, err)
	}
	w.count++
	return nil
}

func (w *Writer[T]) Count() int64 {
	return w.count
}

func (w *Writer[T]) Close() error {
	if w.file == nil {
		return nil
	}
	flushErr := w.buffer.Flush()
	closeErr := w.file.Close()
	w.file = nil
	if flushErr != nil {
		return fmt.Errorf("unable to flush %q: %w", w.dataSourceName, flushErr)
	}
	return closeErr
}
