package historical

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"unsafe"

	"golang.org/x/exp/mmap"
)

var ErrEof = errors.New("EOF")

// Source memory-maps a file of fixed-size binary records and reads them by
// index. T must not be padded; the record count is fixed at open time.
type Source[T any] struct {
	reader     *mmap.ReaderAt
	count      int64
	bufferPool sync.Pool
}

// OpenSource maps the file at path and validates that its size is a whole
// number of T records.
func OpenSource[T any](path string) (*Source[T], error) {
	recordSize := int64(unsafe.Sizeof(*new(T)))
	if recordSize == 0 {
		return nil, fmt.Errorf("record type of %q has zero size", path)
	}

	reader, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to map %q: %w", path, err)
	}

	total := int64(reader.Len())
	if total%recordSize != 0 {
		_ = reader.Close()
		return nil, fmt.Errorf("%q holds %d bytes, not a multiple of the %d byte record", path, total, recordSize)
	}

	return &Source[T]{
		reader: reader,
		count:  total / recordSize,
		bufferPool: sync.Pool{
			New: func() interface{} {
				buffer := make([]byte, recordSize)
				return &buffer
			},
		},
	}, nil
}

func (s *Source[T]) Len() int64 {
	return s.count
}

func (s *Source[T]) At(index int64, data *T) error {
	if index < 0 || index >= s.count {
		return ErrEof
	}

	buffer := s.bufferPool.Get().(*[]byte)
	defer s.bufferPool.Put(buffer)

	n, err := s.reader.ReadAt(*buffer, index*int64(len(*buffer)))
	if err != nil && err != io.EOF {
		return fmt.Errorf("unable to read record %d: %w", index, err)
	}
	if n < len(*buffer) {
		return ErrEof
	}

	*data = *(*T)(unsafe.Pointer(&(*buffer)[0])) // #nosec G103
	return nil
}

func (s *Source[T]) Close() error {
	return s.reader.Close()
}
