package body

import (
	"bufio"
	"io"
)

/*
ByteSource is the capability a Body needs from its underlying byte stream: a
plain read plus a buffered look at upcoming bytes.

Peek returns a view of the bytes the source currently has buffered without
consuming them, filling the buffer first when it is empty. Consume advances
the source past bytes previously returned by Peek. The Peek / Consume pair is
aimed at protocol framers that need to inspect content before committing to
it; plain consumers should stick to Read.

Any io.Reader can back a Body (see FromReader), but readers that implement
ByteSource themselves are used without additional buffering.
*/
type ByteSource interface {
	io.Reader

	// Returns the currently buffered bytes without consuming them, filling the
	// buffer when it is empty. Returns io.EOF once the source is exhausted.
	Peek() ([]byte, error)

	// Advances the source past count bytes previously seen through Peek().
	Consume(count int)
}

// In-memory ByteSource over a byte slice. Backs bodies made from bytes and
// strings.
type memorySource struct {
	data   []byte
	offset int
}

func (source *memorySource) Read(buffer []byte) (int, error) {
	if source.offset >= len(source.data) {
		return 0, io.EOF
	}

	copied := copy(buffer, source.data[source.offset:])
	source.offset += copied
	return copied, nil
}

func (source *memorySource) Peek() ([]byte, error) {
	if source.offset >= len(source.data) {
		return nil, io.EOF
	}
	return source.data[source.offset:], nil
}

func (source *memorySource) Consume(count int) {
	source.offset += count
	if source.offset > len(source.data) {
		source.offset = len(source.data)
	}
}

// ByteSource wrapping an arbitrary io.Reader in a buffered reader so it can
// service Peek / Consume. When the wrapped reader is an io.Closer, closing
// the source closes it.
type readerSource struct {
	buffer *bufio.Reader
	closer io.Closer
}

func (source *readerSource) Read(buffer []byte) (int, error) {
	return source.buffer.Read(buffer)
}

func (source *readerSource) Peek() ([]byte, error) {
	// Force a fill when nothing is buffered so Peek never reports an empty
	// window mid-stream.
	if source.buffer.Buffered() == 0 {
		if _, err := source.buffer.Peek(1); err != nil {
			return nil, err
		}
	}
	return source.buffer.Peek(source.buffer.Buffered())
}

func (source *readerSource) Consume(count int) {
	// Discard reads ahead when count exceeds the buffered window, which keeps
	// Consume usable for skipping as well.
	_, _ = source.buffer.Discard(count)
}

func (source *readerSource) Close() error {
	if source.closer == nil {
		return nil
	}
	return source.closer.Close()
}

// Picks the ByteSource for a reader: readers that already implement ByteSource
// are used as-is, everything else gets buffered.
func newByteSource(reader io.Reader) ByteSource {
	if source, ok := reader.(ByteSource); ok {
		return source
	}

	closer, _ := reader.(io.Closer)
	return &readerSource{
		buffer: bufio.NewReader(reader),
		closer: closer,
	}
}
