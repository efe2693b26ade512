package body

import (
	"github.com/illuscio-dev/spanbody-go/mimetype"
	"io"
)

/*
Chain creates a Body that reads this body's remaining content followed by
other's, consuming both. Neither input may be used again afterwards.

The new body's fallback mimetype is kept when the two inputs declare an
identical mimetype (including both declaring none) and falls back to
OCTET_STREAM when they differ, so downstream readers are not handed a
specific type for mixed content.

The new body's length is the sum of each input's remaining unread bytes when
both inputs declare a length. When either input's length is unknown, or the
sum does not fit in an int64, the new length is unknown.

Each input is drained through its own Read() path, so the inputs' declared
length cutoffs still bound the chained content. The new body's BytesRead()
starts at 0.
*/
func (body *Body) Chain(other *Body) *Body {
	mime := body.mime
	if other.mime != mime {
		mime = mimetype.OCTET_STREAM
	}

	length := LengthUnknown
	if body.length >= 0 && other.length >= 0 {
		// Both remainders are non-negative, so a negative sum means the
		// addition overflowed.
		remaining := (body.length - body.bytesRead) +
			(other.length - other.bytesRead)
		if remaining >= 0 {
			length = remaining
		}
	}

	return &Body{
		source: &chainSource{first: body, second: other},
		mime:   mime,
		length: length,
	}
}

/*
ByteSource that reads one body to completion, then switches to a second.
Reads go through each body's own Read() so the inputs' declared-length
cutoffs hold. Peek and Consume forward to each body's raw buffer in turn,
switching sides once the first body's source is exhausted.
*/
type chainSource struct {
	first  *Body
	second *Body

	// Set once first reports end-of-stream on either the read or peek path.
	firstDone bool
}

func (source *chainSource) Read(buffer []byte) (int, error) {
	if !source.firstDone {
		byteCount, err := source.first.Read(buffer)
		if err != io.EOF {
			return byteCount, err
		}

		source.firstDone = true
		if byteCount > 0 {
			return byteCount, nil
		}
	}

	return source.second.Read(buffer)
}

func (source *chainSource) Peek() ([]byte, error) {
	if !source.firstDone {
		buffered, err := source.first.Peek()
		if err == nil && len(buffered) > 0 {
			return buffered, nil
		}
		if err != nil && err != io.EOF {
			return nil, err
		}
		source.firstDone = true
	}

	return source.second.Peek()
}

func (source *chainSource) Consume(count int) {
	if !source.firstDone {
		source.first.Consume(count)
		return
	}
	source.second.Consume(count)
}

// Closes both chained bodies, reporting the first error hit.
func (source *chainSource) Close() error {
	firstErr := source.first.Close()
	secondErr := source.second.Close()

	if firstErr != nil {
		return firstErr
	}
	return secondErr
}
