package body

import (
	"fmt"
	"github.com/illuscio-dev/spanbody-go/mimetype"
	"io"
)

// Length value reported by Body.Length() when the total byte length of the
// content is not known ahead of time.
const LengthUnknown = int64(-1)

/*
Body is a streaming message payload: a byte source combined with a declared
content length, a fallback mimetype, and a running count of bytes already
delivered to the consumer.

Reading

Body implements io.Reader. When a length is declared, reads stop with a clean
io.EOF as soon as the declared length has been delivered, even if the
underlying source holds more bytes. When no length is declared, reads continue
until the source is exhausted.

Length

The declared length is used by transport layers to decide how to frame the
content. When a length is known ahead of time it is strongly recommended to
declare it; bodies without one force consumers to read to end-of-stream.

Mimetype

The mimetype carried by a Body is a fallback for transport layers that have no
better declaration to work from. Constructors set it from what they know about
the content (OCTET_STREAM when nothing better can be said) and SetMime() can
override it.

A Body is exclusively owned: it is not safe for concurrent use, and the
terminal converters (IntoBytes, IntoString, IntoObject, IntoSource and
friends) consume it. Use Chain() to combine two bodies into one.
*/
type Body struct {
	// The underlying byte stream. Exclusively owned by this Body.
	source ByteSource

	// Fallback mimetype for the content. UNKNOWN when no type is declared.
	mime mimetype.MimeType

	// Declared total byte length of the content, or LengthUnknown. This is the
	// total declared at construction, it is not reduced as content is read.
	length int64

	// Number of bytes delivered to the consumer through Read().
	bytesRead int64
}

// Creates a Body with no content: a declared length of 0 and an OCTET_STREAM
// fallback mimetype.
func Empty() *Body {
	return &Body{
		source: &memorySource{},
		mime:   mimetype.OCTET_STREAM,
		length: 0,
	}
}

/*
Creates a Body over an in-memory byte slice. The declared length is the slice
length and the fallback mimetype is OCTET_STREAM.

The Body takes ownership of data: the caller should not modify the slice after
handing it over.
*/
func FromBytes(data []byte) *Body {
	return &Body{
		source: &memorySource{data: data},
		mime:   mimetype.OCTET_STREAM,
		length: int64(len(data)),
	}
}

// Creates a Body over a string. The declared length is the byte length of the
// string's UTF-8 encoding and the fallback mimetype is TEXT.
func FromString(content string) *Body {
	return &Body{
		source: &memorySource{data: []byte(content)},
		mime:   mimetype.TEXT,
		length: int64(len(content)),
	}
}

/*
Creates a Body over an arbitrary reader with a caller-declared length. Pass a
negative length when the total is not known ahead of time; consumers then read
until the source is exhausted. The fallback mimetype is OCTET_STREAM.

The Body takes ownership of the reader. Readers that already implement
ByteSource are used directly; all others are wrapped in a buffered source that
forwards Close() to the reader when it is an io.Closer.
*/
func FromReader(reader io.Reader, length int64) *Body {
	if length < 0 {
		length = LengthUnknown
	}

	return &Body{
		source: newByteSource(reader),
		mime:   mimetype.OCTET_STREAM,
		length: length,
	}
}

// Declared total byte length of the body content, or LengthUnknown when the
// length was not known at construction. The value is the construction-time
// total: it does not shrink as content is read.
func (body *Body) Length() int64 {
	return body.length
}

// Whether the body was declared with a length of exactly 0. A body with an
// unknown length is never considered empty, even if its source turns out to
// produce no bytes.
func (body *Body) IsEmpty() bool {
	return body.length == 0
}

// Fallback mimetype of the content. UNKNOWN when no type is declared.
func (body *Body) Mime() mimetype.MimeType {
	return body.mime
}

// Replaces the fallback mimetype of the content. Pass mimetype.UNKNOWN to
// clear the declared type.
func (body *Body) SetMime(mimeType mimetype.MimeType) {
	body.mime = mimeType
}

// Number of bytes delivered to the consumer through Read() so far. Bytes taken
// through Peek() / Consume() are not counted.
func (body *Body) BytesRead() int64 {
	return body.bytesRead
}

// Debug representation. The source is hidden since it may be a live stream.
func (body *Body) String() string {
	return fmt.Sprintf(
		"Body{source: <hidden>, length: %v, bytesRead: %v}",
		body.length,
		body.bytesRead,
	)
}

/*
Read pulls up to len(buffer) bytes from the underlying source, enforcing the
declared length: once BytesRead() reaches a declared Length(), Read reports a
clean io.EOF without touching the source, even when the source itself holds
more bytes. Bodies with an unknown length read until the source is exhausted.

Read is safe to call with any buffer size, including buffers larger than the
declared remaining length, and keeps reporting io.EOF once the body is spent.
BytesRead() only advances by bytes actually delivered.
*/
func (body *Body) Read(buffer []byte) (int, error) {
	if body.length >= 0 {
		remaining := body.length - body.bytesRead
		if remaining == 0 {
			// Declared-length cutoff. A normal termination, never an error.
			return 0, io.EOF
		}
		if int64(len(buffer)) > remaining {
			buffer = buffer[:remaining]
		}
	}

	byteCount, err := body.source.Read(buffer)
	body.bytesRead += int64(byteCount)
	return byteCount, err
}

/*
Peek returns the bytes the underlying source currently has buffered without
consuming them, filling the buffer when it is empty. Returns io.EOF once the
source is exhausted.

Peek and Consume are raw windows onto the source: the declared-length cutoff
enforced by Read() does NOT apply here, and Consume() does not advance
BytesRead(). Callers that drive a Body through Peek / Consume are doing their
own framing and own their own length accounting.
*/
func (body *Body) Peek() ([]byte, error) {
	return body.source.Peek()
}

// Advances the underlying source past count bytes previously seen through
// Peek(). Subject to the same caveats as Peek(): no declared-length
// enforcement, no BytesRead() accounting.
func (body *Body) Consume(count int) {
	body.source.Consume(count)
}

// Releases the underlying source when it holds a closeable resource, such as
// the open file of a body made with FromPath(). Bodies over in-memory content
// treat Close as a no-op. Chained bodies close both of their inputs.
func (body *Body) Close() error {
	if closer, ok := body.source.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
