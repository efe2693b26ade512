package body

import (
	"bytes"
	"fmt"
	"github.com/illuscio-dev/spanbody-go/encoding"
	"github.com/illuscio-dev/spanbody-go/mimetype"
	"github.com/illuscio-dev/spanbody-go/spanerrors"
	"strings"
	"unicode/utf8"
)

// Largest declared length that can be staged in one in-memory buffer on this
// platform.
const maxInt = int64(^uint(0) >> 1)

/*
IntoBytes drains the body's remaining content into memory, consuming and
closing the body. Failures reading the underlying source surface as
BodyReadError, with the source error available through Unwrap().
*/
func (body *Body) IntoBytes() ([]byte, error) {
	defer func() {
		_ = body.Close()
	}()

	buffer := bytes.NewBuffer(make([]byte, 0, 1024))
	if _, err := buffer.ReadFrom(body); err != nil {
		return nil, spanerrors.BodyReadError.New(
			"error draining body content", nil, err,
		)
	}

	return buffer.Bytes(), nil
}

/*
IntoString drains the body's remaining content and returns it as a string,
consuming and closing the body.

A declared length too large for this platform's buffers fails with
BodyTooLargeError before any bytes are read. Drained content that is not
valid UTF-8 fails with InvalidTextError. Read failures surface as
BodyReadError.

The declared length is used as a capacity hint only. It never caps how much
is read: bodies with an unknown length still drain in full.
*/
func (body *Body) IntoString() (string, error) {
	defer func() {
		_ = body.Close()
	}()

	if body.length > maxInt {
		return "", spanerrors.BodyTooLargeError.New(
			fmt.Sprintf(
				"declared length %v cannot be buffered on this platform",
				body.length,
			),
			nil,
			nil,
		)
	}

	sizeHint := 0
	if body.length > 0 {
		sizeHint = int(body.length)
	}

	buffer := bytes.NewBuffer(make([]byte, 0, sizeHint))
	if _, err := buffer.ReadFrom(body); err != nil {
		return "", spanerrors.BodyReadError.New(
			"error draining body content", nil, err,
		)
	}

	if !utf8.Valid(buffer.Bytes()) {
		return "", spanerrors.InvalidTextError.New(
			"body content is not valid UTF-8 text", nil, nil,
		)
	}

	return buffer.String(), nil
}

/*
IntoObject drains the body's remaining content and decodes it into
contentReceiver as mimeType through dataEngine, consuming and closing the
body. Read failures surface as BodyReadError; content that cannot be decoded
fails with BodyDecodeError, with the engine's error available through
Unwrap().
*/
func (body *Body) IntoObject(
	dataEngine encoding.ContentEngine,
	mimeType mimetype.MimeType,
	contentReceiver interface{},
) error {
	drained, err := body.IntoBytes()
	if err != nil {
		return err
	}

	err = dataEngine.Decode(mimeType, contentReceiver, bytes.NewReader(drained))
	if err != nil {
		return spanerrors.BodyDecodeError.New(
			"body content could not be decoded as "+string(mimeType), nil, err,
		)
	}

	return nil
}

// IntoJSON drains the body's remaining content and decodes it into
// contentReceiver as json. See IntoObject for the error contract.
func (body *Body) IntoJSON(
	dataEngine encoding.ContentEngine, contentReceiver interface{},
) error {
	return body.IntoObject(dataEngine, mimetype.JSON, contentReceiver)
}

/*
IntoForm drains the body's remaining content as text and decodes it into
contentReceiver as url-encoded form data, consuming and closing the body. The
text staging means IntoString's size and UTF-8 failures apply, in addition to
BodyDecodeError for content that does not parse as a form.
*/
func (body *Body) IntoForm(
	dataEngine encoding.ContentEngine, contentReceiver interface{},
) error {
	content, err := body.IntoString()
	if err != nil {
		return err
	}

	err = dataEngine.Decode(
		mimetype.FORM, contentReceiver, strings.NewReader(content),
	)
	if err != nil {
		return spanerrors.BodyDecodeError.New(
			"body content could not be decoded as "+string(mimetype.FORM),
			nil,
			err,
		)
	}

	return nil
}

/*
IntoSource surrenders the body's underlying ByteSource, consuming the body.
The source is handed over raw: its remaining bytes are whatever the body has
not consumed yet, with no declared-length enforcement applied. The source is
NOT closed; the new owner is responsible for it.
*/
func (body *Body) IntoSource() ByteSource {
	return body.source
}

/*
FromObject encodes content as mimeType through dataEngine and returns a Body
over the encoded bytes, with the declared length set to the encoded size and
the mimetype set to mimeType. Encode failures surface as BodyEncodeError,
with the engine's error available through Unwrap().
*/
func FromObject(
	dataEngine encoding.ContentEngine,
	mimeType mimetype.MimeType,
	content interface{},
) (*Body, error) {
	buffer := bytes.Buffer{}

	err := dataEngine.Encode(mimeType, content, &buffer)
	if err != nil {
		return nil, spanerrors.BodyEncodeError.New(
			"content could not be encoded as "+string(mimeType), nil, err,
		)
	}

	newBody := FromBytes(buffer.Bytes())
	newBody.SetMime(mimeType)
	return newBody, nil
}

// Encodes content as json and returns a Body over the encoded bytes. See
// FromObject for the error contract.
func FromJSON(
	dataEngine encoding.ContentEngine, content interface{},
) (*Body, error) {
	return FromObject(dataEngine, mimetype.JSON, content)
}

// Encodes content as url-encoded form data and returns a Body over the
// encoded bytes. See FromObject for the error contract.
func FromForm(
	dataEngine encoding.ContentEngine, content interface{},
) (*Body, error) {
	return FromObject(dataEngine, mimetype.FORM, content)
}
