package encoding

import (
	"fmt"
	"golang.org/x/xerrors"
	"io"
	"io/ioutil"
)

// Stock handler for text/plain content. Any value can be rendered through
// fmt, but decoding only fills *string receivers.
type textEncoder struct{}

func (handler *textEncoder) Encode(
	engine ContentEngine, writer io.Writer, content interface{},
) error {
	// Strings go out untouched. Anything else renders the way fmt.Sprint
	// would print it.
	if text, isString := content.(string); isString {
		_, err := io.WriteString(writer, text)
		return err
	}

	_, err := fmt.Fprint(writer, content)
	return err
}

func (handler *textEncoder) Decode(
	engine ContentEngine, reader io.Reader, contentReceiver interface{},
) error {
	// Text carries no structure to map onto fields, so only a plain string
	// pointer makes sense as a receiver.
	receiver, isStringPointer := contentReceiver.(*string)
	if !isStringPointer {
		return xerrors.New("text content requires a *string receiver")
	}

	raw, err := ioutil.ReadAll(reader)
	if err != nil {
		return err
	}

	*receiver = string(raw)
	return nil
}
