package encoding

import (
	"golang.org/x/xerrors"
	"io"
	"io/ioutil"
	"net/url"
)

// Handles encoding to / decoding from application/x-www-form-urlencoded
type formEncoder struct{}

func (handler *formEncoder) Encode(
	engine ContentEngine, writer io.Writer, content interface{},
) error {
	spanEngine := engine.(*SpanEngine)

	var values url.Values

	switch typed := content.(type) {
	case url.Values:
		values = typed
	case *url.Values:
		values = *typed
	default:
		values = make(url.Values)
		if err := spanEngine.schemaEncoder.Encode(content, values); err != nil {
			return xerrors.Errorf("error building form values: %w", err)
		}
	}

	_, err := io.WriteString(writer, values.Encode())
	return err
}

func (handler *formEncoder) Decode(
	engine ContentEngine, reader io.Reader, contentReceiver interface{},
) error {
	spanEngine := engine.(*SpanEngine)

	formBytes, err := ioutil.ReadAll(reader)
	if err != nil {
		return err
	}

	values, err := url.ParseQuery(string(formBytes))
	if err != nil {
		return xerrors.Errorf("error parsing form values: %w", err)
	}

	// A url.Values receiver gets the parsed pairs without any field mapping.
	if receiver, ok := contentReceiver.(*url.Values); ok {
		*receiver = values
		return nil
	}

	return spanEngine.schemaDecoder.Decode(contentReceiver, values)
}
